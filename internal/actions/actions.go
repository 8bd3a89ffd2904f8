// Package actions names the follow-up operations dispatched for each
// non-duplicate event and simulates their side effects.
package actions

// Action is the tagged vocabulary of known follow-up operations. Raw
// names outside the vocabulary parse to ActionUnknown; the raw string
// is kept alongside for logging.
type Action int

const (
	ActionUnknown Action = iota
	ActionNotifyAdmin
	ActionShutdownServer
	ActionLogChange
	ActionMonitorTemperature
	ActionInitializeDrive
	ActionUpdateInventory
	ActionCheckPowerSupplies
)

var actionNames = map[string]Action{
	"NotifyAdmin":        ActionNotifyAdmin,
	"ShutdownServer":     ActionShutdownServer,
	"LogChange":          ActionLogChange,
	"MonitorTemperature": ActionMonitorTemperature,
	"InitializeDrive":    ActionInitializeDrive,
	"UpdateInventory":    ActionUpdateInventory,
	"CheckPowerSupplies": ActionCheckPowerSupplies,
}

// Parse maps a raw action name to its vocabulary entry.
func Parse(name string) Action {
	if a, ok := actionNames[name]; ok {
		return a
	}
	return ActionUnknown
}

func (a Action) String() string {
	for name, action := range actionNames {
		if action == a {
			return name
		}
	}
	return "Unknown"
}
