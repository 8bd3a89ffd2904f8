package registry

// ActionRule maps one (MessageID, EventType) pair to the actions to run
// when a matching event arrives. Rules are matched in file order,
// first match wins.
type ActionRule struct {
	MessageID string   `json:"message_id" yaml:"message_id"`
	EventType string   `json:"event_type" yaml:"event_type"`
	Actions   []string `json:"actions" yaml:"actions"`
}

// DeviceConfig is the per-device configuration overlay applied while
// resolving an event's dedup window and action list.
type DeviceConfig struct {
	DeviceID           string       `json:"device_id" yaml:"device_id"`
	Name               string       `json:"name" yaml:"name"`
	Type               string       `json:"type" yaml:"type"`
	Location           string       `json:"location" yaml:"location"`
	DefaultDedupWindow int          `json:"default_dedup_window" yaml:"default_dedup_window"`
	EventActions       []ActionRule `json:"event_actions" yaml:"event_actions"`
}

// Summary is the compact per-device view returned by List.
type Summary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Rules    int    `json:"rules"`
}
