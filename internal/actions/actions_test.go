package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"redwatch/internal/event"
	"redwatch/internal/logger"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Action
	}{
		{name: "notify admin", raw: "NotifyAdmin", want: ActionNotifyAdmin},
		{name: "shutdown", raw: "ShutdownServer", want: ActionShutdownServer},
		{name: "log change", raw: "LogChange", want: ActionLogChange},
		{name: "monitor temperature", raw: "MonitorTemperature", want: ActionMonitorTemperature},
		{name: "initialize drive", raw: "InitializeDrive", want: ActionInitializeDrive},
		{name: "update inventory", raw: "UpdateInventory", want: ActionUpdateInventory},
		{name: "check power supplies", raw: "CheckPowerSupplies", want: ActionCheckPowerSupplies},
		{name: "unknown", raw: "RebootFluxCapacitor", want: ActionUnknown},
		{name: "case sensitive", raw: "notifyadmin", want: ActionUnknown},
		{name: "empty", raw: "", want: ActionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestActionString_RoundTrip(t *testing.T) {
	for name, action := range actionNames {
		assert.Equal(t, name, action.String())
	}
	assert.Equal(t, "Unknown", ActionUnknown.String())
}

func TestLogExecutor_ToleratesUnknownActions(t *testing.T) {
	x := NewLogExecutor(logger.NopLogger(), nil)
	evt := &event.Event{DeviceID: "dev1", Message: "fan failure"}

	// Unknown names must not panic or abort; the executor logs and
	// moves on.
	x.Execute(context.Background(), "NoSuchAction", evt)
	x.Execute(context.Background(), "NotifyAdmin", evt)
}

func TestLogExecutor_AllKnownActions(t *testing.T) {
	x := NewLogExecutor(logger.NopLogger(), nil)
	evt := &event.Event{
		DeviceID: "dev1",
		Message:  "drive offline",
		Origin:   &event.Origin{ODataID: "/redfish/v1/Systems/1/Storage/1"},
	}

	for name := range actionNames {
		x.Execute(context.Background(), name, evt)
	}
}
