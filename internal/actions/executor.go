package actions

import (
	"context"

	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/pkg/metrics"
)

// Executor accepts resolved action names in list order. Implementations
// must tolerate unknown names without aborting the remaining list.
type Executor interface {
	Execute(ctx context.Context, name string, evt *event.Event)
}

// LogExecutor simulates every side effect as a structured log line.
// NotifyAdmin additionally posts to the admin webhook when one is
// configured.
type LogExecutor struct {
	logger   logger.Logger
	notifier *WebhookNotifier
}

func NewLogExecutor(log logger.Logger, notifier *WebhookNotifier) *LogExecutor {
	return &LogExecutor{logger: log, notifier: notifier}
}

func (x *LogExecutor) Execute(ctx context.Context, name string, evt *event.Event) {
	action := Parse(name)
	if action != ActionUnknown {
		metrics.ActionsExecutedTotal.WithLabelValues(name).Inc()
	} else {
		metrics.ActionsExecutedTotal.WithLabelValues("Unknown").Inc()
	}

	switch action {
	case ActionNotifyAdmin:
		x.logger.Infow("ACTION: would notify admin",
			"message", evt.GetMessage(),
			"device_id", evt.GetDeviceID(),
		)
		if x.notifier != nil {
			x.notifier.Notify(ctx, evt)
		}
	case ActionShutdownServer:
		x.logger.Infow("ACTION: would initiate shutdown",
			"device_id", evt.GetDeviceID(),
		)
	case ActionLogChange:
		x.logger.Infow("ACTION: would log change to event database")
	case ActionMonitorTemperature:
		x.logger.Infow("ACTION: would increase temperature monitoring frequency",
			"device_id", evt.GetDeviceID(),
		)
	case ActionInitializeDrive:
		x.logger.Infow("ACTION: would initialize drive",
			"origin", evt.GetOriginID(),
		)
	case ActionUpdateInventory:
		x.logger.Infow("ACTION: would update inventory database",
			"device_id", evt.GetDeviceID(),
		)
	case ActionCheckPowerSupplies:
		x.logger.Infow("ACTION: would schedule power supply diagnostics",
			"device_id", evt.GetDeviceID(),
		)
	default:
		x.logger.Warnw("ACTION: unknown action",
			"action", name,
			"device_id", evt.GetDeviceID(),
		)
	}
}
