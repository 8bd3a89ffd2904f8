// Package processor resolves each inbound event against the device
// registry, runs the duplicate check, and dispatches follow-up actions.
package processor

import (
	"context"
	"time"

	"redwatch/internal/actions"
	"redwatch/internal/constants"
	"redwatch/internal/dedup"
	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/internal/registry"
	"redwatch/pkg/metrics"
)

// Service is the event processor. The cache and registry are injected;
// the forwarder is optional and nil when disabled.
type Service struct {
	cache     *dedup.Cache
	registry  *registry.Registry
	executor  actions.Executor
	forwarder forwarderFunc
	retention time.Duration
	logger    logger.Logger
}

type forwarderFunc func(ctx context.Context, key string, evt *event.Event) error

func NewService(cache *dedup.Cache, reg *registry.Registry, executor actions.Executor, log logger.Logger) *Service {
	return &Service{
		cache:     cache,
		registry:  reg,
		executor:  executor,
		retention: constants.CacheRetentionSeconds * time.Second,
		logger:    log,
	}
}

// SetRetention overrides the cache entry age ceiling applied after each
// batch. Non-positive values keep the default.
func (s *Service) SetRetention(d time.Duration) {
	if d > 0 {
		s.retention = d
	}
}

// SetForwarder attaches an optional publisher for non-duplicate events.
func (s *Service) SetForwarder(publish func(ctx context.Context, key string, evt *event.Event) error) {
	s.forwarder = publish
}

// Process handles one event end to end. Malformed or partial events
// degrade to defaults rather than failing; a duplicate stops silently
// with no actions dispatched.
func (s *Service) Process(ctx context.Context, evt *event.Event) {
	start := time.Now()

	deviceID := evt.GetDeviceID()

	var devCfg *registry.DeviceConfig
	if cfg, ok := s.registry.Get(deviceID); ok {
		devCfg = &cfg
	}

	window := s.registry.ResolveDedupWindow(evt, devCfg)
	actionList := s.registry.ResolveActions(evt, devCfg)
	fingerprint := event.Fingerprint(evt)

	s.logger.Infow("Processing event",
		"event_type", evt.GetEventType(),
		"message_id", evt.GetMessageID(),
		"severity", evt.GetSeverity(),
		"device_id", deviceID,
		"dedup_window_seconds", window,
		"actions", actionList,
	)

	if s.cache.CheckAndRecord(fingerprint, window, deviceID) {
		metrics.EventsReceivedTotal.WithLabelValues("duplicate").Inc()
		metrics.ObserveEventProcessing(time.Since(start), "duplicate")
		s.logger.Infow("Skipping duplicate event",
			"device_id", deviceID,
			"dedup_window_seconds", window,
		)
		return
	}

	s.dispatch(ctx, actionList, evt)
	s.forward(ctx, fingerprint, evt)

	metrics.EventsReceivedTotal.WithLabelValues("processed").Inc()
	metrics.ObserveEventProcessing(time.Since(start), "processed")
}

// ProcessBatch handles an ordered batch. Each event is processed
// independently; afterwards the opportunistic retention eviction runs.
func (s *Service) ProcessBatch(ctx context.Context, events []event.Event) {
	for i := range events {
		s.Process(ctx, &events[i])
	}
	s.cache.ExpireOlderThan(s.retention)
}

// dispatch hands each resolved action name to the executor in list
// order. Unknown names are the executor's problem; there is no
// atomicity across the list.
func (s *Service) dispatch(ctx context.Context, actionList []string, evt *event.Event) {
	if len(actionList) == 0 {
		s.logger.Infow("No actions specified for this event",
			"device_id", evt.GetDeviceID(),
		)
		return
	}

	for _, name := range actionList {
		s.executor.Execute(ctx, name, evt)
	}
}

func (s *Service) forward(ctx context.Context, fingerprint string, evt *event.Event) {
	if s.forwarder == nil {
		return
	}
	if err := s.forwarder(ctx, fingerprint, evt); err != nil {
		s.logger.Errorw("Failed to forward processed event",
			"device_id", evt.GetDeviceID(),
			"error", err,
		)
	}
}
