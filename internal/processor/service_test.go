package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redwatch/internal/dedup"
	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/internal/registry"
)

type recordingExecutor struct {
	mu    sync.Mutex
	calls []string
}

func (x *recordingExecutor) Execute(ctx context.Context, name string, evt *event.Event) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.calls = append(x.calls, name+"@"+evt.GetDeviceID())
}

func (x *recordingExecutor) Calls() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]string(nil), x.calls...)
}

type stubRepository struct {
	sources []registry.Source
}

func (r *stubRepository) ListSources(ctx context.Context) ([]registry.Source, error) {
	return r.sources, nil
}

type testClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(d)
}

func newTestService(t *testing.T, deviceSources ...registry.Source) (*Service, *recordingExecutor, *testClock) {
	t.Helper()

	clock := &testClock{cur: time.Unix(1_700_000_000, 0)}
	cache := dedup.NewCacheWithClock(logger.NopLogger(), clock.Now)

	reg := registry.New(&stubRepository{sources: deviceSources}, logger.NopLogger())
	if len(deviceSources) > 0 {
		_, err := reg.Reload(context.Background())
		require.NoError(t, err)
	}

	executor := &recordingExecutor{}
	svc := NewService(cache, reg, executor, logger.NopLogger())
	return svc, executor, clock
}

func TestProcess_DuplicateSuppressionWindow(t *testing.T) {
	svc, executor, clock := newTestService(t)
	ctx := context.Background()

	evt := event.Event{
		MessageID:          "Alert.1.0",
		EventType:          "Alert",
		DeviceID:           "dev1",
		DedupWindowSeconds: 5,
		Actions:            []string{"NotifyAdmin"},
	}

	// t=0 fresh, t=2 suppressed, t=6 fresh again (anchor reset).
	svc.Process(ctx, &evt)
	clock.Advance(2 * time.Second)
	svc.Process(ctx, &evt)
	clock.Advance(4 * time.Second)
	svc.Process(ctx, &evt)

	assert.Equal(t, []string{"NotifyAdmin@dev1", "NotifyAdmin@dev1"}, executor.Calls())
}

func TestProcess_UnconfiguredDeviceDefaults(t *testing.T) {
	svc, executor, _ := newTestService(t)

	// No DeviceId, no device config: processed as "Unknown" with no
	// actions and no duplicate tracking.
	svc.Process(context.Background(), &event.Event{EventType: "Alert"})

	assert.Empty(t, executor.Calls())
}

func TestProcess_MessageArgsDistinguishEvents(t *testing.T) {
	svc, executor, _ := newTestService(t)
	ctx := context.Background()

	base := event.Event{
		MessageID:          "Fan.1.0",
		EventType:          "Alert",
		DeviceID:           "dev1",
		DedupWindowSeconds: 60,
		Actions:            []string{"LogChange"},
	}

	a := base
	a.MessageArgs = []string{"A"}
	b := base
	b.MessageArgs = []string{"B"}

	svc.Process(ctx, &a)
	svc.Process(ctx, &b)

	assert.Len(t, executor.Calls(), 2)
}

func TestProcess_DeviceConfigSuppliesWindowAndActions(t *testing.T) {
	src := registry.Source{Name: "dev1.json", Data: []byte(`{
		"device_id": "dev1",
		"default_dedup_window": 30,
		"event_actions": [
			{"message_id": "Alert.1.0", "event_type": "Alert", "actions": ["NotifyAdmin", "LogChange"]}
		]
	}`)}

	svc, executor, _ := newTestService(t, src)
	ctx := context.Background()

	evt := event.Event{MessageID: "Alert.1.0", EventType: "Alert", DeviceID: "dev1"}

	svc.Process(ctx, &evt)
	assert.Equal(t, []string{"NotifyAdmin@dev1", "LogChange@dev1"}, executor.Calls())

	// Device default window applies, so the immediate repeat is
	// suppressed.
	svc.Process(ctx, &evt)
	assert.Len(t, executor.Calls(), 2)
}

func TestProcess_EventWindowOverridesDeviceDefault(t *testing.T) {
	src := registry.Source{Name: "dev1.json", Data: []byte(`{
		"device_id": "dev1",
		"default_dedup_window": 3600
	}`)}

	svc, executor, clock := newTestService(t, src)
	ctx := context.Background()

	evt := event.Event{
		MessageID:          "Alert.1.0",
		EventType:          "Alert",
		DeviceID:           "dev1",
		DedupWindowSeconds: 2,
		Actions:            []string{"LogChange"},
	}

	svc.Process(ctx, &evt)
	clock.Advance(3 * time.Second)
	svc.Process(ctx, &evt)

	// The explicit 2s window won over the device's hour-long default.
	assert.Len(t, executor.Calls(), 2)
}

func TestProcessBatch_OrderAndIsolation(t *testing.T) {
	svc, executor, _ := newTestService(t)

	events := []event.Event{
		{EventType: "Alert", DeviceID: "dev1", Actions: []string{"NotifyAdmin"}},
		{},
		{EventType: "StatusChange", DeviceID: "dev2", Actions: []string{"LogChange"}},
	}

	svc.ProcessBatch(context.Background(), events)

	// The empty middle event degrades to defaults and does not abort
	// its siblings.
	assert.Equal(t, []string{"NotifyAdmin@dev1", "LogChange@dev2"}, executor.Calls())
}

func TestProcess_ForwardsFreshEventsOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var mu sync.Mutex
	var keys []string
	svc.SetForwarder(func(ctx context.Context, key string, evt *event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, key)
		return nil
	})

	evt := event.Event{
		MessageID:          "Alert.1.0",
		EventType:          "Alert",
		DeviceID:           "dev1",
		DedupWindowSeconds: 60,
	}

	svc.Process(ctx, &evt)
	svc.Process(ctx, &evt)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 1)
	assert.Equal(t, event.Fingerprint(&evt), keys[0])
}

func TestProcess_ForwarderErrorDoesNotFailProcessing(t *testing.T) {
	svc, executor, _ := newTestService(t)

	svc.SetForwarder(func(ctx context.Context, key string, evt *event.Event) error {
		return errors.New("broker unavailable")
	})

	evt := event.Event{EventType: "Alert", DeviceID: "dev1", Actions: []string{"LogChange"}}
	svc.Process(context.Background(), &evt)

	assert.Len(t, executor.Calls(), 1)
}
