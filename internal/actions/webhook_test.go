package actions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/pkg/circuitbreaker"
)

func TestWebhookNotifier_PostsEventSummary(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, 5*time.Second, nil, logger.NopLogger())
	n.Notify(context.Background(), &event.Event{
		DeviceID: "dev1",
		Severity: "Critical",
		Message:  "fan failure",
	})

	require.NotNil(t, got)
	assert.Equal(t, "dev1", got["device_id"])
	assert.Equal(t, "Critical", got["severity"])
}

func TestWebhookNotifier_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, 5*time.Second, nil, logger.NopLogger())
	n.policy.InitialInterval = time.Millisecond
	n.Notify(context.Background(), &event.Event{DeviceID: "dev1"})

	assert.Equal(t, int32(2), calls.Load())
}

func TestWebhookNotifier_FailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second, nil, logger.NopLogger())
	n.policy.InitialInterval = time.Millisecond
	n.policy.MaxAttempts = 2

	// Delivery failure is logged, never propagated.
	n.Notify(context.Background(), &event.Event{DeviceID: "dev1"})
}

func TestWebhookNotifier_CircuitBreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cb := circuitbreaker.NewWrapper(circuitbreaker.DefaultConfig("admin-webhook-test"))
	n := NewWebhookNotifier(srv.URL, time.Second, cb, logger.NopLogger())
	n.policy.InitialInterval = time.Millisecond
	n.policy.MaxAttempts = 1

	evt := &event.Event{DeviceID: "dev1", Severity: "Critical"}
	for i := 0; i < 4; i++ {
		n.Notify(context.Background(), evt)
	}

	// Every delivery failed, so the breaker trips and later
	// notifications short-circuit without reaching the endpoint.
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
