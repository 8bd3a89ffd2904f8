package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"redwatch/internal/constants"
	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/pkg/circuitbreaker"
	"redwatch/pkg/retry"
)

// WebhookNotifier delivers NotifyAdmin events to an external admin
// endpoint. Delivery is best effort: failures are logged and never
// propagate into event processing. The circuit breaker keeps a dead
// endpoint from stalling every notification.
type WebhookNotifier struct {
	url    string
	client *http.Client
	cb     *circuitbreaker.Wrapper
	policy retry.Policy
	logger logger.Logger
}

func NewWebhookNotifier(url string, timeout time.Duration, cb *circuitbreaker.Wrapper, log logger.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	policy := retry.DefaultPolicy()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		cb:     cb,
		policy: policy,
		logger: log,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, evt *event.Event) {
	payload := map[string]interface{}{
		"device_id":  evt.GetDeviceID(),
		"severity":   evt.GetSeverity(),
		"message":    evt.GetMessage(),
		"message_id": evt.GetMessageID(),
		"origin":     evt.GetOriginID(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Errorw("Failed to marshal admin notification", "error", err)
		return
	}

	post := func() (interface{}, error) {
		return nil, retry.Retry(ctx, n.policy, func() error {
			return n.post(ctx, body)
		})
	}

	if n.cb != nil {
		_, err = n.cb.ExecuteWithContext(ctx, post)
		n.cb.RecordRequest(err == nil)
	} else {
		_, err = post()
	}
	if err != nil {
		n.logger.Warnw("Admin webhook notification failed",
			"url", n.url,
			"device_id", evt.GetDeviceID(),
			"error", err,
		)
	}
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return retry.NewFatalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
