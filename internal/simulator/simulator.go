// Package simulator generates test event traffic against a running
// receiver, including rapid-fire duplicates for exercising the dedup
// window.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"redwatch/internal/constants"
	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/pkg/retry"
)

type Options struct {
	// Target is the receiver's event endpoint.
	Target string

	// EventsFile is a JSON array of event templates.
	EventsFile string

	// Delay between distinct events.
	Delay time.Duration

	// Duplicates, when positive, sends each event that many times at
	// DuplicateInterval spacing.
	Duplicates        int
	DuplicateInterval time.Duration
}

type Runner struct {
	opts   Options
	client *http.Client
	policy retry.Policy
	logger logger.Logger
}

func NewRunner(opts Options, log logger.Logger) *Runner {
	policy := retry.DefaultPolicy()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	return &Runner{
		opts:   opts,
		client: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		policy: policy,
		logger: log,
	}
}

// LoadEvents reads the event templates from the configured file.
func (r *Runner) LoadEvents() ([]event.Event, error) {
	data, err := os.ReadFile(r.opts.EventsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file %s: %w", r.opts.EventsFile, err)
	}

	var events []event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events file %s: %w", r.opts.EventsFile, err)
	}

	r.logger.Infow("Loaded events", "count", len(events), "file", r.opts.EventsFile)
	return events, nil
}

// Run sends every loaded event (with duplicates when requested) and
// returns the number of successful deliveries.
func (r *Runner) Run(ctx context.Context) (int, error) {
	events, err := r.LoadEvents()
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, fmt.Errorf("no events to simulate")
	}

	sent := 0
	for i := range events {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		repeats := 1
		if r.opts.Duplicates > 1 {
			repeats = r.opts.Duplicates
			r.logger.Infow("Simulating duplicate events",
				"count", repeats,
				"interval", r.opts.DuplicateInterval,
			)
		}

		for n := 0; n < repeats; n++ {
			if err := r.Send(ctx, &events[i]); err != nil {
				r.logger.Errorw("Failed to send event",
					"index", i,
					"error", err,
				)
			} else {
				sent++
			}
			if n < repeats-1 {
				if err := sleep(ctx, r.opts.DuplicateInterval); err != nil {
					return sent, err
				}
			}
		}

		if i < len(events)-1 {
			if err := sleep(ctx, r.opts.Delay); err != nil {
				return sent, err
			}
		}
	}

	r.logger.Infow("Simulation complete", "sent", sent)
	return sent, nil
}

// Send delivers one event wrapped in a batch envelope, retrying
// transient failures with exponential backoff.
func (r *Runner) Send(ctx context.Context, evt *event.Event) error {
	delivery := *evt
	delivery.EventID = uuid.New().String()
	delivery.EventTimestamp = time.Now().Format(time.RFC3339)

	envelope := event.Envelope{
		ODataType: "#Event.v1_3_0.Event",
		ID:        delivery.EventID,
		Name:      "Hardware Event",
		Context:   "Event Simulator",
		Events:    []event.Event{delivery},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	return retry.Retry(ctx, r.policy, func() error {
		return r.post(ctx, body)
	})
}

func (r *Runner) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.Target, bytes.NewReader(body))
	if err != nil {
		return retry.NewFatalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("receiver returned status %d", resp.StatusCode)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
