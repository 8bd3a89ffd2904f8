// Package event defines the inbound hardware event model and the
// fingerprint used as the deduplication cache key.
package event

import (
	"redwatch/internal/constants"
)

// Origin references the resource that raised the event. Only the
// opaque locator string matters to the receiver.
type Origin struct {
	ODataID string `json:"@odata.id"`
}

// Event is one asynchronous notification pushed by a remote device.
// Every field is optional on the wire; accessors substitute documented
// defaults so downstream code never re-checks for absence.
//
// JSON field matching is case-insensitive, so payloads using either
// "MessageId" or "MessageID" land in MessageID.
type Event struct {
	EventID        string   `json:"EventId,omitempty"`
	EventType      string   `json:"EventType,omitempty"`
	EventTimestamp string   `json:"EventTimestamp,omitempty"`
	Severity       string   `json:"Severity,omitempty"`
	Message        string   `json:"Message,omitempty"`
	MessageID      string   `json:"MessageId,omitempty"`
	MessageArgs    []string `json:"MessageArgs,omitempty"`
	Origin         *Origin  `json:"OriginOfCondition,omitempty"`
	DeviceID       string   `json:"DeviceId,omitempty"`

	// DedupWindowSeconds suppresses repeats of the same fingerprint for
	// this many seconds. Zero or absent disables deduplication.
	DedupWindowSeconds int `json:"DeduplicationTimeWindow,omitempty"`

	// Actions, when present, overrides any device-config action mapping.
	Actions []string `json:"Actions,omitempty"`
}

func (e *Event) GetMessageID() string {
	if e == nil || e.MessageID == "" {
		return constants.UnknownValue
	}
	return e.MessageID
}

func (e *Event) GetEventType() string {
	if e == nil || e.EventType == "" {
		return constants.UnknownValue
	}
	return e.EventType
}

func (e *Event) GetSeverity() string {
	if e == nil || e.Severity == "" {
		return constants.UnknownValue
	}
	return e.Severity
}

func (e *Event) GetMessage() string {
	if e == nil || e.Message == "" {
		return constants.DefaultMessage
	}
	return e.Message
}

func (e *Event) GetDeviceID() string {
	if e == nil || e.DeviceID == "" {
		return constants.UnknownValue
	}
	return e.DeviceID
}

// GetOriginID returns the origin locator string, "Unknown" when the
// origin block or its locator is absent.
func (e *Event) GetOriginID() string {
	if e == nil || e.Origin == nil || e.Origin.ODataID == "" {
		return constants.UnknownValue
	}
	return e.Origin.ODataID
}

func (e *Event) GetDedupWindowSeconds() int {
	if e == nil {
		return 0
	}
	return e.DedupWindowSeconds
}

func (e *Event) GetActions() []string {
	if e == nil || e.Actions == nil {
		return []string{}
	}
	return e.Actions
}
