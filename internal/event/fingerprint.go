package event

import (
	"strings"

	"redwatch/internal/constants"
)

// Fingerprint derives the deduplication cache key from an event's
// identifying fields. Two events are the same kind of event iff their
// fingerprints are equal.
//
// The computation is pure and total: missing fields substitute their
// defaults, never an error. The joined MessageArgs segment is appended
// only when non-empty, so an event without arguments and one with an
// all-empty argument list fingerprint identically.
func Fingerprint(e *Event) string {
	segments := []string{
		e.GetMessageID(),
		e.GetEventType(),
		e.GetDeviceID(),
		e.GetSeverity(),
		e.GetOriginID(),
	}

	if args := strings.Join(e.MessageArgs, constants.MessageArgsSeparator); args != "" {
		segments = append(segments, args)
	}

	return strings.Join(segments, constants.FingerprintSeparator)
}
