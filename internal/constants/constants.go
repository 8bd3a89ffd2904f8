package constants

import "time"

const (
	// CacheRetentionSeconds is the hard ceiling on dedup cache entry age.
	// Entries older than this are evicted regardless of their own dedup window.
	CacheRetentionSeconds = 3600
)

const (
	// UnknownValue substitutes any missing event field.
	UnknownValue = "Unknown"

	// DefaultMessage substitutes a missing human-readable message.
	DefaultMessage = "No message provided"
)

const (
	// FingerprintSeparator joins fingerprint segments. Field values are not
	// expected to contain it.
	FingerprintSeparator = "|"

	// MessageArgsSeparator joins ordered message arguments into one
	// fingerprint segment.
	MessageArgsSeparator = "_"
)

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
	ShutdownTimeout    = 5 * time.Second
)
