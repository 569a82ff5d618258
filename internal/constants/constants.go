package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	DefaultEventTopic = "chat_events"
)

const (
	ShutdownTimeout = 5 * time.Second
)

// Alert bodies are capped at this many characters before the truncation
// marker is appended.
const (
	AlertMaxLength      = 4000
	AlertTruncationMark = " [...]"
	DefaultAlertsPerSec = 5
	DefaultAlertsBurst  = 10
)

const (
	LedgerKeyPrefix = "infraction:"
)

const (
	DefaultReloadIntervalSeconds = 300
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)
