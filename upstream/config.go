package upstream

import "time"

const (
	DefaultTimeoutUDP = 500 * time.Millisecond
	DefaultTimeoutTCP = 2 * time.Second
	DefaultRetries    = 2
)

var (
	// TimeoutUDP and TimeoutTCP bound a single exchange attempt over each protocol.
	TimeoutUDP = DefaultTimeoutUDP
	TimeoutTCP = DefaultTimeoutTCP

	// Retries is how many additional attempts avast/retry-go makes per protocol before
	// SimpleUpstream falls through to the next one (or gives up, for TCP).
	Retries = DefaultRetries
)
