package risk

import (
	"errors"
	"fmt"
)

// Reason identifies which risk check rejected a trade
type Reason string

const (
	ReasonBreakerTripped        Reason = "BREAKER_TRIPPED"
	ReasonDailyVolume           Reason = "DAILY_VOLUME_EXCEEDED"
	ReasonEventExposure         Reason = "EVENT_EXPOSURE_EXCEEDED"
	ReasonInsufficientLiquidity Reason = "INSUFFICIENT_LIQUIDITY"
	ReasonInsufficientDepth     Reason = "INSUFFICIENT_DEPTH"
)

// Error is a governance rejection from the risk manager. It is expected
// behavior, not a system failure: callers must skip the trade without
// feeding the circuit breaker.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("risk check failed [%s]: %s", e.Reason, e.Message)
}

func newError(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a risk governance rejection
func IsRejection(err error) bool {
	var rejection *Error
	return errors.As(err, &rejection)
}

// ReasonOf extracts the rejection reason, or "" for non-risk errors
func ReasonOf(err error) Reason {
	var rejection *Error
	if errors.As(err, &rejection) {
		return rejection.Reason
	}
	return ""
}
