package executor

import (
	"errors"
	"fmt"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// TerminalError marks an order the exchange adjudicated (cancelled or
// rejected). It is a hard execution failure and must never be retried.
type TerminalError struct {
	OrderID string
	Status  types.OrderStatus
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("order %s %s by exchange", e.OrderID, e.Status)
}

// IsTerminal reports whether err wraps an exchange-terminal rejection
func IsTerminal(err error) bool {
	var terminal *TerminalError
	return errors.As(err, &terminal)
}
