package notifications

import "github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"

// Notifier defines the interface for notification services
type Notifier interface {
	// SendAlert sends an alert with the specified level and message
	SendAlert(level, message string) error

	// NotifyMirroredTrade reports one executed mirror trade
	NotifyMirroredTrade(side types.TradeSide, sizeUSD float64, question string) error
}

// NopNotifier discards all alerts; used when no channel is configured
type NopNotifier struct{}

func (NopNotifier) SendAlert(level, message string) error { return nil }

func (NopNotifier) NotifyMirroredTrade(side types.TradeSide, sizeUSD float64, question string) error {
	return nil
}
