package exchange

import (
	"context"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// Exchange is the trading API surface the bot depends on.
// Implementations must bound every call with the request context.
type Exchange interface {
	// Market data
	GetMarket(ctx context.Context, marketID string) (*types.Market, error)
	GetOrderBook(ctx context.Context, marketID string) (*types.OrderBook, error)

	// Accounts
	GetBalance(ctx context.Context, wallet string) (float64, error)

	// Trading
	PlaceOrder(ctx context.Context, req types.OrderRequest) (*types.OrderResponse, error)
}
