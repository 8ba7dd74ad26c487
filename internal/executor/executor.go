package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/exchange"
	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// Neutral mid price reported when a book side is empty. Callers must treat
// it as "unknown", never as a real quote.
const neutralPrice = 0.5

// Logger is the logging surface the executor needs
type Logger interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Executor submits risk-approved trades through the exchange, retrying
// transient failures with linear backoff and failing fast on exchange-side
// rejection.
type Executor struct {
	api exchange.Exchange
	cfg *config.Config
	log Logger

	// wait is swapped out by tests to observe backoff without sleeping
	wait func(ctx context.Context, d time.Duration) error
}

// New creates an executor on top of an exchange client
func New(api exchange.Exchange, cfg *config.Config, log Logger) *Executor {
	return &Executor{
		api:  api,
		cfg:  cfg,
		log:  log,
		wait: waitContext,
	}
}

func waitContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ExecuteTrade mirrors an observed trade with the given share count.
// Buys go out as Fill-And-Kill to avoid resting exposure; sells rest as
// Good-Till-Date so the close can work through the book.
func (e *Executor) ExecuteTrade(ctx context.Context, trade *types.Trade, shares float64) (*types.OrderResponse, error) {
	orderType := types.OrderTypeGTD
	if trade.Side == types.SideBuy {
		orderType = types.OrderTypeFAK
	}

	order := types.OrderRequest{
		MarketID:      trade.MarketID,
		Side:          trade.Side,
		Shares:        shares,
		Price:         trade.Price,
		OrderType:     orderType,
		ClientOrderID: uuid.NewString(),
	}

	resp, err := e.submitWithRetry(ctx, order)
	if err != nil {
		e.logError("trade execution failed: %v", err)
		return nil, err
	}

	e.logInfo("trade executed: %s %.2f shares @ $%.4f (order_id: %s)",
		trade.Side, resp.FilledShares, resp.AvgFillPrice, resp.OrderID)
	return resp, nil
}

// ExecuteMarketOrder mirrors a trade with a fixed USD amount at market
func (e *Executor) ExecuteMarketOrder(ctx context.Context, trade *types.Trade, usdAmount float64) (*types.OrderResponse, error) {
	if trade.Price <= 0 {
		return nil, fmt.Errorf("invalid price: %.4f", trade.Price)
	}

	order := types.OrderRequest{
		MarketID:      trade.MarketID,
		Side:          trade.Side,
		Shares:        usdAmount / trade.Price,
		OrderType:     types.OrderTypeMarket,
		ClientOrderID: uuid.NewString(),
	}
	return e.submitWithRetry(ctx, order)
}

// ClosePosition unwinds a held position by submitting the inverse side at
// market
func (e *Executor) ClosePosition(ctx context.Context, pos types.Position) (*types.OrderResponse, error) {
	closeSide := pos.Side.Opposite()

	e.logInfo("closing position: %s %.2f shares on %s", closeSide, pos.Shares, pos.MarketID)

	order := types.OrderRequest{
		MarketID:      pos.MarketID,
		Side:          closeSide,
		Shares:        pos.Shares,
		OrderType:     types.OrderTypeMarket,
		ClientOrderID: uuid.NewString(),
	}
	return e.submitWithRetry(ctx, order)
}

// EstimatePrice reads the touch for the given side: best ask for a buy,
// best bid for a sell. An empty book side yields the neutral fallback.
func (e *Executor) EstimatePrice(ctx context.Context, marketID string, side types.TradeSide) (float64, error) {
	book, err := e.api.GetOrderBook(ctx, marketID)
	if err != nil {
		return 0, err
	}

	if side == types.SideBuy {
		if len(book.Asks) > 0 {
			return book.Asks[0].Price, nil
		}
		return neutralPrice, nil
	}
	if len(book.Bids) > 0 {
		return book.Bids[0].Price, nil
	}
	return neutralPrice, nil
}

// submitWithRetry places the order up to RetryAttempts times. A terminal
// exchange status (cancelled, rejected) fails immediately: the order was
// adjudicated and retrying would duplicate intent. Everything else,
// including transport errors, is transient and waits RetryDelay x attempt
// before the next try.
func (e *Executor) submitWithRetry(ctx context.Context, order types.OrderRequest) (*types.OrderResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.RetryAttempts; attempt++ {
		resp, err := e.api.PlaceOrder(ctx, order)
		if err == nil {
			if resp.Status.IsSuccess() {
				return resp, nil
			}
			if resp.Status.IsTerminal() {
				return nil, &TerminalError{OrderID: resp.OrderID, Status: resp.Status}
			}
			lastErr = fmt.Errorf("order %s not executed: status %q", resp.OrderID, resp.Status)
		} else {
			lastErr = err
		}

		if attempt < e.cfg.RetryAttempts {
			delay := e.cfg.RetryDelay * time.Duration(attempt)
			e.logWarning("attempt %d/%d failed, retrying in %s: %v",
				attempt, e.cfg.RetryAttempts, delay, lastErr)
			if err := e.wait(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("failed to execute order after %d attempts: %w", e.cfg.RetryAttempts, lastErr)
}

func (e *Executor) logInfo(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Info(format, args...)
	}
}

func (e *Executor) logWarning(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Warning(format, args...)
	}
}

func (e *Executor) logError(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Error(format, args...)
	}
}
