package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/executor"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/logger"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/monitoring"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/reporting"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/risk"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/sizing"
	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// fakeExchange serves scripted market data and records placed orders
type fakeExchange struct {
	market       *types.Market
	marketErr    error
	balances     map[string]float64
	balanceErrs  map[string]error
	orderResp    *types.OrderResponse
	orderErr     error
	placedOrders []types.OrderRequest
}

func (f *fakeExchange) GetMarket(ctx context.Context, marketID string) (*types.Market, error) {
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	return f.market, nil
}

func (f *fakeExchange) GetOrderBook(ctx context.Context, marketID string) (*types.OrderBook, error) {
	return &types.OrderBook{}, nil
}

func (f *fakeExchange) GetBalance(ctx context.Context, wallet string) (float64, error) {
	if err := f.balanceErrs[wallet]; err != nil {
		return 0, err
	}
	return f.balances[wallet], nil
}

func (f *fakeExchange) PlaceOrder(ctx context.Context, req types.OrderRequest) (*types.OrderResponse, error) {
	f.placedOrders = append(f.placedOrders, req)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResp, nil
}

func testConfig() *config.Config {
	return &config.Config{
		WalletsToTrack: []string{"0xwhale"},
		YourWallet:     "0xme",

		SizingMode: config.SizingFixed,
		FixedStake: 25,
		MinStake:   5,
		MaxStake:   100,

		MaxExposurePerEvent:  500,
		MaxDailyVolume:       2000,
		MinLiquidity:         1000,
		CBConsecutiveTrigger: 3,
		CBMinDepthUSD:        100,

		RetryAttempts: 1,
	}
}

func healthyExchange() *fakeExchange {
	return &fakeExchange{
		market: &types.Market{
			ID:        "market1",
			EventID:   "event1",
			Question:  "Will it rain tomorrow?",
			Liquidity: 5000,
		},
		balances: map[string]float64{"0xme": 1000, "0xwhale": 50000},
		orderResp: &types.OrderResponse{
			OrderID:      "o1",
			Status:       types.OrderStatusFilled,
			FilledShares: 50,
			AvgFillPrice: 0.5,
		},
	}
}

func newTestBot(t *testing.T, cfg *config.Config, fake *fakeExchange) *Bot {
	t.Helper()
	t.Chdir(t.TempDir()) // the file logger writes under ./logs

	log, err := logger.NewLogger("test")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	riskMgr := risk.NewManager(cfg, log)
	return New(
		cfg,
		fake,
		sizing.NewSizer(cfg),
		riskMgr,
		executor.New(fake, cfg, log),
		nil, // watcher unused by handleTrade
		nil, // notifier defaults to nop
		monitoring.NewHealthChecker(),
		reporting.NewJournal(t.TempDir()),
		log,
	)
}

func testTrade(wallet string) types.Trade {
	return types.Trade{
		Wallet:    wallet,
		EventID:   "event1",
		MarketID:  "market1",
		Side:      types.SideBuy,
		Shares:    100,
		Price:     0.5,
		Timestamp: 1700000000,
	}
}

// TestHandleTrade_Success tests the full pipeline: a verified trade is
// sized, approved and executed, and the daily counters advance
func TestHandleTrade_Success(t *testing.T) {
	fake := healthyExchange()
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	require.Len(t, fake.placedOrders, 1)
	assert.Equal(t, types.SideBuy, fake.placedOrders[0].Side)
	assert.InDelta(t, 50.0, fake.placedOrders[0].Shares, 1e-9) // $25 at 0.50

	state := b.riskMgr.State()
	assert.Equal(t, 1, state.TradesToday)
	assert.InDelta(t, 25.0, state.VolumeToday, 1e-9)
	assert.Equal(t, 1, b.journal.Len())
}

// TestHandleTrade_UnverifiedWalletSkipped tests that an event from an
// untracked wallet is dropped without touching risk state
func TestHandleTrade_UnverifiedWalletSkipped(t *testing.T) {
	fake := healthyExchange()
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xstranger"))

	assert.Empty(t, fake.placedOrders)
	state := b.riskMgr.State()
	assert.Zero(t, state.TradesToday)
	assert.Zero(t, state.ConsecutiveErrors)
}

// TestHandleTrade_MarketFetchFailureFeedsBreaker tests that fetch failures
// count toward the circuit breaker and abort the event
func TestHandleTrade_MarketFetchFailureFeedsBreaker(t *testing.T) {
	fake := healthyExchange()
	fake.marketErr = errors.New("api down")
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	assert.Empty(t, fake.placedOrders)
	assert.Equal(t, 1, b.riskMgr.State().ConsecutiveErrors)
}

// TestHandleTrade_ConsecutiveFailuresTripBreaker tests that three failed
// events in a row halt trading for subsequent events
func TestHandleTrade_ConsecutiveFailuresTripBreaker(t *testing.T) {
	fake := healthyExchange()
	fake.marketErr = errors.New("api down")
	b := newTestBot(t, testConfig(), fake)

	for i := 0; i < 3; i++ {
		b.handleTrade(context.Background(), testTrade("0xwhale"))
	}
	require.True(t, b.riskMgr.State().IsTripped)

	// API recovers, breaker still blocks
	fake.marketErr = nil
	b.handleTrade(context.Background(), testTrade("0xwhale"))
	assert.Empty(t, fake.placedOrders)
}

// TestHandleTrade_RiskRejectionIsNotAnError tests that a governance
// rejection neither executes nor advances the error counter
func TestHandleTrade_RiskRejectionIsNotAnError(t *testing.T) {
	fake := healthyExchange()
	fake.market.Liquidity = 10 // below the floor
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	assert.Empty(t, fake.placedOrders)
	state := b.riskMgr.State()
	assert.Zero(t, state.TradesToday)
	assert.Zero(t, state.ConsecutiveErrors)
}

// TestHandleTrade_ExecutionFailureFeedsBreaker tests that a failed order
// submission counts as an error and records no trade
func TestHandleTrade_ExecutionFailureFeedsBreaker(t *testing.T) {
	fake := healthyExchange()
	fake.orderErr = errors.New("exchange unavailable")
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	state := b.riskMgr.State()
	assert.Zero(t, state.TradesToday)
	assert.Equal(t, 1, state.ConsecutiveErrors)
	assert.Zero(t, b.journal.Len())
}

// TestHandleTrade_SourceBalanceSentinel tests that fixed sizing proceeds
// on a sentinel when the source wallet's balance cannot be read
func TestHandleTrade_SourceBalanceSentinel(t *testing.T) {
	fake := healthyExchange()
	fake.balanceErrs = map[string]error{"0xwhale": errors.New("not indexed")}
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	require.Len(t, fake.placedOrders, 1)
	assert.Zero(t, b.riskMgr.State().ConsecutiveErrors)
}

// TestHandleTrade_ProportionalNeedsSourceBalance tests that proportional
// sizing fails the event instead of guessing when the source balance is
// unavailable
func TestHandleTrade_ProportionalNeedsSourceBalance(t *testing.T) {
	cfg := testConfig()
	cfg.SizingMode = config.SizingProportional
	cfg.ProportionalRatio = 0.02

	fake := healthyExchange()
	fake.balanceErrs = map[string]error{"0xwhale": errors.New("not indexed")}
	b := newTestBot(t, cfg, fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	assert.Empty(t, fake.placedOrders)
	assert.Equal(t, 1, b.riskMgr.State().ConsecutiveErrors)
}

// TestHandleTrade_SuccessResetsErrorStreak tests that a mirrored trade
// clears the consecutive error counter before the breaker trips
func TestHandleTrade_SuccessResetsErrorStreak(t *testing.T) {
	fake := healthyExchange()
	fake.marketErr = errors.New("api down")
	b := newTestBot(t, testConfig(), fake)

	b.handleTrade(context.Background(), testTrade("0xwhale"))
	b.handleTrade(context.Background(), testTrade("0xwhale"))
	require.Equal(t, 2, b.riskMgr.State().ConsecutiveErrors)

	fake.marketErr = nil
	b.handleTrade(context.Background(), testTrade("0xwhale"))

	state := b.riskMgr.State()
	assert.Zero(t, state.ConsecutiveErrors)
	assert.False(t, state.IsTripped)
	assert.Equal(t, 1, state.TradesToday)
}

// captureLog collects formatted log lines for assertions
type captureLog struct {
	entries []string
}

func (c *captureLog) Info(format string, args ...interface{}) {
	c.entries = append(c.entries, fmt.Sprintf(format, args...))
}

func (c *captureLog) Warning(format string, args ...interface{}) {
	c.entries = append(c.entries, fmt.Sprintf(format, args...))
}

func (c *captureLog) Error(format string, args ...interface{}) {
	c.entries = append(c.entries, fmt.Sprintf(format, args...))
}

// TestRecordFailure_KeepsErrorContext tests that the error streak carries
// the underlying failure message, not just a stage tag
func TestRecordFailure_KeepsErrorContext(t *testing.T) {
	cfg := testConfig()
	fake := healthyExchange()
	fake.marketErr = errors.New("api down")
	b := newTestBot(t, cfg, fake)

	capture := &captureLog{}
	b.riskMgr = risk.NewManager(cfg, capture)

	b.handleTrade(context.Background(), testTrade("0xwhale"))

	require.Equal(t, 1, b.riskMgr.State().ConsecutiveErrors)
	logged := strings.Join(capture.entries, "\n")
	assert.Contains(t, logged, "market fetch failed")
	assert.Contains(t, logged, "api down")
}

func TestShortWallet(t *testing.T) {
	assert.Equal(t, "0xabc", shortWallet("0xabc"))
	assert.Equal(t, "0x12345678", shortWallet("0x12345678901234"))
}
