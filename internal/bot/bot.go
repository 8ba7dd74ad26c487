package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/exchange"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/executor"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/logger"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/monitoring"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/notifications"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/reporting"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/risk"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/sizing"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/watcher"
	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

const (
	// Substituted when the source wallet's balance cannot be fetched and
	// the sizing mode does not depend on it.
	sentinelSourceBalance = 1_000_000.0

	// Bound on one event's trip through the pipeline so a stalled API call
	// cannot starve the queue.
	eventTimeout = 30 * time.Second

	dailyResetCheckInterval = time.Hour
)

// Bot wires the watcher queue into the decision-and-safety pipeline:
// verify source, snapshot the market, fetch balances, size, risk-check,
// execute, record the outcome.
type Bot struct {
	cfg      *config.Config
	api      exchange.Exchange
	sizer    *sizing.Sizer
	riskMgr  *risk.Manager
	executor *executor.Executor
	watcher  *watcher.Watcher
	notifier notifications.Notifier
	health   *monitoring.HealthChecker
	journal  *reporting.Journal
	log      *logger.Logger

	breakerAlerted bool
}

// New creates the bot from constructor-injected components
func New(
	cfg *config.Config,
	api exchange.Exchange,
	sizer *sizing.Sizer,
	riskMgr *risk.Manager,
	exec *executor.Executor,
	w *watcher.Watcher,
	notifier notifications.Notifier,
	health *monitoring.HealthChecker,
	journal *reporting.Journal,
	log *logger.Logger,
) *Bot {
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &Bot{
		cfg:      cfg,
		api:      api,
		sizer:    sizer,
		riskMgr:  riskMgr,
		executor: exec,
		watcher:  w,
		notifier: notifier,
		health:   health,
		journal:  journal,
		log:      log,
	}
}

// Run starts the watchers and consumes the shared queue until ctx is
// cancelled and the queue has drained. It is the only consumer; events are
// processed strictly in arrival order.
func (b *Bot) Run(ctx context.Context) error {
	b.printStartupInfo()

	b.watcher.OnReconnect = monitoring.RecordWatcherReconnect
	trades := b.watcher.Start(ctx)
	b.health.SetWatcherCount(len(b.cfg.WalletsToTrack))
	b.log.Info("started %d wallet watchers", len(b.cfg.WalletsToTrack))

	go b.dailyResetLoop(ctx)

	if err := b.notifier.SendAlert("info", "Mirror bot started"); err != nil {
		b.log.Warning("failed to send startup notification: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			b.drain(trades)
			b.shutdown()
			return ctx.Err()
		case trade, ok := <-trades:
			if !ok {
				// All watchers exited; nothing more will arrive.
				b.shutdown()
				return nil
			}
			monitoring.SetQueueDepth(len(trades))
			b.handleTrade(ctx, trade)
		}
	}
}

// handleTrade walks one event through the pipeline. Unverified sources are
// skipped without touching risk state; fetch and execution failures feed
// the error counter; a risk rejection is governance, not an error.
func (b *Bot) handleTrade(ctx context.Context, trade types.Trade) {
	b.log.Info("detected trade from %s: %s %.2f shares @ $%.4f",
		shortWallet(trade.Wallet), trade.Side, trade.Shares, trade.Price)

	if !b.riskMgr.IsWhaleVerified(trade.Wallet) {
		b.log.Warning("unverified wallet %s, skipping", shortWallet(trade.Wallet))
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	market, err := b.api.GetMarket(opCtx, trade.MarketID)
	if err != nil {
		b.recordFailure("market_fetch", "market fetch failed: %v", err)
		return
	}
	b.log.Info("market: %s (liquidity $%.2f)", market.Question, market.Liquidity)

	ownBalance, err := b.api.GetBalance(opCtx, b.cfg.YourWallet)
	if err != nil {
		b.recordFailure("balance_fetch", "balance fetch failed: %v", err)
		return
	}

	sourceBalance, err := b.api.GetBalance(opCtx, trade.Wallet)
	if err != nil {
		// Only proportional sizing reads the source balance; there the
		// ratio is the whole point of the mode, so a failed fetch fails
		// the event. The other modes proceed on a sentinel.
		if b.cfg.SizingMode == config.SizingProportional {
			b.recordFailure("source_balance_fetch", "source balance fetch failed: %v", err)
			return
		}
		b.log.Warning("source balance fetch failed, using sentinel: %v", err)
		sourceBalance = sentinelSourceBalance
	}

	sizeUSD := b.sizer.CalculateSize(&trade, ownBalance, sourceBalance)
	shares := b.sizer.SharesFromUSD(sizeUSD, trade.Price)
	if shares <= 0 {
		b.recordFailure("sizing", "sizing produced no shares (size $%.2f, price %.4f)", sizeUSD, trade.Price)
		return
	}
	b.log.Info("mirror size: $%.2f (%.2f shares)", sizeUSD, shares)

	if err := b.riskMgr.CheckCanTrade(&trade, market, sizeUSD); err != nil {
		b.log.Warning("risk check rejected trade: %v", err)
		monitoring.RecordRiskRejection(string(risk.ReasonOf(err)))
		return
	}

	resp, err := b.executor.ExecuteTrade(opCtx, &trade, shares)
	if err != nil {
		b.recordFailure("execution", "execution failed: %v", err)
		return
	}

	b.riskMgr.RecordTrade(&trade, sizeUSD)
	b.health.RecordTrade()
	monitoring.RecordMirroredTrade(string(trade.Side), sizeUSD)

	state := b.riskMgr.State()
	monitoring.SetDailyVolume(state.VolumeToday)

	b.journal.Record(reporting.Entry{
		Time:         time.Now(),
		SourceWallet: trade.Wallet,
		EventID:      trade.EventID,
		MarketID:     trade.MarketID,
		Question:     market.Question,
		Side:         trade.Side,
		SizeUSD:      sizeUSD,
		Shares:       shares,
		OrderID:      resp.OrderID,
		FilledShares: resp.FilledShares,
		AvgFillPrice: resp.AvgFillPrice,
	})

	if err := b.notifier.NotifyMirroredTrade(trade.Side, sizeUSD, market.Question); err != nil {
		b.log.Warning("failed to send trade notification: %v", err)
	}

	b.log.Trade("mirrored %s %.2f shares on %s, filled %.2f @ $%.4f (order %s)",
		trade.Side, shares, trade.MarketID, resp.FilledShares, resp.AvgFillPrice, resp.OrderID)
	b.log.Status("daily stats: %d trades, $%.2f volume", state.TradesToday, state.VolumeToday)
}

// recordFailure logs a pipeline failure and feeds the circuit breaker.
// The stage tag labels the metric; the breaker and health endpoint get the
// full message so the error context survives into the streak log.
func (b *Bot) recordFailure(stage, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	b.log.Error("%s", msg)
	b.health.AddError(msg)
	monitoring.RecordPipelineError(stage)
	b.riskMgr.RecordError(msg)

	state := b.riskMgr.State()
	monitoring.SetBreakerTripped(state.IsTripped)
	if state.IsTripped && !b.breakerAlerted {
		b.breakerAlerted = true
		b.health.SetBreakerTripped(true)
		b.log.Error("CIRCUIT BREAKER TRIPPED - trading halted until operator reset")
		if err := b.notifier.SendAlert("error", "Circuit breaker tripped: "+state.TripReason); err != nil {
			b.log.Warning("failed to send breaker alert: %v", err)
		}
	}
}

// dailyResetLoop clears the daily counters once per UTC day boundary. The
// hourly cadence is informational, not exact; MaybeResetDaily tracks the
// last reset date so multiple ticks near midnight cannot double-reset.
func (b *Bot) dailyResetLoop(ctx context.Context) {
	ticker := time.NewTicker(dailyResetCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if b.riskMgr.MaybeResetDaily(now) {
				monitoring.SetDailyVolume(0)
				b.log.Status("daily stats reset")
				if path, err := b.journal.Flush(now.AddDate(0, 0, -1)); err != nil {
					b.log.Warning("failed to write trade journal: %v", err)
				} else if path != "" {
					b.log.Info("trade journal written: %s", path)
				}
			}
		}
	}
}

// drain discards whatever is left in the queue once shutdown has begun.
// Executing against a cancelled context would only feed the error counter.
func (b *Bot) drain(trades <-chan types.Trade) {
	discarded := 0
	for {
		select {
		case _, ok := <-trades:
			if !ok {
				if discarded > 0 {
					b.log.Warning("discarded %d queued events on shutdown", discarded)
				}
				return
			}
			discarded++
		case <-time.After(10 * time.Second):
			b.log.Warning("queue did not close within shutdown grace period")
			return
		}
	}
}

func (b *Bot) shutdown() {
	b.health.SetWatcherCount(0)
	if path, err := b.journal.Flush(time.Now()); err != nil {
		b.log.Warning("failed to write trade journal: %v", err)
	} else if path != "" {
		b.log.Info("trade journal written: %s", path)
	}
	b.log.Info("bot stopped")
}

func shortWallet(wallet string) string {
	if len(wallet) <= 10 {
		return wallet
	}
	return wallet[:10]
}
