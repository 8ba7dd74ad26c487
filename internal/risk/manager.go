package risk

import (
	"fmt"
	"sync"
	"time"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// Logger is the logging surface the risk manager needs
type Logger interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Manager owns the process-wide risk state: circuit breaker, daily
// trade/volume counters and per-event exposure. All state lives behind one
// mutex; CheckCanTrade, RecordTrade and RecordError are each atomic with
// respect to one another.
type Manager struct {
	cfg *config.Config
	log Logger

	mu            sync.Mutex
	state         types.CircuitBreakerState
	eventExposure map[string]float64
	lastResetDay  string // UTC date of the last daily reset, e.g. "2026-08-30"

	tracked map[string]struct{}
}

// NewManager creates a risk manager with zeroed state
func NewManager(cfg *config.Config, log Logger) *Manager {
	tracked := make(map[string]struct{}, len(cfg.WalletsToTrack))
	for _, w := range cfg.WalletsToTrack {
		tracked[w] = struct{}{}
	}
	return &Manager{
		cfg:           cfg,
		log:           log,
		eventExposure: make(map[string]float64),
		lastResetDay:  time.Now().UTC().Format("2006-01-02"),
		tracked:       tracked,
	}
}

// CheckCanTrade runs every risk check in order and returns the first
// failure. Order matters: a tripped breaker must win over every other
// rejection reason.
func (m *Manager) CheckCanTrade(trade *types.Trade, market *types.Market, sizeUSD float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.IsTripped {
		reason := m.state.TripReason
		if reason == "" {
			reason = "unknown"
		}
		return newError(ReasonBreakerTripped, "circuit breaker tripped: %s", reason)
	}

	if m.state.VolumeToday+sizeUSD > m.cfg.MaxDailyVolume {
		return newError(ReasonDailyVolume, "daily volume limit exceeded: $%.2f + $%.2f > $%.2f",
			m.state.VolumeToday, sizeUSD, m.cfg.MaxDailyVolume)
	}

	if current := m.eventExposure[trade.EventID]; current+sizeUSD > m.cfg.MaxExposurePerEvent {
		return newError(ReasonEventExposure, "event exposure limit exceeded: $%.2f + $%.2f > $%.2f",
			current, sizeUSD, m.cfg.MaxExposurePerEvent)
	}

	if market.Liquidity < m.cfg.MinLiquidity {
		return newError(ReasonInsufficientLiquidity, "insufficient liquidity: $%.2f < $%.2f",
			market.Liquidity, m.cfg.MinLiquidity)
	}

	// Second, independently configured depth floor. Both floors read the
	// same liquidity proxy; a true book-depth metric belongs to the API.
	if market.Liquidity < m.cfg.CBMinDepthUSD {
		return newError(ReasonInsufficientDepth, "orderbook depth too low: $%.2f < $%.2f",
			market.Liquidity, m.cfg.CBMinDepthUSD)
	}

	m.logInfo("risk checks passed for trade on %s", trade.MarketID)
	return nil
}

// RecordTrade folds a successfully executed trade into the daily counters
// and event exposure, and clears the consecutive error streak.
func (m *Manager) RecordTrade(trade *types.Trade, sizeUSD float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.TradesToday++
	m.state.VolumeToday += sizeUSD
	m.state.ConsecutiveErrors = 0
	m.eventExposure[trade.EventID] += sizeUSD

	m.logInfo("trade recorded: #%d today, $%.2f volume, $%.2f exposure on event %s",
		m.state.TradesToday, m.state.VolumeToday, m.eventExposure[trade.EventID], trade.EventID)
}

// RecordError counts a pipeline failure. Reaching the configured
// consecutive-error trigger trips the breaker; the trip is one-way and only
// ResetCircuitBreaker clears it.
func (m *Manager) RecordError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ConsecutiveErrors++
	m.logWarning("error recorded: %s (consecutive: %d)", message, m.state.ConsecutiveErrors)

	if !m.state.IsTripped && m.state.ConsecutiveErrors >= m.cfg.CBConsecutiveTrigger {
		m.state.IsTripped = true
		m.state.TripReason = fmt.Sprintf("too many consecutive errors: %d", m.state.ConsecutiveErrors)
		m.logError("CIRCUIT BREAKER TRIPPED: %s", m.state.TripReason)
	}
}

// ResetCircuitBreaker clears the trip latch. Operator intervention only;
// nothing in the pipeline calls this.
func (m *Manager) ResetCircuitBreaker() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsTripped = false
	m.state.ConsecutiveErrors = 0
	m.state.TripReason = ""
	m.logInfo("circuit breaker reset")
}

// ResetDailyStats zeroes the daily counters and exposure map. A tripped
// breaker survives the reset.
func (m *Manager) ResetDailyStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetDailyLocked(time.Now().UTC())
}

// MaybeResetDaily resets the daily stats once per UTC day boundary. It is
// idempotent within a day, so a high-frequency caller cannot double-reset.
// Returns true when a reset happened.
func (m *Manager) MaybeResetDaily(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := now.UTC().Format("2006-01-02")
	if day == m.lastResetDay {
		return false
	}
	m.resetDailyLocked(now.UTC())
	return true
}

func (m *Manager) resetDailyLocked(now time.Time) {
	m.state.TradesToday = 0
	m.state.VolumeToday = 0
	m.eventExposure = make(map[string]float64)
	m.lastResetDay = now.Format("2006-01-02")
	m.logInfo("daily stats reset")
}

// State returns a copy of the circuit breaker state
func (m *Manager) State() types.CircuitBreakerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// EventExposure returns today's accumulated USD exposure for an event
func (m *Manager) EventExposure(eventID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventExposure[eventID]
}

// IsWhaleVerified reports whether the wallet is on the tracked allow-list
func (m *Manager) IsWhaleVerified(wallet string) bool {
	_, ok := m.tracked[wallet]
	return ok
}

func (m *Manager) logInfo(format string, args ...interface{}) {
	if m.log != nil {
		m.log.Info(format, args...)
	}
}

func (m *Manager) logWarning(format string, args ...interface{}) {
	if m.log != nil {
		m.log.Warning(format, args...)
	}
}

func (m *Manager) logError(format string, args ...interface{}) {
	if m.log != nil {
		m.log.Error(format, args...)
	}
}
