package sizing

import (
	"math"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// Balance reserved against fee drift and partial-fill overshoot. The sizer
// never commits the last 5% of available funds.
const balanceBuffer = 0.95

// Sizer turns an observed trade plus balances into a mirrored stake in USD.
// It is a pure policy object: no shared state, safe to call from anywhere.
type Sizer struct {
	cfg *config.Config
}

// NewSizer creates a position sizer for the configured mode
func NewSizer(cfg *config.Config) *Sizer {
	return &Sizer{cfg: cfg}
}

// CalculateSize computes the stake for mirroring trade, clamped to the
// configured [MinStake, MaxStake] band and to 95% of the own balance.
func (s *Sizer) CalculateSize(trade *types.Trade, ownBalance, sourceBalance float64) float64 {
	var size float64

	switch s.cfg.SizingMode {
	case config.SizingProportional:
		ratio := ownBalance / math.Max(sourceBalance, 1)
		size = trade.Shares * trade.Price * ratio

	case config.SizingTierBased:
		multiplier := tierMultiplier(trade.Shares * trade.Price)
		size = trade.Shares * multiplier * s.cfg.ProportionalRatio

	default: // config.SizingFixed
		size = s.cfg.FixedStake
	}

	size = math.Max(size, s.cfg.MinStake)
	size = math.Min(size, s.cfg.MaxStake)
	size = math.Min(size, ownBalance*balanceBuffer)

	return size
}

// tierMultiplier weights the mirror by the size of the observed trade:
// small trades carry less signal, whale-sized trades carry more.
func tierMultiplier(tradeSizeUSD float64) float64 {
	switch {
	case tradeSizeUSD < 50:
		return 0.5
	case tradeSizeUSD < 200:
		return 1.0
	case tradeSizeUSD < 500:
		return 1.5
	default:
		return 2.0
	}
}

// SharesFromUSD converts a USD stake into a share count at the given price.
// Returns 0 for non-positive prices.
func (s *Sizer) SharesFromUSD(usdAmount, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return usdAmount / price
}
