package engine

import (
	"github.com/qoinlabs/qoinbots/internal/game"
	"github.com/qoinlabs/qoinbots/internal/market"
)

// Config tunes the orchestration layer. Market dynamics have their
// own config nested under Market.
type Config struct {
	// Seed feeds the single PCG source that drives every stochastic
	// decision in a run. Identical seed and inputs give identical runs.
	Seed uint64

	// StartingBalance is granted to the first bot and to bots added
	// through unlocks.
	StartingBalance float64

	// CrashChance is the per-tick probability of a forced crash once
	// the peak phase passes PeakCrashProgress.
	CrashChance       float64
	PeakCrashProgress float64

	// RecoveryForceProgress and RecoveryPriceRatio gate the forced
	// crash-to-recovery transition for deeply drawn-down markets.
	RecoveryForceProgress float64
	RecoveryPriceRatio    float64

	// PeerWindow is how many ticks back the herding view looks.
	PeerWindow int

	// MaxHistory bounds the per-asset price history kept for charts.
	MaxHistory int

	// Trading floor knobs.
	FloorUnlockTrades    int
	BubbleGrowthPerTrade float64
	BubbleDecay          float64
	BotAssetSpawnChance  float64
	BotAssetCrashFactor  float64

	Market market.Config
}

// DefaultConfig mirrors the tuning of the original game.
func DefaultConfig() Config {
	return Config{
		Seed:                  1,
		StartingBalance:       game.DefaultStartingBalance,
		CrashChance:           0.10,
		PeakCrashProgress:     0.8,
		RecoveryForceProgress: 0.9,
		RecoveryPriceRatio:    0.5,
		PeerWindow:            10,
		MaxHistory:            100,
		FloorUnlockTrades:     25,
		BubbleGrowthPerTrade:  0.01,
		BubbleDecay:           0.002,
		BotAssetSpawnChance:   0.02,
		BotAssetCrashFactor:   0.1,
		Market:                market.DefaultConfig(),
	}
}
