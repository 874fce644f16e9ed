package game

import (
	"math/rand/v2"
	"time"

	"github.com/qoinlabs/qoinbots/internal/bot"
)

const (
	// offlineCap bounds how much away time is credited.
	offlineCap = 24 * time.Hour
	// offlineTickSeconds approximates the live tick rate for
	// converting per-tick trade cadence into wall time.
	offlineTickSeconds = 2.0
	// offlineRate discounts offline trading versus live play.
	offlineRate = 0.25
)

// OfflineReport summarizes the coarse simulation applied for time
// spent away from the game.
type OfflineReport struct {
	Elapsed  time.Duration
	Credited time.Duration
	Trades   int
	TotalPnL float64
	PerBot   map[string]int
}

// ApplyOfflineProgress runs a cheap statistical approximation of what
// each active bot would have done between sessions: trade count from
// its cadence, win odds from its live record clamped to keep offline
// swings mild. It mutates bot stats and the player aggregates.
func (s *State) ApplyOfflineProgress(elapsed time.Duration, rng *rand.Rand) OfflineReport {
	report := OfflineReport{
		Elapsed: elapsed,
		PerBot:  make(map[string]int),
	}
	if elapsed <= 0 {
		return report
	}
	credited := elapsed
	if credited > offlineCap {
		credited = offlineCap
	}
	report.Credited = credited

	seconds := credited.Seconds()
	for _, b := range s.ActiveBots() {
		prefs := b.Preferences()
		stats := b.Stats()

		tradeSeconds := float64(prefs.TradeEvery) * offlineTickSeconds
		count := int(seconds / tradeSeconds * offlineRate)
		if count <= 0 {
			continue
		}

		winProb := stats.WinRate
		if stats.Trades < 5 {
			winProb = 0.5
		}
		if winProb < 0.2 {
			winProb = 0.2
		}
		if winProb > 0.8 {
			winProb = 0.8
		}

		stake := stats.AverageTradeSize
		if stake <= 0 {
			stake = prefs.MinTradeSize
		}

		for i := 0; i < count; i++ {
			pnl := stake * 0.1 * (0.5 + rng.Float64())
			if rng.Float64() >= winProb {
				pnl = -pnl
			}
			funded := b.SettleOffline(pnl, stake)
			s.RecordTrade(bot.Trade{PnL: pnl}, funded)
			report.TotalPnL += pnl
		}
		report.Trades += count
		report.PerBot[b.ID()] = count
	}
	return report
}
