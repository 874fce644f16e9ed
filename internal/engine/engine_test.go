package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/market"
)

func newTestEngine(t *testing.T, seed uint64) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = seed
	e, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return e
}

func TestTickEmitsClosingTickEvent(t *testing.T) {
	e := newTestEngine(t, 1)

	events := e.Tick()
	require.NotEmpty(t, events)

	last, ok := events[len(events)-1].(TickEvent)
	require.True(t, ok, "last event must be the tick event")
	assert.Equal(t, int64(1), last.Tick)
	assert.Len(t, last.Snapshot.Assets, len(market.Symbols()))
}

func TestRunDeterministicForSeed(t *testing.T) {
	run := func() []string {
		e := newTestEngine(t, 42)
		var trace []string
		for i := 0; i < 2000; i++ {
			for _, ev := range e.Tick() {
				switch v := ev.(type) {
				case TradeEvent:
					trace = append(trace, "trade:"+v.BotID+":"+v.Trade.Action.String())
				case PhaseChangedEvent:
					trace = append(trace, "phase:"+v.NewPhase.String())
				case CrashEvent:
					trace = append(trace, "crash")
				case BotUnlockedEvent:
					trace = append(trace, "unlock:"+v.BotID)
				case BubblePoppedEvent:
					trace = append(trace, "pop")
				}
			}
		}
		return trace
	}

	first := run()
	second := run()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestLongRunInvariants(t *testing.T) {
	e := newTestEngine(t, 7)

	for i := 0; i < 5000; i++ {
		e.Tick()

		for _, b := range e.State().Bots() {
			s := b.Stats()
			require.GreaterOrEqual(t, s.Balance, 0.0, "bot %s went negative at tick %d", b.ID(), i)
			require.Equal(t, s.Trades, s.Wins+s.Losses)
		}
	}

	snap := e.Snapshot()
	for _, a := range snap.Market.Assets {
		assert.Greater(t, a.Price, 0.0, "asset %s", a.Symbol)
		assert.GreaterOrEqual(t, a.Volatility, 0.0)
		assert.LessOrEqual(t, a.Volatility, 1.0)
	}
	assert.Greater(t, e.State().Player().TotalTrades, 0)
}

func TestNaturalCrashEntryAppliesShock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 31
	cfg.CrashChance = 0 // only the scheduled peak end can enter crash
	e, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 1_000; i++ {
		before := e.marketSnapshot()
		events := e.Tick()

		entered := false
		for _, ev := range events {
			if pc, ok := ev.(PhaseChangedEvent); ok && pc.NewPhase == market.PhaseCrash {
				entered = true
			}
		}
		if !entered {
			continue
		}

		var crash CrashEvent
		found := false
		for _, ev := range events {
			if c, ok := ev.(CrashEvent); ok {
				crash = c
				found = true
			}
		}
		require.True(t, found, "crash entry at tick %d produced no shock", e.CurrentTick())
		require.Len(t, crash.Shocks, len(before.Assets))
		for i, shock := range crash.Shocks {
			assert.Equal(t, before.Assets[i].Symbol, shock.Symbol)
			assert.Less(t, shock.Price, before.Assets[i].Price, "asset %s was not cut", shock.Symbol)
			assert.GreaterOrEqual(t, shock.Magnitude, 0.15)
			assert.LessOrEqual(t, shock.Magnitude, 0.50)
		}
		return
	}
	t.Fatal("market never entered the crash phase")
}

func TestLaterBotsSeeSameTickImpact(t *testing.T) {
	e := newTestEngine(t, 29)
	sym := e.assets[0].Symbol
	before := e.marketSnapshot().Assets[0].Price

	e.applyTradeImpact(sym, 0.01)
	e.markTrade(bot.Trade{Asset: sym, Action: bot.ActionBuy})

	snap, peers := e.botView(2)
	assert.Greater(t, snap.Assets[0].Price, before, "same-tick impact lost")
	assert.Equal(t, 1, peers.RecentTrades)
	assert.Equal(t, 1.0, peers.NetSignal)
}

func TestResumeContinuesBotAssetNumbering(t *testing.T) {
	e := newTestEngine(t, 37)
	e.botAssets = append(e.botAssets, e.spawnBotAsset(), e.spawnBotAsset())
	snap := e.Snapshot()

	resumed, err := Resume(DefaultConfig(), zerolog.Nop(), snap)
	require.NoError(t, err)
	next := resumed.spawnBotAsset()
	assert.Equal(t, market.Symbol("BOT3"), next.Symbol)
}

func TestPriceHistoryBounded(t *testing.T) {
	e := newTestEngine(t, 23)
	for i := 0; i < 500; i++ {
		e.Tick()
	}

	for _, sym := range market.Symbols() {
		h := e.PriceHistory(sym)
		assert.Len(t, h, DefaultConfig().MaxHistory, "history for %s", sym)
		for _, p := range h {
			assert.Greater(t, p, 0.0)
		}
	}
}

func TestPhaseEventsFollowCycleOrder(t *testing.T) {
	e := newTestEngine(t, 3)

	var phases []market.Phase
	for i := 0; i < 3000; i++ {
		for _, ev := range e.Tick() {
			if pc, ok := ev.(PhaseChangedEvent); ok {
				phases = append(phases, pc.NewPhase)
			}
		}
	}
	require.NotEmpty(t, phases)

	// Every transition lands on the natural successor unless it was a
	// forced crash or forced recovery, which still target those two
	// phases only.
	prev := market.PhaseGrowth
	for _, p := range phases {
		valid := p == prev.Next() || p == market.PhaseCrash || p == market.PhaseRecovery
		require.True(t, valid, "illegal transition %s -> %s", prev, p)
		prev = p
	}
}

func TestUnlocksLatchAndRosterGrows(t *testing.T) {
	e := newTestEngine(t, 11)

	seen := make(map[string]int)
	for i := 0; i < 5000; i++ {
		for _, ev := range e.Tick() {
			if u, ok := ev.(BotUnlockedEvent); ok {
				seen[u.BotID]++
			}
		}
	}

	require.NotEmpty(t, seen, "expected unlocks over a long run")
	for id, n := range seen {
		assert.Equal(t, 1, n, "unlock %s fired more than once", id)
		_, err := e.State().Bot(id)
		assert.NoError(t, err, "unlocked bot %s missing from roster", id)
	}
}

func TestForceCrashAppliesHaircuts(t *testing.T) {
	e := newTestEngine(t, 5)
	e.Tick()

	before := e.Snapshot().Market
	events := e.ForceCrash()

	var crash CrashEvent
	found := false
	for _, ev := range events {
		if c, ok := ev.(CrashEvent); ok {
			crash = c
			found = true
		}
	}
	require.True(t, found)
	require.Len(t, crash.Shocks, len(before.Assets))

	after := e.Snapshot().Market
	for i, a := range after.Assets {
		assert.Less(t, a.Price, before.Assets[i].Price+1e-12, "asset %s did not drop", a.Symbol)
	}
	for _, shock := range crash.Shocks {
		assert.GreaterOrEqual(t, shock.Magnitude, 0.15)
		assert.LessOrEqual(t, shock.Magnitude, 0.50)
	}
	assert.Equal(t, market.PhaseCrash, e.Cycle().Phase)
}

func TestSnapshotResumeContinuity(t *testing.T) {
	e := newTestEngine(t, 13)
	for i := 0; i < 500; i++ {
		e.Tick()
	}
	snap := e.Snapshot()

	cfg := DefaultConfig()
	cfg.Seed = 13
	resumed, err := Resume(cfg, zerolog.Nop(), snap)
	require.NoError(t, err)

	assert.Equal(t, e.CurrentTick(), resumed.CurrentTick())
	assert.Equal(t, e.Cycle().Phase, resumed.Cycle().Phase)
	assert.Equal(t, len(e.State().Bots()), len(resumed.State().Bots()))
	assert.Equal(t, e.State().Player(), resumed.State().Player())

	// A resumed engine keeps ticking without error.
	for i := 0; i < 100; i++ {
		resumed.Tick()
	}
	assert.Equal(t, snap.Tick+100, resumed.CurrentTick())
}

func TestBoostBot(t *testing.T) {
	e := newTestEngine(t, 17)
	err := e.BoostBot(bot.DefaultBotID, bot.Traits{RiskTolerance: 0.2}, 100)
	assert.NoError(t, err)

	err = e.BoostBot("nobody", bot.Traits{}, 100)
	assert.Error(t, err)
}

func TestAddCustomBot(t *testing.T) {
	e := newTestEngine(t, 19)

	b, err := e.AddCustomBot("Trader Jane")
	require.NoError(t, err)
	assert.Equal(t, bot.PersonalityCustom, b.Personality())

	_, err = e.State().Bot(b.ID())
	assert.NoError(t, err)
}
