package bot

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoinlabs/qoinbots/internal/market"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// testSnapshot is a market hot enough to clear the trade threshold:
// strong momentum on every asset so the trend, volume, and
// personality signals all fire.
func testSnapshot() market.Snapshot {
	cfg := market.DefaultConfig()
	assets := make([]market.Asset, 0, 3)
	for _, sym := range market.Symbols() {
		a := cfg.NewAsset(sym)
		a.Trend = 0.9
		a.Change = 0.05
		assets = append(assets, a)
	}
	return market.Snapshot{Assets: assets, Tick: 100}
}

func hotPeers() PeerView {
	return PeerView{ActiveBots: 3, RecentTrades: 4, NetSignal: 1}
}

func TestTradeDelayGatesEarlyTicks(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 10)
	require.NoError(t, err)

	rng := testRand(1)
	snap := testSnapshot()

	// qoin trades every 15 ticks at base; no mood or patience combo
	// brings that below 2 ticks, so tick 1 is always gated.
	assert.False(t, b.ShouldTrade(snap, PeerView{}, 1, rng))

	out, err := b.Trade(snap, PeerView{}, 1, rng)
	require.NoError(t, err)
	assert.Nil(t, out.Trade)
}

func TestBalanceFloorBlocksTrading(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 10)
	require.NoError(t, err)
	b.stats.Balance = b.prefs.MinTradeSize // below the 1.1x margin

	rng := testRand(2)
	assert.False(t, b.ShouldTrade(testSnapshot(), PeerView{}, 10_000, rng))
}

func TestInactiveBotNeverTrades(t *testing.T) {
	b, err := NewFromPreset("fomo-frank", 100)
	require.NoError(t, err)
	b.SetActive(false)

	rng := testRand(3)
	snap := testSnapshot()
	for tick := int64(0); tick < 500; tick++ {
		out, err := b.Trade(snap, PeerView{}, tick, rng)
		require.NoError(t, err)
		assert.Nil(t, out.Trade)
	}
}

func TestTradeStatsStayConsistent(t *testing.T) {
	b, err := NewFromPreset("fomo-frank", 100)
	require.NoError(t, err)

	rng := testRand(7)
	snap := testSnapshot()
	traded := 0
	for tick := int64(0); tick < 5_000; tick++ {
		out, err := b.Trade(snap, hotPeers(), tick, rng)
		require.NoError(t, err)
		if out.Trade == nil {
			continue
		}
		traded++

		s := b.Stats()
		assert.Equal(t, s.Trades, s.Wins+s.Losses)
		assert.InDelta(t, float64(s.Wins)/float64(s.Trades), s.WinRate, 1e-9)
		assert.GreaterOrEqual(t, s.Balance, emergencyFloor)
		assert.GreaterOrEqual(t, out.Trade.Size, b.prefs.MinTradeSize)
		assert.LessOrEqual(t, out.Trade.Confidence, 1.0)
		assert.LessOrEqual(t, math.Abs(out.Trade.PnL), out.Trade.Size)
	}
	require.Greater(t, traded, 0, "expected at least one trade in 5000 ticks")
}

func TestTradeSizeRespectsBalanceCap(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 10)
	require.NoError(t, err)
	b.prefs.MinTradeSize = 0.25

	rng := testRand(11)
	snap := testSnapshot()
	traded := 0
	for tick := int64(0); tick < 2_000; tick++ {
		balanceBefore := b.Stats().Balance
		out, err := b.Trade(snap, hotPeers(), tick, rng)
		require.NoError(t, err)
		if out.Trade == nil {
			continue
		}
		traded++
		assert.LessOrEqual(t, out.Trade.Size, balanceBefore*maxBalanceFraction+1e-9)
		assert.GreaterOrEqual(t, out.Trade.Size, 0.25)
	}
	require.Greater(t, traded, 0, "expected at least one trade in 2000 ticks")
}

func TestEmergencyFundingRefillsBalance(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 1)
	require.NoError(t, err)

	funded := b.applyTradeStats(-0.95, 0.9)
	assert.True(t, funded)
	assert.Equal(t, emergencyRefill, b.Stats().Balance)

	funded = b.applyTradeStats(0.5, 0.5)
	assert.False(t, funded)
}

func TestStreakBookkeeping(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 100)
	require.NoError(t, err)

	b.applyTradeStats(1, 1)
	b.applyTradeStats(1, 1)
	b.applyTradeStats(1, 1)
	assert.Equal(t, 3, b.Stats().CurrentStreak)
	assert.Equal(t, 3, b.Stats().LongestWinStreak)

	b.applyTradeStats(-1, 1)
	b.applyTradeStats(-1, 1)
	assert.Equal(t, -2, b.Stats().CurrentStreak)
	assert.Equal(t, 2, b.Stats().LongestLossStreak)
	assert.Equal(t, 3, b.Stats().LongestWinStreak)
}

func TestMoodAbsoluteOverrides(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Bot)
		want  Mood
	}{
		{
			name: "near-broke forces depressed",
			setup: func(b *Bot) {
				b.stats.Balance = 0.3
			},
			want: MoodDepressed,
		},
		{
			name: "sustained success forces enlightened",
			setup: func(b *Bot) {
				b.stats.Balance = 500
				b.stats.Trades = 60
				b.stats.Wins = 55
				b.stats.WinRate = float64(55) / 60
			},
			want: MoodEnlightened,
		},
		{
			name: "deep loss streak forces panicked",
			setup: func(b *Bot) {
				b.stats.Balance = 50
				b.stats.Trades = 10
				b.stats.CurrentStreak = -5
			},
			want: MoodPanicked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewFromPreset(DefaultBotID, 100)
			require.NoError(t, err)
			tt.setup(b)
			b.updateMoodFromTrade(0.01, b.stats.Balance, b.traits)
			assert.Equal(t, tt.want, b.Mood())
		})
	}
}

func TestMoodShiftsWithLargePnL(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 100)
	require.NoError(t, err)

	// 30% gain on an impatient read shifts one step up.
	b.traits.Patience = 0
	b.updateMoodFromTrade(30, 100, b.traits)
	assert.Equal(t, MoodOptimistic, b.Mood())

	// Small pnl does not move the needle.
	b.updateMoodFromTrade(0.5, 100, b.traits)
	assert.Equal(t, MoodOptimistic, b.Mood())
}

func TestBoostExpiry(t *testing.T) {
	b, err := NewFromPreset(DefaultBotID, 100)
	require.NoError(t, err)
	base := b.traits.RiskTolerance

	b.ApplyBoost(Traits{RiskTolerance: 0.2}, 50)

	boosted := b.EffectiveTraits(10)
	assert.InDelta(t, base+0.2, boosted.RiskTolerance, 1e-9)

	expired := b.EffectiveTraits(50)
	assert.InDelta(t, base, expired.RiskTolerance, 1e-9)
	assert.Empty(t, b.boosts)
}

func TestRecordRoundTrip(t *testing.T) {
	b, err := NewFromPreset("zen-master", 42)
	require.NoError(t, err)
	b.ChangeMood(MoodEuphoric)
	b.pushHistory(Trade{Tick: 7, Asset: market.SymbolQoin, Action: ActionBuy, Size: 2, Price: 1.1, PnL: 0.3})
	b.lastTradeTick = 7

	restored, err := FromRecord(b.Record())
	require.NoError(t, err)

	assert.Equal(t, b.ID(), restored.ID())
	assert.Equal(t, b.Name(), restored.Name())
	assert.Equal(t, b.Personality(), restored.Personality())
	assert.Equal(t, b.Mood(), restored.Mood())
	assert.Equal(t, b.Stats(), restored.Stats())
	assert.Equal(t, b.Preferences(), restored.Preferences())
	assert.Equal(t, b.History(), restored.History())
}

func TestFromRecordValidation(t *testing.T) {
	_, err := FromRecord(Record{Personality: "zen"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = FromRecord(Record{ID: "x", Personality: "time-traveler"})
	assert.ErrorIs(t, err, ErrUnknownPersonality)
}

func TestFromRecordBackfillsDefaults(t *testing.T) {
	b, err := FromRecord(Record{
		ID:          "lost-soul",
		Personality: PersonalityZen.String(),
		Stats:       Stats{Balance: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "lost-soul", b.Name())
	assert.NotEmpty(t, b.Preferences().PreferredAssets)
	assert.Greater(t, b.Preferences().MinTradeSize, 0.0)
	assert.Greater(t, b.Preferences().TradeEvery, 0)
	assert.Equal(t, 5.0, b.Stats().StartingBalance)
}

func TestPresetsAreComplete(t *testing.T) {
	require.NotEmpty(t, Presets())
	for _, p := range Presets() {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Preferences.PreferredAssets, "preset %s", p.ID)
		assert.Greater(t, p.Preferences.TradeEvery, 0, "preset %s", p.ID)
		assert.Greater(t, p.Preferences.MinTradeSize, 0.0, "preset %s", p.ID)
	}

	_, err := NewFromPreset("no-such-bot", 10)
	assert.ErrorIs(t, err, ErrUnknownPersonality)
}

func TestNewCustomGeneratesIdentity(t *testing.T) {
	rng := testRand(21)
	a := NewCustom("Custom A", 25, rng)
	b := NewCustom("Custom B", 25, rng)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, PersonalityCustom, a.Personality())
	assert.Equal(t, 25.0, a.Stats().Balance)
}
