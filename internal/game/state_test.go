package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoinlabs/qoinbots/internal/bot"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(10)
	require.NoError(t, err)
	return s
}

func TestNewStateSeedsDefaultBot(t *testing.T) {
	s := newTestState(t)

	bots := s.Bots()
	require.Len(t, bots, 1)
	assert.Equal(t, bot.DefaultBotID, bots[0].ID())
	assert.True(t, bots[0].Active())
}

func TestAddBotRejectsDuplicates(t *testing.T) {
	s := newTestState(t)

	b, err := bot.NewFromPreset("bearbot", 10)
	require.NoError(t, err)
	require.NoError(t, s.AddBot(b))

	dup, err := bot.NewFromPreset("bearbot", 10)
	require.NoError(t, err)
	assert.ErrorIs(t, s.AddBot(dup), ErrDuplicateBot)

	_, err = s.Bot("bearbot")
	assert.NoError(t, err)
	_, err = s.Bot("ghost")
	assert.ErrorIs(t, err, ErrBotNotFound)
}

func TestRecordTradeAggregates(t *testing.T) {
	s := newTestState(t)

	s.RecordTrade(bot.Trade{PnL: 5}, false)
	s.RecordTrade(bot.Trade{PnL: -2}, false)
	s.RecordTrade(bot.Trade{PnL: 12}, true)

	p := s.Player()
	assert.Equal(t, 3, p.TotalTrades)
	assert.Equal(t, 1, p.TotalLosses)
	assert.InDelta(t, 15.0, p.TotalPnL, 1e-9)
	assert.InDelta(t, 12.0, p.BiggestProfit, 1e-9)
	assert.Equal(t, 1, p.EmergencyFundings)
}

func TestUnlockConditionTable(t *testing.T) {
	tests := []struct {
		name string
		cond UnlockCondition
		prog Progress
		want bool
	}{
		{"trades gte met", UnlockCondition{ConditionTrades, CmpGTE, 10}, Progress{Trades: 10}, true},
		{"trades gte unmet", UnlockCondition{ConditionTrades, CmpGTE, 10}, Progress{Trades: 9}, false},
		{"balance lte met", UnlockCondition{ConditionBalance, CmpLTE, 100}, Progress{TotalBalance: 80}, true},
		{"balance lte unmet", UnlockCondition{ConditionBalance, CmpLTE, 100}, Progress{TotalBalance: 120}, false},
		{"cycles eq met", UnlockCondition{ConditionCycles, CmpEQ, 1}, Progress{Cycles: 1}, true},
		{"streak gte met", UnlockCondition{ConditionStreak, CmpGTE, 5}, Progress{LongestLossStreak: 6}, true},
		{"profit gte met", UnlockCondition{ConditionProfit, CmpGTE, 50}, Progress{BiggestProfit: 50}, true},
		{"losses gte unmet", UnlockCondition{ConditionLosses, CmpGTE, 3}, Progress{Losses: 2}, false},
		{"unknown type never holds", UnlockCondition{"karma", CmpGTE, 0}, Progress{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Holds(tt.prog))
		})
	}
}

func TestUnlockLatchIsOneWay(t *testing.T) {
	s := newTestState(t)

	// Trip the loss-based unlock.
	for i := 0; i < 3; i++ {
		s.RecordTrade(bot.Trade{PnL: -1}, false)
	}
	newly := s.EvaluateUnlocks()
	assert.Contains(t, newly, "hodl-droid")

	// Unlocks fire once.
	assert.NotContains(t, s.EvaluateUnlocks(), "hodl-droid")

	for _, u := range s.Unlocks() {
		if u.BotID == "hodl-droid" {
			assert.True(t, u.Unlocked)
		}
	}
}

func TestAchievementsLatch(t *testing.T) {
	s := newTestState(t)
	s.RecordTrade(bot.Trade{PnL: 1}, false)

	newly := s.EvaluateAchievements(42)
	require.NotEmpty(t, newly)
	assert.Equal(t, "first_trade", newly[0].ID)
	assert.Equal(t, int64(42), newly[0].UnlockedAtTick)

	assert.Empty(t, filterAchievements(s.EvaluateAchievements(43), "first_trade"))
}

func filterAchievements(in []Achievement, id string) []Achievement {
	var out []Achievement
	for _, a := range in {
		if a.ID == id {
			out = append(out, a)
		}
	}
	return out
}

func TestOfflineProgressCapsAndSettles(t *testing.T) {
	s := newTestState(t)
	rng := rand.New(rand.NewPCG(9, 9^0x9e3779b97f4a7c15))

	report := s.ApplyOfflineProgress(48*time.Hour, rng)

	assert.Equal(t, 24*time.Hour, report.Credited)
	assert.Greater(t, report.Trades, 0)
	assert.Equal(t, report.Trades, s.Player().TotalTrades)

	b, err := s.Bot(bot.DefaultBotID)
	require.NoError(t, err)
	assert.Equal(t, report.Trades, b.Stats().Trades)
	assert.GreaterOrEqual(t, b.Stats().Balance, 0.1)
}

func TestOfflineProgressNoTimeNoTrades(t *testing.T) {
	s := newTestState(t)
	rng := rand.New(rand.NewPCG(9, 10))

	report := s.ApplyOfflineProgress(0, rng)
	assert.Zero(t, report.Trades)
	assert.Zero(t, s.Player().TotalTrades)
}
