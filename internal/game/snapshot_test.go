package game

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/market"
)

func testMarketSnapshot() market.Snapshot {
	cfg := market.DefaultConfig()
	assets := make([]market.Asset, 0, 3)
	for _, sym := range market.Symbols() {
		assets = append(assets, cfg.NewAsset(sym))
	}
	return market.Snapshot{
		Cycle:  market.CycleState{Phase: market.PhaseBubble, Progress: 0.4, Intensity: 0.8, TotalCycles: 2},
		Assets: assets,
		Tick:   777,
	}
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	s := newTestState(t)
	extra, err := bot.NewFromPreset("zen-master", 25)
	require.NoError(t, err)
	require.NoError(t, s.AddBot(extra))

	s.RecordTrade(bot.Trade{PnL: 60}, false)
	s.RecordCycle()
	s.RecordBubblePop()
	s.EvaluateUnlocks()
	s.EvaluateAchievements(700)
	s.SetFloor(FloorState{Unlocked: true, BubbleLevel: 0.3, Pops: 1})

	snap := s.Capture(testMarketSnapshot(), 777)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, SnapshotVersion, snap.Version)
	require.Len(t, snap.Bots, 2)

	restored, err := Restore(snap)
	require.NoError(t, err)

	assert.Equal(t, s.Player(), restored.Player())
	assert.Equal(t, s.Floor(), restored.Floor())
	require.Len(t, restored.Bots(), 2)
	assert.Equal(t, bot.DefaultBotID, restored.Bots()[0].ID())

	// Latches survive the round trip.
	for i, u := range s.Unlocks() {
		assert.Equal(t, u.Unlocked, restored.Unlocks()[i].Unlocked, u.BotID)
	}
	for i, a := range s.Achievements() {
		assert.Equal(t, a.Unlocked, restored.Achievements()[i].Unlocked, a.ID)
	}
}

func TestRestoreRejectsNewerVersion(t *testing.T) {
	_, err := Restore(Snapshot{Version: SnapshotVersion + 1})
	assert.Error(t, err)
}

func TestRestoreEmptyRosterSeedsDefault(t *testing.T) {
	restored, err := Restore(Snapshot{Version: SnapshotVersion})
	require.NoError(t, err)
	require.Len(t, restored.Bots(), 1)
	assert.Equal(t, bot.DefaultBotID, restored.Bots()[0].ID())
	assert.Equal(t, DefaultStartingBalance, restored.Bots()[0].Stats().Balance)
}

func TestMergeUnlocksDropsUnknownKeepsLatch(t *testing.T) {
	saved := []BotUnlock{
		{BotID: "bearbot", Unlocked: true},
		{BotID: "retired-bot", Unlocked: true},
	}
	merged := mergeUnlocks(saved)

	byID := make(map[string]BotUnlock, len(merged))
	for _, u := range merged {
		byID[u.BotID] = u
	}
	assert.True(t, byID["bearbot"].Unlocked)
	assert.NotContains(t, byID, "retired-bot")
	assert.False(t, byID["zen-master"].Unlocked)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "game.qb")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	s := newTestState(t)
	snap := s.Capture(testMarketSnapshot(), 123)
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.ID, loaded.ID)
	assert.Equal(t, snap.Tick, loaded.Tick)
	assert.Equal(t, snap.Player, loaded.Player)
	require.Len(t, loaded.Bots, 1)
	assert.Equal(t, snap.Bots[0].ID, loaded.Bots[0].ID)
	assert.Equal(t, snap.Market.Cycle.Phase, loaded.Market.Cycle.Phase)

	// Saving again overwrites atomically.
	snap2 := s.Capture(testMarketSnapshot(), 456)
	require.NoError(t, store.Save(snap2))
	loaded2, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(456), loaded2.Tick)
}
