package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/market"
)

// SnapshotVersion is bumped when the snapshot layout changes in a way
// Restore cannot backfill.
const SnapshotVersion = 1

// Snapshot is the complete persisted game: roster, market, cycle,
// progression, floor. It is plain data, safe to hand across
// goroutines.
type Snapshot struct {
	ID      string    `msgpack:"id" json:"id"`
	Version int       `msgpack:"version" json:"version"`
	SavedAt time.Time `msgpack:"saved_at" json:"savedAt"`
	Tick    int64     `msgpack:"tick" json:"tick"`

	Player       PlayerStats     `msgpack:"player" json:"player"`
	Bots         []bot.Record    `msgpack:"bots" json:"bots"`
	Market       market.Snapshot `msgpack:"market" json:"market"`
	Unlocks      []BotUnlock     `msgpack:"unlocks" json:"unlocks"`
	Achievements []Achievement   `msgpack:"achievements" json:"achievements"`
	Floor        FloorState      `msgpack:"floor" json:"floor"`
}

// Capture freezes the meta-game into a snapshot. Market state and
// tick are supplied by the engine, which owns them.
func (s *State) Capture(mkt market.Snapshot, tick int64) Snapshot {
	snap := Snapshot{
		ID:           uuid.NewString(),
		Version:      SnapshotVersion,
		SavedAt:      time.Now().UTC(),
		Tick:         tick,
		Player:       s.player,
		Market:       mkt,
		Unlocks:      s.Unlocks(),
		Achievements: s.Achievements(),
		Floor:        s.floor,
	}
	snap.Bots = make([]bot.Record, 0, len(s.order))
	for _, b := range s.Bots() {
		snap.Bots = append(snap.Bots, b.Record())
	}
	return snap
}

// Restore rebuilds game state from a snapshot. Unknown unlock entries
// are dropped and new default unlocks gain their latch state from the
// save, so older saves survive table growth.
func Restore(snap Snapshot) (*State, error) {
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, SnapshotVersion)
	}

	s := &State{
		bots:         make(map[string]*bot.Bot),
		player:       snap.Player,
		unlocks:      mergeUnlocks(snap.Unlocks),
		achievements: restoreAchievementChecks(snap.Achievements),
		floor:        snap.Floor,
	}

	for _, rec := range snap.Bots {
		b, err := bot.FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("restore roster: %w", err)
		}
		if err := s.AddBot(b); err != nil {
			return nil, err
		}
	}
	if len(s.order) == 0 {
		first, err := bot.NewFromPreset(bot.DefaultBotID, DefaultStartingBalance)
		if err != nil {
			return nil, err
		}
		if err := s.AddBot(first); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// mergeUnlocks copies latch state from saved unlocks onto the current
// default table, keyed by bot id.
func mergeUnlocks(saved []BotUnlock) []BotUnlock {
	defaults := DefaultUnlocks()
	latched := make(map[string]bool, len(saved))
	for _, u := range saved {
		if u.Unlocked {
			latched[u.BotID] = true
		}
	}
	for i := range defaults {
		if latched[defaults[i].BotID] {
			defaults[i].Unlocked = true
		}
	}
	return defaults
}
