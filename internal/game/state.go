// Package game holds the meta-game state around the simulation:
// the bot roster, player-level aggregates, unlock and achievement
// progression, the trading floor, and the persistence boundary.
//
// Like the market package it is deterministic and free of goroutines;
// the engine owns all concurrency.
package game

import (
	"errors"
	"fmt"

	"github.com/qoinlabs/qoinbots/internal/bot"
)

var (
	ErrDuplicateBot = errors.New("bot already in roster")
	ErrBotNotFound  = errors.New("bot not in roster")
)

// PlayerStats aggregates the player's lifetime progression across the
// whole roster. It only ever grows; per-bot scoreboards live on the
// bots themselves.
type PlayerStats struct {
	TotalTrades       int     `msgpack:"total_trades" json:"totalTrades"`
	TotalLosses       int     `msgpack:"total_losses" json:"totalLosses"`
	TotalPnL          float64 `msgpack:"total_pnl" json:"totalPnL"`
	BiggestProfit     float64 `msgpack:"biggest_profit" json:"biggestProfit"`
	LongestLossStreak int     `msgpack:"longest_loss_streak" json:"longestLossStreak"`
	CyclesCompleted   int     `msgpack:"cycles_completed" json:"cyclesCompleted"`
	BubblePops        int     `msgpack:"bubble_pops" json:"bubblePops"`
	EmergencyFundings int     `msgpack:"emergency_fundings" json:"emergencyFundings"`
}

// FloorState tracks the trading-floor meta layer: collective bot
// activity inflates a bubble that eventually pops.
type FloorState struct {
	Unlocked    bool    `msgpack:"unlocked" json:"unlocked"`
	BubbleLevel float64 `msgpack:"bubble_level" json:"bubbleLevel"`
	Pops        int     `msgpack:"pops" json:"pops"`
}

// Progress is the read-only view unlock and achievement conditions
// evaluate against.
type Progress struct {
	Trades            int
	Losses            int
	LongestLossStreak int
	BiggestProfit     float64
	TotalBalance      float64
	Cycles            int
	BubblePops        int
	RosterSize        int
	BestWinStreak     int
}

// State is the mutable meta-game aggregate. It is not safe for
// concurrent use.
type State struct {
	bots  map[string]*bot.Bot
	order []string

	player       PlayerStats
	unlocks      []BotUnlock
	achievements []Achievement
	floor        FloorState
}

// DefaultStartingBalance seeds the first bot when no configured
// balance is available.
const DefaultStartingBalance = 10.0

// NewState builds a fresh game with the default bot active and the
// standard unlock/achievement tables.
func NewState(startingBalance float64) (*State, error) {
	s := &State{
		bots:         make(map[string]*bot.Bot),
		unlocks:      DefaultUnlocks(),
		achievements: DefaultAchievements(),
	}
	first, err := bot.NewFromPreset(bot.DefaultBotID, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("seed roster: %w", err)
	}
	if err := s.AddBot(first); err != nil {
		return nil, err
	}
	return s, nil
}

// AddBot appends to the roster preserving insertion order.
func (s *State) AddBot(b *bot.Bot) error {
	if _, ok := s.bots[b.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBot, b.ID())
	}
	s.bots[b.ID()] = b
	s.order = append(s.order, b.ID())
	return nil
}

// Bot looks up a roster member by id.
func (s *State) Bot(id string) (*bot.Bot, error) {
	b, ok := s.bots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBotNotFound, id)
	}
	return b, nil
}

// Bots returns the roster in insertion order.
func (s *State) Bots() []*bot.Bot {
	out := make([]*bot.Bot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bots[id])
	}
	return out
}

// ActiveBots returns the roster members currently trading.
func (s *State) ActiveBots() []*bot.Bot {
	out := make([]*bot.Bot, 0, len(s.order))
	for _, id := range s.order {
		if b := s.bots[id]; b.Active() {
			out = append(out, b)
		}
	}
	return out
}

func (s *State) Player() PlayerStats { return s.player }
func (s *State) Floor() FloorState   { return s.floor }

// SetFloor replaces the trading-floor state. The engine owns bubble
// dynamics; the state only stores them.
func (s *State) SetFloor(f FloorState) { s.floor = f }

// RecordTrade folds one executed trade into the player aggregates.
func (s *State) RecordTrade(t bot.Trade, emergencyFunded bool) {
	s.player.TotalTrades++
	s.player.TotalPnL += t.PnL
	if t.PnL < 0 {
		s.player.TotalLosses++
	}
	if t.PnL > s.player.BiggestProfit {
		s.player.BiggestProfit = t.PnL
	}
	if emergencyFunded {
		s.player.EmergencyFundings++
	}
}

// RecordCycle marks one completed market cycle.
func (s *State) RecordCycle() { s.player.CyclesCompleted++ }

// RecordBubblePop marks one trading-floor bubble burst.
func (s *State) RecordBubblePop() {
	s.player.BubblePops++
	s.floor.Pops++
}

// Progress derives the current progression view from player
// aggregates and the live roster.
func (s *State) Progress() Progress {
	p := Progress{
		Trades:        s.player.TotalTrades,
		Losses:        s.player.TotalLosses,
		BiggestProfit: s.player.BiggestProfit,
		Cycles:        s.player.CyclesCompleted,
		BubblePops:    s.player.BubblePops,
		RosterSize:    len(s.order),
	}
	for _, id := range s.order {
		st := s.bots[id].Stats()
		p.TotalBalance += st.Balance
		if st.LongestLossStreak > p.LongestLossStreak {
			p.LongestLossStreak = st.LongestLossStreak
		}
		if st.LongestWinStreak > p.BestWinStreak {
			p.BestWinStreak = st.LongestWinStreak
		}
	}
	if p.LongestLossStreak > s.player.LongestLossStreak {
		s.player.LongestLossStreak = p.LongestLossStreak
	} else {
		p.LongestLossStreak = s.player.LongestLossStreak
	}
	return p
}

// Unlocks returns the unlock table (latched entries included).
func (s *State) Unlocks() []BotUnlock {
	out := make([]BotUnlock, len(s.unlocks))
	copy(out, s.unlocks)
	return out
}

// Achievements returns the achievement table.
func (s *State) Achievements() []Achievement {
	out := make([]Achievement, len(s.achievements))
	copy(out, s.achievements)
	return out
}

// EvaluateUnlocks latches any unlock whose condition now holds and
// returns the ids of bots newly unlocked. A latched unlock never
// re-locks even if the condition later becomes false.
func (s *State) EvaluateUnlocks() []string {
	p := s.Progress()
	var newly []string
	for i := range s.unlocks {
		u := &s.unlocks[i]
		if u.Unlocked {
			continue
		}
		if u.Condition.Holds(p) {
			u.Unlocked = true
			newly = append(newly, u.BotID)
		}
	}
	return newly
}

// EvaluateAchievements latches and returns newly earned achievements.
func (s *State) EvaluateAchievements(tick int64) []Achievement {
	p := s.Progress()
	var newly []Achievement
	for i := range s.achievements {
		a := &s.achievements[i]
		if a.Unlocked {
			continue
		}
		if a.check != nil && a.check(p) {
			a.Unlocked = true
			a.UnlockedAtTick = tick
			newly = append(newly, *a)
		}
	}
	return newly
}
