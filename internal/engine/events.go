package engine

import (
	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/game"
	"github.com/qoinlabs/qoinbots/internal/market"
)

// Event is anything the engine reports during a tick. Consumers
// switch on the concrete type.
type Event interface {
	isEvent()
}

// TickEvent closes every tick and carries the post-tick market view.
type TickEvent struct {
	Tick     int64
	Snapshot market.Snapshot
}

// TradeEvent reports one executed bot trade.
type TradeEvent struct {
	BotID   string
	BotName string
	Avatar  string
	Trade   bot.Trade
	Balance float64
}

// CrashEvent reports a market crash and the per-asset haircuts.
type CrashEvent struct {
	Tick   int64
	Shocks []market.CrashShock
}

// PhaseChangedEvent reports a cycle phase transition.
type PhaseChangedEvent struct {
	Tick           int64
	OldPhase       market.Phase
	NewPhase       market.Phase
	CycleCompleted bool
	Forced         bool
}

// SpeechEvent carries bot commentary for the feed.
type SpeechEvent struct {
	BotID  string
	Name   string
	Avatar string
	Text   string
	Mood   bot.Mood
}

// MoodChangedEvent reports a bot mood transition.
type MoodChangedEvent struct {
	BotID   string
	Name    string
	OldMood bot.Mood
	NewMood bot.Mood
}

// BotUnlockedEvent reports a new bot joining the roster.
type BotUnlockedEvent struct {
	BotID string
	Name  string
	Tick  int64
}

// AchievementEvent reports a newly earned achievement.
type AchievementEvent struct {
	Achievement game.Achievement
}

// FundingEvent reports emergency funding of a near-broke bot.
type FundingEvent struct {
	BotID  string
	Name   string
	Amount float64
}

// BotAssetCreatedEvent reports a new synthetic asset on the floor.
type BotAssetCreatedEvent struct {
	Asset market.Asset
}

// BubblePoppedEvent reports a trading-floor bubble burst.
type BubblePoppedEvent struct {
	Tick  int64
	Level float64
}

// SaveErrorEvent reports a failed autosave. The simulation keeps
// running.
type SaveErrorEvent struct {
	Err error
}

func (TickEvent) isEvent()            {}
func (TradeEvent) isEvent()           {}
func (CrashEvent) isEvent()           {}
func (PhaseChangedEvent) isEvent()    {}
func (SpeechEvent) isEvent()          {}
func (MoodChangedEvent) isEvent()     {}
func (BotUnlockedEvent) isEvent()     {}
func (AchievementEvent) isEvent()     {}
func (FundingEvent) isEvent()         {}
func (BotAssetCreatedEvent) isEvent() {}
func (BubblePoppedEvent) isEvent()    {}
func (SaveErrorEvent) isEvent()       {}
