// Package feed turns engine events into a bounded human-readable
// tape for display.
package feed

import (
	"fmt"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/engine"
)

// Kind classifies tape entries so panels can style them.
type Kind uint8

const (
	KindTrade Kind = iota
	KindSpeech
	KindPhase
	KindCrash
	KindUnlock
	KindAchievement
	KindFunding
	KindFloor
	KindSystem
)

// Entry is one line of the tape.
type Entry struct {
	Tick int64
	Kind Kind
	Text string
}

// Tape is a bounded FIFO of feed entries, oldest first. Not safe for
// concurrent use.
type Tape struct {
	entries []Entry
	cap     int
}

func NewTape(capacity int) *Tape {
	if capacity <= 0 {
		capacity = 200
	}
	return &Tape{cap: capacity}
}

func (t *Tape) Push(e Entry) {
	t.entries = append(t.entries, e)
	if len(t.entries) > t.cap {
		t.entries = t.entries[len(t.entries)-t.cap:]
	}
}

// Entries returns the tape oldest first.
func (t *Tape) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Tape) Len() int { return len(t.entries) }

// Observe converts an engine event into zero or one tape entries.
func (t *Tape) Observe(ev engine.Event) {
	switch v := ev.(type) {
	case engine.TradeEvent:
		verb := "bought"
		if v.Trade.Action == bot.ActionSell {
			verb = "sold"
		}
		result := fmt.Sprintf("%+.2f", v.Trade.PnL)
		t.Push(Entry{
			Tick: v.Trade.Tick,
			Kind: KindTrade,
			Text: fmt.Sprintf("%s %s %s %.2f of %s @ %.3f (%s)", v.Avatar, v.BotName, verb, v.Trade.Size, v.Trade.Asset, v.Trade.Price, result),
		})
	case engine.SpeechEvent:
		t.Push(Entry{
			Kind: KindSpeech,
			Text: fmt.Sprintf("%s %s: %q", v.Avatar, v.Name, v.Text),
		})
	case engine.PhaseChangedEvent:
		label := "shifts to"
		if v.Forced {
			label = "lurches into"
		}
		t.Push(Entry{
			Tick: v.Tick,
			Kind: KindPhase,
			Text: fmt.Sprintf("market %s %s", label, v.NewPhase),
		})
	case engine.CrashEvent:
		worst := 0.0
		for _, s := range v.Shocks {
			if s.Magnitude > worst {
				worst = s.Magnitude
			}
		}
		t.Push(Entry{
			Tick: v.Tick,
			Kind: KindCrash,
			Text: fmt.Sprintf("CRASH! worst haircut %.0f%%", worst*100),
		})
	case engine.BotUnlockedEvent:
		t.Push(Entry{
			Tick: v.Tick,
			Kind: KindUnlock,
			Text: fmt.Sprintf("new bot joins the floor: %s", v.Name),
		})
	case engine.AchievementEvent:
		t.Push(Entry{
			Tick: v.Achievement.UnlockedAtTick,
			Kind: KindAchievement,
			Text: fmt.Sprintf("%s achievement: %s", v.Achievement.Emoji, v.Achievement.Name),
		})
	case engine.FundingEvent:
		t.Push(Entry{
			Kind: KindFunding,
			Text: fmt.Sprintf("%s gets emergency funding", v.Name),
		})
	case engine.BotAssetCreatedEvent:
		t.Push(Entry{
			Kind: KindFloor,
			Text: fmt.Sprintf("new listing on the floor: %s @ %.3f", v.Asset.Symbol, v.Asset.Price),
		})
	case engine.BubblePoppedEvent:
		t.Push(Entry{
			Tick: v.Tick,
			Kind: KindFloor,
			Text: "the bubble pops, bot assets crater",
		})
	case engine.SaveErrorEvent:
		t.Push(Entry{
			Kind: KindSystem,
			Text: fmt.Sprintf("save failed: %v", v.Err),
		})
	}
}
