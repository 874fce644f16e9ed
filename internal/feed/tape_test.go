package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/engine"
	"github.com/qoinlabs/qoinbots/internal/market"
)

func TestTapeBounded(t *testing.T) {
	tape := NewTape(3)
	for i := 0; i < 10; i++ {
		tape.Push(Entry{Tick: int64(i)})
	}
	entries := tape.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, int64(7), entries[0].Tick)
	assert.Equal(t, int64(9), entries[2].Tick)
}

func TestObserveTradeEvent(t *testing.T) {
	tape := NewTape(10)
	tape.Observe(engine.TradeEvent{
		BotID:   "qoin",
		BotName: "Qoin",
		Avatar:  "🪙",
		Trade: bot.Trade{
			Tick: 5, Asset: market.SymbolQoin, Action: bot.ActionSell,
			Size: 2.5, Price: 1.05, PnL: -0.4,
		},
	})

	entries := tape.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, KindTrade, entries[0].Kind)
	assert.Contains(t, entries[0].Text, "sold")
	assert.Contains(t, entries[0].Text, "QOIN")
}

func TestObserveIgnoresTickEvents(t *testing.T) {
	tape := NewTape(10)
	tape.Observe(engine.TickEvent{Tick: 1})
	assert.Zero(t, tape.Len())
}

func TestObserveForcedPhaseWording(t *testing.T) {
	tape := NewTape(10)
	tape.Observe(engine.PhaseChangedEvent{Tick: 3, NewPhase: market.PhaseCrash, Forced: true})
	tape.Observe(engine.PhaseChangedEvent{Tick: 4, NewPhase: market.PhaseRecovery})

	entries := tape.Entries()
	assert.Contains(t, entries[0].Text, "lurches")
	assert.Contains(t, entries[1].Text, "shifts")
}
