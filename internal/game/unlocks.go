package game

// ConditionType names the progression metric an unlock watches.
type ConditionType string

const (
	ConditionTrades  ConditionType = "trades"
	ConditionLosses  ConditionType = "losses"
	ConditionStreak  ConditionType = "streak"
	ConditionProfit  ConditionType = "profit"
	ConditionBalance ConditionType = "balance"
	ConditionCycles  ConditionType = "cycles"
)

// Comparison is the operator an unlock condition applies.
type Comparison string

const (
	CmpGTE Comparison = "gte"
	CmpLTE Comparison = "lte"
	CmpEQ  Comparison = "eq"
)

// UnlockCondition is one threshold on one progression metric.
type UnlockCondition struct {
	Type  ConditionType `msgpack:"type" json:"type"`
	Cmp   Comparison    `msgpack:"cmp" json:"cmp"`
	Value float64       `msgpack:"value" json:"value"`
}

// Holds evaluates the condition against current progress. Unknown
// types or comparisons never hold.
func (c UnlockCondition) Holds(p Progress) bool {
	var metric float64
	switch c.Type {
	case ConditionTrades:
		metric = float64(p.Trades)
	case ConditionLosses:
		metric = float64(p.Losses)
	case ConditionStreak:
		metric = float64(p.LongestLossStreak)
	case ConditionProfit:
		metric = p.BiggestProfit
	case ConditionBalance:
		metric = p.TotalBalance
	case ConditionCycles:
		metric = float64(p.Cycles)
	default:
		return false
	}

	switch c.Cmp {
	case CmpGTE:
		return metric >= c.Value
	case CmpLTE:
		return metric <= c.Value
	case CmpEQ:
		return metric == c.Value
	default:
		return false
	}
}

// BotUnlock ties a roster bot to the condition that reveals it. The
// Unlocked flag is a one-way latch.
type BotUnlock struct {
	BotID     string          `msgpack:"bot_id" json:"botId"`
	Hint      string          `msgpack:"hint" json:"hint"`
	Condition UnlockCondition `msgpack:"condition" json:"condition"`
	Unlocked  bool            `msgpack:"unlocked" json:"unlocked"`
}

// DefaultUnlocks is the standard progression ladder. The starter bot
// is not listed; it is always available.
func DefaultUnlocks() []BotUnlock {
	return []BotUnlock{
		{
			BotID:     "hodl-droid",
			Hint:      "Lose 3 trades",
			Condition: UnlockCondition{Type: ConditionLosses, Cmp: CmpGTE, Value: 3},
		},
		{
			BotID:     "dip-destructor",
			Hint:      "Complete 10 trades",
			Condition: UnlockCondition{Type: ConditionTrades, Cmp: CmpGTE, Value: 10},
		},
		{
			BotID:     "bearbot",
			Hint:      "Suffer a 5-trade losing streak",
			Condition: UnlockCondition{Type: ConditionStreak, Cmp: CmpGTE, Value: 5},
		},
		{
			BotID:     "momentum-mike",
			Hint:      "Book a single profit of 50",
			Condition: UnlockCondition{Type: ConditionProfit, Cmp: CmpGTE, Value: 50},
		},
		{
			BotID:     "panic-pete",
			Hint:      "Hold roster balance at or under 100",
			Condition: UnlockCondition{Type: ConditionBalance, Cmp: CmpLTE, Value: 100},
		},
		{
			BotID:     "zen-master",
			Hint:      "Complete 20 trades",
			Condition: UnlockCondition{Type: ConditionTrades, Cmp: CmpGTE, Value: 20},
		},
		{
			BotID:     "fomo-frank",
			Hint:      "Complete 35 trades",
			Condition: UnlockCondition{Type: ConditionTrades, Cmp: CmpGTE, Value: 35},
		},
		{
			BotID:     "sage-bot",
			Hint:      "Survive a full market cycle",
			Condition: UnlockCondition{Type: ConditionCycles, Cmp: CmpGTE, Value: 1},
		},
	}
}
