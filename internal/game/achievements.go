package game

// Achievement is a latched milestone. The check func is rebuilt from
// the id on load; only the latch state persists.
type Achievement struct {
	ID             string `msgpack:"id" json:"id"`
	Name           string `msgpack:"name" json:"name"`
	Description    string `msgpack:"description" json:"description"`
	Emoji          string `msgpack:"emoji" json:"emoji"`
	Unlocked       bool   `msgpack:"unlocked" json:"unlocked"`
	UnlockedAtTick int64  `msgpack:"unlocked_at_tick" json:"unlockedAtTick"`

	check func(Progress) bool `msgpack:"-" json:"-"`
}

// DefaultAchievements is the standard milestone table.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID: "first_trade", Name: "First Steps", Emoji: "👶",
			Description: "Your bots completed their first trade.",
			check:       func(p Progress) bool { return p.Trades >= 1 },
		},
		{
			ID: "broke_but_wise", Name: "Broke but Wise", Emoji: "🪦",
			Description: "Lose 10 trades. Tuition for the school of markets.",
			check:       func(p Progress) bool { return p.Losses >= 10 },
		},
		{
			ID: "lucky_streak", Name: "Lucky Streak", Emoji: "🍀",
			Description: "Win 5 trades in a row.",
			check:       func(p Progress) bool { return p.BestWinStreak >= 5 },
		},
		{
			ID: "diamond_hands", Name: "Diamond Hands", Emoji: "💎",
			Description: "Hold through a 7-trade losing streak.",
			check:       func(p Progress) bool { return p.LongestLossStreak >= 7 },
		},
		{
			ID: "bot_collector", Name: "Bot Collector", Emoji: "🤖",
			Description: "Grow the roster to 5 bots.",
			check:       func(p Progress) bool { return p.RosterSize >= 5 },
		},
		{
			ID: "full_roster", Name: "Full House", Emoji: "🏠",
			Description: "Every bot personality on the floor.",
			check:       func(p Progress) bool { return p.RosterSize >= 9 },
		},
		{
			ID: "bubble_survivor", Name: "Bubble Survivor", Emoji: "🫧",
			Description: "Live through a trading-floor bubble pop.",
			check:       func(p Progress) bool { return p.BubblePops >= 1 },
		},
		{
			ID: "centurion", Name: "Centurion", Emoji: "💯",
			Description: "Complete 100 trades.",
			check:       func(p Progress) bool { return p.Trades >= 100 },
		},
	}
}

// restoreAchievementChecks re-attaches check funcs to achievements
// loaded from a snapshot, dropping entries with unknown ids.
func restoreAchievementChecks(loaded []Achievement) []Achievement {
	defaults := DefaultAchievements()
	byID := make(map[string]int, len(defaults))
	for i, a := range defaults {
		byID[a.ID] = i
	}
	for _, a := range loaded {
		i, ok := byID[a.ID]
		if !ok {
			continue
		}
		defaults[i].Unlocked = a.Unlocked
		defaults[i].UnlockedAtTick = a.UnlockedAtTick
	}
	return defaults
}
