package bot

import (
	"errors"
	"fmt"

	"github.com/qoinlabs/qoinbots/internal/market"
)

var (
	ErrUnknownPersonality = errors.New("unknown personality")
	ErrInvalidRecord      = errors.New("invalid bot record")
)

// Personality is the closed set of bot archetypes. Each carries a
// trait preset, preferences and a signal-generation strategy.
type Personality uint8

const (
	PersonalityPhilosophical Personality = iota
	PersonalityHodl
	PersonalityDipBuyer
	PersonalityBear
	PersonalityMomentum
	PersonalityPanic
	PersonalityZen
	PersonalityFomo
	PersonalitySage
	PersonalityCustom
)

func (p Personality) String() string {
	switch p {
	case PersonalityPhilosophical:
		return "philosophical"
	case PersonalityHodl:
		return "hodl"
	case PersonalityDipBuyer:
		return "dip_buyer"
	case PersonalityBear:
		return "bear"
	case PersonalityMomentum:
		return "momentum"
	case PersonalityPanic:
		return "panic"
	case PersonalityZen:
		return "zen"
	case PersonalityFomo:
		return "fomo"
	case PersonalitySage:
		return "sage"
	case PersonalityCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParsePersonality converts a stored personality name back to the enum.
func ParsePersonality(s string) (Personality, error) {
	for p := PersonalityPhilosophical; p <= PersonalityCustom; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PersonalityCustom, fmt.Errorf("%w: %q", ErrUnknownPersonality, s)
}

// Traits are the behavioral biases of a bot, each in [0, 1].
// Immutable after creation except through time-bounded boosts.
type Traits struct {
	RiskTolerance      float64 `msgpack:"risk_tolerance" json:"riskTolerance"`
	FomoSusceptibility float64 `msgpack:"fomo_susceptibility" json:"fomoSusceptibility"`
	LossAversion       float64 `msgpack:"loss_aversion" json:"lossAversion"`
	SunkCostFallacy    float64 `msgpack:"sunk_cost_fallacy" json:"sunkCostFallacy"`
	ConfirmationBias   float64 `msgpack:"confirmation_bias" json:"confirmationBias"`
	Patience           float64 `msgpack:"patience" json:"patience"`
	OptimismBias       float64 `msgpack:"optimism_bias" json:"optimismBias"`
	Herding            float64 `msgpack:"herding" json:"herding"`
	Overconfidence     float64 `msgpack:"overconfidence" json:"overconfidence"`
}

// Add returns t with delta applied componentwise, clamped to [0, 1].
func (t Traits) Add(delta Traits) Traits {
	return Traits{
		RiskTolerance:      clamp01(t.RiskTolerance + delta.RiskTolerance),
		FomoSusceptibility: clamp01(t.FomoSusceptibility + delta.FomoSusceptibility),
		LossAversion:       clamp01(t.LossAversion + delta.LossAversion),
		SunkCostFallacy:    clamp01(t.SunkCostFallacy + delta.SunkCostFallacy),
		ConfirmationBias:   clamp01(t.ConfirmationBias + delta.ConfirmationBias),
		Patience:           clamp01(t.Patience + delta.Patience),
		OptimismBias:       clamp01(t.OptimismBias + delta.OptimismBias),
		Herding:            clamp01(t.Herding + delta.Herding),
		Overconfidence:     clamp01(t.Overconfidence + delta.Overconfidence),
	}
}

// Preferences shape how a bot trades. Set at creation, rarely mutated.
type Preferences struct {
	PreferredAssets []market.Symbol `msgpack:"preferred_assets" json:"preferredAssets"`
	// MaxPositionSize is a fraction of balance.
	MaxPositionSize float64 `msgpack:"max_position_size" json:"maxPositionSize"`
	// MinTradeSize is an absolute amount.
	MinTradeSize float64 `msgpack:"min_trade_size" json:"minTradeSize"`
	// TradeEvery is the base number of ticks between trades.
	TradeEvery int `msgpack:"trade_every" json:"tradeEvery"`
}

// Stats is the running scoreboard of a bot. Mutated exclusively by
// the bot's own trade execution.
type Stats struct {
	Balance         float64 `msgpack:"balance" json:"balance"`
	StartingBalance float64 `msgpack:"starting_balance" json:"startingBalance"`
	TotalPnL        float64 `msgpack:"total_pnl" json:"totalPnL"`
	Trades          int     `msgpack:"trades" json:"trades"`
	Wins            int     `msgpack:"wins" json:"wins"`
	Losses          int     `msgpack:"losses" json:"losses"`
	WinRate         float64 `msgpack:"win_rate" json:"winRate"`
	BiggestWin      float64 `msgpack:"biggest_win" json:"biggestWin"`
	BiggestLoss     float64 `msgpack:"biggest_loss" json:"biggestLoss"`
	// CurrentStreak is positive for consecutive wins, negative for losses.
	CurrentStreak     int     `msgpack:"current_streak" json:"currentStreak"`
	LongestWinStreak  int     `msgpack:"longest_win_streak" json:"longestWinStreak"`
	LongestLossStreak int     `msgpack:"longest_loss_streak" json:"longestLossStreak"`
	AverageTradeSize  float64 `msgpack:"average_trade_size" json:"averageTradeSize"`
}

// Action is the trade direction.
type Action uint8

const (
	ActionBuy Action = iota
	ActionSell
)

func (a Action) String() string {
	if a == ActionSell {
		return "sell"
	}
	return "buy"
}

// Trade is an immutable record of one executed trade.
type Trade struct {
	Tick       int64         `msgpack:"tick" json:"tick"`
	Asset      market.Symbol `msgpack:"asset" json:"asset"`
	Action     Action        `msgpack:"action" json:"action"`
	Size       float64       `msgpack:"size" json:"size"`
	Price      float64       `msgpack:"price" json:"price"`
	PnL        float64       `msgpack:"pnl" json:"pnl"`
	Mood       Mood          `msgpack:"mood" json:"mood"`
	Confidence float64       `msgpack:"confidence" json:"confidence"`
}

// PeerView summarizes recent activity of the other bots, feeding the
// herding signal. The engine rebuilds it every tick.
type PeerView struct {
	ActiveBots   int
	RecentTrades int
	// NetSignal is the mean direction of recent trades in [-1, 1],
	// +1 all buys, -1 all sells.
	NetSignal float64
}

// Signal is one weighted input into the trade-confidence blend.
type Signal struct {
	Strength   float64
	Source     string
	Confidence float64
}

// Boost is a time-bounded trait override from external interaction.
type Boost struct {
	Delta       Traits `msgpack:"delta" json:"delta"`
	ExpiresTick int64  `msgpack:"expires_tick" json:"expiresTick"`
}

// Outcome reports everything a single trade attempt did.
type Outcome struct {
	// Trade is nil when no trade fired.
	Trade           *Trade
	Speech          string
	MoodChanged     bool
	OldMood         Mood
	NewMood         Mood
	EmergencyFunded bool
	// Impact is the signed liquidity-impact fraction to apply to the
	// traded asset's market price.
	Impact float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
