package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/qoinlabs/qoinbots/internal/market"
)

// Preset is the static creation-time data for one bot archetype.
type Preset struct {
	ID          string
	Name        string
	Avatar      string
	Personality Personality
	Description string
	Traits      Traits
	Preferences Preferences
}

// DefaultBotID is the bot every game starts with.
const DefaultBotID = "qoin"

var presets = []Preset{
	{
		ID:          "qoin",
		Name:        "QOIN",
		Avatar:      "🤖",
		Personality: PersonalityPhilosophical,
		Description: "The original philosophical trading companion. Loses money with dignity.",
		Traits: Traits{
			RiskTolerance: 0.4, FomoSusceptibility: 0.3, LossAversion: 0.5,
			SunkCostFallacy: 0.4, ConfirmationBias: 0.3, Patience: 0.7,
			OptimismBias: 0.6, Herding: 0.2, Overconfidence: 0.3,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolQoin},
			MaxPositionSize: 0.3, MinTradeSize: 1.0, TradeEvery: 15,
		},
	},
	{
		ID:          "hodl-droid",
		Name:        "HODL-DROID",
		Avatar:      "💎",
		Personality: PersonalityHodl,
		Description: "Diamond hands activated. Selling is for humans.",
		Traits: Traits{
			RiskTolerance: 0.8, FomoSusceptibility: 0.1, LossAversion: 0.9,
			SunkCostFallacy: 1.0, ConfirmationBias: 0.8, Patience: 1.0,
			OptimismBias: 0.9, Herding: 0.1, Overconfidence: 0.6,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolHodl, market.SymbolQoin},
			MaxPositionSize: 0.7, MinTradeSize: 2.0, TradeEvery: 30,
		},
	},
	{
		ID:          "dip-destructor",
		Name:        "DIP-DESTRUCTOR",
		Avatar:      "📉",
		Personality: PersonalityDipBuyer,
		Description: "Every dip is a buying opportunity. Thrives on market fear.",
		Traits: Traits{
			RiskTolerance: 0.7, FomoSusceptibility: 0.2, LossAversion: 0.3,
			SunkCostFallacy: 0.4, ConfirmationBias: 0.6, Patience: 0.6,
			OptimismBias: 0.8, Herding: 0.2, Overconfidence: 0.5,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolQoin, market.SymbolMoon},
			MaxPositionSize: 0.5, MinTradeSize: 1.5, TradeEvery: 12,
		},
	},
	{
		ID:          "bearbot",
		Name:        "BEARBOT",
		Avatar:      "🐻",
		Personality: PersonalityBear,
		Description: "The market will crash. It always crashes.",
		Traits: Traits{
			RiskTolerance: 0.3, FomoSusceptibility: 0.1, LossAversion: 0.7,
			SunkCostFallacy: 0.2, ConfirmationBias: 0.9, Patience: 0.8,
			OptimismBias: 0.1, Herding: 0.1, Overconfidence: 0.4,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolQoin},
			MaxPositionSize: 0.2, MinTradeSize: 0.5, TradeEvery: 22,
		},
	},
	{
		ID:          "momentum-mike",
		Name:        "MOMENTUM-MIKE",
		Avatar:      "🚀",
		Personality: PersonalityMomentum,
		Description: "Rides every wave. The trend is the only friend.",
		Traits: Traits{
			RiskTolerance: 0.9, FomoSusceptibility: 1.0, LossAversion: 0.2,
			SunkCostFallacy: 0.3, ConfirmationBias: 0.7, Patience: 0.2,
			OptimismBias: 1.0, Herding: 0.8, Overconfidence: 0.9,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolMoon, market.SymbolQoin},
			MaxPositionSize: 0.8, MinTradeSize: 2.0, TradeEvery: 7,
		},
	},
	{
		ID:          "panic-pete",
		Name:        "PANIC-PETE",
		Avatar:      "😱",
		Personality: PersonalityPanic,
		Description: "Reacts to everything, usually too fast.",
		Traits: Traits{
			RiskTolerance: 0.8, FomoSusceptibility: 0.9, LossAversion: 0.1,
			SunkCostFallacy: 0.2, ConfirmationBias: 0.5, Patience: 0.1,
			OptimismBias: 0.7, Herding: 0.9, Overconfidence: 0.2,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolMoon, market.SymbolQoin},
			MaxPositionSize: 0.6, MinTradeSize: 1.0, TradeEvery: 5,
		},
	},
	{
		ID:          "zen-master",
		Name:        "ZEN-MASTER",
		Avatar:      "🧘",
		Personality: PersonalityZen,
		Description: "Trades in harmony with the market's flow.",
		Traits: Traits{
			RiskTolerance: 0.5, FomoSusceptibility: 0.2, LossAversion: 0.5,
			SunkCostFallacy: 0.3, ConfirmationBias: 0.3, Patience: 0.8,
			OptimismBias: 0.5, Herding: 0.3, Overconfidence: 0.3,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolQoin, market.SymbolHodl},
			MaxPositionSize: 0.4, MinTradeSize: 1.0, TradeEvery: 17,
		},
	},
	{
		ID:          "fomo-frank",
		Name:        "FOMO-FRANK",
		Avatar:      "🏃",
		Personality: PersonalityFomo,
		Description: "Can't miss a single move. Ever.",
		Traits: Traits{
			RiskTolerance: 0.8, FomoSusceptibility: 1.0, LossAversion: 0.2,
			SunkCostFallacy: 0.4, ConfirmationBias: 0.6, Patience: 0.1,
			OptimismBias: 0.9, Herding: 1.0, Overconfidence: 0.7,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolMoon, market.SymbolQoin},
			MaxPositionSize: 0.7, MinTradeSize: 1.5, TradeEvery: 4,
		},
	},
	{
		ID:          "sage-bot",
		Name:        "SAGE-BOT",
		Avatar:      "🦉",
		Personality: PersonalitySage,
		Description: "Has seen a full cycle and lived to tell about it.",
		Traits: Traits{
			RiskTolerance: 0.6, FomoSusceptibility: 0.1, LossAversion: 0.4,
			SunkCostFallacy: 0.2, ConfirmationBias: 0.2, Patience: 0.9,
			OptimismBias: 0.7, Herding: 0.1, Overconfidence: 0.4,
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolQoin, market.SymbolHodl},
			MaxPositionSize: 0.4, MinTradeSize: 1.0, TradeEvery: 25,
		},
	},
}

// Presets returns all built-in presets in unlock-table order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByID looks up a built-in preset. Unknown ids fail fast.
func PresetByID(id string) (Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPersonality, id)
}

// NewFromPreset creates a bot from a built-in preset.
func NewFromPreset(id string, startingBalance float64) (*Bot, error) {
	preset, err := PresetByID(id)
	if err != nil {
		return nil, err
	}
	return newBot(preset, startingBalance), nil
}

// NewCustom creates a player-built bot with randomized traits.
func NewCustom(name string, startingBalance float64, rng *rand.Rand) *Bot {
	preset := Preset{
		ID:          "custom-" + uuid.NewString(),
		Name:        name,
		Avatar:      "🛠",
		Personality: PersonalityCustom,
		Description: "A bespoke trading personality.",
		Traits: Traits{
			RiskTolerance:      rng.Float64(),
			FomoSusceptibility: rng.Float64(),
			LossAversion:       rng.Float64(),
			SunkCostFallacy:    rng.Float64(),
			ConfirmationBias:   rng.Float64(),
			Patience:           rng.Float64(),
			OptimismBias:       rng.Float64(),
			Herding:            rng.Float64(),
			Overconfidence:     rng.Float64(),
		},
		Preferences: Preferences{
			PreferredAssets: []market.Symbol{market.SymbolQoin, market.SymbolMoon},
			MaxPositionSize: 0.3 + rng.Float64()*0.4,
			MinTradeSize:    1.0,
			TradeEvery:      5 + rng.IntN(20),
		},
	}
	return newBot(preset, startingBalance)
}

// personalitySignal is the archetype-specific read of the market.
func personalitySignal(p Personality, snap market.Snapshot, rng *rand.Rand) Signal {
	switch p {
	case PersonalityMomentum:
		return Signal{Strength: clampSignal(snap.MeanTrend() * 2), Source: "momentum", Confidence: 0.7}
	case PersonalityFomo:
		// Chases whatever just moved, harder than momentum.
		return Signal{Strength: clampSignal(snap.MeanTrend()*2 + snap.MeanChange()*10), Source: "fomo", Confidence: 0.75}
	case PersonalityDipBuyer:
		// Buys weakness, fades strength.
		return Signal{Strength: clampSignal(-snap.MeanTrend() * 1.5), Source: "dip", Confidence: 0.6}
	case PersonalityBear:
		return Signal{Strength: -0.4, Source: "bear", Confidence: 0.6}
	case PersonalityPanic:
		if snap.MeanVolatility() > 0.5 {
			return Signal{Strength: -1, Source: "panic", Confidence: 0.8}
		}
		return Signal{Strength: 0.5, Source: "panic", Confidence: 0.8}
	case PersonalityHodl:
		// Mostly abstains; weak accumulate bias.
		return Signal{Strength: 0.1, Source: "hodl", Confidence: 0.3}
	case PersonalitySage:
		// Leans against deviation from starting prices.
		return Signal{Strength: clampSignal(1 - snap.MeanPriceRatio()), Source: "sage", Confidence: 0.5}
	case PersonalityPhilosophical:
		return Signal{Strength: 0.15, Source: "philosophical", Confidence: 0.4}
	default:
		return Signal{Strength: (rng.Float64() - 0.5) * 0.5, Source: "custom", Confidence: 0.4}
	}
}

// personalityBias is a constant directional lean applied when picking
// the trade action.
func personalityBias(p Personality) float64 {
	switch p {
	case PersonalityPhilosophical:
		return 0.05
	case PersonalityBear:
		return -0.1
	case PersonalityDipBuyer:
		return -0.05
	case PersonalityMomentum, PersonalityFomo:
		return 0.05
	default:
		return 0
	}
}

func clampSignal(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
