package market

import "fmt"

// Symbol identifies a tradeable synthetic asset.
type Symbol string

const (
	SymbolQoin Symbol = "QOIN"
	SymbolHodl Symbol = "HODL"
	SymbolMoon Symbol = "MOON"
)

// Symbols returns the built-in asset symbols in stable order.
func Symbols() []Symbol {
	return []Symbol{SymbolQoin, SymbolHodl, SymbolMoon}
}

// Asset is the per-symbol market state. Mutated once per tick by the
// price model; owned exclusively by the engine.
type Asset struct {
	Symbol        Symbol  `msgpack:"symbol" json:"symbol"`
	Price         float64 `msgpack:"price" json:"price"`
	StartingPrice float64 `msgpack:"starting_price" json:"startingPrice"`
	Volume        float64 `msgpack:"volume" json:"volume"`
	Volatility    float64 `msgpack:"volatility" json:"volatility"`
	// Trend is decaying momentum in [-1, 1].
	Trend      float64 `msgpack:"trend" json:"trend"`
	Support    float64 `msgpack:"support" json:"support"`
	Resistance float64 `msgpack:"resistance" json:"resistance"`
	// Change is the last tick's fractional price change.
	Change float64 `msgpack:"change" json:"change"`
}

// Phase is one of the five market-cycle states.
type Phase uint8

const (
	PhaseGrowth Phase = iota
	PhaseBubble
	PhasePeak
	PhaseCrash
	PhaseRecovery

	numPhases = 5
)

func (p Phase) String() string {
	switch p {
	case PhaseGrowth:
		return "growth"
	case PhaseBubble:
		return "bubble"
	case PhasePeak:
		return "peak"
	case PhaseCrash:
		return "crash"
	case PhaseRecovery:
		return "recovery"
	default:
		return "unknown"
	}
}

// Next returns the following phase in the fixed cyclic order,
// wrapping recovery back to growth.
func (p Phase) Next() Phase {
	return (p + 1) % numPhases
}

// ParsePhase converts a stored phase name back to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "growth":
		return PhaseGrowth, nil
	case "bubble":
		return PhaseBubble, nil
	case "peak":
		return PhasePeak, nil
	case "crash":
		return PhaseCrash, nil
	case "recovery":
		return PhaseRecovery, nil
	default:
		return PhaseGrowth, fmt.Errorf("unknown market phase %q", s)
	}
}

// CycleState is the full observable state of the market cycle.
type CycleState struct {
	Phase    Phase   `msgpack:"phase" json:"phase"`
	Progress float64 `msgpack:"progress" json:"progress"`
	// Intensity is a phase-dependent function of progress.
	Intensity float64 `msgpack:"intensity" json:"intensity"`
	// Duration counts ticks spent in the current phase.
	Duration    int `msgpack:"duration" json:"duration"`
	TotalCycles int `msgpack:"total_cycles" json:"totalCycles"`
}

// Snapshot is a read-only view of the market handed to bots and
// emitted with tick events. Assets are in stable symbol order.
type Snapshot struct {
	Cycle  CycleState `msgpack:"cycle" json:"cycle"`
	Assets []Asset    `msgpack:"assets" json:"assets"`
	// BotAssets are the trading-floor synthetic assets, if any.
	BotAssets []Asset `msgpack:"bot_assets" json:"botAssets"`
	Tick      int64   `msgpack:"tick" json:"tick"`
}

// Asset returns the snapshot entry for a symbol.
func (s Snapshot) Asset(sym Symbol) (Asset, bool) {
	for _, a := range s.Assets {
		if a.Symbol == sym {
			return a, true
		}
	}
	return Asset{}, false
}

// MeanPriceRatio is the average of current/starting price across assets.
func (s Snapshot) MeanPriceRatio() float64 {
	if len(s.Assets) == 0 {
		return 1
	}
	sum := 0.0
	for _, a := range s.Assets {
		if a.StartingPrice > 0 {
			sum += a.Price / a.StartingPrice
		}
	}
	return sum / float64(len(s.Assets))
}

// MeanVolatility is the average volatility across assets.
func (s Snapshot) MeanVolatility() float64 {
	if len(s.Assets) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range s.Assets {
		sum += a.Volatility
	}
	return sum / float64(len(s.Assets))
}

// MeanTrend is the average trend momentum across assets.
func (s Snapshot) MeanTrend() float64 {
	if len(s.Assets) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range s.Assets {
		sum += a.Trend
	}
	return sum / float64(len(s.Assets))
}

// MeanChange is the average fractional price change across assets.
func (s Snapshot) MeanChange() float64 {
	if len(s.Assets) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range s.Assets {
		sum += a.Change
	}
	return sum / float64(len(s.Assets))
}
