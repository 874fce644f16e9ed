package market

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model evolves asset prices and volumes. Like the cycle it is
// deterministic given its random source and the order of calls.
type Model struct {
	cfg    Config
	rng    *rand.Rand
	normal distuv.Normal

	// windows holds the rolling price window per symbol for the
	// mean-reversion term.
	windows map[Symbol][]float64
}

// CrashShock reports the haircut applied to one asset by a forced crash.
type CrashShock struct {
	Symbol    Symbol
	Magnitude float64
	Price     float64
}

// NewModel creates a price model drawing from src.
func NewModel(cfg Config, src rand.Source) *Model {
	return &Model{
		cfg: cfg,
		rng: rand.New(src),
		normal: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   src,
		},
		windows: make(map[Symbol][]float64),
	}
}

// Step advances one asset by one tick. The new price is
// old*(1+random+trend+reversion), clamped to [support, resistance]
// and floored at the configured minimum.
func (m *Model) Step(a *Asset, cs CycleState) {
	old := a.Price

	effVol := a.Volatility * m.cfg.VolatilityMultipliers[cs.Phase] * cs.Intensity
	randomMove := m.normal.Rand() * effVol * m.cfg.ShockScale
	trendMove := a.Trend * m.cfg.TrendFactor * m.cfg.TrendBiases[cs.Phase]
	reversionMove := m.meanReversion(a)

	price := old * (1 + randomMove + trendMove + reversionMove)

	// Clamp into the support/resistance band, then floor.
	if price < a.Support {
		price = a.Support
	}
	if price > a.Resistance {
		price = a.Resistance
	}
	if price < m.cfg.PriceFloor {
		price = m.cfg.PriceFloor
	}

	a.Change = 0
	if old > 0 {
		a.Change = (price - old) / old
	}
	a.Price = price

	m.updateMomentum(a)
	m.updateBand(a)
	m.updateVolume(a, cs)
	m.pushWindow(a.Symbol, price)
}

// StepBotAsset advances a trading-floor asset with the simplified
// volatility model: a uniform move scaled by phase volatility plus a
// bubble-level drift.
func (m *Model) StepBotAsset(a *Asset, cs CycleState, bubbleLevel float64) {
	vol := a.Volatility * m.cfg.VolatilityMultipliers[cs.Phase]
	move := (m.rng.Float64() - 0.5) * vol * 0.2
	drift := bubbleLevel * 0.05

	old := a.Price
	price := old * (1 + move + drift)
	if price < m.cfg.PriceFloor {
		price = m.cfg.PriceFloor
	}
	a.Change = 0
	if old > 0 {
		a.Change = (price - old) / old
	}
	a.Price = price
	a.Volume = math.Max(m.cfg.VolumeFloor, a.Volume*(0.95+m.rng.Float64()*0.1))
}

// Crash applies the one-shot crash haircut to an asset: a uniform
// 15-50% drop on price and band, with volatility doubled and capped.
func (m *Model) Crash(a *Asset) CrashShock {
	span := m.cfg.CrashMaxDrop - m.cfg.CrashMinDrop
	magnitude := m.cfg.CrashMinDrop + m.rng.Float64()*span

	factor := 1 - magnitude
	a.Price = math.Max(m.cfg.PriceFloor, a.Price*factor)
	a.Support *= factor
	a.Resistance *= factor
	a.Volatility = math.Min(1.0, a.Volatility*2)
	a.Change = -magnitude

	m.pushWindow(a.Symbol, a.Price)
	return CrashShock{Symbol: a.Symbol, Magnitude: magnitude, Price: a.Price}
}

// ApplyImpact nudges an asset's price by a trade's liquidity impact.
// The impact fraction is expected to already be capped by the caller.
func (m *Model) ApplyImpact(a *Asset, impact float64) {
	price := a.Price * (1 + impact)
	if price < m.cfg.PriceFloor {
		price = m.cfg.PriceFloor
	}
	if price < a.Support {
		price = a.Support
	}
	if price > a.Resistance {
		price = a.Resistance
	}
	a.Price = price
}

func (m *Model) meanReversion(a *Asset) float64 {
	window := m.windows[a.Symbol]
	var mean float64
	if len(window) >= m.cfg.WindowSize {
		mean = stat.Mean(window, nil)
	} else {
		mean = a.StartingPrice
	}
	if mean <= 0 {
		return 0
	}
	deviation := (a.Price - mean) / mean
	return -m.cfg.MeanReversion * deviation
}

func (m *Model) updateMomentum(a *Asset) {
	step := m.cfg.MomentumStep
	if a.Change < 0 {
		step = -step
	}
	trend := a.Trend*m.cfg.MomentumDecay + step
	if trend > 1 {
		trend = 1
	}
	if trend < -1 {
		trend = -1
	}
	a.Trend = trend
}

// updateBand drifts support/resistance toward a band anchored on the
// current price. The slow adaptation is what lets a clamped price keep
// trending across ticks.
func (m *Model) updateBand(a *Asset) {
	rate := m.cfg.BandAdaptRate
	supportTarget := a.Price * (1 - m.cfg.BandWidth)
	resistanceTarget := a.Price * (1 + m.cfg.BandWidth)
	a.Support += (supportTarget - a.Support) * rate
	a.Resistance += (resistanceTarget - a.Resistance) * rate
	if a.Support < 0 {
		a.Support = 0
	}
	if a.Resistance < a.Support {
		a.Resistance = a.Support
	}
}

func (m *Model) updateVolume(a *Asset, cs CycleState) {
	base := m.cfg.BaseVolume[a.Symbol]
	if base <= 0 {
		base = 100
	}
	target := base * m.cfg.VolumeMultipliers[cs.Phase]
	volume := a.Volume + (target-a.Volume)*0.1
	noise := (m.rng.Float64()*2 - 1) * a.Volatility * m.cfg.VolumeNoise
	volume *= 1 + noise
	a.Volume = math.Max(m.cfg.VolumeFloor, volume)
}

func (m *Model) pushWindow(sym Symbol, price float64) {
	window := append(m.windows[sym], price)
	if len(window) > m.cfg.WindowSize {
		window = window[len(window)-m.cfg.WindowSize:]
	}
	m.windows[sym] = window
}
