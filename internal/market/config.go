package market

// Config holds the tunables of the market cycle and price model.
type Config struct {
	// PhaseDurations is the length of each phase in ticks, indexed by Phase.
	PhaseDurations [numPhases]int
	// VolatilityMultipliers scales the Gaussian shock per phase.
	VolatilityMultipliers [numPhases]float64
	// TrendBiases scales the trend move per phase. Negative during crash.
	TrendBiases [numPhases]float64
	// VolumeMultipliers pulls volume toward a phase-dependent level.
	VolumeMultipliers [numPhases]float64

	// ShockScale damps the raw Gaussian draw into a per-tick move.
	ShockScale float64
	// TrendFactor scales trend momentum into a per-tick move.
	TrendFactor float64
	// MeanReversion is the pull coefficient toward the rolling average.
	MeanReversion float64
	// MomentumDecay is the EMA decay of trend momentum.
	MomentumDecay float64
	// MomentumStep is the per-tick momentum contribution of a move's sign.
	MomentumStep float64
	// WindowSize is the rolling average length in ticks.
	WindowSize int
	// BandAdaptRate is how fast support/resistance follow price.
	BandAdaptRate float64
	// BandWidth anchors support at price*(1-BandWidth) and resistance
	// at price*(1+BandWidth).
	BandWidth float64
	// PriceFloor is the minimum representable price.
	PriceFloor float64
	// VolumeFloor is the minimum volume.
	VolumeFloor float64
	// VolumeNoise scales volatility into volume jitter.
	VolumeNoise float64
	// BaseVolume is the neutral volume level per asset.
	BaseVolume map[Symbol]float64
	// StartingPrices per asset.
	StartingPrices map[Symbol]float64
	// StartingVolatility per asset.
	StartingVolatility map[Symbol]float64
	// CrashMinDrop and CrashMaxDrop bound the one-shot crash haircut.
	CrashMinDrop float64
	CrashMaxDrop float64
}

// DefaultConfig returns the standard game tuning.
func DefaultConfig() Config {
	cfg := Config{
		ShockScale:    0.1,
		TrendFactor:   0.05,
		MeanReversion: 0.02,
		MomentumDecay: 0.95,
		MomentumStep:  0.1,
		WindowSize:    20,
		BandAdaptRate: 0.05,
		BandWidth:     0.2,
		PriceFloor:    0.01,
		VolumeFloor:   1.0,
		VolumeNoise:   0.2,
		BaseVolume: map[Symbol]float64{
			SymbolQoin: 100,
			SymbolHodl: 50,
			SymbolMoon: 1000,
		},
		StartingPrices: map[Symbol]float64{
			SymbolQoin: 1.0,
			SymbolHodl: 10.0,
			SymbolMoon: 0.1,
		},
		StartingVolatility: map[Symbol]float64{
			SymbolQoin: 0.3,
			SymbolHodl: 0.1,
			SymbolMoon: 0.8,
		},
		CrashMinDrop: 0.15,
		CrashMaxDrop: 0.50,
	}

	cfg.PhaseDurations[PhaseGrowth] = 150
	cfg.PhaseDurations[PhaseBubble] = 60
	cfg.PhaseDurations[PhasePeak] = 15
	cfg.PhaseDurations[PhaseCrash] = 30
	cfg.PhaseDurations[PhaseRecovery] = 90

	cfg.VolatilityMultipliers[PhaseGrowth] = 1.0
	cfg.VolatilityMultipliers[PhaseBubble] = 1.5
	cfg.VolatilityMultipliers[PhasePeak] = 2.0
	cfg.VolatilityMultipliers[PhaseCrash] = 3.0
	cfg.VolatilityMultipliers[PhaseRecovery] = 1.2

	cfg.TrendBiases[PhaseGrowth] = 1.2
	cfg.TrendBiases[PhaseBubble] = 2.0
	cfg.TrendBiases[PhasePeak] = 0.5
	cfg.TrendBiases[PhaseCrash] = -2.0
	cfg.TrendBiases[PhaseRecovery] = 0.8

	cfg.VolumeMultipliers[PhaseGrowth] = 1.2
	cfg.VolumeMultipliers[PhaseBubble] = 2.5
	cfg.VolumeMultipliers[PhasePeak] = 3.0
	cfg.VolumeMultipliers[PhaseCrash] = 4.0
	cfg.VolumeMultipliers[PhaseRecovery] = 0.8

	return cfg
}

// NewAsset initializes an asset at its configured starting values.
func (c Config) NewAsset(sym Symbol) Asset {
	price := c.StartingPrices[sym]
	if price <= 0 {
		price = 1.0
	}
	vol := c.StartingVolatility[sym]
	if vol <= 0 {
		vol = 0.5
	}
	base := c.BaseVolume[sym]
	if base <= 0 {
		base = 100
	}
	return Asset{
		Symbol:        sym,
		Price:         price,
		StartingPrice: price,
		Volume:        base,
		Volatility:    vol,
		Support:       price * (1 - c.BandWidth),
		Resistance:    price * (1 + c.BandWidth),
	}
}
