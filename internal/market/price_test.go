package market

import (
	"math/rand/v2"
	"testing"
)

func newTestModel(seed uint64) (*Model, Config) {
	cfg := DefaultConfig()
	return NewModel(cfg, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), cfg
}

func TestStepKeepsPriceInBand(t *testing.T) {
	m, cfg := newTestModel(42)
	cycle := NewCycle(cfg)

	asset := cfg.NewAsset(SymbolMoon) // highest volatility
	for i := 0; i < 2000; i++ {
		cs := cycle.State()
		m.Step(&asset, cs)
		cycle.Advance()

		if asset.Price <= 0 {
			t.Fatalf("tick %d: price not positive: %f", i, asset.Price)
		}
		if asset.Price < asset.Support-1e-9 || asset.Price > asset.Resistance+1e-9 {
			t.Fatalf("tick %d: price %f outside band [%f, %f]",
				i, asset.Price, asset.Support, asset.Resistance)
		}
		if asset.Trend < -1 || asset.Trend > 1 {
			t.Fatalf("tick %d: trend out of range: %f", i, asset.Trend)
		}
		if asset.Volume < cfg.VolumeFloor {
			t.Fatalf("tick %d: volume below floor: %f", i, asset.Volume)
		}
	}
}

func TestCrashDropsPriceWithinBounds(t *testing.T) {
	m, cfg := newTestModel(7)

	for i := 0; i < 200; i++ {
		asset := cfg.NewAsset(SymbolQoin)
		before := asset.Price
		shock := m.Crash(&asset)

		drop := 1 - asset.Price/before
		if drop < cfg.CrashMinDrop-1e-9 || drop > cfg.CrashMaxDrop+1e-9 {
			t.Fatalf("crash drop %f outside [%f, %f]", drop, cfg.CrashMinDrop, cfg.CrashMaxDrop)
		}
		if shock.Magnitude < cfg.CrashMinDrop || shock.Magnitude > cfg.CrashMaxDrop {
			t.Fatalf("reported magnitude %f out of bounds", shock.Magnitude)
		}
		if asset.Volatility > 1.0 {
			t.Fatalf("volatility exceeded 1.0: %f", asset.Volatility)
		}
	}
}

func TestCrashDoublesVolatilityCapped(t *testing.T) {
	m, cfg := newTestModel(3)

	asset := cfg.NewAsset(SymbolHodl)
	asset.Volatility = 0.3
	m.Crash(&asset)
	if asset.Volatility != 0.6 {
		t.Errorf("expected volatility 0.6, got %f", asset.Volatility)
	}

	asset.Volatility = 0.8
	m.Crash(&asset)
	if asset.Volatility != 1.0 {
		t.Errorf("expected volatility capped at 1.0, got %f", asset.Volatility)
	}
}

func TestModelDeterministicForSeed(t *testing.T) {
	run := func() []float64 {
		m, cfg := newTestModel(99)
		cycle := NewCycle(cfg)
		asset := cfg.NewAsset(SymbolQoin)

		prices := make([]float64, 0, 500)
		for i := 0; i < 500; i++ {
			m.Step(&asset, cycle.State())
			cycle.Advance()
			prices = append(prices, asset.Price)
		}
		return prices
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d: runs diverged: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestApplyImpactRespectsBandAndFloor(t *testing.T) {
	m, cfg := newTestModel(5)

	asset := cfg.NewAsset(SymbolQoin)
	m.ApplyImpact(&asset, 0.01)
	if asset.Price > asset.Resistance {
		t.Errorf("impact pushed price above resistance")
	}

	asset = cfg.NewAsset(SymbolQoin)
	m.ApplyImpact(&asset, -0.01)
	if asset.Price < asset.Support {
		t.Errorf("impact pushed price below support")
	}
	if asset.Price <= 0 {
		t.Errorf("impact produced non-positive price")
	}
}
