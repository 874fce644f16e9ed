package service

import "time"

// Ticker delivers tick signals. Abstracted so tests drive the service
// by hand instead of sleeping.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// Clock makes tickers. The zero-value wall clock is used in
// production.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type wallClock struct{}

// WallClock returns the real-time clock.
func WallClock() Clock { return wallClock{} }

func (wallClock) NewTicker(d time.Duration) Ticker {
	return &wallTicker{t: time.NewTicker(d)}
}

type wallTicker struct {
	t *time.Ticker
}

func (w *wallTicker) C() <-chan time.Time   { return w.t.C }
func (w *wallTicker) Reset(d time.Duration) { w.t.Reset(d) }
func (w *wallTicker) Stop()                 { w.t.Stop() }

// ManualClock hands out tickers fired explicitly via Fire. Test use
// only.
type ManualClock struct {
	ch chan time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{ch: make(chan time.Time, 1)}
}

func (m *ManualClock) NewTicker(time.Duration) Ticker {
	return manualTicker{ch: m.ch}
}

// Fire delivers one tick, blocking until the runner picks it up.
func (m *ManualClock) Fire() { m.ch <- time.Now() }

type manualTicker struct {
	ch chan time.Time
}

func (t manualTicker) C() <-chan time.Time { return t.ch }
func (t manualTicker) Reset(time.Duration) {}
func (t manualTicker) Stop()               {}
