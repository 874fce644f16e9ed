// Package service wraps the engine in a goroutine with a tick clock,
// an event fan-out channel, and periodic autosave. All engine access
// from outside the runner goes through the mutex.
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/qoinlabs/qoinbots/internal/engine"
	"github.com/qoinlabs/qoinbots/internal/game"
)

var ErrClosed = errors.New("service closed")

// Config tunes the runner around the engine.
type Config struct {
	// TickInterval is the base wall-clock duration of one tick.
	TickInterval time.Duration
	// Speed divides the tick interval; 2 runs twice as fast.
	Speed float64
	// EventBuffer sizes the outbound event channel. When the consumer
	// falls behind, events are dropped rather than stalling the sim.
	EventBuffer int
	// AutosaveTicks saves every N ticks; zero disables autosave.
	AutosaveTicks int64
}

func DefaultConfig() Config {
	return Config{
		TickInterval:  2 * time.Second,
		Speed:         1,
		EventBuffer:   256,
		AutosaveTicks: 150,
	}
}

// Service owns the engine's run loop.
type Service struct {
	cfg   Config
	log   zerolog.Logger
	clock Clock
	store game.SnapshotStore

	mu  sync.Mutex
	eng *engine.Engine

	events chan engine.Event
	speed  chan time.Duration
	paused chan bool

	closed    chan struct{}
	closeOnce sync.Once
	startOnce sync.Once
	wg        sync.WaitGroup

	dropped int64
}

// New wires a service around an engine. store may be nil to disable
// persistence entirely.
func New(cfg Config, eng *engine.Engine, store game.SnapshotStore, clock Clock, log zerolog.Logger) *Service {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if clock == nil {
		clock = WallClock()
	}
	return &Service{
		cfg:    cfg,
		log:    log.With().Str("component", "service").Logger(),
		clock:  clock,
		store:  store,
		eng:    eng,
		events: make(chan engine.Event, cfg.EventBuffer),
		speed:  make(chan time.Duration, 1),
		paused: make(chan bool, 1),
		closed: make(chan struct{}),
	}
}

// Events is the outbound event stream. It is closed on Stop.
func (s *Service) Events() <-chan engine.Event { return s.events }

// Start launches the runner. Idempotent.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run()
	})
}

// Stop halts the runner, saves a final snapshot, and closes the event
// channel. Idempotent.
func (s *Service) Stop() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}

// SetSpeed changes the simulation speed multiplier. Values at or
// below zero are ignored.
func (s *Service) SetSpeed(mult float64) {
	if mult <= 0 {
		return
	}
	d := time.Duration(float64(s.cfg.TickInterval) / mult)
	select {
	case s.speed <- d:
	case <-s.closed:
	default:
		// A pending change is superseded.
		select {
		case <-s.speed:
		default:
		}
		select {
		case s.speed <- d:
		default:
		}
	}
}

// SetPaused suspends or resumes ticking without tearing down the
// runner.
func (s *Service) SetPaused(paused bool) {
	select {
	case s.paused <- paused:
	case <-s.closed:
	default:
		select {
		case <-s.paused:
		default:
		}
		select {
		case s.paused <- paused:
		default:
		}
	}
}

// Snapshot freezes the current game. Safe to call from any goroutine.
func (s *Service) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Snapshot()
}

// ForceCrash triggers an immediate market crash.
func (s *Service) ForceCrash() {
	s.mu.Lock()
	events := s.eng.ForceCrash()
	s.mu.Unlock()
	for _, ev := range events {
		s.publish(ev)
	}
}

// Save persists the current snapshot through the store.
func (s *Service) Save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.Snapshot())
}

// Engine exposes the engine under the service mutex for short
// synchronous calls. fn must not retain the engine.
func (s *Service) Engine(fn func(*engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// Dropped reports how many events were discarded because the consumer
// lagged.
func (s *Service) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Service) run() {
	defer s.wg.Done()
	defer close(s.events)

	interval := time.Duration(float64(s.cfg.TickInterval) / s.cfg.Speed)
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	paused := false
	var sinceSave int64

	for {
		select {
		case <-s.closed:
			s.saveFinal()
			return

		case d := <-s.speed:
			ticker.Reset(d)

		case p := <-s.paused:
			paused = p

		case <-ticker.C():
			// Control messages sent before this tick fired win.
			select {
			case p := <-s.paused:
				paused = p
			default:
			}
			select {
			case d := <-s.speed:
				ticker.Reset(d)
			default:
			}
			if paused {
				continue
			}

			s.mu.Lock()
			events := s.eng.Tick()
			s.mu.Unlock()

			for _, ev := range events {
				s.publish(ev)
			}

			sinceSave++
			if s.cfg.AutosaveTicks > 0 && sinceSave >= s.cfg.AutosaveTicks {
				sinceSave = 0
				if err := s.Save(); err != nil {
					s.log.Error().Err(err).Msg("autosave failed")
					s.publish(engine.SaveErrorEvent{Err: err})
				}
			}
		}
	}
}

// publish delivers an event without ever blocking the runner.
func (s *Service) publish(ev engine.Event) {
	select {
	case <-s.closed:
		return
	default:
	}
	select {
	case s.events <- ev:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
	}
}

func (s *Service) saveFinal() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.Snapshot()); err != nil {
		s.log.Error().Err(err).Msg("final save failed")
	}
}
