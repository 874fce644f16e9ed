package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/qoinlabs/qoinbots/internal/config"
	"github.com/qoinlabs/qoinbots/internal/engine"
	"github.com/qoinlabs/qoinbots/internal/engine/service"
	"github.com/qoinlabs/qoinbots/internal/game"
	"github.com/qoinlabs/qoinbots/pkg/logger"
	"github.com/qoinlabs/qoinbots/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "qoinbots:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.PrettyLogs && cfg.Headless})
	if !cfg.Headless {
		// The TUI owns the terminal; keep structured logs out of it.
		log = zerolog.Nop()
	}

	engCfg := engine.DefaultConfig()
	if cfg.Seed != 0 {
		engCfg.Seed = uint64(cfg.Seed)
	} else {
		engCfg.Seed = uint64(time.Now().UnixNano())
	}

	store := game.NewFileStore(cfg.SavePath)
	eng, err := loadOrNewEngine(engCfg, log, store)
	if err != nil {
		return err
	}

	svcCfg := service.Config{
		TickInterval:  time.Duration(cfg.TickMillis) * time.Millisecond,
		Speed:         cfg.Speed,
		EventBuffer:   256,
		AutosaveTicks: int64(cfg.AutosaveTicks),
	}
	svc := service.New(svcCfg, eng, store, service.WallClock(), log)
	svc.Start()
	defer svc.Stop()

	if cfg.Headless {
		return runHeadless(svc, log)
	}
	return runTUI(svc)
}

// loadOrNewEngine resumes the saved game when one exists, crediting
// offline progress, and starts fresh otherwise.
func loadOrNewEngine(cfg engine.Config, log zerolog.Logger, store *game.FileStore) (*engine.Engine, error) {
	snap, err := store.Load()
	if errors.Is(err, game.ErrNoSnapshot) {
		log.Info().Msg("starting new game")
		return engine.New(cfg, log)
	}
	if err != nil {
		log.Warn().Err(err).Msg("save unreadable, starting fresh")
		return engine.New(cfg, log)
	}

	eng, err := engine.Resume(cfg, log, snap)
	if err != nil {
		log.Warn().Err(err).Msg("save incompatible, starting fresh")
		return engine.New(cfg, log)
	}

	away := time.Since(snap.SavedAt)
	if away > time.Minute {
		// Engine isn't running yet, direct access is safe.
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(snap.SavedAt.UnixNano())))
		report := eng.State().ApplyOfflineProgress(away, rng)
		log.Info().
			Dur("away", report.Credited).
			Int("trades", report.Trades).
			Float64("pnl", report.TotalPnL).
			Msg("applied offline progress")
	}
	return eng, nil
}

func runHeadless(svc *service.Service, log zerolog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			return nil
		case ev, ok := <-svc.Events():
			if !ok {
				return nil
			}
			if tick, isTick := ev.(engine.TickEvent); isTick && tick.Tick%100 == 0 {
				log.Info().
					Int64("tick", tick.Tick).
					Str("phase", tick.Snapshot.Cycle.Phase.String()).
					Msg("sim running")
			}
		}
	}
}

func runTUI(svc *service.Service) error {
	program := tea.NewProgram(tui.NewModel(svc), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
