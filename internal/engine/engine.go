// Package engine orchestrates one simulation: it owns the market
// cycle, the price model, the bot roster, and the meta-game, and
// advances them all in a single deterministic Tick. The engine itself
// is single-threaded; the service wrapper adds the clock and the
// event fan-out.
package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/game"
	"github.com/qoinlabs/qoinbots/internal/market"
)

// tradeMark is one entry in the sliding window feeding the herding
// signal.
type tradeMark struct {
	tick   int64
	signal float64
}

// Engine advances the whole game one tick at a time. Not safe for
// concurrent use; the service serializes access.
type Engine struct {
	cfg Config
	log zerolog.Logger

	rng   *rand.Rand
	cycle *market.Cycle
	model *market.Model

	assets    []market.Asset
	botAssets []market.Asset
	history   map[market.Symbol][]float64

	state *game.State
	tick  int64

	recent     []tradeMark
	nextBotIdx int
}

// New builds an engine with a fresh game at tick zero.
func New(cfg Config, log zerolog.Logger) (*Engine, error) {
	state, err := game.NewState(cfg.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	e := newEngine(cfg, log, state)
	for _, sym := range market.Symbols() {
		e.assets = append(e.assets, cfg.Market.NewAsset(sym))
	}
	return e, nil
}

// Resume rebuilds an engine from a persisted snapshot.
func Resume(cfg Config, log zerolog.Logger, snap game.Snapshot) (*Engine, error) {
	state, err := game.Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("resume game: %w", err)
	}
	e := newEngine(cfg, log, state)
	e.tick = snap.Tick
	e.cycle.Resume(snap.Market.Cycle)

	if len(snap.Market.Assets) > 0 {
		e.assets = append(e.assets, snap.Market.Assets...)
	} else {
		for _, sym := range market.Symbols() {
			e.assets = append(e.assets, cfg.Market.NewAsset(sym))
		}
	}
	e.botAssets = append(e.botAssets, snap.Market.BotAssets...)

	// Continue bot-asset numbering where the save left off so a
	// resumed floor never lists a duplicate symbol.
	for _, a := range e.botAssets {
		var n int
		if _, err := fmt.Sscanf(string(a.Symbol), "BOT%d", &n); err == nil && n > e.nextBotIdx {
			e.nextBotIdx = n
		}
	}
	return e, nil
}

func newEngine(cfg Config, log zerolog.Logger, state *game.State) *Engine {
	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	return &Engine{
		cfg:     cfg,
		log:     log.With().Str("component", "engine").Logger(),
		rng:     rand.New(src),
		cycle:   market.NewCycle(cfg.Market),
		model:   market.NewModel(cfg.Market, src),
		state:   state,
		history: make(map[market.Symbol][]float64),
	}
}

func (e *Engine) Tick() []Event { return e.step() }

// Tick ordering is fixed: cycle, forced transitions, prices, bots,
// floor, progression, closing tick event. Changing the order changes
// every seeded run.
func (e *Engine) step() []Event {
	e.tick++
	var events []Event

	report := e.cycle.Advance()
	if report.CycleCompleted {
		e.state.RecordCycle()
	}
	if report.PhaseChanged {
		events = append(events, PhaseChangedEvent{
			Tick:           e.tick,
			OldPhase:       report.OldPhase,
			NewPhase:       report.NewPhase,
			CycleCompleted: report.CycleCompleted,
		})
		// Every entry into the crash phase carries the one-shot
		// haircut, whether the peak ran its course or was cut short.
		if report.NewPhase == market.PhaseCrash {
			events = append(events, e.crashShock())
		}
	}

	events = e.applyForcedTransitions(events)
	e.stepPrices()
	e.recordHistory()

	events = e.runBots(events)
	events = e.stepFloor(events)
	events = e.applyProgression(events)

	events = append(events, TickEvent{Tick: e.tick, Snapshot: e.marketSnapshot()})
	return events
}

// applyForcedTransitions implements the two event-driven phase jumps:
// a probabilistic crash late in the peak, and a forced recovery when
// a crash has already destroyed most of the market's value.
func (e *Engine) applyForcedTransitions(events []Event) []Event {
	cs := e.cycle.State()

	switch cs.Phase {
	case market.PhasePeak:
		if cs.Progress > e.cfg.PeakCrashProgress && e.rng.Float64() < e.cfg.CrashChance {
			report := e.cycle.ForcePhase(market.PhaseCrash)
			events = append(events,
				PhaseChangedEvent{Tick: e.tick, OldPhase: report.OldPhase, NewPhase: report.NewPhase, Forced: true},
				e.crashShock(),
			)
		}
	case market.PhaseCrash:
		if cs.Progress > e.cfg.RecoveryForceProgress && e.marketSnapshot().MeanPriceRatio() < e.cfg.RecoveryPriceRatio {
			report := e.cycle.ForcePhase(market.PhaseRecovery)
			events = append(events, PhaseChangedEvent{
				Tick: e.tick, OldPhase: report.OldPhase, NewPhase: report.NewPhase, Forced: true,
			})
		}
	}
	return events
}

func (e *Engine) stepPrices() {
	cs := e.cycle.State()
	for i := range e.assets {
		e.stepAsset(&e.assets[i], cs)
	}
	bubble := e.state.Floor().BubbleLevel
	for i := range e.botAssets {
		e.model.StepBotAsset(&e.botAssets[i], cs, bubble)
	}
}

// stepAsset isolates a single asset update so one bad state cannot
// halt the whole tick.
func (e *Engine) stepAsset(a *market.Asset, cs market.CycleState) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("asset", string(a.Symbol)).Msg("price step panicked")
		}
	}()
	e.model.Step(a, cs)
}

// recordHistory appends each asset's price to its bounded chart
// history.
func (e *Engine) recordHistory() {
	limit := e.cfg.MaxHistory
	if limit <= 0 {
		return
	}
	for _, a := range e.assets {
		h := append(e.history[a.Symbol], a.Price)
		if len(h) > limit {
			h = h[len(h)-limit:]
		}
		e.history[a.Symbol] = h
	}
}

// PriceHistory returns the recent prices for a symbol, oldest first.
func (e *Engine) PriceHistory(sym market.Symbol) []float64 {
	h := e.history[sym]
	out := make([]float64, len(h))
	copy(out, h)
	return out
}

// crashShock applies the one-shot haircut to every asset. All crash
// entries route through here.
func (e *Engine) crashShock() CrashEvent {
	shocks := make([]market.CrashShock, 0, len(e.assets))
	for i := range e.assets {
		shocks = append(shocks, e.model.Crash(&e.assets[i]))
	}
	e.log.Info().Int64("tick", e.tick).Msg("market crash")
	return CrashEvent{Tick: e.tick, Shocks: shocks}
}

func (e *Engine) runBots(events []Event) []Event {
	active := e.state.ActiveBots()
	e.rng.Shuffle(len(active), func(i, j int) {
		active[i], active[j] = active[j], active[i]
	})

	for _, b := range active {
		// Each bot reads the market as left by the bots before it,
		// so price impact and herding pressure feed forward within
		// the tick.
		snap, peers := e.botView(len(active))
		out, err := e.runBot(b, snap, peers)
		if err != nil {
			e.log.Warn().Err(err).Str("bot", b.ID()).Msg("trade failed")
			continue
		}
		if out.Trade == nil {
			continue
		}

		e.applyTradeImpact(out.Trade.Asset, out.Impact)
		e.state.RecordTrade(*out.Trade, out.EmergencyFunded)
		e.markTrade(*out.Trade)

		events = append(events, TradeEvent{
			BotID:   b.ID(),
			BotName: b.Name(),
			Avatar:  b.Avatar(),
			Trade:   *out.Trade,
			Balance: b.Stats().Balance,
		})
		if out.MoodChanged {
			events = append(events, MoodChangedEvent{
				BotID: b.ID(), Name: b.Name(), OldMood: out.OldMood, NewMood: out.NewMood,
			})
		}
		if out.EmergencyFunded {
			events = append(events, FundingEvent{BotID: b.ID(), Name: b.Name(), Amount: 1})
		}
		if out.Speech != "" {
			events = append(events, SpeechEvent{
				BotID: b.ID(), Name: b.Name(), Avatar: b.Avatar(), Text: out.Speech, Mood: b.Mood(),
			})
		}
	}
	return events
}

// botView is what one bot sees when its turn comes up: the live
// market including any same-tick impact, and the current herding
// window.
func (e *Engine) botView(activeBots int) (market.Snapshot, bot.PeerView) {
	return e.marketSnapshot(), e.peerView(activeBots)
}

// runBot isolates one bot's decision so a panicking bot skips its
// turn instead of killing the tick.
func (e *Engine) runBot(b *bot.Bot, snap market.Snapshot, peers bot.PeerView) (out bot.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bot %s panicked: %v", b.ID(), r)
		}
	}()
	return b.Trade(snap, peers, e.tick, e.rng)
}

func (e *Engine) applyTradeImpact(sym market.Symbol, impact float64) {
	for i := range e.assets {
		if e.assets[i].Symbol == sym {
			e.model.ApplyImpact(&e.assets[i], impact)
			return
		}
	}
}

// markTrade records a trade in the herding window.
func (e *Engine) markTrade(t bot.Trade) {
	signal := 1.0
	if t.Action == bot.ActionSell {
		signal = -1.0
	}
	e.recent = append(e.recent, tradeMark{tick: e.tick, signal: signal})

	cutoff := e.tick - int64(e.cfg.PeerWindow)
	kept := e.recent[:0]
	for _, m := range e.recent {
		if m.tick > cutoff {
			kept = append(kept, m)
		}
	}
	e.recent = kept
}

func (e *Engine) peerView(activeBots int) bot.PeerView {
	cutoff := e.tick - int64(e.cfg.PeerWindow)
	count := 0
	sum := 0.0
	for _, m := range e.recent {
		if m.tick > cutoff {
			count++
			sum += m.signal
		}
	}
	view := bot.PeerView{ActiveBots: activeBots, RecentTrades: count}
	if count > 0 {
		view.NetSignal = sum / float64(count)
	}
	return view
}

// stepFloor runs the trading-floor meta layer: the floor unlocks
// after enough collective trades, activity inflates the bubble,
// sometimes a synthetic bot asset lists, and at full inflation the
// bubble pops and bot assets crater.
func (e *Engine) stepFloor(events []Event) []Event {
	floor := e.state.Floor()

	if !floor.Unlocked {
		if e.state.Player().TotalTrades >= e.cfg.FloorUnlockTrades {
			floor.Unlocked = true
			e.state.SetFloor(floor)
			e.log.Info().Int64("tick", e.tick).Msg("trading floor unlocked")
		} else {
			return events
		}
	}

	tradesThisTick := 0
	for _, m := range e.recent {
		if m.tick == e.tick {
			tradesThisTick++
		}
	}
	floor.BubbleLevel += float64(tradesThisTick) * e.cfg.BubbleGrowthPerTrade
	floor.BubbleLevel -= e.cfg.BubbleDecay
	if floor.BubbleLevel < 0 {
		floor.BubbleLevel = 0
	}

	if tradesThisTick > 0 && e.rng.Float64() < e.cfg.BotAssetSpawnChance {
		asset := e.spawnBotAsset()
		e.botAssets = append(e.botAssets, asset)
		events = append(events, BotAssetCreatedEvent{Asset: asset})
	}

	if floor.BubbleLevel >= 1.0 {
		level := floor.BubbleLevel
		for i := range e.botAssets {
			a := &e.botAssets[i]
			a.Price *= e.cfg.BotAssetCrashFactor
			if a.Price < e.cfg.Market.PriceFloor {
				a.Price = e.cfg.Market.PriceFloor
			}
		}
		floor.BubbleLevel = 0
		e.state.SetFloor(floor)
		e.state.RecordBubblePop()
		e.log.Info().Int64("tick", e.tick).Float64("level", level).Msg("bubble popped")
		return append(events, BubblePoppedEvent{Tick: e.tick, Level: level})
	}

	e.state.SetFloor(floor)
	return events
}

func (e *Engine) spawnBotAsset() market.Asset {
	e.nextBotIdx++
	a := e.cfg.Market.NewAsset(market.Symbol(fmt.Sprintf("BOT%d", e.nextBotIdx)))
	a.Price = 0.1 + e.rng.Float64()*0.9
	a.StartingPrice = a.Price
	a.Volatility = 0.5 + e.rng.Float64()*0.5
	a.Support = a.Price * 0.5
	a.Resistance = a.Price * 2
	return a
}

// applyProgression latches unlocks and achievements, adding newly
// unlocked preset bots to the roster.
func (e *Engine) applyProgression(events []Event) []Event {
	for _, id := range e.state.EvaluateUnlocks() {
		b, err := bot.NewFromPreset(id, e.cfg.StartingBalance)
		if err != nil {
			e.log.Warn().Err(err).Str("bot", id).Msg("unlocked unknown preset")
			continue
		}
		if err := e.state.AddBot(b); err != nil {
			e.log.Warn().Err(err).Str("bot", id).Msg("unlock add failed")
			continue
		}
		e.log.Info().Str("bot", id).Int64("tick", e.tick).Msg("bot unlocked")
		events = append(events, BotUnlockedEvent{BotID: id, Name: b.Name(), Tick: e.tick})
	}

	for _, a := range e.state.EvaluateAchievements(e.tick) {
		events = append(events, AchievementEvent{Achievement: a})
	}
	return events
}

// ForceCrash immediately jumps the cycle into the crash phase and
// applies haircuts, regardless of the current phase.
func (e *Engine) ForceCrash() []Event {
	report := e.cycle.ForcePhase(market.PhaseCrash)
	events := []Event{e.crashShock()}
	if report.PhaseChanged {
		events = append([]Event{PhaseChangedEvent{
			Tick: e.tick, OldPhase: report.OldPhase, NewPhase: report.NewPhase, Forced: true,
		}}, events...)
	}
	return events
}

// BoostBot layers a temporary trait boost on a roster bot, for the
// feed/encourage player actions.
func (e *Engine) BoostBot(id string, delta bot.Traits, durationTicks int64) error {
	b, err := e.state.Bot(id)
	if err != nil {
		return err
	}
	b.ApplyBoost(delta, e.tick+durationTicks)
	return nil
}

// AddCustomBot creates and rosters a player-designed bot.
func (e *Engine) AddCustomBot(name string) (*bot.Bot, error) {
	b := bot.NewCustom(name, e.cfg.StartingBalance, e.rng)
	if err := e.state.AddBot(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (e *Engine) marketSnapshot() market.Snapshot {
	snap := market.Snapshot{
		Cycle: e.cycle.State(),
		Tick:  e.tick,
	}
	snap.Assets = make([]market.Asset, len(e.assets))
	copy(snap.Assets, e.assets)
	if len(e.botAssets) > 0 {
		snap.BotAssets = make([]market.Asset, len(e.botAssets))
		copy(snap.BotAssets, e.botAssets)
	}
	return snap
}

// Snapshot freezes the full game for persistence.
func (e *Engine) Snapshot() game.Snapshot {
	return e.state.Capture(e.marketSnapshot(), e.tick)
}

func (e *Engine) CurrentTick() int64 { return e.tick }
func (e *Engine) State() *game.State { return e.state }

func (e *Engine) Cycle() market.CycleState {
	return e.cycle.State()
}
