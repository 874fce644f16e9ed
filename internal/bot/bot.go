package bot

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/qoinlabs/qoinbots/internal/market"
)

const (
	// minTradeDelayTicks floors the trade delay so no mood/trait combo
	// trades unboundedly fast.
	minTradeDelayTicks = 1
	// balanceMargin: a bot needs minTradeSize*balanceMargin to trade.
	balanceMargin = 1.1
	// baseThreshold is the confidence a trade must clear at neutral mood.
	baseThreshold = 0.6
	// maxBalanceFraction caps any single trade below total exhaustion.
	maxBalanceFraction = 0.9
	// impactCap bounds the liquidity-impact price adjustment.
	impactCap = 0.01
	// historyCap bounds the trade-history ring buffer.
	historyCap = 100
	// speechCooldownTicks is the minimum gap between commentaries.
	speechCooldownTicks = 5
	// emergencyFloor and emergencyRefill implement the narrative
	// "emergency funding" policy for near-broke bots.
	emergencyFloor  = 0.1
	emergencyRefill = 1.0
	// depressedBalance forces the depressed mood below this balance.
	depressedBalance = 0.5
	// enlightenedTrades/WinRate force the enlightened mood.
	enlightenedTrades  = 50
	enlightenedWinRate = 0.8
	// panicLossStreak forces the panicked mood.
	panicLossStreak = 5
)

// Bot is an autonomous trading agent. All mutation of its stats and
// mood goes through its own methods so invariants (balance floor,
// mood validity) are enforced in one place.
type Bot struct {
	id          string
	name        string
	avatar      string
	personality Personality
	description string

	mood   Mood
	active bool

	traits Traits
	prefs  Preferences
	stats  Stats
	boosts []Boost

	lastTradeTick  int64
	lastSpeechTick int64
	history        []Trade
}

func newBot(preset Preset, startingBalance float64) *Bot {
	return &Bot{
		id:          preset.ID,
		name:        preset.Name,
		avatar:      preset.Avatar,
		personality: preset.Personality,
		description: preset.Description,
		mood:        MoodNeutral,
		active:      true,
		traits:      preset.Traits,
		prefs:       preset.Preferences,
		stats: Stats{
			Balance:         startingBalance,
			StartingBalance: startingBalance,
		},
		lastSpeechTick: -speechCooldownTicks,
	}
}

func (b *Bot) ID() string               { return b.id }
func (b *Bot) Name() string             { return b.name }
func (b *Bot) Avatar() string           { return b.avatar }
func (b *Bot) Personality() Personality { return b.personality }
func (b *Bot) Description() string      { return b.description }
func (b *Bot) Mood() Mood               { return b.mood }
func (b *Bot) Active() bool             { return b.active }
func (b *Bot) Stats() Stats             { return b.stats }
func (b *Bot) Preferences() Preferences { return b.prefs }

// SetActive toggles participation. Bots are never destroyed, only
// deactivated.
func (b *Bot) SetActive(active bool) { b.active = active }

// History returns the bounded trade history, most recent last.
func (b *Bot) History() []Trade {
	out := make([]Trade, len(b.history))
	copy(out, b.history)
	return out
}

// ApplyBoost layers a time-bounded trait override (feed/encourage).
func (b *Bot) ApplyBoost(delta Traits, expiresTick int64) {
	b.boosts = append(b.boosts, Boost{Delta: delta, ExpiresTick: expiresTick})
}

// EffectiveTraits returns base traits with unexpired boosts applied.
func (b *Bot) EffectiveTraits(tick int64) Traits {
	traits := b.traits
	kept := b.boosts[:0]
	for _, boost := range b.boosts {
		if boost.ExpiresTick > tick {
			traits = traits.Add(boost.Delta)
			kept = append(kept, boost)
		}
	}
	b.boosts = kept
	return traits
}

// ChangeMood sets the mood directly, reporting whether it changed.
func (b *Bot) ChangeMood(mood Mood) bool {
	if mood == b.mood {
		return false
	}
	b.mood = mood
	return true
}

// tradeDelay is the required tick gap between trades:
// base / (moodFrequency * (2 - patience)), floored.
func (b *Bot) tradeDelay(traits Traits) int64 {
	freq := b.mood.Profile().TradeFrequency
	delay := float64(b.prefs.TradeEvery) / (freq * (2 - traits.Patience))
	ticks := int64(math.Round(delay))
	if ticks < minTradeDelayTicks {
		ticks = minTradeDelayTicks
	}
	return ticks
}

// ShouldTrade reports whether the bot would attempt a trade this tick.
// It draws from rng (signal generation), so callers that intend to
// trade should call Trade instead of calling both.
func (b *Bot) ShouldTrade(snap market.Snapshot, peers PeerView, tick int64, rng *rand.Rand) bool {
	traits := b.EffectiveTraits(tick)
	if !b.gatesOpen(traits, tick) {
		return false
	}
	signals := b.generateSignals(snap, peers, traits, rng)
	confidence := b.confidence(signals, traits)
	return confidence > b.threshold()
}

func (b *Bot) gatesOpen(traits Traits, tick int64) bool {
	if !b.active {
		return false
	}
	if b.stats.Balance < b.prefs.MinTradeSize*balanceMargin {
		return false
	}
	if tick-b.lastTradeTick < b.tradeDelay(traits) {
		return false
	}
	return true
}

func (b *Bot) threshold() float64 {
	return baseThreshold / b.mood.Profile().TradeFrequency
}

// Trade runs one full trading opportunity: decide, execute, update
// stats and mood, maybe speak. The returned Outcome has a nil Trade
// when nothing fired.
func (b *Bot) Trade(snap market.Snapshot, peers PeerView, tick int64, rng *rand.Rand) (Outcome, error) {
	var out Outcome

	traits := b.EffectiveTraits(tick)
	if !b.gatesOpen(traits, tick) {
		return out, nil
	}

	signals := b.generateSignals(snap, peers, traits, rng)
	confidence := b.confidence(signals, traits)
	if confidence <= b.threshold() {
		return out, nil
	}

	asset, ok := b.selectAsset(snap, traits, rng)
	if !ok {
		return out, nil
	}

	action := b.selectAction(signals, traits)
	size := b.tradeSize(traits)
	if size < b.prefs.MinTradeSize {
		return out, nil
	}

	impact := liquidityImpact(size, asset.Volume)
	execPrice := asset.Price * (1 + impact)
	if action == ActionSell {
		impact = -impact
		execPrice = asset.Price * (1 + impact)
	}
	if execPrice <= 0 {
		return out, fmt.Errorf("bot %s: non-positive execution price for %s", b.id, asset.Symbol)
	}

	pnl := b.simulatePnL(action, size, asset.Volatility, rng)

	balanceBefore := b.stats.Balance
	out.EmergencyFunded = b.applyTradeStats(pnl, size)

	trade := Trade{
		Tick:       tick,
		Asset:      asset.Symbol,
		Action:     action,
		Size:       size,
		Price:      execPrice,
		PnL:        pnl,
		Mood:       b.mood,
		Confidence: confidence,
	}
	b.pushHistory(trade)
	b.lastTradeTick = tick

	out.OldMood = b.mood
	b.updateMoodFromTrade(pnl, balanceBefore, traits)
	out.NewMood = b.mood
	out.MoodChanged = out.NewMood != out.OldMood

	out.Speech = b.maybeSpeak(pnl, tick, rng)
	out.Trade = &trade
	out.Impact = impact
	return out, nil
}

func (b *Bot) generateSignals(snap market.Snapshot, peers PeerView, traits Traits, rng *rand.Rand) []Signal {
	signals := make([]Signal, 0, 5)

	// Price-trend signal.
	signals = append(signals, Signal{
		Strength:   clampSignal(snap.MeanTrend()),
		Source:     "trend",
		Confidence: 0.5,
	})

	// Volume/volatility confirmation of the trend.
	signals = append(signals, Signal{
		Strength:   clampSignal(snap.MeanTrend() * snap.MeanVolatility() * 3),
		Source:     "volume",
		Confidence: 0.4,
	})

	signals = append(signals, personalitySignal(b.personality, snap, rng))

	// Social signal from recently active peers; weight grows with the
	// herding trait.
	if peers.ActiveBots > 0 && peers.RecentTrades > 0 {
		signals = append(signals, Signal{
			Strength:   clampSignal(peers.NetSignal),
			Source:     "herding",
			Confidence: 0.2 + 0.5*traits.Herding,
		})
	}

	// Mood bias.
	profile := b.mood.Profile()
	signals = append(signals, Signal{
		Strength:   (profile.OptimismBias - 0.5) * 2,
		Source:     "mood",
		Confidence: 0.3,
	})

	return signals
}

// confidence blends signal magnitudes weighted by their confidence,
// then applies personality bias adjustments.
func (b *Bot) confidence(signals []Signal, traits Traits) float64 {
	if len(signals) == 0 {
		return 0
	}

	totalWeight := 0.0
	weighted := 0.0
	for _, s := range signals {
		totalWeight += s.Confidence
		weighted += math.Abs(s.Strength) * s.Confidence
	}
	if totalWeight == 0 {
		return 0
	}
	confidence := weighted / totalWeight

	// Overconfidence inflates confidence on a hot streak.
	if b.stats.Trades > 5 && b.stats.WinRate > 0.6 {
		confidence *= 1 + traits.Overconfidence*0.5
	}
	// Confirmation bias inflates confidence generally.
	confidence += traits.ConfirmationBias * 0.1

	return clamp01(confidence)
}

// selectAsset picks among preferred assets present in the market,
// weighted toward volatility matching the bot's risk tolerance.
func (b *Bot) selectAsset(snap market.Snapshot, traits Traits, rng *rand.Rand) (market.Asset, bool) {
	candidates := make([]market.Asset, 0, len(b.prefs.PreferredAssets))
	for _, sym := range b.prefs.PreferredAssets {
		if a, ok := snap.Asset(sym); ok {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		if a, ok := snap.Asset(market.SymbolQoin); ok {
			return a, true
		}
		if len(snap.Assets) == 0 {
			return market.Asset{}, false
		}
		return snap.Assets[0], true
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, a := range candidates {
		w := 1 - math.Abs(a.Volatility-traits.RiskTolerance)
		if w < 0.1 {
			w = 0.1
		}
		weights[i] = w
		total += w
	}

	pick := rng.Float64() * total
	for i, w := range weights {
		pick -= w
		if pick <= 0 {
			return candidates[i], true
		}
	}
	return candidates[len(candidates)-1], true
}

// selectAction derives the direction from the mean signal plus the
// personality lean.
func (b *Bot) selectAction(signals []Signal, traits Traits) Action {
	sum := 0.0
	for _, s := range signals {
		sum += s.Strength
	}
	mean := sum / float64(len(signals))
	mean += personalityBias(b.personality)
	mean += (traits.OptimismBias - 0.5) * 0.2

	if mean > 0 {
		return ActionBuy
	}
	return ActionSell
}

// tradeSize is balance*maxPosition*moodRisk*riskTolerance, floored at
// the minimum trade size and capped below total exhaustion.
func (b *Bot) tradeSize(traits Traits) float64 {
	profile := b.mood.Profile()
	size := b.stats.Balance * b.prefs.MaxPositionSize * profile.RiskMultiplier * traits.RiskTolerance
	if size < b.prefs.MinTradeSize {
		size = b.prefs.MinTradeSize
	}
	if limit := b.stats.Balance * maxBalanceFraction; size > limit {
		size = limit
	}
	return size
}

// liquidityImpact is proportional to trade size over market volume,
// capped at one percent.
func liquidityImpact(size, volume float64) float64 {
	if volume <= 0 {
		return impactCap
	}
	impact := size / (volume * 1000)
	if impact > impactCap {
		impact = impactCap
	}
	return impact
}

// simulatePnL approximates the realized result of a trade with a
// volatility-scaled random walk. Buys and sells are intentionally
// asymmetric; this is a game-feel knob, not an inventory model.
func (b *Bot) simulatePnL(action Action, size, volatility float64, rng *rand.Rand) float64 {
	if action == ActionBuy {
		return size * (rng.Float64() - 0.5) * volatility
	}
	return size * (rng.Float64() - 0.45) * volatility * 0.8
}

// applyTradeStats mutates the scoreboard for one realized pnl and
// reports whether emergency funding kicked in.
func (b *Bot) applyTradeStats(pnl, size float64) bool {
	s := &b.stats

	s.Balance += pnl
	s.TotalPnL += pnl
	s.Trades++

	if pnl > 0 {
		s.Wins++
		if pnl > s.BiggestWin {
			s.BiggestWin = pnl
		}
		if s.CurrentStreak < 0 {
			s.CurrentStreak = 0
		}
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStreak {
			s.LongestWinStreak = s.CurrentStreak
		}
	} else {
		s.Losses++
		if pnl < s.BiggestLoss {
			s.BiggestLoss = pnl
		}
		if s.CurrentStreak > 0 {
			s.CurrentStreak = 0
		}
		s.CurrentStreak--
		if -s.CurrentStreak > s.LongestLossStreak {
			s.LongestLossStreak = -s.CurrentStreak
		}
	}

	s.WinRate = float64(s.Wins) / float64(s.Trades)
	s.AverageTradeSize = (s.AverageTradeSize*float64(s.Trades-1) + size) / float64(s.Trades)

	if s.Balance < emergencyFloor {
		s.Balance = emergencyRefill
		return true
	}
	return false
}

// updateMoodFromTrade applies absolute overrides first, then the
// incremental shift along the ordered scale.
func (b *Bot) updateMoodFromTrade(pnl, balanceBefore float64, traits Traits) {
	s := b.stats

	switch {
	case s.Balance < depressedBalance:
		b.mood = MoodDepressed
		return
	case s.Trades > enlightenedTrades && s.WinRate > enlightenedWinRate:
		b.mood = MoodEnlightened
		return
	case s.CurrentStreak <= -panicLossStreak:
		b.mood = MoodPanicked
		return
	}

	if balanceBefore <= 0 {
		return
	}
	sensitivity := 1 - traits.Patience
	shift := (pnl / balanceBefore) * 2 * sensitivity
	b.mood = shiftMood(b.mood, shift)
}

func (b *Bot) maybeSpeak(pnl float64, tick int64, rng *rand.Rand) string {
	if tick-b.lastSpeechTick < speechCooldownTicks {
		return ""
	}
	if rng.Float64() > b.mood.Profile().SpeechFrequency {
		return ""
	}

	set := speechFor(b.personality)
	lines := set.winning
	if pnl <= 0 {
		lines = set.losing
	}
	if len(lines) == 0 {
		lines = set.trading
	}
	if len(lines) == 0 {
		return ""
	}

	b.lastSpeechTick = tick
	return lines[rng.IntN(len(lines))]
}

func (b *Bot) pushHistory(trade Trade) {
	b.history = append(b.history, trade)
	if len(b.history) > historyCap {
		b.history = b.history[len(b.history)-historyCap:]
	}
}

// SettleOffline folds one coarse offline trade into the scoreboard
// without signals, history, or speech. Mood still reacts so a rough
// night away shows on the bot's face.
func (b *Bot) SettleOffline(pnl, size float64) bool {
	balanceBefore := b.stats.Balance
	funded := b.applyTradeStats(pnl, size)
	b.updateMoodFromTrade(pnl, balanceBefore, b.traits)
	return funded
}

// Record is the plain serializable form of a bot.
type Record struct {
	ID             string      `msgpack:"id" json:"id"`
	Name           string      `msgpack:"name" json:"name"`
	Avatar         string      `msgpack:"avatar" json:"avatar"`
	Personality    string      `msgpack:"personality" json:"personality"`
	Description    string      `msgpack:"description" json:"description"`
	Mood           string      `msgpack:"mood" json:"mood"`
	Active         bool        `msgpack:"active" json:"active"`
	Traits         Traits      `msgpack:"traits" json:"traits"`
	Preferences    Preferences `msgpack:"preferences" json:"preferences"`
	Stats          Stats       `msgpack:"stats" json:"stats"`
	Boosts         []Boost     `msgpack:"boosts" json:"boosts"`
	LastTradeTick  int64       `msgpack:"last_trade_tick" json:"lastTradeTick"`
	LastSpeechTick int64       `msgpack:"last_speech_tick" json:"lastSpeechTick"`
	History        []Trade     `msgpack:"history" json:"history"`
}

// Record returns the serializable snapshot of the bot.
func (b *Bot) Record() Record {
	return Record{
		ID:             b.id,
		Name:           b.name,
		Avatar:         b.avatar,
		Personality:    b.personality.String(),
		Description:    b.description,
		Mood:           b.mood.String(),
		Active:         b.active,
		Traits:         b.traits,
		Preferences:    b.prefs,
		Stats:          b.stats,
		Boosts:         b.boosts,
		LastTradeTick:  b.lastTradeTick,
		LastSpeechTick: b.lastSpeechTick,
		History:        b.History(),
	}
}

// FromRecord rebuilds a bot from a persisted record, backfilling
// missing fields with sane defaults and failing fast on records that
// cannot identify themselves.
func FromRecord(r Record) (*Bot, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	personality, err := ParsePersonality(r.Personality)
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", r.ID, err)
	}

	mood := MoodNeutral
	for m := MoodDepressed; m <= MoodEnlightened; m++ {
		if m.String() == r.Mood {
			mood = m
			break
		}
	}

	if r.Name == "" {
		r.Name = r.ID
	}
	if r.Avatar == "" {
		r.Avatar = "🤖"
	}
	if len(r.Preferences.PreferredAssets) == 0 {
		r.Preferences.PreferredAssets = []market.Symbol{market.SymbolQoin}
	}
	if r.Preferences.MaxPositionSize <= 0 {
		r.Preferences.MaxPositionSize = 0.3
	}
	if r.Preferences.MinTradeSize <= 0 {
		r.Preferences.MinTradeSize = 1.0
	}
	if r.Preferences.TradeEvery <= 0 {
		r.Preferences.TradeEvery = 15
	}
	if r.Stats.StartingBalance <= 0 {
		r.Stats.StartingBalance = r.Stats.Balance
	}
	if r.Stats.Balance < 0 {
		r.Stats.Balance = 0
	}

	b := &Bot{
		id:             r.ID,
		name:           r.Name,
		avatar:         r.Avatar,
		personality:    personality,
		description:    r.Description,
		mood:           mood,
		active:         r.Active,
		traits:         r.Traits,
		prefs:          r.Preferences,
		stats:          r.Stats,
		boosts:         r.Boosts,
		lastTradeTick:  r.LastTradeTick,
		lastSpeechTick: r.LastSpeechTick,
		history:        r.History,
	}
	return b, nil
}
