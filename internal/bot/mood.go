package bot

// Mood is a bot's transient emotional state. The first five form the
// ordered core scale that incremental shifts walk along; the rest are
// situational overlays reached only through absolute overrides.
type Mood uint8

const (
	MoodDepressed Mood = iota
	MoodPessimistic
	MoodNeutral
	MoodOptimistic
	MoodEuphoric

	MoodPanicked
	MoodConfused
	MoodConfident
	MoodAnxious
	MoodEnlightened
)

func (m Mood) String() string {
	switch m {
	case MoodDepressed:
		return "depressed"
	case MoodPessimistic:
		return "pessimistic"
	case MoodNeutral:
		return "neutral"
	case MoodOptimistic:
		return "optimistic"
	case MoodEuphoric:
		return "euphoric"
	case MoodPanicked:
		return "panicked"
	case MoodConfused:
		return "confused"
	case MoodConfident:
		return "confident"
	case MoodAnxious:
		return "anxious"
	case MoodEnlightened:
		return "enlightened"
	default:
		return "unknown"
	}
}

// MoodProfile is the behavioral tuple a mood feeds back into trading.
type MoodProfile struct {
	// TradeFrequency multiplies how often the bot trades.
	TradeFrequency float64
	// RiskMultiplier scales position size.
	RiskMultiplier float64
	// OptimismBias shifts the mood signal, 0.5 neutral.
	OptimismBias float64
	// SpeechFrequency is the chance of commentary after a trade.
	SpeechFrequency float64
	Emoji           string
}

var moodProfiles = map[Mood]MoodProfile{
	MoodDepressed:   {TradeFrequency: 0.5, RiskMultiplier: 0.5, OptimismBias: 0.2, SpeechFrequency: 0.6, Emoji: "😞"},
	MoodPessimistic: {TradeFrequency: 0.8, RiskMultiplier: 0.7, OptimismBias: 0.3, SpeechFrequency: 0.5, Emoji: "😔"},
	MoodNeutral:     {TradeFrequency: 1.0, RiskMultiplier: 1.0, OptimismBias: 0.5, SpeechFrequency: 0.3, Emoji: "😐"},
	MoodOptimistic:  {TradeFrequency: 1.2, RiskMultiplier: 1.1, OptimismBias: 0.6, SpeechFrequency: 0.4, Emoji: "😊"},
	MoodEuphoric:    {TradeFrequency: 2.0, RiskMultiplier: 1.5, OptimismBias: 0.8, SpeechFrequency: 0.7, Emoji: "🤩"},
	MoodPanicked:    {TradeFrequency: 1.8, RiskMultiplier: 0.6, OptimismBias: 0.2, SpeechFrequency: 0.8, Emoji: "😱"},
	MoodConfused:    {TradeFrequency: 1.5, RiskMultiplier: 0.8, OptimismBias: 0.5, SpeechFrequency: 0.4, Emoji: "😵"},
	MoodConfident:   {TradeFrequency: 1.3, RiskMultiplier: 1.2, OptimismBias: 0.7, SpeechFrequency: 0.5, Emoji: "😎"},
	MoodAnxious:     {TradeFrequency: 1.8, RiskMultiplier: 0.6, OptimismBias: 0.3, SpeechFrequency: 0.8, Emoji: "😰"},
	MoodEnlightened: {TradeFrequency: 0.7, RiskMultiplier: 0.9, OptimismBias: 0.6, SpeechFrequency: 0.4, Emoji: "🧘"},
}

// Profile returns the behavioral tuple for a mood.
func (m Mood) Profile() MoodProfile {
	if p, ok := moodProfiles[m]; ok {
		return p
	}
	return moodProfiles[MoodNeutral]
}

// coreMoods is the ordered scale incremental shifts walk along.
var coreMoods = []Mood{MoodDepressed, MoodPessimistic, MoodNeutral, MoodOptimistic, MoodEuphoric}

// anchor maps an overlay mood to its position on the core scale so a
// shift can step away from it.
func (m Mood) anchor() Mood {
	switch m {
	case MoodPanicked, MoodAnxious:
		return MoodPessimistic
	case MoodConfused:
		return MoodNeutral
	case MoodConfident:
		return MoodOptimistic
	case MoodEnlightened:
		return MoodEuphoric
	default:
		return m
	}
}

// shiftMood moves one step along the core scale when the shift
// magnitude crosses the threshold, clamped at the ends.
func shiftMood(current Mood, shift float64) Mood {
	const threshold = 0.2

	anchor := current.anchor()
	index := 0
	for i, m := range coreMoods {
		if m == anchor {
			index = i
			break
		}
	}

	switch {
	case shift > threshold:
		if index < len(coreMoods)-1 {
			index++
		}
	case shift < -threshold:
		if index > 0 {
			index--
		}
	default:
		return current
	}
	return coreMoods[index]
}
