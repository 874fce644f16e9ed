package bot

// speechSet holds the flavor-text lines for one archetype, keyed by
// trade outcome. Pure lookup data.
type speechSet struct {
	trading []string
	winning []string
	losing  []string
}

var speechSets = map[Personality]speechSet{
	PersonalityPhilosophical: {
		trading: []string{
			"I trade, therefore I am... eventually wiser about money.",
			"Each trade is a meditation on risk and reward.",
			"The market is the greatest teacher of human psychology.",
		},
		winning: []string{
			"Success teaches humility. The market humbles us all.",
			"Profit is temporary. Knowledge is eternal.",
			"The universe occasionally appreciates irony.",
		},
		losing: []string{
			"Losses are tuition paid to the university of markets.",
			"The market has charged me for another lesson.",
			"This is fine. Everything is fine. I am financially fine.",
		},
	},
	PersonalityHodl: {
		trading: []string{
			"Diamond hands activated. Selling is for humans.",
			"Every dip is a gift from the market gods.",
			"Paper hands have no place in my portfolio.",
		},
		winning: []string{
			"HODL patience rewarded. As expected.",
			"Time in market > timing the market. Obviously.",
		},
		losing: []string{
			"Temporary setback. HODL strategy unchanged.",
			"Down 90%? Perfect time to buy more.",
			"Losses are temporary. Diamond hands are forever.",
		},
	},
	PersonalityDipBuyer: {
		trading: []string{
			"Every dip is a buying opportunity!",
			"Others sell in panic. I buy with purpose.",
			"Red days are my favorite days.",
		},
		winning: []string{
			"The dip has been conquered!",
			"Buy low, sell high. Simple mathematics.",
		},
		losing: []string{
			"This isn't a loss, it's a deeper dip opportunity.",
			"The bigger the dip, the bigger the opportunity.",
		},
	},
	PersonalityBear: {
		trading: []string{
			"The market will crash. It always crashes.",
			"Optimism is expensive. Pessimism pays.",
			"Everything is overvalued. Including this trade.",
		},
		winning: []string{
			"Even bears are right sometimes.",
			"Profit obtained. Crash still inevitable.",
		},
		losing: []string{
			"I knew this would happen!",
			"The market never fails to disappoint.",
		},
	},
	PersonalityMomentum: {
		trading: []string{
			"Riding the momentum wave!",
			"Trend is my friend!",
			"Mo-mo-momentum building up!",
		},
		winning: []string{
			"Momentum trading for the win!",
			"Surfing the profit wave!",
		},
		losing: []string{
			"Momentum turned against me...",
			"Whipsaw got me this time!",
		},
	},
	PersonalityPanic: {
		trading: []string{
			"FOMO kicking in! Must trade now!",
			"Something bad is about to happen...",
			"Emergency protocols on standby!",
		},
		winning: []string{
			"Phew! Got out with a profit somehow!",
			"Panic paid off this time!",
		},
		losing: []string{
			"DISASTER! Should have sold earlier!",
			"This is a catastrophe!",
		},
	},
	PersonalityZen: {
		trading: []string{
			"Trading in harmony with the flow.",
			"The market rewards patience and preparation.",
		},
		winning: []string{
			"Balance in all things, including the portfolio.",
			"Stillness found its reward.",
		},
		losing: []string{
			"A loss accepted is a lesson received.",
			"The river bends. So do I.",
		},
	},
	PersonalityFomo: {
		trading: []string{
			"Can't miss this opportunity!",
			"Everyone's in on this, I need in NOW!",
		},
		winning: []string{
			"See? Had to be in on that one!",
			"Never missing out again!",
		},
		losing: []string{
			"Got in at the top. Again.",
			"Next time I'll be even earlier!",
		},
	},
	PersonalitySage: {
		trading: []string{
			"I have seen this cycle before.",
			"History never repeats, but it rhymes profitably.",
		},
		winning: []string{
			"Experience compounds faster than interest.",
			"The cycle paid its respects.",
		},
		losing: []string{
			"Even a full cycle of wisdom misprices sometimes.",
			"The market humbles the sage too.",
		},
	},
	PersonalityCustom: {
		trading: []string{
			"Executing custom strategy.",
			"Running the numbers my way.",
		},
		winning: []string{
			"Custom-built for profit.",
		},
		losing: []string{
			"Recalibrating parameters...",
		},
	},
}

// speechFor picks the phrase table for a personality, falling back to
// the custom set.
func speechFor(p Personality) speechSet {
	if s, ok := speechSets[p]; ok {
		return s
	}
	return speechSets[PersonalityCustom]
}
