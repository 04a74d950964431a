package game

// Bucket is one slice of a strategy's target type ratio.
type Bucket struct {
	Type  CardType
	Ratio float64
	// Filter narrows the bucket before ratio sampling (nil = whole type).
	Filter func(*Card) bool
}

// Accepts reports whether c belongs to the bucket.
func (b Bucket) Accepts(c *Card) bool {
	if c.Type != b.Type {
		return false
	}
	return b.Filter == nil || b.Filter(c)
}

// Target is the number of cards the bucket aims for in a deck of size.
func (b Bucket) Target(size int) int {
	return int(float64(size) * b.Ratio)
}

func costAtMost(n int) func(*Card) bool {
	return func(c *Card) bool { return c.Cost <= n }
}

func costAtLeast(n int) func(*Card) bool {
	return func(c *Card) bool { return c.Cost >= n }
}

func costBetween(lo, hi int) func(*Card) bool {
	return func(c *Card) bool { return c.Cost >= lo && c.Cost <= hi }
}

var distributions = map[Strategy][]Bucket{
	StrategyAggressive: {
		{Type: CardTypeCharacter, Ratio: 0.75, Filter: costAtMost(5)},
		{Type: CardTypeEvent, Ratio: 0.20},
		{Type: CardTypeStage, Ratio: 0.05},
	},
	StrategyBalanced: {
		{Type: CardTypeCharacter, Ratio: 0.65},
		{Type: CardTypeEvent, Ratio: 0.30},
		{Type: CardTypeStage, Ratio: 0.05},
	},
	StrategyControl: {
		{Type: CardTypeCharacter, Ratio: 0.55, Filter: costAtLeast(4)},
		{Type: CardTypeEvent, Ratio: 0.35},
		{Type: CardTypeStage, Ratio: 0.10},
	},
	// Improvement variant: characters on a cost 2-6 curve.
	StrategyTournament: {
		{Type: CardTypeCharacter, Ratio: 0.65, Filter: costBetween(2, 6)},
		{Type: CardTypeEvent, Ratio: 0.30},
		{Type: CardTypeStage, Ratio: 0.05},
	},
}

// Distribution returns the ordered type buckets for a strategy. Unknown
// strategies get the balanced table.
func Distribution(s Strategy) []Bucket {
	if d, ok := distributions[s]; ok {
		return d
	}
	return distributions[StrategyBalanced]
}

var matchupPriors = map[[2]Strategy]float64{
	{StrategyAggressive, StrategyControl}:    0.58,
	{StrategyControl, StrategyBalanced}:      0.55,
	{StrategyBalanced, StrategyAggressive}:   0.54,
	{StrategyAggressive, StrategyAggressive}: 0.50,
	{StrategyBalanced, StrategyBalanced}:     0.50,
	{StrategyControl, StrategyControl}:       0.50,
	{StrategyControl, StrategyAggressive}:    0.42,
	{StrategyBalanced, StrategyControl}:      0.45,
	{StrategyAggressive, StrategyBalanced}:   0.46,
}

// MatchupPrior is the base probability that a deck playing s beats one
// playing opp. Pairs outside the table are even.
func MatchupPrior(s, opp Strategy) float64 {
	if p, ok := matchupPriors[[2]Strategy{s, opp}]; ok {
		return p
	}
	return 0.5
}
