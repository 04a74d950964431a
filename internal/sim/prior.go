package sim

import (
	"math"

	"github.com/peterkuimelis/deckforge/internal/game"
)

// referenceMatch is a recorded tournament game between two deck profiles.
type referenceMatch struct {
	a, b  DeckStats
	aWins bool
	turns int
}

func ref(sa game.Strategy, ca string, costA, ratioA float64, sb game.Strategy, cb string, costB, ratioB float64, aWins bool, turns int) referenceMatch {
	return referenceMatch{
		a:     DeckStats{Strategy: sa, Color: ca, AvgCost: costA, CharacterRatio: ratioA},
		b:     DeckStats{Strategy: sb, Color: cb, AvgCost: costB, CharacterRatio: ratioB},
		aWins: aWins,
		turns: turns,
	}
}

const (
	agg = game.StrategyAggressive
	bal = game.StrategyBalanced
	ctl = game.StrategyControl
)

var referenceMatches = []referenceMatch{
	ref(agg, "Red", 3.2, 0.70, ctl, "Blue", 5.5, 0.60, true, 8),
	ref(agg, "Red", 3.0, 0.72, ctl, "Blue", 5.8, 0.58, true, 7),
	ref(agg, "Green", 3.5, 0.68, ctl, "Purple", 6.0, 0.55, false, 12),
	ref(agg, "Yellow", 3.3, 0.71, ctl, "Black", 5.7, 0.57, true, 9),

	ref(bal, "Blue", 4.2, 0.65, agg, "Red", 3.1, 0.70, true, 10),
	ref(bal, "Purple", 4.5, 0.63, agg, "Red", 3.0, 0.72, true, 11),
	ref(bal, "Green", 4.3, 0.64, agg, "Yellow", 3.4, 0.69, false, 8),

	ref(bal, "Red", 4.0, 0.66, ctl, "Blue", 5.6, 0.59, false, 14),
	ref(bal, "Green", 4.4, 0.62, ctl, "Purple", 5.9, 0.56, true, 13),
	ref(bal, "Yellow", 4.1, 0.65, ctl, "Black", 5.4, 0.61, false, 15),

	ref(ctl, "Blue", 5.7, 0.58, ctl, "Purple", 5.5, 0.60, true, 18),
	ref(ctl, "Black", 5.8, 0.57, ctl, "Blue", 5.6, 0.59, false, 20),

	ref(agg, "Red", 3.1, 0.71, agg, "Green", 3.3, 0.69, true, 6),
	ref(agg, "Yellow", 3.2, 0.70, agg, "Red", 3.0, 0.72, false, 7),

	ref(bal, "Red", 4.0, 0.66, agg, "Red", 3.0, 0.72, false, 9),
	ref(ctl, "Blue", 5.6, 0.59, bal, "Blue", 4.2, 0.65, true, 14),
}

// similarity scores how close a reference match is to the pairing a vs b,
// from 0 to 1: strategy 0.4, cost curve 0.3, character ratio 0.2, color 0.1.
func similarity(a, b DeckStats, m referenceMatch) float64 {
	s := 0.0
	if a.Strategy == m.a.Strategy {
		s += 0.2
	}
	if b.Strategy == m.b.Strategy {
		s += 0.2
	}

	costDiff := math.Abs(a.AvgCost-m.a.AvgCost) + math.Abs(b.AvgCost-m.b.AvgCost)
	s += math.Max(0, 1-costDiff/6.0) * 0.3

	ratioDiff := math.Abs(a.CharacterRatio-m.a.CharacterRatio) + math.Abs(b.CharacterRatio-m.b.CharacterRatio)
	s += math.Max(0, 1-ratioDiff/0.4) * 0.2

	if a.Color == m.a.Color {
		s += 0.05
	}
	if b.Color == m.b.Color {
		s += 0.05
	}
	return s
}

// basePrior is the strategy matrix adjusted for cheaper curves and wider
// boards.
func basePrior(a, b DeckStats) float64 {
	p := game.MatchupPrior(a.Strategy, b.Strategy)
	p += (b.AvgCost - a.AvgCost) * 0.02
	p += (a.CharacterRatio - b.CharacterRatio) * 0.15
	return clamp(p, 0.1, 0.9)
}

// Prior estimates deck A's win probability without playing: reference
// matches scoring above 0.5 similarity vote weighted by their score, and
// the vote is blended 70/30 with the strategy matrix.
func Prior(a, b DeckStats) float64 {
	base := basePrior(a, b)

	var wins, total float64
	for _, m := range referenceMatches {
		w := similarity(a, b, m)
		if w <= 0.5 {
			continue
		}
		total += w
		if m.aWins {
			wins += w
		}
	}
	if total == 0 {
		return base
	}
	return clamp(wins/total*0.7+base*0.3, 0.1, 0.9)
}

// ExpectedTurns is the mean length of reference matches between the two
// strategies, or 0 when none were recorded.
func ExpectedTurns(a, b game.Strategy) float64 {
	sum, n := 0, 0
	for _, m := range referenceMatches {
		if (m.a.Strategy == a && m.b.Strategy == b) || (m.a.Strategy == b && m.b.Strategy == a) {
			sum += m.turns
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
