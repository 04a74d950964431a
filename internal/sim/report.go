package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/peterkuimelis/deckforge/internal/game"
)

// Report aggregates a run of trials from deck A's perspective.
type Report struct {
	ID             string    `json:"id"`
	Seed           int64     `json:"seed"`
	WinRate        float64   `json:"win_rate"` // percent, 0-100
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	Trials         int       `json:"simulations_run"`
	Requested      int       `json:"simulations_requested"`
	Truncated      bool      `json:"truncated"`
	AvgWinTurns    float64   `json:"avg_win_turns"`
	AvgLossTurns   float64   `json:"avg_loss_turns"`
	Insights       []string  `json:"insights"`
	KeyCards       KeyCards  `json:"key_cards"`
	DeckA          DeckStats `json:"deck1_stats"`
	DeckB          DeckStats `json:"deck2_stats"`
	MatchupType    string    `json:"matchup_type"`
	PriorWinRate   float64   `json:"prior_win_rate"`  // percent, 0-100
	ReferenceTurns float64   `json:"reference_turns"` // mean length of recorded games for the pairing
}

// DeckStats is the aggregate profile of a deck that insights compare.
type DeckStats struct {
	Strategy       game.Strategy `json:"strategy"`
	Color          string        `json:"color"`
	AvgCost        float64       `json:"avg_cost"`
	CharacterRatio float64       `json:"character_ratio"`
	TotalCards     int           `json:"total_cards"`
}

// Stats profiles a deck. An empty main deck gets a neutral profile.
func Stats(d *game.Deck) DeckStats {
	st := DeckStats{Strategy: d.Strategy, Color: game.AnyColor}
	if st.Strategy == "" {
		st.Strategy = game.StrategyBalanced
	}
	if len(d.Main) == 0 {
		st.AvgCost = 4.0
		st.CharacterRatio = 0.65
		return st
	}

	cost, chars := 0, 0
	colorCounts := make(map[string]int)
	var colorOrder []string
	for _, c := range d.Main {
		cost += c.Cost
		if c.Type == game.CardTypeCharacter {
			chars++
		}
		for _, color := range c.Colors {
			if colorCounts[color] == 0 {
				colorOrder = append(colorOrder, color)
			}
			colorCounts[color]++
		}
	}
	n := float64(len(d.Main))
	st.AvgCost = float64(cost) / n
	st.CharacterRatio = float64(chars) / n
	st.TotalCards = len(d.Main)

	best := 0
	for _, color := range colorOrder {
		if colorCounts[color] > best {
			st.Color, best = color, colorCounts[color]
		}
	}
	return st
}

// KeyCards lists cards of deck A likely to swing the matchup.
type KeyCards struct {
	HighPower []string `json:"high_power"`
	LowCost   []string `json:"low_cost"`
	Events    []string `json:"events"`
}

const keyCardLimit = 3

// FindKeyCards scans main in order: up to three characters with 7000+
// power, three cheap (cost <= 2) cards with 4000+ power and three events.
// Copies repeat as they appear.
func FindKeyCards(main []*game.Card) KeyCards {
	kc := KeyCards{HighPower: []string{}, LowCost: []string{}, Events: []string{}}
	for _, c := range main {
		if c.Type == game.CardTypeCharacter && c.Power >= 7000 && len(kc.HighPower) < keyCardLimit {
			kc.HighPower = append(kc.HighPower, c.Name)
		}
		if c.Cost <= 2 && c.Power >= 4000 && len(kc.LowCost) < keyCardLimit {
			kc.LowCost = append(kc.LowCost, c.Name)
		}
		if c.Type == game.CardTypeEvent && len(kc.Events) < keyCardLimit {
			kc.Events = append(kc.Events, c.Name)
		}
	}
	return kc
}

// MatchupType names the pairing of strategies.
func MatchupType(a, b DeckStats) string {
	if a.Strategy == b.Strategy {
		return fmt.Sprintf("Mirror Match (%s vs %s)", a.Strategy.Title(), b.Strategy.Title())
	}
	return fmt.Sprintf("%s vs %s", a.Strategy.Title(), b.Strategy.Title())
}

// Insights turns a win rate and the two deck profiles into short advice
// for the player of deck A.
func Insights(a, b DeckStats, winRate, priorWinRate float64) []string {
	var out []string

	switch {
	case winRate >= 65:
		out = append(out, "Strong Advantage: Your deck has a significant edge in this matchup")
	case winRate >= 55:
		out = append(out, "Slight Advantage: Your deck is favored but the match is winnable for both sides")
	case winRate >= 45:
		out = append(out, "Even Matchup: This is a very balanced matchup between the decks")
	case winRate >= 35:
		out = append(out, "Slight Disadvantage: The opponent is favored but you can win with good plays")
	default:
		out = append(out, "Difficult Matchup: This is a challenging matchup that requires excellent execution")
	}

	switch {
	case a.Strategy == game.StrategyAggressive && b.Strategy == game.StrategyControl:
		out = append(out, "Speed Advantage: Your aggressive strategy can outpace their control setup")
	case a.Strategy == game.StrategyControl && b.Strategy == game.StrategyAggressive:
		out = append(out, "Survivability Key: Focus on board clears and high-cost finishers")
	case a.Strategy == game.StrategyBalanced && b.Strategy == game.StrategyAggressive:
		out = append(out, "Flexibility: Your balanced approach can adapt to their aggressive plays")
	}

	switch diff := a.AvgCost - b.AvgCost; {
	case diff > 1.5:
		out = append(out, "Cost Concern: Your higher average cost may struggle in the early game")
	case diff < -1.5:
		out = append(out, "Early Game Edge: Your lower cost curve gives you early board control")
	}

	switch {
	case a.CharacterRatio > 0.70:
		out = append(out, "Strong Board Presence: High character count provides excellent board control")
	case a.CharacterRatio < 0.55:
		out = append(out, "Event-Heavy: Make sure to maximize value from your event cards")
	}

	if math.Abs(winRate-priorWinRate) >= 15 {
		out = append(out, fmt.Sprintf("Off the Books: Simulated %.0f%% against %.0f%% expected from tournament results", winRate, priorWinRate))
	}
	return out
}

func aggregate(results []Outcome, a, b *game.Deck) *Report {
	r := &Report{Trials: len(results)}
	var winTurns, lossTurns int
	for _, o := range results {
		if o.Winner == 0 {
			r.Wins++
			winTurns += o.Turns
		} else {
			r.Losses++
			lossTurns += o.Turns
		}
	}
	if r.Trials > 0 {
		r.WinRate = round(float64(r.Wins)/float64(r.Trials)*100, 2)
	}
	if r.Wins > 0 {
		r.AvgWinTurns = round(float64(winTurns)/float64(r.Wins), 1)
	}
	if r.Losses > 0 {
		r.AvgLossTurns = round(float64(lossTurns)/float64(r.Losses), 1)
	}

	r.DeckA, r.DeckB = Stats(a), Stats(b)
	r.PriorWinRate = round(Prior(r.DeckA, r.DeckB)*100, 2)
	r.MatchupType = MatchupType(r.DeckA, r.DeckB)
	r.ReferenceTurns = round(ExpectedTurns(r.DeckA.Strategy, r.DeckB.Strategy), 1)
	r.KeyCards = FindKeyCards(a.Main)
	r.Insights = Insights(r.DeckA, r.DeckB, r.WinRate, r.PriorWinRate)
	return r
}

// runID derives a report ID from the seed, so a rerun carries the same ID.
func runID(seed int64) string {
	id, err := uuid.NewRandomFromReader(rand.New(rand.NewSource(seed)))
	if err != nil {
		return ""
	}
	return id.String()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
