package builder

import (
	"fmt"
	"math"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
)

// Analysis summarizes the shape of a main deck.
type Analysis struct {
	TotalCards        int            `json:"total_cards"`
	AverageCost       float64        `json:"average_cost"`
	CostCurve         map[int]int    `json:"cost_curve"`
	TypeDistribution  map[string]int `json:"type_distribution"`
	ColorDistribution map[string]int `json:"color_distribution"`
	Suggestions       []string       `json:"suggestions"`
}

// Analyze computes the cost curve and type/color mix of main, with
// suggestions for decks that stray from the rules or a playable curve.
func Analyze(main []*game.Card, rules config.Rules) Analysis {
	a := Analysis{
		TotalCards:        len(main),
		CostCurve:         make(map[int]int),
		TypeDistribution:  make(map[string]int),
		ColorDistribution: make(map[string]int),
	}
	if len(main) == 0 {
		a.Suggestions = []string{"Deck is empty"}
		return a
	}

	total := 0
	for _, c := range main {
		total += c.Cost
		a.CostCurve[c.Cost]++
		a.TypeDistribution[c.Type.String()]++
		for _, color := range c.Colors {
			a.ColorDistribution[color]++
		}
	}
	a.AverageCost = round2(float64(total) / float64(len(main)))

	if len(main) != rules.DeckSize {
		a.Suggestions = append(a.Suggestions,
			fmt.Sprintf("Deck should have exactly %d cards. Current: %d", rules.DeckSize, len(main)))
	}
	if a.AverageCost > 5 {
		a.Suggestions = append(a.Suggestions, "Consider adding more low-cost cards for early game")
	}
	if a.AverageCost < 3 {
		a.Suggestions = append(a.Suggestions, "Consider adding more high-cost cards for late game power")
	}
	if chars := a.TypeDistribution[game.CardTypeCharacter.String()]; float64(chars) < float64(len(main))*0.5 {
		a.Suggestions = append(a.Suggestions, "Consider adding more Character cards")
	}
	if len(a.Suggestions) == 0 {
		a.Suggestions = []string{"Deck looks balanced!"}
	}
	return a
}

// CardCount is a card name with a number of copies.
type CardCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// QuantityChange is a card present in both decks with a different count.
type QuantityChange struct {
	Name   string `json:"name"`
	Old    int    `json:"old_quantity"`
	New    int    `json:"new_quantity"`
	Change int    `json:"change"`
}

// Changes describes how one main deck differs from another.
type Changes struct {
	Added      []CardCount      `json:"added"`
	Removed    []CardCount      `json:"removed"`
	Changed    []QuantityChange `json:"changed"`
	Total      int              `json:"total_changes"`
	Similarity float64          `json:"similarity_percentage"`
}

// Diff compares two main decks by name. Added and changed cards follow the
// new deck's order, removed cards the old deck's.
func Diff(old, next []*game.Card) Changes {
	oldCounts := game.CountByName(old)
	newCounts := game.CountByName(next)
	var ch Changes

	for _, name := range uniqueNames(next) {
		n, o := newCounts[name], oldCounts[name]
		switch {
		case o == 0:
			ch.Added = append(ch.Added, CardCount{Name: name, Quantity: n})
			ch.Total += n
		case o != n:
			ch.Changed = append(ch.Changed, QuantityChange{Name: name, Old: o, New: n, Change: n - o})
			ch.Total += absInt(n - o)
		}
	}
	for _, name := range uniqueNames(old) {
		if newCounts[name] == 0 {
			ch.Removed = append(ch.Removed, CardCount{Name: name, Quantity: oldCounts[name]})
			ch.Total += oldCounts[name]
		}
	}

	size := max(len(old), len(next))
	if size == 0 {
		ch.Similarity = 100
	} else {
		ch.Similarity = round2(math.Max(0, 100-float64(ch.Total)/float64(size)*100))
	}
	return ch
}

// CollectionCoverage reports how much of a main deck a collection covers.
type CollectionCoverage struct {
	TotalCards  int            `json:"total_cards"`
	CardsOwned  int            `json:"cards_owned"`
	CardsNeeded map[string]int `json:"cards_needed"`
	Percentage  float64        `json:"percentage"`
}

// Coverage counts owned copies of each card in main, capped at the copies
// the deck needs, and lists what is missing.
func Coverage(main []*game.Card, owned Collection) CollectionCoverage {
	cov := CollectionCoverage{
		TotalCards:  len(main),
		CardsNeeded: make(map[string]int),
	}
	counts := game.CountByName(main)
	for _, name := range uniqueNames(main) {
		need := counts[name]
		have := min(owned.Owned(name), need)
		cov.CardsOwned += have
		if have < need {
			cov.CardsNeeded[name] = need - have
		}
	}
	if len(main) > 0 {
		cov.Percentage = round2(float64(cov.CardsOwned) / float64(len(main)) * 100)
	}
	return cov
}

func uniqueNames(cards []*game.Card) []string {
	seen := make(map[string]bool, len(cards))
	var names []string
	for _, c := range cards {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	return names
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
