package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
)

func repeat(c *game.Card, n int) []*game.Card {
	out := make([]*game.Card, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil, config.Default())
	assert.Equal(t, 0, a.TotalCards)
	assert.Equal(t, []string{"Deck is empty"}, a.Suggestions)
}

func TestAnalyzeCurve(t *testing.T) {
	two := newCard("Two", game.CardTypeCharacter, 2, "Red")
	six := newCard("Six", game.CardTypeCharacter, 6, "Red", "Green")
	ev := newCard("Ev", game.CardTypeEvent, 1, "Red")

	var main []*game.Card
	main = append(main, repeat(two, 20)...)
	main = append(main, repeat(six, 20)...)
	main = append(main, repeat(ev, 10)...)

	a := Analyze(main, config.Default())
	assert.Equal(t, 50, a.TotalCards)
	assert.InDelta(t, 3.4, a.AverageCost, 1e-9)
	assert.Equal(t, map[int]int{1: 10, 2: 20, 6: 20}, a.CostCurve)
	assert.Equal(t, map[string]int{"Character": 40, "Event": 10}, a.TypeDistribution)
	assert.Equal(t, 50, a.ColorDistribution["Red"])
	assert.Equal(t, 20, a.ColorDistribution["Green"])
	assert.Equal(t, []string{"Deck looks balanced!"}, a.Suggestions)
}

func TestAnalyzeSuggestions(t *testing.T) {
	ev := newCard("Ev", game.CardTypeEvent, 1, "Red")
	a := Analyze(repeat(ev, 10), config.Default())
	assert.Contains(t, a.Suggestions, "Deck should have exactly 50 cards. Current: 10")
	assert.Contains(t, a.Suggestions, "Consider adding more high-cost cards for late game power")
	assert.Contains(t, a.Suggestions, "Consider adding more Character cards")
}

func TestDiff(t *testing.T) {
	a := newCard("A", game.CardTypeCharacter, 1, "Red")
	b := newCard("B", game.CardTypeCharacter, 1, "Red")
	c := newCard("C", game.CardTypeCharacter, 1, "Red")

	old := append(repeat(a, 4), repeat(b, 2)...)
	next := append(repeat(a, 2), repeat(c, 4)...)

	ch := Diff(old, next)
	assert.Equal(t, []CardCount{{Name: "C", Quantity: 4}}, ch.Added)
	assert.Equal(t, []CardCount{{Name: "B", Quantity: 2}}, ch.Removed)
	require.Len(t, ch.Changed, 1)
	assert.Equal(t, QuantityChange{Name: "A", Old: 4, New: 2, Change: -2}, ch.Changed[0])
	assert.Equal(t, 8, ch.Total)
	assert.Equal(t, 0.0, ch.Similarity)

	same := Diff(old, old)
	assert.Zero(t, same.Total)
	assert.Equal(t, 100.0, same.Similarity)
	assert.Equal(t, 100.0, Diff(nil, nil).Similarity)
}

func TestCoverage(t *testing.T) {
	a := newCard("A", game.CardTypeCharacter, 1, "Red")
	b := newCard("B", game.CardTypeCharacter, 1, "Red")
	main := append(repeat(a, 4), repeat(b, 4)...)

	cov := Coverage(main, Collection{"A": 9, "B": 1})
	assert.Equal(t, 8, cov.TotalCards)
	assert.Equal(t, 5, cov.CardsOwned)
	assert.Equal(t, map[string]int{"B": 3}, cov.CardsNeeded)
	assert.Equal(t, 62.5, cov.Percentage)

	empty := Coverage(nil, nil)
	assert.Zero(t, empty.Percentage)
}
