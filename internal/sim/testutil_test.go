package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
)

func character(name string, cost, power int, effect string) *game.Card {
	return &game.Card{
		Name:    name,
		Type:    game.CardTypeCharacter,
		Colors:  []string{"Red"},
		Cost:    cost,
		Power:   power,
		Effect:  effect,
		Effects: game.TagEffects(effect),
	}
}

func event(name string, cost int) *game.Card {
	return &game.Card{Name: name, Type: game.CardTypeEvent, Colors: []string{"Red"}, Cost: cost}
}

func leader(name string, life int, effect string) *game.Card {
	return &game.Card{
		Name:    name,
		Type:    game.CardTypeLeader,
		Colors:  []string{"Red"},
		Power:   5000,
		Life:    life,
		Effect:  effect,
		Effects: game.TagEffects(effect),
	}
}

func deckOf(l *game.Card, s game.Strategy, cards ...*game.Card) *game.Deck {
	return &game.Deck{Leader: l, Main: cards, Strategy: s, Color: "Red"}
}

// vanillaDeck is n plain characters cycling through 13 names with costs 1..5.
func vanillaDeck(name string, n int) *game.Deck {
	var cards []*game.Card
	for i := 0; i < n; i++ {
		cost := (i%13)%5 + 1
		cards = append(cards, character(fmt.Sprintf("%s %d", name, i%13), cost, 1000*(cost+1), ""))
	}
	return deckOf(leader(name+" Leader", 5, ""), game.StrategyBalanced, cards...)
}

// poolDeck builds a deck from the bundled card pool.
func poolDeck(t *testing.T, seed int64, s game.Strategy, color string) *game.Deck {
	t.Helper()
	pool, err := game.LoadPool("../../data/cards.yaml")
	require.NoError(t, err)
	d, err := builder.New(config.Default(), rand.New(rand.NewSource(seed))).Build(pool, builder.Request{Strategy: s, Color: color})
	require.NoError(t, err)
	return d
}

// testMatch is a match between two empty decks whose boards and hands the
// test arranges by hand.
func testMatch(rules config.Rules, la, lb *game.Card) (*matchState, *log.MemoryLogger) {
	logger := log.NewMemoryLogger()
	m := newMatch(deckOf(la, game.StrategyBalanced), deckOf(lb, game.StrategyBalanced), rules, rand.New(rand.NewSource(1)), logger)
	m.active = 0
	m.turn = 1
	return m, logger
}

func place(s *side, cards ...*game.Card) []*unit {
	var units []*unit
	for _, c := range cards {
		u := &unit{card: c}
		s.board = append(s.board, u)
		units = append(units, u)
	}
	return units
}

func boardNames(s *side) []string {
	var names []string
	for _, u := range s.board {
		names = append(names, u.card.Name)
	}
	return names
}
