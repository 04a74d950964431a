package view

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
)

func testPool(t *testing.T) []*game.Card {
	t.Helper()
	pool, err := game.LoadPool("../../data/cards.yaml")
	require.NoError(t, err)
	return pool
}

func TestLeadersFiltersByColor(t *testing.T) {
	pool := testPool(t)
	rules := config.Default()

	all := Leaders(pool, "", rules)
	assert.Len(t, all, len(game.Leaders(pool)))
	assert.Equal(t, all, Leaders(pool, "any", rules))

	red := Leaders(pool, "red", rules)
	require.NotEmpty(t, red)
	for _, l := range red {
		assert.Contains(t, l.Leader.Colors, "Red")
		assert.Positive(t, l.CompatibleCards)
		assert.Equal(t, l.CompatibleCards*rules.MaxCopies >= rules.DeckSize, l.Viable)
	}

	assert.Empty(t, Leaders(pool, "Chartreuse", rules))
}

func TestDeckViewGroupsCopies(t *testing.T) {
	leader := &game.Card{Name: "Boss", Type: game.CardTypeLeader, Colors: []string{"Red"}, Life: 5}
	a := &game.Card{Name: "Grunt", Type: game.CardTypeCharacter, Colors: []string{"Red"}, Cost: 2, Power: 3000}
	b := &game.Card{Name: "Fireball", Type: game.CardTypeEvent, Colors: []string{"Red"}, Cost: 1}
	d := &game.Deck{ID: "d1", Leader: leader, Strategy: game.StrategyAggressive, Color: "Red",
		Main: []*game.Card{a, b, a, a}}

	v := NewDeckView(d, 4)
	assert.Equal(t, "d1", v.ID)
	assert.Equal(t, "aggressive", v.Strategy)
	assert.Equal(t, 4, v.Size)
	assert.True(t, v.Complete)
	assert.Equal(t, []CardCount{
		{Name: "Grunt", Count: 3, Type: "Character", Cost: 2, Power: 3000},
		{Name: "Fireball", Count: 1, Type: "Event", Cost: 1},
	}, v.Cards)

	assert.False(t, NewDeckView(d, 50).Complete)
}

func TestEventViewNamesPlayers(t *testing.T) {
	events := []log.GameEvent{
		log.NewTurnEvent(1, 0),
		log.NewWinEvent(3, log.PhaseBattle, 1, "life reduced to 0"),
	}
	views := NewEventViews(events)
	require.Len(t, views, 2)
	assert.Equal(t, "A", views[0].Player)
	assert.Equal(t, "B", views[1].Player)
	assert.Equal(t, events[1].Type.String(), views[1].Type)

	assert.NotNil(t, NewEventViews(nil))
}

func TestJSON(t *testing.T) {
	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(JSON(map[string]int{"wins": 3})), &got))
	assert.Equal(t, 3, got["wins"])

	assert.Contains(t, JSON(math.Inf(1)), "marshal error")
}
