package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
)

func TestSuggestImprovementsKeepsLeader(t *testing.T) {
	pool, err := game.LoadPool("../../data/cards.yaml")
	require.NoError(t, err)
	b := newTestBuilder(11)

	deck, err := b.Build(pool, Request{Color: "Red"})
	require.NoError(t, err)

	imps, err := b.SuggestImprovements(pool, deck, nil)
	require.NoError(t, err)
	require.Len(t, imps, 3)

	kinds := []game.Strategy{game.StrategyBalanced, game.StrategyAggressive, game.StrategyTournament}
	for i, imp := range imps {
		assert.Equal(t, kinds[i], imp.Kind)
		assert.Same(t, deck.Leader, imp.Deck.Leader)
		assert.NotEqual(t, deck.ID, imp.Deck.ID)
		assertLegal(t, imp.Deck, b.Rules())
		assert.Equal(t, len(imp.Deck.Main), imp.Coverage.TotalCards)
	}
}

func TestSuggestImprovementsPrefersOwned(t *testing.T) {
	pool := redPool(40)
	owned := Collection{"Red 38": 4, "Red 39": 4}
	b := newTestBuilder(2)

	deck, err := b.Build(pool, Request{Color: "Red"})
	require.NoError(t, err)

	imps, err := b.SuggestImprovements(pool, deck, owned)
	require.NoError(t, err)

	balanced := imps[0]
	counts := balanced.Deck.Counts()
	assert.Positive(t, counts["Red 38"])
	assert.Positive(t, counts["Red 39"])
	assert.GreaterOrEqual(t, balanced.Coverage.CardsOwned, 2)
	assert.Len(t, balanced.Deck.Main, config.Default().DeckSize)
}

func TestSuggestImprovementsAggressiveCurve(t *testing.T) {
	pool := redPool(10)
	for i := 0; i < 10; i++ {
		pool = append(pool, newCard(fmt.Sprintf("Big %d", i), game.CardTypeCharacter, 8, "Red"))
	}
	b := newTestBuilder(4)
	deck := &game.Deck{Leader: pool[0]}

	imps, err := b.SuggestImprovements(pool, deck, nil)
	require.NoError(t, err)

	aggressive := imps[1]
	require.Equal(t, game.StrategyAggressive, aggressive.Kind)
	cheap := 0
	for _, c := range aggressive.Deck.Main {
		if c.Cost <= 5 {
			cheap++
		}
	}
	// The ranked pass fills the whole cheap character bucket before the
	// random top-up can reach for expensive cards.
	assert.GreaterOrEqual(t, cheap, 37)
}

func TestSuggestImprovementsNeedsLeader(t *testing.T) {
	_, err := newTestBuilder(1).SuggestImprovements(redPool(5), &game.Deck{}, nil)
	assert.Error(t, err)
	_, err = newTestBuilder(1).SuggestImprovements(redPool(5), nil, nil)
	assert.Error(t, err)
}

func TestBuildFromCollection(t *testing.T) {
	pool := redPool(30)
	req := Request{Strategy: game.StrategyBalanced}
	owned := Collection{"red 29": 2}

	d, cov, err := newTestBuilder(8).BuildFromCollection(pool, req, owned)
	require.NoError(t, err)
	plain, err := newTestBuilder(8).Build(pool, req)
	require.NoError(t, err)
	assert.Equal(t, plain, d)

	assert.Len(t, d.Main, 50)
	assert.Equal(t, 50, cov.TotalCards)
	assert.Equal(t, min(2, d.Counts()["Red 29"]), cov.CardsOwned)
	assert.Equal(t, 50-cov.CardsOwned, sum(cov.CardsNeeded))

	_, emptyCov, err := newTestBuilder(8).BuildFromCollection(pool, req, nil)
	require.NoError(t, err)
	assert.Zero(t, emptyCov.CardsOwned)
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
