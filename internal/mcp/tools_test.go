package mcp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
)

func loadTestPool(t *testing.T) []*game.Card {
	t.Helper()
	pool, err := game.LoadPool("../../data/cards.yaml")
	require.NoError(t, err)
	SetPool(pool)
	SetRules(config.Default())
	SetDecksFile("")
	return pool
}

func TestBuiltDecksAreResolvable(t *testing.T) {
	pool := loadTestPool(t)
	b := builder.New(config.Default(), rand.New(rand.NewSource(3)))
	d, err := b.Build(pool, builder.Request{Strategy: game.StrategyAggressive})
	require.NoError(t, err)
	decks.Add(d)

	got, err := decks.Resolve(d.ID)
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = decks.Resolve("1")
	assert.ErrorContains(t, err, "no decks file")
}
