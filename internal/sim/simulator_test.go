package sim

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
)

func TestSimulateCountsEveryTrial(t *testing.T) {
	a := poolDeck(t, 1, game.StrategyAggressive, "Red")
	b := poolDeck(t, 2, game.StrategyControl, "Green")
	rules := config.Default()

	r, err := New(rules, Options{Seed: 9}).Simulate(context.Background(), a, b, 300)
	require.NoError(t, err)

	assert.Equal(t, 300, r.Trials)
	assert.Equal(t, 300, r.Requested)
	assert.False(t, r.Truncated)
	assert.Equal(t, r.Trials, r.Wins+r.Losses)
	assert.GreaterOrEqual(t, r.WinRate, 0.0)
	assert.LessOrEqual(t, r.WinRate, 100.0)
	if r.Wins > 0 {
		assert.GreaterOrEqual(t, r.AvgWinTurns, 1.0)
		assert.LessOrEqual(t, r.AvgWinTurns, float64(rules.MaxTurns))
	}
	if r.Losses > 0 {
		assert.GreaterOrEqual(t, r.AvgLossTurns, 1.0)
		assert.LessOrEqual(t, r.AvgLossTurns, float64(rules.MaxTurns))
	}
	assert.Equal(t, "Aggressive vs Control", r.MatchupType)
	assert.NotEmpty(t, r.Insights)
	assert.NotEmpty(t, r.ID)
	assert.GreaterOrEqual(t, r.PriorWinRate, 10.0)
	assert.LessOrEqual(t, r.PriorWinRate, 90.0)
}

func TestSimulateMirrorIsEven(t *testing.T) {
	d := poolDeck(t, 5, game.StrategyBalanced, "Red")

	r, err := New(config.Default(), Options{Seed: 2024}).Simulate(context.Background(), d, d, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, r.WinRate, 5.0)
	assert.Equal(t, "Mirror Match (Balanced vs Balanced)", r.MatchupType)
}

func TestSimulateDeterministicAcrossWorkers(t *testing.T) {
	a := poolDeck(t, 3, game.StrategyBalanced, "Blue")
	b := poolDeck(t, 4, game.StrategyAggressive, "Red")
	ctx := context.Background()

	r1, err := New(config.Default(), Options{Seed: 42, Workers: 1}).Simulate(ctx, a, b, 200)
	require.NoError(t, err)
	r2, err := New(config.Default(), Options{Seed: 42, Workers: 8}).Simulate(ctx, a, b, 200)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	r3, err := New(config.Default(), Options{Seed: 43, Workers: 8}).Simulate(ctx, a, b, 200)
	require.NoError(t, err)
	assert.NotEqual(t, r1.ID, r3.ID)
}

func TestAdjacentSeedsDoNotShareTrials(t *testing.T) {
	a := poolDeck(t, 3, game.StrategyBalanced, "Blue")
	b := poolDeck(t, 4, game.StrategyAggressive, "Red")
	rules := config.Default()

	const trials = 200
	same := 0
	for i := 0; i < trials-1; i++ {
		require.NotEqual(t, simSeed(1, i+1), simSeed(2, i), "trial %d", i)
		next := playMatch(a, b, rules, rand.New(rand.NewSource(simSeed(2, i))), nil)
		shifted := playMatch(a, b, rules, rand.New(rand.NewSource(simSeed(1, i+1))), nil)
		if next == shifted {
			same++
		}
	}
	assert.Less(t, same, trials/2)

	seeds := make(map[int64]bool)
	for base := int64(0); base < 20; base++ {
		for i := 0; i < 20; i++ {
			seeds[simSeed(base, i)] = true
		}
	}
	assert.Len(t, seeds, 400)
}

func TestSimulateTurnBounds(t *testing.T) {
	rules := config.Default()
	a := poolDeck(t, 6, game.StrategyControl, "Red")
	b := poolDeck(t, 7, game.StrategyAggressive, "Green")
	s := New(rules, Options{})

	for seed := int64(0); seed < 200; seed++ {
		out, err := s.Trace(a, b, seed, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Turns, 1)
		assert.LessOrEqual(t, out.Turns, rules.MaxTurns)
		if !out.TurnLimit {
			assert.LessOrEqual(t, out.Life[1-out.Winner], 0, "seed %d", seed)
		}
	}
}

func TestSimulateEmptyDecks(t *testing.T) {
	rules := config.Default()
	a := deckOf(leader("A", 5, ""), game.StrategyBalanced)
	b := deckOf(leader("B", 5, ""), game.StrategyBalanced)

	r, err := New(rules, Options{Seed: 1}).Simulate(context.Background(), a, b, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, r.Wins+r.Losses)
	if r.Wins > 0 {
		assert.Equal(t, float64(rules.MaxTurns), r.AvgWinTurns)
	}
	if r.Losses > 0 {
		assert.Equal(t, float64(rules.MaxTurns), r.AvgLossTurns)
	}
}

func TestSimulateInvalidInput(t *testing.T) {
	d := vanillaDeck("A", 10)
	s := New(config.Default(), Options{})
	ctx := context.Background()

	_, err := s.Simulate(ctx, d, d, 0)
	assert.ErrorIs(t, err, ErrInvalidTrials)
	_, err = s.Simulate(ctx, d, d, -5)
	assert.ErrorIs(t, err, ErrInvalidTrials)
	_, err = s.Simulate(ctx, d, d, config.Default().MaxTrials+1)
	assert.ErrorIs(t, err, ErrTooManyTrials)
	_, err = s.Simulate(ctx, nil, d, 10)
	assert.ErrorIs(t, err, ErrNilDeck)
	_, err = s.Simulate(ctx, d, &game.Deck{}, 10)
	assert.ErrorIs(t, err, ErrNilDeck)
	_, err = s.Trace(d, nil, 1, nil)
	assert.ErrorIs(t, err, ErrNilDeck)
}

func TestSimulateCancelledTruncates(t *testing.T) {
	d := vanillaDeck("A", 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(config.Default(), Options{}).Simulate(ctx, d, d, 1000)
	require.NoError(t, err)
	assert.True(t, r.Truncated)
	assert.Equal(t, 0, r.Trials)
	assert.Equal(t, 1000, r.Requested)
	assert.Zero(t, r.WinRate)
}

func TestSimulateProgress(t *testing.T) {
	d := vanillaDeck("A", 50)
	var (
		mu    sync.Mutex
		calls int
		last  int
	)
	opts := Options{
		Seed:          3,
		Workers:       4,
		ProgressEvery: 10,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			last = max(last, done)
			assert.Equal(t, 100, total)
		},
	}

	_, err := New(config.Default(), opts).Simulate(context.Background(), d, d, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
	assert.Equal(t, 100, last)
}
