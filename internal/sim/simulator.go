// Package sim plays decks against each other with a simplified turn-based
// state machine and aggregates many independent trials into a report.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
)

var (
	ErrInvalidTrials = errors.New("trials must be at least 1")
	ErrTooManyTrials = errors.New("trials exceed the max_trials rule")
	ErrNilDeck       = errors.New("deck and its leader must be set")
)

// Options tune how a Simulator runs its trials.
type Options struct {
	// Seed is the base seed; trial i plays with a source derived from
	// (Seed, i), so reports are reproducible for any worker count.
	Seed int64
	// Workers defaults to runtime.NumCPU().
	Workers int
	// Progress, if set, is called with (done, total) every ProgressEvery
	// finished trials. It may be called from several goroutines at once.
	Progress      func(done, total int)
	ProgressEvery int
}

// Simulator runs Monte Carlo matchups. It holds no per-run state and is
// safe for concurrent use.
type Simulator struct {
	rules config.Rules
	opts  Options
}

func New(rules config.Rules, opts Options) *Simulator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 100
	}
	return &Simulator{rules: rules, opts: opts}
}

// Simulate plays trials matches of a against b and reports from a's side.
// If ctx ends first, the trials already started are finished and the report
// covers that prefix with Truncated set.
func (s *Simulator) Simulate(ctx context.Context, a, b *game.Deck, trials int) (*Report, error) {
	if trials <= 0 {
		return nil, ErrInvalidTrials
	}
	if trials > s.rules.MaxTrials {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyTrials, trials, s.rules.MaxTrials)
	}
	if err := checkDeck(a); err != nil {
		return nil, err
	}
	if err := checkDeck(b); err != nil {
		return nil, err
	}

	results := make([]Outcome, trials)
	jobs := make(chan int, s.opts.Workers)
	var done atomic.Int64

	workers := &sync.WaitGroup{}
	workers.Add(s.opts.Workers)
	for w := 0; w < s.opts.Workers; w++ {
		go func() {
			defer workers.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(simSeed(s.opts.Seed, i)))
				results[i] = playMatch(a, b, s.rules, rng, nil)
				n := int(done.Add(1))
				if s.opts.Progress != nil && n%s.opts.ProgressEvery == 0 {
					s.opts.Progress(n, trials)
				}
			}
		}()
	}

	dispatched := 0
feed:
	for ; dispatched < trials; dispatched++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- dispatched:
		}
	}
	close(jobs)
	workers.Wait()

	r := aggregate(results[:dispatched], a, b)
	r.Requested = trials
	r.Truncated = dispatched < trials
	r.Seed = s.opts.Seed
	r.ID = runID(s.opts.Seed)
	return r, nil
}

// Trace plays a single match with every event sent to logger. The same seed
// always replays the same match.
func (s *Simulator) Trace(a, b *game.Deck, seed int64, logger log.EventLogger) (Outcome, error) {
	if err := checkDeck(a); err != nil {
		return Outcome{}, err
	}
	if err := checkDeck(b); err != nil {
		return Outcome{}, err
	}
	return playMatch(a, b, s.rules, rand.New(rand.NewSource(seed)), logger), nil
}

func checkDeck(d *game.Deck) error {
	if d == nil || d.Leader == nil {
		return ErrNilDeck
	}
	return nil
}

// simSeed derives trial simIndex's seed. The base seed is mixed on its own
// before the index is folded in, so seed s+1 does not replay seed s shifted
// by one trial.
func simSeed(baseSeed int64, simIndex int) int64 {
	return int64(splitmix(splitmix(uint64(baseSeed)) ^ uint64(simIndex)))
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
