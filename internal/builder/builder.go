// Package builder assembles strategy-shaped decks from a card pool by
// bounded random sampling under the copy and color rules.
package builder

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
)

// Request describes the deck a caller wants.
type Request struct {
	Strategy game.Strategy
	Color    string // color tag, or game.AnyColor
	Leader   string // optional leader name, matched case-insensitively
}

// Builder builds decks. It owns its random source, so a Builder must not be
// shared between goroutines; separate Builders are independent.
type Builder struct {
	rules config.Rules
	rng   *rand.Rand
}

// New creates a Builder. Pass a seeded source for reproducible decks.
func New(rules config.Rules, rng *rand.Rand) *Builder {
	return &Builder{rules: rules, rng: rng}
}

// Rules returns the rules the builder was created with.
func (b *Builder) Rules() config.Rules {
	return b.rules
}

// Build selects a leader and fills its main deck. The only error is an
// unknown strategy or a pool with no usable leader; a pool too small to fill
// the deck yields a short deck, which callers check with Deck.Complete.
func (b *Builder) Build(pool []*game.Card, req Request) (*game.Deck, error) {
	strategy, err := game.ParseStrategy(string(req.Strategy))
	if err != nil {
		return nil, err
	}
	color := req.Color
	if color == "" {
		color = game.AnyColor
	}

	leader, err := b.SelectLeader(pool, color, req.Leader)
	if err != nil {
		return nil, err
	}

	return &game.Deck{
		ID:       b.newID(),
		Leader:   leader,
		Main:     b.BuildMain(pool, leader, strategy),
		Strategy: strategy,
		Color:    color,
	}, nil
}

// SelectLeader picks the deck's leader. A named leader wins outright;
// otherwise a random leader of the color whose compatible pool can fill a
// deck, falling back to the leader with the largest compatible pool.
func (b *Builder) SelectLeader(pool []*game.Card, color, name string) (*game.Card, error) {
	leaders := game.Leaders(pool)

	if name != "" {
		for _, l := range leaders {
			if strings.EqualFold(l.Name, name) {
				return l, nil
			}
		}
	}

	if color != "" && !strings.EqualFold(color, game.AnyColor) {
		var filtered []*game.Card
		for _, l := range leaders {
			if l.HasColor(color) {
				filtered = append(filtered, l)
			}
		}
		leaders = filtered
	}

	if len(leaders) == 0 {
		return nil, &game.InsufficientPoolError{Color: color, Leader: name}
	}

	var viable []*game.Card
	var best *game.Card
	bestSize := -1
	for _, l := range leaders {
		size := distinctNames(game.CompatibleCards(pool, l))
		if size*b.rules.MaxCopies >= b.rules.DeckSize {
			viable = append(viable, l)
		}
		if size > bestSize {
			best, bestSize = l, size
		}
	}

	if len(viable) > 0 {
		return viable[b.rng.Intn(len(viable))], nil
	}
	return best, nil
}

// BuildMain fills a main deck for leader: each strategy bucket in order,
// then a fallback fill from every compatible card.
func (b *Builder) BuildMain(pool []*game.Card, leader *game.Card, strategy game.Strategy) []*game.Card {
	available := game.CompatibleCards(pool, leader)
	f := newFill(b.rules)

	for _, bucket := range game.Distribution(strategy) {
		var candidates []*game.Card
		for _, c := range available {
			if bucket.Accepts(c) {
				candidates = append(candidates, c)
			}
		}
		want := min(bucket.Target(b.rules.DeckSize), f.remaining())
		b.sample(f, candidates, want, b.rules.MaxBucketAttempts)
	}

	b.sample(f, available, f.remaining(), b.rules.MaxBuildAttempts)
	return f.cards
}

// sample draws uniformly from candidates, adding cards still under the copy
// limit, until want cards were added, no addable candidate is left, or the
// attempt budget is spent. Saturated candidates are dropped when drawn.
func (b *Builder) sample(f *fill, candidates []*game.Card, want, attempts int) int {
	open := append([]*game.Card(nil), candidates...)
	added := 0
	for ; added < want && len(open) > 0 && attempts > 0; attempts-- {
		i := b.rng.Intn(len(open))
		c := open[i]
		if f.canAdd(c) {
			f.add(c)
			added++
			continue
		}
		open[i] = open[len(open)-1]
		open = open[:len(open)-1]
	}
	return added
}

func (b *Builder) newID() string {
	id, err := uuid.NewRandomFromReader(b.rng)
	if err != nil {
		panic(fmt.Sprintf("deck id: %v", err))
	}
	return id.String()
}

// fill is a main deck under construction.
type fill struct {
	cards  []*game.Card
	counts map[string]int
	size   int
	copies int
}

func newFill(rules config.Rules) *fill {
	return &fill{
		cards:  make([]*game.Card, 0, rules.DeckSize),
		counts: make(map[string]int),
		size:   rules.DeckSize,
		copies: rules.MaxCopies,
	}
}

func (f *fill) canAdd(c *game.Card) bool {
	return len(f.cards) < f.size && f.counts[c.Name] < f.copies
}

func (f *fill) add(c *game.Card) {
	f.cards = append(f.cards, c)
	f.counts[c.Name]++
}

func (f *fill) remaining() int {
	return f.size - len(f.cards)
}

func (f *fill) countType(t game.CardType) int {
	n := 0
	for _, c := range f.cards {
		if c.Type == t {
			n++
		}
	}
	return n
}

func distinctNames(cards []*game.Card) int {
	seen := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		seen[c.Name] = struct{}{}
	}
	return len(seen)
}
