package builder

import (
	"errors"
	"sort"
	"strings"

	"github.com/peterkuimelis/deckforge/internal/game"
)

// Collection maps card names to owned copies. ParseCollection and
// LoadCollection key it by lower-cased name.
type Collection map[string]int

// Owned returns the copies of name in the collection. An exact key wins over
// the lower-cased one.
func (c Collection) Owned(name string) int {
	if n, ok := c[name]; ok {
		return n
	}
	return c[strings.ToLower(name)]
}

// Improvement is one alternative build of an existing deck.
type Improvement struct {
	Kind        game.Strategy      `json:"type"`
	Description string             `json:"description"`
	Deck        *game.Deck         `json:"deck"`
	Changes     Changes            `json:"changes"`
	Coverage    CollectionCoverage `json:"collection_coverage"`
}

// variant describes how an improvement orders and fills its candidates.
type variant struct {
	kind        game.Strategy
	description string
	buckets     []game.Bucket
	// before orders candidates ahead of ownership.
	before func(a, b *game.Card) bool
}

func costAsc(a, b *game.Card) bool { return a.Cost < b.Cost }

func nearCurve(a, b *game.Card) bool { return absInt(a.Cost-4) < absInt(b.Cost-4) }

var variants = []variant{
	{
		kind:        game.StrategyBalanced,
		description: "Optimized balanced build using owned cards",
		buckets:     game.Distribution(game.StrategyBalanced),
	},
	{
		kind:        game.StrategyAggressive,
		description: "Low-cost aggressive build",
		buckets: []game.Bucket{
			{Type: game.CardTypeCharacter, Ratio: 0.75, Filter: func(c *game.Card) bool { return c.Cost <= 5 }},
			{Type: game.CardTypeEvent, Ratio: 0.25, Filter: func(c *game.Card) bool { return c.Cost <= 4 }},
		},
		before: costAsc,
	},
	{
		kind:        game.StrategyTournament,
		description: "Tournament-style build with a cost curve centred on 4",
		buckets:     game.Distribution(game.StrategyTournament),
		before:      nearCurve,
	},
}

// SuggestImprovements rebuilds deck three ways (balanced, aggressive,
// tournament) keeping its leader. Candidates are ranked so owned cards go in
// first, and each variant reports its changes and collection coverage.
func (b *Builder) SuggestImprovements(pool []*game.Card, deck *game.Deck, owned Collection) ([]Improvement, error) {
	if deck == nil || deck.Leader == nil {
		return nil, errors.New("deck has no leader")
	}
	available := game.CompatibleCards(pool, deck.Leader)

	var out []Improvement
	for _, v := range variants {
		main := b.buildVariant(available, v, owned)
		d := &game.Deck{
			ID:       b.newID(),
			Leader:   deck.Leader,
			Main:     main,
			Strategy: v.kind,
			Color:    strings.Join(deck.Leader.Colors, "/"),
		}
		out = append(out, Improvement{
			Kind:        v.kind,
			Description: v.description,
			Deck:        d,
			Changes:     Diff(deck.Main, main),
			Coverage:    Coverage(main, owned),
		})
	}
	return out, nil
}

// BuildFromCollection is Build plus a report of how much of the deck is
// owned. Ownership does not steer the build; SuggestImprovements does that.
func (b *Builder) BuildFromCollection(pool []*game.Card, req Request, owned Collection) (*game.Deck, CollectionCoverage, error) {
	d, err := b.Build(pool, req)
	if err != nil {
		return nil, CollectionCoverage{}, err
	}
	return d, Coverage(d.Main, owned), nil
}

// buildVariant fills a deck in three passes: ranked round-robin per bucket,
// random top-up of each bucket's card type, then any compatible card.
func (b *Builder) buildVariant(available []*game.Card, v variant, owned Collection) []*game.Card {
	f := newFill(b.rules)

	for _, bucket := range v.buckets {
		var candidates []*game.Card
		for _, c := range available {
			if bucket.Accepts(c) {
				candidates = append(candidates, c)
			}
		}
		rank(candidates, v.before, owned)
		want := min(bucket.Target(b.rules.DeckSize), f.remaining())
		b.roundRobin(f, candidates, want)
	}

	for _, bucket := range v.buckets {
		var candidates []*game.Card
		for _, c := range available {
			if c.Type == bucket.Type {
				candidates = append(candidates, c)
			}
		}
		want := min(bucket.Target(b.rules.DeckSize)-f.countType(bucket.Type), f.remaining())
		if want > 0 {
			b.sample(f, candidates, want, b.rules.MaxBucketAttempts)
		}
	}

	b.sample(f, available, f.remaining(), b.rules.MaxBuildAttempts)
	return f.cards
}

// roundRobin cycles through ordered, adding a copy per visit, so the top
// candidates reach the copy limit first.
func (b *Builder) roundRobin(f *fill, ordered []*game.Card, want int) {
	if len(ordered) == 0 {
		return
	}
	added := 0
	for i := 0; added < want && i < b.rules.MaxBucketAttempts; i++ {
		c := ordered[i%len(ordered)]
		if f.canAdd(c) {
			f.add(c)
			added++
		}
	}
}

func rank(cards []*game.Card, before func(a, b *game.Card) bool, owned Collection) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, c := cards[i], cards[j]
		if before != nil {
			if before(a, c) {
				return true
			}
			if before(c, a) {
				return false
			}
		}
		return owned.Owned(a.Name) > owned.Owned(c.Name)
	})
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
