package view

import (
	"strings"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
	"github.com/peterkuimelis/deckforge/internal/sim"
)

// LeaderView is a leader and how many distinct cards can join its deck.
type LeaderView struct {
	Leader          CardView `json:"leader"`
	Effect          string   `json:"effect,omitempty"`
	CompatibleCards int      `json:"compatible_cards"`
	Viable          bool     `json:"viable"`
}

// Leaders lists the leaders of pool carrying color; empty or "any" lists all.
func Leaders(pool []*game.Card, color string, rules config.Rules) []LeaderView {
	out := []LeaderView{}
	for _, l := range game.Leaders(pool) {
		if color != "" && !strings.EqualFold(color, game.AnyColor) && !l.HasColor(color) {
			continue
		}
		distinct := len(game.CountByName(game.CompatibleCards(pool, l)))
		out = append(out, LeaderView{
			Leader:          NewCardView(l),
			Effect:          l.Effect,
			CompatibleCards: distinct,
			Viable:          distinct*rules.MaxCopies >= rules.DeckSize,
		})
	}
	return out
}

// BuildView is a deck with its analysis, plus coverage when built from a collection.
type BuildView struct {
	Deck     DeckView                    `json:"deck"`
	Analysis builder.Analysis            `json:"analysis"`
	Coverage *builder.CollectionCoverage `json:"collection_coverage,omitempty"`
}

func NewBuildView(d *game.Deck, rules config.Rules) BuildView {
	return BuildView{
		Deck:     NewDeckView(d, rules.DeckSize),
		Analysis: builder.Analyze(d.Main, rules),
	}
}

type ImprovementView struct {
	Type        string                     `json:"type"`
	Description string                     `json:"description"`
	Deck        DeckView                   `json:"deck"`
	Changes     builder.Changes            `json:"changes"`
	Coverage    builder.CollectionCoverage `json:"collection_coverage"`
}

func NewImprovementViews(imps []builder.Improvement, deckSize int) []ImprovementView {
	out := make([]ImprovementView, 0, len(imps))
	for _, imp := range imps {
		out = append(out, ImprovementView{
			Type:        string(imp.Kind),
			Description: imp.Description,
			Deck:        NewDeckView(imp.Deck, deckSize),
			Changes:     imp.Changes,
			Coverage:    imp.Coverage,
		})
	}
	return out
}

// TraceView is one fully logged match.
type TraceView struct {
	Outcome sim.Outcome `json:"outcome"`
	Events  []EventView `json:"events"`
}

func NewTraceView(out sim.Outcome, events []log.GameEvent) TraceView {
	return TraceView{Outcome: out, Events: NewEventViews(events)}
}
