package mcp

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
	"github.com/peterkuimelis/deckforge/internal/sim"
	"github.com/peterkuimelis/deckforge/internal/view"
)

// cardPool is the card pool every tool draws from, set by main.
var cardPool []*game.Card

// rules are the game rules, set by main.
var rules = config.Default()

// decks resolves deck numbers from the decks file and IDs of decks built
// during this process.
var decks = game.NewDeckStore(nil, "")

// SetPool sets the card pool.
func SetPool(pool []*game.Card) {
	cardPool = pool
	decks.SetPool(pool)
}

// SetRules sets the game rules.
func SetRules(r config.Rules) {
	rules = r
}

// SetDecksFile sets the path to the decks YAML file.
func SetDecksFile(path string) {
	decks.SetFile(path)
}

// RegisterTools adds all deck tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(listLeadersTool(), handleListLeaders)
	s.AddTool(buildDeckTool(), handleBuildDeck)
	s.AddTool(analyzeDeckTool(), handleAnalyzeDeck)
	s.AddTool(suggestImprovementsTool(), handleSuggestImprovements)
	s.AddTool(simulateTool(), handleSimulate)
	s.AddTool(traceMatchTool(), handleTraceMatch)
}

// --- Tool definitions ---

const deckRefHelp = "Deck number (1-indexed from decks.yaml) or a deck id returned by build_deck / suggest_improvements"

func listLeadersTool() mcp.Tool {
	return mcp.NewTool("list_leaders",
		mcp.WithDescription("List the leaders in the card pool with the number of distinct cards that can join their deck. "+
			"A viable leader has enough compatible cards to fill a full deck."),
		mcp.WithString("color", mcp.Description("Only leaders of this color (Red, Green, Blue, Purple, Black, Yellow). Empty or 'any' for all.")),
	)
}

func buildDeckTool() mcp.Tool {
	return mcp.NewTool("build_deck",
		mcp.WithDescription("Build a deck from the card pool for a strategy. Returns the deck list, its analysis, and an id usable by the other tools."),
		mcp.WithString("strategy", mcp.Description("aggressive, balanced (default) or control")),
		mcp.WithString("color", mcp.Description("Leader color, or 'any' (default)")),
		mcp.WithString("leader", mcp.Description("Exact leader name; overrides color")),
		mcp.WithString("owned", mcp.Description("Optional owned cards as 'Name:count, Name:count'. Reports how much of the deck you own.")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible deck (default: time-based)")),
	)
}

func analyzeDeckTool() mcp.Tool {
	return mcp.NewTool("analyze_deck",
		mcp.WithDescription("Show a deck's cost curve, type and color mix, and suggestions. Read-only."),
		mcp.WithString("deck", mcp.Required(), mcp.Description(deckRefHelp)),
	)
}

func suggestImprovementsTool() mcp.Tool {
	return mcp.NewTool("suggest_improvements",
		mcp.WithDescription("Rebuild a deck three ways (balanced, aggressive, tournament) keeping its leader. "+
			"Each variant lists its changes from the given deck and, if owned cards are given, how much of it you own."),
		mcp.WithString("deck", mcp.Required(), mcp.Description(deckRefHelp)),
		mcp.WithString("owned", mcp.Description("Optional owned cards as 'Name:count, Name:count'")),
		mcp.WithNumber("seed", mcp.Description("Random seed (default: time-based)")),
	)
}

func simulateTool() mcp.Tool {
	return mcp.NewTool("simulate",
		mcp.WithDescription("Play two decks against each other many times and report deck A's win rate, average game length, insights and key cards."),
		mcp.WithString("deck_a", mcp.Required(), mcp.Description(deckRefHelp)),
		mcp.WithString("deck_b", mcp.Required(), mcp.Description(deckRefHelp)),
		mcp.WithNumber("trials", mcp.Description("Number of games (default from rules, usually 1000)")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible report (default: time-based)")),
	)
}

func traceMatchTool() mcp.Tool {
	return mcp.NewTool("trace_match",
		mcp.WithDescription("Play a single game between two decks and return every event: plays, attacks, blocks, battles and life changes."),
		mcp.WithString("deck_a", mcp.Required(), mcp.Description(deckRefHelp)),
		mcp.WithString("deck_b", mcp.Required(), mcp.Description(deckRefHelp)),
		mcp.WithNumber("seed", mcp.Description("Random seed; the same seed replays the same game (default: time-based)")),
	)
}

// --- Tool handlers ---

func handleListLeaders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if len(cardPool) == 0 {
		return mcp.NewToolResultError("No card pool loaded."), nil
	}
	return mcp.NewToolResultText(view.JSON(view.Leaders(cardPool, request.GetString("color", ""), rules))), nil
}

func handleBuildDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy, err := game.ParseStrategy(request.GetString("strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req := builder.Request{
		Strategy: strategy,
		Color:    request.GetString("color", game.AnyColor),
		Leader:   request.GetString("leader", ""),
	}
	b := newBuilder(request)

	var deck *game.Deck
	var coverage *builder.CollectionCoverage
	if ownedText := request.GetString("owned", ""); ownedText != "" {
		owned, err := builder.ParseCollection(ownedText)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var cov builder.CollectionCoverage
		deck, cov, err = b.BuildFromCollection(cardPool, req, owned)
		if err != nil {
			return mcp.NewToolResultErrorf("Failed to build deck: %v", err), nil
		}
		coverage = &cov
	} else {
		deck, err = b.Build(cardPool, req)
		if err != nil {
			return mcp.NewToolResultErrorf("Failed to build deck: %v", err), nil
		}
	}

	decks.Add(deck)
	resp := view.NewBuildView(deck, rules)
	resp.Coverage = coverage
	return mcp.NewToolResultText(view.JSON(resp)), nil
}

func handleAnalyzeDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck, err := decks.Resolve(request.GetString("deck", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(view.JSON(view.NewBuildView(deck, rules))), nil
}

func handleSuggestImprovements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck, err := decks.Resolve(request.GetString("deck", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	owned, err := builder.ParseCollection(request.GetString("owned", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	imps, err := newBuilder(request).SuggestImprovements(cardPool, deck, owned)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to suggest improvements: %v", err), nil
	}

	for _, imp := range imps {
		decks.Add(imp.Deck)
	}
	return mcp.NewToolResultText(view.JSON(view.NewImprovementViews(imps, rules.DeckSize))), nil
}

func handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, b, err := resolvePair(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	trials := request.GetInt("trials", rules.DefaultTrials)

	s := sim.New(rules, sim.Options{Seed: seedFrom(request)})
	report, err := s.Simulate(ctx, a, b, trials)
	if err != nil {
		return mcp.NewToolResultErrorf("Simulation failed: %v", err), nil
	}
	return mcp.NewToolResultText(view.JSON(report)), nil
}

func handleTraceMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, b, err := resolvePair(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger := log.NewMemoryLogger()
	out, err := sim.New(rules, sim.Options{}).Trace(a, b, seedFrom(request), logger)
	if err != nil {
		return mcp.NewToolResultErrorf("Trace failed: %v", err), nil
	}
	return mcp.NewToolResultText(view.JSON(view.NewTraceView(out, logger.Events()))), nil
}

// --- Helpers ---

func seedFrom(request mcp.CallToolRequest) int64 {
	if seed := request.GetInt("seed", -1); seed >= 0 {
		return int64(seed)
	}
	return time.Now().UnixNano()
}

func newBuilder(request mcp.CallToolRequest) *builder.Builder {
	return builder.New(rules, rand.New(rand.NewSource(seedFrom(request))))
}

func resolvePair(request mcp.CallToolRequest) (*game.Deck, *game.Deck, error) {
	a, err := decks.Resolve(request.GetString("deck_a", ""))
	if err != nil {
		return nil, nil, fmt.Errorf("deck_a: %w", err)
	}
	b, err := decks.Resolve(request.GetString("deck_b", ""))
	if err != nil {
		return nil, nil, fmt.Errorf("deck_b: %w", err)
	}
	return a, b, nil
}
