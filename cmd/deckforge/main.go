package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/peterkuimelis/deckforge/internal/builder"
	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
	"github.com/peterkuimelis/deckforge/internal/sim"
	"github.com/peterkuimelis/deckforge/internal/view"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	var err error
	switch cmd {
	case "leaders":
		err = runLeaders(args)
	case "build":
		err = runBuild(args)
	case "analyze":
		err = runAnalyze(args)
	case "improve":
		err = runImprove(args)
	case "simulate":
		err = runSimulate(args)
	case "trace":
		err = runTrace(args)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  deckforge leaders  [--color C]")
	fmt.Println("  deckforge build    [--strategy S] [--color C] [--leader NAME] [--owned FILE] [--out FILE --name NAME]")
	fmt.Println("  deckforge analyze  --deck N")
	fmt.Println("  deckforge improve  --deck N [--owned FILE] [--out FILE]")
	fmt.Println("  deckforge simulate --a N --b N [--trials T] [--workers W] [--json]")
	fmt.Println("  deckforge trace    --a N --b N")
	fmt.Println()
	fmt.Println("Every command also takes --pool FILE, --rules FILE, --decks FILE and --seed N.")
	fmt.Println("Decks are referenced by number (1-indexed) in the decks file.")
}

// env is what every command loads before it runs.
type env struct {
	pool  []*game.Card
	rules config.Rules
	decks *game.DeckStore
	file  string
	seed  int64
}

type commonFlags struct {
	pool, rules, decks *string
	seed               *int64
}

func addCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		pool:  fs.String("pool", "data/cards.yaml", "path to card pool YAML file"),
		rules: fs.String("rules", "", "path to rules YAML file (default built-in rules)"),
		decks: fs.String("decks", "data/decks.yaml", "path to decks file"),
		seed:  fs.Int64("seed", -1, "random seed (default time-based)"),
	}
}

func (cf commonFlags) load() (*env, error) {
	pool, err := game.LoadPool(*cf.pool)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	rules, err := config.Load(*cf.rules)
	if err != nil {
		return nil, err
	}
	seed := *cf.seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return &env{
		pool:  pool,
		rules: rules,
		decks: game.NewDeckStore(pool, *cf.decks),
		file:  *cf.decks,
		seed:  seed,
	}, nil
}

func (e *env) builder() *builder.Builder {
	return builder.New(e.rules, rand.New(rand.NewSource(e.seed)))
}

func (e *env) deck(n int) (*game.Deck, error) {
	return e.decks.Resolve(fmt.Sprint(n))
}

// appendDecks adds entries to the decks file, keeping the decks already there.
func (e *env) appendDecks(path string, entries ...game.DeckEntry) error {
	existing, err := game.NewDeckStore(e.pool, path).Entries()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return game.SaveDeckFile(path, append(existing, entries...)...)
}

func runLeaders(args []string) error {
	fs := flag.NewFlagSet("leaders", flag.ExitOnError)
	common := addCommon(fs)
	color := fs.String("color", "", "only leaders of this color")
	fs.Parse(args)

	e, err := common.load()
	if err != nil {
		return err
	}
	for _, l := range view.Leaders(e.pool, *color, e.rules) {
		status := "viable"
		if !l.Viable {
			status = "too few cards"
		}
		fmt.Printf("%-20s %-14s life %d  %2d compatible cards (%s)\n",
			l.Leader.Name, strings.Join(l.Leader.Colors, "/"), l.Leader.Life, l.CompatibleCards, status)
		if l.Effect != "" {
			fmt.Printf("  %s\n", l.Effect)
		}
	}
	return nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	common := addCommon(fs)
	strategy := fs.String("strategy", "balanced", "aggressive, balanced or control")
	color := fs.String("color", game.AnyColor, "leader color")
	leader := fs.String("leader", "", "leader name (overrides color)")
	ownedFile := fs.String("owned", "", "YAML file of owned cards (name: count)")
	out := fs.String("out", "", "append the deck to this decks file")
	name := fs.String("name", "", "deck name when saving (default generated)")
	fs.Parse(args)

	e, err := common.load()
	if err != nil {
		return err
	}
	s, err := game.ParseStrategy(*strategy)
	if err != nil {
		return err
	}
	req := builder.Request{Strategy: s, Color: *color, Leader: *leader}

	var deck *game.Deck
	if *ownedFile != "" {
		owned, err := builder.LoadCollection(*ownedFile)
		if err != nil {
			return fmt.Errorf("load collection: %w", err)
		}
		var cov builder.CollectionCoverage
		deck, cov, err = e.builder().BuildFromCollection(e.pool, req, owned)
		if err != nil {
			return err
		}
		printDeck(deck, e.rules)
		printCoverage(cov)
	} else {
		deck, err = e.builder().Build(e.pool, req)
		if err != nil {
			return err
		}
		printDeck(deck, e.rules)
	}
	printAnalysis(builder.Analyze(deck.Main, e.rules))

	if *out != "" {
		deckName := *name
		if deckName == "" {
			deckName = fmt.Sprintf("%s %s", deck.Leader.Name, s.Title())
		}
		if err := e.appendDecks(*out, game.NewDeckEntry(deckName, deck)); err != nil {
			return fmt.Errorf("save deck: %w", err)
		}
		fmt.Printf("\nSaved %q to %s\n", deckName, *out)
	}
	return nil
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	common := addCommon(fs)
	n := fs.Int("deck", 1, "deck number (from the decks file)")
	fs.Parse(args)

	e, err := common.load()
	if err != nil {
		return err
	}
	deck, err := e.deck(*n)
	if err != nil {
		return err
	}
	printDeck(deck, e.rules)
	printAnalysis(builder.Analyze(deck.Main, e.rules))
	return nil
}

func runImprove(args []string) error {
	fs := flag.NewFlagSet("improve", flag.ExitOnError)
	common := addCommon(fs)
	n := fs.Int("deck", 1, "deck number (from the decks file)")
	ownedFile := fs.String("owned", "", "YAML file of owned cards (name: count)")
	out := fs.String("out", "", "append the improved decks to this decks file")
	fs.Parse(args)

	e, err := common.load()
	if err != nil {
		return err
	}
	deck, err := e.deck(*n)
	if err != nil {
		return err
	}
	owned := builder.Collection{}
	if *ownedFile != "" {
		if owned, err = builder.LoadCollection(*ownedFile); err != nil {
			return fmt.Errorf("load collection: %w", err)
		}
	}

	imps, err := e.builder().SuggestImprovements(e.pool, deck, owned)
	if err != nil {
		return err
	}
	var entries []game.DeckEntry
	for _, imp := range imps {
		fmt.Printf("== %s: %s\n", imp.Kind.Title(), imp.Description)
		printChanges(imp.Changes)
		if len(owned) > 0 {
			printCoverage(imp.Coverage)
		}
		fmt.Println()
		entries = append(entries, game.NewDeckEntry(fmt.Sprintf("%s (%s)", deck.ID, imp.Kind), imp.Deck))
	}

	if *out != "" {
		if err := e.appendDecks(*out, entries...); err != nil {
			return fmt.Errorf("save decks: %w", err)
		}
		fmt.Printf("Saved %d decks to %s\n", len(entries), *out)
	}
	return nil
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	common := addCommon(fs)
	a := fs.Int("a", 1, "deck A number")
	b := fs.Int("b", 2, "deck B number")
	trials := fs.Int("trials", 0, "number of games (default from rules)")
	workers := fs.Int("workers", 0, "parallel workers (default NumCPU)")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	fs.Parse(args)

	e, err := common.load()
	if err != nil {
		return err
	}
	deckA, err := e.deck(*a)
	if err != nil {
		return fmt.Errorf("deck A: %w", err)
	}
	deckB, err := e.deck(*b)
	if err != nil {
		return fmt.Errorf("deck B: %w", err)
	}
	if *trials == 0 {
		*trials = e.rules.DefaultTrials
	}

	// Ctrl-C stops dispatching games; the report covers the games played.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := sim.Options{Seed: e.seed, Workers: *workers}
	if !*asJSON {
		opts.Progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r%d/%d games", done, total)
		}
	}
	report, err := sim.New(e.rules, opts).Simulate(ctx, deckA, deckB, *trials)
	if err != nil {
		return err
	}

	if *asJSON {
		fmt.Println(view.JSON(report))
		return nil
	}
	fmt.Fprintln(os.Stderr)
	printReport(deckA, deckB, report)
	return nil
}

func runTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	common := addCommon(fs)
	a := fs.Int("a", 1, "deck A number")
	b := fs.Int("b", 2, "deck B number")
	fs.Parse(args)

	e, err := common.load()
	if err != nil {
		return err
	}
	deckA, err := e.deck(*a)
	if err != nil {
		return fmt.Errorf("deck A: %w", err)
	}
	deckB, err := e.deck(*b)
	if err != nil {
		return fmt.Errorf("deck B: %w", err)
	}

	fmt.Printf("A: %s (%s)\nB: %s (%s)\nseed %d\n\n", deckA.ID, deckA.Leader.Name, deckB.ID, deckB.Leader.Name, e.seed)
	_, err = sim.New(e.rules, sim.Options{}).Trace(deckA, deckB, e.seed, log.NewTextLogger(os.Stdout))
	return err
}

// --- Output ---

func printDeck(d *game.Deck, rules config.Rules) {
	v := view.NewDeckView(d, rules.DeckSize)
	title := v.ID
	if title == "" {
		title = "deck"
	}
	fmt.Printf("%s: %s leader %s (%s), %d cards\n", title, d.Strategy.Title(), v.Leader.Name, v.Color, v.Size)
	for _, c := range v.Cards {
		fmt.Printf("  %dx %-24s %-9s cost %d", c.Count, c.Name, c.Type, c.Cost)
		if c.Power > 0 {
			fmt.Printf("  power %d", c.Power)
		}
		fmt.Println()
	}
	if !v.Complete {
		fmt.Printf("  (incomplete: %d of %d cards)\n", v.Size, rules.DeckSize)
	}
}

func printAnalysis(a builder.Analysis) {
	fmt.Printf("\nAverage cost %.2f\n", a.AverageCost)
	costs := make([]int, 0, len(a.CostCurve))
	for c := range a.CostCurve {
		costs = append(costs, c)
	}
	sort.Ints(costs)
	for _, c := range costs {
		fmt.Printf("  cost %2d: %s %d\n", c, strings.Repeat("#", a.CostCurve[c]), a.CostCurve[c])
	}
	for t, n := range a.TypeDistribution {
		fmt.Printf("  %-9s %d\n", t, n)
	}
	for _, s := range a.Suggestions {
		fmt.Printf("- %s\n", s)
	}
}

func printCoverage(c builder.CollectionCoverage) {
	fmt.Printf("Owned %d of %d cards (%.2f%%)\n", c.CardsOwned, c.TotalCards, c.Percentage)
	names := make([]string, 0, len(c.CardsNeeded))
	for n := range c.CardsNeeded {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  need %dx %s\n", c.CardsNeeded[n], n)
	}
}

func printChanges(c builder.Changes) {
	for _, cc := range c.Added {
		fmt.Printf("  + %dx %s\n", cc.Quantity, cc.Name)
	}
	for _, cc := range c.Removed {
		fmt.Printf("  - %dx %s\n", cc.Quantity, cc.Name)
	}
	for _, q := range c.Changed {
		fmt.Printf("  ~ %s %d -> %d\n", q.Name, q.Old, q.New)
	}
	fmt.Printf("  %d changes, %.2f%% similar\n", c.Total, c.Similarity)
}

func printReport(a, b *game.Deck, r *sim.Report) {
	fmt.Printf("%s vs %s (%s)\n", a.ID, b.ID, r.MatchupType)
	fmt.Printf("Deck A win rate: %.2f%% (%d-%d over %d games)\n", r.WinRate, r.Wins, r.Losses, r.Trials)
	if r.Truncated {
		fmt.Printf("Stopped early: %d of %d games played\n", r.Trials, r.Requested)
	}
	fmt.Printf("Average turns: %.1f when A wins, %.1f when A loses\n", r.AvgWinTurns, r.AvgLossTurns)
	fmt.Printf("Matchup prior: %.1f%%, recorded games last %.1f turns\n", r.PriorWinRate, r.ReferenceTurns)
	for _, s := range r.Insights {
		fmt.Printf("- %s\n", s)
	}
	fmt.Printf("Key cards: high power %v, low cost %v, events %v\n",
		r.KeyCards.HighPower, r.KeyCards.LowCost, r.KeyCards.Events)
	fmt.Printf("Run %s (seed %d)\n", r.ID, r.Seed)
}
