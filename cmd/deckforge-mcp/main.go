package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	deckmcp "github.com/peterkuimelis/deckforge/internal/mcp"
)

func main() {
	poolFile := flag.String("pool", "data/cards.yaml", "path to card pool YAML file")
	rulesFile := flag.String("rules", "", "path to rules YAML file (default built-in rules)")
	decks := flag.String("decks", "data/decks.yaml", "path to decks YAML file")
	flag.Parse()

	pool, err := game.LoadPool(*poolFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rules, err := config.Load(*rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	deckmcp.SetPool(pool)
	deckmcp.SetRules(rules)
	deckmcp.SetDecksFile(*decks)

	s := server.NewMCPServer("deckforge", "1.0.0")
	deckmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
