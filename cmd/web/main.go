package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	poolFile := flag.String("pool", "data/cards.yaml", "path to card pool YAML file")
	rulesFile := flag.String("rules", "", "path to rules YAML file (default built-in rules)")
	decksFile := flag.String("decks", "data/decks.yaml", "path to decks YAML file")
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

	srv := web.NewServer(pool, rules, *decksFile)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("deckforge API listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
