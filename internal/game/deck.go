package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name     string      `yaml:"name"`
	Leader   string      `yaml:"leader"`
	Strategy Strategy    `yaml:"strategy,omitempty"`
	Cards    []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ParseDeckFile parses a YAML deck file and returns a map of deck name → deck.
// Card names are resolved against pool.
func ParseDeckFile(path string, pool []*Card) (map[string]*Deck, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}

	decks := make(map[string]*Deck)
	for _, entry := range df.Decks {
		deck, err := entry.Resolve(pool)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", entry.Name, err)
		}
		decks[entry.Name] = deck
	}

	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, pool []*Card, n int) (string, *Deck, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return "", nil, err
	}

	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}

	entry := df.Decks[n-1]
	deck, err := entry.Resolve(pool)
	if err != nil {
		return "", nil, fmt.Errorf("deck %q: %w", entry.Name, err)
	}
	return entry.Name, deck, nil
}

func readDeckFile(path string) (DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeckFile{}, err
	}

	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return DeckFile{}, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// Resolve turns a deck entry back into a Deck using the cards of pool.
func (e DeckEntry) Resolve(pool []*Card) (*Deck, error) {
	leader, ok := FindLeader(pool, e.Leader)
	if !ok {
		return nil, fmt.Errorf("leader %q not in pool", e.Leader)
	}
	deck := &Deck{
		Leader:   leader,
		Strategy: e.Strategy,
		Color:    leader.Colors[0],
	}
	if deck.Strategy == "" {
		deck.Strategy = StrategyBalanced
	}
	for _, ce := range e.Cards {
		card, ok := findMainCard(pool, ce.Name)
		if !ok {
			return nil, fmt.Errorf("card %q not in pool", ce.Name)
		}
		for i := 0; i < ce.Count; i++ {
			deck.Main = append(deck.Main, card)
		}
	}
	return deck, nil
}

func findMainCard(pool []*Card, name string) (*Card, bool) {
	for _, c := range pool {
		if c.Type != CardTypeLeader && c.Name == name {
			return c, true
		}
	}
	return FindCard(pool, name)
}

// NewDeckEntry flattens a deck into name/count entries in first-seen order.
func NewDeckEntry(name string, d *Deck) DeckEntry {
	entry := DeckEntry{Name: name, Leader: d.Leader.Name, Strategy: d.Strategy}
	index := make(map[string]int)
	for _, c := range d.Main {
		if i, ok := index[c.Name]; ok {
			entry.Cards[i].Count++
			continue
		}
		index[c.Name] = len(entry.Cards)
		entry.Cards = append(entry.Cards, CardEntry{Name: c.Name, Count: 1})
	}
	return entry
}

// MarshalDeckFile encodes decks in the deck file format.
func MarshalDeckFile(entries ...DeckEntry) ([]byte, error) {
	return yaml.Marshal(DeckFile{Decks: entries})
}

// SaveDeckFile writes decks to path, replacing any existing file.
func SaveDeckFile(path string, entries ...DeckEntry) error {
	data, err := MarshalDeckFile(entries...)
	if err != nil {
		return fmt.Errorf("encode deck YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
