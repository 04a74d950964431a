package game

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PoolFile represents the top-level YAML structure of a card pool.
type PoolFile struct {
	Cards []*Card `yaml:"cards"`
}

// LoadPool reads a YAML card pool and tags every card's effect text.
func LoadPool(path string) ([]*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePool(data)
}

// ParsePool parses YAML card pool data.
func ParsePool(data []byte) ([]*Card, error) {
	var pf PoolFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse pool YAML: %w", err)
	}
	for i, c := range pf.Cards {
		if err := validateCard(c); err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
	}
	Retag(pf.Cards)
	return pf.Cards, nil
}

func validateCard(c *Card) error {
	if c == nil {
		return fmt.Errorf("empty entry")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if len(c.Colors) == 0 {
		return fmt.Errorf("%s: no colors", c.Name)
	}
	if c.Cost < 0 {
		return fmt.Errorf("%s: negative cost %d", c.Name, c.Cost)
	}
	return nil
}

// FindCard returns the first card in pool with the given name (case-insensitive).
func FindCard(pool []*Card, name string) (*Card, bool) {
	for _, c := range pool {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// FindLeader is FindCard restricted to leaders. A character may share a
// leader's name, so lookups of leaders always go through here.
func FindLeader(pool []*Card, name string) (*Card, bool) {
	for _, c := range pool {
		if c.Type == CardTypeLeader && strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}
