// Package view holds the JSON shapes the MCP and HTTP front ends return.
package view

import (
	"encoding/json"
	"fmt"

	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
)

// CardView describes a card of the pool.
type CardView struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Colors []string `json:"colors"`
	Cost   int      `json:"cost"`
	Power  int      `json:"power,omitempty"`
	Life   int      `json:"life,omitempty"`
	Code   string   `json:"code,omitempty"`
	Tags   []string `json:"tags,omitempty"` // effect text the simulator understands
}

func NewCardView(c *game.Card) CardView {
	v := CardView{
		Name:   c.Name,
		Type:   c.Type.String(),
		Colors: c.Colors,
		Cost:   c.Cost,
		Power:  c.Power,
		Life:   c.Life,
		Code:   c.Code(),
	}
	for _, t := range c.Effects.List() {
		v.Tags = append(v.Tags, t.String())
	}
	return v
}

// CardCount is one line of a deck list.
type CardCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Type  string `json:"type"`
	Cost  int    `json:"cost"`
	Power int    `json:"power,omitempty"`
}

// DeckView is a deck as a list of name/count lines in first-seen order.
type DeckView struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name,omitempty"`
	Leader   CardView    `json:"leader"`
	Strategy string      `json:"strategy"`
	Color    string      `json:"color"`
	Size     int         `json:"size"`
	Complete bool        `json:"complete"`
	Cards    []CardCount `json:"cards"`
}

// NewDeckView flattens d. Complete reports whether it has deckSize cards.
func NewDeckView(d *game.Deck, deckSize int) DeckView {
	v := DeckView{
		ID:       d.ID,
		Leader:   NewCardView(d.Leader),
		Strategy: string(d.Strategy),
		Color:    d.Color,
		Size:     len(d.Main),
		Complete: d.Complete(deckSize),
		Cards:    []CardCount{},
	}
	index := make(map[string]int)
	for _, c := range d.Main {
		if i, ok := index[c.Name]; ok {
			v.Cards[i].Count++
			continue
		}
		index[c.Name] = len(v.Cards)
		v.Cards = append(v.Cards, CardCount{Name: c.Name, Count: 1, Type: c.Type.String(), Cost: c.Cost, Power: c.Power})
	}
	return v
}

// EventView is a match event for clients.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  string `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

func NewEventView(e log.GameEvent) EventView {
	player := "A"
	if e.Player == 1 {
		player = "B"
	}
	return EventView{
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

// NewEventViews converts a whole event log; never nil.
func NewEventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventView(e))
	}
	return out
}

// JSON encodes v, falling back to an error object.
func JSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
