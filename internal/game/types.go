package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type CardType int

const (
	CardTypeLeader CardType = iota
	CardTypeCharacter
	CardTypeEvent
	CardTypeStage
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeLeader:
		return "Leader"
	case CardTypeCharacter:
		return "Character"
	case CardTypeEvent:
		return "Event"
	case CardTypeStage:
		return "Stage"
	default:
		return "Unknown"
	}
}

// ParseCardType is case-insensitive.
func ParseCardType(s string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leader":
		return CardTypeLeader, nil
	case "character":
		return CardTypeCharacter, nil
	case "event":
		return CardTypeEvent, nil
	case "stage":
		return CardTypeStage, nil
	default:
		return 0, fmt.Errorf("unknown card type %q", s)
	}
}

func (ct *CardType) UnmarshalText(text []byte) error {
	parsed, err := ParseCardType(string(text))
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

func (ct CardType) MarshalText() ([]byte, error) {
	return []byte(ct.String()), nil
}

type Strategy string

const (
	StrategyAggressive Strategy = "aggressive"
	StrategyBalanced   Strategy = "balanced"
	StrategyControl    Strategy = "control"
	// StrategyTournament only labels improvement variants; Build rejects it.
	StrategyTournament Strategy = "tournament"
)

// Strategies lists the strategies a deck can be built for.
var Strategies = []Strategy{StrategyAggressive, StrategyBalanced, StrategyControl}

// ParseStrategy maps free text onto a build strategy. Empty input means balanced.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyBalanced:
		return StrategyBalanced, nil
	case StrategyAggressive:
		return StrategyAggressive, nil
	case StrategyControl:
		return StrategyControl, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want aggressive, balanced or control)", s)
	}
}

// Title returns the strategy name capitalized for display.
func (s Strategy) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// AnyColor disables the leader color filter.
const AnyColor = "any"

// Colors are the color tags of the game.
var Colors = []string{"Red", "Green", "Blue", "Purple", "Black", "Yellow"}

// --- Card definition (static, from the pool) ---

type Card struct {
	Name    string   `yaml:"name" json:"name"`
	Type    CardType `yaml:"type" json:"type"`
	Colors  []string `yaml:"colors" json:"colors"`
	Cost    int      `yaml:"cost" json:"cost"`
	Power   int      `yaml:"power,omitempty" json:"power,omitempty"`
	Life    int      `yaml:"life,omitempty" json:"life,omitempty"`
	Effect  string   `yaml:"effect,omitempty" json:"effect,omitempty"`
	Rarity  string   `yaml:"rarity,omitempty" json:"rarity,omitempty"`
	Set     string   `yaml:"set,omitempty" json:"set,omitempty"`
	Number  string   `yaml:"number,omitempty" json:"number,omitempty"`
	Effects Effects  `yaml:"-" json:"-"`
}

func (c *Card) String() string {
	return c.Name
}

// Code returns the printed set code, e.g. "OP01-003".
func (c *Card) Code() string {
	if c.Set == "" {
		return ""
	}
	return c.Set + "-" + c.Number
}

// HasColor reports whether the card carries the color tag (case-insensitive).
func (c *Card) HasColor(color string) bool {
	for _, cc := range c.Colors {
		if strings.EqualFold(cc, color) {
			return true
		}
	}
	return false
}

// SharesColor reports whether the two cards have at least one color in common.
func (c *Card) SharesColor(other *Card) bool {
	for _, cc := range other.Colors {
		if c.HasColor(cc) {
			return true
		}
	}
	return false
}

// --- Deck ---

// Deck is a leader plus its main deck. Treated as immutable once built.
type Deck struct {
	ID       string   `json:"id"`
	Leader   *Card    `json:"leader"`
	Main     []*Card  `json:"main_deck"`
	Strategy Strategy `json:"strategy"`
	Color    string   `json:"color"`
}

// Counts returns copies per card name.
func (d *Deck) Counts() map[string]int {
	return CountByName(d.Main)
}

// Complete reports whether the main deck has exactly size cards.
func (d *Deck) Complete(size int) bool {
	return len(d.Main) == size
}

// CountByName tallies cards by name, the copy-limit identity key.
func CountByName(cards []*Card) map[string]int {
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[c.Name]++
	}
	return counts
}

// CompatibleCards returns the non-leader cards sharing a color with leader,
// in pool order. Duplicate entries are kept.
func CompatibleCards(pool []*Card, leader *Card) []*Card {
	var result []*Card
	for _, c := range pool {
		if c.Type != CardTypeLeader && leader.SharesColor(c) {
			result = append(result, c)
		}
	}
	return result
}

// Leaders returns the leader cards of the pool, in pool order.
func Leaders(pool []*Card) []*Card {
	var result []*Card
	for _, c := range pool {
		if c.Type == CardTypeLeader {
			result = append(result, c)
		}
	}
	return result
}
