package game

import (
	"regexp"
	"strconv"
	"strings"
)

// EffectTag is one recognized piece of effect text. Everything else on a
// card is flavor as far as the simulator is concerned.
type EffectTag uint8

const (
	TagBlocker EffectTag = 1 << iota
	TagOnPlayDamage
	TagOnPlayKO
	TagWhenAttacking
	TagLeaderBoost
)

func (t EffectTag) String() string {
	switch t {
	case TagBlocker:
		return "Blocker"
	case TagOnPlayDamage:
		return "On Play: Damage"
	case TagOnPlayKO:
		return "On Play: KO"
	case TagWhenAttacking:
		return "When Attacking"
	case TagLeaderBoost:
		return "Leader Boost"
	default:
		return "Unknown"
	}
}

// KOLimit says which stat an on-play KO checks against its threshold.
type KOLimit int

const (
	KOByCost KOLimit = iota
	KOByPower
)

// Effects is the tagged form of a card's effect text, computed once at load time.
type Effects struct {
	Tags EffectTag

	Damage      int     // life dealt to the opposing leader on play
	KOLimit     KOLimit // stat checked by the on-play KO
	KOThreshold int     // "cost of N or less" / "N power or less"
	AttackBonus int     // power gained when attacking
	AllyBonus   int     // leader text: "Your Characters gain +N power"
}

// Has reports whether the tag is set.
func (e Effects) Has(tag EffectTag) bool {
	return e.Tags&tag != 0
}

// List returns the set tags in declaration order.
func (e Effects) List() []EffectTag {
	var tags []EffectTag
	for t := TagBlocker; t <= TagLeaderBoost; t <<= 1 {
		if e.Has(t) {
			tags = append(tags, t)
		}
	}
	return tags
}

var (
	reBlocker     = regexp.MustCompile(`\bblocker\b`)
	reDamage      = regexp.MustCompile(`on play: deal (\d+) damage to your opponent's leader`)
	reKOCost      = regexp.MustCompile(`on play: ko 1 of your opponent's characters with a cost of (\d+) or less`)
	reKOPower     = regexp.MustCompile(`on play: ko 1 of your opponent's characters with (\d+) power or less`)
	reWhenAttack  = regexp.MustCompile(`when attacking, this character gains \+(\d+) power`)
	reLeaderBoost = regexp.MustCompile(`your characters gain \+(\d+) power`)
)

// TagEffects interprets the small vocabulary of effect text the simulator
// understands. Matching is case-insensitive; unmatched text yields no tags.
func TagEffects(text string) Effects {
	var e Effects
	lower := strings.ToLower(text)
	if lower == "" {
		return e
	}

	// "cannot activate [Blocker]" restricts the opponent's blockers.
	if reBlocker.MatchString(lower) && !strings.Contains(lower, "activate [blocker]") {
		e.Tags |= TagBlocker
	}
	if m := reDamage.FindStringSubmatch(lower); m != nil {
		e.Tags |= TagOnPlayDamage
		e.Damage = atoi(m[1])
	}
	// Rested-only KOs need a rest state the simulator does not model.
	if m := reKOCost.FindStringSubmatch(lower); m != nil {
		e.Tags |= TagOnPlayKO
		e.KOLimit = KOByCost
		e.KOThreshold = atoi(m[1])
	} else if m := reKOPower.FindStringSubmatch(lower); m != nil {
		e.Tags |= TagOnPlayKO
		e.KOLimit = KOByPower
		e.KOThreshold = atoi(m[1])
	}
	if m := reWhenAttack.FindStringSubmatch(lower); m != nil {
		e.Tags |= TagWhenAttacking
		e.AttackBonus = atoi(m[1])
	}
	if m := reLeaderBoost.FindStringSubmatch(lower); m != nil {
		e.Tags |= TagLeaderBoost
		e.AllyBonus = atoi(m[1])
	}
	return e
}

// Retag recomputes Effects for every card from its effect text.
func Retag(cards []*Card) {
	for _, c := range cards {
		c.Effects = TagEffects(c.Effect)
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
