package sim

import (
	"math/rand"
	"sort"

	"github.com/peterkuimelis/deckforge/internal/config"
	"github.com/peterkuimelis/deckforge/internal/game"
	"github.com/peterkuimelis/deckforge/internal/log"
)

// Outcome is the result of one match. Winner is 0 for deck A, 1 for deck B;
// TurnLimit is set when neither leader was eliminated.
type Outcome struct {
	Winner    int    `json:"winner"`
	Turns     int    `json:"turns"`
	Life      [2]int `json:"life"`
	TurnLimit bool   `json:"turn_limit"`
}

// unit is a character on the board. Copies of a card share the *game.Card,
// so board identity is the unit.
type unit struct {
	card *game.Card
}

type side struct {
	deck   *game.Deck
	life   int
	energy int
	hand   []*game.Card
	stack  []*game.Card
	board  []*unit
}

func newSide(d *game.Deck, rules config.Rules, rng *rand.Rand) *side {
	stack := append([]*game.Card(nil), d.Main...)
	rng.Shuffle(len(stack), func(i, j int) { stack[i], stack[j] = stack[j], stack[i] })

	n := min(rules.OpeningHand, len(stack))
	s := &side{
		deck:  d,
		life:  d.Leader.Life,
		hand:  append([]*game.Card(nil), stack[:n]...),
		stack: stack[n:],
	}
	if s.life <= 0 {
		s.life = rules.DefaultLife
	}
	return s
}

// allyBonus is the power the leader grants attacking characters.
func (s *side) allyBonus() int {
	if s.deck.Leader.Effects.Has(game.TagLeaderBoost) {
		return s.deck.Leader.Effects.AllyBonus
	}
	return 0
}

func (s *side) remove(u *unit) {
	for i, b := range s.board {
		if b == u {
			s.board = append(s.board[:i], s.board[i+1:]...)
			return
		}
	}
}

// matchState is one trial's game. It is owned by a single goroutine.
type matchState struct {
	rules  config.Rules
	rng    *rand.Rand
	log    log.EventLogger
	sides  [2]*side
	active int
	turn   int
	winner int
}

func newMatch(a, b *game.Deck, rules config.Rules, rng *rand.Rand, logger log.EventLogger) *matchState {
	m := &matchState{rules: rules, rng: rng, log: logger, winner: -1}
	m.sides[0] = newSide(a, rules, rng)
	m.sides[1] = newSide(b, rules, rng)
	m.active = rng.Intn(2)
	for p, s := range m.sides {
		m.emit(log.NewShuffleEvent(p, len(s.hand)+len(s.stack)))
	}
	return m
}

// playMatch runs a single trial to completion.
func playMatch(a, b *game.Deck, rules config.Rules, rng *rand.Rand, logger log.EventLogger) Outcome {
	return newMatch(a, b, rules, rng, logger).run()
}

func (m *matchState) emit(e log.GameEvent) {
	if m.log != nil {
		m.log.Log(e)
	}
}

func (m *matchState) run() Outcome {
	for m.turn = 1; m.turn <= m.rules.MaxTurns; m.turn++ {
		m.playTurn()
		if m.winner >= 0 {
			return m.outcome(false)
		}
		m.active = 1 - m.active
	}

	m.turn = m.rules.MaxTurns
	lifeA, lifeB := m.sides[0].life, m.sides[1].life
	m.emit(log.NewTurnLimitEvent(m.turn, lifeA, lifeB))
	reason := "higher life at turn limit"
	switch {
	case lifeA > lifeB:
		m.winner = 0
	case lifeB > lifeA:
		m.winner = 1
	default:
		m.winner = m.rng.Intn(2)
		reason = "coin flip at turn limit"
	}
	m.emit(log.NewWinEvent(m.turn, log.PhaseEnd, m.winner, reason))
	return m.outcome(true)
}

func (m *matchState) outcome(limit bool) Outcome {
	return Outcome{
		Winner:    m.winner,
		Turns:     m.turn,
		Life:      [2]int{m.sides[0].life, m.sides[1].life},
		TurnLimit: limit,
	}
}

func (m *matchState) playTurn() {
	s, opp := m.sides[m.active], m.sides[1-m.active]
	m.emit(log.NewTurnEvent(m.turn, m.active))

	s.energy = min(m.turn, m.rules.EnergyCap)
	m.emit(log.NewEnergyEvent(m.turn, m.active, s.energy))

	if len(s.stack) > 0 {
		c := s.stack[0]
		s.stack = s.stack[1:]
		s.hand = append(s.hand, c)
		m.emit(log.NewDrawEvent(m.turn, log.PhaseDraw, m.active, c.Name))
	}

	m.mainPhase(s, opp)
	if m.winner >= 0 {
		return
	}
	m.attackPhase(s, opp)
}

// mainPhase plays affordable characters from hand, most expensive first.
func (m *matchState) mainPhase(s, opp *side) {
	var order []int
	for i, c := range s.hand {
		if c.Type == game.CardTypeCharacter {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.hand[order[i]].Cost > s.hand[order[j]].Cost
	})

	played := make(map[int]bool)
	for _, i := range order {
		c := s.hand[i]
		if c.Cost > s.energy {
			continue
		}
		s.energy -= c.Cost
		played[i] = true
		s.board = append(s.board, &unit{card: c})
		m.emit(log.NewPlayCharacterEvent(m.turn, m.active, c.Name, c.Cost, c.Power))

		m.onPlay(c, opp)
		if m.winner >= 0 {
			break
		}
	}

	if len(played) == 0 {
		return
	}
	kept := s.hand[:0]
	for i, c := range s.hand {
		if !played[i] {
			kept = append(kept, c)
		}
	}
	s.hand = kept
}

func (m *matchState) onPlay(c *game.Card, opp *side) {
	fx := c.Effects
	if fx.Has(game.TagOnPlayDamage) && fx.Damage > 0 {
		m.emit(log.NewOnPlayDamageEvent(m.turn, m.active, c.Name, fx.Damage))
		m.damage(1-m.active, fx.Damage, log.PhaseMain, c.Name)
		if m.winner >= 0 {
			return
		}
	}

	if fx.Has(game.TagOnPlayKO) {
		var targets []*unit
		for _, u := range opp.board {
			stat := u.card.Cost
			if fx.KOLimit == game.KOByPower {
				stat = u.card.Power
			}
			if stat <= fx.KOThreshold {
				targets = append(targets, u)
			}
		}
		if len(targets) > 0 {
			t := targets[m.rng.Intn(len(targets))]
			opp.remove(t)
			m.emit(log.NewOnPlayKOEvent(m.turn, m.active, c.Name, t.card.Name))
		}
	}
}

// attackPhase attacks once with every character on the board at the start
// of the phase, in random order.
func (m *matchState) attackPhase(s, opp *side) {
	attackers := append([]*unit(nil), s.board...)
	m.rng.Shuffle(len(attackers), func(i, j int) { attackers[i], attackers[j] = attackers[j], attackers[i] })
	bonus := s.allyBonus()

	for _, atk := range attackers {
		power := atk.card.Power + bonus
		if atk.card.Effects.Has(game.TagWhenAttacking) {
			power += atk.card.Effects.AttackBonus
		}

		var blockers []*unit
		for _, u := range opp.board {
			if u.card.Effects.Has(game.TagBlocker) {
				blockers = append(blockers, u)
			}
		}

		switch {
		case len(blockers) > 0:
			def := blockers[m.rng.Intn(len(blockers))]
			m.emit(log.NewAttackDeclareEvent(m.turn, m.active, atk.card.Name, power, def.card.Name))
			m.emit(log.NewBlockEvent(m.turn, 1-m.active, def.card.Name, atk.card.Name))
			m.battle(s, atk, power, opp, def)
		case len(opp.board) > 0 && m.rng.Float64() >= m.rules.LeaderAttackChance:
			def := opp.board[m.rng.Intn(len(opp.board))]
			m.emit(log.NewAttackDeclareEvent(m.turn, m.active, atk.card.Name, power, def.card.Name))
			m.battle(s, atk, power, opp, def)
		default:
			m.emit(log.NewAttackDeclareEvent(m.turn, m.active, atk.card.Name, power, opp.deck.Leader.Name))
			m.damage(1-m.active, m.rules.DirectDamage, log.PhaseBattle, atk.card.Name)
			if m.winner >= 0 {
				return
			}
		}
	}
}

// battle resolves atk against def. The lower power is destroyed; a tie
// destroys both.
func (m *matchState) battle(s *side, atk *unit, power int, opp *side, def *unit) {
	defPower := def.card.Power
	m.emit(log.NewBattleEvent(m.turn, m.active, atk.card.Name, power, def.card.Name, defPower))

	if power >= defPower {
		opp.remove(def)
		m.emit(log.NewBattleDestroyEvent(m.turn, 1-m.active, def.card.Name))
	}
	if power <= defPower {
		s.remove(atk)
		m.emit(log.NewBattleDestroyEvent(m.turn, m.active, atk.card.Name))
	}
}

// damage takes life from a leader and ends the match at zero.
func (m *matchState) damage(target, amount int, phase, source string) {
	s := m.sides[target]
	old := s.life
	s.life -= amount
	m.emit(log.NewLifeChangeEvent(m.turn, phase, target, old, s.life, source))
	if s.life <= 0 && m.winner < 0 {
		m.winner = 1 - target
		m.emit(log.NewWinEvent(m.turn, phase, m.winner, "leader eliminated"))
	}
}
