package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "A" or "B" for display.
func playerName(p int) string {
	if p == 0 {
		return "A"
	}
	return "B"
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("T%-2d %-13s| %s", e.Turn, e.Phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseDraw,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, playerName(player)),
	}
}

func NewShuffleEvent(player int, cards int) GameEvent {
	return GameEvent{
		Phase:   PhaseSetup,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles a %d card deck", playerName(player), cards),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", playerName(player), cardName),
	}
}

func NewEnergyEvent(turn int, player int, energy int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseMain,
		Player:  player,
		Type:    EventEnergy,
		Details: fmt.Sprintf("%s has %d energy", playerName(player), energy),
	}
}

func NewPlayCharacterEvent(turn int, player int, cardName string, cost, power int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseMain,
		Player:  player,
		Type:    EventPlayCharacter,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s (cost %d, power %d)", playerName(player), cardName, cost, power),
	}
}

func NewOnPlayDamageEvent(turn int, player int, cardName string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseMain,
		Player:  player,
		Type:    EventOnPlayDamage,
		Card:    cardName,
		Details: fmt.Sprintf("%s deals %d damage to the opposing leader", cardName, damage),
	}
}

func NewOnPlayKOEvent(turn int, player int, cardName string, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseMain,
		Player:  player,
		Type:    EventOnPlayKO,
		Card:    cardName,
		Details: fmt.Sprintf("%s KOs %s", cardName, target),
	}
}

func NewAttackDeclareEvent(turn int, player int, attacker string, power int, defender string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseBattle,
		Player:  player,
		Type:    EventAttackDeclare,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks: %s (%d) → %s", playerName(player), attacker, power, defender),
	}
}

func NewBlockEvent(turn int, player int, blocker string, attacker string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseBattle,
		Player:  player,
		Type:    EventBlock,
		Card:    blocker,
		Details: fmt.Sprintf("%s blocks %s", blocker, attacker),
	}
}

func NewBattleEvent(turn int, player int, attacker string, attackPower int, defender string, defensePower int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseBattle,
		Player:  player,
		Type:    EventBattle,
		Card:    attacker,
		Details: fmt.Sprintf("%s (%d) vs %s (%d)", attacker, attackPower, defender, defensePower),
	}
}

// NewBattleDestroyEvent records the loss of owner's character in battle.
func NewBattleDestroyEvent(turn int, owner int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseBattle,
		Player:  owner,
		Type:    EventBattleDestroy,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is destroyed by battle", playerName(owner), cardName),
	}
}

func NewLifeChangeEvent(turn int, phase string, player int, oldLife, newLife int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventLifeChange,
		Details: fmt.Sprintf("%s life: %d → %d (%s)", playerName(player), oldLife, newLife, reason),
	}
}

func NewTurnLimitEvent(turn int, lifeA, lifeB int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   PhaseEnd,
		Type:    EventTurnLimit,
		Details: fmt.Sprintf("Turn limit reached (life A=%d, B=%d)", lifeA, lifeB),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}
