package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventShuffle
	EventDraw
	EventEnergy
	EventPlayCharacter
	EventOnPlayDamage
	EventOnPlayKO
	EventAttackDeclare
	EventBlock
	EventBattle
	EventBattleDestroy
	EventLifeChange
	EventTurnLimit
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventShuffle:
		return "Shuffle"
	case EventDraw:
		return "Draw"
	case EventEnergy:
		return "Energy"
	case EventPlayCharacter:
		return "PlayCharacter"
	case EventOnPlayDamage:
		return "OnPlayDamage"
	case EventOnPlayKO:
		return "OnPlayKO"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventBlock:
		return "Block"
	case EventBattle:
		return "Battle"
	case EventBattleDestroy:
		return "BattleDestroy"
	case EventLifeChange:
		return "LifeChange"
	case EventTurnLimit:
		return "TurnLimit"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// MarshalText lets events serialize with readable type names.
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Phase names used in events.
const (
	PhaseSetup  = "Setup"
	PhaseDraw   = "Draw Phase"
	PhaseMain   = "Main Phase"
	PhaseBattle = "Battle Phase"
	PhaseEnd    = "End Phase"
)

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       `json:"seq"`            // monotonic sequence number
	Turn    int       `json:"turn"`           // which turn (1-based, 0 during setup)
	Phase   string    `json:"phase"`          // current phase name (e.g. "Main Phase")
	Player  int       `json:"player"`         // acting player (0 or 1)
	Type    EventType `json:"type"`           // event type
	Card    string    `json:"card,omitempty"` // card name (if applicable)
	Details string    `json:"details"`        // human-readable detail string
}
