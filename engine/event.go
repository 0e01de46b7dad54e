package engine

import "risksim/game"

// EventType names the observable steps of a game. Observers receive
// one Event per step in the order the engine applied them.
type EventType string

const (
	EventPlacement   EventType = "placement"
	EventCombatRound EventType = "combat_round"
	EventCapture     EventType = "capture"
	EventFortify     EventType = "fortify"
	EventElimination EventType = "elimination"
	EventTurnAdvance EventType = "turn_advance"
	EventCardTrade   EventType = "card_trade"
	EventTreaty      EventType = "treaty"
	EventForfeit     EventType = "forfeit"
	EventGameEnd     EventType = "game_end"
)

// Event is one step of game progress. Field meaning depends on Type:
// placement uses Territory/After; combat_round and capture use
// From/To with Before/After army counts; elimination and forfeit use
// Player; turn_advance and game_end carry a full board snapshot.
type Event struct {
	Type      EventType
	Round     int
	Player    int
	Territory int
	From      int
	To        int
	Before    int
	After     int
	Detail    string
	Board     *game.Snapshot
}

// emit delivers an event to the observer channel. The send blocks when
// the buffer is full: slow observers throttle the game rather than
// losing history.
func (e *Engine) emit(ev Event) {
	if e.events == nil {
		return
	}
	ev.Round = e.state.Round
	e.events <- ev
}
