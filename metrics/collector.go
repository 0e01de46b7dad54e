// Package metrics collects per-game statistics from the engine's event
// stream and writes them out as CSV for offline analysis.
package metrics

import (
	"time"

	"github.com/google/uuid"

	"risksim/engine"
	"risksim/game"
)

// GameRecord is one finished game.
type GameRecord struct {
	ID         uuid.UUID
	Seed       uint64
	NumPlayers int
	Winner     string // player name, empty on a draw
	Rounds     int
	Turns      int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// PlayerRecord is one player's final standing in a game.
type PlayerRecord struct {
	Game         uuid.UUID
	Player       int
	Name         string
	Strategy     string
	Survived     bool
	Won          bool
	Territories  int
	Armies       int
	Captures     int
	Eliminations int
}

// TurnRecord samples the board at each turn boundary.
type TurnRecord struct {
	Game   uuid.UUID
	Turn   int
	Round  int
	Player int
	// Per-player territory counts joined at write time.
	Territories []int
}

// Collector consumes an engine's event stream and accumulates records.
// Run it on its own goroutine; Drain returns when the engine closes the
// channel.
type Collector struct {
	gameID  uuid.UUID
	seed    uint64
	started time.Time

	captures     map[int]int
	eliminations map[int]int
	lastCapturer int // credited with the next elimination
	turns        []TurnRecord
	turnCount    int
	final        *game.Snapshot
	winner       int
}

func NewCollector(seed uint64) *Collector {
	return &Collector{
		gameID:       uuid.New(),
		seed:         seed,
		started:      time.Now(),
		captures:     make(map[int]int),
		eliminations: make(map[int]int),
		lastCapturer: -1,
		winner:       -1,
	}
}

func (c *Collector) GameID() uuid.UUID {
	return c.gameID
}

// Drain consumes events until the channel closes.
func (c *Collector) Drain(events <-chan engine.Event) {
	for ev := range events {
		c.Observe(ev)
	}
}

// Observe records a single event. Use it instead of Drain when another
// consumer shares the stream.
func (c *Collector) Observe(ev engine.Event) {
	switch ev.Type {
	case engine.EventCapture:
		c.captures[ev.Player]++
		c.lastCapturer = ev.Player
	case engine.EventForfeit:
		c.lastCapturer = -1
	case engine.EventElimination:
		// Eliminations follow directly on the capture of the victim's
		// last territory. A forfeit in between means the elimination
		// was a disqualification, with no capturer to credit.
		if c.lastCapturer >= 0 && c.lastCapturer != ev.Player {
			c.eliminations[c.lastCapturer]++
		}
	case engine.EventTurnAdvance:
		c.turnCount++
		if ev.Board != nil {
			counts := make([]int, len(ev.Board.Players))
			for i, p := range ev.Board.Players {
				counts[i] = p.Territories
			}
			c.turns = append(c.turns, TurnRecord{
				Game:        c.gameID,
				Turn:        c.turnCount,
				Round:       ev.Round,
				Player:      ev.Player,
				Territories: counts,
			})
		}
	case engine.EventGameEnd:
		c.final = ev.Board
		c.winner = ev.Player
	}
}

// Complete finalizes the records for a finished game.
func (c *Collector) Complete(result engine.Result) (GameRecord, []PlayerRecord, []TurnRecord) {
	end := time.Now()

	gr := GameRecord{
		ID:        c.gameID,
		Seed:      c.seed,
		Rounds:    result.Rounds,
		Turns:     result.Turns,
		StartTime: c.started,
		EndTime:   end,
		Duration:  result.Duration,
	}

	var players []PlayerRecord
	if c.final != nil {
		gr.NumPlayers = len(c.final.Players)
		if c.winner >= 0 {
			gr.Winner = c.final.Players[c.winner].Name
		}
		for i, p := range c.final.Players {
			players = append(players, PlayerRecord{
				Game:         c.gameID,
				Player:       i,
				Name:         p.Name,
				Strategy:     p.Strategy,
				Survived:     p.Alive,
				Won:          i == c.winner,
				Territories:  p.Territories,
				Armies:       p.Armies,
				Captures:     c.captures[i],
				Eliminations: c.eliminations[i],
			})
		}
	}
	return gr, players, c.turns
}
