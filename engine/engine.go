// Package engine runs complete games: it deals the board, drives the
// turn phases, resolves combat through game.Resolver, brokers treaties
// and reports every step as an Event stream. The engine is the only
// writer of the GameState; policies see it only through game.View.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"risksim/diplomacy"
	"risksim/game"
	"risksim/policy"
)

const (
	defaultMaxRounds   = 10000
	defaultAttackCap   = 20 // attack waves per turn
	defaultRetries     = 3  // illegal actions tolerated before forfeit
	defaultEventBuffer = 256

	proposeChance     = 0.3
	pactChance        = 0.15
	acceptThreshold   = 0.6
	fortifyAttemptCap = 3
)

// Result summarizes a finished game. Winner is -1 on a draw (round
// limit reached with more than one player alive).
type Result struct {
	Winner   int
	Rounds   int
	Turns    int
	Duration time.Duration
}

// Engine drives one game to completion.
type Engine struct {
	state    *game.GameState
	policies []policy.Policy
	resolver *game.Resolver
	treaties *diplomacy.Manager
	rng      *rand.Rand
	log      zerolog.Logger

	events      chan Event
	maxRounds   int
	attackCap   int
	retries     int
	eventBuffer int

	turns    int
	finished bool
}

type Option func(*Engine)

// WithMaxRounds caps the game length; hitting the cap ends the game as
// a draw.
func WithMaxRounds(n int) Option {
	return func(e *Engine) { e.maxRounds = n }
}

// WithAttackCap limits attack waves per player turn.
func WithAttackCap(n int) Option {
	return func(e *Engine) { e.attackCap = n }
}

// WithRetries sets how many illegal actions a policy may return in one
// decision before the phase is forfeited.
func WithRetries(n int) Option {
	return func(e *Engine) { e.retries = n }
}

// WithEventBuffer sizes the event channel. A full buffer blocks the
// game until the observer catches up.
func WithEventBuffer(n int) Option {
	return func(e *Engine) { e.eventBuffer = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an engine over a fresh board. Policies are indexed by
// player ID and must match the roster length.
func New(m *game.Map, players []*game.Player, policies []policy.Policy, rng *rand.Rand, opts ...Option) (*Engine, error) {
	if len(players) != len(policies) {
		return nil, fmt.Errorf("%d players but %d policies", len(players), len(policies))
	}
	if _, err := game.StartingArmies(len(players)); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		state:       game.NewGameState(m, players),
		policies:    policies,
		resolver:    game.NewResolver(game.NewStandardRules(), rng),
		treaties:    diplomacy.NewManager(),
		rng:         rng,
		log:         zerolog.Nop(),
		maxRounds:   defaultMaxRounds,
		attackCap:   defaultAttackCap,
		retries:     defaultRetries,
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.events = make(chan Event, e.eventBuffer)
	return e, nil
}

// Events returns the channel the engine reports progress on. Run closes
// it when the game ends.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// State exposes the live board. Callers must not mutate it; it exists
// for the renderer and tests.
func (e *Engine) State() *game.GameState {
	return e.state
}

// Run plays the game to completion and returns the result. The context
// is checked between turns; cancellation abandons the game with the
// context's error.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.finished {
		return Result{Winner: -1}, game.ErrGameOver
	}
	e.finished = true

	start := time.Now()
	defer close(e.events)

	if err := e.setup(); err != nil {
		return Result{Winner: -1}, err
	}

	e.state.Phase = game.ReinforcementPhase
	for e.state.Round = 1; e.state.Round <= e.maxRounds; {
		winner, over, err := e.playTurn(ctx)
		if err != nil {
			return Result{Winner: -1, Rounds: e.state.Round, Turns: e.turns, Duration: time.Since(start)}, err
		}
		e.turns++
		if over {
			res := Result{Winner: winner, Rounds: e.state.Round, Turns: e.turns, Duration: time.Since(start)}
			e.finish(res)
			return res, nil
		}

		e.advanceTurn()
	}

	e.log.Info().Int("rounds", e.maxRounds).Msg("round limit reached, game is a draw")
	res := Result{Winner: -1, Rounds: e.maxRounds, Turns: e.turns, Duration: time.Since(start)}
	e.finish(res)
	return res, nil
}

func (e *Engine) finish(res Result) {
	e.emit(Event{
		Type:   EventGameEnd,
		Player: res.Winner,
		Board:  e.state.Snapshot(),
		Detail: fmt.Sprintf("winner=%d turns=%d", res.Winner, res.Turns),
	})
	e.log.Info().
		Int("winner", res.Winner).
		Int("rounds", res.Rounds).
		Int("turns", res.Turns).
		Dur("duration", res.Duration).
		Msg("game over")
}

// setup deals the shuffled territories round-robin with one army each,
// then lets players alternate placing their remaining setup armies one
// at a time.
func (e *Engine) setup() error {
	e.state.Phase = game.InitialPlacementPhase
	e.state.Deck = game.NewDeck(e.state.Map, e.rng)

	numPlayers := len(e.state.Players)
	starting, err := game.StartingArmies(numPlayers)
	if err != nil {
		return err
	}

	ids := make([]int, len(e.state.Map.Territories))
	for i := range ids {
		ids[i] = i
	}
	e.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	e.state.InitialTroops = make([]int, numPlayers)
	for p := range e.state.InitialTroops {
		e.state.InitialTroops[p] = starting
	}
	for i, t := range ids {
		p := i % numPlayers
		if err := e.state.TransferOwnership(t, p); err != nil {
			return err
		}
		e.state.TroopCounts[t] = 1
		e.state.InitialTroops[p]--
		e.emit(Event{Type: EventPlacement, Player: p, Territory: t, Before: 0, After: 1})
	}

	// Alternate single placements until everyone is out of setup armies.
	remaining := numPlayers
	for p := 0; remaining > 0; p = (p + 1) % numPlayers {
		if e.state.InitialTroops[p] <= 0 {
			continue
		}
		e.state.CurrentPlayer = p
		view := game.NewView(e.state)
		t := e.policies[p].ClaimInitial(view)
		if err := e.state.PlaceArmies(p, t, 1); err != nil {
			// Setup placement has no retry budget: fall back to the
			// player's first owned territory.
			owned := e.state.TerritoriesOwnedBy(p)
			t = owned[0]
			if err := e.state.PlaceArmies(p, t, 1); err != nil {
				return err
			}
		}
		e.state.InitialTroops[p]--
		e.emit(Event{Type: EventPlacement, Player: p, Territory: t,
			Before: e.state.ArmyCount(t) - 1, After: e.state.ArmyCount(t)})
		if e.state.InitialTroops[p] == 0 {
			remaining--
		}
	}

	e.state.CurrentPlayer = 0
	e.emit(Event{Type: EventTurnAdvance, Player: 0, Board: e.state.Snapshot()})
	e.log.Info().
		Int("players", numPlayers).
		Int("starting_armies", starting).
		Msg("board dealt")
	return nil
}

// playTurn runs one full player turn and reports whether the game
// ended. The context is checked between phases, never mid-combat.
func (e *Engine) playTurn(ctx context.Context) (winner int, over bool, err error) {
	if err := ctx.Err(); err != nil {
		return -1, false, err
	}
	p := e.state.CurrentPlayer
	if !e.state.Players[p].Alive {
		return -1, false, nil
	}

	e.diplomacyPhase(p)
	if err := ctx.Err(); err != nil {
		return -1, false, err
	}

	if !e.reinforcePhase(p) {
		winner, over = e.state.IsGameOver()
		return winner, over, nil
	}
	if err := ctx.Err(); err != nil {
		return -1, false, err
	}

	if winner, over = e.attackPhase(p); over {
		return winner, true, nil
	}
	if e.state.AwardCard(p) {
		e.log.Debug().Int("player", p).Msg("card awarded for conquest")
	}
	if err := ctx.Err(); err != nil {
		return -1, false, err
	}

	e.fortifyPhase(p)
	winner, over = e.state.IsGameOver()
	return winner, over, nil
}

// advanceTurn hands the turn to the next alive player and bumps the
// round counter when the order wraps.
func (e *Engine) advanceTurn() {
	current := e.state.CurrentPlayer
	next := e.state.NextAlivePlayer(current)
	if next <= current {
		e.state.Round++
		for _, t := range e.treaties.Tick() {
			e.emit(Event{Type: EventTreaty, Player: -1, Detail: "expired: " + t.String()})
		}
	}
	e.state.CurrentPlayer = next
	e.state.Phase = game.ReinforcementPhase
	e.emit(Event{
		Type:   EventTurnAdvance,
		Player: next,
		Board:  e.state.Snapshot(),
	})
}

// diplomacyPhase answers the player's pending proposals and
// occasionally floats a new one. Treaty aging happens once per round in
// advanceTurn.
func (e *Engine) diplomacyPhase(p int) {
	for _, t := range e.treaties.ProposalsFor(p) {
		other := t.Player1
		if other == p {
			other = t.Player2
		}
		if e.acceptDisposition(p, other) >= acceptThreshold {
			e.treaties.Accept(t)
			e.emit(Event{Type: EventTreaty, Player: p, Detail: "accepted: " + t.String()})
			e.log.Debug().Int("player", p).Stringer("treaty", t).Msg("treaty accepted")
		} else {
			e.treaties.Reject(t)
			e.emit(Event{Type: EventTreaty, Player: p, Detail: "rejected: " + t.String()})
		}
	}

	if e.rng.Float64() < proposeChance {
		e.proposeAlliance(p)
	}
	if e.rng.Float64() < pactChance {
		e.proposePact(p)
	}
}

// acceptDisposition scores how inclined `player` is to accept a treaty
// with `other`. Facing a stronger player makes a deal more attractive,
// mirroring the attack win-probability curve.
func (e *Engine) acceptDisposition(player, other int) float64 {
	own := e.state.TotalArmies(player)
	if own == 0 {
		return 1
	}
	ratio := float64(e.state.TotalArmies(other)) / float64(own)
	score := 0.5 + (ratio-1)*0.2
	if score < 0.1 {
		return 0.1
	}
	if score > 0.9 {
		return 0.9
	}
	return score
}

// proposeAlliance offers an alliance to the strongest other alive
// player not already allied with the proposer.
func (e *Engine) proposeAlliance(p int) {
	target, best := -1, 0
	for _, other := range e.state.Players {
		if other.ID == p || !other.Alive || e.treaties.HasAlliance(p, other.ID) {
			continue
		}
		if armies := e.state.TotalArmies(other.ID); armies > best {
			target, best = other.ID, armies
		}
	}
	if target < 0 {
		return
	}
	t := diplomacy.NewAlliance(p, target)
	e.treaties.Propose(t, p)
	e.emit(Event{Type: EventTreaty, Player: p, Detail: "proposed: " + t.String()})
}

// proposePact offers to neutralize the proposer's most threatened
// border against its strongest adjacent enemy territory.
func (e *Engine) proposePact(p int) {
	weakest, threat, threatOwner := -1, -1, -1
	for _, t := range e.state.BorderTerritories(p) {
		for _, adj := range e.state.Map.Adjacent(t) {
			owner := e.state.Owner(adj)
			if owner == p || owner < 0 || !e.state.Players[owner].Alive {
				continue
			}
			if e.state.ArmyCount(adj)-e.state.ArmyCount(t) > threat {
				weakest, threat, threatOwner = t, e.state.ArmyCount(adj)-e.state.ArmyCount(t), owner
			}
		}
	}
	if weakest < 0 || threat <= 0 {
		return
	}
	for _, adj := range e.state.Map.Adjacent(weakest) {
		if e.state.Owner(adj) == threatOwner {
			pact := diplomacy.NewTerritoryPact(p, weakest, threatOwner, adj)
			e.treaties.Propose(pact, p)
			e.emit(Event{Type: EventTreaty, Player: p, Detail: "proposed: " + pact.String()})
			return
		}
	}
}

// reinforcePhase trades cards, computes the allotment and asks the
// policy to distribute it. Returns false if the player was eliminated
// for a malformed decision.
func (e *Engine) reinforcePhase(p int) bool {
	e.state.Phase = game.ReinforcementPhase

	total := e.state.ReinforcementsFor(p)
	if bonus := e.state.TradeSets(p); bonus > 0 {
		total += bonus
		e.emit(Event{Type: EventCardTrade, Player: p, After: bonus})
		e.log.Debug().Int("player", p).Int("bonus", bonus).Msg("cards traded")
	}
	e.state.TroopsToPlace = total

	for attempt := 0; attempt <= e.retries; attempt++ {
		view := game.NewView(e.state)
		placement := e.policies[p].DecideReinforcement(view, total)

		if err := e.validatePlacement(p, placement, total); err != nil {
			if errors.Is(err, game.ErrMalformedPolicy) {
				e.log.Warn().Err(err).Int("player", p).Msg("malformed reinforcement decision")
				e.disqualify(p, "malformed reinforcement")
				return false
			}
			e.log.Warn().Err(err).Int("player", p).Int("attempt", attempt).Msg("illegal reinforcement")
			continue
		}

		for t, n := range placement {
			before := e.state.ArmyCount(t)
			_ = e.state.PlaceArmies(p, t, n)
			e.emit(Event{Type: EventPlacement, Player: p, Territory: t, Before: before, After: before + n})
		}
		e.state.TroopsToPlace = 0
		return true
	}

	e.forfeitPhase(p, "reinforcement forfeited")
	e.state.TroopsToPlace = 0
	return true
}

// validatePlacement checks an entire reinforcement decision before any
// of it is applied: every target exists and is owned, every amount is
// positive, and the amounts sum to the allotment.
func (e *Engine) validatePlacement(p int, placement map[int]int, total int) error {
	if placement == nil {
		return fmt.Errorf("%w: nil reinforcement decision", game.ErrMalformedPolicy)
	}
	sum := 0
	for t, n := range placement {
		if !e.state.Map.Contains(t) {
			return fmt.Errorf("%w: no such territory %d", game.ErrMalformedPolicy, t)
		}
		if n <= 0 {
			return fmt.Errorf("%w: placement of %d armies", game.ErrMalformedPolicy, n)
		}
		if e.state.Owner(t) != p {
			return fmt.Errorf("%w: player %d does not own territory %d", game.ErrInvalidAction, p, t)
		}
		sum += n
	}
	if sum != total {
		return fmt.Errorf("%w: placed %d armies, allotment is %d", game.ErrMalformedPolicy, sum, total)
	}
	return nil
}

// attackPhase runs attack waves until the policy stops, the wave cap is
// reached, or an illegal streak forfeits the rest of the phase.
func (e *Engine) attackPhase(attacker int) (winner int, over bool) {
	e.state.Phase = game.AttackPhase
	e.state.Conquered = false

	illegal := 0
	for wave := 0; wave < e.attackCap; wave++ {
		view := game.NewView(e.state)
		order := e.policies[attacker].DecideAttack(view)
		if order == nil {
			return -1, false
		}

		if err := e.validateAttack(attacker, order); err != nil {
			if errors.Is(err, game.ErrMalformedPolicy) {
				e.disqualify(attacker, "malformed attack order")
				return e.state.IsGameOver()
			}
			illegal++
			e.log.Warn().Err(err).Int("player", attacker).Int("strikes", illegal).Msg("illegal attack order")
			if illegal > e.retries {
				e.forfeitPhase(attacker, "attack phase forfeited")
				return -1, false
			}
			continue
		}

		defender := e.state.Owner(order.To)
		if t, blocked := e.treaties.BlocksAttack(attacker, order.From, defender, order.To); blocked {
			if e.state.Players[attacker].Strategy == "aggressive" {
				e.treaties.Break(t)
				e.emit(Event{Type: EventTreaty, Player: attacker, Detail: "broken: " + t.String()})
				e.log.Debug().Int("player", attacker).Stringer("treaty", t).Msg("treaty broken")
			} else {
				continue
			}
		}

		if winner, over = e.resolveWave(attacker, defender, order); over {
			return winner, true
		}
	}
	return -1, false
}

func (e *Engine) validateAttack(p int, o *game.AttackOrder) error {
	if !e.state.Map.Contains(o.From) || !e.state.Map.Contains(o.To) {
		return fmt.Errorf("%w: no such territory", game.ErrMalformedPolicy)
	}
	if o.Troops <= 0 {
		return fmt.Errorf("%w: committed %d armies", game.ErrMalformedPolicy, o.Troops)
	}
	if e.state.Owner(o.From) != p {
		return fmt.Errorf("%w: player %d does not own the source", game.ErrInvalidAction, p)
	}
	if e.state.Owner(o.To) == p {
		return fmt.Errorf("%w: cannot attack own territory", game.ErrInvalidAction)
	}
	if !e.state.Map.AreAdjacent(o.From, o.To) {
		return fmt.Errorf("%w: territories are not adjacent", game.ErrInvalidAction)
	}
	if e.state.ArmyCount(o.From) < 2 {
		return fmt.Errorf("%w: source needs at least 2 armies to attack", game.ErrInvalidAction)
	}
	if o.Troops > e.state.ArmyCount(o.From)-1 {
		return fmt.Errorf("%w: committed %d armies but only %d can leave the source",
			game.ErrInvalidAction, o.Troops, e.state.ArmyCount(o.From)-1)
	}
	return nil
}

// resolveWave rolls one round of dice for an attack order and applies
// losses, capture and elimination.
func (e *Engine) resolveWave(attacker, defender int, o *game.AttackOrder) (winner int, over bool) {
	attDice := e.resolver.AttackerDice(o.Troops, e.state.ArmyCount(o.From))
	defDice := e.resolver.DefenderDice(e.state.ArmyCount(o.To))
	round := e.resolver.ResolveRound(attDice, defDice)

	srcBefore, dstBefore := e.state.ArmyCount(o.From), e.state.ArmyCount(o.To)
	e.state.TroopCounts[o.From] -= round.AttackerLosses
	e.state.TroopCounts[o.To] -= round.DefenderLosses

	e.emit(Event{
		Type:   EventCombatRound,
		Player: attacker,
		From:   o.From,
		To:     o.To,
		Before: dstBefore,
		After:  e.state.ArmyCount(o.To),
		Detail: fmt.Sprintf("rolls %v vs %v", round.AttackerRolls, round.DefenderRolls),
	})
	e.log.Debug().
		Int("attacker", attacker).
		Int("defender", defender).
		Ints("att_rolls", round.AttackerRolls).
		Ints("def_rolls", round.DefenderRolls).
		Msg("combat round")

	if e.state.ArmyCount(o.To) > 0 {
		return -1, false
	}

	// Capture: the attacker moves in at least as many armies as dice
	// rolled, bounded by what can leave the source.
	_ = e.state.TransferOwnership(o.To, attacker)
	moveIn := minInt(attDice, e.state.ArmyCount(o.From)-1)
	if moveIn < 1 {
		moveIn = 1
	}
	e.state.TroopCounts[o.From] -= moveIn
	e.state.TroopCounts[o.To] = moveIn
	e.state.Conquered = true

	e.emit(Event{
		Type:   EventCapture,
		Player: attacker,
		From:   o.From,
		To:     o.To,
		Before: srcBefore,
		After:  moveIn,
		Detail: e.state.Map.Territories[o.To].Name,
	})
	e.log.Info().
		Int("attacker", attacker).
		Int("defender", defender).
		Str("territory", e.state.Map.Territories[o.To].Name).
		Msg("territory captured")

	for _, t := range e.treaties.BrokenByConquest(attacker, defender, o.To) {
		e.emit(Event{Type: EventTreaty, Player: attacker, Detail: "broken: " + t.String()})
	}

	if defender >= 0 && e.state.TerritoryCount(defender) == 0 {
		e.eliminate(defender, attacker)
	}
	return e.state.IsGameOver()
}

// eliminate removes a defeated player: cards pass to the conqueror and
// every treaty involving the loser dissolves.
func (e *Engine) eliminate(loser, conqueror int) {
	e.state.Eliminate(loser)
	if cards := e.state.Hands[loser]; len(cards) > 0 {
		e.state.Hands[conqueror] = append(e.state.Hands[conqueror], cards...)
		e.state.Hands[loser] = nil
	}
	for _, t := range e.treaties.DissolveFor(loser) {
		e.emit(Event{Type: EventTreaty, Player: loser, Detail: "dissolved: " + t.String()})
	}
	e.emit(Event{Type: EventElimination, Player: loser, Detail: e.state.Players[loser].Name})
	e.log.Info().
		Int("player", loser).
		Str("name", e.state.Players[loser].Name).
		Int("by", conqueror).
		Msg("player eliminated")
}

// forfeitPhase abandons the current phase after the policy exhausted
// its retry budget with legal-but-invalid actions. The player stays in
// the game; the turn simply moves on.
func (e *Engine) forfeitPhase(p int, reason string) {
	e.emit(Event{Type: EventForfeit, Player: p, Detail: reason})
	e.log.Warn().Int("player", p).Str("reason", reason).Msg("phase forfeited")
}

// disqualify eliminates a player whose policy produced a structurally
// malformed response. Their territories stay on the board with frozen
// garrisons.
func (e *Engine) disqualify(p int, reason string) {
	e.state.Eliminate(p)
	e.treaties.DissolveFor(p)
	e.emit(Event{Type: EventForfeit, Player: p, Detail: reason})
	e.emit(Event{Type: EventElimination, Player: p, Detail: e.state.Players[p].Name})
	e.log.Warn().Int("player", p).Str("reason", reason).Msg("player disqualified")
}

// fortifyPhase applies the policy's single end-of-turn move, if any.
// A bad fortify is skipped rather than punished: the turn just ends.
func (e *Engine) fortifyPhase(p int) {
	e.state.Phase = game.FortifyPhase

	for attempt := 0; attempt < fortifyAttemptCap; attempt++ {
		view := game.NewView(e.state)
		f := e.policies[p].DecideFortify(view)
		if f == nil {
			return
		}
		if !e.state.Map.Contains(f.From) || !e.state.Map.Contains(f.To) {
			e.log.Warn().Int("player", p).Msg("fortify names unknown territory")
			continue
		}
		if e.state.Owner(f.From) != p {
			e.log.Warn().Int("player", p).Int("from", f.From).Msg("fortify from unowned territory")
			continue
		}
		before := e.state.ArmyCount(f.To)
		if err := e.state.MoveArmies(f.From, f.To, f.Troops); err != nil {
			e.log.Warn().Err(err).Int("player", p).Msg("illegal fortify")
			continue
		}
		e.emit(Event{
			Type:   EventFortify,
			Player: p,
			From:   f.From,
			To:     f.To,
			Before: before,
			After:  e.state.ArmyCount(f.To),
		})
		return
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
