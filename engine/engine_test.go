package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"risksim/diplomacy"
	"risksim/game"
	"risksim/policy"
)

// scripted is a test policy whose decisions are injected per test.
type scripted struct {
	claim     func(v *game.View) int
	reinforce func(v *game.View, total int) map[int]int
	attack    func(v *game.View) *game.AttackOrder
	fortify   func(v *game.View) *game.Fortify
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) ClaimInitial(v *game.View) int {
	if s.claim != nil {
		return s.claim(v)
	}
	return v.TerritoriesOwnedBy(v.CurrentPlayer())[0]
}

func (s *scripted) DecideReinforcement(v *game.View, total int) map[int]int {
	if s.reinforce != nil {
		return s.reinforce(v, total)
	}
	return map[int]int{v.TerritoriesOwnedBy(v.CurrentPlayer())[0]: total}
}

func (s *scripted) DecideAttack(v *game.View) *game.AttackOrder {
	if s.attack != nil {
		return s.attack(v)
	}
	return nil
}

func (s *scripted) DecideFortify(v *game.View) *game.Fortify {
	if s.fortify != nil {
		return s.fortify(v)
	}
	return nil
}

// pairMap is the smallest valid board: two bordering territories in one
// continent.
func pairMap(t *testing.T) *game.Map {
	t.Helper()
	m := game.NewMap()
	a := m.AddTerritory("A", "X")
	b := m.AddTerritory("B", "X")
	m.Continents = append(m.Continents, &game.Continent{Name: "X", Bonus: 1, TerritoryIDs: []int{a, b}})
	m.AddBorder(a, b)
	require.NoError(t, m.Validate())
	return m
}

func duelPlayers() []*game.Player {
	return []*game.Player{
		{ID: 0, Name: "Napoleon Bonaparte", Color: "red", Strategy: "random"},
		{ID: 1, Name: "Sun Tzu", Color: "green", Strategy: "random"},
	}
}

func newTestEngine(t *testing.T, m *game.Map, policies []policy.Policy, seed uint64, opts ...Option) *Engine {
	t.Helper()
	e, err := New(m, duelPlayers(), policies, rand.New(rand.NewSource(seed)), opts...)
	require.NoError(t, err)
	return e
}

func drainEvents(e *Engine) <-chan []Event {
	out := make(chan []Event, 1)
	go func() {
		var events []Event
		for ev := range e.Events() {
			events = append(events, ev)
		}
		out <- events
	}()
	return out
}

func TestNewValidatesInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := game.StandardMap()

	t.Run("policy count must match roster", func(t *testing.T) {
		_, err := New(m, duelPlayers(), []policy.Policy{&scripted{}}, rng)
		require.Error(t, err)
	})

	t.Run("roster size is bounded", func(t *testing.T) {
		_, err := New(m, []*game.Player{{ID: 0}}, []policy.Policy{&scripted{}}, rng)
		require.Error(t, err)
	})
}

func TestSetupDealsEntireBoard(t *testing.T) {
	m := game.StandardMap()
	policies := []policy.Policy{
		policy.NewRandom(rand.New(rand.NewSource(2))),
		policy.NewRandom(rand.New(rand.NewSource(3))),
	}
	e := newTestEngine(t, m, policies, 7)

	require.NoError(t, e.setup())

	gs := e.State()
	for terr, owner := range gs.Ownership {
		require.Contains(t, []int{0, 1}, owner, "territory %d must be dealt", terr)
		require.GreaterOrEqual(t, gs.TroopCounts[terr], 1)
	}
	require.Equal(t, 21, gs.TerritoryCount(0), "42 territories split evenly")
	require.Equal(t, 21, gs.TerritoryCount(1))
	require.Equal(t, 40, gs.TotalArmies(0), "every setup army reaches the board")
	require.Equal(t, 40, gs.TotalArmies(1))
	for p, left := range gs.InitialTroops {
		require.Zero(t, left, "player %d has armies left over", p)
	}

	// Every setup army landed on the board through an observable event.
	placements := 0
	var last Event
	for done := false; !done; {
		select {
		case ev := <-e.Events():
			if ev.Type == EventPlacement {
				placements++
			}
			last = ev
		default:
			done = true
		}
	}
	require.Equal(t, 80, placements, "one event per dealt territory and per placed army")
	require.Equal(t, EventTurnAdvance, last.Type, "setup closes with a board snapshot")
	require.NotNil(t, last.Board)
}

func TestRunPlaysToCompletion(t *testing.T) {
	m := game.StandardMap()
	policies := []policy.Policy{
		policy.NewRandom(rand.New(rand.NewSource(20))),
		policy.NewRandom(rand.New(rand.NewSource(21))),
	}
	e := newTestEngine(t, m, policies, 99, WithMaxRounds(500))
	collected := drainEvents(e)

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	events := <-collected

	require.GreaterOrEqual(t, result.Winner, -1)
	require.LessOrEqual(t, result.Winner, 1)
	require.Greater(t, result.Turns, 0)

	gs := e.State()
	if result.Winner >= 0 {
		require.Equal(t, 1, gs.AliveCount())
		for terr, owner := range gs.Ownership {
			require.Equal(t, result.Winner, owner, "winner must hold territory %d", terr)
		}
	} else {
		require.Greater(t, gs.AliveCount(), 1, "a draw leaves several players standing")
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	require.Equal(t, EventGameEnd, last.Type)
	require.Equal(t, result.Winner, last.Player)
	require.NotNil(t, last.Board)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	m := game.StandardMap()
	policies := []policy.Policy{
		policy.NewRandom(rand.New(rand.NewSource(4))),
		policy.NewRandom(rand.New(rand.NewSource(5))),
	}
	e := newTestEngine(t, m, policies, 12)
	collected := drainEvents(e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	<-collected

	_, err = e.Run(context.Background())
	require.ErrorIs(t, err, game.ErrGameOver, "an engine runs a single game")
}

func TestValidateAttack(t *testing.T) {
	e := newTestEngine(t, pairMap(t), []policy.Policy{&scripted{}, &scripted{}}, 1)
	gs := e.State()
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 1
	gs.TroopCounts[1] = 3

	t.Run("single army cannot attack", func(t *testing.T) {
		err := e.validateAttack(0, &game.AttackOrder{From: 0, To: 1, Troops: 1})
		require.ErrorIs(t, err, game.ErrInvalidAction)
	})

	t.Run("must own the source", func(t *testing.T) {
		err := e.validateAttack(0, &game.AttackOrder{From: 1, To: 0, Troops: 1})
		require.ErrorIs(t, err, game.ErrInvalidAction)
	})

	t.Run("cannot attack own territory", func(t *testing.T) {
		gs.TroopCounts[0] = 5
		require.NoError(t, gs.TransferOwnership(1, 0))
		err := e.validateAttack(0, &game.AttackOrder{From: 0, To: 1, Troops: 2})
		require.ErrorIs(t, err, game.ErrInvalidAction)
		require.NoError(t, gs.TransferOwnership(1, 1))
	})

	t.Run("unknown territory is a policy bug", func(t *testing.T) {
		err := e.validateAttack(0, &game.AttackOrder{From: 0, To: 99, Troops: 2})
		require.ErrorIs(t, err, game.ErrMalformedPolicy)
	})

	t.Run("cannot commit more than the source can spare", func(t *testing.T) {
		err := e.validateAttack(0, &game.AttackOrder{From: 0, To: 1, Troops: 5})
		require.ErrorIs(t, err, game.ErrInvalidAction, "a 5-army stack can commit at most 4")
	})

	t.Run("legal order passes", func(t *testing.T) {
		require.NoError(t, e.validateAttack(0, &game.AttackOrder{From: 0, To: 1, Troops: 3}))
	})
}

func TestResolveWaveCaptureAndElimination(t *testing.T) {
	e := newTestEngine(t, pairMap(t), []policy.Policy{&scripted{}, &scripted{}}, 9)
	gs := e.State()
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 30
	gs.TroopCounts[1] = 1
	gs.Hands[1] = []game.Card{{Type: game.Infantry, TerritoryID: 1}}

	order := &game.AttackOrder{From: 0, To: 1, Troops: 3}
	var winner int
	var over bool
	for i := 0; i < 40 && !over; i++ {
		winner, over = e.resolveWave(0, 1, order)
	}

	require.True(t, over, "30 armies against 1 must capture eventually")
	require.Equal(t, 0, winner)
	require.Equal(t, 0, gs.Owner(1))
	require.GreaterOrEqual(t, gs.ArmyCount(1), 1, "at least one army moves in")
	require.GreaterOrEqual(t, gs.ArmyCount(0), 1, "a garrison stays behind")
	require.True(t, gs.Conquered)
	require.False(t, gs.Players[1].Alive)
	require.Len(t, gs.Hands[0], 1, "the loser's cards pass to the conqueror")
	require.Empty(t, gs.Hands[1])
}

func TestMalformedReinforcementForfeits(t *testing.T) {
	bad := &scripted{
		reinforce: func(v *game.View, total int) map[int]int {
			return map[int]int{0: -total}
		},
	}
	e := newTestEngine(t, pairMap(t), []policy.Policy{bad, &scripted{}}, 2)
	gs := e.State()
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 4
	gs.TroopCounts[1] = 4

	require.False(t, e.reinforcePhase(0))
	require.False(t, gs.Players[0].Alive)
	require.Equal(t, 0, gs.Owner(0), "territories stay frozen on the board")
	require.Equal(t, 4, gs.ArmyCount(0))
}

func TestIllegalReinforcementForfeitsPhaseOnly(t *testing.T) {
	calls := 0
	stubborn := &scripted{
		reinforce: func(v *game.View, total int) map[int]int {
			calls++
			// Well-formed, but always targets the enemy territory.
			return map[int]int{1: total}
		},
	}
	e := newTestEngine(t, pairMap(t), []policy.Policy{stubborn, &scripted{}}, 2)
	gs := e.State()
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 4
	gs.TroopCounts[1] = 4

	require.True(t, e.reinforcePhase(0), "a forfeited phase does not end the turn")
	require.Equal(t, defaultRetries+1, calls, "the policy gets a bounded number of attempts")
	require.True(t, gs.Players[0].Alive, "illegal actions never eliminate a player")
	require.Equal(t, 4, gs.ArmyCount(0), "no armies placed")
	require.Equal(t, 4, gs.ArmyCount(1))
	require.Zero(t, gs.TroopsToPlace, "the unplaced allotment is dropped")

	ev := <-e.Events()
	require.Equal(t, EventForfeit, ev.Type)
	require.Equal(t, 0, ev.Player)
}

func TestIllegalAttackForfeitsPhaseOnly(t *testing.T) {
	calls := 0
	stubborn := &scripted{
		attack: func(v *game.View) *game.AttackOrder {
			calls++
			// Well-formed, but commits more armies than the source can spare.
			return &game.AttackOrder{From: 0, To: 1, Troops: 9}
		},
	}
	e := newTestEngine(t, pairMap(t), []policy.Policy{stubborn, &scripted{}}, 2)
	gs := e.State()
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 4
	gs.TroopCounts[1] = 4

	winner, over := e.attackPhase(0)
	require.False(t, over)
	require.Equal(t, -1, winner)
	require.Equal(t, defaultRetries+1, calls)
	require.True(t, gs.Players[0].Alive, "illegal actions never eliminate a player")
	require.Equal(t, 4, gs.ArmyCount(0), "no combat took place")
	require.Equal(t, 4, gs.ArmyCount(1))
}

func TestAllianceStopsAttackWaves(t *testing.T) {
	relentless := &scripted{
		attack: func(v *game.View) *game.AttackOrder {
			return &game.AttackOrder{From: 0, To: 1, Troops: 3}
		},
	}
	e := newTestEngine(t, pairMap(t), []policy.Policy{relentless, &scripted{}}, 2)
	gs := e.State()
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 10
	gs.TroopCounts[1] = 10

	alliance := diplomacy.NewAlliance(0, 1)
	e.treaties.Propose(alliance, 0)
	e.treaties.Accept(alliance)

	winner, over := e.attackPhase(0)
	require.False(t, over)
	require.Equal(t, -1, winner)
	require.Equal(t, 10, gs.ArmyCount(0), "honored treaties leave the board untouched")
	require.Equal(t, 10, gs.ArmyCount(1))
}

func TestAggressorBreaksTreaty(t *testing.T) {
	relentless := &scripted{
		attack: func(v *game.View) *game.AttackOrder {
			if v.Owner(1) != 0 && v.ArmyCount(0) > 1 {
				troops := v.ArmyCount(0) - 1
				if troops > 3 {
					troops = 3
				}
				return &game.AttackOrder{From: 0, To: 1, Troops: troops}
			}
			return nil
		},
	}
	e := newTestEngine(t, pairMap(t), []policy.Policy{relentless, &scripted{}}, 2)
	gs := e.State()
	gs.Players[0].Strategy = "aggressive"
	require.NoError(t, gs.TransferOwnership(0, 0))
	require.NoError(t, gs.TransferOwnership(1, 1))
	gs.TroopCounts[0] = 10
	gs.TroopCounts[1] = 2

	alliance := diplomacy.NewAlliance(0, 1)
	e.treaties.Propose(alliance, 0)
	e.treaties.Accept(alliance)

	e.attackPhase(0)
	require.Equal(t, diplomacy.Broken, alliance.Status)
	require.Less(t, gs.ArmyCount(1)+gs.ArmyCount(0), 12, "the fight happened")
}

func TestAdvanceTurnWrapsRound(t *testing.T) {
	e := newTestEngine(t, pairMap(t), []policy.Policy{&scripted{}, &scripted{}}, 2)
	gs := e.State()
	gs.Round = 1
	gs.CurrentPlayer = 1

	e.advanceTurn()
	require.Equal(t, 0, gs.CurrentPlayer)
	require.Equal(t, 2, gs.Round, "round advances when the order wraps")

	e.advanceTurn()
	require.Equal(t, 1, gs.CurrentPlayer)
	require.Equal(t, 2, gs.Round, "mid-round handoff keeps the round")
}
