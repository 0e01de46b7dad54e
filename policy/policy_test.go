package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"risksim/game"
)

// contestedBoard deals the standard map between two players in stripes
// and stacks a few armies so every policy has real choices.
func contestedBoard(t *testing.T) (*game.GameState, *game.View) {
	t.Helper()
	m := game.StandardMap()
	players := []*game.Player{
		{ID: 0, Name: "attacker", Strategy: "aggressive"},
		{ID: 1, Name: "defender", Strategy: "defensive"},
	}
	gs := game.NewGameState(m, players)
	for terr := range m.Territories {
		require.NoError(t, gs.TransferOwnership(terr, terr%2))
		gs.TroopCounts[terr] = 1 + terr%4
	}
	gs.Phase = game.AttackPhase
	gs.CurrentPlayer = 0
	return gs, game.NewView(gs)
}

func TestNew(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, strategy := range []string{"random", "aggressive", "defensive", "balanced", "opportunistic"} {
		pol, err := New(strategy, rng)
		require.NoError(t, err)
		require.Equal(t, strategy, pol.Name())
	}

	_, err := New("psychic", rng)
	require.Error(t, err)
}

func TestAttackCandidatesAreLegal(t *testing.T) {
	_, v := contestedBoard(t)

	candidates := attackCandidates(v, 0)
	require.NotEmpty(t, candidates)
	for _, o := range candidates {
		require.Equal(t, 0, v.Owner(o.From))
		require.NotEqual(t, 0, v.Owner(o.To))
		require.True(t, v.AreAdjacent(o.From, o.To))
		require.Greater(t, v.ArmyCount(o.From), 1, "attacks need a spare army")
		require.GreaterOrEqual(t, o.Troops, 1)
		require.LessOrEqual(t, o.Troops, maxCommittedForce)
		require.Less(t, o.Troops, v.ArmyCount(o.From))
	}
}

func TestWinProbability(t *testing.T) {
	require.InDelta(t, 0.5, winProbability(1.0), 1e-9)
	require.InDelta(t, 0.6, winProbability(1.5), 1e-9)
	require.Equal(t, 0.9, winProbability(10), "clamped above")
	require.Equal(t, 0.1, winProbability(0), "clamped below")
}

func TestPoliciesMakeLegalDecisions(t *testing.T) {
	for _, strategy := range []string{"random", "aggressive", "defensive", "balanced", "opportunistic"} {
		t.Run(strategy, func(t *testing.T) {
			gs, v := contestedBoard(t)
			pol, err := New(strategy, rand.New(rand.NewSource(11)))
			require.NoError(t, err)

			t.Run("initial claim", func(t *testing.T) {
				terr := pol.ClaimInitial(v)
				require.Equal(t, 0, v.Owner(terr), "claims must target owned territory")
			})

			t.Run("reinforcement sums to the allotment", func(t *testing.T) {
				const total = 7
				placement := pol.DecideReinforcement(v, total)
				sum := 0
				for terr, n := range placement {
					require.Equal(t, 0, v.Owner(terr))
					require.Greater(t, n, 0)
					sum += n
				}
				require.Equal(t, total, sum)
			})

			t.Run("attack is legal or nil", func(t *testing.T) {
				// Sample repeatedly; several policies gate attacks on a
				// random continue roll.
				for i := 0; i < 50; i++ {
					o := pol.DecideAttack(v)
					if o == nil {
						continue
					}
					require.Equal(t, 0, v.Owner(o.From))
					require.NotEqual(t, 0, v.Owner(o.To))
					require.True(t, v.AreAdjacent(o.From, o.To))
					require.Greater(t, v.ArmyCount(o.From), 1)
					require.GreaterOrEqual(t, o.Troops, 1)
				}
			})

			t.Run("fortify is legal or nil", func(t *testing.T) {
				gs.Phase = game.FortifyPhase
				for i := 0; i < 20; i++ {
					f := pol.DecideFortify(v)
					if f == nil {
						continue
					}
					require.Equal(t, 0, v.Owner(f.From))
					require.Equal(t, 0, v.Owner(f.To))
					require.True(t, v.AreConnected(f.From, f.To, 0))
					require.GreaterOrEqual(t, f.Troops, 1)
					require.Less(t, f.Troops, v.ArmyCount(f.From), "a garrison stays behind")
				}
			})
		})
	}
}

func TestDefensiveRequiresClearAdvantage(t *testing.T) {
	m := game.StandardMap()
	players := []*game.Player{
		{ID: 0, Name: "careful", Strategy: "defensive"},
		{ID: 1, Name: "wall", Strategy: "defensive"},
	}
	gs := game.NewGameState(m, players)
	// Every enemy stack outguns any possible attack.
	for terr := range m.Territories {
		owner := terr % 2
		require.NoError(t, gs.TransferOwnership(terr, owner))
		if owner == 0 {
			gs.TroopCounts[terr] = 3
		} else {
			gs.TroopCounts[terr] = 10
		}
	}
	gs.CurrentPlayer = 0

	pol := NewDefensive()
	require.Nil(t, pol.DecideAttack(game.NewView(gs)), "no target clears the 1.5x bar")
}

func TestAggressivePicksStrongestFeasibleTarget(t *testing.T) {
	_, v := contestedBoard(t)
	pol := NewAggressive()

	o := pol.DecideAttack(v)
	require.NotNil(t, o)
	require.True(t, float64(v.ArmyCount(o.From))/float64(v.ArmyCount(o.To)) > 1.0,
		"aggressive still refuses outright hopeless fights")
}

func TestBalancedAggressionRange(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		b := NewBalanced(rand.New(rand.NewSource(seed)))
		require.GreaterOrEqual(t, b.aggression, 0.9)
		require.LessOrEqual(t, b.aggression, 1.1)
	}
}
