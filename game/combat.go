package game

import (
	"sort"

	"golang.org/x/exp/rand"
)

// AttackOrder describes one attack wave: the committed armies roll dice
// against the defending territory. Validity requires adjacency, enemy
// ownership of To, and at least 2 armies in From (one stays behind).
type AttackOrder struct {
	From   int
	To     int
	Troops int // armies committed to the wave
}

// Fortify describes a post-attack redistribution move along a path of
// owned territories.
type Fortify struct {
	From   int
	To     int
	Troops int
}

// RoundResult is the outcome of a single dice comparison.
type RoundResult struct {
	AttackerRolls  []int
	DefenderRolls  []int
	AttackerLosses int
	DefenderLosses int
}

// CombatOutcome accumulates losses over the rounds of one attack and
// records a capture. MinMoveIn is the number of dice rolled in the
// capturing round: the attacker must move at least that many armies in
// (bounded by what survives in the source).
type CombatOutcome struct {
	AttackerLosses int
	DefenderLosses int
	Captured       bool
	MinMoveIn      int
}

// Resolver rolls combat dice. The RNG is injected so that a seeded
// source yields an identical outcome sequence; it is shared with the
// policies and never reseeded mid-game.
type Resolver struct {
	rules Rules
	rng   *rand.Rand
}

func NewResolver(rules Rules, rng *rand.Rand) *Resolver {
	return &Resolver{rules: rules, rng: rng}
}

// AttackerDice returns how many dice the attacker rolls for a wave:
// min(committed, 3), and rolling n dice requires more than n armies in
// the source so one can stay behind.
func (r *Resolver) AttackerDice(committed, inSource int) int {
	dice := min(committed, r.rules.MaxAttackDice())
	if dice >= inSource {
		dice = inSource - 1
	}
	return max(dice, 0)
}

// DefenderDice returns how many dice the defender rolls: min(armies, 2).
func (r *Resolver) DefenderDice(defenders int) int {
	return min(defenders, r.rules.MaxDefendDice())
}

// ResolveRound rolls one round of combat with the given dice counts and
// returns the losses on each side.
func (r *Resolver) ResolveRound(attackerDice, defenderDice int) RoundResult {
	attackerRolls := r.rollDice(attackerDice)
	defenderRolls := r.rollDice(defenderDice)

	attackerLosses, defenderLosses := r.rules.DetermineAttackOutcome(attackerRolls, defenderRolls)

	return RoundResult{
		AttackerRolls:  attackerRolls,
		DefenderRolls:  defenderRolls,
		AttackerLosses: attackerLosses,
		DefenderLosses: defenderLosses,
	}
}

// rollDice rolls num uniform dice in [1,6] sorted descending. Rolls are
// sequential: the order of calls defines the RNG stream.
func (r *Resolver) rollDice(num int) []int {
	rolls := make([]int, num)
	for i := 0; i < num; i++ {
		rolls[i] = r.rng.Intn(6) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
	return rolls
}
