// Package policy implements the AI strategies that drive automated
// players. A policy is a pure function of the current board view; any
// randomness comes from an injected RNG, shared with the combat
// resolver for reproducible runs.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"risksim/game"
)

// Policy decides one legal action per phase for its player. A policy
// must always return a legal action or an explicit stop/skip (nil);
// returning an illegal action is a policy bug which the engine handles
// with a bounded retry and then a forfeit.
type Policy interface {
	Name() string

	// ClaimInitial picks an owned territory for one setup army.
	ClaimInitial(v *game.View) int

	// DecideReinforcement distributes the allotted total across owned
	// territories. The returned amounts must sum to total.
	DecideReinforcement(v *game.View, total int) map[int]int

	// DecideAttack returns the next attack wave, or nil to stop attacking.
	DecideAttack(v *game.View) *game.AttackOrder

	// DecideFortify returns the single end-of-turn move, or nil to skip.
	DecideFortify(v *game.View) *game.Fortify
}

// New constructs a policy from its strategy tag.
func New(strategy string, rng *rand.Rand) (Policy, error) {
	switch strategy {
	case "random":
		return NewRandom(rng), nil
	case "aggressive":
		return NewAggressive(), nil
	case "defensive":
		return NewDefensive(), nil
	case "balanced":
		return NewBalanced(rng), nil
	case "opportunistic":
		return NewOpportunistic(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// Attack-selection constants. The ratio gate and probability curve are
// deliberately coarse: dice variance swamps anything finer.
const (
	favorableRatio    = 1.5 // defensive policies attack only above this advantage
	opportunityRatio  = 1.2
	continueConquest  = 0.8 // chance to keep attacking after a capture
	continueSetback   = 0.5 // chance to keep attacking after losses
	maxCommittedForce = 3   // dice cap; committing more per wave changes nothing
)

// attackCandidates enumerates every legal attack wave for the player:
// each owned territory with more than one army against each adjacent
// enemy territory, committing up to three armies.
func attackCandidates(v *game.View, player int) []game.AttackOrder {
	var orders []game.AttackOrder
	for _, from := range v.TerritoriesOwnedBy(player) {
		if v.ArmyCount(from) <= 1 {
			continue
		}
		committed := minInt(v.ArmyCount(from)-1, maxCommittedForce)
		for _, to := range v.Map().Adjacent(from) {
			if v.Owner(to) != player {
				orders = append(orders, game.AttackOrder{From: from, To: to, Troops: committed})
			}
		}
	}
	return orders
}

// advantage is the attacker-to-defender army ratio for a candidate.
func advantage(v *game.View, o game.AttackOrder) float64 {
	defenders := v.ArmyCount(o.To)
	if defenders == 0 {
		return float64(v.ArmyCount(o.From))
	}
	return float64(v.ArmyCount(o.From)) / float64(defenders)
}

// winProbability estimates the chance an attack wave succeeds from the
// army ratio: 0.5 + (ratio-1)*0.2, clamped to [0.1, 0.9].
func winProbability(ratio float64) float64 {
	p := 0.5 + (ratio-1)*0.2
	if p < 0.1 {
		return 0.1
	}
	if p > 0.9 {
		return 0.9
	}
	return p
}

// continueAttacking rolls the keep-going decision: more likely after a
// conquest this turn than after a setback.
func continueAttacking(v *game.View, rng *rand.Rand) bool {
	p := continueSetback
	if v.ConqueredThisTurn() {
		p = continueConquest
	}
	return rng.Float64() < p
}

// spreadOver cycles the allotment across the given territories one army
// at a time, so the first listed territories end up strongest.
func spreadOver(territories []int, total int) map[int]int {
	placement := make(map[int]int)
	for i := 0; i < total; i++ {
		placement[territories[i%len(territories)]]++
	}
	return placement
}

// enemyPressure sums the enemy armies adjacent to a territory.
func enemyPressure(v *game.View, t, player int) int {
	pressure := 0
	for _, adj := range v.Map().Adjacent(t) {
		if v.Owner(adj) != player {
			pressure += v.ArmyCount(adj)
		}
	}
	return pressure
}

// reinforceTargets falls back to all owned territories when the player
// has no borders left to defend (they own the whole board region they
// can reach; mostly a late-game situation).
func reinforceTargets(v *game.View, player int) []int {
	if borders := v.BorderTerritories(player); len(borders) > 0 {
		return borders
	}
	return v.TerritoriesOwnedBy(player)
}

// interiorStacks returns owned territories with spare armies that do
// not border an enemy, biggest stack first.
func interiorStacks(v *game.View, player int) []int {
	var interior []int
	for _, t := range v.TerritoriesOwnedBy(player) {
		if v.ArmyCount(t) <= 1 {
			continue
		}
		front := false
		for _, adj := range v.Map().Adjacent(t) {
			if v.Owner(adj) != player {
				front = true
				break
			}
		}
		if !front {
			interior = append(interior, t)
		}
	}
	sortByArmiesDesc(v, interior)
	return interior
}

func sortByArmiesDesc(v *game.View, ids []int) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && v.ArmyCount(ids[j]) > v.ArmyCount(ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
