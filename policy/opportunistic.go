package policy

import (
	"risksim/game"
)

// Opportunistic preys on weakness: it hits the softest adjacent stacks
// and prefers targets owned by the weakest surviving player. Its
// decisions are fully determined by the board.
type Opportunistic struct{}

func NewOpportunistic() *Opportunistic {
	return &Opportunistic{}
}

func (o *Opportunistic) Name() string { return "opportunistic" }

func (o *Opportunistic) ClaimInitial(v *game.View) int {
	player := v.CurrentPlayer()
	targets := reinforceTargets(v, player)
	// Prefer a border next to the softest enemy stack.
	best := targets[0]
	bestSoft := softestNeighbor(v, best, player)
	for _, t := range targets[1:] {
		if s := softestNeighbor(v, t, player); s < bestSoft {
			best, bestSoft = t, s
		}
	}
	return best
}

func (o *Opportunistic) DecideReinforcement(v *game.View, total int) map[int]int {
	player := v.CurrentPlayer()
	targets := reinforceTargets(v, player)
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && softestNeighbor(v, targets[j], player) < softestNeighbor(v, targets[j-1], player); j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}
	return spreadOver(targets, total)
}

// DecideAttack requires a 1.2x advantage and scores targets by how weak
// they are, with a bonus for territories of the weakest player overall.
func (o *Opportunistic) DecideAttack(v *game.View) *game.AttackOrder {
	prey := weakestPlayer(v)
	var best *game.AttackOrder
	bestScore := 0.0
	for _, c := range attackCandidates(v, v.CurrentPlayer()) {
		ratio := advantage(v, c)
		if ratio < opportunityRatio {
			continue
		}
		score := ratio
		if v.Owner(c.To) == prey {
			score *= 1.5
		}
		if score > bestScore {
			c := c
			best = &c
			bestScore = score
		}
	}
	return best
}

func (o *Opportunistic) DecideFortify(v *game.View) *game.Fortify {
	return (&Aggressive{}).DecideFortify(v)
}

// softestNeighbor returns the smallest adjacent enemy stack, or a large
// sentinel when the territory has no enemy neighbor.
func softestNeighbor(v *game.View, t, player int) int {
	softest := 1 << 30
	for _, adj := range v.Map().Adjacent(t) {
		if v.Owner(adj) != player && v.ArmyCount(adj) < softest {
			softest = v.ArmyCount(adj)
		}
	}
	return softest
}

// weakestPlayer returns the alive enemy with the fewest total armies.
func weakestPlayer(v *game.View) int {
	me := v.CurrentPlayer()
	weakest, weakestArmies := -1, 1<<30
	for p := 0; p < v.NumPlayers(); p++ {
		if p == me || !v.Alive(p) {
			continue
		}
		if armies := v.TotalArmies(p); armies < weakestArmies {
			weakest, weakestArmies = p, armies
		}
	}
	return weakest
}
