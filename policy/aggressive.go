package policy

import (
	"risksim/game"
)

// Aggressive concentrates force on the most contested borders and
// always attacks the strongest target it can plausibly beat. Its
// decisions are fully determined by the board.
type Aggressive struct{}

func NewAggressive() *Aggressive {
	return &Aggressive{}
}

func (a *Aggressive) Name() string { return "aggressive" }

func (a *Aggressive) ClaimInitial(v *game.View) int {
	player := v.CurrentPlayer()
	targets := reinforceTargets(v, player)
	// Stack the territory under the most enemy pressure.
	best := targets[0]
	for _, t := range targets[1:] {
		if enemyPressure(v, t, player) > enemyPressure(v, best, player) {
			best = t
		}
	}
	return best
}

func (a *Aggressive) DecideReinforcement(v *game.View, total int) map[int]int {
	player := v.CurrentPlayer()
	targets := reinforceTargets(v, player)
	// Most-pressured borders first; the cycle leaves them strongest.
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && enemyPressure(v, targets[j], player) > enemyPressure(v, targets[j-1], player); j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}
	return spreadOver(targets, total)
}

// DecideAttack picks the strongest feasible target: among candidates
// with any army advantage, the one with the most defending armies.
func (a *Aggressive) DecideAttack(v *game.View) *game.AttackOrder {
	var best *game.AttackOrder
	for _, o := range attackCandidates(v, v.CurrentPlayer()) {
		if advantage(v, o) <= 1.0 {
			continue
		}
		o := o
		if best == nil || v.ArmyCount(o.To) > v.ArmyCount(best.To) {
			best = &o
		}
	}
	return best
}

func (a *Aggressive) DecideFortify(v *game.View) *game.Fortify {
	player := v.CurrentPlayer()
	borders := v.BorderTerritories(player)
	if len(borders) == 0 {
		return nil
	}
	// Push the biggest interior stack to the hottest border it can reach.
	for _, src := range interiorStacks(v, player) {
		var best *game.Fortify
		bestPressure := -1
		for _, dst := range borders {
			if !v.AreConnected(src, dst, player) {
				continue
			}
			if p := enemyPressure(v, dst, player); p > bestPressure {
				bestPressure = p
				best = &game.Fortify{From: src, To: dst, Troops: v.ArmyCount(src) - 1}
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}
