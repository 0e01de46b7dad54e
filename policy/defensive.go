package policy

import (
	"risksim/game"
)

// Defensive shores up its weakest borders and only attacks with a
// clear army advantage. Its decisions are fully determined by the
// board.
type Defensive struct{}

func NewDefensive() *Defensive {
	return &Defensive{}
}

func (d *Defensive) Name() string { return "defensive" }

func (d *Defensive) ClaimInitial(v *game.View) int {
	return weakestOf(v, reinforceTargets(v, v.CurrentPlayer()))
}

func (d *Defensive) DecideReinforcement(v *game.View, total int) map[int]int {
	player := v.CurrentPlayer()
	targets := reinforceTargets(v, player)
	// Weakest border first.
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && v.ArmyCount(targets[j]) < v.ArmyCount(targets[j-1]); j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}
	return spreadOver(targets, total)
}

// DecideAttack attacks only when the army ratio is at least 1.5x, and
// then takes the safest such target.
func (d *Defensive) DecideAttack(v *game.View) *game.AttackOrder {
	var best *game.AttackOrder
	bestRatio := favorableRatio
	for _, o := range attackCandidates(v, v.CurrentPlayer()) {
		if ratio := advantage(v, o); ratio >= bestRatio {
			o := o
			best = &o
			bestRatio = ratio
		}
	}
	return best
}

func (d *Defensive) DecideFortify(v *game.View) *game.Fortify {
	player := v.CurrentPlayer()
	borders := v.BorderTerritories(player)
	if len(borders) == 0 {
		return nil
	}
	weakest := weakestOf(v, borders)

	// Feed the weakest border from the strongest connected territory.
	var src int
	bestSpare := 0
	for _, t := range v.TerritoriesOwnedBy(player) {
		if t == weakest || v.ArmyCount(t) <= 1 {
			continue
		}
		if !v.AreConnected(t, weakest, player) {
			continue
		}
		if spare := v.ArmyCount(t) - 1; spare > bestSpare {
			bestSpare = spare
			src = t
		}
	}
	if bestSpare == 0 {
		return nil
	}
	// Move half the spare, keep the rest in place.
	n := (bestSpare + 1) / 2
	return &game.Fortify{From: src, To: weakest, Troops: n}
}

func weakestOf(v *game.View, ids []int) int {
	best := ids[0]
	for _, t := range ids[1:] {
		if v.ArmyCount(t) < v.ArmyCount(best) {
			best = t
		}
	}
	return best
}
