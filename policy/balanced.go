package policy

import (
	"golang.org/x/exp/rand"

	"risksim/game"
)

// Balanced mixes defense and offense, with a per-game aggression factor
// drawn once at construction so two balanced players don't mirror each
// other move for move.
type Balanced struct {
	rng        *rand.Rand
	aggression float64 // uniform in [0.9, 1.1]
}

func NewBalanced(rng *rand.Rand) *Balanced {
	return &Balanced{
		rng:        rng,
		aggression: 0.9 + 0.2*rng.Float64(),
	}
}

func (b *Balanced) Name() string { return "balanced" }

func (b *Balanced) ClaimInitial(v *game.View) int {
	targets := reinforceTargets(v, v.CurrentPlayer())
	return targets[b.rng.Intn(len(targets))]
}

// DecideReinforcement splits the allotment: half to the weakest border,
// the rest cycled across all borders.
func (b *Balanced) DecideReinforcement(v *game.View, total int) map[int]int {
	player := v.CurrentPlayer()
	targets := reinforceTargets(v, player)

	placement := make(map[int]int)
	weakest := weakestOf(v, targets)
	defend := total / 2
	if defend > 0 {
		placement[weakest] = defend
	}
	for i := 0; i < total-defend; i++ {
		placement[targets[i%len(targets)]]++
	}
	return placement
}

// DecideAttack weights each candidate's win probability by the
// aggression factor and takes the best, requiring better than even odds.
func (b *Balanced) DecideAttack(v *game.View) *game.AttackOrder {
	if !continueAttacking(v, b.rng) {
		return nil
	}
	var best *game.AttackOrder
	bestScore := 0.55
	for _, o := range attackCandidates(v, v.CurrentPlayer()) {
		score := winProbability(advantage(v, o)) * b.aggression
		if score > bestScore {
			o := o
			best = &o
			bestScore = score
		}
	}
	return best
}

func (b *Balanced) DecideFortify(v *game.View) *game.Fortify {
	// Defensive consolidation works for the balanced player too.
	return (&Defensive{}).DecideFortify(v)
}
