package policy

import (
	"golang.org/x/exp/rand"

	"risksim/game"
)

// Random picks uniformly among legal actions. Useful as a baseline
// opponent and for soak-testing the engine.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) ClaimInitial(v *game.View) int {
	owned := v.TerritoriesOwnedBy(v.CurrentPlayer())
	return owned[r.rng.Intn(len(owned))]
}

func (r *Random) DecideReinforcement(v *game.View, total int) map[int]int {
	owned := v.TerritoriesOwnedBy(v.CurrentPlayer())
	placement := make(map[int]int)
	for i := 0; i < total; i++ {
		placement[owned[r.rng.Intn(len(owned))]]++
	}
	return placement
}

func (r *Random) DecideAttack(v *game.View) *game.AttackOrder {
	if !continueAttacking(v, r.rng) {
		return nil
	}
	candidates := attackCandidates(v, v.CurrentPlayer())
	if len(candidates) == 0 {
		return nil
	}
	order := candidates[r.rng.Intn(len(candidates))]
	return &order
}

func (r *Random) DecideFortify(v *game.View) *game.Fortify {
	if r.rng.Intn(2) == 0 {
		return nil
	}
	player := v.CurrentPlayer()
	var sources []int
	for _, t := range v.TerritoriesOwnedBy(player) {
		if v.ArmyCount(t) > 1 {
			sources = append(sources, t)
		}
	}
	if len(sources) == 0 {
		return nil
	}
	src := sources[r.rng.Intn(len(sources))]

	var destinations []int
	for _, t := range v.TerritoriesOwnedBy(player) {
		if t != src && v.AreConnected(src, t, player) {
			destinations = append(destinations, t)
		}
	}
	if len(destinations) == 0 {
		return nil
	}
	dst := destinations[r.rng.Intn(len(destinations))]

	n := 1 + r.rng.Intn(v.ArmyCount(src)-1)
	return &game.Fortify{From: src, To: dst, Troops: n}
}
