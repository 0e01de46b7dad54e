package game

// Rules abstracts the dice limits and loss accounting of combat.
type Rules interface {
	MaxAttackDice() int
	MaxDefendDice() int
	DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int)
}

// StandardRules implements classic Risk combat: up to 3 attacking dice,
// up to 2 defending dice, defender wins ties.
type StandardRules struct {
	AttackDice int
	DefendDice int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		AttackDice: 3,
		DefendDice: 2,
	}
}

func (sr *StandardRules) MaxAttackDice() int {
	return sr.AttackDice
}

func (sr *StandardRules) MaxDefendDice() int {
	return sr.DefendDice
}

// DetermineAttackOutcome compares rolls pairwise. Rolls must already be
// sorted in descending order; each comparison costs the losing side one
// army, and the defender wins ties.
func (sr *StandardRules) DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] > defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
