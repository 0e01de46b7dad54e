// Package diplomacy tracks treaties between players: alliances that
// forbid attacks between the parties, and territory treaties that
// protect a specific border. Treaties expire on a turn countdown and
// break immediately when violated by conquest or made moot by
// elimination.
package diplomacy

import "fmt"

type TreatyType int

const (
	Alliance TreatyType = iota
	TerritoryPact
)

func (t TreatyType) String() string {
	if t == Alliance {
		return "alliance"
	}
	return "territory pact"
}

type TreatyStatus int

const (
	Active TreatyStatus = iota
	Broken
	Expired
)

// Default treaty durations, in rounds.
const (
	AllianceDuration      = 5
	TerritoryPactDuration = 3
)

// Treaty is an agreement between two players. For territory pacts,
// Territory1 belongs to Player1 and Territory2 to Player2; the pact
// protects attacks across that specific border in either direction.
type Treaty struct {
	Type           TreatyType
	Player1        int
	Player2        int
	Territory1     int
	Territory2     int
	TurnsRemaining int
	Status         TreatyStatus
}

func NewAlliance(p1, p2 int) *Treaty {
	return &Treaty{
		Type:           Alliance,
		Player1:        p1,
		Player2:        p2,
		Territory1:     -1,
		Territory2:     -1,
		TurnsRemaining: AllianceDuration,
	}
}

func NewTerritoryPact(p1, t1, p2, t2 int) *Treaty {
	return &Treaty{
		Type:           TerritoryPact,
		Player1:        p1,
		Player2:        p2,
		Territory1:     t1,
		Territory2:     t2,
		TurnsRemaining: TerritoryPactDuration,
	}
}

func (t *Treaty) IsActive() bool {
	return t.Status == Active
}

func (t *Treaty) Involves(player int) bool {
	return player == t.Player1 || player == t.Player2
}

// Covers reports whether a territory pact protects the given border.
func (t *Treaty) Covers(terr1, terr2 int) bool {
	if t.Type != TerritoryPact {
		return false
	}
	return (t.Territory1 == terr1 && t.Territory2 == terr2) ||
		(t.Territory1 == terr2 && t.Territory2 == terr1)
}

func (t *Treaty) String() string {
	return fmt.Sprintf("%s between player %d and player %d (%d turns remaining)",
		t.Type, t.Player1, t.Player2, t.TurnsRemaining)
}

// proposal is a treaty awaiting the other party's decision.
type proposal struct {
	treaty   *Treaty
	proposer int
}

// Manager owns all treaties and pending proposals for one game.
type Manager struct {
	treaties  []*Treaty
	proposals []proposal
}

func NewManager() *Manager {
	return &Manager{}
}

// Propose queues a treaty for the other party's next turn.
func (m *Manager) Propose(t *Treaty, proposer int) {
	m.proposals = append(m.proposals, proposal{treaty: t, proposer: proposer})
}

// ProposalsFor returns pending treaties addressed to the player, along
// with each proposer.
func (m *Manager) ProposalsFor(player int) []*Treaty {
	var out []*Treaty
	for _, p := range m.proposals {
		if p.treaty.Involves(player) && p.proposer != player {
			out = append(out, p.treaty)
		}
	}
	return out
}

// Accept activates a pending proposal.
func (m *Manager) Accept(t *Treaty) {
	for i, p := range m.proposals {
		if p.treaty == t {
			m.proposals = append(m.proposals[:i], m.proposals[i+1:]...)
			t.Status = Active
			m.treaties = append(m.treaties, t)
			return
		}
	}
}

// Reject discards a pending proposal.
func (m *Manager) Reject(t *Treaty) {
	for i, p := range m.proposals {
		if p.treaty == t {
			m.proposals = append(m.proposals[:i], m.proposals[i+1:]...)
			return
		}
	}
}

// Break marks a treaty as broken. Broken treaties stay in the history
// but no longer constrain anyone.
func (m *Manager) Break(t *Treaty) {
	if t.IsActive() {
		t.Status = Broken
	}
}

// Tick decrements every active treaty by one round and returns the
// ones that just expired. Call once per round.
func (m *Manager) Tick() []*Treaty {
	var expired []*Treaty
	for _, t := range m.treaties {
		if !t.IsActive() {
			continue
		}
		t.TurnsRemaining--
		if t.TurnsRemaining <= 0 {
			t.Status = Expired
			expired = append(expired, t)
		}
	}
	return expired
}

// HasAlliance reports whether the two players share an active alliance.
func (m *Manager) HasAlliance(p1, p2 int) bool {
	for _, t := range m.treaties {
		if t.Type == Alliance && t.IsActive() && t.Involves(p1) && t.Involves(p2) {
			return true
		}
	}
	return false
}

// BlocksAttack reports whether any active treaty forbids an attack from
// attacker's territory `from` against defender's territory `to`, and
// returns the blocking treaty.
func (m *Manager) BlocksAttack(attacker, from, defender, to int) (*Treaty, bool) {
	for _, t := range m.treaties {
		if !t.IsActive() || !t.Involves(attacker) || !t.Involves(defender) {
			continue
		}
		if t.Type == Alliance || t.Covers(from, to) {
			return t, true
		}
	}
	return nil, false
}

// BrokenByConquest breaks and returns the territory pacts between the
// two players that protected the conquered territory. An attack across
// the protected border is blocked up front; this catches captures of a
// protected territory from an unprotected border.
func (m *Manager) BrokenByConquest(attacker, defender, conquered int) []*Treaty {
	var broken []*Treaty
	for _, t := range m.treaties {
		if t.Type != TerritoryPact || !t.IsActive() {
			continue
		}
		if !t.Involves(attacker) || !t.Involves(defender) {
			continue
		}
		if t.Territory1 == conquered || t.Territory2 == conquered {
			t.Status = Broken
			broken = append(broken, t)
		}
	}
	return broken
}

// TreatiesOf returns the player's active treaties.
func (m *Manager) TreatiesOf(player int) []*Treaty {
	var out []*Treaty
	for _, t := range m.treaties {
		if t.IsActive() && t.Involves(player) {
			out = append(out, t)
		}
	}
	return out
}

// DissolveFor breaks every treaty and drops every proposal involving
// the player. Called on elimination.
func (m *Manager) DissolveFor(player int) []*Treaty {
	var broken []*Treaty
	for _, t := range m.treaties {
		if t.IsActive() && t.Involves(player) {
			t.Status = Broken
			broken = append(broken, t)
		}
	}
	kept := m.proposals[:0]
	for _, p := range m.proposals {
		if !p.treaty.Involves(player) {
			kept = append(kept, p)
		}
	}
	m.proposals = kept
	return broken
}
