package game

// View is the read-only projection of a GameState handed to AI
// policies. Risk has no hidden information, so the view exposes the
// full board, just without any mutation capability.
type View struct {
	gs *GameState
}

func NewView(gs *GameState) *View {
	return &View{gs: gs}
}

func (v *View) Map() *Map           { return v.gs.Map }
func (v *View) Phase() Phase        { return v.gs.Phase }
func (v *View) Round() int          { return v.gs.Round }
func (v *View) CurrentPlayer() int  { return v.gs.CurrentPlayer }
func (v *View) Owner(t int) int     { return v.gs.Owner(t) }
func (v *View) ArmyCount(t int) int { return v.gs.ArmyCount(t) }
func (v *View) NumPlayers() int     { return len(v.gs.Players) }
func (v *View) Alive(p int) bool    { return v.gs.Players[p].Alive }

func (v *View) TerritoriesOwnedBy(p int) []int { return v.gs.TerritoriesOwnedBy(p) }
func (v *View) BorderTerritories(p int) []int  { return v.gs.BorderTerritories(p) }
func (v *View) TerritoryCount(p int) int       { return v.gs.TerritoryCount(p) }
func (v *View) TotalArmies(p int) int          { return v.gs.TotalArmies(p) }
func (v *View) AreAdjacent(a, b int) bool      { return v.gs.Map.AreAdjacent(a, b) }
func (v *View) AreConnected(a, b, p int) bool  { return v.gs.AreConnected(a, b, p) }
func (v *View) ContinentOwner(c *Continent) int {
	return v.gs.ContinentOwner(c)
}

// ConqueredThisTurn reports whether the current player has captured a
// territory during the running attack phase. Policies use it to decide
// whether to press on.
func (v *View) ConqueredThisTurn() bool { return v.gs.Conquered }

// PlayerSnapshot is the per-player slice of a board snapshot.
type PlayerSnapshot struct {
	Name        string
	Color       string
	Strategy    string
	Alive       bool
	Territories int
	Armies      int
}

// Snapshot is an immutable value copy of the board for external
// consumers such as the renderer. It shares nothing with the live state.
type Snapshot struct {
	Owners  []int
	Armies  []int
	Phase   Phase
	Round   int
	Current int
	Players []PlayerSnapshot
}

// Snapshot copies the mutable board state into a detached value.
func (gs *GameState) Snapshot() *Snapshot {
	owners := make([]int, len(gs.Ownership))
	copy(owners, gs.Ownership)
	armies := make([]int, len(gs.TroopCounts))
	copy(armies, gs.TroopCounts)

	players := make([]PlayerSnapshot, len(gs.Players))
	for i, p := range gs.Players {
		players[i] = PlayerSnapshot{
			Name:        p.Name,
			Color:       p.Color,
			Strategy:    p.Strategy,
			Alive:       p.Alive,
			Territories: gs.TerritoryCount(p.ID),
			Armies:      gs.TotalArmies(p.ID),
		}
	}

	return &Snapshot{
		Owners:  owners,
		Armies:  armies,
		Phase:   gs.Phase,
		Round:   gs.Round,
		Current: gs.CurrentPlayer,
		Players: players,
	}
}
