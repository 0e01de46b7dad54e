package game

import "fmt"

type Phase int

const (
	InitialPlacementPhase Phase = iota
	ReinforcementPhase
	AttackPhase
	FortifyPhase
	EndPhase
)

func (p Phase) String() string {
	switch p {
	case InitialPlacementPhase:
		return "initial_placement"
	case ReinforcementPhase:
		return "reinforce"
	case AttackPhase:
		return "attack"
	case FortifyPhase:
		return "fortify"
	case EndPhase:
		return "end"
	default:
		return "unknown"
	}
}

// Player is one roster entry. ID is the player's index in the roster,
// which is also the turn order.
type Player struct {
	ID       int
	Name     string
	Color    string
	Strategy string
	Alive    bool
}

// GameState is the mutable, authoritative model of a running game:
// per-territory ownership and army counts plus the roster, phase and
// round bookkeeping. Territory slices are indexed by territory ID. The
// engine is the only mutator; every mutating method re-validates its
// preconditions and fails with ErrInvalidAction rather than silently
// ignoring a bad call.
type GameState struct {
	Map           *Map
	TroopCounts   []int // armies per territory
	Ownership     []int // owner (player ID) per territory, -1 unowned
	Players       []*Player
	CurrentPlayer int
	Phase         Phase
	Round         int

	TroopsToPlace int   // remaining reinforcement armies this turn
	InitialTroops []int // remaining setup armies per player
	Conquered     bool  // whether the current player captured a territory this turn

	Deck      *Deck
	Hands     [][]Card
	Exchanges int
}

// NewGameState initializes the board with every territory unowned.
func NewGameState(m *Map, players []*Player) *GameState {
	n := len(m.Territories)
	gs := &GameState{
		Map:         m,
		TroopCounts: make([]int, n),
		Ownership:   make([]int, n),
		Players:     players,
		Hands:       make([][]Card, len(players)),
	}
	for i := range gs.Ownership {
		gs.Ownership[i] = -1
	}
	for _, p := range players {
		p.Alive = true
	}
	return gs
}

// StartingArmies returns the setup army allotment per player for a
// roster of the given size: 40/35/30/25/20 for 2 through 6 players.
func StartingArmies(numPlayers int) (int, error) {
	switch numPlayers {
	case 2:
		return 40, nil
	case 3:
		return 35, nil
	case 4:
		return 30, nil
	case 5:
		return 25, nil
	case 6:
		return 20, nil
	default:
		return 0, fmt.Errorf("%w: unsupported number of players %d (must be 2-6)", ErrInvalidAction, numPlayers)
	}
}

// Owner returns the owner of a territory, -1 if unowned.
func (gs *GameState) Owner(t int) int {
	return gs.Ownership[t]
}

// ArmyCount returns the armies on a territory.
func (gs *GameState) ArmyCount(t int) int {
	return gs.TroopCounts[t]
}

// PlaceArmies adds n armies to a territory owned by player.
func (gs *GameState) PlaceArmies(player, t, n int) error {
	if !gs.Map.Contains(t) {
		return fmt.Errorf("%w: no such territory %d", ErrMalformedPolicy, t)
	}
	if n <= 0 {
		return fmt.Errorf("%w: placement of %d armies", ErrMalformedPolicy, n)
	}
	if gs.Ownership[t] != player {
		return fmt.Errorf("%w: player %d does not own %s", ErrInvalidAction, player, gs.Map.Territories[t].Name)
	}
	gs.TroopCounts[t] += n
	return nil
}

// MoveArmies moves n armies from src to dst for a fortify or
// post-capture move. Both territories must belong to the same player,
// be connected through territories that player owns, and src must keep
// at least one army behind.
func (gs *GameState) MoveArmies(src, dst, n int) error {
	if !gs.Map.Contains(src) || !gs.Map.Contains(dst) {
		return fmt.Errorf("%w: no such territory", ErrMalformedPolicy)
	}
	if n <= 0 {
		return fmt.Errorf("%w: move of %d armies", ErrMalformedPolicy, n)
	}
	player := gs.Ownership[src]
	if player != gs.Ownership[dst] {
		return fmt.Errorf("%w: %s and %s are not owned by the same player",
			ErrInvalidAction, gs.Map.Territories[src].Name, gs.Map.Territories[dst].Name)
	}
	if !gs.AreConnected(src, dst, player) {
		return fmt.Errorf("%w: %s and %s are not connected through owned territory",
			ErrInvalidAction, gs.Map.Territories[src].Name, gs.Map.Territories[dst].Name)
	}
	if gs.TroopCounts[src]-n < 1 {
		return fmt.Errorf("%w: move would leave %s empty", ErrInvalidAction, gs.Map.Territories[src].Name)
	}
	gs.TroopCounts[src] -= n
	gs.TroopCounts[dst] += n
	return nil
}

// TransferOwnership reassigns a territory. Used only by combat
// resolution on capture and by initial dealing.
func (gs *GameState) TransferOwnership(t, player int) error {
	if !gs.Map.Contains(t) {
		return fmt.Errorf("%w: no such territory %d", ErrInvalidAction, t)
	}
	if player < 0 || player >= len(gs.Players) {
		return fmt.Errorf("%w: no such player %d", ErrInvalidAction, player)
	}
	gs.Ownership[t] = player
	return nil
}

// Eliminate marks a player as out of the game. The player keeps no
// place in the turn order from the next advance onward.
func (gs *GameState) Eliminate(player int) {
	gs.Players[player].Alive = false
}

// AliveCount returns the number of players still in the game.
func (gs *GameState) AliveCount() int {
	count := 0
	for _, p := range gs.Players {
		if p.Alive {
			count++
		}
	}
	return count
}

// IsGameOver reports whether exactly one player remains alive, and
// returns that player's ID.
func (gs *GameState) IsGameOver() (winner int, over bool) {
	winner = -1
	for _, p := range gs.Players {
		if p.Alive {
			if winner >= 0 {
				return -1, false
			}
			winner = p.ID
		}
	}
	return winner, winner >= 0
}

// NextAlivePlayer returns the next player in turn order after `after`
// who is still alive.
func (gs *GameState) NextAlivePlayer(after int) int {
	n := len(gs.Players)
	for i := 1; i <= n; i++ {
		candidate := (after + i) % n
		if gs.Players[candidate].Alive {
			return candidate
		}
	}
	return after
}

// TerritoriesOwnedBy returns the IDs of all territories a player owns,
// in stable ID order.
func (gs *GameState) TerritoriesOwnedBy(player int) []int {
	var territories []int
	for id, owner := range gs.Ownership {
		if owner == player {
			territories = append(territories, id)
		}
	}
	return territories
}

// TerritoryCount returns how many territories a player owns.
func (gs *GameState) TerritoryCount(player int) int {
	count := 0
	for _, owner := range gs.Ownership {
		if owner == player {
			count++
		}
	}
	return count
}

// BorderTerritories returns the player's territories that border at
// least one enemy territory.
func (gs *GameState) BorderTerritories(player int) []int {
	var borders []int
	for id, owner := range gs.Ownership {
		if owner != player {
			continue
		}
		for _, adj := range gs.Map.Adjacent(id) {
			if gs.Ownership[adj] != player {
				borders = append(borders, id)
				break
			}
		}
	}
	return borders
}

// AreConnected reports whether from and to are connected through a path
// of territories all owned by player. Plain BFS.
func (gs *GameState) AreConnected(from, to, player int) bool {
	if from == to {
		return true
	}
	visited := make(map[int]bool)
	queue := []int{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, adj := range gs.Map.Adjacent(current) {
			if gs.Ownership[adj] != player {
				continue
			}
			if adj == to {
				return true
			}
			if !visited[adj] {
				queue = append(queue, adj)
			}
		}
	}
	return false
}

// ContinentOwner returns the player owning every territory of the
// continent, or -1 when control is split.
func (gs *GameState) ContinentOwner(c *Continent) int {
	if len(c.TerritoryIDs) == 0 {
		return -1
	}
	owner := gs.Ownership[c.TerritoryIDs[0]]
	for _, id := range c.TerritoryIDs[1:] {
		if gs.Ownership[id] != owner {
			return -1
		}
	}
	return owner
}

// ReinforcementsFor computes the per-turn army allotment: one army per
// three owned territories with a minimum of 3, plus the bonus of every
// fully-controlled continent. Card bonuses are added separately by the
// trading step.
func (gs *GameState) ReinforcementsFor(player int) int {
	troops := max(3, gs.TerritoryCount(player)/3)
	for _, c := range gs.Map.Continents {
		if gs.ContinentOwner(c) == player {
			troops += c.Bonus
		}
	}
	return troops
}

// TradeSets trades in every available card set for the player and
// returns the total army bonus. Owning a territory pictured on a traded
// card places 2 extra armies there directly (at most once per trade).
func (gs *GameState) TradeSets(player int) int {
	hand := gs.Hands[player]
	bonus := 0
	for {
		set := FindSet(hand)
		if set == nil {
			break
		}
		var traded []Card
		traded, hand = removeCards(hand, set)
		gs.Deck.Discard(traded)
		gs.Exchanges++
		bonus += ExchangeBonus(gs.Exchanges)

		for _, card := range traded {
			if card.TerritoryID >= 0 && gs.Ownership[card.TerritoryID] == player {
				gs.TroopCounts[card.TerritoryID] += 2
				break
			}
		}
	}
	gs.Hands[player] = hand
	return bonus
}

// MustTrade reports whether the player holds 5 or more cards and is
// obliged to trade before reinforcing.
func (gs *GameState) MustTrade(player int) bool {
	return len(gs.Hands[player]) >= 5
}

// AwardCard draws a card for the player if they conquered a territory
// this turn, and clears the conquest flag.
func (gs *GameState) AwardCard(player int) bool {
	defer func() { gs.Conquered = false }()
	if !gs.Conquered || gs.Deck == nil {
		return false
	}
	card, ok := gs.Deck.Draw()
	if !ok {
		return false
	}
	gs.Hands[player] = append(gs.Hands[player], card)
	return true
}

// TotalArmies sums a player's armies across the board.
func (gs *GameState) TotalArmies(player int) int {
	total := 0
	for id, owner := range gs.Ownership {
		if owner == player {
			total += gs.TroopCounts[id]
		}
	}
	return total
}
