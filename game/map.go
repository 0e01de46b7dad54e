package game

import "fmt"

// Territory represents one ownable region on the board.
type Territory struct {
	ID          int
	Name        string
	Continent   string
	AdjacentIDs []int // IDs of adjacent territories
}

// Continent groups territories and grants bonus armies to a player
// holding every member territory.
type Continent struct {
	Name         string
	Bonus        int
	TerritoryIDs []int
}

// Map is the static world graph. It is built once at setup and never
// mutated during play; territory IDs index into the slice, which gives
// a stable deterministic order for iteration and tie-breaks.
type Map struct {
	Territories []*Territory
	Continents  []*Continent

	idByName map[string]int
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{idByName: make(map[string]int)}
}

// AddTerritory appends a territory and assigns it the next ID.
func (m *Map) AddTerritory(name, continent string) int {
	id := len(m.Territories)
	m.Territories = append(m.Territories, &Territory{
		ID:        id,
		Name:      name,
		Continent: continent,
	})
	m.idByName[name] = id
	return id
}

// AddBorder adds a bidirectional border between two territories.
func (m *Map) AddBorder(id1, id2 int) {
	if !contains(m.Territories[id1].AdjacentIDs, id2) {
		m.Territories[id1].AdjacentIDs = append(m.Territories[id1].AdjacentIDs, id2)
	}
	if !contains(m.Territories[id2].AdjacentIDs, id1) {
		m.Territories[id2].AdjacentIDs = append(m.Territories[id2].AdjacentIDs, id1)
	}
}

// TerritoryID looks up a territory by name.
func (m *Map) TerritoryID(name string) (int, bool) {
	id, ok := m.idByName[name]
	return id, ok
}

// Adjacent returns the neighbor IDs of a territory.
func (m *Map) Adjacent(id int) []int {
	return m.Territories[id].AdjacentIDs
}

// AreAdjacent reports whether two territories share a border.
func (m *Map) AreAdjacent(id1, id2 int) bool {
	return contains(m.Territories[id1].AdjacentIDs, id2)
}

// Contains reports whether id is a valid territory ID.
func (m *Map) Contains(id int) bool {
	return id >= 0 && id < len(m.Territories)
}

// Validate checks internal consistency: symmetric adjacency, no
// self-borders, every territory in exactly one continent, no empty
// continents. A failure here is a construction-time defect; it cannot
// occur at runtime with the built-in map.
func (m *Map) Validate() error {
	for _, t := range m.Territories {
		if len(t.AdjacentIDs) == 0 {
			return fmt.Errorf("%w: territory %q has no borders", ErrMapIntegrity, t.Name)
		}
		for _, adj := range t.AdjacentIDs {
			if adj == t.ID {
				return fmt.Errorf("%w: territory %q borders itself", ErrMapIntegrity, t.Name)
			}
			if adj < 0 || adj >= len(m.Territories) {
				return fmt.Errorf("%w: territory %q borders unknown ID %d", ErrMapIntegrity, t.Name, adj)
			}
			if !contains(m.Territories[adj].AdjacentIDs, t.ID) {
				return fmt.Errorf("%w: asymmetric border %q -> %q",
					ErrMapIntegrity, t.Name, m.Territories[adj].Name)
			}
		}
	}
	claimed := make([]bool, len(m.Territories))
	for _, c := range m.Continents {
		if len(c.TerritoryIDs) == 0 {
			return fmt.Errorf("%w: continent %q has no territories", ErrMapIntegrity, c.Name)
		}
		for _, id := range c.TerritoryIDs {
			if claimed[id] {
				return fmt.Errorf("%w: territory %q in more than one continent",
					ErrMapIntegrity, m.Territories[id].Name)
			}
			claimed[id] = true
		}
	}
	for id, ok := range claimed {
		if !ok {
			return fmt.Errorf("%w: territory %q belongs to no continent",
				ErrMapIntegrity, m.Territories[id].Name)
		}
	}
	return nil
}

func contains(slice []int, item int) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// StandardMap builds the classic 42-territory, 6-continent world map.
func StandardMap() *Map {
	m := NewMap()

	for _, c := range continentData {
		continent := &Continent{Name: c.name, Bonus: c.bonus}
		for _, name := range c.territories {
			continent.TerritoryIDs = append(continent.TerritoryIDs, m.AddTerritory(name, c.name))
		}
		m.Continents = append(m.Continents, continent)
	}

	for name, neighbors := range adjacencyData {
		id1 := m.idByName[name]
		for _, neighbor := range neighbors {
			id2, ok := m.idByName[neighbor]
			if !ok {
				panic(fmt.Sprintf("standard map: unknown territory %q", neighbor))
			}
			m.AddBorder(id1, id2)
		}
	}

	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

var continentData = []struct {
	name        string
	bonus       int
	territories []string
}{
	{"North America", 5, []string{
		"Alaska", "Northwest Territory", "Greenland", "Alberta", "Ontario",
		"Quebec", "Western US", "Eastern US", "Central America",
	}},
	{"South America", 2, []string{
		"Venezuela", "Peru", "Brazil", "Argentina",
	}},
	{"Europe", 5, []string{
		"Iceland", "Scandinavia", "Great Britain", "Northern Europe",
		"Ukraine", "Western Europe", "Southern Europe",
	}},
	{"Africa", 3, []string{
		"North Africa", "Egypt", "East Africa", "Congo", "South Africa", "Madagascar",
	}},
	{"Asia", 7, []string{
		"Ural", "Siberia", "Yakutsk", "Kamchatka", "Irkutsk", "Mongolia",
		"Japan", "Afghanistan", "China", "Middle East", "India", "Siam",
	}},
	{"Australia", 2, []string{
		"Indonesia", "New Guinea", "Western Australia", "Eastern Australia",
	}},
}

// Adjacency data: mapping of territories to their neighbors. Borders are
// added bidirectionally, so each pair only needs to appear once, but the
// full table is kept for readability against the physical board.
var adjacencyData = map[string][]string{
	// North America
	"Alaska":              {"Northwest Territory", "Alberta", "Kamchatka"},
	"Northwest Territory": {"Alaska", "Greenland", "Alberta", "Ontario"},
	"Greenland":           {"Northwest Territory", "Ontario", "Quebec", "Iceland"},
	"Alberta":             {"Alaska", "Northwest Territory", "Ontario", "Western US"},
	"Ontario":             {"Northwest Territory", "Greenland", "Alberta", "Quebec", "Western US", "Eastern US"},
	"Quebec":              {"Greenland", "Ontario", "Eastern US"},
	"Western US":          {"Alberta", "Ontario", "Eastern US", "Central America"},
	"Eastern US":          {"Ontario", "Quebec", "Western US", "Central America"},
	"Central America":     {"Western US", "Eastern US", "Venezuela"},
	// South America
	"Venezuela": {"Central America", "Peru", "Brazil"},
	"Peru":      {"Venezuela", "Brazil", "Argentina"},
	"Brazil":    {"Venezuela", "Peru", "Argentina", "North Africa"},
	"Argentina": {"Peru", "Brazil"},
	// Europe
	"Iceland":         {"Greenland", "Scandinavia", "Great Britain"},
	"Scandinavia":     {"Iceland", "Great Britain", "Northern Europe", "Ukraine"},
	"Great Britain":   {"Iceland", "Scandinavia", "Northern Europe", "Western Europe"},
	"Northern Europe": {"Scandinavia", "Great Britain", "Ukraine", "Western Europe", "Southern Europe"},
	"Ukraine":         {"Scandinavia", "Northern Europe", "Southern Europe", "Ural", "Afghanistan", "Middle East"},
	"Western Europe":  {"Great Britain", "Northern Europe", "Southern Europe", "North Africa"},
	"Southern Europe": {"Northern Europe", "Ukraine", "Western Europe", "North Africa", "Egypt", "Middle East"},
	// Africa
	"North Africa": {"Brazil", "Western Europe", "Southern Europe", "Egypt", "East Africa", "Congo"},
	"Egypt":        {"Southern Europe", "North Africa", "East Africa", "Middle East"},
	"East Africa":  {"North Africa", "Egypt", "Congo", "South Africa", "Madagascar", "Middle East"},
	"Congo":        {"North Africa", "East Africa", "South Africa"},
	"South Africa": {"East Africa", "Congo", "Madagascar"},
	"Madagascar":   {"East Africa", "South Africa"},
	// Asia
	"Ural":        {"Ukraine", "Siberia", "China", "Afghanistan"},
	"Siberia":     {"Ural", "Yakutsk", "Irkutsk", "Mongolia", "China"},
	"Yakutsk":     {"Siberia", "Kamchatka", "Irkutsk"},
	"Kamchatka":   {"Alaska", "Yakutsk", "Irkutsk", "Mongolia", "Japan"},
	"Irkutsk":     {"Siberia", "Yakutsk", "Kamchatka", "Mongolia"},
	"Mongolia":    {"Siberia", "Irkutsk", "Kamchatka", "Japan", "China"},
	"Japan":       {"Kamchatka", "Mongolia"},
	"Afghanistan": {"Ukraine", "Ural", "China", "Middle East", "India"},
	"China":       {"Ural", "Siberia", "Mongolia", "Afghanistan", "India", "Siam"},
	"Middle East": {"Ukraine", "Southern Europe", "Egypt", "East Africa", "Afghanistan", "India"},
	"India":       {"Afghanistan", "China", "Middle East", "Siam"},
	"Siam":        {"China", "India", "Indonesia"},
	// Australia
	"Indonesia":         {"Siam", "New Guinea", "Western Australia"},
	"New Guinea":        {"Indonesia", "Western Australia", "Eastern Australia"},
	"Western Australia": {"Indonesia", "New Guinea", "Eastern Australia"},
	"Eastern Australia": {"New Guinea", "Western Australia"},
}
