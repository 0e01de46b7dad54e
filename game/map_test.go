package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardMap(t *testing.T) {
	m := StandardMap()

	require.NoError(t, m.Validate())
	require.Len(t, m.Territories, 42, "classic board has 42 territories")
	require.Len(t, m.Continents, 6, "classic board has 6 continents")

	bonuses := map[string]int{
		"North America": 5,
		"South America": 2,
		"Europe":        5,
		"Africa":        3,
		"Asia":          7,
		"Australia":     2,
	}
	for _, c := range m.Continents {
		require.Equal(t, bonuses[c.Name], c.Bonus, "bonus for %s", c.Name)
	}

	t.Run("key crossings exist", func(t *testing.T) {
		crossings := [][2]string{
			{"Alaska", "Kamchatka"},
			{"Brazil", "North Africa"},
			{"Western Europe", "North Africa"},
			{"Siam", "Indonesia"},
			{"Greenland", "Iceland"},
		}
		for _, pair := range crossings {
			a, ok := m.TerritoryID(pair[0])
			require.True(t, ok, pair[0])
			b, ok := m.TerritoryID(pair[1])
			require.True(t, ok, pair[1])
			require.True(t, m.AreAdjacent(a, b), "%s should border %s", pair[0], pair[1])
		}
	})

	t.Run("no border crosses to itself", func(t *testing.T) {
		for _, terr := range m.Territories {
			for _, adj := range terr.AdjacentIDs {
				require.NotEqual(t, terr.ID, adj, "%s borders itself", terr.Name)
			}
		}
	})
}

func TestMapValidate(t *testing.T) {
	t.Run("asymmetric border", func(t *testing.T) {
		m := NewMap()
		a := m.AddTerritory("A", "X")
		b := m.AddTerritory("B", "X")
		c := m.AddTerritory("C", "X")
		m.Continents = append(m.Continents, &Continent{Name: "X", Bonus: 1, TerritoryIDs: []int{a, b, c}})
		m.AddBorder(a, b)
		// Wire one direction only, bypassing AddBorder.
		m.Territories[b].AdjacentIDs = append(m.Territories[b].AdjacentIDs, c)

		require.ErrorIs(t, m.Validate(), ErrMapIntegrity)
	})

	t.Run("self border", func(t *testing.T) {
		m := NewMap()
		a := m.AddTerritory("A", "X")
		m.Continents = append(m.Continents, &Continent{Name: "X", Bonus: 1, TerritoryIDs: []int{a}})
		m.Territories[a].AdjacentIDs = []int{a}

		require.ErrorIs(t, m.Validate(), ErrMapIntegrity)
	})

	t.Run("isolated territory", func(t *testing.T) {
		m := NewMap()
		a := m.AddTerritory("A", "X")
		b := m.AddTerritory("B", "X")
		m.Continents = append(m.Continents, &Continent{Name: "X", Bonus: 1, TerritoryIDs: []int{a, b}})

		require.ErrorIs(t, m.Validate(), ErrMapIntegrity)
	})

	t.Run("territory outside every continent", func(t *testing.T) {
		m := NewMap()
		a := m.AddTerritory("A", "X")
		b := m.AddTerritory("B", "")
		m.Continents = append(m.Continents, &Continent{Name: "X", Bonus: 1, TerritoryIDs: []int{a}})
		m.AddBorder(a, b)

		require.ErrorIs(t, m.Validate(), ErrMapIntegrity)
	})

	t.Run("empty continent", func(t *testing.T) {
		m := NewMap()
		a := m.AddTerritory("A", "X")
		b := m.AddTerritory("B", "X")
		m.AddBorder(a, b)
		m.Continents = append(m.Continents,
			&Continent{Name: "X", Bonus: 1, TerritoryIDs: []int{a, b}},
			&Continent{Name: "Y", Bonus: 2})

		require.ErrorIs(t, m.Validate(), ErrMapIntegrity)
	})
}
