package game

import (
	"sort"

	"golang.org/x/exp/rand"
)

type CardType int

const (
	Infantry CardType = iota
	Cavalry
	Artillery
	Wild
)

// Card is a territory card awarded for conquest. Wild cards carry no
// territory (TerritoryID is -1).
type Card struct {
	Type        CardType
	TerritoryID int
}

// Deck holds the draw pile and discard pile of territory cards.
type Deck struct {
	cards   []Card
	discard []Card
	rng     *rand.Rand
}

// NewDeck builds one card per territory with the three unit types
// cycling, plus two wild cards, and shuffles with the shared RNG.
func NewDeck(m *Map, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	types := []CardType{Infantry, Cavalry, Artillery}
	for id := range m.Territories {
		d.cards = append(d.cards, Card{Type: types[id%3], TerritoryID: id})
	}
	d.cards = append(d.cards, Card{Type: Wild, TerritoryID: -1}, Card{Type: Wild, TerritoryID: -1})
	d.shuffle()
	return d
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw takes the top card, reshuffling the discard pile back in when
// the draw pile is empty. Returns false only when every card is held.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		if len(d.discard) == 0 {
			return Card{}, false
		}
		d.cards = append(d.cards, d.discard...)
		d.discard = nil
		d.shuffle()
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Discard returns traded-in cards to the discard pile.
func (d *Deck) Discard(cards []Card) {
	d.discard = append(d.discard, cards...)
}

// FindSet returns the indices of a tradeable set in the hand, or nil.
// Sets:
// 1) Three of a kind
// 2) One of each (Infantry, Cavalry, Artillery)
// 3) Any two plus a Wild
func FindSet(hand []Card) []int {
	byType := map[CardType][]int{}
	for i, c := range hand {
		byType[c.Type] = append(byType[c.Type], i)
	}

	for t, indices := range byType {
		if t != Wild && len(indices) >= 3 {
			return indices[:3]
		}
	}

	inf, cav, art := byType[Infantry], byType[Cavalry], byType[Artillery]
	if len(inf) > 0 && len(cav) > 0 && len(art) > 0 {
		return []int{inf[0], cav[0], art[0]}
	}

	if wilds := byType[Wild]; len(wilds) > 0 {
		var nonWild []int
		for i, c := range hand {
			if c.Type != Wild {
				nonWild = append(nonWild, i)
			}
		}
		if len(nonWild) >= 2 {
			return []int{nonWild[0], nonWild[1], wilds[0]}
		}
	}

	return nil
}

// ExchangeBonus returns the armies awarded for the nth traded set.
// The first set is worth 4, the second 6, the third 8, the fourth 10,
// the fifth 12, the sixth 15; each additional set is worth 5 more than
// the previous.
func ExchangeBonus(exchangeNumber int) int {
	switch exchangeNumber {
	case 1:
		return 4
	case 2:
		return 6
	case 3:
		return 8
	case 4:
		return 10
	case 5:
		return 12
	case 6:
		return 15
	default:
		return 15 + 5*(exchangeNumber-6)
	}
}

// removeCards extracts the cards at the given indices from the hand,
// returning the removed cards and the remaining hand.
func removeCards(hand []Card, indices []int) (removed, remaining []Card) {
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, idx := range indices {
		removed = append(removed, hand[idx])
		hand = append(hand[:idx], hand[idx+1:]...)
	}
	return removed, hand
}
