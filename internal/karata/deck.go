package karata

import (
	"fmt"
	"math/rand"
)

// Deck is a LIFO pile of cards. The top of the deck is the end of the
// slice, so Deal/Push are O(1).
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewEmptyDeck creates a deck with no cards, using the given RNG for
// future shuffles.
func NewEmptyDeck(rng *rand.Rand) *Deck {
	return &Deck{cards: make([]Card, 0, 54), rng: rng}
}

// NewStandardDeck creates a deck containing all 52 suit x non-joker-face
// combinations plus the two jokers, in unspecified initial order. Callers
// must Shuffle before dealing.
func NewStandardDeck(rng *rand.Rand) *Deck {
	d := NewEmptyDeck(rng)
	for _, s := range standardSuits {
		for _, f := range standardFaces {
			d.cards = append(d.cards, Card{Suit: s, Face: f})
		}
	}
	d.cards = append(d.cards, Card{Suit: BlackJoker, Face: None})
	d.cards = append(d.cards, Card{Suit: RedJoker, Face: None})
	return d
}

// Shuffle randomizes the order of the deck's cards in place via
// Fisher-Yates (rand.Rand.Shuffle).
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal pops and returns the top card. It fails if the deck is empty.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, fmt.Errorf("karata: deck is empty")
	}
	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards = d.cards[:last]
	return c, nil
}

// DealMany pops and returns the top n cards, top-of-deck first. It fails
// without mutating the deck if fewer than n cards remain.
func (d *Deck) DealMany(n uint) ([]Card, error) {
	if uint(len(d.cards)) < n {
		return nil, fmt.Errorf("karata: deck has %d cards, cannot deal %d", len(d.cards), n)
	}
	out := make([]Card, n)
	for i := uint(0); i < n; i++ {
		last := len(d.cards) - 1
		out[i] = d.cards[last]
		d.cards = d.cards[:last]
	}
	return out, nil
}

// Push places a card on top of the deck.
func (d *Deck) Push(c Card) {
	d.cards = append(d.cards, c)
}

// Count returns the number of cards remaining in the deck.
func (d *Deck) Count() int {
	return len(d.cards)
}
