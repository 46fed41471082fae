package karata

import "fmt"

// Pile is the LIFO stack of cards played so far this game. The top of the
// pile is the end of the slice.
type Pile struct {
	cards []Card
}

// NewPile creates an empty pile.
func NewPile() *Pile {
	return &Pile{cards: make([]Card, 0, 54)}
}

// Push places a card on top of the pile.
func (p *Pile) Push(c Card) {
	p.cards = append(p.cards, c)
}

// Peek returns the top card without removing it. It fails if the pile is
// empty.
func (p *Pile) Peek() (Card, error) {
	if len(p.cards) == 0 {
		return Card{}, fmt.Errorf("karata: pile is empty")
	}
	return p.cards[len(p.cards)-1], nil
}

// Count returns the number of cards currently in the pile.
func (p *Pile) Count() int {
	return len(p.cards)
}

// Reclaim atomically returns all cards except the top, leaving the top as
// the pile's sole remaining card. It fails without mutating the pile if
// fewer than two cards are present, preserving the invariant that the
// pile is never empty during a started game.
func (p *Pile) Reclaim() ([]Card, error) {
	if len(p.cards) < 2 {
		return nil, fmt.Errorf("karata: pile has %d cards, need at least 2 to reclaim", len(p.cards))
	}
	top := p.cards[len(p.cards)-1]
	reclaimed := make([]Card, len(p.cards)-1)
	copy(reclaimed, p.cards[:len(p.cards)-1])
	p.cards = p.cards[:0]
	p.cards = append(p.cards, top)
	return reclaimed, nil
}

// Cards returns a copy of the pile's contents, bottom first, for
// snapshotting/persistence.
func (p *Pile) Cards() []Card {
	out := make([]Card, len(p.cards))
	copy(out, p.cards)
	return out
}
