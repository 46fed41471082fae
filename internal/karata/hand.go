package karata

import "fmt"

// Hand is the unordered multiset of cards held by one player, together
// with the last-card declaration flag.
type Hand struct {
	// PlayerID identifies the owning connection/seat.
	PlayerID string

	cards      []Card
	isLastCard bool
}

// NewHand creates an empty hand for the given player.
func NewHand(playerID string) *Hand {
	return &Hand{PlayerID: playerID, cards: make([]Card, 0, 8)}
}

// Cards returns a copy of the hand's contents, for snapshotting.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Count returns the number of cards in the hand.
func (h *Hand) Count() int {
	return len(h.cards)
}

// IsEmpty reports whether the hand holds no cards.
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// IsLastCard reports whether the player has declared last-card status and
// has not since drawn a card.
func (h *Hand) IsLastCard() bool {
	return h.isLastCard
}

// DeclareLastCard sets the last-card flag.
func (h *Hand) DeclareLastCard() {
	h.isLastCard = true
}

// Add inserts cards into the hand. Receiving any card clears a prior
// last-card declaration.
func (h *Hand) Add(cards ...Card) {
	if len(cards) == 0 {
		return
	}
	h.cards = append(h.cards, cards...)
	h.isLastCard = false
}

// Remove deletes cards from the hand by value (multiset removal). It
// fails without mutating the hand if any card is not present in
// sufficient quantity.
func (h *Hand) Remove(cards ...Card) error {
	remaining := make([]Card, len(h.cards))
	copy(remaining, h.cards)

	for _, want := range cards {
		idx := -1
		for i, have := range remaining {
			if have == want {
				idx = i
				break
			}
		}
		if idx == -1 {
			return fmt.Errorf("karata: card %s not found in hand", want)
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	h.cards = remaining
	return nil
}

// Has reports whether the hand contains the given card at least once.
func (h *Hand) Has(c Card) bool {
	for _, have := range h.cards {
		if have == c {
			return true
		}
	}
	return false
}
