package karata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPilePeekEmpty(t *testing.T) {
	p := NewPile()
	_, err := p.Peek()
	require.Error(t, err)
}

func TestPileReclaimLeavesTop(t *testing.T) {
	p := NewPile()
	p.Push(Card{Suit: Spades, Face: Five})
	p.Push(Card{Suit: Hearts, Face: Six})
	p.Push(Card{Suit: Clubs, Face: Seven})

	reclaimed, err := p.Reclaim()
	require.NoError(t, err)
	require.ElementsMatch(t, []Card{{Suit: Spades, Face: Five}, {Suit: Hearts, Face: Six}}, reclaimed)

	top, err := p.Peek()
	require.NoError(t, err)
	require.Equal(t, Card{Suit: Clubs, Face: Seven}, top)
	require.Equal(t, 1, p.Count())
}

func TestPileReclaimFailsWithFewerThanTwoCards(t *testing.T) {
	p := NewPile()
	p.Push(Card{Suit: Spades, Face: Five})

	_, err := p.Reclaim()
	require.Error(t, err)
	require.Equal(t, 1, p.Count(), "a failed Reclaim must not mutate the pile")
}
