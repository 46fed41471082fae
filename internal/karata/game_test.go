package karata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newStartedGame(t *testing.T, seed int64, players ...string) *Game {
	t.Helper()
	g := NewGame(newTestRNG(seed), newTestLogger())
	for _, p := range players {
		require.NoError(t, g.AddHand(p))
	}
	require.NoError(t, g.StartGame())
	return g
}

func totalCards(t *testing.T, g *Game) int {
	t.Helper()
	total := g.DeckCount() + g.PileCount()
	for i := 0; i < g.NumPlayers(); i++ {
		h, err := g.Hand(i)
		require.NoError(t, err)
		total += h.Count()
	}
	return total
}

func TestStartGameConservation(t *testing.T) {
	g := newStartedGame(t, 1, "a", "b", "c")
	require.Equal(t, 54, totalCards(t, g))
	require.GreaterOrEqual(t, g.PileCount(), 1)

	for i := 0; i < 3; i++ {
		h, err := g.Hand(i)
		require.NoError(t, err)
		require.Equal(t, 4, h.Count())
	}
}

func TestGetSnapshotIsDeterministicForAGivenSeed(t *testing.T) {
	g1 := newStartedGame(t, 7, "a", "b")
	g2 := newStartedGame(t, 7, "a", "b")

	if diff := cmp.Diff(g1.GetSnapshot(), g2.GetSnapshot()); diff != "" {
		t.Fatalf("two games dealt from the same seed produced different snapshots (-g1 +g2):\n%s", diff)
	}
}

func TestStartGameDealsBoringTopCard(t *testing.T) {
	for seed := int64(1); seed < 50; seed++ {
		g := newStartedGame(t, seed, "a", "b")
		top, err := g.pile.Peek()
		require.NoError(t, err)
		require.True(t, top.IsBoring(), "the founding pile card must be boring (seed %d, got %v)", seed, top)
	}
}

func TestAddHandRejectsAfterStartOrOverfull(t *testing.T) {
	g := NewGame(newTestRNG(1), newTestLogger())
	for _, p := range []string{"a", "b", "c", "d"} {
		require.NoError(t, g.AddHand(p))
	}
	require.Error(t, g.AddHand("e"), "a fifth player must be rejected")

	g2 := newStartedGame(t, 1, "a", "b")
	require.Error(t, g2.AddHand("c"), "cannot add a hand after start")
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	g := NewGame(newTestRNG(1), newTestLogger())
	require.NoError(t, g.AddHand("solo"))
	require.Error(t, g.StartGame())
}

func TestReclaimPilePreservesMultiset(t *testing.T) {
	g := newStartedGame(t, 3, "a", "b")
	g.PushToPile(Card{Suit: Hearts, Face: Five})
	g.PushToPile(Card{Suit: Clubs, Face: Six})

	before := g.pile.Cards()
	reclaimed, err := g.ReclaimPile()
	require.NoError(t, err)

	top, err := g.pile.Peek()
	require.NoError(t, err)
	require.Equal(t, before[len(before)-1], top)

	after := append(append([]Card{}, reclaimed...), top)
	require.ElementsMatch(t, before, after)
}

func TestAdvanceTurnWrapsAndRespectsDirection(t *testing.T) {
	g := newStartedGame(t, 1, "a", "b", "c")
	require.Equal(t, 0, g.CurrentTurn())

	g.AdvanceTurn(2)
	require.Equal(t, 2, g.CurrentTurn())

	g.SetDirectionForward(false)
	g.AdvanceTurn(1)
	require.Equal(t, 1, g.CurrentTurn())
}

func TestTurnIndexAlwaysInBounds(t *testing.T) {
	g := newStartedGame(t, 1, "a", "b", "c", "d")
	for skip := uint(0); skip < 20; skip++ {
		g.AdvanceTurn(skip)
		require.GreaterOrEqual(t, g.CurrentTurn(), 0)
		require.Less(t, g.CurrentTurn(), g.NumPlayers())
	}
}
