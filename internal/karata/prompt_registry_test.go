package karata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromptRegistryCardRoundTrip(t *testing.T) {
	r := NewPromptRegistry()
	fut, err := r.AwaitCardPrompt("conn1")
	require.NoError(t, err)

	r.ResolveCardRequest("conn1", Card{Suit: Hearts, Face: Ace})

	select {
	case <-fut.Done():
		require.NoError(t, fut.Err())
		require.Equal(t, Card{Suit: Hearts, Face: Ace}, fut.Value())
	case <-time.After(time.Second):
		t.Fatal("future never resolved")
	}
}

func TestPromptRegistryRejectsDoubleOutstandingPrompt(t *testing.T) {
	r := NewPromptRegistry()
	_, err := r.AwaitCardPrompt("conn1")
	require.NoError(t, err)

	_, err = r.AwaitCardPrompt("conn1")
	require.Error(t, err, "a second outstanding prompt for the same connection must be rejected")
}

func TestPromptRegistrySpuriousResolveIsIgnored(t *testing.T) {
	r := NewPromptRegistry()
	require.NotPanics(t, func() {
		r.ResolveCardRequest("ghost", Card{Suit: Spades, Face: King})
		r.ResolveLastCard("ghost", true)
	})
}

func TestPromptRegistryDisconnectCancelsPending(t *testing.T) {
	r := NewPromptRegistry()
	cardFut, err := r.AwaitCardPrompt("conn1")
	require.NoError(t, err)
	lastFut, err := r.AwaitLastCardPrompt("conn1")
	require.NoError(t, err)

	r.Disconnect("conn1")

	<-cardFut.Done()
	require.ErrorIs(t, cardFut.Err(), ErrPromptDisconnected)
	<-lastFut.Done()
	require.ErrorIs(t, lastFut.Err(), ErrPromptDisconnected)

	// After disconnect, a new prompt for the same connection is allowed.
	_, err = r.AwaitCardPrompt("conn1")
	require.NoError(t, err)
}
