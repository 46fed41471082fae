package karata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmptyTurnAlwaysValid(t *testing.T) {
	state := TableState{Top: Card{Suit: Hearts, Face: Seven}}
	require.Nil(t, Validate(state, nil))
}

func TestGenerateDeltaEmptyTurn(t *testing.T) {
	d := GenerateDelta(TableState{Pick: 0}, nil)
	require.Equal(t, uint(1), d.Pick)
	require.Equal(t, uint(1), d.Skip)
	require.False(t, d.Reverse)

	d = GenerateDelta(TableState{Pick: 3}, nil)
	require.Equal(t, uint(3), d.Pick)
}

// Scenario 1: opening mismatch.
func TestValidateOpeningMismatch(t *testing.T) {
	state := TableState{Top: Card{Suit: Hearts, Face: Seven}}
	err := Validate(state, []Card{{Suit: Spades, Face: Five}})
	require.Error(t, err)
	require.Equal(t, InvalidFirstCard, err.Kind)
}

// Scenario 2: bomb attack and defense.
func TestBombAttackAndDefense(t *testing.T) {
	state := TableState{Top: Card{Suit: BlackJoker}, Pick: 5}

	cards := []Card{{Suit: RedJoker}}
	require.Nil(t, Validate(state, cards))
	d := GenerateDelta(state, cards)
	require.Equal(t, uint(5), d.Give)
	require.Equal(t, uint(0), d.Pick)

	err := Validate(state, []Card{{Suit: Spades, Face: Two}})
	require.Error(t, err)
	require.Equal(t, DrawCards, err.Kind)
}

// Scenario 3: an Ace discharges an outstanding suit request.
func TestAceDischargesSuitRequest(t *testing.T) {
	req := Card{Suit: Clubs}
	state := TableState{
		Top:            Card{Suit: Clubs, Face: Six},
		CurrentRequest: &req,
		RequestLevel:   SuitRequest,
	}
	cards := []Card{{Suit: Hearts, Face: Ace}} // ace value 1, matches L=1 exactly
	require.Nil(t, Validate(state, cards))

	d := GenerateDelta(state, cards)
	require.Equal(t, uint(1), d.RemoveRequestLevels)
	require.Equal(t, NoRequest, d.RequestLevel, "one non-spades ace exactly discharges a SuitRequest")
}

// Scenario 4: question then answer; the last card played is itself a
// question, so the player still draws one.
func TestQuestionThenAnswer(t *testing.T) {
	state := TableState{Top: Card{Suit: Diamonds, Face: Four}}
	cards := []Card{{Suit: Diamonds, Face: Eight}, {Suit: Hearts, Face: Eight}}
	require.Nil(t, Validate(state, cards))

	d := GenerateDelta(state, cards)
	require.Equal(t, uint(1), d.Pick)
	require.Equal(t, uint(0), d.Give)
}

// Scenario 5: a Jack adds to skip without flipping direction.
func TestJackSkip(t *testing.T) {
	state := TableState{Top: Card{Suit: Spades, Face: Five}}
	cards := []Card{{Suit: Spades, Face: Jack}}
	require.Nil(t, Validate(state, cards))

	d := GenerateDelta(state, cards)
	require.Equal(t, uint(2), d.Skip)
	require.False(t, d.Reverse)
}

func TestChainingRequiresAnswerToQuestion(t *testing.T) {
	state := TableState{Top: Card{Suit: Diamonds, Face: Four}}
	cards := []Card{{Suit: Diamonds, Face: Eight}, {Suit: Clubs, Face: King}}
	err := Validate(state, cards)
	require.Error(t, err)
	require.Equal(t, InvalidAnswer, err.Kind)
}

func TestChainingRequiresSameFaceOutsideQuestion(t *testing.T) {
	state := TableState{Top: Card{Suit: Diamonds, Face: Four}}
	cards := []Card{{Suit: Diamonds, Face: Four}, {Suit: Clubs, Face: Five}}
	err := Validate(state, cards)
	require.Error(t, err)
	require.Equal(t, InvalidCardSequence, err.Kind)
}

func TestChainingAceMustFollowQuestionOrAce(t *testing.T) {
	state := TableState{Top: Card{Suit: Diamonds, Face: Four}}
	cards := []Card{{Suit: Diamonds, Face: Four}, {Suit: Clubs, Face: Ace}}
	err := Validate(state, cards)
	require.Error(t, err)
	require.Equal(t, SubsequentAceOrJoker, err.Kind)
}

func TestHonorOutstandingCardRequest(t *testing.T) {
	req := Card{Suit: Clubs, Face: Nine}
	state := TableState{
		Top:            Card{Suit: Clubs, Face: Nine},
		CurrentRequest: &req,
		RequestLevel:   CardRequest,
	}

	err := Validate(state, []Card{{Suit: Clubs, Face: Ten}})
	require.Error(t, err)
	require.Equal(t, CardRequested, err.Kind)

	require.Nil(t, Validate(state, []Card{{Suit: Clubs, Face: Nine}}))
}

func TestSkipSemantics(t *testing.T) {
	top := Card{Suit: Hearts, Face: Five}

	t.Run("odd kings with jacks", func(t *testing.T) {
		d := GenerateDelta(TableState{Top: top}, []Card{
			{Suit: Hearts, Face: Jack}, {Suit: Hearts, Face: King}, {Suit: Clubs, Face: King}, {Suit: Clubs, Face: King},
		})
		require.Equal(t, uint(2), d.Skip) // 1 + 1 jack; 3 kings is odd so no override
	})

	t.Run("positive even kings forces replay", func(t *testing.T) {
		d := GenerateDelta(TableState{Top: top}, []Card{
			{Suit: Hearts, Face: King}, {Suit: Clubs, Face: King},
		})
		require.Equal(t, uint(0), d.Skip)
	})

	t.Run("no kings default skip", func(t *testing.T) {
		d := GenerateDelta(TableState{Top: top}, []Card{{Suit: Hearts, Face: Five}})
		require.Equal(t, uint(1), d.Skip)
	})
}

func TestGenerateDeltaIsPure(t *testing.T) {
	state := TableState{Top: Card{Suit: Hearts, Face: Five}, Pick: 2}
	cards := []Card{{Suit: Hearts, Face: Five}, {Suit: Clubs, Face: Five}}

	first := GenerateDelta(state, cards)
	second := GenerateDelta(state, cards)
	require.Equal(t, first, second)
	require.Equal(t, Card{Suit: Hearts, Face: Five}, state.Top, "GenerateDelta must not mutate its input")
}
