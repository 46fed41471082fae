package karata

// RequestLevel mirrors the strength of an outstanding Ace request: none,
// suit-only, or suit-and-face.
type RequestLevel int

const (
	NoRequest RequestLevel = iota
	SuitRequest
	CardRequest
)

func (l RequestLevel) String() string {
	switch l {
	case NoRequest:
		return "NoRequest"
	case SuitRequest:
		return "SuitRequest"
	case CardRequest:
		return "CardRequest"
	default:
		return "RequestLevel(unknown)"
	}
}

// TableState is the read-only slice of game state the rule engine needs
// to validate a play and compute its effects: the pile's top card, any
// outstanding request, and the pick counter the acting player must
// currently satisfy. It is a snapshot — the engine never mutates it.
type TableState struct {
	Top            Card
	CurrentRequest *Card
	RequestLevel   RequestLevel
	Pick           uint
}

// Delta describes the structured consequences of a played sequence,
// produced by GenerateDelta for the orchestrator to apply. The rule
// engine never applies a Delta itself.
type Delta struct {
	Cards []Card

	Pick    uint
	Give    uint
	Skip    uint
	Reverse bool

	RequestLevel        RequestLevel
	RemoveRequestLevels uint
}

// Validate checks a played sequence against the current table state and
// returns nil if it is legal, or the specific TurnErrorKind that rejects
// it. It performs no mutation and has no side effects: calling it twice
// with the same arguments always yields the same result.
func Validate(state TableState, cards []Card) *TurnError {
	if len(cards) == 0 {
		return nil
	}

	first := cards[0]

	// 1. Honor an outstanding request.
	if state.RequestLevel != NoRequest && first.Face != Ace {
		req := state.CurrentRequest
		if state.RequestLevel == CardRequest && first.Face != req.Face {
			return newTurnError(CardRequested, "must play a %s to satisfy the outstanding request", req.Face)
		}
		if first.Suit != req.Suit {
			return newTurnError(CardRequested, "must play a card of %s to satisfy the outstanding request", req.Suit)
		}
	}

	// 2. Counter a bomb attack.
	if state.Top.IsBomb() && state.Pick > 0 && first.Face != Ace {
		if state.Top.IsJoker() {
			if !first.IsJoker() {
				return newTurnError(DrawCards, "only a joker counters a joker")
			}
		} else if !first.IsBomb() {
			return newTurnError(DrawCards, "must counter %s with a bomb", state.Top)
		}
	}

	// 3. Opening card legality.
	if !openingIsLegal(first, state.Top) {
		return newTurnError(InvalidFirstCard, "%s cannot be played on %s", first, state.Top)
	}

	// 4. Chaining.
	for i := 1; i < len(cards); i++ {
		prev, cur := cards[i-1], cards[i]
		switch {
		case cur.Face == Ace:
			if !(prev.IsQuestion() || prev.Face == Ace) {
				return newTurnError(SubsequentAceOrJoker, "an Ace must follow a question or another Ace, not %s", prev)
			}
		case cur.IsJoker():
			if !(prev.IsQuestion() || prev.IsJoker()) {
				return newTurnError(SubsequentAceOrJoker, "a joker must follow a question or another joker, not %s", prev)
			}
		case prev.IsQuestion():
			if !(cur.Face == prev.Face || cur.Suit == prev.Suit) {
				return newTurnError(InvalidAnswer, "%s does not answer %s", cur, prev)
			}
		default:
			if cur.Face != prev.Face {
				return newTurnError(InvalidCardSequence, "%s does not chain from %s", cur, prev)
			}
		}
	}

	return nil
}

func openingIsLegal(first, top Card) bool {
	return first.Face == Ace ||
		first.IsJoker() ||
		top.Face == Ace ||
		top.IsJoker() ||
		first.Face == top.Face ||
		first.Suit == top.Suit
}

// GenerateDelta computes the structured effect of a played sequence. The
// caller must have already confirmed Validate returns nil (or that the
// sequence is empty); GenerateDelta itself performs no validation.
func GenerateDelta(state TableState, cards []Card) Delta {
	if len(cards) == 0 {
		return emptyTurnDelta(state)
	}

	d := Delta{Cards: cards, Skip: 1}

	kings := 0
	for _, c := range cards {
		if c.Face == Jack {
			d.Skip++
		}
		if c.Face == King {
			d.Reverse = !d.Reverse
			kings++
		}
	}

	last := cards[len(cards)-1]
	switch {
	case last.IsQuestion():
		d.Pick = 1
		return d
	case last.IsBomb():
		d.Give = last.PickValue()
		return d
	case last.Face == Ace:
		applyAceRequest(&d, state, cards)
	}

	if kings > 0 && kings%2 == 0 {
		d.Skip = 0
	}

	return d
}

// emptyTurnDelta computes the Delta for a skipped turn (k=0), which is
// always valid: the player must draw at least one card (more if a bomb
// attack was already in flight), and any outstanding request persists.
func emptyTurnDelta(state TableState) Delta {
	pick := state.Pick
	if pick < 1 {
		pick = 1
	}
	return Delta{Skip: 1, Pick: pick, RequestLevel: NoRequest}
}

// applyAceRequest implements the Ace branch of delta generation: spent
// aces discharge levels of the current request, one ace is reserved to
// defend an in-flight pick, and any strength left over raises a new
// request.
func applyAceRequest(d *Delta, state TableState, cards []Card) {
	var aces int
	for _, c := range cards {
		aces += int(c.AceValue())
	}

	level := int(state.RequestLevel)
	removed := aces
	if level < removed {
		removed = level
	}
	d.RemoveRequestLevels = uint(removed)
	aces -= level

	if state.Pick > 0 {
		aces--
	}

	if aces > 0 {
		if aces > 1 {
			d.RequestLevel = CardRequest
		} else {
			d.RequestLevel = SuitRequest
		}
	}
}
