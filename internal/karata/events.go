package karata

// EventType names one of the server-to-client broadcasts produced by the
// turn orchestrator. The wire encoding of each payload is a
// transport concern; the core only produces these structured values.
type EventType string

const (
	EventAddCardRangeToPile        EventType = "add_card_range_to_pile"
	EventRemoveCardsFromDeck       EventType = "remove_cards_from_deck"
	EventAddCardsToDeck            EventType = "add_cards_to_deck"
	EventReclaimPile               EventType = "reclaim_pile"
	EventAddCardRangeToHand        EventType = "add_card_range_to_hand"
	EventRemoveCardRangeFromHand   EventType = "remove_card_range_from_hand"
	EventAddCardsToPlayerHand      EventType = "add_cards_to_player_hand"
	EventRemoveCardsFromPlayerHand EventType = "remove_cards_from_player_hand"
	EventSetCurrentRequest         EventType = "set_current_request"
	EventUpdateTurn                EventType = "update_turn"
	EventUpdateGameStatus          EventType = "update_game_status"
	EventPromptCardRequest         EventType = "prompt_card_request"
	EventPromptLastCardRequest     EventType = "prompt_last_card_request"
	EventNotifyTurnProcessed       EventType = "notify_turn_processed"
	EventSystemMessage             EventType = "receive_system_message"
	EventEndGame                   EventType = "end_game"
)

// MessageSeverity classifies a ReceiveSystemMessage event.
type MessageSeverity string

const (
	SeverityInfo    MessageSeverity = "info"
	SeverityWarning MessageSeverity = "warning"
	SeverityError   MessageSeverity = "error"
)

// Event is one broadcast produced during a turn. RoomID identifies the
// subscription group; Target, if non-empty, narrows delivery to a single
// connection (events documented as targeted carry one).
type Event struct {
	Type   EventType
	RoomID string
	Target string
	Payload any
}

// Event payloads, one struct per EventType that carries more than a
// bare count or card list.

type AddCardsToPlayerHandPayload struct {
	PlayerID string
	Count    uint
}

type RemoveCardsFromPlayerHandPayload struct {
	PlayerID string
	Count    uint
}

type SystemMessagePayload struct {
	Text     string
	Severity MessageSeverity
}

type TurnProcessedPayload struct {
	PlayerID string
	Valid    bool
}

type PromptCardRequestPayload struct {
	Specific bool // true requests a full card, false a suit only
}

type EndGamePayload struct {
	Reason string
	Winner *string
}

// EventSink receives events emitted by an Orchestrator. Implementations
// are expected to fan broadcasts out asynchronously — broadcasts must be
// non-blocking from the game's point of view, so Publish itself must
// not block on subscriber delivery.
type EventSink interface {
	Publish(Event)
}

// DiscardSink is an EventSink that drops every event; useful in tests
// that only care about the resulting Game/Delta state.
type DiscardSink struct{}

func (DiscardSink) Publish(Event) {}

// RecordingSink collects every published event in order, for tests that
// assert on the broadcast sequence.
type RecordingSink struct {
	Events []Event
}

func (s *RecordingSink) Publish(e Event) {
	s.Events = append(s.Events, e)
}
