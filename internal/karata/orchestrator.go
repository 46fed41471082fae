package karata

import (
	"context"
	"fmt"

	"github.com/decred/slog"
	"github.com/sixpeteunder/Karata/pkg/statemachine"
)

// lifecycleEntity carries the detail an end-of-game transition needs; it
// is the "entity" a statemachine.StateMachine dispatches over.
type lifecycleEntity struct {
	ended  bool
	reason string
	winner *string
}

// stateInProgress is the lifecycle's sole non-terminal state: it stays
// put until endGame marks the entity ended, then hands off to
// stateEnded and reports the transition through the callback.
func stateInProgress(e *lifecycleEntity, cb func(string, statemachine.StateEvent)) statemachine.StateFn[lifecycleEntity] {
	if !e.ended {
		return stateInProgress
	}
	if cb != nil {
		cb("InProgress", statemachine.StateExited)
		cb("Ended", statemachine.StateEntered)
	}
	return stateEnded
}

func stateEnded(e *lifecycleEntity, cb func(string, statemachine.StateEvent)) statemachine.StateFn[lifecycleEntity] {
	return stateEnded
}

// PersistFunc is the collaborator-supplied persistence hook invoked
// after every state-changing step of a turn. The core does not dictate
// storage format.
type PersistFunc func(roomID string, snap Snapshot)

// errTurnAborted marks a turn that ended the game mid-flight because
// replenishment failed, rather than completing normally. PerformTurn still returns nil in this case: the game ending
// is not a failure of the call itself.
var errTurnAborted = fmt.Errorf("karata: turn aborted, game ended")

// Orchestrator drives PerformTurn end-to-end for a single room's game.
// Turn processing within one Orchestrator is strictly serialized:
// PerformTurn takes the turn mutex for its entire duration, including
// any prompt awaits.
type Orchestrator struct {
	RoomID  string
	Game    *Game
	Prompts *PromptRegistry
	Sink    EventSink
	Persist PersistFunc
	Log     slog.Logger

	turnMu    chan struct{} // 1-buffered binary semaphore; see lock/unlock
	lifecycle *statemachine.StateMachine[lifecycleEntity]
	lifeEnt   *lifecycleEntity
}

// NewOrchestrator wires a Game to its room's prompt registry, event
// sink, and persistence hook.
func NewOrchestrator(roomID string, game *Game, prompts *PromptRegistry, sink EventSink, persist PersistFunc, log slog.Logger) *Orchestrator {
	if sink == nil {
		sink = DiscardSink{}
	}
	ent := &lifecycleEntity{}
	o := &Orchestrator{
		RoomID:    roomID,
		Game:      game,
		Prompts:   prompts,
		Sink:      sink,
		Persist:   persist,
		Log:       log,
		turnMu:    make(chan struct{}, 1),
		lifecycle: statemachine.NewStateMachine(ent, stateInProgress),
		lifeEnt:   ent,
	}
	o.turnMu <- struct{}{}
	return o
}

func (o *Orchestrator) lock(ctx context.Context) error {
	select {
	case <-o.turnMu:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) unlock() {
	o.turnMu <- struct{}{}
}

func (o *Orchestrator) emit(e Event) {
	if e.RoomID == "" {
		e.RoomID = o.RoomID
	}
	o.Sink.Publish(e)
}

func (o *Orchestrator) persist() {
	if o.Persist != nil {
		o.Persist(o.RoomID, o.Game.GetSnapshot())
	}
}

// PerformTurn is the single entry point for playing a turn: it
// validates the caller's turn, runs the rule engine, applies its
// Delta, conducts any inline prompts, replenishes the deck, checks for
// a win, and advances turn order.
func (o *Orchestrator) PerformTurn(ctx context.Context, conn string, cards []Card) error {
	// Step 1a: reject a second concurrent call for conn outright rather
	// than letting it block on turnMu until conn's live prompt resolves.
	if o.Prompts.HasOutstanding(conn) {
		err := newOrchestrationError(OutstandingPrompt, "connection %s already has an outstanding prompt", conn)
		o.emit(Event{Type: EventSystemMessage, Target: conn, Payload: SystemMessagePayload{Text: err.Error(), Severity: SeverityError}})
		o.emit(Event{Type: EventNotifyTurnProcessed, Target: conn, Payload: TurnProcessedPayload{PlayerID: conn, Valid: false}})
		return err
	}

	if err := o.lock(ctx); err != nil {
		return err
	}
	defer o.unlock()

	// Step 1b: remaining orchestration-level admission checks.
	if !o.Game.IsStarted() {
		return newOrchestrationError(NotStarted, "room %s has not started", o.RoomID)
	}
	current, err := o.Game.CurrentPlayerID()
	if err != nil {
		return err
	}
	if current != conn {
		return newOrchestrationError(NotYourTurn, "it is %s's turn, not %s", current, conn)
	}

	idx, err := o.Game.PlayerIndex(conn)
	if err != nil {
		return err
	}

	// Step 2: roll counters. Cards owed from the previous turn become
	// this player's problem.
	pick, give := o.Game.Counters()
	pick, give = give, 0
	o.Game.SetCounters(pick, give)

	// Step 3: rule engine.
	state, err := o.Game.TableState()
	if err != nil {
		return fmt.Errorf("karata: reading table state: %w", err)
	}

	if turnErr := Validate(state, cards); turnErr != nil {
		o.emit(Event{Type: EventSystemMessage, Target: conn, Payload: SystemMessagePayload{Text: turnErr.Error(), Severity: SeverityError}})
		o.emit(Event{Type: EventNotifyTurnProcessed, Target: conn, Payload: TurnProcessedPayload{PlayerID: conn, Valid: false}})
		o.Game.LogTurn(TurnLogEntry{PlayerID: conn, Cards: cards, Err: turnErr})
		return turnErr
	}
	delta := GenerateDelta(state, cards)

	hand, err := o.Game.Hand(idx)
	if err != nil {
		return err
	}

	// Step 4: apply the play.
	if len(cards) > 0 {
		for _, c := range cards {
			o.Game.PushToPile(c)
		}
		o.emit(Event{Type: EventAddCardRangeToPile, Payload: cards})
		if err := hand.Remove(cards...); err != nil {
			return fmt.Errorf("karata: removing played cards from hand: %w", err)
		}
		o.emit(Event{Type: EventRemoveCardRangeFromHand, Target: conn, Payload: cards})
		o.emit(Event{Type: EventRemoveCardsFromPlayerHand, Payload: RemoveCardsFromPlayerHandPayload{PlayerID: conn, Count: uint(len(cards))}})
	}
	o.emit(Event{Type: EventNotifyTurnProcessed, Target: conn, Payload: TurnProcessedPayload{PlayerID: conn, Valid: true}})
	o.Game.LogTurn(TurnLogEntry{PlayerID: conn, Cards: cards})

	// Step 5: request bookkeeping.
	if delta.RemoveRequestLevels > 0 {
		o.Game.SetRequest(nil, NoRequest)
		o.emit(Event{Type: EventSetCurrentRequest, Payload: (*Card)(nil)})
	}
	if delta.RequestLevel != NoRequest {
		req, err := o.awaitCardRequest(ctx, conn, delta.RequestLevel)
		if err != nil {
			return o.abortOnDisconnect(conn, err)
		}
		o.Game.SetRequest(&req, delta.RequestLevel)
		o.emit(Event{Type: EventSetCurrentRequest, Payload: &req})
		last := o.lastTurnLog()
		if last != nil {
			last.Request = &req
		}
	}

	// Step 6: direction and counters.
	if delta.Reverse {
		o.Game.SetDirectionForward(!o.Game.IsForward())
	}
	o.Game.SetCounters(delta.Pick, delta.Give)

	// Step 7: replenishment.
	if delta.Pick > 0 {
		if err := o.replenish(hand, conn, delta.Pick, delta.Give); err != nil {
			return o.abortOnDisconnect(conn, err)
		}
	}

	// Step 8: win / last-card check. Only meaningful when a sequence was
	// actually played; an empty turn can never empty the hand.
	if len(cards) > 0 {
		if done, err := o.checkWinOrLastCard(ctx, conn, hand, cards[len(cards)-1]); done || err != nil {
			return o.abortOnDisconnect(conn, err)
		}
	}

	// Step 9: advance turn.
	o.Game.AdvanceTurn(delta.Skip)
	o.emit(Event{Type: EventUpdateTurn, Payload: o.Game.CurrentTurn()})
	o.persist()

	return nil
}

// awaitCardRequest prompts conn for a suit (SuitRequest) or full card
// (CardRequest) and blocks until answered or cancelled.
func (o *Orchestrator) awaitCardRequest(ctx context.Context, conn string, level RequestLevel) (Card, error) {
	fut, err := o.Prompts.AwaitCardPrompt(conn)
	if err != nil {
		return Card{}, err
	}
	o.emit(Event{Type: EventPromptCardRequest, Target: conn, Payload: PromptCardRequestPayload{Specific: level == CardRequest}})

	select {
	case <-fut.Done():
		if err := fut.Err(); err != nil {
			return Card{}, err
		}
		return fut.Value(), nil
	case <-ctx.Done():
		o.Prompts.Disconnect(conn)
		return Card{}, ctx.Err()
	}
}

// awaitLastCardAnswer prompts conn with a yes/no last-card declaration.
func (o *Orchestrator) awaitLastCardAnswer(ctx context.Context, conn string) (bool, error) {
	fut, err := o.Prompts.AwaitLastCardPrompt(conn)
	if err != nil {
		return false, err
	}
	o.emit(Event{Type: EventPromptLastCardRequest, Target: conn})

	select {
	case <-fut.Done():
		if err := fut.Err(); err != nil {
			return false, err
		}
		return fut.Value(), nil
	case <-ctx.Done():
		o.Prompts.Disconnect(conn)
		return false, ctx.Err()
	}
}

// replenish deals pick cards to conn's hand,
// reclaiming and reshuffling the pile if the deck alone cannot cover it,
// or ending the game if even the pile cannot.
func (o *Orchestrator) replenish(hand *Hand, conn string, pick, give uint) error {
	dealt, err := o.Game.TryDealMany(pick)
	if err == nil {
		o.emit(Event{Type: EventRemoveCardsFromDeck, Payload: uint(len(dealt))})
		hand.Add(dealt...)
		o.emit(Event{Type: EventAddCardRangeToHand, Target: conn, Payload: dealt})
		o.emit(Event{Type: EventAddCardsToPlayerHand, Payload: AddCardsToPlayerHandPayload{PlayerID: conn, Count: uint(len(dealt))}})
		o.Game.SetCounters(0, give)
		o.persist()
		return nil
	}

	if o.Game.PileCount()+o.Game.DeckCount()-1 <= int(pick) {
		o.endGame("insufficient cards to replenish the deck", nil)
		return errTurnAborted
	}

	reclaimed, err := o.Game.ReclaimPile()
	if err != nil {
		o.endGame("insufficient cards to replenish the deck", nil)
		return errTurnAborted
	}
	o.emit(Event{Type: EventReclaimPile})
	for _, c := range reclaimed {
		o.Game.PushToDeck(c)
	}
	o.Game.ShuffleDeck()
	o.emit(Event{Type: EventAddCardsToDeck, Payload: uint(len(reclaimed))})

	dealt, err = o.Game.TryDealMany(pick)
	if err != nil {
		o.endGame("insufficient cards to replenish the deck", nil)
		return errTurnAborted
	}
	o.emit(Event{Type: EventRemoveCardsFromDeck, Payload: uint(len(dealt))})
	hand.Add(dealt...)
	o.emit(Event{Type: EventAddCardRangeToHand, Target: conn, Payload: dealt})
	o.emit(Event{Type: EventAddCardsToPlayerHand, Payload: AddCardsToPlayerHandPayload{PlayerID: conn, Count: uint(len(dealt))}})
	o.Game.SetCounters(0, give)
	o.persist()
	return nil
}

// checkWinOrLastCard checks whether lastPlayed emptied hand. If it did,
// it resolves a win or emits the cardless notice; if not, it prompts
// conn for a last-card declaration. The bool return reports
// whether the turn is already finished (win or abort); callers should
// stop processing when it is true.
func (o *Orchestrator) checkWinOrLastCard(ctx context.Context, conn string, hand *Hand, lastPlayed Card) (bool, error) {
	if hand.IsEmpty() {
		if hand.IsLastCard() && lastPlayed.IsBoring() {
			o.endGame(fmt.Sprintf("%s played their last card", conn), &conn)
			return true, nil
		}
		o.emit(Event{Type: EventSystemMessage, Payload: SystemMessagePayload{Text: fmt.Sprintf("%s is cardless", conn), Severity: SeverityInfo}})
		return false, nil
	}

	declare, err := o.awaitLastCardAnswer(ctx, conn)
	if err != nil {
		return true, err
	}
	if declare {
		hand.DeclareLastCard()
		o.emit(Event{Type: EventSystemMessage, Payload: SystemMessagePayload{Text: fmt.Sprintf("%s declared last card", conn), Severity: SeverityWarning}})
	}
	return false, nil
}

// endGame marks the game ended and broadcasts EndGame. It also
// drives the orchestrator's own InProgress->Ended lifecycle machine, whose
// callback logs the transition alongside the domain broadcast.
func (o *Orchestrator) endGame(reason string, winner *string) {
	if winner != nil {
		o.Game.SetWinner(*winner, reason)
	} else {
		o.Game.End(reason)
	}
	o.lifeEnt.ended = true
	o.lifeEnt.reason = reason
	o.lifeEnt.winner = winner
	o.lifecycle.Dispatch(func(state string, event statemachine.StateEvent) {
		if event == statemachine.StateEntered {
			o.Log.Infof("room %s: lifecycle -> %s (%s)", o.RoomID, state, reason)
		}
	})
	o.emit(Event{Type: EventEndGame, Payload: EndGamePayload{Reason: reason, Winner: winner}})
	o.persist()
}

// abortOnDisconnect translates a prompt cancellation into the
// termination treatment: the game ends, and PerformTurn reports success
// to its caller since ending the game is not a call failure.
func (o *Orchestrator) abortOnDisconnect(conn string, err error) error {
	if err == nil {
		return nil
	}
	if err == errTurnAborted {
		return nil
	}
	o.endGame(fmt.Sprintf("%s disconnected", conn), nil)
	return nil
}

func (o *Orchestrator) lastTurnLog() *TurnLogEntry {
	o.Game.mu.Lock()
	defer o.Game.mu.Unlock()
	if len(o.Game.turns) == 0 {
		return nil
	}
	return &o.Game.turns[len(o.Game.turns)-1]
}
