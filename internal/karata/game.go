package karata

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/decred/slog"
)

// TurnLogEntry records the outcome of one PerformTurn call, kept on the
// Game for diagnostics. The turn log is not part of Snapshot.
type TurnLogEntry struct {
	PlayerID string
	Cards    []Card
	Err      *TurnError
	Request  *Card
}

// Game is the in-memory record for one started or pre-start table: deck,
// pile, hands, turn order, pending counters, and any outstanding request.
// All mutators are synchronous and assume the caller holds the game's
// lock for the duration of one PerformTurn — Game itself only guards
// against concurrent access from outside that discipline.
type Game struct {
	mu sync.Mutex

	deck  *Deck
	pile  *Pile
	hands []*Hand

	currentTurn    int
	isForward      bool
	give, pick     uint
	currentRequest *Card
	requestLevel   RequestLevel

	isStarted bool
	winner    *string
	ended     bool
	endReason string
	turns     []TurnLogEntry

	rng *rand.Rand
	log slog.Logger
}

// NewGame creates an empty, unstarted game. Hands are added with AddHand
// as players join; StartGame deals once enough have joined.
func NewGame(rng *rand.Rand, log slog.Logger) *Game {
	return &Game{
		deck:      NewEmptyDeck(rng),
		pile:      NewPile(),
		isForward: true,
		rng:       rng,
		log:       log,
	}
}

// AddHand registers a new player's hand, insertion-ordered by join. It
// fails once the game has started or already holds four hands.
func (g *Game) AddHand(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isStarted {
		return fmt.Errorf("karata: game already started")
	}
	if len(g.hands) >= 4 {
		return fmt.Errorf("karata: game is full")
	}
	for _, h := range g.hands {
		if h.PlayerID == playerID {
			return fmt.Errorf("karata: player %s already seated", playerID)
		}
	}
	g.hands = append(g.hands, NewHand(playerID))
	return nil
}

// StartGame shuffles a fresh standard deck, deals one boring card to
// found the pile (reshuffling and retrying on a non-boring draw), deals
// four cards to every hand, and marks the game started.
func (g *Game) StartGame() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isStarted {
		return fmt.Errorf("karata: game already started")
	}
	if len(g.hands) < 2 {
		return fmt.Errorf("karata: need at least 2 players, have %d", len(g.hands))
	}

	g.deck = NewStandardDeck(g.rng)
	g.deck.Shuffle()

	for {
		top, err := g.deck.Deal()
		if err != nil {
			return fmt.Errorf("karata: dealing starting card: %w", err)
		}
		if top.IsBoring() {
			g.pile.Push(top)
			break
		}
		g.deck.Push(top)
		g.deck.Shuffle()
	}

	for _, h := range g.hands {
		dealt, err := g.deck.DealMany(4)
		if err != nil {
			return fmt.Errorf("karata: dealing opening hand: %w", err)
		}
		h.Add(dealt...)
	}

	g.isStarted = true
	g.currentTurn = 0
	return nil
}

// --- Accessors ---

func (g *Game) IsStarted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isStarted
}

func (g *Game) NumPlayers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.hands)
}

func (g *Game) CurrentTurn() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentTurn
}

func (g *Game) CurrentPlayerID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentTurn < 0 || g.currentTurn >= len(g.hands) {
		return "", fmt.Errorf("karata: current turn %d out of range", g.currentTurn)
	}
	return g.hands[g.currentTurn].PlayerID, nil
}

func (g *Game) PlayerIndex(playerID string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, h := range g.hands {
		if h.PlayerID == playerID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("karata: player %s not seated", playerID)
}

// Hand returns the hand at index i. Callers must hold no expectation of
// concurrency safety beyond the per-game serialization PerformTurn
// already enforces.
func (g *Game) Hand(i int) (*Hand, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.hands) {
		return nil, fmt.Errorf("karata: hand index %d out of range", i)
	}
	return g.hands[i], nil
}

func (g *Game) IsForward() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isForward
}

func (g *Game) Counters() (pick, give uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pick, g.give
}

func (g *Game) CurrentRequestState() (*Card, RequestLevel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentRequest, g.requestLevel
}

func (g *Game) Winner() *string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

func (g *Game) DeckCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deck.Count()
}

func (g *Game) PileCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pile.Count()
}

// TableState snapshots the slice of game state the rule engine needs to
// validate and score a play.
func (g *Game) TableState() (TableState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	top, err := g.pile.Peek()
	if err != nil {
		return TableState{}, err
	}
	return TableState{
		Top:            top,
		CurrentRequest: g.currentRequest,
		RequestLevel:   g.requestLevel,
		Pick:           g.pick,
	}, nil
}

// --- Mutators ---

func (g *Game) PushToPile(c Card) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pile.Push(c)
}

// ReclaimPile returns all cards but the pile's top, leaving the top in
// place, and fails if fewer than two cards are present.
func (g *Game) ReclaimPile() ([]Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pile.Reclaim()
}

func (g *Game) PushToDeck(c Card) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deck.Push(c)
}

func (g *Game) ShuffleDeck() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deck.Shuffle()
}

func (g *Game) DealOne() (Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deck.Deal()
}

func (g *Game) TryDealMany(n uint) ([]Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deck.DealMany(n)
}

// SetRequest sets or clears the outstanding request and its level.
func (g *Game) SetRequest(card *Card, level RequestLevel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentRequest = card
	g.requestLevel = level
}

func (g *Game) SetDirectionForward(forward bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.isForward = forward
}

func (g *Game) SetCounters(pick, give uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pick = pick
	g.give = give
}

// AdvanceTurn moves currentTurn by skip steps in the current direction,
// one step at a time, wrapping modulo the number of hands.
func (g *Game) AdvanceTurn(skip uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := len(g.hands)
	if n == 0 {
		return
	}
	for i := uint(0); i < skip; i++ {
		if g.isForward {
			g.currentTurn = (g.currentTurn + 1) % n
		} else {
			g.currentTurn = (g.currentTurn - 1 + n) % n
		}
	}
}

// SetWinner declares a winner, ending the game.
func (g *Game) SetWinner(playerID, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w := playerID
	g.winner = &w
	g.ended = true
	g.endReason = reason
}

// End terminates the game without a winner (replenishment failure or a
// disconnect cancellation).
func (g *Game) End(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ended = true
	g.endReason = reason
}

func (g *Game) IsEnded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}

func (g *Game) EndReason() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endReason
}

// LogTurn appends a turn log entry, for diagnostics.
func (g *Game) LogTurn(entry TurnLogEntry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.turns = append(g.turns, entry)
}

// Snapshot captures a deep, order-preserving copy of game state for
// persistence. No function restores a Game from a Snapshot.
type Snapshot struct {
	Deck           []Card
	Pile           []Card
	Hands          map[string][]Card
	HandOrder      []string
	LastCard       map[string]bool
	CurrentTurn    int
	IsForward      bool
	Pick, Give     uint
	CurrentRequest *Card
	RequestLevel   RequestLevel
	IsStarted      bool
	Winner         *string
}

// GetSnapshot returns an atomic, order-preserving copy of the game's
// state.
func (g *Game) GetSnapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	hands := make(map[string][]Card, len(g.hands))
	lastCard := make(map[string]bool, len(g.hands))
	order := make([]string, len(g.hands))
	for i, h := range g.hands {
		hands[h.PlayerID] = h.Cards()
		lastCard[h.PlayerID] = h.IsLastCard()
		order[i] = h.PlayerID
	}

	var req *Card
	if g.currentRequest != nil {
		c := *g.currentRequest
		req = &c
	}
	var winner *string
	if g.winner != nil {
		w := *g.winner
		winner = &w
	}

	deckCopy := make([]Card, len(g.deck.cards))
	copy(deckCopy, g.deck.cards)

	return Snapshot{
		Deck:           deckCopy,
		Pile:           g.pile.Cards(),
		Hands:          hands,
		HandOrder:      order,
		LastCard:       lastCard,
		CurrentTurn:    g.currentTurn,
		IsForward:      g.isForward,
		Pick:           g.pick,
		Give:           g.give,
		CurrentRequest: req,
		RequestLevel:   g.requestLevel,
		IsStarted:      g.isStarted,
		Winner:         winner,
	}
}
