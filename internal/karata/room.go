package karata

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"
)

// RoomConfig configures a new Room: 2-4 players join and ready up
// before a game can start.
type RoomConfig struct {
	ID         string
	HostID     string
	MinPlayers int
	MaxPlayers int
}

func (c RoomConfig) withDefaults() RoomConfig {
	if c.MinPlayers == 0 {
		c.MinPlayers = 2
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 4
	}
	return c
}

// Room is the join/ready/start lifecycle around one Game. A Room holds
// at most one Game at a time; once StartGame succeeds, Join/Leave no
// longer apply.
type Room struct {
	mu sync.RWMutex

	config RoomConfig
	order  []string
	ready  map[string]bool

	game         *Game
	orchestrator *Orchestrator

	createdAt  time.Time
	lastAction time.Time
}

// NewRoom creates an empty, unstarted room.
func NewRoom(cfg RoomConfig) *Room {
	cfg = cfg.withDefaults()
	now := time.Now()
	return &Room{
		config:     cfg,
		ready:      make(map[string]bool),
		createdAt:  now,
		lastAction: now,
	}
}

func (r *Room) ID() string {
	return r.config.ID
}

// Join seats a player, up to MaxPlayers, before the game starts.
func (r *Room) Join(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game != nil {
		return fmt.Errorf("karata: room %s already started", r.config.ID)
	}
	if len(r.order) >= r.config.MaxPlayers {
		return fmt.Errorf("karata: room %s is full", r.config.ID)
	}
	for _, id := range r.order {
		if id == playerID {
			return fmt.Errorf("karata: player %s already in room %s", playerID, r.config.ID)
		}
	}

	r.order = append(r.order, playerID)
	r.ready[playerID] = false
	r.lastAction = time.Now()
	return nil
}

// Leave removes a seated player before the game starts.
func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game != nil {
		return fmt.Errorf("karata: room %s already started", r.config.ID)
	}

	idx := -1
	for i, id := range r.order {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("karata: player %s not in room %s", playerID, r.config.ID)
	}

	r.order = append(r.order[:idx], r.order[idx+1:]...)
	delete(r.ready, playerID)
	r.lastAction = time.Now()
	return nil
}

// SetReady marks a seated player ready or not ready.
func (r *Room) SetReady(playerID string, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ready[playerID]; !ok {
		return fmt.Errorf("karata: player %s not in room %s", playerID, r.config.ID)
	}
	r.ready[playerID] = ready
	r.lastAction = time.Now()
	return nil
}

// AllReady reports whether enough players are seated and every seated
// player has marked ready.
func (r *Room) AllReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allReadyLocked()
}

func (r *Room) allReadyLocked() bool {
	if len(r.order) < r.config.MinPlayers {
		return false
	}
	for _, id := range r.order {
		if !r.ready[id] {
			return false
		}
	}
	return true
}

func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Room) Players() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// StartGame deals a fresh Game for the room's seated players and wires
// an Orchestrator to drive it, once at least MinPlayers are seated and
// every seated player is ready. It is an error to call twice.
func (r *Room) StartGame(rng *rand.Rand, log slog.Logger, prompts *PromptRegistry, sink EventSink, persist PersistFunc) (*Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game != nil {
		return nil, fmt.Errorf("karata: room %s already started", r.config.ID)
	}
	if !r.allReadyLocked() {
		return nil, fmt.Errorf("karata: room %s does not have enough ready players", r.config.ID)
	}

	game := NewGame(rng, log)
	for _, id := range r.order {
		if err := game.AddHand(id); err != nil {
			return nil, err
		}
	}
	if err := game.StartGame(); err != nil {
		return nil, err
	}

	r.game = game
	r.orchestrator = NewOrchestrator(r.config.ID, game, prompts, sink, persist, log)
	r.lastAction = time.Now()
	return r.orchestrator, nil
}

func (r *Room) Game() *Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game
}

func (r *Room) Orchestrator() *Orchestrator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orchestrator
}

func (r *Room) IsStarted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game != nil
}

func (r *Room) CreatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.createdAt
}

func (r *Room) LastAction() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastAction
}
