// Package server hosts the Karata room registry and wires it to the
// karatarpc transport: incoming RPCs call into internal/karata.Room and
// internal/karata.Orchestrator, and the orchestrator's emitted events
// are broadcast back out over Subscribe streams.
package server

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"sync"

	"github.com/decred/slog"
	"github.com/sixpeteunder/Karata/internal/karata"
	"github.com/sixpeteunder/Karata/pkg/logging"
	"github.com/sixpeteunder/Karata/pkg/server/internal/db"
)

// Server implements karatarpc.KarataServiceServer over a registry of
// in-memory rooms, each backed by a karata.Room.
type Server struct {
	log        slog.Logger
	logBackend *logging.Backend
	db         *db.DB
	seed       int64

	mu      sync.RWMutex
	rooms   map[string]*karata.Room
	prompts *karata.PromptRegistry

	eventProcessor *EventProcessor

	subsMu sync.RWMutex
	subs   map[string]map[string]*subscriberStream // roomID -> playerID -> stream
}

// NewServer creates a room registry backed by database and logBackend.
// If seed is non-zero every room's deck shuffle uses a deterministic
// RNG derived from it (seed XOR a per-room hash), which is what makes
// end-to-end tests reproducible; seed zero draws fresh entropy per room.
func NewServer(database *db.DB, logBackend *logging.Backend, seed int64) *Server {
	s := &Server{
		log:        logBackend.Logger("SERVER"),
		logBackend: logBackend,
		db:         database,
		seed:       seed,
		rooms:      make(map[string]*karata.Room),
		prompts:    karata.NewPromptRegistry(),
		subs:       make(map[string]map[string]*subscriberStream),
	}
	s.eventProcessor = NewEventProcessor(s, 256, 4)
	s.eventProcessor.Start()

	if err := s.loadRooms(); err != nil {
		s.log.Errorf("failed to load persisted rooms: %v", err)
	}
	return s
}

// loadRooms restores unstarted room rosters from the database on
// startup. A room whose game had already started cannot be resumed
// mid-turn (the orchestrator's in-flight prompt state isn't
// persisted) so such rooms are logged and dropped rather than
// silently corrupted.
func (s *Server) loadRooms() error {
	ids, err := s.db.ListRoomIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		rec, err := s.db.LoadRoom(id)
		if err != nil {
			s.log.Errorf("loading room %s: %v", id, err)
			continue
		}
		if rec.Snapshot != nil {
			s.log.Warnf("room %s had a game in progress at shutdown; dropping (resume is not supported mid-turn)", id)
			continue
		}
		room := karata.NewRoom(karata.RoomConfig{
			ID:         rec.ID,
			HostID:     rec.HostID,
			MinPlayers: rec.MinPlayers,
			MaxPlayers: rec.MaxPlayers,
		})
		for _, p := range rec.Players {
			if err := room.Join(p); err != nil {
				s.log.Errorf("restoring player %s into room %s: %v", p, id, err)
			}
		}
		s.rooms[id] = room
	}
	return nil
}

// roomRNG returns a deterministic RNG for roomID when the server was
// configured with a fixed seed, or one seeded from crypto/rand otherwise.
func (s *Server) roomRNG(roomID string) *mrand.Rand {
	if s.seed != 0 {
		h := fnv64a(roomID)
		return mrand.New(mrand.NewSource(s.seed ^ int64(h)))
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return mrand.New(mrand.NewSource(1))
	}
	return mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(buf[:]))))
}

func fnv64a(s string) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// Stop stops the event processor. Safe to call once during
// shutdown; the sqlite handle is owned by the caller and closed
// separately.
func (s *Server) Stop() {
	s.eventProcessor.Stop()
}

func (s *Server) getRoom(roomID string) (*karata.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("karata: room %s not found", roomID)
	}
	return room, nil
}

// persistSnapshot is passed to every karata.Orchestrator as its
// PersistFunc, the core's persistence boundary hook.
func (s *Server) persistSnapshot(roomID string, snap karata.Snapshot) {
	data, err := marshalSnapshot(snap)
	if err != nil {
		s.log.Errorf("marshaling snapshot for room %s: %v", roomID, err)
		return
	}
	if err := s.db.SaveSnapshot(roomID, data); err != nil {
		s.log.Errorf("saving snapshot for room %s: %v", roomID, err)
	}
}
