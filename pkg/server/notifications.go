package server

import (
	"encoding/json"

	"github.com/sixpeteunder/Karata/internal/karata"
	"github.com/sixpeteunder/Karata/pkg/rpc/karatarpc"
)

// subscriberStream is one open Subscribe call: events for its room are
// pushed onto ch until the stream's context is cancelled.
type subscriberStream struct {
	playerID string
	ch       chan *karatarpc.GameEvent
	done     chan struct{}
}

func (s *Server) addSubscriber(roomID, playerID string) *subscriberStream {
	sub := &subscriberStream{
		playerID: playerID,
		ch:       make(chan *karatarpc.GameEvent, 64),
		done:     make(chan struct{}),
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.subs[roomID] == nil {
		s.subs[roomID] = make(map[string]*subscriberStream)
	}
	s.subs[roomID][playerID] = sub
	return sub
}

func (s *Server) removeSubscriber(roomID, playerID string, sub *subscriberStream) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if existing, ok := s.subs[roomID][playerID]; ok && existing == sub {
		delete(s.subs[roomID], playerID)
	}
	close(sub.done)
	s.prompts.Disconnect(playerID)
}

// Subscribe implements karatarpc.KarataServiceServer's server-streaming
// RPC: it registers a subscriber stream for the room and blocks,
// pumping events, until the client disconnects.
func (s *Server) Subscribe(req *karatarpc.SubscribeRequest, stream karatarpc.KarataService_SubscribeServer) error {
	if _, err := s.getRoom(req.InviteLink); err != nil {
		return err
	}
	sub := s.addSubscriber(req.InviteLink, req.PlayerID)
	defer s.removeSubscriber(req.InviteLink, req.PlayerID, sub)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-sub.ch:
			if err := stream.Send(ev); err != nil {
				return err
			}
		}
	}
}

// broadcast fans a karata.Event out to every subscriber of its room (or
// just its Target, when the event is targeted at one connection). It
// never blocks: a subscriber whose channel is full is skipped, since a
// slow reader must not stall the game.
func (s *Server) broadcast(e karata.Event) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		s.log.Errorf("marshaling payload for event %s: %v", e.Type, err)
		return
	}
	wire := &karatarpc.GameEvent{
		Type:    string(e.Type),
		RoomID:  e.RoomID,
		Target:  e.Target,
		Payload: payload,
	}

	s.subsMu.RLock()
	room := s.subs[e.RoomID]
	var targets []*subscriberStream
	if e.Target != "" {
		if sub, ok := room[e.Target]; ok {
			targets = append(targets, sub)
		}
	} else {
		for _, sub := range room {
			targets = append(targets, sub)
		}
	}
	s.subsMu.RUnlock()

	for _, sub := range targets {
		select {
		case sub.ch <- wire:
		default:
			s.log.Warnf("subscriber %s in room %s is backed up, dropping event %s", sub.playerID, e.RoomID, e.Type)
		}
	}
}
