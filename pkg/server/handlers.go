package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/sixpeteunder/Karata/internal/karata"
	"github.com/sixpeteunder/Karata/pkg/rpc/karatarpc"
)

func newInviteLink() (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

func cardToMsg(c karata.Card) karatarpc.CardMsg {
	return karatarpc.CardMsg{Suit: int32(c.Suit), Face: int32(c.Face)}
}

func cardFromMsg(m karatarpc.CardMsg) karata.Card {
	return karata.Card{Suit: karata.Suit(m.Suit), Face: karata.Face(m.Face)}
}

func cardsFromMsgs(ms []karatarpc.CardMsg) []karata.Card {
	out := make([]karata.Card, len(ms))
	for i, m := range ms {
		out[i] = cardFromMsg(m)
	}
	return out
}

// CreateRoom creates an empty room and seats its host.
func (s *Server) CreateRoom(ctx context.Context, req *karatarpc.CreateRoomRequest) (*karatarpc.CreateRoomResponse, error) {
	id, err := newInviteLink()
	if err != nil {
		return nil, fmt.Errorf("karata: generating invite link: %w", err)
	}

	room := karata.NewRoom(karata.RoomConfig{
		ID:         id,
		HostID:     req.HostID,
		MinPlayers: int(req.MinPlayers),
		MaxPlayers: int(req.MaxPlayers),
	})
	if err := room.Join(req.HostID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.rooms[id] = room
	s.mu.Unlock()

	if err := s.db.SaveRoomConfig(id, req.HostID, int(req.MinPlayers), int(req.MaxPlayers), room.Players()); err != nil {
		s.log.Errorf("persisting new room %s: %v", id, err)
	}
	s.log.Infof("room %s created by %s", id, req.HostID)
	return &karatarpc.CreateRoomResponse{InviteLink: id}, nil
}

// JoinRoom seats a player in an existing, unstarted room.
func (s *Server) JoinRoom(ctx context.Context, req *karatarpc.JoinRoomRequest) (*karatarpc.JoinRoomResponse, error) {
	room, err := s.getRoom(req.InviteLink)
	if err != nil {
		return nil, err
	}
	if err := room.Join(req.PlayerID); err != nil {
		return nil, err
	}
	s.persistRoster(room)
	s.broadcast(karata.Event{
		Type:   karata.EventSystemMessage,
		RoomID: req.InviteLink,
		Payload: karata.SystemMessagePayload{
			Text:     fmt.Sprintf("%s joined the room", req.PlayerID),
			Severity: karata.SeverityInfo,
		},
	})
	return &karatarpc.JoinRoomResponse{}, nil
}

// LeaveRoom removes a seated player from an unstarted room.
func (s *Server) LeaveRoom(ctx context.Context, req *karatarpc.LeaveRoomRequest) (*karatarpc.LeaveRoomResponse, error) {
	room, err := s.getRoom(req.InviteLink)
	if err != nil {
		return nil, err
	}
	if err := room.Leave(req.PlayerID); err != nil {
		return nil, err
	}
	s.persistRoster(room)
	return &karatarpc.LeaveRoomResponse{}, nil
}

// SetReady marks a seated player ready or not.
func (s *Server) SetReady(ctx context.Context, req *karatarpc.SetReadyRequest) (*karatarpc.SetReadyResponse, error) {
	room, err := s.getRoom(req.InviteLink)
	if err != nil {
		return nil, err
	}
	if err := room.SetReady(req.PlayerID, req.Ready); err != nil {
		return nil, err
	}
	if room.AllReady() {
		s.broadcast(karata.Event{
			Type:   karata.EventSystemMessage,
			RoomID: req.InviteLink,
			Payload: karata.SystemMessagePayload{
				Text:     "all players ready",
				Severity: karata.SeverityInfo,
			},
		})
	}
	return &karatarpc.SetReadyResponse{}, nil
}

func (s *Server) persistRoster(room *karata.Room) {
	if err := s.db.SaveRoomConfig(room.ID(), "", room.PlayerCount(), room.PlayerCount(), room.Players()); err != nil {
		s.log.Errorf("persisting roster for room %s: %v", room.ID(), err)
	}
}

// StartGame deals a fresh game once the room's players are all ready.
func (s *Server) StartGame(ctx context.Context, req *karatarpc.StartGameRequest) (*karatarpc.StartGameResponse, error) {
	room, err := s.getRoom(req.InviteLink)
	if err != nil {
		return nil, err
	}

	gameLog := s.logBackend.Logger("GAME")
	_, err = room.StartGame(s.roomRNG(req.InviteLink), gameLog, s.prompts, s.eventProcessor, s.persistSnapshot)
	if err != nil {
		return nil, err
	}

	s.broadcast(karata.Event{Type: karata.EventUpdateGameStatus, RoomID: req.InviteLink, Payload: "started"})
	s.log.Infof("room %s: game started by %s", req.InviteLink, req.PlayerID)
	return &karatarpc.StartGameResponse{}, nil
}

// PerformTurn plays req.Cards on behalf of req.PlayerID.
func (s *Server) PerformTurn(ctx context.Context, req *karatarpc.PerformTurnRequest) (*karatarpc.PerformTurnResponse, error) {
	room, err := s.getRoom(req.InviteLink)
	if err != nil {
		return nil, err
	}
	orch := room.Orchestrator()
	if orch == nil {
		return nil, fmt.Errorf("karata: room %s has not started", req.InviteLink)
	}
	if err := orch.PerformTurn(ctx, req.PlayerID, cardsFromMsgs(req.Cards)); err != nil {
		return nil, err
	}
	return &karatarpc.PerformTurnResponse{}, nil
}

// RequestCard resolves req.PlayerID's pending card-request prompt.
func (s *Server) RequestCard(ctx context.Context, req *karatarpc.RequestCardRequest) (*karatarpc.RequestCardResponse, error) {
	s.prompts.ResolveCardRequest(req.PlayerID, cardFromMsg(req.Card))
	return &karatarpc.RequestCardResponse{}, nil
}

// SetLastCardStatus resolves req.PlayerID's pending last-card prompt.
func (s *Server) SetLastCardStatus(ctx context.Context, req *karatarpc.SetLastCardStatusRequest) (*karatarpc.SetLastCardStatusResponse, error) {
	s.prompts.ResolveLastCard(req.PlayerID, req.IsLastCard)
	return &karatarpc.SetLastCardStatusResponse{}, nil
}
