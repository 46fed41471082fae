// Package client is a thin Karata gRPC client: it owns the connection
// and the generated-by-hand karatarpc.KarataServiceClient, and pumps a
// room's Subscribe stream into a channel a UI can range over.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/sixpeteunder/Karata/pkg/rpc/karatarpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is one player's connection to a Karata server.
type Client struct {
	PlayerID string

	conn   *grpc.ClientConn
	rpc    karatarpc.KarataServiceClient
	log    slog.Logger
	roomID string

	mu     sync.Mutex
	cancel context.CancelFunc

	Events chan *karatarpc.GameEvent
	Errors chan error
}

// Dial connects to addr (host:port) as playerID.
func Dial(addr, playerID string, log slog.Logger) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(karatarpc.Name)))
	if err != nil {
		return nil, fmt.Errorf("karata: dialing %s: %w", addr, err)
	}
	return &Client{
		PlayerID: playerID,
		conn:     conn,
		rpc:      karatarpc.NewKarataServiceClient(conn),
		log:      log,
		Events:   make(chan *karatarpc.GameEvent, 64),
		Errors:   make(chan error, 4),
	}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) CreateRoom(ctx context.Context, minPlayers, maxPlayers int32) (string, error) {
	resp, err := c.rpc.CreateRoom(ctx, &karatarpc.CreateRoomRequest{
		HostID: c.PlayerID, MinPlayers: minPlayers, MaxPlayers: maxPlayers,
	})
	if err != nil {
		return "", err
	}
	c.roomID = resp.InviteLink
	return resp.InviteLink, nil
}

func (c *Client) JoinRoom(ctx context.Context, inviteLink string) error {
	_, err := c.rpc.JoinRoom(ctx, &karatarpc.JoinRoomRequest{InviteLink: inviteLink, PlayerID: c.PlayerID})
	if err == nil {
		c.roomID = inviteLink
	}
	return err
}

func (c *Client) LeaveRoom(ctx context.Context) error {
	_, err := c.rpc.LeaveRoom(ctx, &karatarpc.LeaveRoomRequest{InviteLink: c.roomID, PlayerID: c.PlayerID})
	return err
}

func (c *Client) SetReady(ctx context.Context, ready bool) error {
	_, err := c.rpc.SetReady(ctx, &karatarpc.SetReadyRequest{InviteLink: c.roomID, PlayerID: c.PlayerID, Ready: ready})
	return err
}

func (c *Client) StartGame(ctx context.Context) error {
	_, err := c.rpc.StartGame(ctx, &karatarpc.StartGameRequest{InviteLink: c.roomID, PlayerID: c.PlayerID})
	return err
}

func (c *Client) PerformTurn(ctx context.Context, cards []karatarpc.CardMsg) error {
	_, err := c.rpc.PerformTurn(ctx, &karatarpc.PerformTurnRequest{InviteLink: c.roomID, PlayerID: c.PlayerID, Cards: cards})
	return err
}

func (c *Client) RequestCard(ctx context.Context, card karatarpc.CardMsg) error {
	_, err := c.rpc.RequestCard(ctx, &karatarpc.RequestCardRequest{InviteLink: c.roomID, PlayerID: c.PlayerID, Card: card})
	return err
}

func (c *Client) SetLastCardStatus(ctx context.Context, isLastCard bool) error {
	_, err := c.rpc.SetLastCardStatus(ctx, &karatarpc.SetLastCardStatusRequest{InviteLink: c.roomID, PlayerID: c.PlayerID, IsLastCard: isLastCard})
	return err
}

// Subscribe opens the room's event stream and pumps events into
// c.Events until the stream ends or ctx is cancelled.
func (c *Client) Subscribe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	stream, err := c.rpc.Subscribe(ctx, &karatarpc.SubscribeRequest{InviteLink: c.roomID, PlayerID: c.PlayerID})
	if err != nil {
		return err
	}
	go func() {
		for {
			ev, err := stream.Recv()
			if err != nil {
				select {
				case c.Errors <- err:
				default:
				}
				return
			}
			select {
			case c.Events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
