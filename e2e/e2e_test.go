// This file contains end-to-end tests that spin up a full Karata
// server backed by a real SQLite database. The tests exercise
// realistic room/game flows with minimal mocking (only the network is
// in-process via gRPC).
//
// To keep the tests self-contained and independent they **must** be
// executed with `go test ./...` and **should not** depend on external
// resources.
package e2e

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/sixpeteunder/Karata/internal/karata"
	"github.com/sixpeteunder/Karata/pkg/logging"
	"github.com/sixpeteunder/Karata/pkg/rpc/karatarpc"
	"github.com/sixpeteunder/Karata/pkg/server"
	"github.com/sixpeteunder/Karata/pkg/server/internal/db"
)

// testEnv holds the runtime components that make up a fully
// functional instance of the Karata server backed by a *real* SQLite
// database. Each E2E test spins up its own env so tests are
// completely isolated and can run in parallel.
type testEnv struct {
	t         *testing.T
	db        *db.DB
	karataSrv *server.Server
	grpcSrv   *grpc.Server
	conn      *grpc.ClientConn
	client    karatarpc.KarataServiceClient
}

// newTestEnv creates, starts and returns a ready-to-use environment.
// seed is forwarded to server.NewServer so callers that need
// deterministic dealing can pin it; 0 draws fresh entropy per room.
func newTestEnv(t *testing.T, seed int64) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "karata.sqlite")
	database, err := db.NewDB(dbPath)
	require.NoError(t, err)

	logBackend, err := logging.New(logging.Config{DebugLevel: "debug"})
	require.NoError(t, err)

	karataSrv := server.NewServer(database, logBackend, seed)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcSrv := grpc.NewServer()
	karatarpc.RegisterKarataServiceServer(grpcSrv, karataSrv)
	go func() { _ = grpcSrv.Serve(lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(karatarpc.Name)))
	require.NoError(t, err)

	return &testEnv{
		t:         t,
		db:        database,
		karataSrv: karataSrv,
		grpcSrv:   grpcSrv,
		conn:      conn,
		client:    karatarpc.NewKarataServiceClient(conn),
	}
}

// Close gracefully shuts down all resources.
func (e *testEnv) Close() {
	e.conn.Close()
	e.karataSrv.Stop()
	e.grpcSrv.Stop()
	_ = e.db.Close()
}

// createReadyRoom creates a room hosted by players[0], seats the rest
// of players, and marks everyone ready. It does not start the game.
func (e *testEnv) createReadyRoom(ctx context.Context, players []string) string {
	e.t.Helper()

	resp, err := e.client.CreateRoom(ctx, &karatarpc.CreateRoomRequest{
		HostID: players[0], MinPlayers: int32(len(players)), MaxPlayers: int32(len(players)),
	})
	require.NoError(e.t, err)
	roomID := resp.InviteLink

	for _, p := range players[1:] {
		_, err := e.client.JoinRoom(ctx, &karatarpc.JoinRoomRequest{InviteLink: roomID, PlayerID: p})
		require.NoError(e.t, err)
	}
	for _, p := range players {
		_, err := e.client.SetReady(ctx, &karatarpc.SetReadyRequest{InviteLink: roomID, PlayerID: p, Ready: true})
		require.NoError(e.t, err)
	}
	return roomID
}

// recvWithin reads the next event off stream, failing the test if none
// arrives within d.
func recvWithin(t *testing.T, stream karatarpc.KarataService_SubscribeClient, d time.Duration) *karatarpc.GameEvent {
	t.Helper()
	type result struct {
		ev  *karatarpc.GameEvent
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ev, err := stream.Recv()
		ch <- result{ev, err}
	}()
	select {
	case r := <-ch:
		require.NoError(t, r.err)
		return r.ev
	case <-time.After(d):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

// drainUntil reads events off stream until one of type wantType
// arrives, failing the test if d elapses first.
func drainUntil(t *testing.T, stream karatarpc.KarataService_SubscribeClient, wantType string, d time.Duration) *karatarpc.GameEvent {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		ev := recvWithin(t, stream, d)
		if ev.Type == wantType {
			return ev
		}
	}
	t.Fatalf("never saw event %s within %s", wantType, d)
	return nil
}

func TestRoomLifecycle(t *testing.T) {
	env := newTestEnv(t, 0)
	defer env.Close()
	ctx := context.Background()

	resp, err := env.client.CreateRoom(ctx, &karatarpc.CreateRoomRequest{HostID: "alice", MinPlayers: 2, MaxPlayers: 2})
	require.NoError(t, err)
	roomID := resp.InviteLink
	assert.NotEmpty(t, roomID)

	_, err = env.client.JoinRoom(ctx, &karatarpc.JoinRoomRequest{InviteLink: roomID, PlayerID: "bob"})
	require.NoError(t, err)

	// A third player can't join a 2-max room.
	_, err = env.client.JoinRoom(ctx, &karatarpc.JoinRoomRequest{InviteLink: roomID, PlayerID: "carol"})
	assert.Error(t, err)

	_, err = env.client.SetReady(ctx, &karatarpc.SetReadyRequest{InviteLink: roomID, PlayerID: "alice", Ready: true})
	require.NoError(t, err)

	// The game can't start until every seated player is ready.
	_, err = env.client.StartGame(ctx, &karatarpc.StartGameRequest{InviteLink: roomID, PlayerID: "alice"})
	assert.Error(t, err)

	_, err = env.client.SetReady(ctx, &karatarpc.SetReadyRequest{InviteLink: roomID, PlayerID: "bob", Ready: true})
	require.NoError(t, err)

	_, err = env.client.StartGame(ctx, &karatarpc.StartGameRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)

	// Once started the roster is frozen.
	_, err = env.client.LeaveRoom(ctx, &karatarpc.LeaveRoomRequest{InviteLink: roomID, PlayerID: "bob"})
	assert.Error(t, err)
}

func TestSubscribeReceivesGameStartedEvent(t *testing.T) {
	env := newTestEnv(t, 0)
	defer env.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roomID := env.createReadyRoom(ctx, []string{"alice", "bob"})

	stream, err := env.client.Subscribe(ctx, &karatarpc.SubscribeRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)

	_, err = env.client.StartGame(ctx, &karatarpc.StartGameRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)

	ev := recvWithin(t, stream, 2*time.Second)
	assert.Equal(t, string(karata.EventUpdateGameStatus), ev.Type)
}

func TestPerformTurnPassAdvancesTurn(t *testing.T) {
	env := newTestEnv(t, 0)
	defer env.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roomID := env.createReadyRoom(ctx, []string{"alice", "bob"})

	stream, err := env.client.Subscribe(ctx, &karatarpc.SubscribeRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)

	_, err = env.client.StartGame(ctx, &karatarpc.StartGameRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)
	drainUntil(t, stream, string(karata.EventUpdateGameStatus), 2*time.Second)

	// alice seats first and so holds turn 0; an empty play is a legal
	// pass-and-draw that must advance the turn to player 1 (bob).
	_, err = env.client.PerformTurn(ctx, &karatarpc.PerformTurnRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)

	ev := drainUntil(t, stream, string(karata.EventUpdateTurn), 2*time.Second)
	var turn int
	require.NoError(t, json.Unmarshal(ev.Payload, &turn))
	assert.Equal(t, 1, turn)

	// It is no longer alice's turn.
	_, err = env.client.PerformTurn(ctx, &karatarpc.PerformTurnRequest{InviteLink: roomID, PlayerID: "alice"})
	assert.Error(t, err)
}

func TestRequestCardWithoutPendingPromptIsNoOp(t *testing.T) {
	env := newTestEnv(t, 0)
	defer env.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roomID := env.createReadyRoom(ctx, []string{"alice", "bob"})

	stream, err := env.client.Subscribe(ctx, &karatarpc.SubscribeRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)
	_, err = env.client.StartGame(ctx, &karatarpc.StartGameRequest{InviteLink: roomID, PlayerID: "alice"})
	require.NoError(t, err)
	drainUntil(t, stream, string(karata.EventUpdateGameStatus), 2*time.Second)

	// A RequestCard call with no pending prompt is simply a no-op; it
	// must not hang or error, since PromptRegistry.ResolveCardRequest
	// silently discards a resolve for a connection with nothing to
	// resolve.
	_, err = env.client.RequestCard(ctx, &karatarpc.RequestCardRequest{
		InviteLink: roomID, PlayerID: "alice", Card: karatarpc.CardMsg{Suit: int32(karata.Hearts), Face: int32(karata.King)},
	})
	assert.NoError(t, err)
}
