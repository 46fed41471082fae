package karatarpc

import (
	"context"

	"google.golang.org/grpc"
)

// KarataServiceServer is the interface a Karata server implementation
// provides; it mirrors what protoc-gen-go-grpc would emit from a
// .proto describing the room/game RPC surface.
type KarataServiceServer interface {
	CreateRoom(context.Context, *CreateRoomRequest) (*CreateRoomResponse, error)
	JoinRoom(context.Context, *JoinRoomRequest) (*JoinRoomResponse, error)
	LeaveRoom(context.Context, *LeaveRoomRequest) (*LeaveRoomResponse, error)
	SetReady(context.Context, *SetReadyRequest) (*SetReadyResponse, error)
	StartGame(context.Context, *StartGameRequest) (*StartGameResponse, error)
	PerformTurn(context.Context, *PerformTurnRequest) (*PerformTurnResponse, error)
	RequestCard(context.Context, *RequestCardRequest) (*RequestCardResponse, error)
	SetLastCardStatus(context.Context, *SetLastCardStatusRequest) (*SetLastCardStatusResponse, error)
	Subscribe(*SubscribeRequest, KarataService_SubscribeServer) error
}

// KarataService_SubscribeServer is the server side of the Subscribe
// stream, narrowed from grpc.ServerStream the way generated code does.
type KarataService_SubscribeServer interface {
	Send(*GameEvent) error
	grpc.ServerStream
}

type karataServiceSubscribeServer struct {
	grpc.ServerStream
}

func (s *karataServiceSubscribeServer) Send(e *GameEvent) error {
	return s.ServerStream.SendMsg(e)
}

func registerSubscribeHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(KarataServiceServer).Subscribe(m, &karataServiceSubscribeServer{stream})
}

func performTurnHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PerformTurnRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).PerformTurn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/PerformTurn"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).PerformTurn(ctx, req.(*PerformTurnRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func requestCardHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RequestCardRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).RequestCard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/RequestCard"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).RequestCard(ctx, req.(*RequestCardRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func setLastCardStatusHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetLastCardStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).SetLastCardStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/SetLastCardStatus"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).SetLastCardStatus(ctx, req.(*SetLastCardStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func createRoomHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateRoomRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).CreateRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/CreateRoom"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).CreateRoom(ctx, req.(*CreateRoomRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func joinRoomHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(JoinRoomRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).JoinRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/JoinRoom"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).JoinRoom(ctx, req.(*JoinRoomRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func leaveRoomHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LeaveRoomRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).LeaveRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/LeaveRoom"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).LeaveRoom(ctx, req.(*LeaveRoomRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func setReadyHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetReadyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).SetReady(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/SetReady"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).SetReady(ctx, req.(*SetReadyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func startGameHandler(srv interface{}, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StartGameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KarataServiceServer).StartGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/karatarpc.KarataService/StartGame"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KarataServiceServer).StartGame(ctx, req.(*StartGameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc a generated *_grpc.pb.go would
// normally provide. grpc.Server.RegisterService accepts this directly —
// protoc-gen-go-grpc's wrapper types are an ergonomic convenience over
// this, not a requirement of the transport.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "karatarpc.KarataService",
	HandlerType: (*KarataServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateRoom", Handler: createRoomHandler},
		{MethodName: "JoinRoom", Handler: joinRoomHandler},
		{MethodName: "LeaveRoom", Handler: leaveRoomHandler},
		{MethodName: "SetReady", Handler: setReadyHandler},
		{MethodName: "StartGame", Handler: startGameHandler},
		{MethodName: "PerformTurn", Handler: performTurnHandler},
		{MethodName: "RequestCard", Handler: requestCardHandler},
		{MethodName: "SetLastCardStatus", Handler: setLastCardStatusHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: registerSubscribeHandler, ServerStreams: true},
	},
	Metadata: "karatarpc.proto",
}

// RegisterKarataServiceServer registers srv on s, the way a
// protoc-gen-go-grpc generated RegisterXxxServer function would.
func RegisterKarataServiceServer(s grpc.ServiceRegistrar, srv KarataServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// KarataServiceClient is the client stub, analogous to a generated
// *_grpc.pb.go client interface.
type KarataServiceClient interface {
	CreateRoom(ctx context.Context, in *CreateRoomRequest) (*CreateRoomResponse, error)
	JoinRoom(ctx context.Context, in *JoinRoomRequest) (*JoinRoomResponse, error)
	LeaveRoom(ctx context.Context, in *LeaveRoomRequest) (*LeaveRoomResponse, error)
	SetReady(ctx context.Context, in *SetReadyRequest) (*SetReadyResponse, error)
	StartGame(ctx context.Context, in *StartGameRequest) (*StartGameResponse, error)
	PerformTurn(ctx context.Context, in *PerformTurnRequest) (*PerformTurnResponse, error)
	RequestCard(ctx context.Context, in *RequestCardRequest) (*RequestCardResponse, error)
	SetLastCardStatus(ctx context.Context, in *SetLastCardStatusRequest) (*SetLastCardStatusResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest) (KarataService_SubscribeClient, error)
}

type KarataService_SubscribeClient interface {
	Recv() (*GameEvent, error)
	grpc.ClientStream
}

type karataServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewKarataServiceClient wraps a dialed connection, the way a
// protoc-gen-go-grpc generated NewXxxClient constructor would.
func NewKarataServiceClient(cc grpc.ClientConnInterface) KarataServiceClient {
	return &karataServiceClient{cc}
}

func (c *karataServiceClient) CreateRoom(ctx context.Context, in *CreateRoomRequest) (*CreateRoomResponse, error) {
	out := new(CreateRoomResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/CreateRoom", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) JoinRoom(ctx context.Context, in *JoinRoomRequest) (*JoinRoomResponse, error) {
	out := new(JoinRoomResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/JoinRoom", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) LeaveRoom(ctx context.Context, in *LeaveRoomRequest) (*LeaveRoomResponse, error) {
	out := new(LeaveRoomResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/LeaveRoom", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) SetReady(ctx context.Context, in *SetReadyRequest) (*SetReadyResponse, error) {
	out := new(SetReadyResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/SetReady", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) StartGame(ctx context.Context, in *StartGameRequest) (*StartGameResponse, error) {
	out := new(StartGameResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/StartGame", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) PerformTurn(ctx context.Context, in *PerformTurnRequest) (*PerformTurnResponse, error) {
	out := new(PerformTurnResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/PerformTurn", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) RequestCard(ctx context.Context, in *RequestCardRequest) (*RequestCardResponse, error) {
	out := new(RequestCardResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/RequestCard", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) SetLastCardStatus(ctx context.Context, in *SetLastCardStatusRequest) (*SetLastCardStatusResponse, error) {
	out := new(SetLastCardStatusResponse)
	if err := c.cc.Invoke(ctx, "/karatarpc.KarataService/SetLastCardStatus", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *karataServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest) (KarataService_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/karatarpc.KarataService/Subscribe")
	if err != nil {
		return nil, err
	}
	x := &karataServiceSubscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type karataServiceSubscribeClient struct {
	grpc.ClientStream
}

func (x *karataServiceSubscribeClient) Recv() (*GameEvent, error) {
	m := new(GameEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
