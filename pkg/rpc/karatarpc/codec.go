package karatarpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements encoding.Codec over plain Go structs. It stands
// in for the protobuf wire codec protoc would normally generate: see
// DESIGN.md for why this module hand-writes the service instead of
// running protoc.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// Name is the codec name a client must select (via grpc.CallContentSubtype
// or a registered default) to talk to a karatarpc server.
const Name = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
