package port

import (
	"encoding/json"
	"errors"

	"btcfeed/internal/domain"
)

// Shape is the top-level structure of a decoded frame.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeObject
	ShapeArray
	ShapeControl
)

// Frame is a decoded inbound message. Raw always holds the JSON text (already
// decompressed); adapters match it against their own typed shapes.
type Frame struct {
	Protocol domain.ProtocolKind
	Shape    Shape
	Raw      json.RawMessage

	// JSON-RPC envelope; empty for other protocols.
	Method string
	ID     json.RawMessage
	Params json.RawMessage

	// Bare text control frame such as "ping" or "pong".
	Control string
}

var errNoParams = errors.New("frame has no params")

// Unmarshal decodes the frame body into v.
func (f Frame) Unmarshal(v any) error {
	return json.Unmarshal(f.Raw, v)
}

// UnmarshalParams decodes the JSON-RPC params into v.
func (f Frame) UnmarshalParams(v any) error {
	if len(f.Params) == 0 {
		return errNoParams
	}
	return json.Unmarshal(f.Params, v)
}
