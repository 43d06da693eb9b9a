// Package codec decodes raw websocket payloads into port.Frame values, one
// strategy per protocol kind. Failures are confined to the single frame.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
)

// maxInflated caps decompressed frame size.
const maxInflated = 4 << 20

var (
	errEmpty    = errors.New("empty payload")
	errNotJSON  = errors.New("payload is not a JSON object or array")
	errTooLarge = errors.New("decompressed payload too large")
)

// Decoder turns one raw payload into a Frame.
type Decoder interface {
	Decode(payload []byte) (port.Frame, error)
}

// ForProtocol returns the decoding strategy for kind. TwoPhaseToken venues
// stream plain JSON once the token handshake is done.
func ForProtocol(kind domain.ProtocolKind) Decoder {
	switch kind {
	case domain.ProtocolBinaryGzipJSON:
		return gzipJSON{}
	case domain.ProtocolJSONRPC:
		return jsonRPC{}
	case domain.ProtocolTwoPhaseToken:
		return plainJSON{kind: domain.ProtocolTwoPhaseToken}
	default:
		return plainJSON{kind: domain.ProtocolPlainJSON}
	}
}

// Decode is a convenience wrapper around ForProtocol(kind).Decode.
func Decode(kind domain.ProtocolKind, payload []byte) (port.Frame, error) {
	return ForProtocol(kind).Decode(payload)
}

type plainJSON struct {
	kind domain.ProtocolKind
}

func (d plainJSON) Decode(payload []byte) (port.Frame, error) {
	return decodeText(d.kind, payload)
}

// gzipJSON accepts both raw JSON text and gzip-compressed binary frames.
type gzipJSON struct{}

func (gzipJSON) Decode(payload []byte) (port.Frame, error) {
	if !IsGzip(payload) {
		return decodeText(domain.ProtocolBinaryGzipJSON, payload)
	}
	text, err := Inflate(payload)
	if err != nil {
		return port.Frame{}, &domain.DecodeError{Protocol: domain.ProtocolBinaryGzipJSON, Payload: payload, Err: err}
	}
	return decodeText(domain.ProtocolBinaryGzipJSON, text)
}

type rpcEnvelope struct {
	Method string          `json:"method"`
	ID     json.RawMessage `json:"id"`
	Params json.RawMessage `json:"params"`
}

// jsonRPC exposes method and params without interpreting them.
type jsonRPC struct{}

func (jsonRPC) Decode(payload []byte) (port.Frame, error) {
	f, err := decodeText(domain.ProtocolJSONRPC, payload)
	if err != nil || f.Shape != port.ShapeObject {
		return f, err
	}
	var env rpcEnvelope
	if err := json.Unmarshal(f.Raw, &env); err != nil {
		return port.Frame{}, &domain.DecodeError{Protocol: domain.ProtocolJSONRPC, Payload: payload, Err: err}
	}
	f.Method = env.Method
	f.ID = env.ID
	f.Params = env.Params
	return f, nil
}

func decodeText(kind domain.ProtocolKind, payload []byte) (port.Frame, error) {
	b := bytes.TrimSpace(payload)
	if len(b) == 0 {
		return port.Frame{}, &domain.DecodeError{Protocol: kind, Payload: payload, Err: errEmpty}
	}

	switch string(b) {
	case "ping", "pong":
		return port.Frame{Protocol: kind, Shape: port.ShapeControl, Control: string(b)}, nil
	}

	var shape port.Shape
	switch b[0] {
	case '{':
		shape = port.ShapeObject
	case '[':
		shape = port.ShapeArray
	default:
		return port.Frame{}, &domain.DecodeError{Protocol: kind, Payload: payload, Err: errNotJSON}
	}
	if !json.Valid(b) {
		return port.Frame{}, &domain.DecodeError{Protocol: kind, Payload: payload, Err: fmt.Errorf("invalid JSON")}
	}
	return port.Frame{Protocol: kind, Shape: shape, Raw: json.RawMessage(b)}, nil
}

// IsGzip reports whether b starts with the gzip magic number.
func IsGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

// Inflate decompresses a gzip payload.
func Inflate(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxInflated+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxInflated {
		return nil, errTooLarge
	}
	return out, nil
}
