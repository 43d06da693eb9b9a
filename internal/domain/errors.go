package domain

import (
	"errors"
	"fmt"
)

// ErrExtractionMiss marks a frame that decoded fine but carried no price for
// the stream. It is never logged above debug level.
var ErrExtractionMiss = errors.New("frame carries no price")

// ConfigError is a malformed venue descriptor. Fatal at startup.
type ConfigError struct {
	Venue  string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: venue %q: %s", e.Venue, e.Reason)
	}
	return fmt.Sprintf("config: venue %q: %s: %s", e.Venue, e.Field, e.Reason)
}

// HandshakeError is a failed pre-connect token exchange.
type HandshakeError struct {
	URL string
	Err error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake %s: %v", e.URL, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// TransportError is a dial, read or write failure on a stream connection.
type TransportError struct {
	Op  string // dial, read, write
	Key ConnectionKey
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a single inbound frame that could not be parsed.
type DecodeError struct {
	Protocol ProtocolKind
	Payload  []byte
	Err      error
}

func (e *DecodeError) Error() string {
	const max = 128
	p := e.Payload
	if len(p) > max {
		p = p[:max]
	}
	return fmt.Sprintf("decode %s frame %q: %v", e.Protocol, p, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
