package envelope

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/quietwire/quietwire/limits"
)

// DestinationLength is the length of a hex-encoded destination identifier:
// a one-byte network prefix plus a 32-byte public key.
const DestinationLength = 66

// destinationPrefix is the network prefix every destination identifier
// carries in its first hex pair.
const destinationPrefix = "05"

var (
	// ErrMissingDestination indicates the logical message has no destination
	ErrMissingDestination = errors.New("missing destination")
	// ErrInvalidDestination indicates a malformed destination identifier
	ErrInvalidDestination = errors.New("invalid destination")
)

// WrapRequest carries the logical message fields the codec serializes.
// Destination is validated but not embedded; it travels beside the payload
// in the outgoing wire structure.
type WrapRequest struct {
	Type        MessageType
	Source      string
	Destination string
	Content     []byte
}

// Wrap serializes a logical message into a framed envelope using the given
// send timestamp (milliseconds since epoch). The result is a single opaque
// byte sequence; Unwrap reverses it. Wrap is deterministic for identical
// inputs and performs no I/O.
func Wrap(req WrapRequest, sendTimestamp uint64) ([]byte, error) {
	if err := ValidateDestination(req.Destination); err != nil {
		return nil, err
	}

	inner := &Envelope{
		Type:      req.Type,
		Source:    req.Source,
		Timestamp: sendTimestamp,
		Content:   req.Content,
	}

	serialized, err := inner.Marshal()
	if err != nil {
		return nil, err
	}

	framed := frame(serialized)
	if err := limits.ValidateEnvelopeSize(framed); err != nil {
		return nil, err
	}

	return framed, nil
}

// Unwrap strips the transport frame and parses the inner envelope,
// recovering the type, source, timestamp and content that Wrap serialized.
func Unwrap(framed []byte) (*Envelope, error) {
	inner, err := unframe(framed)
	if err != nil {
		return nil, err
	}
	return Unmarshal(inner)
}

// ValidateDestination checks that a destination identifier is a well-formed
// hex public-key identifier with the expected network prefix.
func ValidateDestination(destination string) error {
	if destination == "" {
		return ErrMissingDestination
	}
	if len(destination) != DestinationLength {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidDestination, len(destination), DestinationLength)
	}
	if _, err := hex.DecodeString(destination); err != nil {
		return fmt.Errorf("%w: not hex encoded", ErrInvalidDestination)
	}
	if destination[:2] != destinationPrefix {
		return fmt.Errorf("%w: prefix %q, want %q", ErrInvalidDestination, destination[:2], destinationPrefix)
	}
	return nil
}
