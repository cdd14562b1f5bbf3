// Package envelope implements the envelope codec for the quietwire
// outgoing-message pipeline.
//
// This package serializes a logical message into a fixed binary inner
// envelope and wraps it in an outer transport frame, producing a single
// opaque byte sequence ready for transport-safe encoding.
//
// Example:
//
//	framed, err := envelope.Wrap(envelope.WrapRequest{
//	    Type:        envelope.TypeDirect,
//	    Source:      senderID,
//	    Destination: recipientID,
//	    Content:     content,
//	}, sendTimestamp)
package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/quietwire/quietwire/limits"
)

// MessageType identifies the type of message carried by an envelope.
type MessageType byte

const (
	// TypeDirect is a one-to-one message.
	TypeDirect MessageType = iota + 1
	// TypeGroup is a message addressed to a closed group.
	TypeGroup
	// TypeReceipt is a delivery receipt.
	TypeReceipt
)

// envelopeVersion is the version byte leading every inner envelope.
const envelopeVersion = 1

// envelopeHeaderSize is the fixed portion of the inner envelope:
// version (1) + type (1) + source length (2) + timestamp (8) + content length (4).
const envelopeHeaderSize = 1 + 1 + 2 + 8 + 4

var (
	// ErrMissingSource indicates the sender identifier is empty
	ErrMissingSource = errors.New("missing source identifier")
	// ErrSourceTooLong indicates the sender identifier exceeds MaxSourceLength
	ErrSourceTooLong = errors.New("source identifier too long")
	// ErrUnknownType indicates an unrecognized message type byte
	ErrUnknownType = errors.New("unknown message type")
	// ErrEnvelopeTruncated indicates serialized data shorter than its declared lengths
	ErrEnvelopeTruncated = errors.New("envelope truncated")
	// ErrUnsupportedVersion indicates an envelope version this codec cannot read
	ErrUnsupportedVersion = errors.New("unsupported envelope version")
)

// Envelope is the inner record embedding a message and its metadata.
// Timestamp is the send time in milliseconds since the Unix epoch; it may
// differ from any timestamp the content itself carries.
type Envelope struct {
	Type      MessageType
	Source    string
	Timestamp uint64
	Content   []byte
}

// Marshal converts an envelope to its binary form.
func (e *Envelope) Marshal() ([]byte, error) {
	if e.Source == "" {
		return nil, ErrMissingSource
	}
	if len(e.Source) > limits.MaxSourceLength {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLong, len(e.Source), limits.MaxSourceLength)
	}
	if err := validType(e.Type); err != nil {
		return nil, err
	}
	if err := limits.ValidateContentSize(e.Content); err != nil {
		return nil, err
	}

	// Format: [version (1)][type (1)][source length (2)][source]
	//         [timestamp (8)][content length (4)][content]
	result := make([]byte, envelopeHeaderSize+len(e.Source)+len(e.Content))

	result[0] = envelopeVersion
	result[1] = byte(e.Type)
	binary.BigEndian.PutUint16(result[2:4], uint16(len(e.Source)))
	offset := 4
	copy(result[offset:], e.Source)
	offset += len(e.Source)
	binary.BigEndian.PutUint64(result[offset:offset+8], e.Timestamp)
	offset += 8
	binary.BigEndian.PutUint32(result[offset:offset+4], uint32(len(e.Content)))
	offset += 4
	copy(result[offset:], e.Content)

	return result, nil
}

// Unmarshal parses a binary inner envelope.
func Unmarshal(data []byte) (*Envelope, error) {
	if len(data) < envelopeHeaderSize {
		return nil, ErrEnvelopeTruncated
	}
	if data[0] != envelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}

	e := &Envelope{Type: MessageType(data[1])}
	if err := validType(e.Type); err != nil {
		return nil, err
	}

	sourceLen := int(binary.BigEndian.Uint16(data[2:4]))
	offset := 4
	if len(data) < offset+sourceLen+12 {
		return nil, ErrEnvelopeTruncated
	}
	e.Source = string(data[offset : offset+sourceLen])
	offset += sourceLen

	e.Timestamp = binary.BigEndian.Uint64(data[offset : offset+8])
	offset += 8

	contentLen := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if len(data) != offset+contentLen {
		return nil, ErrEnvelopeTruncated
	}
	e.Content = make([]byte, contentLen)
	copy(e.Content, data[offset:])

	return e, nil
}

func validType(t MessageType) error {
	switch t {
	case TypeDirect, TypeGroup, TypeReceipt:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}
