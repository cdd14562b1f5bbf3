package outbox

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/quietwire/quietwire/envelope"
)

// DefaultTTL is the storage duration requested when the caller does not
// override it: 24 hours in milliseconds.
const DefaultTTL = uint64(24 * 60 * 60 * 1000)

// LogicalMessage is the caller-owned input to one build attempt. It is
// consumed exactly once and never retained by the pipeline.
type LogicalMessage struct {
	Type        envelope.MessageType
	Source      string
	Destination string
	Content     []byte

	// TTL is the requested storage duration in milliseconds.
	// Zero means DefaultTTL.
	TTL uint64
}

// effectiveTTL resolves the TTL override against the default.
func (m *LogicalMessage) effectiveTTL() uint64 {
	if m.TTL == 0 {
		return DefaultTTL
	}
	return m.TTL
}

// OutgoingMessage is the transport-ready result of one build. PoWTimestamp
// and Nonce are both set or both nil: a nonce is only meaningful relative to
// the exact timestamp it was computed against.
type OutgoingMessage struct {
	// ID correlates this message with delivery receipts from the transport.
	ID uuid.UUID

	// Destination is the recipient's hex public-key identifier.
	Destination string

	// Data is the base64 encoding of the framed envelope.
	Data string

	// TTL is the requested storage duration in milliseconds.
	TTL uint64

	// PoWTimestamp is the wall-clock time (milliseconds since epoch) the
	// proof-of-work was computed against. Nil when no proof was required.
	PoWTimestamp *uint64

	// Nonce is the base64-encoded proof-of-work solution.
	// Nil when no proof was required.
	Nonce *string
}

// HasProof reports whether a proof-of-work solution is attached.
func (m *OutgoingMessage) HasProof() bool {
	return m.PoWTimestamp != nil && m.Nonce != nil
}

// WireParams flattens the message into the key/value structure the transport
// layer submits to storage nodes. The timestamp and nonce keys appear only
// when a proof was computed, and always together.
func (m *OutgoingMessage) WireParams() map[string]string {
	params := map[string]string{
		"pubKey": m.Destination,
		"data":   m.Data,
		"ttl":    strconv.FormatUint(m.TTL, 10),
	}

	if m.HasProof() {
		params["timestamp"] = strconv.FormatUint(*m.PoWTimestamp, 10)
		params["nonce"] = *m.Nonce
	}

	return params
}
