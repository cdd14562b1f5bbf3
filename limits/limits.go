// Package limits provides centralized message size limits for the quietwire
// envelope pipeline. This ensures consistent validation across different
// components of the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxContentSize is the maximum plaintext content carried by one envelope.
	// Larger content must be chunked by the caller before it reaches the codec.
	MaxContentSize = 65536

	// MaxEnvelopeSize is the maximum size of a framed envelope accepted by
	// storage nodes. It covers the inner envelope, both serialization layers
	// and the encryption overhead of sealed content.
	MaxEnvelopeSize = MaxContentSize + 1024

	// MaxSourceLength bounds sender identifiers (hex public keys).
	MaxSourceLength = 66

	// EncryptionOverhead is the overhead added by NaCl box encryption.
	// This is the Poly1305 MAC tag added by box.Seal(); the 24-byte nonce
	// travels alongside the ciphertext, not inside it.
	EncryptionOverhead = 16 // golang.org/x/crypto/nacl/box.Overhead
)

var (
	// ErrMessageEmpty indicates empty content was provided.
	ErrMessageEmpty = errors.New("empty message")

	// ErrMessageTooLarge indicates content exceeds a maximum size.
	ErrMessageTooLarge = errors.New("message too large")
)

// ValidateSize validates data against the specified maximum size.
// Returns an error with context including the actual and maximum sizes.
func ValidateSize(data []byte, maxSize int) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if len(data) > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrMessageTooLarge, len(data), maxSize)
	}
	return nil
}

// ValidateContentSize validates plaintext content against MaxContentSize.
func ValidateContentSize(content []byte) error {
	if len(content) == 0 {
		return ErrMessageEmpty
	}
	if len(content) > MaxContentSize {
		return fmt.Errorf("%w: content size %d exceeds limit %d", ErrMessageTooLarge, len(content), MaxContentSize)
	}
	return nil
}

// ValidateEnvelopeSize validates a framed envelope against MaxEnvelopeSize.
// This is the transport-imposed cap; anything larger is rejected by storage
// nodes and must never leave the codec.
func ValidateEnvelopeSize(framed []byte) error {
	if len(framed) == 0 {
		return ErrMessageEmpty
	}
	if len(framed) > MaxEnvelopeSize {
		return fmt.Errorf("%w: envelope size %d exceeds limit %d", ErrMessageTooLarge, len(framed), MaxEnvelopeSize)
	}
	return nil
}
