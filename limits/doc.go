// Package limits provides centralized message size constants and validation
// functions for the quietwire outgoing-message pipeline. This package ensures
// consistent size enforcement across all components of the implementation.
//
// # Message Size Hierarchy
//
// The package defines a hierarchy of size limits that support different stages
// of envelope construction:
//
//   - MaxContentSize (64 KiB): The maximum plaintext content carried by a
//     single envelope. Callers chunk anything larger before it reaches the
//     codec.
//
//   - MaxEnvelopeSize (MaxContentSize + 1 KiB): The transport-imposed cap on a
//     fully framed envelope. The headroom covers both serialization layers and
//     the NaCl box overhead of sealed content.
//
//   - MaxSourceLength (66 bytes): The length of a hex-encoded public-key
//     identifier, used to bound sender and destination fields.
//
// # Validation Functions
//
// Each validation function checks for empty input and size limit violations:
//
//	err := limits.ValidateContentSize(content)
//	if err != nil {
//	    // Handle validation error (ErrMessageEmpty or ErrMessageTooLarge)
//	}
//
// For custom size limits, use the generic ValidateSize function:
//
//	err := limits.ValidateSize(data, 4096)
//
// # Error Types
//
//   - ErrMessageEmpty: Returned when empty or nil data is provided
//   - ErrMessageTooLarge: Returned when data exceeds the specified limit
//
// The encryption overhead matches the golang.org/x/crypto/nacl/box.Overhead
// constant (16 bytes for Poly1305).
package limits
