package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// frameVersion is the version byte leading every transport frame.
const frameVersion = 1

// frameHeaderSize is version (1) + payload length (4).
const frameHeaderSize = 5

var (
	// ErrFrameTruncated indicates a transport frame shorter than its declared length
	ErrFrameTruncated = errors.New("frame truncated")
	// ErrUnsupportedFrameVersion indicates a frame version this codec cannot read
	ErrUnsupportedFrameVersion = errors.New("unsupported frame version")
)

// frame wraps a serialized inner envelope in the outer transport frame,
// making the result opaque regardless of inner content shape.
//
// Format: [frame version (1)][payload length (4)][payload]
func frame(inner []byte) []byte {
	result := make([]byte, frameHeaderSize+len(inner))
	result[0] = frameVersion
	binary.BigEndian.PutUint32(result[1:5], uint32(len(inner)))
	copy(result[frameHeaderSize:], inner)
	return result
}

// unframe strips the outer transport frame and returns the inner envelope bytes.
func unframe(framed []byte) ([]byte, error) {
	if len(framed) < frameHeaderSize {
		return nil, ErrFrameTruncated
	}
	if framed[0] != frameVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFrameVersion, framed[0])
	}

	payloadLen := int(binary.BigEndian.Uint32(framed[1:5]))
	if len(framed) != frameHeaderSize+payloadLen {
		return nil, ErrFrameTruncated
	}

	inner := make([]byte, payloadLen)
	copy(inner, framed[frameHeaderSize:])
	return inner, nil
}
