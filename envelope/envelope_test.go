package envelope

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/quietwire/quietwire/limits"
)

// testDestination builds a well-formed destination identifier.
func testDestination(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return "05" + hex.EncodeToString(key)
}

// TestWrapUnwrapRoundTrip verifies that Unwrap recovers exactly what Wrap serialized
func TestWrapUnwrapRoundTrip(t *testing.T) {
	content := []byte("hello from an offline sender")
	req := WrapRequest{
		Type:        TypeDirect,
		Source:      "05" + strings.Repeat("ab", 32),
		Destination: testDestination(t),
		Content:     content,
	}
	const sendTimestamp = uint64(1700000000000)

	framed, err := Wrap(req, sendTimestamp)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	env, err := Unwrap(framed)
	if err != nil {
		t.Fatalf("Unwrap failed: %v", err)
	}

	if env.Type != req.Type {
		t.Errorf("Type = %d, want %d", env.Type, req.Type)
	}
	if env.Source != req.Source {
		t.Errorf("Source = %q, want %q", env.Source, req.Source)
	}
	if env.Timestamp != sendTimestamp {
		t.Errorf("Timestamp = %d, want %d", env.Timestamp, sendTimestamp)
	}
	if !bytes.Equal(env.Content, content) {
		t.Errorf("Content = %x, want %x", env.Content, content)
	}
}

// TestWrapDeterministic verifies identical inputs produce identical bytes
func TestWrapDeterministic(t *testing.T) {
	req := WrapRequest{
		Type:        TypeGroup,
		Source:      "05" + strings.Repeat("cd", 32),
		Destination: testDestination(t),
		Content:     []byte("same bytes in, same bytes out"),
	}

	first, err := Wrap(req, 1700000000000)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	second, err := Wrap(req, 1700000000000)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Wrap is not deterministic for identical inputs")
	}
}

// TestWrapMissingDestination verifies rejection of an empty destination
func TestWrapMissingDestination(t *testing.T) {
	req := WrapRequest{
		Type:    TypeDirect,
		Source:  "sender",
		Content: []byte("content"),
	}

	if _, err := Wrap(req, 1); !errors.Is(err, ErrMissingDestination) {
		t.Errorf("Wrap without destination = %v, want ErrMissingDestination", err)
	}
}

// TestValidateDestination covers the malformed identifier cases
func TestValidateDestination(t *testing.T) {
	valid := testDestination(t)

	tests := []struct {
		name        string
		destination string
		wantErr     error
	}{
		{"valid", valid, nil},
		{"empty", "", ErrMissingDestination},
		{"short", "05abcd", ErrInvalidDestination},
		{"long", valid + "00", ErrInvalidDestination},
		{"not hex", "05" + strings.Repeat("zz", 32), ErrInvalidDestination},
		{"wrong prefix", "03" + valid[2:], ErrInvalidDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDestination(tt.destination)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDestination(%q) = %v, want nil", tt.destination, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDestination(%q) = %v, want %v", tt.destination, err, tt.wantErr)
			}
		})
	}
}

// TestWrapMissingSource verifies rejection of an empty sender identifier
func TestWrapMissingSource(t *testing.T) {
	req := WrapRequest{
		Type:        TypeDirect,
		Destination: testDestination(t),
		Content:     []byte("content"),
	}

	if _, err := Wrap(req, 1); !errors.Is(err, ErrMissingSource) {
		t.Errorf("Wrap without source = %v, want ErrMissingSource", err)
	}
}

// TestWrapOversizedContent verifies the transport size cap is enforced
func TestWrapOversizedContent(t *testing.T) {
	req := WrapRequest{
		Type:        TypeDirect,
		Source:      "sender",
		Destination: testDestination(t),
		Content:     make([]byte, limits.MaxContentSize+1),
	}

	if _, err := Wrap(req, 1); !errors.Is(err, limits.ErrMessageTooLarge) {
		t.Errorf("Wrap with oversized content = %v, want ErrMessageTooLarge", err)
	}
}

// TestWrapEmptyContent verifies empty content is rejected
func TestWrapEmptyContent(t *testing.T) {
	req := WrapRequest{
		Type:        TypeDirect,
		Source:      "sender",
		Destination: testDestination(t),
	}

	if _, err := Wrap(req, 1); !errors.Is(err, limits.ErrMessageEmpty) {
		t.Errorf("Wrap with empty content = %v, want ErrMessageEmpty", err)
	}
}

// TestWrapUnknownType verifies rejection of an unrecognized message type
func TestWrapUnknownType(t *testing.T) {
	req := WrapRequest{
		Type:        MessageType(99),
		Source:      "sender",
		Destination: testDestination(t),
		Content:     []byte("content"),
	}

	if _, err := Wrap(req, 1); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Wrap with unknown type = %v, want ErrUnknownType", err)
	}
}

// TestUnwrapTruncated verifies parsing rejects truncated input at both layers
func TestUnwrapTruncated(t *testing.T) {
	framed, err := Wrap(WrapRequest{
		Type:        TypeDirect,
		Source:      "sender",
		Destination: testDestination(t),
		Content:     []byte("content"),
	}, 1700000000000)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	if _, err := Unwrap(framed[:3]); !errors.Is(err, ErrFrameTruncated) {
		t.Errorf("Unwrap(short frame) = %v, want ErrFrameTruncated", err)
	}

	if _, err := Unwrap(framed[:len(framed)-1]); !errors.Is(err, ErrFrameTruncated) {
		t.Errorf("Unwrap(cut frame) = %v, want ErrFrameTruncated", err)
	}

	// Truncate the inner envelope but keep the frame header honest.
	inner, err := unframe(framed)
	if err != nil {
		t.Fatalf("unframe failed: %v", err)
	}
	reframed := frame(inner[:len(inner)-1])
	if _, err := Unwrap(reframed); !errors.Is(err, ErrEnvelopeTruncated) {
		t.Errorf("Unwrap(truncated inner) = %v, want ErrEnvelopeTruncated", err)
	}
}

// TestUnwrapBadVersions verifies unknown version bytes are rejected
func TestUnwrapBadVersions(t *testing.T) {
	framed, err := Wrap(WrapRequest{
		Type:        TypeDirect,
		Source:      "sender",
		Destination: testDestination(t),
		Content:     []byte("content"),
	}, 1700000000000)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	tampered := append([]byte{}, framed...)
	tampered[0] = 9
	if _, err := Unwrap(tampered); !errors.Is(err, ErrUnsupportedFrameVersion) {
		t.Errorf("Unwrap(bad frame version) = %v, want ErrUnsupportedFrameVersion", err)
	}

	inner, _ := unframe(framed)
	inner[0] = 9
	if _, err := Unwrap(frame(inner)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Unwrap(bad envelope version) = %v, want ErrUnsupportedVersion", err)
	}
}
