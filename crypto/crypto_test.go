package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/quietwire/quietwire/limits"
)

// TestGenerateKeyPair tests random key pair generation
func TestGenerateKeyPair(t *testing.T) {
	keyPair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate key pair: %v", err)
	}

	if keyPair == nil {
		t.Fatal("GenerateKeyPair returned nil")
	}

	var zero [32]byte
	if keyPair.Public == zero {
		t.Error("Generated public key is all zeros")
	}
	if keyPair.Private == zero {
		t.Error("Generated private key is all zeros")
	}

	other, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate second key pair: %v", err)
	}
	if keyPair.Public == other.Public {
		t.Error("Two generated key pairs share a public key")
	}
}

// TestFromSecretKey tests public key derivation from a private key
func TestFromSecretKey(t *testing.T) {
	original, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate key pair: %v", err)
	}

	derived, err := FromSecretKey(original.Private)
	if err != nil {
		t.Fatalf("FromSecretKey failed: %v", err)
	}

	if derived.Public != original.Public {
		t.Errorf("Derived public key %x does not match original %x",
			derived.Public, original.Public)
	}
}

// TestFromSecretKeyRejectsZeros tests rejection of an all-zero private key
func TestFromSecretKeyRejectsZeros(t *testing.T) {
	var zero [32]byte
	if _, err := FromSecretKey(zero); err == nil {
		t.Error("FromSecretKey accepted an all-zero secret key")
	}
}

// TestPublicKeyHex verifies the hex identifier form
func TestPublicKeyHex(t *testing.T) {
	keyPair, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate key pair: %v", err)
	}

	encoded := keyPair.PublicKeyHex()
	if len(encoded) != 64 {
		t.Errorf("PublicKeyHex length = %d, want 64", len(encoded))
	}

	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("PublicKeyHex produced invalid hex: %v", err)
	}
	if !bytes.Equal(decoded, keyPair.Public[:]) {
		t.Error("PublicKeyHex does not round-trip to the public key bytes")
	}
}

// TestEncryptDecryptRoundTrip tests seal and open between two key pairs
func TestEncryptDecryptRoundTrip(t *testing.T) {
	sender, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate sender key pair: %v", err)
	}
	recipient, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate recipient key pair: %v", err)
	}

	message := []byte("offline message for a storage node")

	ciphertext, nonce, err := EncryptForRecipient(message, recipient.Public, sender.Private)
	if err != nil {
		t.Fatalf("EncryptForRecipient failed: %v", err)
	}

	if len(ciphertext) != len(message)+limits.EncryptionOverhead {
		t.Errorf("ciphertext length = %d, want %d",
			len(ciphertext), len(message)+limits.EncryptionOverhead)
	}

	decrypted, err := DecryptFromSender(ciphertext, nonce, sender.Public, recipient.Private)
	if err != nil {
		t.Fatalf("DecryptFromSender failed: %v", err)
	}

	if !bytes.Equal(decrypted, message) {
		t.Errorf("decrypted = %q, want %q", decrypted, message)
	}
}

// TestDecryptWrongKey verifies authentication failure with the wrong key
func TestDecryptWrongKey(t *testing.T) {
	sender, _ := GenerateKeyPair()
	recipient, _ := GenerateKeyPair()
	eavesdropper, _ := GenerateKeyPair()

	ciphertext, nonce, err := EncryptForRecipient([]byte("secret"), recipient.Public, sender.Private)
	if err != nil {
		t.Fatalf("EncryptForRecipient failed: %v", err)
	}

	if _, err := DecryptFromSender(ciphertext, nonce, sender.Public, eavesdropper.Private); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("decryption with wrong key = %v, want ErrDecryptionFailed", err)
	}
}

// TestEncryptEmptyMessage verifies empty content is rejected
func TestEncryptEmptyMessage(t *testing.T) {
	sender, _ := GenerateKeyPair()
	recipient, _ := GenerateKeyPair()

	if _, _, err := EncryptForRecipient(nil, recipient.Public, sender.Private); !errors.Is(err, limits.ErrMessageEmpty) {
		t.Errorf("EncryptForRecipient(nil) = %v, want ErrMessageEmpty", err)
	}
}

// TestEncryptOversizedMessage verifies the content cap is enforced
func TestEncryptOversizedMessage(t *testing.T) {
	sender, _ := GenerateKeyPair()
	recipient, _ := GenerateKeyPair()

	big := make([]byte, limits.MaxContentSize+1)
	if _, _, err := EncryptForRecipient(big, recipient.Public, sender.Private); !errors.Is(err, limits.ErrMessageTooLarge) {
		t.Errorf("EncryptForRecipient(oversized) = %v, want ErrMessageTooLarge", err)
	}
}
