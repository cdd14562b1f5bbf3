package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"github.com/quietwire/quietwire/limits"
)

// Nonce is a 24-byte value used for encryption.
type Nonce [24]byte

var (
	// ErrDecryptionFailed indicates the ciphertext could not be authenticated
	ErrDecryptionFailed = errors.New("decryption failed")
)

// GenerateNonce creates a cryptographically secure random nonce.
func GenerateNonce() (Nonce, error) {
	var nonce Nonce
	_, err := rand.Read(nonce[:])
	if err != nil {
		return Nonce{}, err
	}
	return nonce, nil
}

// EncryptForRecipient seals message content for a recipient using NaCl box
// authenticated encryption with a fresh random nonce. The returned nonce must
// accompany the ciphertext for the recipient to open it.
func EncryptForRecipient(message []byte, recipientPK [32]byte, senderSK [32]byte) ([]byte, Nonce, error) {
	if err := limits.ValidateContentSize(message); err != nil {
		return nil, Nonce{}, err
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return nil, Nonce{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	encrypted := box.Seal(nil, message, (*[24]byte)(&nonce), &recipientPK, &senderSK)
	return encrypted, nonce, nil
}

// DecryptFromSender opens a sealed message from a known sender.
func DecryptFromSender(ciphertext []byte, nonce Nonce, senderPK [32]byte, recipientSK [32]byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, limits.ErrMessageEmpty
	}

	decrypted, ok := box.Open(nil, ciphertext, (*[24]byte)(&nonce), &senderPK, &recipientSK)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return decrypted, nil
}
