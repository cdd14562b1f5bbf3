// Package crypto implements the cryptographic primitives used by the
// quietwire message pipeline.
//
// This package handles key generation and authenticated encryption of
// message content using the NaCl cryptography library through Go's
// x/crypto packages.
//
// Example:
//
//	keys, err := crypto.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Public key:", hex.EncodeToString(keys.Public[:]))
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// KeyPair represents a NaCl crypto_box key pair identifying one endpoint.
type KeyPair struct {
	Public  [32]byte
	Private [32]byte
}

// GenerateKeyPair creates a new random NaCl key pair.
func GenerateKeyPair() (*KeyPair, error) {
	publicKey, privateKey, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	keyPair := &KeyPair{
		Public:  *publicKey,
		Private: *privateKey,
	}

	return keyPair, nil
}

// FromSecretKey creates a key pair from an existing private key, deriving
// the matching public key on the curve.
func FromSecretKey(secretKey [32]byte) (*KeyPair, error) {
	if isZeroKey(secretKey) {
		return nil, errors.New("invalid secret key: all zeros")
	}

	publicBytes, err := curve25519.X25519(secretKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}

	var publicKey [32]byte
	copy(publicKey[:], publicBytes)

	return &KeyPair{
		Public:  publicKey,
		Private: secretKey,
	}, nil
}

// PublicKeyHex returns the hex encoding of the public key, the form used
// for destination identifiers on the wire.
func (kp *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(kp.Public[:])
}

// isZeroKey checks if a key consists of all zeros.
func isZeroKey(key [32]byte) bool {
	for _, b := range key {
		if b != 0 {
			return false
		}
	}
	return true
}
