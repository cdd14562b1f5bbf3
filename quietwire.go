package quietwire

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quietwire/quietwire/crypto"
	"github.com/quietwire/quietwire/envelope"
	"github.com/quietwire/quietwire/outbox"
)

// networkPrefix is the identifier prefix of this network's public keys.
const networkPrefix = "05"

// DestinationPolicy decides whether a destination requires proof-of-work.
// Recipient classes exempt from the puzzle (for example, service nodes the
// sender operates) return false.
type DestinationPolicy interface {
	RequiresProofOfWork(destination string) bool
}

// DestinationPolicyFunc adapts a function to the DestinationPolicy interface.
type DestinationPolicyFunc func(destination string) bool

// RequiresProofOfWork implements DestinationPolicy.
func (f DestinationPolicyFunc) RequiresProofOfWork(destination string) bool {
	return f(destination)
}

// Options configures a Client. Zero fields fall back to defaults.
type Options struct {
	// KeyPair is the local identity used as the message source and for
	// sealing content. Generated when nil.
	KeyPair *crypto.KeyPair

	// Policy decides per-destination proof-of-work requirements.
	// Defaults to requiring proof for every destination.
	Policy DestinationPolicy

	// Builder configures the underlying build pipeline.
	Builder outbox.BuilderConfig
}

// Client is the entry point consumed by the sending subsystem. It owns the
// build pipeline; delivering the produced wire structure to storage nodes is
// the transport collaborator's job.
type Client struct {
	keyPair *crypto.KeyPair
	policy  DestinationPolicy
	builder *outbox.Builder
}

// New creates a client and starts its build pipeline.
func New(options Options) (*Client, error) {
	keyPair := options.KeyPair
	if keyPair == nil {
		generated, err := crypto.GenerateKeyPair()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key pair: %w", err)
		}
		keyPair = generated
	}

	policy := options.Policy
	if policy == nil {
		policy = DestinationPolicyFunc(func(string) bool { return true })
	}

	c := &Client{
		keyPair: keyPair,
		policy:  policy,
		builder: outbox.NewBuilder(options.Builder),
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"source":   c.SourceID(),
	}).Info("Client created")

	return c, nil
}

// Close shuts down the build pipeline.
func (c *Client) Close() {
	c.builder.Close()
}

// SourceID returns the client's network identifier: the prefixed hex
// encoding of its public key.
func (c *Client) SourceID() string {
	return networkPrefix + c.keyPair.PublicKeyHex()
}

// DestinationID converts a public key to its network identifier form.
func DestinationID(publicKey [32]byte) string {
	return networkPrefix + hex.EncodeToString(publicKey[:])
}

// Send builds a transport-ready message and blocks until it resolves or ctx
// expires. The send timestamp is captured here; destination policy decides
// whether proof-of-work gates the message. On ctx expiry the underlying
// build is cancelled before returning.
func (c *Client) Send(ctx context.Context, msg *outbox.LogicalMessage) (*outbox.OutgoingMessage, error) {
	if msg != nil && msg.Source == "" {
		// The caller's record stays untouched; source defaulting happens
		// on a copy.
		withSource := *msg
		withSource.Source = c.SourceID()
		msg = &withSource
	}

	sendTimestamp := uint64(time.Now().UnixMilli())
	requirePoW := false
	if msg != nil {
		requirePoW = c.policy.RequiresProofOfWork(msg.Destination)
	}

	future, err := c.builder.Build(msg, sendTimestamp, requirePoW)
	if err != nil {
		return nil, err
	}

	out, err := future.Wait(ctx)
	if err != nil && errors.Is(err, ctx.Err()) {
		future.Cancel()
	}
	return out, err
}

// SendSealed seals content for the recipient with NaCl box encryption before
// building. The 24-byte nonce is prepended to the ciphertext so the
// recipient can open it with OpenSealed.
func (c *Client) SendSealed(ctx context.Context, recipientPK [32]byte, content []byte, ttl uint64) (*outbox.OutgoingMessage, error) {
	ciphertext, nonce, err := crypto.EncryptForRecipient(content, recipientPK, c.keyPair.Private)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", outbox.ErrEnvelopeConstruction, err)
	}

	sealed := make([]byte, len(nonce)+len(ciphertext))
	copy(sealed, nonce[:])
	copy(sealed[len(nonce):], ciphertext)

	return c.Send(ctx, &outbox.LogicalMessage{
		Type:        envelope.TypeDirect,
		Destination: DestinationID(recipientPK),
		Content:     sealed,
		TTL:         ttl,
	})
}

// OpenSealed opens sealed content produced by SendSealed, given the sender's
// public key.
func (c *Client) OpenSealed(sealed []byte, senderPK [32]byte) ([]byte, error) {
	if len(sealed) <= 24 {
		return nil, fmt.Errorf("sealed content too short: %d bytes", len(sealed))
	}

	var nonce crypto.Nonce
	copy(nonce[:], sealed[:24])

	return crypto.DecryptFromSender(sealed[24:], nonce, senderPK, c.keyPair.Private)
}
