package pow

import (
	"context"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	// NonceSize is the size of a proof-of-work nonce in bytes.
	NonceSize = 8

	// DefaultNonceTrials is the default difficulty scaling factor: the
	// expected number of hash trials per scaled payload byte.
	DefaultNonceTrials = 100

	// DefaultMaxIterations is the default search budget. The expected trial
	// count for typical messages is orders of magnitude below this; hitting
	// the budget indicates adversarial difficulty and the caller should
	// retry with a fresh timestamp.
	DefaultMaxIterations = 1 << 26

	// checkInterval is how often the search loop polls for cancellation.
	checkInterval = 1 << 14
)

var (
	// ErrExhausted indicates the trial budget ran out without a solution
	ErrExhausted = errors.New("proof of work exhausted")
	// ErrInvalidNonce indicates a nonce of the wrong size
	ErrInvalidNonce = errors.New("invalid nonce")
)

// Config holds the policy parameters of the proof-of-work puzzle. The
// difficulty scaling constants are deployment policy, not part of the
// algorithmic contract, so they are configuration rather than constants.
type Config struct {
	// NonceTrials scales the difficulty target. Higher values make every
	// message proportionally more expensive.
	NonceTrials uint64

	// MaxIterations bounds the sequential nonce scan. The search fails with
	// ErrExhausted instead of blocking indefinitely.
	MaxIterations uint64
}

// DefaultConfig returns the default puzzle parameters.
func DefaultConfig() Config {
	return Config{
		NonceTrials:   DefaultNonceTrials,
		MaxIterations: DefaultMaxIterations,
	}
}

// Engine performs proof-of-work searches. It holds no mutable state and is
// safe for concurrent use; each Solve call owns only its local loop counter.
type Engine struct {
	config Config
}

// NewEngine creates a proof-of-work engine. Zero config fields fall back to
// the defaults.
func NewEngine(config Config) *Engine {
	if config.NonceTrials == 0 {
		config.NonceTrials = DefaultNonceTrials
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = DefaultMaxIterations
	}
	return &Engine{config: config}
}

// Target computes the difficulty target for a payload of the given size and
// TTL (milliseconds). A digest value must be at or below the target to
// satisfy the puzzle. The target is non-increasing in both payload size and
// TTL: messages that consume more network storage-time cost more to send.
func (e *Engine) Target(payloadLen int, ttl uint64) uint64 {
	return Target(payloadLen, ttl, e.config.NonceTrials)
}

// Target computes the difficulty target for the given scaling factor.
func Target(payloadLen int, ttl, nonceTrials uint64) uint64 {
	totalLen := uint64(payloadLen) + NonceSize
	ttlWeight := (ttl * totalLen) / (1 << 16)
	denominator := nonceTrials * (totalLen + ttlWeight)
	if denominator == 0 {
		denominator = 1
	}
	return math.MaxUint64 / denominator
}

// Solve searches for the smallest nonce whose digest satisfies the
// difficulty target for this payload, destination, timestamp and TTL.
// Nonces are scanned sequentially from zero, so the result is reproducible
// for identical inputs. The search aborts with ErrExhausted once the trial
// budget is spent, or with the context error on cancellation.
func (e *Engine) Solve(ctx context.Context, payload []byte, destination string, timestamp, ttl uint64) ([]byte, error) {
	target := e.Target(len(payload), ttl)
	initial := initialDigest(payload, destination, timestamp, ttl)

	logrus.WithFields(logrus.Fields{
		"function":     "Solve",
		"payload_size": len(payload),
		"ttl":          ttl,
		"target":       target,
	}).Debug("Starting proof-of-work search")

	var trial [NonceSize + sha512.Size]byte
	copy(trial[NonceSize:], initial[:])

	for nonce := uint64(0); nonce < e.config.MaxIterations; nonce++ {
		if nonce%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("search cancelled: %w", ctx.Err())
			default:
			}
		}

		binary.BigEndian.PutUint64(trial[:NonceSize], nonce)
		digest := sha512.Sum512(trial[:])
		if binary.BigEndian.Uint64(digest[:NonceSize]) <= target {
			logrus.WithFields(logrus.Fields{
				"function": "Solve",
				"nonce":    nonce,
				"trials":   nonce + 1,
			}).Debug("Proof-of-work search succeeded")

			solution := make([]byte, NonceSize)
			binary.BigEndian.PutUint64(solution, nonce)
			return solution, nil
		}
	}

	return nil, fmt.Errorf("%w: no solution within %d trials", ErrExhausted, e.config.MaxIterations)
}

// Verify reports whether a nonce satisfies the difficulty target for the
// given inputs. This is the acceptance check storage nodes run on submitted
// messages.
func (e *Engine) Verify(nonce, payload []byte, destination string, timestamp, ttl uint64) error {
	if len(nonce) != NonceSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidNonce, len(nonce), NonceSize)
	}

	target := e.Target(len(payload), ttl)
	initial := initialDigest(payload, destination, timestamp, ttl)

	var trial [NonceSize + sha512.Size]byte
	copy(trial[:NonceSize], nonce)
	copy(trial[NonceSize:], initial[:])

	digest := sha512.Sum512(trial[:])
	if binary.BigEndian.Uint64(digest[:NonceSize]) > target {
		return fmt.Errorf("%w: digest above target", ErrInvalidNonce)
	}
	return nil
}

// initialDigest hashes the fixed search inputs once so the per-trial work is
// a single hash over nonce || initial.
func initialDigest(payload []byte, destination string, timestamp, ttl uint64) [sha512.Size]byte {
	h := sha512.New()
	h.Write([]byte(destination))
	h.Write([]byte(strconv.FormatUint(timestamp, 10)))
	h.Write([]byte(strconv.FormatUint(ttl, 10)))
	h.Write(payload)

	var digest [sha512.Size]byte
	h.Sum(digest[:0])
	return digest
}
