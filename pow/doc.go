// Package pow implements the proof-of-work puzzle that gates message
// submission to storage nodes.
//
// # Overview
//
// Storing a message costs the network storage-time proportional to the
// message's size and TTL. To discourage spam, senders must attach a nonce
// whose derived hash falls at or below a difficulty target scaled to that
// cost. The puzzle is the Bitmessage family: the target is
//
//	MaxUint64 / (nonceTrials * (len + ttl*len/2^16))
//
// where len includes the 8-byte nonce, and a candidate nonce is accepted
// when the first 8 bytes of
//
//	SHA512(nonce || SHA512(destination || timestamp || ttl || payload))
//
// interpreted as a big-endian integer are at or below the target.
//
// # Search Behaviour
//
// The search scans nonces sequentially from zero, so for identical inputs
// the returned nonce is always the smallest solution. Trial count is
// Poisson-distributed with no upper bound, so the engine enforces a
// configurable trial budget (MaxIterations) and fails with ErrExhausted
// rather than blocking indefinitely; a caller that still needs a solution
// retries with a fresh timestamp. The search also observes context
// cancellation between batches of trials.
//
// # Concurrency
//
// An Engine is stateless apart from its configuration and may be shared
// freely: concurrent Solve calls do not coordinate and each owns only its
// local loop counter.
package pow
