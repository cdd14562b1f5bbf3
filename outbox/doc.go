// Package outbox assembles transport-ready outgoing messages for the
// storage-node network.
//
// # Overview
//
// A build takes a caller-owned LogicalMessage through three steps:
//
//   - the envelope codec serializes it against an explicit send timestamp
//     and frames it for transport (failures report synchronously as
//     ErrEnvelopeConstruction)
//
//   - when destination policy requires it, a proof-of-work search runs on
//     the builder's CPU-bound worker pool, binding a nonce to a freshly
//     captured wall-clock timestamp
//
//   - the OutgoingMessage is assembled with the base64 payload, the TTL,
//     and — only when a proof was computed — the timestamp/nonce pair
//
// Build returns a Future so the calling goroutine is never occupied by the
// search. Cancellation is first-class: Future.Cancel aborts a search in
// flight and the future resolves with ErrBuildCancelled, distinct from
// ErrProofOfWorkFailed so callers can tell "gave up" from "no longer
// wanted".
//
// The pipeline retains nothing across builds: no caching, no automatic
// retries, and no completion-order guarantee between concurrent builds.
package outbox
