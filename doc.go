// Package quietwire prepares outgoing messages for a decentralized
// storage-node network.
//
// The pipeline takes a caller-owned logical message, serializes it into a
// framed transport envelope, and — when destination policy requires it —
// attaches a proof-of-work nonce bound to the send timestamp, the TTL and
// the payload. The result is a flat key/value wire structure ready for the
// transport layer to deliver; actually delivering it is outside this
// module's scope, as are persistence and any UI concerns.
//
// # Getting Started
//
// Create a client and send a message:
//
//	client, err := quietwire.New(quietwire.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	out, err := client.Send(ctx, &outbox.LogicalMessage{
//	    Type:        envelope.TypeDirect,
//	    Destination: quietwire.DestinationID(recipientPK),
//	    Content:     []byte("hello"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	params := out.WireParams() // pubKey, data, ttl (+ timestamp, nonce)
//
// # Subsystems
//
// The facade integrates the module's packages:
//
//   - envelope: the two-layer binary codec (inner envelope + transport frame)
//   - pow: the difficulty-scaled proof-of-work puzzle and its verifier
//   - outbox: the asynchronous builder with its CPU-bound worker pool
//   - crypto: NaCl box sealing of message content between identities
//   - limits: centralized size caps shared by all of the above
//
// Callers needing fine-grained control (non-blocking builds, cancellation
// of an individual proof-of-work search) can use outbox.Builder directly;
// Client.Send is the blocking convenience over the same pipeline.
package quietwire
