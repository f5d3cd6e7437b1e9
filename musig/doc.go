// Package musig implements two-round aggregated Schnorr signing (MuSig2
// style) over an arbitrary elliptic curve group.
//
// The protocol lets n holders of independent key pairs jointly produce a
// single signature valid under one aggregated public key, without any
// party learning another's private key. It consists of three phases:
//
// # Key Aggregation
//
// [KeyAgg] combines the participants' public keys into one aggregated
// key. Each key is weighted by a coefficient derived from the full key
// set, which prevents a participant from choosing a key that cancels
// another's contribution (the rogue-key attack). Funds belong to the
// aggregated key; no individual key can spend them.
//
// # Two-Round Signing
//
//  1. Each signer generates two fresh secret nonces and broadcasts the
//     corresponding public points using [CommitNonces].
//  2. Each signer consumes all peers' public nonces, its own secret
//     nonces, and the exact message bytes to produce a share using
//     [PartialSign].
//  3. [Combine] sums the shares into one signature and verifies it
//     against the aggregated key before returning it.
//
// Two nonces per signer are required: the second is folded in via a
// binding factor that depends on the message and all public nonces,
// which defeats attacks where an adversary adapts its nonce to others'.
//
// # Statelessness and Nonce Reuse
//
// All functions here are pure and stateless; session state between
// rounds is carried by the caller. In particular the engine cannot
// detect reuse of a [SecretNonces] value across two different messages.
// Reuse leaks the private key: with the two-nonce scheme, three
// signatures under one reused nonce pair give three linear equations in
// three unknowns, one of which is the private key (demonstrated in the
// package tests). Callers must enforce single use; the wallet package
// does so with a one-time-use guard.
//
// # Example
//
// Two-party signing over ed25519:
//
//	g := &edwards.Ed25519{}
//	agg, _ := musig.KeyAgg(g, []group.Point{pubA, pubB}, nil)
//
//	commitA, secretA, _ := musig.CommitNonces(g, rand.Reader, pubA)
//	commitB, secretB, _ := musig.CommitNonces(g, rand.Reader, pubB)
//
//	shareA, _ := musig.PartialSign(g, privA, pubA, msg, keys, []*musig.NonceCommitment{commitB}, secretA)
//	shareB, _ := musig.PartialSign(g, privB, pubB, msg, keys, []*musig.NonceCommitment{commitA}, secretB)
//
//	sig, _ := musig.Combine(g, msg, keys, []*musig.PartialSignature{shareA, shareB})
//	// sig verifies as a plain Schnorr signature under agg.Point
package musig
