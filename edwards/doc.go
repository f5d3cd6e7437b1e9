// Package edwards provides an edwards25519 implementation of the
// [group.Group] interface for use with the aggregated signing protocol.
//
// Edwards25519 is the curve underlying the ed25519 signature scheme and
// is the curve Solana uses for account keys and transaction signatures.
//
// This package wraps filippo.io/edwards25519, providing a clean interface
// that satisfies [group.Group], [group.Scalar], and [group.Point].
//
// # Encodings
//
// Points encode to the standard 32-byte compressed form (y coordinate
// plus sign bit); scalars encode to 32 bytes little-endian. Both match
// the encodings inside a standard ed25519 signature, which is what makes
// the combined signature produced by the musig package directly
// verifiable by the Solana runtime.
//
// # Usage
//
// Create an Ed25519 group and use it with the protocol:
//
//	g := &edwards.Ed25519{}
//	commitment, secret, err := musig.CommitNonces(g, rand.Reader, pub)
//
// # Security
//
// This implementation relies on filippo.io/edwards25519 for the
// underlying curve arithmetic. SetBytes rejects encodings that are not
// valid curve points, and scalar decoding rejects non-canonical values,
// so malformed wire data never reaches protocol arithmetic.
package edwards
