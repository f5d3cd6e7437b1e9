package group

import (
	"io"
)

// Scalar represents an element of the scalar field associated with a
// cryptographic group. Scalars are integers modulo the group order and
// appear in the protocol as private keys, secret nonces, aggregation
// coefficients, and signature values.
//
// All arithmetic methods use a mutable receiver pattern: they modify
// the receiver, store the result in it, and return it. This allows for
// efficient method chaining while minimizing memory allocations.
//
// Implementations must ensure all operations produce results in the
// valid range [0, order).
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Bytes returns the canonical fixed-width byte encoding of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from a canonical byte encoding and
	// returns it. Returns an error if the data is not a canonical
	// encoding of a scalar in [0, order).
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point represents an element of a cryptographic group, typically a point
// on an elliptic curve. Points appear in the protocol as public keys,
// public nonces, and the R component of signatures.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern
// for efficiency.
//
// The identity element (zero point, point at infinity) is the additive
// identity: P + Identity = P for all points P.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical compressed byte encoding of the point.
	Bytes() []byte
	// SetBytes sets the receiver from a compressed point encoding and
	// returns it. Returns an error if the data does not represent a
	// valid curve point.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group defines a cryptographic group suitable for aggregated Schnorr
// signing. It provides factory methods for creating scalars and points,
// access to the group's generator, and utility functions for random
// scalar generation and hashing.
//
// A Group implementation encapsulates all curve-specific details; the
// signing protocol in the musig package is generic over this interface.
// The concrete group used for Solana transactions is edwards.Ed25519.
type Group interface {
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a cryptographically random scalar drawn
	// from r. On a read failure no scalar is returned.
	RandomScalar(r io.Reader) (Scalar, error)
	// HashToScalar hashes the concatenation of data to a scalar using
	// the group's signature hash function.
	HashToScalar(data ...[]byte) (Scalar, error)
}
