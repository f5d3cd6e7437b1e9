package edwards

import (
	"crypto/sha512"
	"errors"
	"io"

	ed "filippo.io/edwards25519"

	"github.com/splitsig/solwallet/group"
)

// Scalar represents an element of the ed25519 scalar field, the integers
// modulo the prime order L of the curve's main subgroup. It implements
// [group.Scalar] by wrapping filippo.io/edwards25519.
//
// The canonical encoding is 32 bytes little-endian, matching the s
// component of a standard ed25519 signature.
type Scalar struct {
	inner *ed.Scalar
}

func newScalar() *Scalar {
	return &Scalar{inner: ed.NewScalar()}
}

// Add sets s to a + b (mod L) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b (mod L) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b (mod L) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Negate sets s to -a (mod L) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) (mod L) and returns s.
// Returns an error if a is zero, as zero has no multiplicative inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.Invert(aScalar.inner)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// Bytes returns the scalar as its canonical 32-byte little-endian encoding.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes sets s from a canonical 32-byte little-endian encoding and
// returns s. Returns an error if data is not exactly 32 bytes or encodes
// a value outside [0, L).
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(b.(*Scalar).inner) == 1
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(ed.NewScalar()) == 1
}

// Point represents a point on the edwards25519 curve. It implements
// [group.Point] by wrapping filippo.io/edwards25519.
//
// The canonical encoding is the standard 32-byte compressed form: the
// y coordinate with the sign of x in the top bit. This is the same
// encoding Solana uses for account public keys.
type Point struct {
	inner *ed.Point
}

func newPoint() *Point {
	return &Point{inner: ed.NewIdentityPoint()}
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(s.(*Scalar).inner, q.(*Point).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed point encoding.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes sets p from a 32-byte compressed point encoding and returns p.
// Returns an error if the data does not represent a valid curve point.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if _, err := p.inner.SetBytes(data); err != nil {
		return nil, err
	}
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(b.(*Point).inner) == 1
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(ed.NewIdentityPoint()) == 1
}

// Ed25519 implements [group.Group] for the edwards25519 curve.
//
// Ed25519 is a zero-sized type that provides access to edwards25519
// operations. Create an instance with &Ed25519{} or new(Ed25519).
type Ed25519 struct{}

// NewScalar returns a new scalar initialized to zero.
func (g *Ed25519) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element.
func (g *Ed25519) NewPoint() group.Point {
	return newPoint()
}

// Generator returns the standard edwards25519 base point.
func (g *Ed25519) Generator() group.Point {
	return &Point{inner: ed.NewGeneratorPoint()}
}

// RandomScalar generates a cryptographically random scalar using the
// provided random source. 64 bytes are read and reduced modulo L so
// the result is uniformly distributed.
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := newScalar()
	if _, err := s.inner.SetUniformBytes(buf[:]); err != nil {
		return nil, err
	}
	return s, nil
}

// HashToScalar hashes the provided data to a scalar using SHA-512.
// Multiple byte slices are concatenated before hashing; the 64-byte
// digest is interpreted little-endian and reduced modulo L.
//
// This is the hash-to-scalar construction of standard ed25519, so a
// challenge computed as HashToScalar(R, A, message) matches the one an
// ed25519 verifier recomputes.
func (g *Ed25519) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	digest := h.Sum(nil)

	s := newScalar()
	if _, err := s.inner.SetUniformBytes(digest); err != nil {
		return nil, err
	}
	return s, nil
}

// ScalarFromSeed expands a 32-byte ed25519 seed into its secret scalar:
// the first half of SHA-512(seed), clamped per RFC 8032. The public key
// corresponding to the seed equals ScalarMult(scalar, Generator()).
func ScalarFromSeed(seed []byte) (group.Scalar, error) {
	if len(seed) != 32 {
		return nil, errors.New("ed25519 seed must be 32 bytes")
	}
	digest := sha512.Sum512(seed)
	s := newScalar()
	if _, err := s.inner.SetBytesWithClamping(digest[:32]); err != nil {
		return nil, err
	}
	return s, nil
}
