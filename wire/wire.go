package wire

import (
	"errors"
	"fmt"

	"github.com/splitsig/solwallet/edwards"
	"github.com/splitsig/solwallet/musig"
)

// All protocol fields use the ed25519 canonical encodings: 32 bytes for
// a compressed point and 32 bytes for a scalar. Message sizes are the
// exact sum of their field widths; decoders accept nothing shorter or
// longer.
const (
	// PointSize is the width of a compressed curve point.
	PointSize = 32
	// ScalarSize is the width of a canonical scalar.
	ScalarSize = 32

	// CommitmentSize is sender ‖ R1 ‖ R2.
	CommitmentSize = 3 * PointSize
	// SecretNoncesSize is k1 ‖ k2 ‖ R1 ‖ R2.
	SecretNoncesSize = 2*ScalarSize + 2*PointSize
	// PartialSignatureSize is R ‖ s.
	PartialSignatureSize = PointSize + ScalarSize
)

// ErrLength reports a buffer whose total length differs from the exact
// sum of the message's field widths.
var ErrLength = errors.New("buffer length does not match message layout")

// DecodeError wraps a decoding failure with the field that caused it,
// so callers can distinguish a truncated buffer from a malformed point
// or scalar encoding. The curve library's own rejection is preserved in
// Err and reachable through Unwrap.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: decoding %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var codecGroup = &edwards.Ed25519{}

func checkLength(buf []byte, want int) error {
	if len(buf) != want {
		return &DecodeError{
			Field: "length",
			Err:   fmt.Errorf("have %d bytes, want exactly %d: %w", len(buf), want, ErrLength),
		}
	}
	return nil
}

// EncodeCommitment serializes a round-1 nonce commitment as
// sender(32) ‖ R1(32) ‖ R2(32).
func EncodeCommitment(m *musig.NonceCommitment) []byte {
	buf := make([]byte, 0, CommitmentSize)
	buf = append(buf, m.Sender.Bytes()...)
	buf = append(buf, m.R[0].Bytes()...)
	buf = append(buf, m.R[1].Bytes()...)
	return buf
}

// DecodeCommitment parses a round-1 nonce commitment. The buffer must
// be exactly [CommitmentSize] bytes and every field a valid encoding.
func DecodeCommitment(buf []byte) (*musig.NonceCommitment, error) {
	if err := checkLength(buf, CommitmentSize); err != nil {
		return nil, err
	}

	sender, err := codecGroup.NewPoint().SetBytes(buf[0:32])
	if err != nil {
		return nil, &DecodeError{Field: "sender", Err: err}
	}
	r1, err := codecGroup.NewPoint().SetBytes(buf[32:64])
	if err != nil {
		return nil, &DecodeError{Field: "nonce point R1", Err: err}
	}
	r2, err := codecGroup.NewPoint().SetBytes(buf[64:96])
	if err != nil {
		return nil, &DecodeError{Field: "nonce point R2", Err: err}
	}

	m := &musig.NonceCommitment{Sender: sender}
	m.R[0] = r1
	m.R[1] = r2
	return m, nil
}

// EncodeSecretNonces serializes a round-1 secret bundle as
// k1(32) ‖ k2(32) ‖ R1(32) ‖ R2(32). The output is secret key material:
// it is handed back to the session driver for safekeeping between
// rounds and must never be logged or persisted server-side.
func EncodeSecretNonces(s *musig.SecretNonces) []byte {
	buf := make([]byte, 0, SecretNoncesSize)
	buf = append(buf, s.K[0].Bytes()...)
	buf = append(buf, s.K[1].Bytes()...)
	buf = append(buf, s.R[0].Bytes()...)
	buf = append(buf, s.R[1].Bytes()...)
	return buf
}

// DecodeSecretNonces parses a round-1 secret bundle. The buffer must be
// exactly [SecretNoncesSize] bytes and every field a valid encoding.
func DecodeSecretNonces(buf []byte) (*musig.SecretNonces, error) {
	if err := checkLength(buf, SecretNoncesSize); err != nil {
		return nil, err
	}

	k1, err := codecGroup.NewScalar().SetBytes(buf[0:32])
	if err != nil {
		return nil, &DecodeError{Field: "secret nonce k1", Err: err}
	}
	k2, err := codecGroup.NewScalar().SetBytes(buf[32:64])
	if err != nil {
		return nil, &DecodeError{Field: "secret nonce k2", Err: err}
	}
	r1, err := codecGroup.NewPoint().SetBytes(buf[64:96])
	if err != nil {
		return nil, &DecodeError{Field: "nonce point R1", Err: err}
	}
	r2, err := codecGroup.NewPoint().SetBytes(buf[96:128])
	if err != nil {
		return nil, &DecodeError{Field: "nonce point R2", Err: err}
	}

	s := &musig.SecretNonces{}
	s.K[0] = k1
	s.K[1] = k2
	s.R[0] = r1
	s.R[1] = r2
	return s, nil
}

// EncodePartialSignature serializes a round-2 share as R(32) ‖ s(32),
// the same layout as a full 64-byte signature.
func EncodePartialSignature(p *musig.PartialSignature) []byte {
	buf := make([]byte, 0, PartialSignatureSize)
	buf = append(buf, p.R.Bytes()...)
	buf = append(buf, p.S.Bytes()...)
	return buf
}

// DecodePartialSignature parses a round-2 share. The buffer must be
// exactly [PartialSignatureSize] bytes and both fields valid encodings.
func DecodePartialSignature(buf []byte) (*musig.PartialSignature, error) {
	if err := checkLength(buf, PartialSignatureSize); err != nil {
		return nil, err
	}

	r, err := codecGroup.NewPoint().SetBytes(buf[0:32])
	if err != nil {
		return nil, &DecodeError{Field: "nonce point R", Err: err}
	}
	s, err := codecGroup.NewScalar().SetBytes(buf[32:64])
	if err != nil {
		return nil, &DecodeError{Field: "signature scalar s", Err: err}
	}

	return &musig.PartialSignature{R: r, S: s}, nil
}
