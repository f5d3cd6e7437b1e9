package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// PubkeySize is the width of a Solana account address: a 32-byte
// compressed edwards25519 point.
const PubkeySize = 32

// KeypairSize is the width of a Solana keypair: the 32-byte ed25519
// seed followed by the 32-byte public key, the same layout the Solana
// CLI writes to disk.
const KeypairSize = 64

// Pubkey is a Solana account address.
type Pubkey [PubkeySize]byte

// ParsePubkey parses a base58-encoded account address.
func ParsePubkey(s string) (Pubkey, error) {
	var pk Pubkey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, errors.Wrap(err, "decode base58 public key")
	}
	if len(raw) != PubkeySize {
		return pk, errors.Errorf("public key is %d bytes, want %d", len(raw), PubkeySize)
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPubkey parses a base58 address and panics on failure. Only for
// well-known constants.
func MustPubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PubkeyFromBytes builds an address from a raw 32-byte encoding.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != PubkeySize {
		return pk, errors.Errorf("public key is %d bytes, want %d", len(b), PubkeySize)
	}
	copy(pk[:], b)
	return pk, nil
}

// Bytes returns the raw 32-byte encoding.
func (pk Pubkey) Bytes() []byte {
	return pk[:]
}

// String returns the base58 form.
func (pk Pubkey) String() string {
	return base58.Encode(pk[:])
}

// Keypair is an ed25519 keypair in Solana's 64-byte seed‖pub layout.
// The seed half is the signer's long-lived secret: it must never be
// logged or persisted by this service.
type Keypair struct {
	b [KeypairSize]byte
}

// NewKeypair generates a fresh keypair from a cryptographically secure
// random source. Pass nil to use crypto/rand.
func NewKeypair(rng io.Reader) (*Keypair, error) {
	if rng == nil {
		rng = rand.Reader
	}
	_, priv, err := ed25519.GenerateKey(rng)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 keypair")
	}
	var kp Keypair
	copy(kp.b[:], priv)
	return &kp, nil
}

// ParseKeypair parses a base58-encoded 64-byte keypair and verifies
// that the public half matches the seed, rejecting corrupted or
// mismatched key material before it reaches any signing operation.
func ParseKeypair(s string) (*Keypair, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode base58 keypair")
	}
	if len(raw) != KeypairSize {
		return nil, errors.Errorf("keypair is %d bytes, want %d", len(raw), KeypairSize)
	}

	derived := ed25519.NewKeyFromSeed(raw[:32])
	if !derived.Equal(ed25519.PrivateKey(raw)) {
		return nil, errors.New("keypair public half does not match its seed")
	}

	var kp Keypair
	copy(kp.b[:], raw)
	return &kp, nil
}

// Pubkey returns the public half as an account address.
func (kp *Keypair) Pubkey() Pubkey {
	var pk Pubkey
	copy(pk[:], kp.b[32:])
	return pk
}

// Seed returns the 32-byte ed25519 seed.
func (kp *Keypair) Seed() []byte {
	return kp.b[:32]
}

// Sign signs message with the keypair's private key, producing a
// standard 64-byte ed25519 signature.
func (kp *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(kp.b[:]), message)
}

// String returns the base58 form of the full 64-byte keypair. The
// result contains the private seed; treat it accordingly.
func (kp *Keypair) String() string {
	return base58.Encode(kp.b[:])
}

// Hash is a Solana block hash, used as the recent-block reference that
// scopes a transaction's validity window.
type Hash [32]byte

// ParseHash parses a base58-encoded block hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := base58.Decode(s)
	if err != nil {
		return h, errors.Wrap(err, "decode base58 block hash")
	}
	if len(raw) != len(h) {
		return h, errors.Errorf("block hash is %d bytes, want %d", len(raw), len(h))
	}
	copy(h[:], raw)
	return h, nil
}

// String returns the base58 form.
func (h Hash) String() string {
	return base58.Encode(h[:])
}
