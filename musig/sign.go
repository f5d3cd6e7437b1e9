package musig

import (
	"io"

	"github.com/splitsig/solwallet/group"
)

// bindingTag domain-separates the nonce binding factor from the
// aggregation coefficient hash. The challenge hash carries no tag: it
// must be exactly the standard Schnorr challenge of the underlying
// signature scheme so the combined signature verifies on chain.
var bindingTag = []byte("solwallet/musig2/binding/v1")

// SecretNonces is the secret half of a round-1 commitment: two
// independent random scalars and their public points. The fixed-size
// arrays are deliberate; the protocol uses exactly two nonces per
// signer and the wire layout depends on it.
//
// A SecretNonces value must be consumed by at most one [PartialSign]
// call and then discarded. The engine is stateless and cannot detect
// reuse; see the package documentation for the consequences.
type SecretNonces struct {
	K [2]group.Scalar
	R [2]group.Point
}

// NonceCommitment is the public half of a round-1 commitment, broadcast
// to the other participants: the sender's public key and its two public
// nonce points.
type NonceCommitment struct {
	Sender group.Point
	R      [2]group.Point
}

// PartialSignature is one signer's contribution: the combined nonce
// point R (identical for every honest signer in the session) and the
// signer's scalar share s. Alone it signs nothing; combined with the
// other participants' shares it becomes a full signature.
type PartialSignature struct {
	R group.Point
	S group.Scalar
}

// Signature is a Schnorr signature under the aggregated public key.
type Signature struct {
	R group.Point
	S group.Scalar
}

// Bytes returns the 64-byte wire form R ‖ s used by the chain.
func (sig *Signature) Bytes() []byte {
	return append(sig.R.Bytes(), sig.S.Bytes()...)
}

// CommitNonces runs round 1 for one signer: it draws two independent
// random nonces and returns the public commitment to broadcast along
// with the secret half to hold back for round 2.
//
// A failure of the random source aborts the session; no partially
// constructed bundle is returned, and the caller must not retry with
// anything but a fresh call.
func CommitNonces(g group.Group, rng io.Reader, sender group.Point) (*NonceCommitment, *SecretNonces, error) {
	var secret SecretNonces
	var commitment NonceCommitment

	for i := 0; i < 2; i++ {
		k, err := g.RandomScalar(rng)
		if err != nil {
			return nil, nil, err
		}
		secret.K[i] = k
		secret.R[i] = g.NewPoint().ScalarMult(k, g.Generator())
		commitment.R[i] = g.NewPoint().Set(secret.R[i])
	}

	commitment.Sender = g.NewPoint().Set(sender)
	return &commitment, &secret, nil
}

// PartialSign runs round 2 for one signer and produces its signature
// share over message.
//
// keys is the full participant set (including the local key); peers
// holds the round-1 commitments of every other participant, exactly one
// each. secret is the local signer's round-1 secret bundle and must
// never have been used for a different message.
//
// Errors: [ErrKeyNotInSet] if pub is not in keys, [ErrMismatchedMessages]
// if the commitments do not line up one-to-one with the other
// participants, plus any group arithmetic failure.
func PartialSign(
	g group.Group,
	priv group.Scalar,
	pub group.Point,
	message []byte,
	keys []group.Point,
	peers []*NonceCommitment,
	secret *SecretNonces,
) (*PartialSignature, error) {
	agg, err := KeyAgg(g, keys, nil)
	if err != nil {
		return nil, err
	}

	coef, err := agg.Coefficient(pub)
	if err != nil {
		return nil, err
	}

	if len(peers) != len(keys)-1 {
		return nil, ErrMismatchedMessages
	}
	seen := map[string]bool{string(pub.Bytes()): true}
	for _, p := range peers {
		if _, err := agg.Coefficient(p.Sender); err != nil {
			return nil, ErrKeyNotInSet
		}
		id := string(p.Sender.Bytes())
		if seen[id] {
			return nil, ErrMismatchedMessages
		}
		seen[id] = true
	}

	// Sum each nonce slot over all participants, own nonces included.
	sum1 := g.NewPoint().Set(secret.R[0])
	sum2 := g.NewPoint().Set(secret.R[1])
	for _, p := range peers {
		sum1 = g.NewPoint().Add(sum1, p.R[0])
		sum2 = g.NewPoint().Add(sum2, p.R[1])
	}

	b, err := g.HashToScalar(bindingTag, agg.Point.Bytes(), sum1.Bytes(), sum2.Bytes(), message)
	if err != nil {
		return nil, err
	}

	// R = sum1 + b*sum2 is the per-session combined nonce point.
	R := g.NewPoint().ScalarMult(b, sum2)
	R = g.NewPoint().Add(sum1, R)

	c, err := g.HashToScalar(R.Bytes(), agg.Point.Bytes(), message)
	if err != nil {
		return nil, err
	}

	// s = k1 + b*k2 + c*a*x
	s := g.NewScalar().Mul(b, secret.K[1])
	s = g.NewScalar().Add(secret.K[0], s)
	ax := g.NewScalar().Mul(coef, priv)
	cax := g.NewScalar().Mul(c, ax)
	s = g.NewScalar().Add(s, cax)

	return &PartialSignature{
		R: g.NewPoint().Set(R),
		S: s,
	}, nil
}
