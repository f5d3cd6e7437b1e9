package musig

import (
	"github.com/splitsig/solwallet/group"
)

// Combine merges the participants' partial signatures into one Schnorr
// signature under the aggregated key and verifies it against message
// before returning it.
//
// keys must be the same participant set the signers used in round 2;
// partials must contain exactly one share per participant. All shares
// must carry the same combined nonce point — a divergence means the
// signers did not run round 2 over the same session.
//
// Verification failure returns [ErrInvalidSignature]. It is the
// protocol's tamper detection: any participant signing over different
// transaction parameters (a different amount, destination, memo, or
// block reference) lands here rather than producing a broadcastable
// transaction.
func Combine(g group.Group, message []byte, keys []group.Point, partials []*PartialSignature) (*Signature, error) {
	agg, err := KeyAgg(g, keys, nil)
	if err != nil {
		return nil, err
	}

	if len(partials) != len(keys) {
		return nil, ErrMismatchedMessages
	}

	R := partials[0].R
	s := g.NewScalar().Set(partials[0].S)
	for _, p := range partials[1:] {
		if !p.R.Equal(R) {
			return nil, ErrMismatchedMessages
		}
		s = g.NewScalar().Add(s, p.S)
	}

	sig := &Signature{
		R: g.NewPoint().Set(R),
		S: s,
	}

	if !Verify(g, message, sig, agg.Point) {
		return nil, ErrInvalidSignature
	}
	return sig, nil
}

// Verify checks a Schnorr signature against a public key: with
// c = H(R, A, message), it requires s*G == R + c*A. For the ed25519
// group this is exactly the check the Solana runtime performs.
func Verify(g group.Group, message []byte, sig *Signature, key group.Point) bool {
	c, err := g.HashToScalar(sig.R.Bytes(), key.Bytes(), message)
	if err != nil {
		return false
	}

	lhs := g.NewPoint().ScalarMult(sig.S, g.Generator())

	cA := g.NewPoint().ScalarMult(c, key)
	rhs := g.NewPoint().Add(sig.R, cA)

	return lhs.Equal(rhs)
}
