package musig

import (
	"bytes"
	"sort"

	"github.com/splitsig/solwallet/group"
)

// coefTag domain-separates the aggregation coefficient hash from the
// binding factor and challenge hashes.
var coefTag = []byte("solwallet/keyagg/coef/v1")

// AggregatedKey is the result of combining a set of public keys. The
// aggregated point owns on-chain funds; the per-key coefficients are
// retained so each signer can look up its own weight during round 2.
type AggregatedKey struct {
	// Point is the aggregated public key, the coefficient-weighted sum
	// of the participant keys.
	Point group.Point

	coeffs map[string]group.Scalar
}

// Coefficient returns the aggregation coefficient of the given
// participant key. Returns [ErrKeyNotInSet] if the key was not part of
// the aggregated set.
func (k *AggregatedKey) Coefficient(pub group.Point) (group.Scalar, error) {
	c, ok := k.coeffs[string(pub.Bytes())]
	if !ok {
		return nil, ErrKeyNotInSet
	}
	return c, nil
}

// KeyAgg aggregates a set of public keys into one key.
//
// Each key X_i is weighted by a coefficient a_i = H(tag, L, X_i), where
// L is the concatenation of all keys in canonical (lexicographic byte)
// order. The coefficient depends on the whole set, so no participant can
// pick a key that cancels another's contribution, and the result is
// independent of the order in which keys are supplied.
//
// If primary is non-nil, that key's coefficient is fixed to one instead;
// the other coefficients are unchanged. This gives one designated key
// (such as a fee payer) a predictable weight.
//
// KeyAgg is a pure function: identical input sets always produce the
// identical aggregated key, and it is safe for concurrent use.
func KeyAgg(g group.Group, keys []group.Point, primary group.Point) (*AggregatedKey, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	encoded := make([][]byte, len(keys))
	for i, k := range keys {
		encoded[i] = k.Bytes()
	}
	for i := range encoded {
		for j := i + 1; j < len(encoded); j++ {
			if bytes.Equal(encoded[i], encoded[j]) {
				return nil, ErrDuplicateKey
			}
		}
	}

	if primary != nil {
		if !containsKey(encoded, primary.Bytes()) {
			return nil, ErrKeyNotInSet
		}
	}

	setDigest := canonicalSet(encoded)

	agg := g.NewPoint()
	coeffs := make(map[string]group.Scalar, len(keys))
	for i, k := range keys {
		var a group.Scalar
		if primary != nil && bytes.Equal(encoded[i], primary.Bytes()) {
			a = scalarOne(g)
		} else {
			var err error
			a, err = g.HashToScalar(coefTag, setDigest, encoded[i])
			if err != nil {
				return nil, err
			}
		}
		coeffs[string(encoded[i])] = a

		term := g.NewPoint().ScalarMult(a, k)
		agg = g.NewPoint().Add(agg, term)
	}

	return &AggregatedKey{Point: agg, coeffs: coeffs}, nil
}

// canonicalSet returns the concatenation of the encoded keys sorted
// lexicographically, so the coefficient hash sees the key set rather
// than the enumeration order.
func canonicalSet(encoded [][]byte) []byte {
	sorted := make([][]byte, len(encoded))
	copy(sorted, encoded)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})

	var out []byte
	for _, e := range sorted {
		out = append(out, e...)
	}
	return out
}

func containsKey(encoded [][]byte, key []byte) bool {
	for _, e := range encoded {
		if bytes.Equal(e, key) {
			return true
		}
	}
	return false
}

// scalarOne returns the multiplicative identity. The group's canonical
// scalar encoding is 32 bytes little-endian.
func scalarOne(g group.Group) group.Scalar {
	buf := make([]byte, 32)
	buf[0] = 1
	s, err := g.NewScalar().SetBytes(buf)
	if err != nil {
		// Every group used here encodes 1 canonically in 32 bytes.
		panic("group cannot encode the scalar one: " + err.Error())
	}
	return s
}
