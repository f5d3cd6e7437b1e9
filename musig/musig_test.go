package musig

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/splitsig/solwallet/edwards"
	"github.com/splitsig/solwallet/group"
)

type signer struct {
	priv group.Scalar
	pub  group.Point
}

func newSigner(t *testing.T, g group.Group) *signer {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	priv, err := edwards.ScalarFromSeed(key.Seed())
	if err != nil {
		t.Fatal(err)
	}
	return &signer{
		priv: priv,
		pub:  g.NewPoint().ScalarMult(priv, g.Generator()),
	}
}

func TestTwoPartySigning(t *testing.T) {
	g := &edwards.Ed25519{}
	alice := newSigner(t, g)
	bob := newSigner(t, g)
	keys := []group.Point{alice.pub, bob.pub}

	agg, err := KeyAgg(g, keys, nil)
	if err != nil {
		t.Fatal(err)
	}

	message := []byte("transfer 1.5 SOL to D under blockhash R")

	// Round 1
	commitA, secretA, err := CommitNonces(g, rand.Reader, alice.pub)
	if err != nil {
		t.Fatal(err)
	}
	commitB, secretB, err := CommitNonces(g, rand.Reader, bob.pub)
	if err != nil {
		t.Fatal(err)
	}

	// Round 2
	shareA, err := PartialSign(g, alice.priv, alice.pub, message, keys, []*NonceCommitment{commitB}, secretA)
	if err != nil {
		t.Fatal(err)
	}
	shareB, err := PartialSign(g, bob.priv, bob.pub, message, keys, []*NonceCommitment{commitA}, secretB)
	if err != nil {
		t.Fatal(err)
	}

	if !shareA.R.Equal(shareB.R) {
		t.Fatal("honest signers computed different combined nonce points")
	}

	sig, err := Combine(g, message, keys, []*PartialSignature{shareA, shareB})
	if err != nil {
		t.Fatal(err)
	}

	if !Verify(g, message, sig, agg.Point) {
		t.Error("combined signature failed verification")
	}

	// The combined signature must be a plain ed25519 signature under the
	// aggregated key, byte for byte.
	if !ed25519.Verify(ed25519.PublicKey(agg.Point.Bytes()), message, sig.Bytes()) {
		t.Error("combined signature is not a valid ed25519 signature")
	}

	t.Run("FailsForDifferentMessage", func(t *testing.T) {
		other := []byte("transfer 1.5 SOL to D under blockhash S")
		if Verify(g, other, sig, agg.Point) {
			t.Error("signature verified for a different message")
		}
	})

	t.Run("FailsByteFlip", func(t *testing.T) {
		flipped := make([]byte, len(message))
		copy(flipped, message)
		flipped[0] ^= 0x01
		if Verify(g, flipped, sig, agg.Point) {
			t.Error("signature verified for a message with one flipped byte")
		}
	})
}

func TestCombineDetectsTampering(t *testing.T) {
	g := &edwards.Ed25519{}
	alice := newSigner(t, g)
	bob := newSigner(t, g)
	keys := []group.Point{alice.pub, bob.pub}

	message := []byte("agreed parameters")
	tampered := []byte("altered parameters")

	commitA, secretA, _ := CommitNonces(g, rand.Reader, alice.pub)
	commitB, secretB, _ := CommitNonces(g, rand.Reader, bob.pub)

	// Bob signs over different transaction parameters than Alice.
	shareA, err := PartialSign(g, alice.priv, alice.pub, message, keys, []*NonceCommitment{commitB}, secretA)
	if err != nil {
		t.Fatal(err)
	}
	shareB, err := PartialSign(g, bob.priv, bob.pub, tampered, keys, []*NonceCommitment{commitA}, secretB)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Combine(g, message, keys, []*PartialSignature{shareA, shareB}); err == nil {
		t.Error("combination over diverging messages must not succeed")
	}
}

func TestPartialSignValidation(t *testing.T) {
	g := &edwards.Ed25519{}
	alice := newSigner(t, g)
	bob := newSigner(t, g)
	carol := newSigner(t, g)
	keys := []group.Point{alice.pub, bob.pub}

	message := []byte("msg")
	commitB, _, _ := CommitNonces(g, rand.Reader, bob.pub)
	_, secretA, _ := CommitNonces(g, rand.Reader, alice.pub)

	t.Run("KeyNotInSet", func(t *testing.T) {
		_, err := PartialSign(g, carol.priv, carol.pub, message, keys, []*NonceCommitment{commitB}, secretA)
		if err != ErrKeyNotInSet {
			t.Errorf("got %v, want ErrKeyNotInSet", err)
		}
	})

	t.Run("UnknownCommitmentSender", func(t *testing.T) {
		commitC, _, _ := CommitNonces(g, rand.Reader, carol.pub)
		_, err := PartialSign(g, alice.priv, alice.pub, message, keys, []*NonceCommitment{commitC}, secretA)
		if err != ErrKeyNotInSet {
			t.Errorf("got %v, want ErrKeyNotInSet", err)
		}
	})

	t.Run("MissingCommitment", func(t *testing.T) {
		_, err := PartialSign(g, alice.priv, alice.pub, message, keys, nil, secretA)
		if err != ErrMismatchedMessages {
			t.Errorf("got %v, want ErrMismatchedMessages", err)
		}
	})

	t.Run("DuplicateCommitment", func(t *testing.T) {
		threeKeys := []group.Point{alice.pub, bob.pub, carol.pub}
		_, err := PartialSign(g, alice.priv, alice.pub, message, threeKeys,
			[]*NonceCommitment{commitB, commitB}, secretA)
		if err != ErrMismatchedMessages {
			t.Errorf("got %v, want ErrMismatchedMessages", err)
		}
	})
}

func TestCombineValidation(t *testing.T) {
	g := &edwards.Ed25519{}
	alice := newSigner(t, g)
	bob := newSigner(t, g)
	keys := []group.Point{alice.pub, bob.pub}
	message := []byte("msg")

	commitA, secretA, _ := CommitNonces(g, rand.Reader, alice.pub)
	commitB, secretB, _ := CommitNonces(g, rand.Reader, bob.pub)
	shareA, _ := PartialSign(g, alice.priv, alice.pub, message, keys, []*NonceCommitment{commitB}, secretA)
	shareB, _ := PartialSign(g, bob.priv, bob.pub, message, keys, []*NonceCommitment{commitA}, secretB)

	t.Run("MissingShare", func(t *testing.T) {
		if _, err := Combine(g, message, keys, []*PartialSignature{shareA}); err != ErrMismatchedMessages {
			t.Errorf("got %v, want ErrMismatchedMessages", err)
		}
	})

	t.Run("DivergingNoncePoints", func(t *testing.T) {
		forged := &PartialSignature{
			R: g.NewPoint().Add(shareB.R, g.Generator()),
			S: shareB.S,
		}
		if _, err := Combine(g, message, keys, []*PartialSignature{shareA, forged}); err != ErrMismatchedMessages {
			t.Errorf("got %v, want ErrMismatchedMessages", err)
		}
	})

	t.Run("CorruptedShare", func(t *testing.T) {
		forged := &PartialSignature{
			R: shareB.R,
			S: g.NewScalar().Add(shareB.S, scalarOne(g)),
		}
		if _, err := Combine(g, message, keys, []*PartialSignature{shareA, forged}); err != ErrInvalidSignature {
			t.Errorf("got %v, want ErrInvalidSignature", err)
		}
	})
}

// TestNonceReuseLeaksPrivateKey demonstrates the hazard the engine cannot
// police: a signer that reuses one SecretNonces bundle across different
// messages hands its private key to anyone holding the public transcript.
//
// With the two-nonce scheme each partial signature is
//
//	s_j = k1 + b_j*k2 + c_j*a*x
//
// where b_j and c_j are computable from public data. Three signatures
// under the same (k1, k2) give three linear equations in the three
// unknowns k1, k2 and a*x; the test solves them and recovers x exactly.
// This is why single use is enforced one layer up, at the wallet.
func TestNonceReuseLeaksPrivateKey(t *testing.T) {
	g := &edwards.Ed25519{}
	victim := newSigner(t, g)
	keys := []group.Point{victim.pub}

	agg, err := KeyAgg(g, keys, nil)
	if err != nil {
		t.Fatal(err)
	}
	coef, err := agg.Coefficient(victim.pub)
	if err != nil {
		t.Fatal(err)
	}

	commit, secret, err := CommitNonces(g, rand.Reader, victim.pub)
	if err != nil {
		t.Fatal(err)
	}

	messages := [][]byte{
		[]byte("first message"),
		[]byte("second message"),
		[]byte("third message"),
	}

	// The victim reuses the same secret bundle for all three messages.
	b := make([]group.Scalar, 3)
	c := make([]group.Scalar, 3)
	s := make([]group.Scalar, 3)
	for j, m := range messages {
		share, err := PartialSign(g, victim.priv, victim.pub, m, keys, nil, secret)
		if err != nil {
			t.Fatal(err)
		}
		s[j] = share.S

		// Everything below is recomputed from public data only.
		sum1, sum2 := commit.R[0], commit.R[1]
		b[j], err = g.HashToScalar(bindingTag, agg.Point.Bytes(), sum1.Bytes(), sum2.Bytes(), m)
		if err != nil {
			t.Fatal(err)
		}
		R := g.NewPoint().ScalarMult(b[j], sum2)
		R = g.NewPoint().Add(sum1, R)
		c[j], err = g.HashToScalar(R.Bytes(), agg.Point.Bytes(), m)
		if err != nil {
			t.Fatal(err)
		}
	}

	// Eliminate k1: two equations in k2 and a*x.
	//   s1-s2 = (b1-b2)*k2 + (c1-c2)*a*x
	//   s1-s3 = (b1-b3)*k2 + (c1-c3)*a*x
	a1 := g.NewScalar().Sub(b[0], b[1])
	a2 := g.NewScalar().Sub(b[0], b[2])
	e1 := g.NewScalar().Sub(c[0], c[1])
	e2 := g.NewScalar().Sub(c[0], c[2])
	d1 := g.NewScalar().Sub(s[0], s[1])
	d2 := g.NewScalar().Sub(s[0], s[2])

	// Cramer's rule: ax = (a1*d2 - a2*d1) / (a1*e2 - a2*e1)
	det := g.NewScalar().Sub(
		g.NewScalar().Mul(a1, e2),
		g.NewScalar().Mul(a2, e1),
	)
	detInv, err := g.NewScalar().Invert(det)
	if err != nil {
		t.Fatal("degenerate system; hash collision is vanishingly unlikely")
	}
	ax := g.NewScalar().Sub(
		g.NewScalar().Mul(a1, d2),
		g.NewScalar().Mul(a2, d1),
	)
	ax = g.NewScalar().Mul(ax, detInv)

	coefInv, err := g.NewScalar().Invert(coef)
	if err != nil {
		t.Fatal(err)
	}
	recovered := g.NewScalar().Mul(ax, coefInv)

	if !recovered.Equal(victim.priv) {
		t.Fatal("expected full private key recovery from reused nonces")
	}
}
