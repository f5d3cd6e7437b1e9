package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/splitsig/solwallet/solana"
)

// fakeChain satisfies Broadcaster and captures the broadcast
// transaction for inspection.
type fakeChain struct {
	blockhash solana.Hash
	sent      *solana.Transaction
}

func (f *fakeChain) LatestBlockhash(context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *solana.Transaction) (string, error) {
	f.sent = tx
	return "fake-signature", nil
}

func newDestination(t *testing.T) string {
	t.Helper()
	kp, err := solana.NewKeypair(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return kp.Pubkey().String()
}

func testParams(t *testing.T) TransferParams {
	t.Helper()
	var recent solana.Hash
	recent[0] = 1
	return TransferParams{
		Amount:      0.5,
		Destination: newDestination(t),
		Memo:        "rent",
		Blockhash:   recent.String(),
	}
}

func TestTwoPartyTransferEndToEnd(t *testing.T) {
	chain := &fakeChain{}
	w := New()

	alice, err := w.GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}
	bob, err := w.GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}
	participants := []string{alice.Pubkey, bob.Pubkey}

	joint, err := w.AggregateKeys(participants, "")
	if err != nil {
		t.Fatal(err)
	}
	reversed, err := w.AggregateKeys([]string{bob.Pubkey, alice.Pubkey}, "")
	if err != nil {
		t.Fatal(err)
	}
	if joint != reversed {
		t.Error("aggregated address depends on listing order")
	}

	params := testParams(t)

	r1Alice, err := w.Round1Commit(alice.Secret)
	if err != nil {
		t.Fatal(err)
	}
	r1Bob, err := w.Round1Commit(bob.Secret)
	if err != nil {
		t.Fatal(err)
	}

	partialAlice, err := w.Round2PartialSign(
		alice.Secret, participants, []string{r1Bob.Commitment}, r1Alice.SecretNonces, params)
	if err != nil {
		t.Fatal(err)
	}
	partialBob, err := w.Round2PartialSign(
		bob.Secret, participants, []string{r1Alice.Commitment}, r1Bob.SecretNonces, params)
	if err != nil {
		t.Fatal(err)
	}

	txSig, err := w.CombineAndBroadcast(context.Background(), chain,
		participants, []string{partialAlice, partialBob}, params)
	if err != nil {
		t.Fatal(err)
	}
	if txSig != "fake-signature" {
		t.Errorf("broadcast returned %q", txSig)
	}
	if chain.sent == nil {
		t.Fatal("no transaction reached the chain client")
	}

	// The combined signature must be an ordinary ed25519 signature over
	// the message bytes, valid under the joint address.
	jointPk, err := solana.ParsePubkey(joint)
	if err != nil {
		t.Fatal(err)
	}
	payload := chain.sent.Message.Serialize()
	if !ed25519.Verify(ed25519.PublicKey(jointPk.Bytes()), payload, chain.sent.Signatures[0]) {
		t.Error("broadcast transaction does not verify under the aggregated key")
	}
	if chain.sent.Message.AccountKeys[0] != jointPk {
		t.Error("fee payer is not the aggregated key")
	}
}

func TestRound2RejectsReusedBundle(t *testing.T) {
	w := New()

	alice, _ := w.GenerateKeypair()
	bob, _ := w.GenerateKeypair()
	participants := []string{alice.Pubkey, bob.Pubkey}
	params := testParams(t)

	r1Alice, err := w.Round1Commit(alice.Secret)
	if err != nil {
		t.Fatal(err)
	}
	r1Bob, err := w.Round1Commit(bob.Secret)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := w.Round2PartialSign(
		alice.Secret, participants, []string{r1Bob.Commitment}, r1Alice.SecretNonces, params); err != nil {
		t.Fatal(err)
	}

	// Same bundle, different message: must be refused outright.
	other := params
	other.Amount = 2
	_, err = w.Round2PartialSign(
		alice.Secret, participants, []string{r1Bob.Commitment}, r1Alice.SecretNonces, other)
	if !errors.Is(err, ErrNonceReused) {
		t.Fatalf("error = %v, want ErrNonceReused", err)
	}
}

func TestBundleBurnedEvenWhenSigningFails(t *testing.T) {
	w := New()

	alice, _ := w.GenerateKeypair()
	bob, _ := w.GenerateKeypair()
	outsider, _ := w.GenerateKeypair()
	params := testParams(t)

	r1Alice, err := w.Round1Commit(alice.Secret)
	if err != nil {
		t.Fatal(err)
	}
	r1Bob, err := w.Round1Commit(bob.Secret)
	if err != nil {
		t.Fatal(err)
	}

	// Alice's key is not in the participant set, so signing fails after
	// the bundle was accepted.
	_, err = w.Round2PartialSign(
		alice.Secret, []string{bob.Pubkey, outsider.Pubkey},
		[]string{r1Bob.Commitment}, r1Alice.SecretNonces, params)
	if err == nil {
		t.Fatal("expected signing to fail for a non-participant")
	}

	_, err = w.Round2PartialSign(
		alice.Secret, []string{alice.Pubkey, bob.Pubkey},
		[]string{r1Bob.Commitment}, r1Alice.SecretNonces, params)
	if !errors.Is(err, ErrNonceReused) {
		t.Fatalf("error = %v, want ErrNonceReused after failed attempt", err)
	}
}

func TestCombineRejectsDivergingParams(t *testing.T) {
	w := New()

	alice, _ := w.GenerateKeypair()
	bob, _ := w.GenerateKeypair()
	participants := []string{alice.Pubkey, bob.Pubkey}
	params := testParams(t)

	r1Alice, _ := w.Round1Commit(alice.Secret)
	r1Bob, _ := w.Round1Commit(bob.Secret)

	partialAlice, err := w.Round2PartialSign(
		alice.Secret, participants, []string{r1Bob.Commitment}, r1Alice.SecretNonces, params)
	if err != nil {
		t.Fatal(err)
	}
	partialBob, err := w.Round2PartialSign(
		bob.Secret, participants, []string{r1Alice.Commitment}, r1Bob.SecretNonces, params)
	if err != nil {
		t.Fatal(err)
	}

	// Combiner sees a different amount than the signers signed.
	tampered := params
	tampered.Amount = 100
	if _, _, err := w.Combine(participants, []string{partialAlice, partialBob}, tampered); err == nil {
		t.Error("expected combine to reject shares signed over different parameters")
	}
}

func TestInvalidKeySurfaces(t *testing.T) {
	w := New()

	if _, err := w.AggregateKeys([]string{"zzz-not-base58"}, ""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("AggregateKeys error = %v, want ErrInvalidKey", err)
	}
	if _, err := w.Round1Commit("bogus"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Round1Commit error = %v, want ErrInvalidKey", err)
	}
}

func TestBadBlockhashSurfaces(t *testing.T) {
	w := New()

	alice, _ := w.GenerateKeypair()
	bob, _ := w.GenerateKeypair()
	participants := []string{alice.Pubkey, bob.Pubkey}

	r1Alice, _ := w.Round1Commit(alice.Secret)
	r1Bob, _ := w.Round1Commit(bob.Secret)

	params := testParams(t)
	params.Blockhash = "tooshort"
	_, err := w.Round2PartialSign(
		alice.Secret, participants, []string{r1Bob.Commitment}, r1Alice.SecretNonces, params)
	if !errors.Is(err, ErrInvalidBlockhash) {
		t.Fatalf("error = %v, want ErrInvalidBlockhash", err)
	}
}

func TestAggregateWithPrimary(t *testing.T) {
	w := New()

	alice, _ := w.GenerateKeypair()
	bob, _ := w.GenerateKeypair()
	participants := []string{alice.Pubkey, bob.Pubkey}

	plain, err := w.AggregateKeys(participants, "")
	if err != nil {
		t.Fatal(err)
	}
	weighted, err := w.AggregateKeys(participants, alice.Pubkey)
	if err != nil {
		t.Fatal(err)
	}
	if plain == weighted {
		t.Error("primary key did not change the aggregated address")
	}

	outsider, _ := w.GenerateKeypair()
	if _, err := w.AggregateKeys(participants, outsider.Pubkey); err == nil {
		t.Error("expected error for a primary outside the participant set")
	}
}

func TestSendSingle(t *testing.T) {
	var recent solana.Hash
	recent[5] = 9
	chain := &fakeChain{blockhash: recent}
	w := New()

	sender, err := w.GenerateKeypair()
	if err != nil {
		t.Fatal(err)
	}

	// Blockhash omitted: wallet fetches it from the chain.
	sig, err := w.SendSingle(context.Background(), chain, sender.Secret, TransferParams{
		Amount:      1,
		Destination: newDestination(t),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sig != "fake-signature" {
		t.Errorf("broadcast returned %q", sig)
	}

	senderPk, _ := solana.ParsePubkey(sender.Pubkey)
	payload := chain.sent.Message.Serialize()
	if !ed25519.Verify(ed25519.PublicKey(senderPk.Bytes()), payload, chain.sent.Signatures[0]) {
		t.Error("single-key transaction does not verify")
	}
	if chain.sent.Message.RecentBlockhash != recent {
		t.Error("fetched blockhash not used in the message")
	}
}
