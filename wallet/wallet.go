package wallet

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/splitsig/solwallet/edwards"
	"github.com/splitsig/solwallet/group"
	"github.com/splitsig/solwallet/musig"
	"github.com/splitsig/solwallet/solana"
	"github.com/splitsig/solwallet/wire"
)

var (
	// ErrInvalidKey reports a key string that does not decode to a
	// valid ed25519 public key or Solana keypair.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidBlockhash reports a block reference that does not
	// decode to a 32-byte hash.
	ErrInvalidBlockhash = errors.New("invalid block reference")

	// ErrNonceReused reports a secret nonce bundle presented for a
	// second partial signature. Reusing a bundle across messages leaks
	// the private key, so the wallet burns each bundle on first use.
	ErrNonceReused = errors.New("secret nonce bundle already used")
)

// Broadcaster is the chain client surface the wallet needs. Satisfied
// by *rpc.Client. It is a per-call parameter rather than wallet state:
// callers may point different transfers at different RPC endpoints.
type Broadcaster interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (string, error)
}

// TransferParams identifies a transfer fully. Both round-2 signers and
// the combiner rebuild the transaction message from these fields alone;
// if any participant sees different parameters, verification fails.
type TransferParams struct {
	Amount      float64 // SOL
	Destination string  // base58 account address
	Memo        string  // empty means no memo instruction
	Blockhash   string  // base58 recent blockhash
}

// Wallet orchestrates the two-round signing protocol over string-level
// inputs and outputs. It holds no per-session state: everything a later
// round needs is serialized and handed back to the caller. The single
// piece of process-local memory is the used-bundle set, which exists
// only to refuse nonce reuse.
type Wallet struct {
	group group.Group
	rng   io.Reader

	mu   sync.Mutex
	used map[[sha256.Size]byte]struct{}
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithRand replaces the nonce and key randomness source. Tests only.
func WithRand(r io.Reader) Option {
	return func(w *Wallet) { w.rng = r }
}

// New creates a wallet.
func New(opts ...Option) *Wallet {
	w := &Wallet{
		group: &edwards.Ed25519{},
		rng:   rand.Reader,
		used:  make(map[[sha256.Size]byte]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Keypair is a freshly generated Solana keypair. Secret is the 64-byte
// seed-and-public-key encoding in base58, the format Solana tooling
// expects. It is returned to the caller once and never stored or
// logged.
type Keypair struct {
	Pubkey string
	Secret string
}

// GenerateKeypair creates a new ed25519 keypair.
func (w *Wallet) GenerateKeypair() (*Keypair, error) {
	kp, err := solana.NewKeypair(w.rng)
	if err != nil {
		return nil, err
	}
	return &Keypair{Pubkey: kp.Pubkey().String(), Secret: kp.String()}, nil
}

// AggregateKeys derives the joint address for a set of participant
// public keys. The result depends only on the set, not on the order the
// keys are listed in. A non-empty primary names the key whose
// coefficient is fixed to one; it must be one of the participants. The
// signing rounds themselves always aggregate without a primary, so a
// primary-weighted address is for derivation only, not for transfers
// signed by this wallet.
func (w *Wallet) AggregateKeys(pubkeys []string, primary string) (string, error) {
	points, err := w.parseKeys(pubkeys)
	if err != nil {
		return "", err
	}

	var primaryPoint group.Point
	if primary != "" {
		parsed, err := w.parseKeys([]string{primary})
		if err != nil {
			return "", err
		}
		primaryPoint = parsed[0]
	}

	agg, err := musig.KeyAgg(w.group, points, primaryPoint)
	if err != nil {
		return "", err
	}
	joint, err := solana.PubkeyFromBytes(agg.Point.Bytes())
	if err != nil {
		return "", err
	}
	return joint.String(), nil
}

// Round1 is the output of the first signing round. Commitment goes to
// the other participant; SecretNonces comes back in the caller's
// round-2 request and must be presented exactly once.
type Round1 struct {
	Commitment   string
	SecretNonces string
}

// Round1Commit draws fresh nonces for one signing session.
func (w *Wallet) Round1Commit(secretKey string) (*Round1, error) {
	kp, err := w.parseKeypair(secretKey)
	if err != nil {
		return nil, err
	}
	sender, err := w.group.NewPoint().SetBytes(kp.Pubkey().Bytes())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}

	commitment, secret, err := musig.CommitNonces(w.group, w.rng, sender)
	if err != nil {
		return nil, err
	}
	return &Round1{
		Commitment:   base64.StdEncoding.EncodeToString(wire.EncodeCommitment(commitment)),
		SecretNonces: base64.StdEncoding.EncodeToString(wire.EncodeSecretNonces(secret)),
	}, nil
}

// Round2PartialSign produces this participant's signature share over
// the transfer described by params. The secret nonce bundle is
// consumed: presenting the same bundle again returns [ErrNonceReused],
// even if this call fails after the bundle is decoded.
func (w *Wallet) Round2PartialSign(
	secretKey string,
	participants []string,
	peerCommitments []string,
	secretNonces string,
	params TransferParams,
) (string, error) {
	secretRaw, err := base64.StdEncoding.DecodeString(secretNonces)
	if err != nil {
		return "", &wire.DecodeError{Field: "secret nonces", Err: err}
	}
	if err := w.consumeBundle(secretRaw); err != nil {
		return "", err
	}

	secret, err := wire.DecodeSecretNonces(secretRaw)
	if err != nil {
		return "", err
	}

	kp, err := w.parseKeypair(secretKey)
	if err != nil {
		return "", err
	}
	priv, err := edwards.ScalarFromSeed(kp.Seed())
	if err != nil {
		return "", err
	}
	pub, err := w.group.NewPoint().SetBytes(kp.Pubkey().Bytes())
	if err != nil {
		return "", errors.Wrap(ErrInvalidKey, err.Error())
	}

	keys, err := w.parseKeys(participants)
	if err != nil {
		return "", err
	}

	peers := make([]*musig.NonceCommitment, 0, len(peerCommitments))
	for _, encoded := range peerCommitments {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", &wire.DecodeError{Field: "commitment", Err: err}
		}
		c, err := wire.DecodeCommitment(raw)
		if err != nil {
			return "", err
		}
		peers = append(peers, c)
	}

	message, err := w.transferMessage(keys, params)
	if err != nil {
		return "", err
	}

	partial, err := musig.PartialSign(w.group, priv, pub, message, keys, peers, secret)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wire.EncodePartialSignature(partial)), nil
}

// Combine merges the participants' signature shares into one ed25519
// signature over the transfer message and verifies it against the
// aggregated key. A verification failure is final; the caller must
// restart from round 1 rather than retry.
func (w *Wallet) Combine(participants []string, partials []string, params TransferParams) (*musig.Signature, *solana.Message, error) {
	keys, err := w.parseKeys(participants)
	if err != nil {
		return nil, nil, err
	}

	shares := make([]*musig.PartialSignature, 0, len(partials))
	for _, encoded := range partials {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, nil, &wire.DecodeError{Field: "partial signature", Err: err}
		}
		p, err := wire.DecodePartialSignature(raw)
		if err != nil {
			return nil, nil, err
		}
		shares = append(shares, p)
	}

	msg, err := w.buildMessage(keys, params)
	if err != nil {
		return nil, nil, err
	}

	sig, err := musig.Combine(w.group, msg.Serialize(), keys, shares)
	if err != nil {
		return nil, nil, err
	}
	return sig, msg, nil
}

// CombineAndBroadcast combines the shares, attaches the signature to
// the transaction, and submits it to the chain. Returns the chain's
// transaction signature.
func (w *Wallet) CombineAndBroadcast(ctx context.Context, chain Broadcaster, participants []string, partials []string, params TransferParams) (string, error) {
	sig, msg, err := w.Combine(participants, partials, params)
	if err != nil {
		return "", err
	}

	tx, err := solana.NewTransaction(msg, sig.Bytes())
	if err != nil {
		return "", err
	}
	return chain.SendTransaction(ctx, tx)
}

// SendSingle performs an ordinary single-key transfer, outside the
// aggregation protocol. When params.Blockhash is empty a fresh one is
// fetched from the chain.
func (w *Wallet) SendSingle(ctx context.Context, chain Broadcaster, secretKey string, params TransferParams) (string, error) {
	kp, err := w.parseKeypair(secretKey)
	if err != nil {
		return "", err
	}

	var recent solana.Hash
	if params.Blockhash == "" {
		if recent, err = chain.LatestBlockhash(ctx); err != nil {
			return "", err
		}
	} else {
		if recent, err = solana.ParseHash(params.Blockhash); err != nil {
			return "", errors.Wrap(ErrInvalidBlockhash, err.Error())
		}
	}

	dest, err := solana.ParsePubkey(params.Destination)
	if err != nil {
		return "", errors.Wrap(ErrInvalidKey, err.Error())
	}

	msg, err := solana.NewTransferMessage(
		kp.Pubkey(), dest, solana.SolToLamports(params.Amount), params.Memo, recent)
	if err != nil {
		return "", err
	}

	tx, err := solana.NewTransaction(msg, kp.Sign(msg.Serialize()))
	if err != nil {
		return "", err
	}
	return chain.SendTransaction(ctx, tx)
}

// consumeBundle marks a secret nonce bundle as spent. The bundle is
// burned before any signing work happens, so a request that fails
// midway cannot be replayed with the same nonces.
func (w *Wallet) consumeBundle(raw []byte) error {
	digest := sha256.Sum256(raw)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.used[digest]; ok {
		return ErrNonceReused
	}
	w.used[digest] = struct{}{}
	return nil
}

// buildMessage rebuilds the transaction message with the aggregated key
// as fee payer and source of funds.
func (w *Wallet) buildMessage(keys []group.Point, params TransferParams) (*solana.Message, error) {
	agg, err := musig.KeyAgg(w.group, keys, nil)
	if err != nil {
		return nil, err
	}
	payer, err := solana.PubkeyFromBytes(agg.Point.Bytes())
	if err != nil {
		return nil, err
	}
	dest, err := solana.ParsePubkey(params.Destination)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	recent, err := solana.ParseHash(params.Blockhash)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidBlockhash, err.Error())
	}
	return solana.NewTransferMessage(payer, dest, solana.SolToLamports(params.Amount), params.Memo, recent)
}

func (w *Wallet) transferMessage(keys []group.Point, params TransferParams) ([]byte, error) {
	msg, err := w.buildMessage(keys, params)
	if err != nil {
		return nil, err
	}
	return msg.Serialize(), nil
}

func (w *Wallet) parseKeys(pubkeys []string) ([]group.Point, error) {
	points := make([]group.Point, 0, len(pubkeys))
	for _, s := range pubkeys {
		pk, err := solana.ParsePubkey(s)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidKey, "participant %q: %v", s, err)
		}
		point, err := w.group.NewPoint().SetBytes(pk.Bytes())
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidKey, "participant %q: %v", s, err)
		}
		points = append(points, point)
	}
	return points, nil
}

func (w *Wallet) parseKeypair(secretKey string) (*solana.Keypair, error) {
	kp, err := solana.ParseKeypair(secretKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}
	return kp, nil
}
