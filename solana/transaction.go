package solana

import "github.com/pkg/errors"

// SignatureSize is the width of an ed25519 transaction signature.
const SignatureSize = 64

// Transaction pairs a message with the signatures of its required
// signers, in account-table order.
type Transaction struct {
	Signatures [][]byte
	Message    *Message
}

// NewTransaction assembles a transaction from a message and one 64-byte
// signature per required signer.
func NewTransaction(msg *Message, signatures ...[]byte) (*Transaction, error) {
	if len(signatures) != int(msg.NumRequiredSignatures) {
		return nil, errors.Errorf("message requires %d signatures, got %d",
			msg.NumRequiredSignatures, len(signatures))
	}
	for i, sig := range signatures {
		if len(sig) != SignatureSize {
			return nil, errors.Errorf("signature %d is %d bytes, want %d", i, len(sig), SignatureSize)
		}
	}
	return &Transaction{Signatures: signatures, Message: msg}, nil
}

// Serialize returns the transaction's wire encoding: the compact-length
// signature list followed by the serialized message.
func (t *Transaction) Serialize() []byte {
	var buf []byte
	buf = appendShortvecLen(buf, len(t.Signatures))
	for _, sig := range t.Signatures {
		buf = append(buf, sig...)
	}
	return append(buf, t.Message.Serialize()...)
}
