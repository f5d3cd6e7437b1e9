package solana

import "github.com/pkg/errors"

// CompiledInstruction references its program and accounts by index into
// the message's account table.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// Message is the byte sequence every participant signs: a legacy-format
// Solana transaction message. Building it is deterministic — the same
// inputs always serialize to the same bytes, which is what lets
// independent signers produce shares over an identical payload and
// makes any parameter divergence fail signature verification.
type Message struct {
	NumRequiredSignatures uint8
	NumReadonlySignatures uint8
	NumReadonlyUnsigned   uint8
	AccountKeys           []Pubkey
	RecentBlockhash       Hash
	Instructions          []CompiledInstruction
}

// accountEntry tracks the merged access flags of one account while
// compiling.
type accountEntry struct {
	pubkey   Pubkey
	signer   bool
	writable bool
}

// CompileMessage builds a message from instructions. The fee payer is
// always the first account (signer, writable); remaining accounts are
// ordered writable signers, readonly signers, writable non-signers,
// then readonly non-signers, preserving first appearance within each
// class. Program IDs join the table as readonly non-signers.
func CompileMessage(payer Pubkey, recent Hash, instructions []Instruction) (*Message, error) {
	if len(instructions) == 0 {
		return nil, errors.New("message needs at least one instruction")
	}

	entries := []*accountEntry{{pubkey: payer, signer: true, writable: true}}
	index := map[Pubkey]*accountEntry{payer: entries[0]}

	upsert := func(pk Pubkey, signer, writable bool) {
		if e, ok := index[pk]; ok {
			e.signer = e.signer || signer
			e.writable = e.writable || writable
			return
		}
		e := &accountEntry{pubkey: pk, signer: signer, writable: writable}
		entries = append(entries, e)
		index[pk] = e
	}

	for _, in := range instructions {
		for _, meta := range in.Accounts {
			upsert(meta.Pubkey, meta.IsSigner, meta.IsWritable)
		}
		upsert(in.ProgramID, false, false)
	}

	// Stable partition into the four access classes, payer pinned first.
	ordered := entries[:1]
	for _, pick := range []func(*accountEntry) bool{
		func(e *accountEntry) bool { return e.signer && e.writable },
		func(e *accountEntry) bool { return e.signer && !e.writable },
		func(e *accountEntry) bool { return !e.signer && e.writable },
		func(e *accountEntry) bool { return !e.signer && !e.writable },
	} {
		for _, e := range entries[1:] {
			if pick(e) {
				ordered = append(ordered, e)
			}
		}
	}

	msg := &Message{RecentBlockhash: recent}
	position := make(map[Pubkey]uint8, len(ordered))
	for i, e := range ordered {
		if i > 0xff {
			return nil, errors.New("too many accounts in message")
		}
		msg.AccountKeys = append(msg.AccountKeys, e.pubkey)
		position[e.pubkey] = uint8(i)

		if e.signer {
			msg.NumRequiredSignatures++
			if !e.writable {
				msg.NumReadonlySignatures++
			}
		} else if !e.writable {
			msg.NumReadonlyUnsigned++
		}
	}

	for _, in := range instructions {
		compiled := CompiledInstruction{
			ProgramIDIndex: position[in.ProgramID],
			Data:           in.Data,
		}
		for _, meta := range in.Accounts {
			compiled.Accounts = append(compiled.Accounts, position[meta.Pubkey])
		}
		msg.Instructions = append(msg.Instructions, compiled)
	}

	return msg, nil
}

// NewTransferMessage builds the canonical message for a lamport
// transfer from the fee payer to destination, with an optional memo.
//
// An empty memo adds nothing: the resulting bytes are identical to a
// message built with no memo at all, so "no memo" and "empty memo" can
// never diverge between participants.
func NewTransferMessage(from, to Pubkey, lamports uint64, memo string, recent Hash) (*Message, error) {
	instructions := []Instruction{Transfer(from, to, lamports)}
	if memo != "" {
		instructions = append(instructions, Memo(memo))
	}
	return CompileMessage(from, recent, instructions)
}

// Serialize returns the legacy wire encoding of the message: the
// three-byte header, the compact-length account table, the recent
// blockhash, and the compact-length instruction list.
func (m *Message) Serialize() []byte {
	var buf []byte
	buf = append(buf, m.NumRequiredSignatures, m.NumReadonlySignatures, m.NumReadonlyUnsigned)

	buf = appendShortvecLen(buf, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		buf = append(buf, key[:]...)
	}

	buf = append(buf, m.RecentBlockhash[:]...)

	buf = appendShortvecLen(buf, len(m.Instructions))
	for _, in := range m.Instructions {
		buf = append(buf, in.ProgramIDIndex)
		buf = appendShortvecLen(buf, len(in.Accounts))
		buf = append(buf, in.Accounts...)
		buf = appendShortvecLen(buf, len(in.Data))
		buf = append(buf, in.Data...)
	}

	return buf
}
