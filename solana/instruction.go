package solana

import "encoding/binary"

// Well-known program addresses used by the transfer builder.
var (
	// SystemProgram owns plain lamport accounts and executes transfers.
	SystemProgram = MustPubkey("11111111111111111111111111111111")

	// MemoProgram records an arbitrary UTF-8 note in the transaction.
	MemoProgram = MustPubkey("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

// systemInstructionTransfer is the system program's instruction index
// for a lamport transfer.
const systemInstructionTransfer uint32 = 2

// AccountMeta describes how an instruction touches one account.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation before compilation into a
// message.
type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// Transfer builds a system-program instruction moving lamports from one
// account to another. The source must sign the transaction.
func Transfer(from, to Pubkey, lamports uint64) Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemInstructionTransfer)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return Instruction{
		ProgramID: SystemProgram,
		Accounts: []AccountMeta{
			{Pubkey: from, IsSigner: true, IsWritable: true},
			{Pubkey: to, IsWritable: true},
		},
		Data: data,
	}
}

// Memo builds a memo-program instruction carrying the given text.
func Memo(text string) Instruction {
	return Instruction{
		ProgramID: MemoProgram,
		Data:      []byte(text),
	}
}
