// Package solana implements the subset of Solana's transaction wire
// format needed to build, sign, and broadcast lamport transfers:
// account addresses and keypairs, legacy message compilation, and the
// system-program transfer and memo instructions.
//
// The central piece is the deterministic message builder. Every signing
// participant — and the combiner's verification step — must construct
// the exact same message bytes from the transfer parameters; the
// protocol treats any divergence as tampering and rejects it at
// signature verification. [NewTransferMessage] therefore compiles the
// message from its inputs alone, with a fixed account ordering and no
// hidden state, and omits the memo instruction entirely when no memo is
// given.
//
// This package does no cryptography beyond delegating to crypto/ed25519
// for single-key signing; the aggregated signing protocol lives in the
// musig package and treats the serialized message as an opaque byte
// string.
package solana
