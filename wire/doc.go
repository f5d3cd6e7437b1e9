// Package wire defines the fixed-layout binary encoding of the three
// protocol messages exchanged between signing rounds: the round-1 nonce
// commitment, the round-1 secret bundle, and the round-2 partial
// signature.
//
// Every message is a flat concatenation of fixed-width fields — the
// sender identity first where present, then each curve point or scalar
// in its canonical 32-byte ed25519 form. There is no framing, length
// prefix, or versioning; the message type is implied by which decoder
// the caller invokes, and the decoder requires the buffer's total
// length to equal the exact sum of the field widths.
//
// Decoding never panics on malformed input: truncated or oversized
// buffers and invalid point or scalar encodings all surface as a
// [*DecodeError] naming the offending field, with the curve library's
// rejection preserved underneath.
//
// The protocol transport is untrusted and stateless: encoded messages
// travel base64-wrapped inside JSON request bodies, and the secret
// bundle in particular is returned to the caller between rounds rather
// than stored server-side.
package wire
