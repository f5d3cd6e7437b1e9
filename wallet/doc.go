// Package wallet orchestrates the two-round aggregated signing
// protocol at the string level: base58 for keys and addresses, base64
// for protocol messages. It is the layer the HTTP handlers call.
//
// The wallet is stateless across rounds. Round 1 hands the caller both
// the public commitment and the serialized secret nonce bundle; round 2
// takes the bundle back. The only state a wallet process keeps is the
// set of bundles it has already consumed, which lets it refuse a bundle
// the second time it appears. Reusing nonces across two messages is not
// a soft failure: it hands an observer a linear system that solves for
// the private key.
//
// Private key material (keypair strings, secret scalars, nonce bundles)
// passes through this package by value and is never persisted or
// logged.
package wallet
