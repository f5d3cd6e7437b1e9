// Package rpc is a thin Solana JSON-RPC client. It exists at the edge
// of the system: the signing protocol never talks to the chain, and the
// only calls the wallet needs are fetching a recent block hash,
// broadcasting a signed transaction, and reading balances and health.
//
// Failures from this package are external errors. Handlers must report
// them as such rather than masking them as protocol errors: a node
// outage and a tampered partial signature are very different events.
package rpc
