// Package server exposes the wallet over HTTP. The signing endpoints
// carry the full protocol state in their bodies, so the server keeps no
// session affinity; the remaining endpoints cover accounts (JWT), swap
// quoting via Jupiter, balances, and health.
//
// Error responses use a uniform envelope whose kind field separates
// malformed input, invalid keys, protocol violations, authentication
// failures, and upstream outages. Request bodies are never logged: they
// carry secret keys and nonce bundles.
package server
