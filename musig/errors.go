package musig

import "errors"

// Protocol errors. These form a closed set so callers can match on the
// exact failure instead of parsing strings.
var (
	// ErrNoKeys is returned when an empty participant set is supplied.
	ErrNoKeys = errors.New("musig: no public keys provided")

	// ErrDuplicateKey is returned when the participant set contains the
	// same public key twice.
	ErrDuplicateKey = errors.New("musig: duplicate public key in participant set")

	// ErrKeyNotInSet is returned when the signing key (or a commitment
	// sender) is not part of the participant set.
	ErrKeyNotInSet = errors.New("musig: key is not in the participant set")

	// ErrMismatchedMessages is returned when the number of nonce
	// commitments or partial signatures does not line up with the
	// participant set, or when partial signatures disagree on the
	// combined nonce point.
	ErrMismatchedMessages = errors.New("musig: messages do not match the participant set")

	// ErrInvalidSignature is returned when the combined signature fails
	// verification against the aggregated key. It indicates either a
	// protocol bug or tampering (for example, participants signing over
	// different transaction parameters) and is never retried.
	ErrInvalidSignature = errors.New("musig: combined signature failed verification")
)
