// Package store persists user accounts and the transfer audit log in a
// bbolt database. Only public outcomes go to disk: account records with
// bcrypt password digests, and broadcast transaction signatures. No
// private key or nonce material is ever written.
package store
