// Package swap proxies quote and swap-transaction requests to the
// Jupiter v6 aggregator. The wallet relays Jupiter's JSON untouched;
// interpreting route plans is the frontend's job.
package swap
