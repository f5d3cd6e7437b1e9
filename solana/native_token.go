package solana

// LamportsPerSol is the number of base units in one SOL.
const LamportsPerSol = 1_000_000_000

// SolToLamports converts a SOL amount to lamports, truncating any
// fraction below one lamport. Non-positive amounts map to zero.
func SolToLamports(sol float64) uint64 {
	if sol <= 0 {
		return 0
	}
	return uint64(sol * LamportsPerSol)
}

// LamportsToSol converts lamports to SOL for display purposes.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
