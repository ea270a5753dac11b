package usecase

import "time"

const (
	// BalanceEpsilon is the smallest aggregate delta worth writing. A diff
	// below this threshold is dropped; convergence stays within epsilon.
	BalanceEpsilon = "0.0001"

	// MaxConflictRetries bounds the optimistic read-compute-write retry loop
	// before a conflict is surfaced to the caller.
	MaxConflictRetries = 3

	// ImportBatchSize keeps each import commit below the store's per-write
	// limit, with headroom left for the aggregate update.
	ImportBatchSize = 400

	// FingerprintQueryChunk bounds the key count of a single dedup lookup.
	FingerprintQueryChunk = 500

	// ClearHistoryBatchSize bounds each delete batch during ClearHistory.
	ClearHistoryBatchSize = 450

	// DeleteConfirmationTTL is how long a requested delete stays confirmable.
	DeleteConfirmationTTL = 10 * time.Minute
)
