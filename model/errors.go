package model

import "errors"

// Sentinel errors for contest/ballot validation. Only sentinels are exposed;
// callers branch with errors.Is. Context is attached with fmt.Errorf's %w
// at the call site, never baked into the sentinel string.
var (
	// ErrNoCandidates indicates a contest was built with zero candidates.
	ErrNoCandidates = errors.New("model: contest has no candidates")

	// ErrDuplicateCandidate indicates two candidates share an external ID.
	ErrDuplicateCandidate = errors.New("model: duplicate candidate id")

	// ErrUnknownCandidate indicates a ballot, winners set, or elimination
	// order referenced a candidate index outside [0, n).
	ErrUnknownCandidate = errors.New("model: unknown candidate index")

	// ErrDuplicatePreference indicates a ballot ranked the same candidate twice.
	ErrDuplicatePreference = errors.New("model: ballot ranks a candidate twice")

	// ErrNoWinners indicates a contest declared an empty winners set.
	ErrNoWinners = errors.New("model: contest has no reported winners")

	// ErrWinnerAlsoEliminated indicates a candidate appears both in the
	// winners set and the reported elimination order.
	ErrWinnerAlsoEliminated = errors.New("model: reported winner also reported eliminated")

	// ErrThresholdOutOfRange indicates threshold_fr is not in (0,1).
	ErrThresholdOutOfRange = errors.New("model: viability threshold out of range")

	// ErrNoAuditableBallots indicates total auditable ballots is non-positive.
	ErrNoAuditableBallots = errors.New("model: no auditable ballots")
)
