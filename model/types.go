package model

import "github.com/shopspring/decimal"

// Candidate is identified by a stable external ID and a dense internal index
// in [0, n). TotalVotes is the candidate's first-preference tally on the
// full (unmodified) ballot set.
type Candidate struct {
	ID         string
	Index      int
	TotalVotes int
}

// Ballot is an ordered sequence of distinct candidate indices. Ballots may be
// truncated (a voter need not rank every candidate); Prefs never repeats an
// index.
type Ballot struct {
	Prefs []int
}

// Contest is a single multi-winner contest under audit.
//
// Winners holds the reportedly-viable candidate indices (order irrelevant).
// Eliminations holds the reported elimination order of non-viable candidates,
// oldest-eliminated first. Delegates holds zero or more delegate counts (one
// per "seat class" being audited via QSMAJ/CDIFF at params.Level >= 1).
type Contest struct {
	ID           int
	Candidates   []Candidate
	Winners      []int
	Eliminations []int
	Ballots      []Ballot
	ThresholdFr  float64
	Delegates    []int
}

// NCandidates returns the number of candidates in the contest.
func (c *Contest) NCandidates() int { return len(c.Candidates) }

// Validate checks the structural invariants every downstream package
// assumes and never re-checks: dense candidate indices, no duplicate IDs,
// ballots referencing only known candidates without repeats, a non-empty
// winners set disjoint from the reported eliminations, and threshold_fr in
// the open interval (0,1).
func (c *Contest) Validate() error {
	n := len(c.Candidates)
	if n == 0 {
		return ErrNoCandidates
	}

	seenID := make(map[string]struct{}, n)
	for i, cand := range c.Candidates {
		if cand.Index != i {
			return ErrUnknownCandidate
		}
		if _, dup := seenID[cand.ID]; dup {
			return ErrDuplicateCandidate
		}
		seenID[cand.ID] = struct{}{}
	}

	if c.ThresholdFr <= 0 || c.ThresholdFr >= 1 {
		return ErrThresholdOutOfRange
	}

	if len(c.Winners) == 0 {
		return ErrNoWinners
	}

	eliminated := make(map[int]struct{}, len(c.Eliminations))
	for _, e := range c.Eliminations {
		if e < 0 || e >= n {
			return ErrUnknownCandidate
		}
		eliminated[e] = struct{}{}
	}
	for _, w := range c.Winners {
		if w < 0 || w >= n {
			return ErrUnknownCandidate
		}
		if _, elim := eliminated[w]; elim {
			return ErrWinnerAlsoEliminated
		}
	}

	for _, b := range c.Ballots {
		seen := make(map[int]struct{}, len(b.Prefs))
		for _, p := range b.Prefs {
			if p < 0 || p >= n {
				return ErrUnknownCandidate
			}
			if _, dup := seen[p]; dup {
				return ErrDuplicatePreference
			}
			seen[p] = struct{}{}
		}
	}

	return nil
}

// WinnersSet returns the reported winners as a lookup set, keyed by index.
func (c *Contest) WinnersSet() map[int]struct{} {
	s := make(map[int]struct{}, len(c.Winners))
	for _, w := range c.Winners {
		s[w] = struct{}{}
	}
	return s
}

// Parameters configures a single audit-assertion-generation run. It is the
// Go-native analogue of the original's Parameters struct plus the CLI
// surface of spec.md §6; a Contest is audited by passing (*Contest, Parameters)
// through coordinator.Run.
type Parameters struct {
	// RiskLimit is the maximum probability of certifying an incorrect outcome.
	RiskLimit float64
	// ErrorRate is the assumed per-ballot error rate fed to ASN estimation.
	ErrorRate float64
	// Reps is the number of repetitions used by estimate_sample_size_with_error.
	Reps int
	// Level selects which assertion families are added: 0 = viability only,
	// 1 = + QSMAJ delegate-quota checks, 2 = + CDIFF comparative checks.
	Level int
	// AllowedGap is the absolute (already ballot-scaled) early-termination gap.
	// Zero means the search runs to full frontier resolution.
	AllowedGap float64
	// Diving enables the greedy dive-and-bound lower-bound booster (§4.5.1).
	Diving bool
	// AlgLog enables verbose structured trace logging of the search.
	AlgLog bool
	// TotalAuditableBallots is the cardinality of the external reader's
	// unique ballot-id set (may exceed any single contest's ballot count).
	TotalAuditableBallots int
	// Seed is a seed for an estimate_sample_size_with_error RNG. Nothing in
	// this module reads it: the search engine and coordinator never call
	// Oracle.SampleSizeWithError, so no error-simulated ASN is reported.
	Seed int64

	// TimeLimit and NodeLimit are an [EXPANSION] supplement (SPEC_FULL §4.7):
	// optional soft budgets on the branch-and-bound search, grounded on the
	// teacher's tsp.Options.TimeLimit / ErrNodeLimit governance. Zero means
	// unbounded, matching the original implementation.
	TimeLimit int64 // nanoseconds; 0 = unbounded
	NodeLimit int    // 0 = unbounded

	// Parallel is an [EXPANSION] supplement (SPEC_FULL §5.1): the maximum
	// number of contests a Coordinator may audit concurrently. Zero or one
	// means sequential, matching spec.md §5's baseline model.
	Parallel int
}

// DelegateUnit returns total/ndelegates as an exact decimal, used to derive
// QSMAJ thresholds and CDIFF deltas without float64 accumulation error.
func DelegateUnit(total decimal.Decimal, ndelegates int) decimal.Decimal {
	if ndelegates <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(ndelegates)))
}
