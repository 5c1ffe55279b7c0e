package asnoracle

import "math/rand"

// Params bundles the risk-limit configuration every oracle call needs. It is
// deliberately independent of model.Parameters: the oracle boundary (spec
// §4.1) is meant to be swappable without pulling in the rest of the module's
// types, and a production integration with a real ALPHA/BRAVO/Kaplan-Markov
// library will have its own parameter shape.
type Params struct {
	RiskLimit             float64
	ErrorRate             float64
	Reps                  int
	TotalAuditableBallots int
}

// Oracle is the AsnOracle contract of spec §4.1: pure functions from tallies
// and parameters to an (Estimate, margin) pair. Every method may return an
// infeasible Estimate, meaning the hypothesis cannot be statistically
// established (margin <= 0, or the required sample exceeds the ballot
// count).
type Oracle interface {
	// ViableASN estimates the cost of proving that candidate's tally,
	// computed over tallies with exhausted ballots already removed,
	// exceeds thresholdFr of the qualified vote.
	ViableASN(tallies []int, exhausted int, candidate int, thresholdFr float64, params Params) (Estimate, float64)

	// NonviableASN estimates the cost of proving candidate's tally fails
	// to reach thresholdFr of the qualified vote.
	NonviableASN(tallies []int, exhausted int, candidate int, thresholdFr float64, params Params) (Estimate, float64)

	// SMajorityASN estimates the cost of proving tally holds at least
	// thresholdFr of tally+other.
	SMajorityASN(tally, other, thresholdFr float64, params Params) (Estimate, float64)

	// CDiffASN estimates the cost of proving tallyA - tallyB >= d * total,
	// where total is derived from exhausted and params.TotalAuditableBallots.
	CDiffASN(tallyA, tallyB, d float64, exhausted int, params Params) (Estimate, float64)

	// SampleSize converts a precomputed margin directly into an ASN
	// estimate, used by callers (e.g. nebmatrix) that derive their own
	// margin formula per spec and only need the final sample-size step.
	SampleSize(margin float64, params Params) Estimate

	// SampleSizeWithError is SampleSize's simulation variant used only for
	// reporting: it threads an *rand.Rand positionally (owned by the
	// caller, per spec §5) so repeated runs with the same seed reproduce
	// identical figures.
	SampleSizeWithError(margin float64, params Params, rng *rand.Rand) Estimate
}
