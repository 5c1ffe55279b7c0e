package asnoracle

import (
	"math"
	"math/rand"
)

// KaplanMarkov is a reference Oracle implementation: a BRAVO-style
// large-sample approximation of a Kaplan-Markov risk-limiting test,
// n ≈ ceil(2*ln(1/alpha) / margin^2), clamped to infeasible once the
// estimate would require auditing more ballots than exist.
//
// This is deliberately not a citation-grade statistical procedure — spec.md
// §1 draws the AsnOracle boundary so the real arithmetic can be swapped in
// without touching assertionlib, outcometree, or search. What matters here
// is that margins and sample sizes move monotonically in the right
// direction so the rest of the module has something real to branch on.
type KaplanMarkov struct{}

var _ Oracle = KaplanMarkov{}

// ViableASN treats the threshold_fr check as a one-sided supermajority
// assorter: a ballot for candidate is worth 1/(2*thresholdFr), any other
// ballot (including exhausted ones) is worth 0. The resulting margin is
// 2*mean-1, mirroring the shape of the NEB margin formula (SPEC_FULL §4.2)
// but parameterized by thresholdFr instead of a fixed 1/2.
func (o KaplanMarkov) ViableASN(tallies []int, exhausted int, candidate int, thresholdFr float64, params Params) (Estimate, float64) {
	qualified := sumInts(tallies) + exhausted
	if qualified <= 0 || thresholdFr <= 0 {
		return Infeasible(), 0
	}
	tally := float64(tallies[candidate])
	mean := tally / (2 * thresholdFr * float64(qualified))
	margin := 2*mean - 1
	return o.SampleSize(margin, params), margin
}

// NonviableASN is ViableASN's mirror image: it asserts candidate's tally
// fails to reach thresholdFr, i.e. the complement exceeds 1-thresholdFr.
func (o KaplanMarkov) NonviableASN(tallies []int, exhausted int, candidate int, thresholdFr float64, params Params) (Estimate, float64) {
	qualified := sumInts(tallies) + exhausted
	complementFr := 1 - thresholdFr
	if qualified <= 0 || complementFr <= 0 {
		return Infeasible(), 0
	}
	complement := float64(qualified - tallies[candidate])
	mean := complement / (2 * complementFr * float64(qualified))
	margin := 2*mean - 1
	return o.SampleSize(margin, params), margin
}

// SMajorityASN asserts tally holds at least thresholdFr of tally+other.
func (o KaplanMarkov) SMajorityASN(tally, other, thresholdFr float64, params Params) (Estimate, float64) {
	total := tally + other
	if total <= 0 || thresholdFr <= 0 {
		return Infeasible(), 0
	}
	mean := tally / (2 * thresholdFr * total)
	margin := 2*mean - 1
	return o.SampleSize(margin, params), margin
}

// CDiffASN asserts tallyA - tallyB >= d*total, where total is the qualified
// electorate (params.TotalAuditableBallots minus exhausted). It reuses the
// NEB-style "appears neither" assorter (SPEC_FULL §4.2), shifted by d.
func (o KaplanMarkov) CDiffASN(tallyA, tallyB, d float64, exhausted int, params Params) (Estimate, float64) {
	total := float64(params.TotalAuditableBallots - exhausted)
	if total <= 0 {
		return Infeasible(), 0
	}
	neither := total - tallyA - tallyB
	mean := (tallyA + 0.5*neither) / total
	margin := 2*mean - 1 - d
	return o.SampleSize(margin, params), margin
}

// SampleSize implements the BRAVO-style approximation described on
// KaplanMarkov. A non-positive margin means the assertion is not actually
// true of the data and is always infeasible. A sample size at or beyond
// TotalAuditableBallots (when known) means a full hand count would be
// required, which this module treats the same as infeasible: the caller
// gains nothing by accepting an assertion only a full recount can satisfy.
func (o KaplanMarkov) SampleSize(margin float64, params Params) Estimate {
	if margin <= 0 {
		return Infeasible()
	}
	if params.RiskLimit <= 0 || params.RiskLimit >= 1 {
		return Infeasible()
	}
	n := math.Ceil(2 * math.Log(1/params.RiskLimit) / (margin * margin))
	if n < 1 {
		n = 1
	}
	if params.TotalAuditableBallots > 0 && n >= float64(params.TotalAuditableBallots) {
		return Infeasible()
	}
	return Feasible(n)
}

// SampleSizeWithError perturbs SampleSize's estimate by params.ErrorRate to
// model the variance estimate_sample_size_with_error adds on top of the
// point estimate (spec.md §4.1): each of params.Reps draws adds one
// over-statement with probability ErrorRate, and the returned ASN is scaled
// up by the observed over-statement rate, consistent with how a higher
// assumed error rate inflates the required sample in a real Kaplan-Markov
// or ALPHA test.
func (o KaplanMarkov) SampleSizeWithError(margin float64, params Params, rng *rand.Rand) Estimate {
	base := o.SampleSize(margin, params)
	asn, ok := base.Value()
	if !ok {
		return Infeasible()
	}
	if params.Reps <= 0 || params.ErrorRate <= 0 {
		return base
	}
	errors := 0
	for i := 0; i < params.Reps; i++ {
		if rng.Float64() < params.ErrorRate {
			errors++
		}
	}
	inflation := 1 + float64(errors)/float64(params.Reps)
	scaled := math.Ceil(asn * inflation)
	if params.TotalAuditableBallots > 0 && scaled >= float64(params.TotalAuditableBallots) {
		return Infeasible()
	}
	return Feasible(scaled)
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
