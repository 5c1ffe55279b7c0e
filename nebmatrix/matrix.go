// Package nebmatrix precomputes the pairwise Never-Eliminated-Before (NEB)
// relation for a contest: for each ordered pair (i, j), whether i's reported
// first-preference tally is provably larger than the largest tally j could
// ever reach before i is eliminated, and if so, the ASN of that assertion.
//
// # What & Why
//
// NEB(i, j) lets the search rule out every outcome in which i is eliminated
// before j without re-deriving the comparison per node: the relation and its
// ASN depend only on the contest's reported data, not on which candidates a
// given branch-and-bound node has already eliminated. Precomputing it once
// as an n×n table turns a per-node statistical estimate into an O(1) lookup.
//
// # Algorithms & Complexity
//
// Build performs n*(n-1) calls to model.ComputeNEBTally, each an O(ballots)
// scan, for O(n^2 * ballots) total — paid once per contest. Storage is a
// flat row-major buffer per field, following the teacher's Dense matrix
// layout, since the relation is checked far more often than it is built.
package nebmatrix

import (
	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/model"
)

// Matrix holds the precomputed NEB relation and its ASN/margin for every
// ordered candidate pair of a contest.
type Matrix struct {
	n        int
	hasNEB   []bool
	estimate []asnoracle.Estimate
	margin   []float64
}

// Build computes the NEB matrix for c using oracle.SampleSize to cost each
// candidate pair's margin, grounded on the winner/loser assorter-mean
// formula: margin = 2*((total_votes(i) + 0.5*neither)/total_auditable) - 1,
// where neither is the auditable electorate minus i's first preferences and
// the tally of ballots that prefer j before i.
func Build(c *model.Contest, params asnoracle.Params, oracle asnoracle.Oracle) *Matrix {
	n := c.NCandidates()
	m := &Matrix{
		n:        n,
		hasNEB:   make([]bool, n*n),
		estimate: make([]asnoracle.Estimate, n*n),
		margin:   make([]float64, n*n),
	}

	total := params.TotalAuditableBallots
	for i := 0; i < n; i++ {
		iVotes := c.Candidates[i].TotalVotes
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			jBeforeI := model.ComputeNEBTally(c, j, i)
			if iVotes <= jBeforeI {
				continue
			}

			neither := total - jBeforeI - iVotes
			amean := (float64(iVotes) + 0.5*float64(neither)) / float64(total)
			margin := 2*amean - 1

			est := oracle.SampleSize(margin, params)
			if !est.IsFeasible() {
				continue
			}

			idx := i*n + j
			m.hasNEB[idx] = true
			m.estimate[idx] = est
			m.margin[idx] = margin
		}
	}
	return m
}

// HasNEB reports whether i can never be eliminated before j.
func (m *Matrix) HasNEB(i, j int) bool {
	return m.hasNEB[i*m.n+j]
}

// Estimate returns the ASN of NEB(i, j). Infeasible when HasNEB is false.
func (m *Matrix) Estimate(i, j int) asnoracle.Estimate {
	return m.estimate[i*m.n+j]
}

// Margin returns the assorter margin backing NEB(i, j), valid only when
// HasNEB(i, j) is true.
func (m *Matrix) Margin(i, j int) float64 {
	return m.margin[i*m.n+j]
}

// N returns the candidate count the matrix was built for.
func (m *Matrix) N() int {
	return m.n
}
