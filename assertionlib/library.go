// Package assertionlib enumerates the statistical assertions that can
// refute a single outcome-tree node and selects the cheapest one, per
// candidate family: NONVIABLE/VIABLE on reported winners, initial-viable
// lookups, NEB shortcuts, and (for non-empty tails) the VIABLE-or-IRV pair
// that closes out a hypothesised elimination suffix.
package assertionlib

import (
	"sort"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/nebmatrix"
	"github.com/rla-audit/irv-assertions/outcometree"
)

// InitialViables maps a candidate index to its precomputed VIABLE(c, ∅) or
// VIABLE(c, reported_eliminations) assertion, whichever SearchEngine
// initialisation kept, used by rule 2 of the empty-tail enumeration.
type InitialViables map[int]assertionkind.Assertion

// FindBestAssertion enumerates every candidate assertion for node and
// returns the one with minimum ASN, per spec.md §4.3's numbered rules. The
// returned assertion carries an infeasible ASN if nothing refutes the node.
func FindBestAssertion(
	c *model.Contest,
	node outcometree.Node,
	initial InitialViables,
	neb *nebmatrix.Matrix,
	oracle asnoracle.Oracle,
	params asnoracle.Params,
) assertionkind.Assertion {
	best := assertionkind.Assertion{ASN: asnoracle.Infeasible()}
	n := c.NCandidates()

	if len(node.Tail) == 0 {
		eliminated := node.Eliminated(n)
		tallies, exhausted := model.ComputeTallies(c, eliminated)

		// Rule 1: each head member might fail to reach threshold with
		// every non-head candidate eliminated.
		for _, wc := range node.Head {
			est, margin := oracle.NonviableASN(tallies, exhausted, wc, c.ThresholdFr, params)
			considerBest(&best, assertionkind.Assertion{
				Kind: assertionkind.Nonviable, Winner: wc, Loser: -1,
				Eliminated: eliminated, ASN: est, Margin: margin, Threshold: c.ThresholdFr,
			})
		}

		// Rule 2: a precomputed initial-viable assertion for a non-head
		// candidate is itself a refutation (the alternative set can't be
		// right if u was viable all along without anyone eliminated).
		for _, u := range eliminated {
			if a, ok := initial[u]; ok {
				considerBest(&best, a)
			}
		}

		// Rule 3: u (not in head) can never be eliminated before a head
		// member c, so the alternative outcome where u loses and c doesn't
		// make it is impossible.
		for _, u := range eliminated {
			for _, wc := range node.Head {
				if !neb.HasNEB(u, wc) {
					continue
				}
				considerBest(&best, assertionkind.Assertion{
					Kind: assertionkind.NEB, Winner: u, Loser: wc,
					ASN: neb.Estimate(u, wc), Margin: neb.Margin(u, wc),
				})
			}
		}
		return best
	}

	// Non-empty tail: tail[0] is hypothesised as the last candidate
	// eliminated before head became the viable set.
	unmentioned := node.Unmentioned(n)
	tallies, exhausted := model.ComputeTallies(c, unmentioned)
	winner := node.Tail[0]

	est, margin := oracle.ViableASN(tallies, exhausted, winner, c.ThresholdFr, params)
	considerBest(&best, assertionkind.Assertion{
		Kind: assertionkind.Viable, Winner: winner, Loser: -1,
		Eliminated: unmentioned, ASN: est, Margin: margin, Threshold: c.ThresholdFr,
	})

	irv := FindBestIRVNEB(winner, node.Tail[1:], node.Head, unmentioned, tallies, exhausted, neb, oracle, params)
	considerBest(&best, irv)

	return best
}

// FindBestIRVNEB resolves spec.md §9's open question about
// find_best_irv_neb: for the given tail and head under the elimination
// profile unmentioned, it minimises ASN over (a) a tally-based comparative
// assertion that winner's tally exceeds an opponent's, and (b) the NEB
// assertion from winner to the same opponent, across every opponent in
// tailRest ∪ head.
func FindBestIRVNEB(
	winner int,
	tailRest []int,
	head outcometree.CandidateSet,
	unmentioned []int,
	tallies []int,
	exhausted int,
	neb *nebmatrix.Matrix,
	oracle asnoracle.Oracle,
	params asnoracle.Params,
) assertionkind.Assertion {
	best := assertionkind.Assertion{ASN: asnoracle.Infeasible()}

	opponents := make([]int, 0, len(tailRest)+len(head))
	opponents = append(opponents, tailRest...)
	opponents = append(opponents, head...)
	sort.Ints(opponents)

	for _, opp := range opponents {
		est, margin := oracle.CDiffASN(float64(tallies[winner]), float64(tallies[opp]), 0, exhausted, params)
		considerBest(&best, assertionkind.Assertion{
			Kind: assertionkind.IRV, Winner: winner, Loser: opp,
			Eliminated: unmentioned, ASN: est, Margin: margin,
		})

		if neb.HasNEB(winner, opp) {
			considerBest(&best, assertionkind.Assertion{
				Kind: assertionkind.NEB, Winner: winner, Loser: opp,
				Eliminated: unmentioned, ASN: neb.Estimate(winner, opp), Margin: neb.Margin(winner, opp),
			})
		}
	}

	return best
}

func considerBest(best *assertionkind.Assertion, candidate assertionkind.Assertion) {
	if candidate.ASN.Less(best.ASN) {
		*best = candidate
	}
}
