// Package subsumer post-processes a contest's raw assertion set, removing
// entries made redundant by a stronger sibling so the reported audit asks
// for no more than it needs.
package subsumer

import "github.com/rla-audit/irv-assertions/assertionkind"

// Apply returns the subset of assertions not subsumed by any other member
// of the set, per spec.md §4.6's two rules (VIABLE by eliminated-subset,
// NONVIABLE by the reverse subset). It is idempotent: applying it to its
// own output returns the same set.
func Apply(assertions []assertionkind.Assertion) []assertionkind.Assertion {
	out := make([]assertionkind.Assertion, 0, len(assertions))
	for i, a := range assertions {
		subsumed := false
		for j, other := range assertions {
			if i == j {
				continue
			}
			if assertionkind.Subsumes(other, a) && !assertionkind.Subsumes(a, other) {
				subsumed = true
				break
			}
			// Equal-strength mutual subsumption (identical eliminated sets):
			// keep only the earlier-indexed entry to break the tie
			// deterministically.
			if assertionkind.Subsumes(other, a) && assertionkind.Subsumes(a, other) && j < i {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, a)
		}
	}
	return out
}

// MaxASN returns the largest feasible ASN across assertions, or 0 if empty.
func MaxASN(assertions []assertionkind.Assertion) float64 {
	max := 0.0
	for _, a := range assertions {
		if v, ok := a.ASN.Value(); ok && v > max {
			max = v
		}
	}
	return max
}
