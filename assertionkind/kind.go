// Package assertionkind defines the tagged union of statistical assertions
// an audit can rely on, and the subsumption rules the subsumer package uses
// to drop assertions made redundant by a stronger one.
package assertionkind

import (
	"fmt"
	"sort"

	"github.com/rla-audit/irv-assertions/asnoracle"
)

// Kind enumerates the six assertion families an audit can be built from.
type Kind int

const (
	// Viable asserts a candidate's tally exceeds the viability
	// threshold once a given set of candidates has been eliminated.
	Viable Kind = iota
	// Nonviable asserts a candidate's tally fails to reach the viability
	// threshold once a given set of candidates has been eliminated.
	Nonviable
	// IRV asserts that, once a given set of candidates has been eliminated,
	// one candidate's tally strictly exceeds another's.
	IRV
	// NEB asserts a winner can never be eliminated before a loser, using
	// only first-preference tallies and the appears-before count.
	NEB
	// QSMAJ asserts a quota or supermajority share for a delegate count.
	QSMAJ
	// CDiff asserts a fixed-margin comparative difference between two
	// candidates' tallies.
	CDiff
)

// String renders the Kind using the same tag names as the tagged union in
// spec.md: VIABLE, NONVIABLE, IRV, NEB, QSMAJ, CDIFF.
func (k Kind) String() string {
	switch k {
	case Viable:
		return "VIABLE"
	case Nonviable:
		return "NONVIABLE"
	case IRV:
		return "IRV"
	case NEB:
		return "NEB"
	case QSMAJ:
		return "QSMAJ"
	case CDiff:
		return "CDIFF"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Assertion is a single concrete audit: which statistical family it belongs
// to, the sample size required to certify it, and the candidate/elimination
// context it was computed against.
type Assertion struct {
	Kind Kind
	ASN  asnoracle.Estimate

	// Winner and Loser are candidate indices. For Viable/Nonviable, Winner
	// holds the candidate under test and Loser is unused (-1).
	Winner int
	Loser  int

	// Eliminated is the elimination set the assertion was computed against.
	// Its order is not significant: Subsumes and Equal compare it as a set.
	Eliminated []int

	// Threshold is the viability/QSMAJ share the assertion tests against.
	Threshold float64

	// Margin is the assorter margin the ASN above was derived from.
	Margin float64
}

// WithSortedEliminated returns a copy of a with Eliminated sorted ascending,
// matching the comparisons Subsumes and Equal assume.
func (a Assertion) WithSortedEliminated() Assertion {
	cp := make([]int, len(a.Eliminated))
	copy(cp, a.Eliminated)
	sort.Ints(cp)
	a.Eliminated = cp
	return a
}

// Subsumes reports whether a1 makes a2 redundant: both are Viable assertions
// for the same candidate and a1's elimination set is a subset of a2's (so
// a1 certifies viability under weaker assumptions), or both are Nonviable
// assertions for the same candidate with the reverse subset relation.
func Subsumes(a1, a2 Assertion) bool {
	switch {
	case a1.Kind == Viable && a2.Kind == Viable && a1.Winner == a2.Winner:
		return subsetOf(a1.Eliminated, a2.Eliminated)
	case a1.Kind == Nonviable && a2.Kind == Nonviable && a1.Winner == a2.Winner:
		return subsetOf(a2.Eliminated, a1.Eliminated)
	default:
		return false
	}
}

// Equal reports whether a1 and a2 are the same assertion: same kind, same
// winner/loser pair, and the same elimination set (order-independent).
func Equal(a1, a2 Assertion) bool {
	if a1.Kind != a2.Kind || a1.Winner != a2.Winner || a1.Loser != a2.Loser {
		return false
	}
	return intSliceEqualUnordered(a1.Eliminated, a2.Eliminated)
}

func subsetOf(l1, l2 []int) bool {
	if len(l1) > len(l2) {
		return false
	}
	set := make(map[int]struct{}, len(l2))
	for _, v := range l2 {
		set[v] = struct{}{}
	}
	for _, v := range l1 {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func intSliceEqualUnordered(l1, l2 []int) bool {
	if len(l1) != len(l2) {
		return false
	}
	a := append([]int(nil), l1...)
	b := append([]int(nil), l2...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
