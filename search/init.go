package search

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/assertionlib"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/outcometree"
)

// seedInitialViables computes VIABLE(c, ∅) and VIABLE(c, reported_eliminations)
// for every reported winner, keeps whichever has smaller feasible ASN (the
// feasible one, if exactly one is infeasible; the eliminations form on a
// tie), adds the kept assertion to the output set, and raises the lower
// bound to the largest kept ASN. A winner for whom
// both forms are infeasible fails the whole contest (spec.md §7).
func (e *Engine) seedInitialViables() error {
	e.initial = make(assertionlib.InitialViables, len(e.contest.Winners))

	emptyTallies, emptyExhausted := model.ComputeTallies(e.contest, nil)
	elimTallies, elimExhausted := model.ComputeTallies(e.contest, e.contest.Eliminations)

	for _, w := range e.contest.Winners {
		estEmpty, marginEmpty := e.oracle.ViableASN(emptyTallies, emptyExhausted, w, e.contest.ThresholdFr, e.oracleParams)
		estElim, marginElim := e.oracle.ViableASN(elimTallies, elimExhausted, w, e.contest.ThresholdFr, e.oracleParams)

		aEmpty := assertionkind.Assertion{Kind: assertionkind.Viable, Winner: w, Loser: -1, ASN: estEmpty, Margin: marginEmpty, Threshold: e.contest.ThresholdFr}
		aElim := assertionkind.Assertion{Kind: assertionkind.Viable, Winner: w, Loser: -1, Eliminated: append([]int(nil), e.contest.Eliminations...), ASN: estElim, Margin: marginElim, Threshold: e.contest.ThresholdFr}

		switch {
		case !estEmpty.IsFeasible() && !estElim.IsFeasible():
			return ErrAuditInfeasible
		case !estEmpty.IsFeasible():
			e.keepInitialViable(w, aElim)
		case !estElim.IsFeasible():
			e.keepInitialViable(w, aEmpty)
		case estEmpty.Less(estElim):
			e.keepInitialViable(w, aEmpty)
		default:
			e.keepInitialViable(w, aElim)
		}
	}

	if e.params.Level >= 1 {
		awards := e.seedQSMAJ(elimTallies, elimExhausted)
		if e.params.Level >= 2 {
			e.seedCDiff(elimTallies, elimExhausted, awards)
		}
	}

	return nil
}

func (e *Engine) keepInitialViable(winner int, a assertionkind.Assertion) {
	e.initial[winner] = a
	e.addAudit(a)
	if v, ok := a.ASN.Value(); ok {
		e.raiseLowerBound(v)
	}
}

// delegateAward is one delegate class's largest-remainder allocation,
// candidate index -> delegates won.
type delegateAward map[int]int64

// allocateDelegates apportions ndelegates seats across winners by the
// largest-remainder (Hamilton) rule, grounded on irvaudit.cpp's
// form_audits_irv delegate loop: each winner's exact quota
// (tally/remVote)*ndelegates is truncated to an integer award, and the
// seats left over after truncation go one each to the winners with the
// largest fractional remainder, ties broken by ascending candidate index
// for determinism.
func allocateDelegates(tallies []int, winners []int, remVote, ndelegates int) delegateAward {
	awarded := make(delegateAward, len(winners))
	if remVote <= 0 || ndelegates <= 0 {
		return awarded
	}

	remVoteDec := decimal.NewFromInt(int64(remVote))
	ndDec := decimal.NewFromInt(int64(ndelegates))

	type share struct {
		candidate int
		remainder decimal.Decimal
	}
	shares := make([]share, 0, len(winners))
	var totalAwarded int64

	for _, w := range sortedCopy(winners) {
		quota := decimal.NewFromInt(int64(tallies[w])).Div(remVoteDec).Mul(ndDec)
		whole := quota.Floor()
		awarded[w] = whole.IntPart()
		totalAwarded += whole.IntPart()
		shares = append(shares, share{candidate: w, remainder: quota.Sub(whole)})
	}

	remaining := int64(ndelegates) - totalAwarded
	if remaining > 0 {
		sort.SliceStable(shares, func(i, j int) bool {
			if !shares[i].remainder.Equal(shares[j].remainder) {
				return shares[i].remainder.GreaterThan(shares[j].remainder)
			}
			return shares[i].candidate < shares[j].candidate
		})
		for i := 0; i < len(shares) && remaining > 0; i++ {
			awarded[shares[i].candidate]++
			remaining--
		}
	}

	return awarded
}

// seedQSMAJ adds a QSMAJ assertion for each of a winner's (delegates-1)
// delegate quotas in every delegate class the contest reports, per
// spec.md §4.5 step 2 / irvaudit.cpp's form_audits_irv: each class in
// contest.Delegates is apportioned independently by allocateDelegates
// before any threshold is checked. The "other" side of the supermajority
// is the rest of the qualified (non-exhausted) vote, matching spec's
// "threshold_fraction of the qualified vote" wording. Returns the
// per-class awards so seedCDiff can reuse them without reallocating.
func (e *Engine) seedQSMAJ(tallies []int, exhausted int) []delegateAward {
	remVote := len(e.contest.Ballots) - exhausted
	awards := make([]delegateAward, len(e.contest.Delegates))

	for classIdx, nd := range e.contest.Delegates {
		awarded := allocateDelegates(tallies, e.contest.Winners, remVote, nd)
		awards[classIdx] = awarded
		if nd <= 0 {
			continue
		}

		delunit := model.DelegateUnit(decimal.NewFromInt(int64(remVote)), nd)
		for _, w := range e.contest.Winners {
			dels := awarded[w]
			if dels <= 1 {
				continue
			}
			other := float64(remVote - tallies[w])
			threshDec := delunit.Mul(decimal.NewFromInt(dels - 1)).Div(decimal.NewFromInt(int64(remVote)))
			thresholdFr, _ := threshDec.Float64()

			est, margin := e.oracle.SMajorityASN(float64(tallies[w]), other, thresholdFr, e.oracleParams)
			if !est.IsFeasible() {
				continue
			}
			e.addAudit(assertionkind.Assertion{
				Kind: assertionkind.QSMAJ, Winner: w, Loser: -1,
				Eliminated: append([]int(nil), e.contest.Eliminations...),
				Threshold:  thresholdFr, ASN: est, Margin: margin,
			})
			if v, ok := est.Value(); ok {
				e.raiseLowerBound(v)
			}
		}
	}
	return awards
}

// seedCDiff adds CDIFF(c1, c2, d) for every ordered pair of winners in
// every delegate class, per spec.md §4.5 step 3 / irvaudit.cpp:822-825:
// d = ((a1-a2)+1)/ndelegates is a share of that class's *delegate counts*
// (a1, a2 from allocateDelegates), not of vote tallies, since the
// assertion tests whether c2 could have taken one of c1's delegate seats.
func (e *Engine) seedCDiff(tallies []int, exhausted int, awards []delegateAward) {
	winners := sortedCopy(e.contest.Winners)
	for classIdx, nd := range e.contest.Delegates {
		if nd <= 0 {
			continue
		}
		awarded := awards[classIdx]
		ndDec := decimal.NewFromInt(int64(nd))

		for _, c1 := range winners {
			for _, c2 := range winners {
				if c1 == c2 {
					continue
				}
				a1, a2 := awarded[c1], awarded[c2]
				dDec := decimal.NewFromInt(a1 - a2 + 1).Div(ndDec)
				dd, _ := dDec.Float64()

				est, margin := e.oracle.CDiffASN(float64(tallies[c1]), float64(tallies[c2]), dd, exhausted, e.oracleParams)
				if !est.IsFeasible() {
					continue
				}
				e.addAudit(assertionkind.Assertion{
					Kind: assertionkind.CDiff, Winner: c1, Loser: c2,
					Eliminated: append([]int(nil), e.contest.Eliminations...),
					Threshold:  dd, ASN: est, Margin: margin,
				})
				if v, ok := est.Value(); ok {
					e.raiseLowerBound(v)
				}
			}
		}
	}
}

func sortedCopy(xs []int) []int {
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	return cp
}

// buildInitialFrontier enumerates every non-empty candidate subset S with
// |S| <= maxSize and S != reported winners, in ascending bitmask order so
// ASN ties break deterministically. Nodes already refutable at or below the
// current lower bound are resolved immediately instead of being enqueued.
func (e *Engine) buildInitialFrontier() {
	winners := outcometree.NewCandidateSet(e.contest.Winners)

	for mask := 1; mask < (1 << e.n); mask++ {
		if popcount(mask) > e.maxSize {
			continue
		}
		head := bitsToSlice(mask, e.n)
		if outcometree.NewCandidateSet(head).Equal(winners) {
			continue
		}

		node := outcometree.New(head, nil, e.n)
		node.BestAssertion = assertionlib.FindBestAssertion(e.contest, node, e.initial, e.neb, e.oracle, e.oracleParams)
		e.nodesBuilt++

		if node.BestAssertion.ASN.LessEqualBound(e.lowerBound) {
			e.addAudit(node.BestAssertion)
			continue
		}
		e.frontier.Insert(node)
	}
}

func popcount(mask int) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}

func bitsToSlice(mask, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}
