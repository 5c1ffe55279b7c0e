package search

import (
	"math/rand"
	"testing"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/model"
)

// recordingOracle always reports a feasible estimate and records the
// threshold/d value it was asked to check, so delegate-allocation tests can
// assert on the exact quota/diff math without depending on KaplanMarkov's
// margin formula happening to clear zero.
type recordingOracle struct {
	smajority []float64
	cdiff     []float64
}

func (o *recordingOracle) ViableASN([]int, int, int, float64, asnoracle.Params) (asnoracle.Estimate, float64) {
	return asnoracle.Feasible(1), 1
}

func (o *recordingOracle) NonviableASN([]int, int, int, float64, asnoracle.Params) (asnoracle.Estimate, float64) {
	return asnoracle.Feasible(1), 1
}

func (o *recordingOracle) SMajorityASN(_, _, thresholdFr float64, _ asnoracle.Params) (asnoracle.Estimate, float64) {
	o.smajority = append(o.smajority, thresholdFr)
	return asnoracle.Feasible(1), 1
}

func (o *recordingOracle) CDiffASN(_, _, d float64, _ int, _ asnoracle.Params) (asnoracle.Estimate, float64) {
	o.cdiff = append(o.cdiff, d)
	return asnoracle.Feasible(1), 1
}

func (o *recordingOracle) SampleSize(float64, asnoracle.Params) asnoracle.Estimate {
	return asnoracle.Feasible(1)
}

func (o *recordingOracle) SampleSizeWithError(float64, asnoracle.Params, *rand.Rand) asnoracle.Estimate {
	return asnoracle.Feasible(1)
}

// delegateContest: 3 winners, tallies 50/30/20 over 100 ballots, one
// delegate class of 3 seats -> largest-remainder awards A=1,B=1,C=1 (see
// TestAllocateDelegates_LargestRemainder).
func delegateContest() *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 50; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0}})
	}
	for i := 0; i < 30; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{1}})
	}
	for i := 0; i < 20; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{2}})
	}
	return &model.Contest{
		ID: 9,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 50},
			{ID: "B", Index: 1, TotalVotes: 30},
			{ID: "C", Index: 2, TotalVotes: 20},
		},
		Winners:     []int{0, 1, 2},
		ThresholdFr: 0.15,
		Ballots:     ballots,
		Delegates:   []int{3},
	}
}

func TestEngine_SeedQSMAJ_UsesDelegateAllocationNotRawTallies(t *testing.T) {
	c := delegateContest()
	params := model.Parameters{RiskLimit: 0.05, TotalAuditableBallots: 100, Level: 1}
	oracle := &recordingOracle{}
	e := New(c, params, oracle, nil)

	tallies, exhausted := model.ComputeTallies(e.contest, nil)
	awards := e.seedQSMAJ(tallies, exhausted)

	if len(awards) != 1 {
		t.Fatalf("expected 1 delegate class, got %d", len(awards))
	}
	if awards[0][0] != 1 || awards[0][1] != 1 || awards[0][2] != 1 {
		t.Fatalf("unexpected delegate award: %v", awards[0])
	}

	// Every winner got exactly 1 delegate (dels <= 1), so no QSMAJ quota is
	// above the base seat and seedQSMAJ should have emitted nothing.
	if len(oracle.smajority) != 0 {
		t.Fatalf("expected no QSMAJ checks when no winner holds >1 delegate, got %v", oracle.smajority)
	}
	for _, a := range e.audits {
		if a.Kind == assertionkind.QSMAJ {
			t.Fatalf("unexpected QSMAJ assertion: %+v", a)
		}
	}
}

func TestEngine_SeedCDiff_DerivesDFromDelegateCountsNotTallies(t *testing.T) {
	// 2 winners so the delegate split is uneven: A=90, B=10 over 100 ballots,
	// 4 seats -> exact quotas 3.6/0.4 -> floors 3/0, 1 remainder seat to A
	// (0.6 > 0.4) -> awarded A=4, B=0.
	c := &model.Contest{
		ID: 10,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 90},
			{ID: "B", Index: 1, TotalVotes: 10},
		},
		Winners:     []int{0, 1},
		ThresholdFr: 0.15,
		Delegates:   []int{4},
	}
	for i := 0; i < 90; i++ {
		c.Ballots = append(c.Ballots, model.Ballot{Prefs: []int{0}})
	}
	for i := 0; i < 10; i++ {
		c.Ballots = append(c.Ballots, model.Ballot{Prefs: []int{1}})
	}

	params := model.Parameters{RiskLimit: 0.05, TotalAuditableBallots: 100, Level: 2}
	oracle := &recordingOracle{}
	e := New(c, params, oracle, nil)

	tallies, exhausted := model.ComputeTallies(e.contest, nil)
	awards := e.seedQSMAJ(tallies, exhausted)
	e.seedCDiff(tallies, exhausted, awards)

	if awards[0][0] != 4 || awards[0][1] != 0 {
		t.Fatalf("unexpected delegate award: %v", awards[0])
	}

	// d(A,B) = ((4-0)+1)/4 = 1.25; d(B,A) = ((0-4)+1)/4 = -0.75. Neither
	// value is anywhere near the raw-tally diff (90-10+1=81, or (81)/4 if
	// divided by ndelegates) that the unfixed code used to compute.
	wantAB, wantBA := 1.25, -0.75
	if len(oracle.cdiff) != 2 {
		t.Fatalf("expected 2 CDIFF checks, got %d: %v", len(oracle.cdiff), oracle.cdiff)
	}
	foundAB, foundBA := false, false
	for _, d := range oracle.cdiff {
		switch d {
		case wantAB:
			foundAB = true
		case wantBA:
			foundBA = true
		}
	}
	if !foundAB || !foundBA {
		t.Fatalf("expected CDIFF d values %v and %v, got %v", wantAB, wantBA, oracle.cdiff)
	}
}

func TestAllocateDelegates_LargestRemainder(t *testing.T) {
	// 3 seats, qualified vote 100, tallies 50/30/20 -> exact quotas 1.5/0.9/0.6.
	// Floors: 1/0/0 = 1 awarded, 2 remaining go to the largest remainders: B
	// (0.9) then C (0.6).
	tallies := []int{50, 30, 20}
	winners := []int{0, 1, 2}

	awarded := allocateDelegates(tallies, winners, 100, 3)

	if awarded[0] != 1 {
		t.Fatalf("candidate 0: got %d, want 1", awarded[0])
	}
	if awarded[1] != 1 {
		t.Fatalf("candidate 1: got %d, want 1", awarded[1])
	}
	if awarded[2] != 1 {
		t.Fatalf("candidate 2: got %d, want 1", awarded[2])
	}

	var total int64
	for _, w := range winners {
		total += awarded[w]
	}
	if total != 3 {
		t.Fatalf("total awarded = %d, want 3", total)
	}
}

func TestAllocateDelegates_TieBreaksByAscendingIndex(t *testing.T) {
	// Equal tallies produce equal remainders; the tie-break must prefer the
	// lowest candidate index so results stay deterministic.
	tallies := []int{10, 10, 10, 10}
	winners := []int{0, 1, 2, 3}

	awarded := allocateDelegates(tallies, winners, 40, 2)

	if awarded[0] != 1 || awarded[1] != 1 {
		t.Fatalf("expected the two lowest-index candidates to win the remainder seats, got %v", awarded)
	}
	if awarded[2] != 0 || awarded[3] != 0 {
		t.Fatalf("expected the two highest-index candidates to get no remainder seat, got %v", awarded)
	}
}

func TestAllocateDelegates_DegenerateInputsReturnEmpty(t *testing.T) {
	if got := allocateDelegates([]int{1, 2}, []int{0, 1}, 0, 3); len(got) != 0 {
		t.Fatalf("remVote=0: got %v, want empty", got)
	}
	if got := allocateDelegates([]int{1, 2}, []int{0, 1}, 10, 0); len(got) != 0 {
		t.Fatalf("ndelegates=0: got %v, want empty", got)
	}
}
