package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/search"
)

// degenerateViabilityContest mirrors scenario S1: 3 candidates, 100 ballots
// all ranking A first, threshold 0.15, winners = {A}.
func degenerateViabilityContest() *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 100; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0, 1, 2}})
	}
	return &model.Contest{
		ID: 1,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 100},
			{ID: "B", Index: 1, TotalVotes: 0},
			{ID: "C", Index: 2, TotalVotes: 0},
		},
		Winners:      []int{0},
		Eliminations: []int{1, 2},
		ThresholdFr:  0.15,
		Ballots:      ballots,
	}
}

func baseParams(totalBallots int) model.Parameters {
	return model.Parameters{
		RiskLimit:             0.05,
		TotalAuditableBallots: totalBallots,
	}
}

func TestEngine_Run_DegenerateViability_SucceedsWithSmallASN(t *testing.T) {
	c := degenerateViabilityContest()
	params := baseParams(100)

	e := search.New(c, params, asnoracle.KaplanMarkov{}, nil)
	result, err := e.Run()

	require.NoError(t, err)
	require.False(t, result.FullRecount)
	require.NotEmpty(t, result.Assertions)
	require.Less(t, result.MaxASN, 20.0)

	foundViableA := false
	for _, a := range result.Assertions {
		if a.Kind == assertionkind.Viable && a.Winner == 0 {
			foundViableA = true
		}
	}
	require.True(t, foundViableA)
}

// thinMarginContest mirrors scenario S4: 2 candidates, tallies 16/84,
// threshold 0.15, winners = {A}. VIABLE(A, ∅) should require more ballots
// than exist, forcing a full recount.
func thinMarginContest() *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 16; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0, 1}})
	}
	for i := 0; i < 84; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{1, 0}})
	}
	return &model.Contest{
		ID: 2,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 16},
			{ID: "B", Index: 1, TotalVotes: 84},
		},
		Winners:     []int{0},
		ThresholdFr: 0.15,
		Ballots:     ballots,
	}
}

func TestEngine_Run_ThinMargin_FailsAudit(t *testing.T) {
	c := thinMarginContest()
	params := baseParams(100)

	e := search.New(c, params, asnoracle.KaplanMarkov{}, nil)
	_, err := e.Run()

	require.ErrorIs(t, err, search.ErrAuditInfeasible)
}

// evenSplitContest mirrors scenario S3: 2 candidates, 50/50, threshold 0.15,
// both winners. Both VIABLE(A, ∅) and VIABLE(B, ∅) are comfortably feasible.
func evenSplitContest() *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 50; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0, 1}})
	}
	for i := 0; i < 50; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{1, 0}})
	}
	return &model.Contest{
		ID: 3,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 50},
			{ID: "B", Index: 1, TotalVotes: 50},
		},
		Winners:     []int{0, 1},
		ThresholdFr: 0.15,
		Ballots:     ballots,
	}
}

func TestEngine_Run_EvenSplit_BothWinnersViable(t *testing.T) {
	c := evenSplitContest()
	params := baseParams(100)

	e := search.New(c, params, asnoracle.KaplanMarkov{}, nil)
	result, err := e.Run()

	require.NoError(t, err)
	require.False(t, result.FullRecount)

	winnersSeen := map[int]bool{}
	for _, a := range result.Assertions {
		if a.Kind == assertionkind.Viable {
			winnersSeen[a.Winner] = true
		}
	}
	require.True(t, winnersSeen[0])
	require.True(t, winnersSeen[1])
}
