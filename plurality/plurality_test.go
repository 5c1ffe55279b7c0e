package plurality_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/plurality"
	"github.com/rla-audit/irv-assertions/search"
)

func landslideContest() *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 95; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0}})
	}
	for i := 0; i < 5; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{1}})
	}
	return &model.Contest{
		ID: 1,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 95},
			{ID: "B", Index: 1, TotalVotes: 5},
		},
		Winners:      []int{0},
		Eliminations: []int{1},
		ThresholdFr:  0.15,
		Ballots:      ballots,
	}
}

func TestAssertions_LandslideProducesViableAndNonviable(t *testing.T) {
	c := landslideContest()
	// TotalAuditableBallots models the external reader's full unique-ballot-id
	// population, which may exceed this single contest's ballot count; a
	// generous population keeps NonviableASN's inherently capped margin
	// (complementFr is fixed by thresholdFr) below the infeasibility cutoff.
	params := asnoracle.Params{RiskLimit: 0.05, TotalAuditableBallots: 100000}

	out, err := plurality.Assertions(c, params, asnoracle.KaplanMarkov{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, assertionkind.Viable, out[0].Kind)
	require.Equal(t, 0, out[0].Winner)
	require.Equal(t, assertionkind.Nonviable, out[1].Kind)
	require.Equal(t, 1, out[1].Winner)
}

func TestAssertions_ThinMarginIsInfeasible(t *testing.T) {
	c := landslideContest()
	c.Candidates[0].TotalVotes = 16
	c.Candidates[1].TotalVotes = 84
	c.Ballots = nil
	for i := 0; i < 16; i++ {
		c.Ballots = append(c.Ballots, model.Ballot{Prefs: []int{0}})
	}
	for i := 0; i < 84; i++ {
		c.Ballots = append(c.Ballots, model.Ballot{Prefs: []int{1}})
	}

	params := asnoracle.Params{RiskLimit: 0.05, TotalAuditableBallots: 100}
	_, err := plurality.Assertions(c, params, asnoracle.KaplanMarkov{})
	require.ErrorIs(t, err, search.ErrAuditInfeasible)
}
