package jsonreport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/coordinator"
	"github.com/rla-audit/irv-assertions/jsonreport"
	"github.com/rla-audit/irv-assertions/model"
)

func sampleContest() *model.Contest {
	return &model.Contest{
		ID: 7,
		Candidates: []model.Candidate{
			{ID: "alice", Index: 0},
			{ID: "bob", Index: 1},
		},
		Winners:     []int{0},
		ThresholdFr: 0.15,
	}
}

func TestBuild_SkipsFullRecountContests(t *testing.T) {
	summary := coordinator.Summary{
		Results: []coordinator.ContestResult{
			{Contest: sampleContest(), FullRecount: true},
		},
	}

	report := jsonreport.Build(summary, model.Parameters{RiskLimit: 0.05, TotalAuditableBallots: 100})

	require.Empty(t, report.Audits)
	require.Equal(t, -1.0, report.OverallExpectedPolls)
}

func TestBuild_RendersAssertionFields(t *testing.T) {
	contest := sampleContest()
	summary := coordinator.Summary{
		Results: []coordinator.ContestResult{
			{
				Contest: contest,
				Assertions: []assertionkind.Assertion{
					{Kind: assertionkind.Viable, Winner: 0, Loser: -1, Eliminated: []int{1}, ASN: asnoracle.Feasible(12), Margin: 0.4},
					{Kind: assertionkind.NEB, Winner: 0, Loser: 1, ASN: asnoracle.Feasible(30), Margin: 0.1},
				},
				MaxASN: 30,
			},
		},
	}

	report := jsonreport.Build(summary, model.Parameters{RiskLimit: 0.05, TotalAuditableBallots: 100})

	require.Len(t, report.Audits, 1)
	cRep := report.Audits[0]
	require.Equal(t, 7, cRep.Contest)
	require.Equal(t, 30.0, cRep.ExpectedPolls)
	require.Equal(t, 30.0, cRep.ExpectedPollsPct)
	require.Len(t, cRep.Assertions, 2)

	require.Equal(t, "alice", cRep.Assertions[0].Winner)
	require.Equal(t, "-1", cRep.Assertions[0].Loser)
	require.Equal(t, []string{"bob"}, cRep.Assertions[0].AlreadyEliminated)
	require.Equal(t, "VIABLE", cRep.Assertions[0].AssertionType)

	require.Equal(t, "bob", cRep.Assertions[1].Loser)
	require.Equal(t, "NEB", cRep.Assertions[1].AssertionType)

	require.Equal(t, 30.0, report.OverallExpectedPolls)
}

func TestWrite_ProducesValidIndentedJSON(t *testing.T) {
	report := jsonreport.Report{OverallExpectedPolls: 5, BallotsInAudit: 100}

	var buf bytes.Buffer
	require.NoError(t, jsonreport.Write(&buf, report))
	require.Contains(t, buf.String(), "\"Overall Expected Polls (#)\": 5")
}
