package coordinator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/coordinator"
	"github.com/rla-audit/irv-assertions/model"
)

func landslideContest(id int) *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 100; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0, 1, 2}})
	}
	return &model.Contest{
		ID: id,
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

func thinMarginContest(id int) *model.Contest {
	ballots := make([]model.Ballot, 0, 100)
	for i := 0; i < 16; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{0, 1}})
	}
	for i := 0; i < 84; i++ {
		ballots = append(ballots, model.Ballot{Prefs: []int{1, 0}})
	}
	return &model.Contest{
		ID: id,
		Candidates: []model.Candidate{
			{ID: "A", Index: 0, TotalVotes: 16},
			{ID: "B", Index: 1, TotalVotes: 84},
		},
		Winners:     []int{0},
		ThresholdFr: 0.15,
		Ballots:     ballots,
	}
}

func baseParams() model.Parameters {
	return model.Parameters{RiskLimit: 0.05, TotalAuditableBallots: 100}
}

func TestRun_MixOfSuccessAndFullRecount(t *testing.T) {
	contests := []*model.Contest{landslideContest(1), thinMarginContest(2)}

	summary := coordinator.Run(contests, baseParams(), asnoracle.KaplanMarkov{}, nil)

	require.Equal(t, []int{1}, summary.Successes)
	require.Equal(t, []int{2}, summary.FullRecounts)
	require.True(t, summary.HasSuccess)
	require.Greater(t, summary.OverallMaxASN, 0.0)
	require.Len(t, summary.Results, 2)
	require.Equal(t, 1, summary.Results[0].Contest.ID)
	require.Equal(t, 2, summary.Results[1].Contest.ID)
}

func TestRun_ParallelMatchesSequentialOrdering(t *testing.T) {
	contests := []*model.Contest{landslideContest(1), landslideContest(2), landslideContest(3)}
	params := baseParams()
	params.Parallel = 3

	summary := coordinator.Run(contests, params, asnoracle.KaplanMarkov{}, nil)

	require.Len(t, summary.Results, 3)
	for i, cr := range summary.Results {
		require.Equal(t, i+1, cr.Contest.ID)
		require.False(t, cr.FullRecount)
	}
}

func TestRun_AllFullRecountsLeavesOverallMaxASNNegative(t *testing.T) {
	contests := []*model.Contest{thinMarginContest(1)}

	summary := coordinator.Run(contests, baseParams(), asnoracle.KaplanMarkov{}, nil)

	require.False(t, summary.HasSuccess)
	require.Equal(t, -1.0, summary.OverallMaxASN)
}

func TestRunAll_CancelledContextSkipsRemainingContests(t *testing.T) {
	contests := []*model.Contest{landslideContest(1), landslideContest(2)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := coordinator.RunAll(ctx, contests, baseParams(), asnoracle.KaplanMarkov{}, nil)

	require.Len(t, summary.Results, 2)
	require.False(t, summary.HasSuccess)
	for _, cr := range summary.Results {
		require.True(t, cr.FullRecount)
		require.ErrorIs(t, cr.Err, context.Canceled)
	}
}

func TestRunAll_LiveContextBehavesLikeRun(t *testing.T) {
	contests := []*model.Contest{landslideContest(1), thinMarginContest(2)}

	summary := coordinator.RunAll(context.Background(), contests, baseParams(), asnoracle.KaplanMarkov{}, nil)

	require.Equal(t, []int{1}, summary.Successes)
	require.Equal(t, []int{2}, summary.FullRecounts)
}
