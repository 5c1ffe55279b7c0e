package ballotio

import (
	"github.com/rla-audit/irv-assertions/model"
)

// ContestBuilder accumulates a single contest's candidates, ballots, and
// reported outcome while the CSV collaborators are read, then yields a
// model.Contest ready for model.Contest.Validate.
type ContestBuilder struct {
	id               int
	thresholdFr      float64
	index            map[string]int
	candidates       []model.Candidate
	ballots          []model.Ballot
	winners          []string
	eliminationOrder eliminationList
	delegates        []int
}

type eliminationEntry struct {
	candidateID string
	order       int
}

type eliminationList []eliminationEntry

func (l eliminationList) Len() int           { return len(l) }
func (l eliminationList) Less(i, j int) bool { return l[i].order < l[j].order }
func (l eliminationList) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }

func newContestBuilder(id int) *ContestBuilder {
	return &ContestBuilder{id: id, index: map[string]int{}, thresholdFr: 0.15}
}

// SetThresholdFr overrides the default 0.15 viability threshold (the
// CLI's threshold_pc flag).
func (b *ContestBuilder) SetThresholdFr(f float64) { b.thresholdFr = f }

// addDelegateClass records one more delegate "seat class" (params.Level >=
// 1) to be apportioned across the reported winners via largest-remainder
// allocation when the search engine seeds QSMAJ/CDIFF assertions.
func (b *ContestBuilder) addDelegateClass(ndelegates int) {
	b.delegates = append(b.delegates, ndelegates)
}

func (b *ContestBuilder) candidateIndex(id string) int {
	if idx, ok := b.index[id]; ok {
		return idx
	}
	idx := len(b.candidates)
	b.index[id] = idx
	b.candidates = append(b.candidates, model.Candidate{ID: id, Index: idx})
	return idx
}

func (b *ContestBuilder) addBallot(prefIDs []string) {
	prefs := make([]int, 0, len(prefIDs))
	for _, id := range prefIDs {
		prefs = append(prefs, b.candidateIndex(id))
	}
	b.ballots = append(b.ballots, model.Ballot{Prefs: prefs})
	for i, c := range b.candidates {
		if len(prefs) > 0 && prefs[0] == c.Index {
			b.candidates[i].TotalVotes++
		}
	}
}

func (b *ContestBuilder) markWinner(candidateID string) {
	b.candidateIndex(candidateID)
	b.winners = append(b.winners, candidateID)
}

func (b *ContestBuilder) markEliminated(candidateID string, order int) {
	b.candidateIndex(candidateID)
	b.eliminationOrder = append(b.eliminationOrder, eliminationEntry{candidateID: candidateID, order: order})
}

// Build assembles the final model.Contest. Candidates referenced only by
// ballots (never as a reported winner or elimination) remain in Candidates
// but outside both Winners and Eliminations, matching a candidate who
// withdrew before counting.
func (b *ContestBuilder) Build() *model.Contest {
	winners := make([]int, 0, len(b.winners))
	for _, id := range b.winners {
		winners = append(winners, b.index[id])
	}
	eliminations := make([]int, 0, len(b.eliminationOrder))
	for _, e := range b.eliminationOrder {
		eliminations = append(eliminations, b.index[e.candidateID])
	}

	return &model.Contest{
		ID:           b.id,
		Candidates:   b.candidates,
		Winners:      winners,
		Eliminations: eliminations,
		Ballots:      b.ballots,
		ThresholdFr:  b.thresholdFr,
		Delegates:    b.delegates,
	}
}
