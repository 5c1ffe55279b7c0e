// Package ballotio is the external collaborator spec.md §6 calls out as
// out of scope for the core: reading the reported-ballots and
// reported-outcomes files into model.Contest values. None of the search or
// assertion logic lives here; this package only builds the Contest the rest
// of the module consumes.
package ballotio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ReadBallots parses a reported-ballots CSV with columns
// contest_id,ballot_id,prefs (prefs is a ';'-separated ranking of candidate
// IDs, first-preference first; truncated ballots may omit trailing IDs).
// It returns one *ContestBuilder per distinct contest_id, in first-seen
// order, with candidates registered (dense indices assigned in first-seen
// order) and ballots recorded. It also returns the total count of distinct
// ballot_id values seen across all contests, matching the original
// implementation's tot_auditable_ballots accounting.
func ReadBallots(r io.Reader) ([]*ContestBuilder, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	builders := map[string]*ContestBuilder{}
	order := []string{}
	ballotIDs := map[string]struct{}{}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("ballotio: reading reported ballots: %w", err)
		}
		if len(rec) < 2 || rec[0] == "contest_id" {
			continue
		}
		contestID, ballotID := rec[0], rec[1]
		prefs := ""
		if len(rec) > 2 {
			prefs = rec[2]
		}

		b, ok := builders[contestID]
		if !ok {
			id, err := strconv.Atoi(contestID)
			if err != nil {
				return nil, 0, fmt.Errorf("ballotio: contest id %q: %w", contestID, err)
			}
			b = newContestBuilder(id)
			builders[contestID] = b
			order = append(order, contestID)
		}

		b.addBallot(splitPrefs(prefs))
		ballotIDs[ballotID] = struct{}{}
	}

	out := make([]*ContestBuilder, 0, len(order))
	for _, id := range order {
		out = append(out, builders[id])
	}
	return out, len(ballotIDs), nil
}

func splitPrefs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// Role distinguishes a reported-outcome row's meaning.
type Role int

const (
	Winner Role = iota
	Eliminated
)

// ApplyOutcomes parses a reported-outcomes CSV with columns
// contest_id,candidate_id,role,order (role is "WINNER" or "ELIMINATED";
// order is the 0-based elimination order, ignored for WINNER rows) and
// records each row against the matching ContestBuilder.
func ApplyOutcomes(r io.Reader, builders []*ContestBuilder) error {
	byID := map[int]*ContestBuilder{}
	for _, b := range builders {
		byID[b.id] = b
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ballotio: reading reported outcomes: %w", err)
		}
		if len(rec) < 3 || rec[0] == "contest_id" {
			continue
		}
		contestID, err := strconv.Atoi(rec[0])
		if err != nil {
			return fmt.Errorf("ballotio: contest id %q: %w", rec[0], err)
		}
		b, ok := byID[contestID]
		if !ok {
			return fmt.Errorf("ballotio: reported outcome for unknown contest %d", contestID)
		}

		candidateID := rec[1]
		switch rec[2] {
		case "WINNER":
			b.markWinner(candidateID)
		case "ELIMINATED":
			order := 0
			if len(rec) > 3 {
				order, _ = strconv.Atoi(rec[3])
			}
			b.markEliminated(candidateID, order)
		default:
			return fmt.Errorf("ballotio: unknown role %q for candidate %q", rec[2], candidateID)
		}
	}

	for _, b := range builders {
		sort.Sort(b.eliminationOrder)
	}
	return nil
}

// ApplyDelegates parses a reported-delegates CSV with columns
// contest_id,ndelegates (params.Level >= 1): one row per delegate "seat
// class" a contest is being audited against. A contest with no rows here
// simply has no QSMAJ/CDIFF assertions seeded. Multiple rows with the same
// contest_id add one class each, in file order.
func ApplyDelegates(r io.Reader, builders []*ContestBuilder) error {
	byID := map[int]*ContestBuilder{}
	for _, b := range builders {
		byID[b.id] = b
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ballotio: reading reported delegates: %w", err)
		}
		if len(rec) < 2 || rec[0] == "contest_id" {
			continue
		}
		contestID, err := strconv.Atoi(rec[0])
		if err != nil {
			return fmt.Errorf("ballotio: contest id %q: %w", rec[0], err)
		}
		b, ok := byID[contestID]
		if !ok {
			return fmt.Errorf("ballotio: reported delegates for unknown contest %d", contestID)
		}
		ndelegates, err := strconv.Atoi(rec[1])
		if err != nil {
			return fmt.Errorf("ballotio: ndelegates %q: %w", rec[1], err)
		}
		b.addDelegateClass(ndelegates)
	}
	return nil
}
