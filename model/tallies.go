package model

// ComputeTallies walks every ballot once and returns, for each candidate,
// the number of ballots whose highest continuing preference is that
// candidate once every index in eliminated has been removed, plus the
// count of ballots exhausted by that removal (every preference eliminated).
//
// Grounded on irvaudit.cpp's ComputeTallies: a single linear pass per call,
// O(ballots * average ballot length).
func ComputeTallies(c *Contest, eliminated []int) (tallies []int, exhausted int) {
	n := c.NCandidates()
	elim := make([]bool, n)
	for _, e := range eliminated {
		elim[e] = true
	}

	tallies = make([]int, n)
	for _, b := range c.Ballots {
		ex := true
		for _, pc := range b.Prefs {
			if elim[pc] {
				continue
			}
			tallies[pc]++
			ex = false
			break
		}
		if ex {
			exhausted++
		}
	}
	return tallies, exhausted
}

// ComputeNEBTally returns the number of ballots on which loser appears
// before winner in preference order (stopping the scan as soon as either
// candidate is seen). This is the "appears-before" count used by the NEB
// (Never-Eliminated-Before) assertion family: winner cannot be eliminated
// before loser so long as winner's first-preference tally exceeds this
// count.
//
// Grounded on irvaudit.cpp's ComputeNEBTally.
func ComputeNEBTally(c *Contest, loser, winner int) int {
	count := 0
	for _, b := range c.Ballots {
		for _, p := range b.Prefs {
			if p == loser {
				count++
				break
			}
			if p == winner {
				break
			}
		}
	}
	return count
}

// QualifiedVotes returns the number of ballots not exhausted once eliminated
// has been removed — the "qualified electorate" denominator used by QSMAJ
// and CDIFF thresholds.
func QualifiedVotes(c *Contest, eliminated []int) int {
	_, exhausted := ComputeTallies(c, eliminated)
	return len(c.Ballots) - exhausted
}
