// Package plurality implements the degenerate single-round special case of
// the assertion library: every winner needs just a VIABLE assertion against
// the empty elimination set, and every reported elimination needs just a
// NONVIABLE one, with no outcome-tree search at all. Grounded on
// form_audits_plurality in the original implementation.
package plurality

import (
	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/search"
)

// Assertions computes the plurality audit for c: one VIABLE assertion per
// reported winner and one NONVIABLE assertion per reported elimination,
// all against the empty elimination set. It returns search.ErrAuditInfeasible
// if any required assertion is infeasible, matching the original's
// all-or-nothing behaviour for the plurality variant.
func Assertions(c *model.Contest, oracleParams asnoracle.Params, oracle asnoracle.Oracle) ([]assertionkind.Assertion, error) {
	tallies, exhausted := model.ComputeTallies(c, nil)

	var out []assertionkind.Assertion

	for _, w := range c.Winners {
		est, margin := oracle.ViableASN(tallies, exhausted, w, c.ThresholdFr, oracleParams)
		if !est.IsFeasible() {
			return nil, search.ErrAuditInfeasible
		}
		out = append(out, assertionkind.Assertion{
			Kind: assertionkind.Viable, Winner: w, Loser: -1,
			ASN: est, Margin: margin, Threshold: c.ThresholdFr,
		})
	}

	for _, loser := range c.Eliminations {
		est, margin := oracle.NonviableASN(tallies, exhausted, loser, c.ThresholdFr, oracleParams)
		if !est.IsFeasible() {
			return nil, search.ErrAuditInfeasible
		}
		out = append(out, assertionkind.Assertion{
			Kind: assertionkind.Nonviable, Winner: loser, Loser: -1,
			ASN: est, Margin: margin, Threshold: c.ThresholdFr,
		})
	}

	return out, nil
}
