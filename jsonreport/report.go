// Package jsonreport renders a coordinator.Summary into the JSON sink format
// described by SPEC_FULL.md §6.1, mirroring the original implementation's
// JSON output by reusing the same standard-library encoding/json the rest of the pack
// reaches for directly (see DESIGN.md for why no third-party codec is wired
// in here).
package jsonreport

import (
	"encoding/json"
	"io"

	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/coordinator"
	"github.com/rla-audit/irv-assertions/model"
)

// AssertionReport is one assertion entry in a ContestReport.
type AssertionReport struct {
	Winner            string   `json:"winner"`
	Loser             string   `json:"loser,omitempty"`
	AlreadyEliminated []string `json:"already_eliminated"`
	AssertionType     string   `json:"assertion_type"`
	ASN               float64  `json:"asn"`
	Margin            float64  `json:"margin"`
}

// ContestReport is a single contest's serialized audit, omitted entirely
// from Report.Audits when the contest required a full recount.
type ContestReport struct {
	Contest          int               `json:"contest"`
	ExpectedPolls    float64           `json:"Expected Polls (#)"`
	ExpectedPollsPct float64           `json:"Expected Polls (%)"`
	Assertions       []AssertionReport `json:"assertions"`
}

// ReportParameters carries the subset of model.Parameters that identifies
// the risk model under which a report was generated.
type ReportParameters struct {
	RiskLimit float64 `json:"risk_limit"`
}

// Report is the top-level JSON document, matching the original
// implementation's OutputToJSON shape: an overall max-ASN headline, the risk parameters, and
// one ContestReport per contest that produced a usable audit.
type Report struct {
	OverallExpectedPolls float64          `json:"Overall Expected Polls (#)"`
	BallotsInAudit       int              `json:"Ballots involved in audit (#)"`
	Parameters           ReportParameters `json:"parameters"`
	Audits               []ContestReport  `json:"audits"`
}

// assertionTypeName maps an assertionkind.Kind to the original
// implementation's JSON label.
func assertionTypeName(k assertionkind.Kind) string {
	switch k {
	case assertionkind.Viable:
		return "VIABLE"
	case assertionkind.Nonviable:
		return "NONVIABLE"
	case assertionkind.IRV:
		return "IRV_ELIMINATION"
	case assertionkind.NEB:
		return "NEB"
	case assertionkind.QSMAJ:
		return "QSMAJ"
	case assertionkind.CDiff:
		return "CDIFF"
	default:
		return k.String()
	}
}

func candidateID(c *model.Contest, idx int) string {
	if idx < 0 || idx >= len(c.Candidates) {
		return "-1"
	}
	return c.Candidates[idx].ID
}

// Build renders summary into a Report. params supplies the risk limit and
// total-auditable-ballots headline fields; contests with no usable audit
// (full recounts, or contests the coordinator never reached) are skipped
// per the original implementation's "aconfig.empty() -> continue" rule.
func Build(summary coordinator.Summary, params model.Parameters) Report {
	report := Report{
		Parameters:     ReportParameters{RiskLimit: params.RiskLimit},
		BallotsInAudit: params.TotalAuditableBallots,
	}

	overall := -1.0
	for _, cr := range summary.Results {
		if cr.FullRecount || len(cr.Assertions) == 0 {
			continue
		}

		cRep := ContestReport{Contest: cr.Contest.ID}
		maxASN := 0.0
		for _, a := range cr.Assertions {
			eliminated := make([]string, 0, len(a.Eliminated))
			for _, e := range a.Eliminated {
				eliminated = append(eliminated, candidateID(cr.Contest, e))
			}
			loser := "-1"
			if a.Loser != -1 {
				loser = candidateID(cr.Contest, a.Loser)
			}
			asn, _ := a.ASN.Value()
			cRep.Assertions = append(cRep.Assertions, AssertionReport{
				Winner:            candidateID(cr.Contest, a.Winner),
				Loser:             loser,
				AlreadyEliminated: eliminated,
				AssertionType:     assertionTypeName(a.Kind),
				ASN:               asn,
				Margin:            a.Margin,
			})
			if asn > maxASN {
				maxASN = asn
			}
		}

		cRep.ExpectedPolls = maxASN
		if params.TotalAuditableBallots > 0 {
			cRep.ExpectedPollsPct = 100 * maxASN / float64(params.TotalAuditableBallots)
		}

		if maxASN > overall {
			overall = maxASN
		}
		report.Audits = append(report.Audits, cRep)
	}

	report.OverallExpectedPolls = overall
	return report
}

// Write marshals report as indented JSON to w.
func Write(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
