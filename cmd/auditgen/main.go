// Command auditgen is the CLI entrypoint: it reads the reported ballots and
// reported outcomes, builds one model.Contest per contest id, runs the
// search engine via coordinator.Run, and optionally writes a JSON report.
// This re-expresses irvaudit.cpp's main() argv parsing with cobra instead of
// hand-rolled flag scanning.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/ballotio"
	"github.com/rla-audit/irv-assertions/coordinator"
	"github.com/rla-audit/irv-assertions/jsonreport"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/plurality"
)

type options struct {
	repBallots   string
	repOutcome   string
	repDelegates string
	thresholdPc  float64
	errorRate    float64
	riskLimit    float64
	reps         int
	level        int
	allowedGap   float64
	plurality    bool
	alglog       bool
	jsonOut      string
	contests     []int
	diving       bool
	parallel     int
}

func main() {
	opts := &options{}
	root := rootCmd(opts)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auditgen",
		Short: "Generate risk-limiting audit assertions for reported election outcomes",
		Long: `auditgen reads a reported ballots file and a reported outcomes file,
computes the minimal set of statistical assertions that together certify every
reported contest winner, and reports either the audit required or that a full
recount is needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.repBallots, "rep_ballots", "", "path to the reported-ballots CSV (required)")
	flags.StringVar(&opts.repOutcome, "rep_outcome", "", "path to the reported-outcomes CSV (required)")
	flags.StringVar(&opts.repDelegates, "rep_delegates", "", "path to optional reported-delegates CSV (seat classes for QSMAJ/CDIFF at level>=1)")
	flags.Float64Var(&opts.thresholdPc, "threshold_pc", 0.15, "viability threshold as a fraction of ballots")
	flags.Float64Var(&opts.errorRate, "error_rate", 0.0, "assumed per-ballot error rate")
	flags.Float64Var(&opts.riskLimit, "r", 0.05, "risk limit")
	flags.IntVar(&opts.reps, "reps", 100, "repetitions for estimate_sample_size_with_error")
	flags.IntVar(&opts.level, "level", 0, "assertion level: 0=viability, 1=+QSMAJ, 2=+CDIFF")
	flags.Float64Var(&opts.allowedGap, "agap", 0, "allowed gap as a fraction of ballots")
	flags.BoolVar(&opts.plurality, "plurality", false, "use the plurality variant instead of IRV")
	flags.BoolVar(&opts.alglog, "alglog", false, "enable verbose structured search logging")
	flags.StringVar(&opts.jsonOut, "json", "", "path to write the JSON report")
	flags.IntSliceVar(&opts.contests, "contests", nil, "restrict to these contest ids (default: all)")
	flags.BoolVar(&opts.diving, "dive", true, "enable the dive-and-bound lower-bound booster")
	flags.IntVar(&opts.parallel, "parallel", 1, "number of contests to audit concurrently")

	cmd.MarkFlagRequired("rep_ballots")
	cmd.MarkFlagRequired("rep_outcome")

	return cmd
}

func run(opts *options) error {
	logger := zap.NewNop()
	if opts.alglog {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("auditgen: building logger: %w", err)
		}
		logger = l
	}
	defer logger.Sync()

	ballotsFile, err := os.Open(opts.repBallots)
	if err != nil {
		return fmt.Errorf("auditgen: opening reported ballots: %w", err)
	}
	defer ballotsFile.Close()

	builders, totalBallots, err := ballotio.ReadBallots(ballotsFile)
	if err != nil {
		return err
	}

	outcomeFile, err := os.Open(opts.repOutcome)
	if err != nil {
		return fmt.Errorf("auditgen: opening reported outcomes: %w", err)
	}
	defer outcomeFile.Close()

	for _, b := range builders {
		b.SetThresholdFr(opts.thresholdPc)
	}
	if err := ballotio.ApplyOutcomes(outcomeFile, builders); err != nil {
		return err
	}

	if opts.repDelegates != "" {
		delegatesFile, err := os.Open(opts.repDelegates)
		if err != nil {
			return fmt.Errorf("auditgen: opening reported delegates: %w", err)
		}
		defer delegatesFile.Close()
		if err := ballotio.ApplyDelegates(delegatesFile, builders); err != nil {
			return err
		}
	}

	contests := make([]*model.Contest, 0, len(builders))
	for _, b := range builders {
		c := b.Build()
		if !includeContest(opts.contests, c.ID) {
			continue
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("auditgen: contest %d: %w", c.ID, err)
		}
		contests = append(contests, c)
	}

	params := model.Parameters{
		RiskLimit:             opts.riskLimit,
		ErrorRate:             opts.errorRate,
		Reps:                  opts.reps,
		Level:                 opts.level,
		AllowedGap:            opts.allowedGap * float64(totalBallots),
		Diving:                opts.diving,
		AlgLog:                opts.alglog,
		TotalAuditableBallots: totalBallots,
		Parallel:              opts.parallel,
	}

	if opts.plurality {
		return runPlurality(contests, params, logger, opts)
	}

	summary := coordinator.Run(contests, params, asnoracle.KaplanMarkov{}, logger)
	printSummary(summary)

	if opts.jsonOut != "" {
		if err := writeReport(summary, params, opts.jsonOut); err != nil {
			return err
		}
	}
	return nil
}

// runPlurality runs the degenerate single-round variant (spec.md §6's
// -plurality switch), which never touches the outcome-tree search: each
// contest is audited independently and only its own assertions or failure
// matters, mirroring form_audits_plurality's direct per-contest loop.
func runPlurality(contests []*model.Contest, params model.Parameters, logger *zap.Logger, opts *options) error {
	oracleParams := asnoracle.Params{
		RiskLimit:             params.RiskLimit,
		ErrorRate:             params.ErrorRate,
		Reps:                  params.Reps,
		TotalAuditableBallots: params.TotalAuditableBallots,
	}
	oracle := asnoracle.KaplanMarkov{}

	summary := coordinator.Summary{OverallMaxASN: -1}
	for _, c := range contests {
		assertions, err := plurality.Assertions(c, oracleParams, oracle)
		cr := coordinator.ContestResult{Contest: c, Err: err}
		if err != nil {
			cr.FullRecount = true
			summary.FullRecounts = append(summary.FullRecounts, c.ID)
			if logger != nil {
				logger.Info("plurality audit not possible", zap.Int("contest", c.ID), zap.Error(err))
			}
			summary.Results = append(summary.Results, cr)
			continue
		}

		maxASN := 0.0
		for _, a := range assertions {
			if v, ok := a.ASN.Value(); ok && v > maxASN {
				maxASN = v
			}
		}
		cr.Assertions = assertions
		cr.MaxASN = maxASN
		summary.Successes = append(summary.Successes, c.ID)
		summary.Results = append(summary.Results, cr)
		if maxASN > summary.OverallMaxASN {
			summary.OverallMaxASN = maxASN
		}
	}

	printSummary(summary)

	if opts.jsonOut != "" {
		if err := writeReport(summary, params, opts.jsonOut); err != nil {
			return err
		}
	}
	return nil
}

func includeContest(ids []int, id int) bool {
	if len(ids) == 0 {
		return true
	}
	for _, want := range ids {
		if want == id {
			return true
		}
	}
	return false
}

func printSummary(summary coordinator.Summary) {
	fmt.Println("============================================")
	fmt.Println("SUMMARY")
	if len(summary.Successes) > 0 {
		fmt.Print("Audit found for contests: ")
		for _, id := range summary.Successes {
			fmt.Print(strconv.Itoa(id), " ")
		}
		fmt.Println()
	}
	if len(summary.FullRecounts) > 0 {
		fmt.Print("Full recounts required for contests: ")
		for _, id := range summary.FullRecounts {
			fmt.Print(strconv.Itoa(id), " ")
		}
		fmt.Println()
	}
	fmt.Println("============================================")
}

func writeReport(summary coordinator.Summary, params model.Parameters, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("auditgen: creating json report: %w", err)
	}
	defer f.Close()

	report := jsonreport.Build(summary, params)
	return jsonreport.Write(f, report)
}
