// Package search implements the branch-and-bound SearchEngine: it expands
// the outcome-tree node with the highest refutation estimate, applies ancestor-replacement
// and dive-and-bound pruning, and returns the minimal assertion set needed
// to rule out every alternative election outcome.
//
// # Algorithms & Complexity
//
// The engine is a dedicated struct (not a closure tree) so its dependencies
// and hot-path state stay explicit and testable, mirroring the teacher's
// branch-and-bound engine layout. Work is exponential in the candidate
// count in the worst case; the lower bound and ancestor-replacement pruning
// are what keep real contests tractable.
//
// # Determinism & Stability
//
// Candidates are iterated in ascending index order everywhere a tie can
// occur (initial subset enumeration, child expansion, dive's next-pick),
// so two runs over the same contest and parameters produce byte-identical
// assertion sets.
package search

import (
	"time"

	"go.uber.org/zap"

	"github.com/rla-audit/irv-assertions/asnoracle"
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/assertionlib"
	"github.com/rla-audit/irv-assertions/model"
	"github.com/rla-audit/irv-assertions/nebmatrix"
	"github.com/rla-audit/irv-assertions/outcometree"
	"github.com/rla-audit/irv-assertions/subsumer"
)

// Result is the outcome of a single contest's search.
type Result struct {
	Assertions  []assertionkind.Assertion
	MaxASN      float64
	FullRecount bool
	NodesBuilt  int
}

// Engine holds all search data and policy for a single contest run. Engines
// are not reused across contests.
type Engine struct {
	contest      *model.Contest
	params       model.Parameters
	oracleParams asnoracle.Params
	oracle       asnoracle.Oracle
	neb          *nebmatrix.Matrix
	initial      assertionlib.InitialViables
	logger       *zap.Logger

	n       int
	maxSize int

	frontier   *outcometree.Frontier
	lowerBound float64
	audits     []assertionkind.Assertion

	useDeadline bool
	deadline    time.Time
	useNodes    bool
	nodesBuilt  int
	steps       int
}

// New prepares an Engine for c. oracle supplies every ASN estimate; logger
// may be nil (AlgLog-gated tracing is simply skipped).
func New(c *model.Contest, params model.Parameters, oracle asnoracle.Oracle, logger *zap.Logger) *Engine {
	e := &Engine{
		contest: c,
		params:  params,
		oracle:  oracle,
		logger:  logger,
		n:       c.NCandidates(),
		frontier: outcometree.NewFrontier(),
	}
	e.oracleParams = asnoracle.Params{
		RiskLimit:             params.RiskLimit,
		ErrorRate:             params.ErrorRate,
		Reps:                  params.Reps,
		TotalAuditableBallots: params.TotalAuditableBallots,
	}
	e.maxSize = e.n
	if c.ThresholdFr > 0 {
		if cap := int(1.0 / c.ThresholdFr); cap < e.maxSize {
			e.maxSize = cap
		}
	}
	if params.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(time.Duration(params.TimeLimit))
	}
	e.useNodes = params.NodeLimit > 0
	return e
}

func (e *Engine) deadlineExceeded() bool {
	e.steps++
	if e.steps&255 != 0 {
		return false
	}
	return e.useDeadline && time.Now().After(e.deadline)
}

func (e *Engine) debugf(msg string, fields ...zap.Field) {
	if e.params.AlgLog && e.logger != nil {
		e.logger.Debug(msg, fields...)
	}
}

// Run executes the full pipeline: initial-viable seeding, NEB matrix
// construction, initial frontier enumeration, and the main expansion loop.
func (e *Engine) Run() (Result, error) {
	if err := e.seedInitialViables(); err != nil {
		return Result{}, err
	}

	e.neb = nebmatrix.Build(e.contest, e.oracleParams, e.oracle)

	e.buildInitialFrontier()

	if err := e.mainLoop(); err != nil {
		return Result{}, err
	}

	// Collect every surviving frontier node's best assertion, deduplicated.
	for _, node := range e.frontier.All() {
		e.addAudit(node.BestAssertion)
	}

	final := subsumer.Apply(e.audits)
	maxASN := subsumer.MaxASN(final)
	fullRecount := e.params.TotalAuditableBallots > 0 && maxASN >= float64(e.params.TotalAuditableBallots)

	return Result{
		Assertions:  final,
		MaxASN:      maxASN,
		FullRecount: fullRecount,
		NodesBuilt:  e.nodesBuilt,
	}, nil
}

// addAudit appends a to the output set unless an identical assertion is
// already present.
func (e *Engine) addAudit(a assertionkind.Assertion) {
	if !a.ASN.IsFeasible() {
		return
	}
	for _, existing := range e.audits {
		if assertionkind.Equal(existing, a) {
			return
		}
	}
	e.audits = append(e.audits, a)
}

func (e *Engine) raiseLowerBound(v float64) {
	if v > e.lowerBound {
		e.lowerBound = v
	}
}
