package search

import "errors"

// ErrTimeLimit indicates Parameters.TimeLimit was exceeded before the
// search reached a clean termination.
var ErrTimeLimit = errors.New("search: time limit exceeded")

// ErrNodeLimit indicates Parameters.NodeLimit was exceeded.
var ErrNodeLimit = errors.New("search: node limit exceeded")

// ErrAuditInfeasible indicates a required refutation could not be found:
// either a reported winner has no feasible initial-viable assertion in
// either form, or a terminal frontier node has no finite best assertion and
// no finite ancestor. Per spec.md §7 this is a per-contest failure: the
// caller discards the partial assertion set and marks the contest for full
// recount.
var ErrAuditInfeasible = errors.New("search: audit infeasible, full recount required")
