package search

import (
	"github.com/rla-audit/irv-assertions/assertionkind"
	"github.com/rla-audit/irv-assertions/assertionlib"
	"github.com/rla-audit/irv-assertions/outcometree"
)

// mainLoop drains the frontier per spec.md §4.5: pop the highest-estimate
// node, resolve it via ancestor-replacement or lower-bound dominance if
// possible, optionally dive to raise the lower bound, and otherwise expand
// it into children.
func (e *Engine) mainLoop() error {
	for e.frontier.Len() > 0 {
		if e.deadlineExceeded() {
			return ErrTimeLimit
		}
		if e.useNodes && e.nodesBuilt >= e.params.NodeLimit {
			return ErrNodeLimit
		}
		if e.gapSatisfied() {
			break
		}

		node, ok := e.frontier.PopFront()
		if !ok {
			break
		}
		if !node.Expandable {
			e.frontier.Insert(node)
			break
		}

		if e.resolveByDominance(&node) {
			continue
		}

		if e.params.Diving {
			raised, err := e.dive(node)
			if err != nil {
				return err
			}
			e.raiseLowerBound(raised)
			if e.resolveByDominance(&node) {
				continue
			}
		}

		if err := e.expand(node); err != nil {
			return err
		}
	}
	return nil
}

// gapSatisfied implements the allowed-gap early-termination check: stop once
// every queued node has a finite estimate and the richest one is within
// AllowedGap of the lower bound.
func (e *Engine) gapSatisfied() bool {
	if e.params.AllowedGap <= 0 {
		return false
	}
	maxEstimate := 0.0
	for _, n := range e.frontier.All() {
		v, ok := n.BestAssertion.ASN.Value()
		if !ok {
			return false
		}
		if v > maxEstimate {
			maxEstimate = v
		}
	}
	return maxEstimate-e.lowerBound <= e.params.AllowedGap
}

// resolveByDominance handles the two pop-time dominance checks shared by
// the main loop and the post-dive retry: replace-with-ancestor if the
// node's ancestor is already cheap enough, or demote the node to the
// terminal pool if its own estimate already clears the lower bound.
func (e *Engine) resolveByDominance(node *outcometree.Node) bool {
	if node.BestAncestor.HasValue && node.BestAncestor.Estimate.ASN.LessEqualBound(e.lowerBound) {
		e.frontier.ReplaceWithAncestor(*node)
		return true
	}
	if node.BestAssertion.ASN.LessEqualBound(e.lowerBound) {
		node.Expandable = false
		e.frontier.Insert(*node)
		return true
	}
	return false
}

// expand replaces node with up to n-|head|-|tail| children, one per
// candidate not yet in head or tail, each gaining that candidate at the
// front of its tail.
func (e *Engine) expand(node outcometree.Node) error {
	ancestor := outcometree.PropagateAncestor(node)

	for _, c := range node.Unmentioned(e.n) {
		childTail := make([]int, 0, len(node.Tail)+1)
		childTail = append(childTail, c)
		childTail = append(childTail, node.Tail...)

		child := outcometree.New(node.Head, childTail, e.n)
		child.BestAncestor = ancestor
		child.BestAssertion = assertionlib.FindBestAssertion(e.contest, child, e.initial, e.neb, e.oracle, e.oracleParams)
		e.nodesBuilt++

		if !child.Expandable {
			if err := e.resolveTerminal(child); err != nil {
				return err
			}
			continue
		}
		e.frontier.Insert(child)
	}
	return nil
}

// resolveTerminal handles a newly built terminal node (head ∪ tail covers
// every candidate): fail the contest if it has neither a finite estimate
// nor a finite ancestor, replace with the ancestor if that is at least as
// cheap, or insert it and raise the lower bound.
func (e *Engine) resolveTerminal(child outcometree.Node) error {
	if !child.BestAssertion.ASN.IsFeasible() && !child.BestAncestor.HasValue {
		return ErrAuditInfeasible
	}
	if child.BestAncestor.HasValue && ancestorAtLeastAsCheap(child.BestAncestor.Estimate, child.BestAssertion) {
		e.frontier.ReplaceWithAncestor(child)
		return nil
	}
	e.frontier.Insert(child)
	if v, ok := child.BestAssertion.ASN.Value(); ok {
		e.raiseLowerBound(v)
	}
	return nil
}

// ancestorAtLeastAsCheap reports whether ancestor's ASN is <= child's,
// treating an infeasible child (⊥, infinity) as always beaten by any
// feasible ancestor.
func ancestorAtLeastAsCheap(ancestor, child assertionkind.Assertion) bool {
	if !ancestor.ASN.IsFeasible() {
		return false
	}
	if !child.ASN.IsFeasible() {
		return true
	}
	return ancestor.ASN.LessEqualBound(child.ASN.MustValue())
}

// dive greedily extends node by repeatedly picking the smallest candidate
// index not already in head∪tail, building a single child path until a
// terminal node is reached, then returns the cheaper of that terminal's own
// estimate and its ancestor's, or ErrAuditInfeasible if neither is finite.
func (e *Engine) dive(node outcometree.Node) (float64, error) {
	cur := node
	for len(cur.Head)+len(cur.Tail) < e.n {
		next := -1
		for c := 0; c < e.n; c++ {
			if cur.Head.Contains(c) {
				continue
			}
			if containsInt(cur.Tail, c) {
				continue
			}
			next = c
			break
		}

		childTail := make([]int, 0, len(cur.Tail)+1)
		childTail = append(childTail, next)
		childTail = append(childTail, cur.Tail...)

		child := outcometree.New(cur.Head, childTail, e.n)
		child.BestAncestor = outcometree.PropagateAncestor(cur)
		child.BestAssertion = assertionlib.FindBestAssertion(e.contest, child, e.initial, e.neb, e.oracle, e.oracleParams)
		e.nodesBuilt++
		cur = child
	}

	if !cur.BestAssertion.ASN.IsFeasible() && !cur.BestAncestor.HasValue {
		return 0, ErrAuditInfeasible
	}

	best := cur.BestAssertion.ASN
	if cur.BestAncestor.HasValue && cur.BestAncestor.Estimate.ASN.Less(best) {
		best = cur.BestAncestor.Estimate.ASN
	}
	return best.MustValue(), nil
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
