package outcometree

import "container/list"

// Frontier is the search engine's worklist: a doubly-linked list ordered by
// decreasing estimate, infeasible (⊥, infinity) entries first, terminal
// (non-expandable) entries always last regardless of estimate. An O(n)
// linear-scan insert is adequate at the frontier sizes this search produces
// (spec design note: a sorted balanced structure would be a valid
// optimisation but is not required).
type Frontier struct {
	l *list.List
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{l: list.New()}
}

// Len returns the number of nodes currently queued.
func (f *Frontier) Len() int { return f.l.Len() }

// Insert places node in estimate order: terminal nodes go to the back,
// infeasible-estimate nodes to the front, and finite-estimate nodes just
// before the first entry whose estimate is no greater than node's.
func (f *Frontier) Insert(node Node) {
	if !node.Expandable {
		f.l.PushBack(node)
		return
	}
	if !node.BestAssertion.ASN.IsFeasible() {
		f.l.PushFront(node)
		return
	}
	for e := f.l.Front(); e != nil; e = e.Next() {
		existing := e.Value.(Node)
		if !existing.Expandable {
			f.l.InsertBefore(node, e)
			return
		}
		if existing.BestAssertion.ASN.IsFeasible() &&
			existing.BestAssertion.ASN.LessEqualBound(node.BestAssertion.ASN.MustValue()) {
			f.l.InsertBefore(node, e)
			return
		}
	}
	f.l.PushBack(node)
}

// PopFront removes and returns the head of the frontier. ok is false if the
// frontier is empty.
func (f *Frontier) PopFront() (Node, bool) {
	e := f.l.Front()
	if e == nil {
		return Node{}, false
	}
	f.l.Remove(e)
	return e.Value.(Node), true
}

// PushFront places node exactly at the head, regardless of its estimate or
// expandability. The search engine does not call it: a demoted node is
// re-queued through Insert, which sends it to the terminal pool.
func (f *Frontier) PushFront(node Node) {
	f.l.PushFront(node)
}

// RemoveDescendantsOf deletes every still-expandable frontier entry that is
// a descendant of ancestor, stopping the scan at the first non-expandable
// entry (terminal nodes are never descendants worth removing, and they sit
// contiguously at the tail).
func (f *Frontier) RemoveDescendantsOf(ancestor Node) (removed int) {
	e := f.l.Front()
	for e != nil {
		node := e.Value.(Node)
		if !node.Expandable {
			break
		}
		next := e.Next()
		if DescendantOf(node, ancestor) {
			f.l.Remove(e)
			removed++
		}
		e = next
	}
	return removed
}

// ReplaceWithAncestor converts node's best ancestor back into a full
// (terminal) node, purges every expandable descendant of it from the
// frontier, then inserts the rebuilt ancestor node.
func (f *Frontier) ReplaceWithAncestor(node Node) (removed int) {
	ancestorNode := FromAncestor(node.BestAncestor)
	removed = f.RemoveDescendantsOf(ancestorNode)
	f.Insert(ancestorNode)
	return removed
}

// All returns every node currently queued, front to back. Used at clean
// termination to collect each surviving node's best assertion.
func (f *Frontier) All() []Node {
	out := make([]Node, 0, f.l.Len())
	for e := f.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Node))
	}
	return out
}
