// Package outcometree implements the branch-and-bound search's data model:
// OutcomeNode, the hypothesis a contiguous block of candidates forms an
// alternative viable set reached by a particular elimination suffix, and
// Frontier, the estimate-ordered worklist the search engine drains.
package outcometree

import (
	"sort"

	"github.com/rla-audit/irv-assertions/assertionkind"
)

// CandidateSet is a hypothesised alternative viable set, represented as a
// sorted slice so two sets can be compared by value with reflect-free
// equality and so iteration is always ascending by candidate index.
type CandidateSet []int

// NewCandidateSet returns members sorted ascending with duplicates removed.
func NewCandidateSet(members []int) CandidateSet {
	cp := append([]int(nil), members...)
	sort.Ints(cp)
	out := cp[:0]
	for i, v := range cp {
		if i == 0 || v != cp[i-1] {
			out = append(out, v)
		}
	}
	return CandidateSet(out)
}

// Equal reports whether two candidate sets contain the same members.
func (s CandidateSet) Equal(o CandidateSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Contains reports whether c is a member of s.
func (s CandidateSet) Contains(c int) bool {
	i := sort.SearchInts(s, c)
	return i < len(s) && s[i] == c
}

// Ancestor is the best-ancestor pointer embedded by value inside a Node: a
// snapshot of a cheaper ancestor's identity and refutation, never a
// back-reference, so its lifetime is tied to the owning node.
type Ancestor struct {
	Head     CandidateSet
	Tail     []int
	Estimate assertionkind.Assertion
	HasValue bool
}

// Node represents the set of hypothesised alternative outcomes sharing a
// head (alternative viable set) and a tail (suffix of the elimination order
// leading to it).
type Node struct {
	Head CandidateSet
	Tail []int

	BestAssertion assertionkind.Assertion
	BestAncestor  Ancestor

	// Expandable is false once head ∪ tail covers every candidate, or the
	// node has been proved refutable at or below the current lower bound
	// and demoted to the terminal pool.
	Expandable bool
}

// New constructs a node, sorting head for stable comparisons. tail is kept
// in caller-supplied order: tail[0] is the most recently hypothesised
// elimination.
func New(head []int, tail []int, nCandidates int) Node {
	h := NewCandidateSet(head)
	return Node{
		Head:       h,
		Tail:       append([]int(nil), tail...),
		Expandable: len(h)+len(tail) < nCandidates,
	}
}

// Unmentioned returns the candidates in [0, n) that are in neither head nor
// tail, ascending.
func (n Node) Unmentioned(nCandidates int) []int {
	out := make([]int, 0, nCandidates)
	inTail := make(map[int]struct{}, len(n.Tail))
	for _, t := range n.Tail {
		inTail[t] = struct{}{}
	}
	for c := 0; c < nCandidates; c++ {
		if n.Head.Contains(c) {
			continue
		}
		if _, ok := inTail[c]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Eliminated returns the candidates in [0, n) not in head, ascending. Used
// when tail is empty: every non-head candidate is being hypothesised
// eliminated.
func (n Node) Eliminated(nCandidates int) []int {
	out := make([]int, 0, nCandidates)
	for c := 0; c < nCandidates; c++ {
		if !n.Head.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// DescendantOf reports whether d is a strict descendant of a: same head,
// longer tail, and a's tail equals the last len(a.Tail) entries of d's
// tail.
func DescendantOf(d, a Node) bool {
	if !d.Head.Equal(a.Head) {
		return false
	}
	if len(d.Tail) <= len(a.Tail) {
		return false
	}
	diff := len(d.Tail) - len(a.Tail)
	for s := diff; s < len(d.Tail); s++ {
		if d.Tail[s] != a.Tail[s-diff] {
			return false
		}
	}
	return true
}

// betterAncestorCandidate reports whether candidate is a cheaper ancestor
// than current (⊥ treated as infinity, so any feasible candidate beats no
// ancestor at all).
func betterAncestorCandidate(current Ancestor, candidate Node) bool {
	if !candidate.BestAssertion.ASN.IsFeasible() {
		return false
	}
	if !current.HasValue {
		return true
	}
	return candidate.BestAssertion.ASN.Less(current.Estimate.ASN)
}

// PropagateAncestor computes the best_ancestor a child should inherit from
// its parent: the parent's own ancestor, unless the parent itself is a
// cheaper ancestor (finite estimate beating whatever the parent already
// carried).
func PropagateAncestor(parent Node) Ancestor {
	if betterAncestorCandidate(parent.BestAncestor, parent) {
		return Ancestor{
			Head:     parent.Head,
			Tail:     append([]int(nil), parent.Tail...),
			Estimate: parent.BestAssertion,
			HasValue: true,
		}
	}
	return parent.BestAncestor
}

// FromAncestor rebuilds a terminal Node from a best-ancestor snapshot. The
// rebuilt node is never expandable: it already carries a proven refutation
// and exists only to occupy the terminal pool.
func FromAncestor(a Ancestor) Node {
	return Node{
		Head:          a.Head,
		Tail:          append([]int(nil), a.Tail...),
		BestAssertion: a.Estimate,
		Expandable:    false,
	}
}
