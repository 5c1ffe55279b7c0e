// Package model defines the data model shared by every other package in
// this module: candidates, contests, ballots, and the run-time Parameters
// that configure a search.
//
// The types here are intentionally thin structs rather than a behaviour-rich
// domain object: mutation is the caller's business (an external ballot/outcome
// reader populates a Contest once, up front), and every algorithm downstream
// treats a Contest as read-only for the duration of a search. There is no
// internal locking, by design: §5 of the specification this module implements
// requires a single-threaded, synchronous core, so the thread-safety machinery
// the teacher package built around Graph/Vertex/Edge (separate RWMutex per
// concern) would be pure ceremony here.
package model
