// Package asnoracle declares the AsnOracle contract (spec §4.1): pure,
// side-effect-free functions estimating expected sample sizes (ASN) and
// statistical margins for each assertion family, plus a reference
// implementation good enough to drive the search and its tests.
//
// The real risk-limit arithmetic (ALPHA, BRAVO, Kaplan-Markov, ...) is
// explicitly out of this module's scope — spec.md §1 models it as an
// external collaborator. What lives here is the *shape* of that contract
// (so assertionlib and search have something concrete to call) and one
// conservative, dependency-free implementation of it.
package asnoracle

import (
	"math"
	"strconv"
)

// Estimate is an optional ASN value with comparison-as-infinity, resolving
// spec.md §9's open question about the `asn == -1` sentinel: rather than
// overload -1 as both "infeasible" and "infinity" in comparisons, Estimate
// makes both states explicit and never lets a caller compare a raw float
// against -1 by accident.
type Estimate struct {
	asn      float64
	feasible bool
}

// Infeasible returns the ⊥ estimate: the hypothesis cannot be statistically
// established (the original's asn == -1).
func Infeasible() Estimate { return Estimate{} }

// Feasible wraps a non-negative ASN as a feasible estimate.
func Feasible(asn float64) Estimate {
	if asn < 0 || math.IsNaN(asn) {
		return Infeasible()
	}
	return Estimate{asn: asn, feasible: true}
}

// IsFeasible reports whether the estimate carries a usable ASN.
func (e Estimate) IsFeasible() bool { return e.feasible }

// Value returns (asn, true) if feasible, or (0, false) otherwise.
func (e Estimate) Value() (float64, bool) { return e.asn, e.feasible }

// MustValue returns the ASN, panicking if the estimate is infeasible. Callers
// must check IsFeasible first; this exists for call sites that already hold
// that invariant (e.g. after a feasibility-gated branch) to avoid a second
// silent zero-value footgun.
func (e Estimate) MustValue() float64 {
	if !e.feasible {
		panic("asnoracle: MustValue on an infeasible Estimate")
	}
	return e.asn
}

// Less reports whether e is a strictly cheaper refutation than other,
// treating an infeasible estimate as +Infinity on both sides. This is the
// tie-break rule of spec §4.3: strictly less ASN wins, ⊥ never wins against
// a finite value, and equal ASN keeps whichever was encountered first (so
// Less is strict, never used to replace on ties).
func (e Estimate) Less(other Estimate) bool {
	if !e.feasible {
		return false
	}
	if !other.feasible {
		return true
	}
	return e.asn < other.asn
}

// LessEqualBound reports whether e is feasible and its ASN is at most bound.
// An infeasible estimate never satisfies this, matching the original's
// `asn != -1 && asn <= lowerbound` guard.
func (e Estimate) LessEqualBound(bound float64) bool {
	return e.feasible && e.asn <= bound
}

// String renders the estimate for logging, "⊥" for infeasible.
func (e Estimate) String() string {
	if !e.feasible {
		return "⊥"
	}
	return strconv.FormatFloat(e.asn, 'g', -1, 64)
}
