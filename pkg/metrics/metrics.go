// Package metrics implements the two DVH-derived dose metrics this tool
// reports: the generalized equivalent uniform dose (gEUD) and the
// homogeneity index (HI).
//
// Both computations are pure functions of a cumulative DVH curve and scalar
// parameters. They hold no state, perform no I/O, and are safe to call
// concurrently across structures. Failure conditions such as a missing or
// too-short DVH or an undefined prescription surface as a NaN result rather
// than an error, so that batch evaluation over many structures always runs
// to completion.
package metrics

import (
	"math"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/dvh"
)

// Kind identifies a dose metric.
type Kind int

const (
	// GEUD is the generalized equivalent uniform dose, parameterized by the
	// tissue-specific exponent a.
	GEUD Kind = iota

	// HI is the homogeneity index, normalized by the prescribed dose.
	HI
)

// String returns the clinical abbreviation for the metric.
func (k Kind) String() string {
	switch k {
	case GEUD:
		return "gEUD"
	case HI:
		return "HI"
	}
	return "unknown"
}

// Request groups the inputs for one metric computation. Exponent applies to
// GEUD requests and PrescribedDose to HI requests; the field the metric does
// not use is ignored.
type Request struct {
	// Curve is the structure's cumulative DVH. Nil means the DVH was
	// unavailable from the clinical source.
	Curve *dvh.Curve

	// Kind selects the metric to compute.
	Kind Kind

	// Exponent is the tissue-specific gEUD exponent a.
	Exponent float64

	// PrescribedDose is the total prescribed dose in Gy normalizing HI.
	PrescribedDose float64
}

// Result is the outcome of one metric computation. Value is NaN when the
// metric could not be computed from the supplied inputs.
type Result struct {
	// Kind identifies which metric the value belongs to.
	Kind Kind

	// Value is the metric value: Gy for gEUD, percent for HI.
	Value float64
}

// Computable reports whether the metric was actually computed,
// distinguishing "computed but zero" from "could not compute".
func (r Result) Computable() bool {
	return !math.IsNaN(r.Value)
}

// Compute evaluates one metric request.
func Compute(req Request) Result {
	switch req.Kind {
	case GEUD:
		return Result{Kind: GEUD, Value: ComputeGEUD(req.Curve, req.Exponent)}
	case HI:
		return Result{Kind: HI, Value: ComputeHI(req.Curve, req.PrescribedDose)}
	}
	return Result{Kind: req.Kind, Value: math.NaN()}
}
