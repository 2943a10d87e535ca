package metrics

import (
	"math"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/dvh"
)

// ComputeGEUD computes the generalized equivalent uniform dose
//
//	gEUD = (sum_i v_i * D_i^a)^(1/a)
//
// over the differential volume bins of a cumulative DVH, where v_i is the
// fractional volume of bin i and D_i the absolute dose at its upper edge.
// Large positive exponents weight hot spots (serial organs, a around 20),
// a = 1 reduces to the volume-weighted mean dose, and negative exponents
// weight cold spots (target volumes, e.g. a = -0.1).
//
// The result is NaN when the curve is nil or has fewer than two samples,
// since no differential bin can be formed, and when a is zero. A zero exponent makes
// the final 1/a power undefined; it is a parameter-authoring mistake that
// callers reject at configuration time, and the guard here only keeps a
// misconfigured call from producing infinities.
//
// All arithmetic is float64: serial-organ exponents raise doses to powers
// whose intermediate magnitudes overflow narrower types, and the absolute
// error of D^a grows with its magnitude, which is why reference comparisons
// of gEUD values are made in relative rather than absolute terms.
func ComputeGEUD(curve *dvh.Curve, a float64) float64 {
	if curve.Len() < 2 {
		// DVH unavailable or degenerate: nothing to integrate.
		return math.NaN()
	}
	if a == 0 {
		return math.NaN()
	}

	// The first sample is the 100%-volume anchor; it bounds the first bin
	// but contributes none of its own. Each later sample closes a bin whose
	// fractional volume is the drop in cumulative volume since the previous
	// sample. The absolute difference keeps the sum well-formed even where
	// the curve plateaus.
	sum := 0.0
	for i := 1; i < curve.Len(); i++ {
		volDiff := math.Abs(curve.At(i).VolumePercent-curve.At(i-1).VolumePercent) / 100.0
		if volDiff == 0 {
			continue
		}
		sum += volDiff * math.Pow(curve.At(i).Dose, a)
	}

	return math.Pow(sum, 1.0/a)
}
