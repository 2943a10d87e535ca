package metrics

import (
	"math"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/dvh"
)

// ComputeHI computes the homogeneity index
//
//	HI = ((D2 - D98) / prescribed) * 100
//
// where D2 and D98 are the minimum doses received by the hottest 2% and 98%
// of the structure volume. Both are read directly off the cumulative curve
// with no interpolation: Dx is the dose of the first sample, in stored
// order, whose cumulative volume is at or below x percent.
//
// The metric is only meaningful for target volumes; selecting which
// structures it applies to is the caller's policy, and the engine computes
// the ratio for whatever curve and prescription it is given.
//
// The result is NaN when either dose level is absent from the curve (sparse
// sampling) or when the prescribed dose is zero, negative, or NaN
// (prescription undefined).
func ComputeHI(curve *dvh.Curve, prescribedDose float64) float64 {
	if math.IsNaN(prescribedDose) || prescribedDose <= 0 {
		return math.NaN()
	}

	d2, ok := doseAtOrBelowVolume(curve, 2)
	if !ok {
		return math.NaN()
	}
	d98, ok := doseAtOrBelowVolume(curve, 98)
	if !ok {
		return math.NaN()
	}

	return (d2 - d98) / prescribedDose * 100.0
}

// doseAtOrBelowVolume returns the dose of the first sample, in stored order,
// whose cumulative volume does not exceed the given percentage. The second
// return is false when the curve never reaches that volume level.
func doseAtOrBelowVolume(curve *dvh.Curve, volumePercent float64) (float64, bool) {
	for i := 0; i < curve.Len(); i++ {
		if s := curve.At(i); s.VolumePercent <= volumePercent {
			return s.Dose, true
		}
	}
	return 0, false
}
