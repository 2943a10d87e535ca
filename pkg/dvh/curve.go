// Package dvh defines the cumulative dose-volume-histogram curve model shared
// by the metric engine and the orchestration layer. A curve is a value object:
// it is validated and copied on construction and never mutated afterwards.
package dvh

import (
	"errors"
	"fmt"
	"math"
)

// Curve construction errors.
var (
	// ErrUnsorted reports a sample sequence whose cumulative volume increases
	// between consecutive samples. Cumulative DVHs are sorted by
	// non-increasing volume: the full structure volume receives at least zero
	// dose, and the receiving fraction shrinks as dose rises.
	ErrUnsorted = errors.New("samples not sorted by non-increasing cumulative volume")

	// ErrSampleValue reports a sample outside the valid domain: cumulative
	// volume must be a finite value in [0, 100] and dose a finite
	// non-negative value.
	ErrSampleValue = errors.New("sample outside valid domain")
)

// Sample is a single point on a cumulative DVH: the fraction of structure
// volume receiving at least the given absolute dose.
type Sample struct {
	// VolumePercent is the cumulative volume in percent, in [0, 100].
	VolumePercent float64

	// Dose is the absolute dose in Gy.
	Dose float64
}

// Curve is an immutable cumulative DVH. Samples are ordered by non-increasing
// cumulative volume: the first sample is the 100%-volume anchor at (or near)
// zero dose, and volume falls as dose rises.
//
// A curve with fewer than two samples is constructible but carries no volume
// differential; metric computations on it report "not computable" rather
// than failing.
type Curve struct {
	samples []Sample
}

// NewCurve builds a curve from cumulative DVH samples. The input is copied,
// so later changes to the caller's slice do not affect the curve.
//
// Construction fails fast on malformed input (non-finite values, volumes
// outside [0, 100], negative doses, a volume sequence that increases)
// instead of letting a metric silently compute a wrong answer downstream.
// Too few samples is not a construction error.
func NewCurve(samples []Sample) (*Curve, error) {
	for i, s := range samples {
		if !validSample(s) {
			return nil, fmt.Errorf("sample %d (%.6g%%, %.6g Gy): %w", i, s.VolumePercent, s.Dose, ErrSampleValue)
		}
		if i > 0 && s.VolumePercent > samples[i-1].VolumePercent {
			return nil, fmt.Errorf("sample %d (%.6g%% after %.6g%%): %w", i, s.VolumePercent, samples[i-1].VolumePercent, ErrUnsorted)
		}
	}

	c := &Curve{samples: make([]Sample, len(samples))}
	copy(c.samples, samples)
	return c, nil
}

// validSample checks a single sample against the curve domain.
func validSample(s Sample) bool {
	if math.IsNaN(s.VolumePercent) || math.IsInf(s.VolumePercent, 0) {
		return false
	}
	if math.IsNaN(s.Dose) || math.IsInf(s.Dose, 0) {
		return false
	}
	return s.VolumePercent >= 0 && s.VolumePercent <= 100 && s.Dose >= 0
}

// Len returns the number of samples on the curve. A nil curve has no samples.
func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.samples)
}

// At returns the i-th sample in stored order.
func (c *Curve) At(i int) Sample {
	return c.samples[i]
}

// Samples returns a copy of the curve's samples in stored order. Mutating
// the returned slice does not affect the curve.
func (c *Curve) Samples() []Sample {
	if c == nil {
		return nil
	}
	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}
