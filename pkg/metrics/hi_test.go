package metrics

import (
	"math"
	"testing"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/dvh"
)

// TestComputeHIWorkedExample checks the reference case: D2 = 55, D98 = 45,
// prescription 50 Gy gives ((55-45)/50)*100 = 20.
func TestComputeHIWorkedExample(t *testing.T) {
	curve := mustCurve(t,
		[2]float64{100, 0},
		[2]float64{98, 45},
		[2]float64{50, 50},
		[2]float64{2, 55},
		[2]float64{0, 56},
	)

	got := ComputeHI(curve, 50)
	if math.Abs(got-20.0) > 1e-9 {
		t.Errorf("Expected HI 20.0, got %v", got)
	}
}

// TestComputeHIUniformTargetDose verifies HI = 0 when D2 and D98 read off
// the same sample, the perfectly homogeneous case.
func TestComputeHIUniformTargetDose(t *testing.T) {
	curve := mustCurve(t,
		[2]float64{100, 0},
		[2]float64{2, 60},
		[2]float64{0, 60},
	)

	got := ComputeHI(curve, 60)
	if got != 0 {
		t.Errorf("Expected HI 0 for uniform dose, got %v", got)
	}
}

// TestComputeHIPrescriptionUndefined verifies the NaN sentinel whenever the
// normalizing prescription is unusable; no default is substituted.
func TestComputeHIPrescriptionUndefined(t *testing.T) {
	curve := mustCurve(t,
		[2]float64{100, 0},
		[2]float64{98, 45},
		[2]float64{2, 55},
		[2]float64{0, 56},
	)

	for _, prescribed := range []float64{0, -10, math.NaN()} {
		if got := ComputeHI(curve, prescribed); !math.IsNaN(got) {
			t.Errorf("prescribed=%v: expected NaN, got %v", prescribed, got)
		}
	}
}

// TestComputeHISparseCurve verifies the NaN sentinel when the curve never
// reaches the dose levels HI reads; lookups are direct, not interpolated.
func TestComputeHISparseCurve(t *testing.T) {
	cases := []struct {
		name  string
		curve *dvh.Curve
	}{
		{"no_sample_at_or_below_2", mustCurve(t,
			[2]float64{100, 0},
			[2]float64{98, 45},
			[2]float64{50, 50},
		)},
		{"no_sample_at_or_below_98", mustCurve(t,
			[2]float64{100, 0},
			[2]float64{99, 30},
		)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeHI(tc.curve, 50); !math.IsNaN(got) {
				t.Errorf("Expected NaN, got %v", got)
			}
		})
	}
}

// TestComputeHIUnavailableDVH verifies the NaN sentinel for missing or
// degenerate curves.
func TestComputeHIUnavailableDVH(t *testing.T) {
	curves := map[string]*dvh.Curve{
		"nil":         nil,
		"empty":       mustCurve(t),
		"anchor_only": mustCurve(t, [2]float64{100, 0}),
	}

	for name, curve := range curves {
		if got := ComputeHI(curve, 50); !math.IsNaN(got) {
			t.Errorf("%s curve: expected NaN, got %v", name, got)
		}
	}
}

// TestComputeHIStructureAgnostic verifies the engine computes the ratio for
// any curve it is handed; restricting HI to target volumes is caller policy.
func TestComputeHIStructureAgnostic(t *testing.T) {
	// An organ-at-risk shaped curve, not a target.
	curve := mustCurve(t,
		[2]float64{100, 0},
		[2]float64{98, 10},
		[2]float64{2, 30},
		[2]float64{0, 35},
	)

	got := ComputeHI(curve, 50)
	want := (30.0 - 10.0) / 50.0 * 100.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected HI %v, got %v", want, got)
	}
}
