// Package plan loads exported treatment-plan snapshots and prepares
// them for metric evaluation.
//
// A snapshot file is the JSON export of a plan or plan sum: one or
// more dose-contributing component plans plus the contoured structures
// with their cumulative DVH curves. Loading validates each structure's
// curve individually; a structure whose curve cannot be built is kept
// with its error recorded so the remaining structures still evaluate.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/internal/models"
	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/dvh"
)

// ErrPrescriptionUndefined is returned when any component plan lacks
// a usable prescribed dose, so no total prescription can be formed.
var ErrPrescriptionUndefined = errors.New("prescription undefined for at least one component plan")

// ErrNoStructures is returned when a snapshot contains no structures.
var ErrNoStructures = errors.New("snapshot contains no structures")

// Structure is a contoured structure prepared for evaluation.
type Structure struct {
	// ID is the structure identifier from the planning system
	ID string

	// Curve is the validated DVH curve, or nil when Err is set
	Curve *dvh.Curve

	// Err records why the curve could not be built, if it could not
	Err error
}

// Component is a single dose-contributing plan.
type Component struct {
	// ID is the component plan identifier
	ID string

	// Prescribed is the prescribed dose in Gy, or nil when the
	// planning system has no prescription recorded
	Prescribed *float64
}

// Snapshot is a loaded plan snapshot ready for evaluation.
type Snapshot struct {
	// ID is the plan or plan sum identifier
	ID string

	// Components are the dose-contributing plans
	Components []Component

	// Structures are the contoured structures in file order
	Structures []*Structure
}

// Load reads and parses a plan snapshot from a JSON file.
//
// Structures whose DVH samples fail validation are retained with a nil
// Curve and the validation error in Err, so callers can report them
// without losing the rest of the snapshot. Load itself fails only when
// the file cannot be read or parsed, or contains no structures at all.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading plan snapshot: %w", err)
	}

	var raw models.PlanSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing plan snapshot: %w", err)
	}

	return fromRecord(&raw)
}

func fromRecord(raw *models.PlanSnapshot) (*Snapshot, error) {
	if len(raw.Structures) == 0 {
		return nil, fmt.Errorf("plan %s: %w", raw.ID, ErrNoStructures)
	}

	snap := &Snapshot{
		ID:         raw.ID,
		Components: make([]Component, 0, len(raw.Plans)),
		Structures: make([]*Structure, 0, len(raw.Structures)),
	}

	for _, p := range raw.Plans {
		snap.Components = append(snap.Components, Component{
			ID:         p.ID,
			Prescribed: p.PrescribedDoseGy,
		})
	}

	for _, rec := range raw.Structures {
		samples := make([]dvh.Sample, len(rec.DVH))
		for i, pt := range rec.DVH {
			samples[i] = dvh.Sample{VolumePercent: pt.VolumePercent, Dose: pt.DoseGy}
		}

		s := &Structure{ID: rec.ID}
		curve, err := dvh.NewCurve(samples)
		if err != nil {
			s.Err = fmt.Errorf("structure %s: %w", rec.ID, err)
		} else {
			s.Curve = curve
		}
		snap.Structures = append(snap.Structures, s)
	}

	return snap, nil
}

// PrescribedDose returns the total prescribed dose of the snapshot in
// Gy, summing the prescriptions of all component plans.
//
// The total is undefined when the snapshot has no components or when
// any single component lacks a recorded prescription; partial sums are
// never formed.
func (s *Snapshot) PrescribedDose() (float64, error) {
	if len(s.Components) == 0 {
		return 0, fmt.Errorf("plan %s: %w", s.ID, ErrPrescriptionUndefined)
	}

	doses := make([]float64, len(s.Components))
	for i, c := range s.Components {
		if c.Prescribed == nil || math.IsNaN(*c.Prescribed) {
			return 0, fmt.Errorf("plan %s, component %s: %w", s.ID, c.ID, ErrPrescriptionUndefined)
		}
		doses[i] = *c.Prescribed
	}

	return floats.Sum(doses), nil
}
