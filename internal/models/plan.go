package models

// PlanSnapshot is the on-disk form of an exported treatment plan,
// as produced by the planning system's JSON export
type PlanSnapshot struct {
	// ID is the identifier of the plan or plan sum
	ID string `json:"id"`

	// Plans are the component plans contributing dose.
	// A simple plan has exactly one component; a plan sum has several
	Plans []PlanComponent `json:"plans"`

	// Structures are the contoured structures with their DVH curves
	Structures []StructureRecord `json:"structures"`
}

// PlanComponent is a single dose-contributing plan within a snapshot
type PlanComponent struct {
	// ID is the identifier of the component plan
	ID string `json:"id"`

	// PrescribedDoseGy is the total prescribed dose in Gy,
	// or nil when the planning system has no prescription recorded
	PrescribedDoseGy *float64 `json:"prescribedDoseGy"`
}

// StructureRecord is a contoured structure and its exported DVH
type StructureRecord struct {
	// ID is the structure identifier as named in the planning system
	ID string `json:"id"`

	// DVH is the cumulative dose-volume histogram, ordered from
	// 100% volume down to 0%. Empty when no DVH could be exported
	DVH []DVHPoint `json:"dvh"`
}

// DVHPoint is one sample of a cumulative DVH curve
type DVHPoint struct {
	// VolumePercent is the relative volume in percent, 0 to 100
	VolumePercent float64 `json:"volumePercent"`

	// DoseGy is the absolute dose in Gy at that volume
	DoseGy float64 `json:"doseGy"`
}
