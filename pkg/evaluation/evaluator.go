// Package evaluation runs the configured dose metrics over every
// structure of a loaded plan snapshot.
//
// Structures are matched against the configuration to decide which
// metrics apply: a gEUD exponent from the structure parameter list,
// membership in the target patterns for the Homogeneity Index, or
// both. Matched structures are evaluated in parallel; metrics that
// cannot be computed come back as NaN so a single bad structure never
// aborts the batch.
package evaluation

import (
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/config"
	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/metrics"
	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/plan"
)

// StructureMetrics holds the evaluated metrics for one structure.
type StructureMetrics struct {
	// StructureID is the structure identifier from the planning system
	StructureID string

	// Exponent is the gEUD volume-effect parameter applied, valid
	// only when HasExponent is true
	Exponent float64

	// HasExponent reports whether the configuration assigns a gEUD
	// exponent to this structure
	HasExponent bool

	// GEUD is the generalized equivalent uniform dose in Gy, or NaN
	// when not configured or not computable
	GEUD float64

	// IsTarget reports whether the structure matched a target pattern,
	// making the Homogeneity Index applicable
	IsTarget bool

	// HI is the Homogeneity Index in percent, or NaN when not
	// configured or not computable
	HI float64
}

// Params holds the evaluation configuration.
type Params struct {
	// Config supplies the structure parameters and target patterns
	Config *config.Config

	// NumWorkers caps the number of structures evaluated concurrently.
	// Zero or negative selects the number of CPU cores
	NumWorkers int

	// Logger receives progress and skip diagnostics. A nil logger
	// disables logging
	Logger *zap.SugaredLogger
}

// Evaluator computes dose metrics for plan snapshots.
type Evaluator struct {
	params *Params
	logger *zap.SugaredLogger
}

// New creates an evaluator with the provided parameters.
func New(params *Params) *Evaluator {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Evaluator{params: params, logger: logger}
}

// evalTask pairs a structure with the metrics the configuration
// selected for it.
type evalTask struct {
	index       int
	structure   *plan.Structure
	exponent    float64
	hasExponent bool
	isTarget    bool
}

// Evaluate computes the configured metrics for every matched structure
// of the snapshot and returns one row per structure in snapshot order.
//
// Structures matching neither a gEUD parameter nor a target pattern are
// skipped. The prescription is resolved once for the whole snapshot; if
// it is undefined, Homogeneity Index values evaluate to NaN while gEUD
// values are unaffected.
func (e *Evaluator) Evaluate(snap *plan.Snapshot) []StructureMetrics {
	prescribed, err := snap.PrescribedDose()
	if err != nil {
		e.logger.Warnf("prescription undefined for plan %s, Homogeneity Index will not be computable: %v", snap.ID, err)
		prescribed = math.NaN()
	}

	tasks := make([]evalTask, 0, len(snap.Structures))
	for _, s := range snap.Structures {
		a, hasExponent := e.params.Config.ExponentFor(s.ID)
		isTarget := e.params.Config.IsTarget(s.ID)
		if !hasExponent && !isTarget {
			e.logger.Debugf("structure %s matches no configured parameter, skipping", s.ID)
			continue
		}
		if s.Err != nil {
			e.logger.Warnf("DVH unavailable for structure %s, metrics will not be computable: %v", s.ID, s.Err)
		}
		tasks = append(tasks, evalTask{
			index:       len(tasks),
			structure:   s,
			exponent:    a,
			hasExponent: hasExponent,
			isTarget:    isTarget,
		})
	}

	numWorkers := e.params.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}

	e.logger.Infof("evaluating plan %s: %d of %d structures matched, %d workers",
		snap.ID, len(tasks), len(snap.Structures), numWorkers)

	rows := make([]StructureMetrics, len(tasks))
	taskChan := make(chan evalTask)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskChan {
				// Tasks carry disjoint indices, so workers write
				// to the shared slice without further locking.
				rows[t.index] = e.evaluateStructure(t, prescribed)
			}
		}()
	}

	for _, t := range tasks {
		taskChan <- t
	}
	close(taskChan)
	wg.Wait()

	return rows
}

func (e *Evaluator) evaluateStructure(t evalTask, prescribed float64) StructureMetrics {
	row := StructureMetrics{
		StructureID: t.structure.ID,
		Exponent:    t.exponent,
		HasExponent: t.hasExponent,
		GEUD:        math.NaN(),
		IsTarget:    t.isTarget,
		HI:          math.NaN(),
	}

	if t.hasExponent {
		row.GEUD = metrics.Compute(metrics.Request{
			Curve:    t.structure.Curve,
			Kind:     metrics.GEUD,
			Exponent: t.exponent,
		}).Value
	}

	if t.isTarget {
		row.HI = metrics.Compute(metrics.Request{
			Curve:          t.structure.Curve,
			Kind:           metrics.HI,
			PrescribedDose: prescribed,
		}).Value
	}

	return row
}
