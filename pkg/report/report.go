// Package report renders evaluated dose metrics as a plain-text table.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/evaluation"
)

// Options controls how metric values are rendered.
type Options struct {
	// NotComputable is printed in place of a metric that was attempted
	// but evaluated to NaN
	NotComputable string

	// Precision is the number of decimal places for metric values
	Precision int
}

// Write renders the metric rows for one plan as a text table.
//
// A metric that does not apply to a structure is rendered as "-"; one
// that applies but evaluated to NaN is rendered as the NotComputable
// marker, so a reader can tell a skipped metric from a failed one.
func Write(w io.Writer, planID string, rows []evaluation.StructureMetrics, opts Options) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Dose metrics for plan %s\n\n", planID)

	if len(rows) == 0 {
		b.WriteString("(no structures matched the configured parameters)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	nameWidth := len("Structure")
	for _, row := range rows {
		if len(row.StructureID) > nameWidth {
			nameWidth = len(row.StructureID)
		}
	}

	fmt.Fprintf(&b, "%-*s  %6s  %10s  %10s\n", nameWidth, "Structure", "a", "gEUD (Gy)", "HI (%)")

	for _, row := range rows {
		exponent := "-"
		if row.HasExponent {
			exponent = fmt.Sprintf("%g", row.Exponent)
		}

		fmt.Fprintf(&b, "%-*s  %6s  %10s  %10s\n",
			nameWidth, row.StructureID,
			exponent,
			opts.formatValue(row.HasExponent, row.GEUD),
			opts.formatValue(row.IsTarget, row.HI))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveFile writes the rendered table to a file, creating it if needed.
func SaveFile(path string, planID string, rows []evaluation.StructureMetrics, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return Write(file, planID, rows, opts)
}

func (o Options) formatValue(applicable bool, v float64) string {
	if !applicable {
		return "-"
	}
	if math.IsNaN(v) {
		return o.NotComputable
	}
	return fmt.Sprintf("%.*f", o.Precision, v)
}
