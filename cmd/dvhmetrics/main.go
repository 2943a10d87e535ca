package main

import (
	"flag"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/config"
	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/evaluation"
	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/plan"
	"github.com/WUSTL-ClinicalDev/DVHDoseMetrics/pkg/report"
)

func main() {
	// Parse command line arguments
	planPath := flag.String("plan", "", "Path to the exported plan snapshot (JSON)")
	configPath := flag.String("config", "dosemetrics.yaml", "Path to the structure parameter configuration")
	outputPath := flag.String("output", "", "Write the report to this file instead of stdout")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "Number of structures to evaluate concurrently (default: all available cores)")
	initConfig := flag.Bool("init-config", false, "Write the default configuration to the -config path and exit")
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			logger.Fatalf("failed to write default config: %v", err)
		}
		logger.Infof("default configuration written to %s", *configPath)
		return
	}

	// Validate inputs
	if *planPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	snap, err := plan.Load(*planPath)
	if err != nil {
		logger.Fatalf("failed to load plan snapshot: %v", err)
	}
	logger.Infof("loaded plan %s with %d structures", snap.ID, len(snap.Structures))

	evaluator := evaluation.New(&evaluation.Params{
		Config:     cfg,
		NumWorkers: *numWorkers,
		Logger:     logger,
	})
	rows := evaluator.Evaluate(snap)

	opts := report.Options{
		NotComputable: cfg.Report.NotComputable,
		Precision:     cfg.Report.Precision,
	}

	if *outputPath != "" {
		if err := report.SaveFile(*outputPath, snap.ID, rows, opts); err != nil {
			logger.Fatalf("failed to write report: %v", err)
		}
		logger.Infof("report written to %s", *outputPath)
		return
	}

	if err := report.Write(os.Stdout, snap.ID, rows, opts); err != nil {
		logger.Fatalf("failed to write report: %v", err)
	}
}

// newLogger builds the process logger. The report goes to stdout, so
// all diagnostics are kept on stderr.
func newLogger() *zap.SugaredLogger {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	return zap.Must(logCfg.Build()).Sugar()
}
