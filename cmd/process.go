// =============================================================================
// Sales Aggregation - Process Pipeline
// =============================================================================
//
// This file orchestrates one aggregation run over a directory.
//
// PROCESSING PIPELINE:
//   1. Resolve the dimension configuration (built-in or YAML)
//   2. Load the master table of every dimension
//   3. Select the record files and verify their sequence
//   4. Validate and accumulate every record file in order
//   5. Write one report per dimension
//   6. Optionally write the XLSX workbook
//
// Any failure stops the pipeline; reports are only written when steps 1-4
// all succeed.
//
// =============================================================================

package cmd

import (
	"path/filepath"

	"github.com/ginjaninja78/sales-aggregation/internal/aggregator"
	"github.com/ginjaninja78/sales-aggregation/internal/config"
	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/logging"
	"github.com/ginjaninja78/sales-aggregation/internal/master"
	"github.com/ginjaninja78/sales-aggregation/internal/report"
	"github.com/ginjaninja78/sales-aggregation/internal/selector"
	"github.com/ginjaninja78/sales-aggregation/pkg/utils"
)

// runProcess is the main function that orchestrates the aggregation.
func runProcess(dir string, o options) error {
	log, _ := logging.WithRun()
	log.Debug().Str("dir", dir).Msg("run started")

	// =========================================================================
	// STEP 1: CONFIGURATION
	// =========================================================================

	cfg, err := resolveConfig(o)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, err)
	}

	fm := utils.NewFileManager(dir)

	// =========================================================================
	// STEP 2: MASTER TABLES
	// =========================================================================

	tables, err := master.LoadAll(fm, cfg.Dimensions)
	if err != nil {
		return err
	}

	for _, table := range tables {
		log.Debug().
			Str("dimension", table.Label()).
			Int("codes", len(table.Codes)).
			Msg("master table loaded")
	}

	// =========================================================================
	// STEP 3: RECORD FILES
	// =========================================================================

	files, err := selector.Select(fm, cfg.RecordExtension)
	if err != nil {
		return err
	}

	log.Debug().Int("files", len(files)).Msg("record files selected")

	// =========================================================================
	// STEP 4: AGGREGATION
	// =========================================================================

	agg := aggregator.New(fm, tables, cfg.AmountDigits, logging.WithPhase(log, "aggregate"))
	stats, err := agg.Run(files)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 5: REPORTS
	// =========================================================================

	if err := report.WriteAll(fm, tables); err != nil {
		return err
	}

	if o.xlsxFile != "" {
		path := o.xlsxFile
		if !filepath.IsAbs(path) {
			path = fm.Path(path)
		}
		if err := report.WriteWorkbook(path, tables); err != nil {
			return err
		}
		log.Debug().Str("path", path).Msg("workbook written")
	}

	log.Info().
		Int("files", stats.FilesProcessed).
		Str("amount", stats.Amount.String()).
		Dur("elapsed", stats.ProcessingTime).
		Msg("run complete")

	return nil
}

// resolveConfig returns the YAML configuration if one was given, otherwise
// the built-in layout.
func resolveConfig(o options) (*config.Config, error) {
	if o.cfgFile != "" {
		return config.Load(o.cfgFile)
	}
	return config.Default(o.commodity), nil
}
