// =============================================================================
// Sales Aggregation - Aggregator Module
// =============================================================================
//
// This module consumes the selected record files in sequence order and adds
// each record's amount into the running total of every dimension.
//
// PER-FILE PIPELINE:
//   1. Read all lines of the record file
//   2. Validate structure, code references and amount
//   3. Compute the new total of every dimension
//   4. Reject the record if any new total reaches the ceiling
//   5. Commit every new total
//
// A rejected record leaves all tables untouched. Totals committed by earlier
// files are kept, but the run fails and no report is written.
//
// =============================================================================

package aggregator

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/master"
	"github.com/ginjaninja78/sales-aggregation/internal/types"
	"github.com/ginjaninja78/sales-aggregation/internal/validation"
	"github.com/ginjaninja78/sales-aggregation/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// Stats contains statistics about an aggregation run.
type Stats struct {
	// FilesProcessed is the number of record files committed.
	FilesProcessed int

	// Amount is the sum of all committed record amounts.
	Amount decimal.Decimal

	// ProcessingTime is the time taken by Run.
	ProcessingTime time.Duration
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator accumulates record amounts into master table totals.
type Aggregator struct {
	fm        *utils.FileManager
	tables    []*master.Table
	validator *validation.Validator
	digits    int
	ceiling   decimal.Decimal
	logger    zerolog.Logger
}

// New creates an Aggregator over the given tables. Totals must stay strictly
// below 10^digits.
func New(fm *utils.FileManager, tables []*master.Table, digits int, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		fm:        fm,
		tables:    tables,
		validator: validation.NewValidator(tables),
		digits:    digits,
		ceiling:   decimal.New(1, int32(digits)),
		logger:    logger,
	}
}

// Run processes the record files in the order given and stops at the first
// failing file.
func (a *Aggregator) Run(files []types.RecordFile) (Stats, error) {
	startTime := time.Now()
	stats := Stats{Amount: decimal.Zero}

	for _, file := range files {
		record, err := a.read(file)
		if err != nil {
			return stats, err
		}

		if err := a.Apply(record); err != nil {
			return stats, err
		}

		stats.FilesProcessed++
		stats.Amount = stats.Amount.Add(record.Amount)

		a.logger.Debug().
			Str("file", file.Name).
			Strs("codes", record.Codes).
			Str("amount", record.Amount.String()).
			Msg("record committed")
	}

	stats.ProcessingTime = time.Since(startTime)
	return stats, nil
}

// read loads and validates one record file.
func (a *Aggregator) read(file types.RecordFile) (*types.Record, error) {
	lines, err := a.fm.ReadLines(file.Name)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, err).WithFile(file.Name)
	}

	return a.validator.Validate(file.Name, lines)
}

// Apply adds a validated record to every dimension's total. Either all
// totals are updated or, on overflow, none are.
func (a *Aggregator) Apply(record *types.Record) error {
	next := make([]decimal.Decimal, len(a.tables))

	for i, table := range a.tables {
		code := record.Codes[i]
		total := table.Total(code).Add(record.Amount)

		if total.GreaterThanOrEqual(a.ceiling) {
			a.logger.Debug().
				Str("file", record.File).
				Str("dimension", table.Label()).
				Str("code", code).
				Str("current", table.Total(code).String()).
				Str("amount", record.Amount.String()).
				Msg("total would reach ceiling")
			return errs.New(errs.KindAmountOverflow).
				WithDigits(a.digits).
				WithDimension(table.Label()).
				WithFile(record.File)
		}

		next[i] = total
	}

	for i, table := range a.tables {
		if err := table.Set(record.Codes[i], next[i]); err != nil {
			return errs.Wrap(errs.KindUnknown, err).WithFile(record.File)
		}
	}

	return nil
}
