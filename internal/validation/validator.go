// =============================================================================
// Sales Aggregation - Record Validation
// =============================================================================
//
// This module validates the body of a single record file against the loaded
// master tables and turns it into a Record.
//
// RECORD LAYOUT:
//   One code line per dimension, in dimension order, then the amount line.
//     single dimension:  branchCode, amount
//     two dimensions:    branchCode, commodityCode, amount
//
// VALIDATION ORDER (first failure wins):
//   1. Structure: the line count matches the layout   -> KindRecordFormat
//   2. Reference: every code exists in its table      -> KindUnknownCode
//   3. Numeric:   the amount is one or more digits    -> KindUnknown
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/master"
	"github.com/ginjaninja78/sales-aggregation/internal/types"
)

// amountPattern accepts unsigned decimal integers only: no sign, no decimal
// point, no surrounding whitespace.
var amountPattern = regexp.MustCompile(`^[0-9]+$`)

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks record bodies against an ordered set of master tables.
type Validator struct {
	tables []*master.Table
}

// NewValidator creates a Validator for the given tables. The table order is
// the order of code lines in a record file.
func NewValidator(tables []*master.Table) *Validator {
	return &Validator{tables: tables}
}

// LineCount is the number of lines a valid record file has.
func (v *Validator) LineCount() int {
	return len(v.tables) + 1
}

// Validate checks the lines of one record file.
//
// PARAMETERS:
//   - file: The record file name, used in error messages.
//   - lines: The file's lines without terminators.
//
// RETURNS:
//   - The parsed record.
//   - A classified *errs.Error on the first failed check.
func (v *Validator) Validate(file string, lines []string) (*types.Record, error) {
	// =========================================================================
	// STRUCTURE
	// =========================================================================

	if len(lines) != v.LineCount() {
		return nil, errs.Wrap(errs.KindRecordFormat,
			fmt.Errorf("expected %d lines, got %d", v.LineCount(), len(lines))).WithFile(file)
	}

	// =========================================================================
	// REFERENCES
	// =========================================================================

	codes := make([]string, len(v.tables))
	for i, table := range v.tables {
		code := lines[i]
		if !table.Has(code) {
			return nil, errs.Wrap(errs.KindUnknownCode,
				fmt.Errorf("code %q is not defined", code)).WithDimension(table.Label()).WithFile(file)
		}
		codes[i] = code
	}

	// =========================================================================
	// AMOUNT
	// =========================================================================

	amount, err := ParseAmount(lines[len(v.tables)])
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, err).WithFile(file)
	}

	return &types.Record{
		File:   file,
		Codes:  codes,
		Amount: amount,
	}, nil
}

// ParseAmount parses an amount line. Any number of digits is accepted; the
// caller enforces the ceiling.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("amount %q is not a non-negative integer", s)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}

	return amount, nil
}
