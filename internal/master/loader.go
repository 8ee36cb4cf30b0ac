// =============================================================================
// Sales Aggregation - Master Table Loader
// =============================================================================
//
// This module parses a master definition file (branch.lst, commodity.lst)
// into a Table: a code -> name map and a code -> total map that start with
// identical key sets and every total at zero.
//
// FILE FORMAT:
//   One definition per line, "code,name". The code must fully match the
//   dimension's code pattern (three digits for branches, eight alphanumeric
//   characters for commodities). Empty lines are skipped.
//
// DUPLICATES:
//   A code defined twice keeps the name from the later line. Its position in
//   report order is where it first appeared.
//
// =============================================================================

package master

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-aggregation/internal/config"
	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/pkg/utils"
)

// =============================================================================
// TABLE
// =============================================================================

// Table holds one dimension's code names and running totals.
type Table struct {
	// Dimension is the dimension this table was loaded for.
	Dimension config.Dimension

	// Names maps each code to its display name. Immutable after Load.
	Names map[string]string

	// Totals maps each code to its running total. It always has the same key
	// set as Names; only Set changes values.
	Totals map[string]decimal.Decimal

	// Codes lists every code once, in first-seen order.
	Codes []string
}

// newTable creates an empty table for a dimension.
func newTable(dim config.Dimension) *Table {
	return &Table{
		Dimension: dim,
		Names:     make(map[string]string),
		Totals:    make(map[string]decimal.Decimal),
	}
}

// Label returns the dimension label of the table.
func (t *Table) Label() string {
	return t.Dimension.Label
}

// Has reports whether code is defined in the table.
func (t *Table) Has(code string) bool {
	_, ok := t.Names[code]
	return ok
}

// Name returns the display name of code.
func (t *Table) Name(code string) string {
	return t.Names[code]
}

// Total returns the running total of code, zero for unknown codes.
func (t *Table) Total(code string) decimal.Decimal {
	return t.Totals[code]
}

// Set replaces the running total of a defined code. Unknown codes are
// rejected so the key set never grows after loading.
func (t *Table) Set(code string, total decimal.Decimal) error {
	if !t.Has(code) {
		return fmt.Errorf("code %q is not defined in %s table", code, t.Label())
	}
	t.Totals[code] = total
	return nil
}

// define adds or overwrites a definition.
func (t *Table) define(code, name string) {
	if !t.Has(code) {
		t.Codes = append(t.Codes, code)
	}
	t.Names[code] = name
	t.Totals[code] = decimal.Zero
}

// =============================================================================
// LOADING
// =============================================================================

// errInvalidLine marks a definition line with the wrong shape.
var errInvalidLine = errors.New("invalid definition line")

// Load reads the dimension's master file from the run directory.
//
// RETURNS:
//   - The loaded table.
//   - KindMissingFile if the file does not exist, KindInvalidFormat on the
//     first malformed line, KindUnknown on read faults. The table is nil on
//     every error.
func Load(fm *utils.FileManager, dim config.Dimension) (*Table, error) {
	if !fm.Exists(dim.MasterFile) {
		return nil, errs.New(errs.KindMissingFile).WithDimension(dim.Label)
	}

	table := newTable(dim)
	codeRegex := dim.CodeRegex()
	lineNumber := 0

	err := fm.EachLine(dim.MasterFile, func(line string) error {
		lineNumber++
		if line == "" {
			return nil
		}

		fields := SplitLine(line)
		if len(fields) != 2 || !codeRegex.MatchString(fields[0]) || fields[1] == "" {
			return fmt.Errorf("%w at line %d: %q", errInvalidLine, lineNumber, line)
		}

		table.define(fields[0], fields[1])
		return nil
	})
	if err != nil {
		if errors.Is(err, errInvalidLine) {
			return nil, errs.Wrap(errs.KindInvalidFormat, err).WithDimension(dim.Label)
		}
		return nil, errs.Wrap(errs.KindUnknown, err).WithDimension(dim.Label)
	}

	return table, nil
}

// LoadAll loads the master table of every configured dimension, in order.
// The first failure aborts the remaining loads.
func LoadAll(fm *utils.FileManager, dims []config.Dimension) ([]*Table, error) {
	tables := make([]*Table, 0, len(dims))
	for _, dim := range dims {
		table, err := Load(fm, dim)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// SplitLine splits a definition or report line into its comma separated
// fields. Fields are not trimmed.
func SplitLine(line string) []string {
	return strings.Split(line, ",")
}
