// =============================================================================
// Sales Aggregation - Report Writer
// =============================================================================
//
// This module serializes a master table and its final totals into a flat
// report file, one line per code:
//
//   001,Tokyo,750
//   002,Osaka,0
//
// Lines are written in the order codes first appeared in the master file and
// end with "\n". Codes that received no records report 0.
//
// =============================================================================

package report

import (
	"bufio"
	"fmt"

	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/master"
	"github.com/ginjaninja78/sales-aggregation/pkg/utils"
)

// lineTerminator is written after every report line on every platform.
const lineTerminator = "\n"

// Write creates or truncates fileName in the run directory and writes one
// line per code of table. Write faults are reported as KindUnknown; the file
// may be left partially written.
func Write(fm *utils.FileManager, fileName string, table *master.Table) error {
	err := fm.WriteFile(fileName, func(w *bufio.Writer) error {
		for _, code := range table.Codes {
			if _, err := w.WriteString(Line(table, code) + lineTerminator); err != nil {
				return fmt.Errorf("failed to write %s: %w", fileName, err)
			}
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.KindUnknown, err).WithDimension(table.Label())
	}
	return nil
}

// WriteAll writes the report of every table to its dimension's output file.
func WriteAll(fm *utils.FileManager, tables []*master.Table) error {
	for _, table := range tables {
		if err := Write(fm, table.Dimension.OutputFile, table); err != nil {
			return err
		}
	}
	return nil
}

// Line renders the report line of one code without terminator.
func Line(table *master.Table, code string) string {
	return code + "," + table.Name(code) + "," + table.Total(code).String()
}
