// =============================================================================
// Sales Aggregation - Workbook Export
// =============================================================================
//
// This module writes the final totals of every dimension into a single XLSX
// workbook, one sheet per dimension, for operators who read reports in a
// spreadsheet. The flat .out files stay the authoritative output; the
// workbook is only written when requested and only after they succeed.
//
// SHEET LAYOUT:
//   | Code | Name  | Total |
//   | 001  | Tokyo | 750   |
//
// Codes are written as text so leading zeros survive; totals are numeric.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-aggregation/internal/errs"
	"github.com/ginjaninja78/sales-aggregation/internal/master"
)

// workbookHeader is the first row of every sheet.
var workbookHeader = []interface{}{"Code", "Name", "Total"}

// WriteWorkbook writes every table to its own sheet of the workbook at path.
// Sheets are named after the dimension labels, in table order.
func WriteWorkbook(path string, tables []*master.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillWorkbook(f, tables); err != nil {
		return errs.Wrap(errs.KindUnknown, err)
	}

	if err := f.SaveAs(path); err != nil {
		return errs.Wrap(errs.KindUnknown, fmt.Errorf("failed to save workbook: %w", err))
	}

	return nil
}

func fillWorkbook(f *excelize.File, tables []*master.Table) error {
	defaultSheet := f.GetSheetName(0)

	for i, table := range tables {
		sheet := table.Label()
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, table); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *master.Table) error {
	if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for i, code := range table.Codes {
		row := i + 2
		codeCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, codeCell, code); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, codeCell, err)
		}

		nameCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStr(sheet, nameCell, table.Name(code)); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, nameCell, err)
		}

		// Totals stay below 10^18, so they fit an int64 exactly.
		totalCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellValue(sheet, totalCell, table.Total(code).IntPart()); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, totalCell, err)
		}
	}

	return nil
}
