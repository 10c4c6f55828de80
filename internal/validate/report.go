package validate

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the quality workbook.
const (
	SheetSummary  = "Summary"
	SheetMissing  = "Missing Values"
	SheetNegative = "Negative Values"
	SheetDates    = "Invalid Dates"
	defaultSheet  = "Sheet1"
)

// Workbook renders reports as an XLSX workbook: a summary sheet plus one
// sheet per per-column metric.
func Workbook(reports []Report) (*bytes.Buffer, error) {
	f, err := build(reports)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf, nil
}

// SaveWorkbook writes the workbook for reports to path.
func SaveWorkbook(path string, reports []Report) error {
	f, err := build(reports)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx save %s: %w", path, err)
	}
	return nil
}

func build(reports []Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, s := range []string{SheetMissing, SheetNegative, SheetDates} {
		if _, err := f.NewSheet(s); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", s, err)
		}
	}

	summary := [][]any{{"Table", "Rows", "Duplicates", "Columns With Missing", "Columns With Negatives"}}
	for _, r := range reports {
		summary = append(summary, []any{r.Table, r.Rows, r.Duplicates, len(r.MissingValues), len(r.NegativeValues)})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		f.Close()
		return nil, err
	}

	for sheet, pick := range map[string]func(Report) map[string]int{
		SheetMissing:  func(r Report) map[string]int { return r.MissingValues },
		SheetNegative: func(r Report) map[string]int { return r.NegativeValues },
		SheetDates:    func(r Report) map[string]int { return r.InvalidDates },
	} {
		rows := [][]any{{"Table", "Column", "Count"}}
		for _, r := range reports {
			m := pick(r)
			cols := make([]string, 0, len(m))
			for c := range m {
				cols = append(cols, c)
			}
			sort.Strings(cols)
			for _, c := range cols {
				rows = append(rows, []any{r.Table, c, m[c]})
			}
		}
		if err := writeRows(f, sheet, rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(SheetSummary, "A", "A", 18); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %s width: %w", SheetSummary, err)
	}
	if err := f.SetColWidth(SheetSummary, "B", "E", 22); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %s width: %w", SheetSummary, err)
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
