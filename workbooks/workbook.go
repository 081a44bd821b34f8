// Package workbooks is the tabular source provider: it is the only package
// that knows spreadsheet mechanics. Everything else consumes sheet names,
// ordered column lists and value rows.
package workbooks

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/pure_utils"
)

const RollupSheetName = "Rollup"

// Sheet is one tab of a workbook, with headers backfilled and every row
// padded to the header width.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

type Workbook struct {
	path string
	file *excelize.File
}

// Open loads a workbook. A missing, locked or corrupt file comes back as
// ErrWorkbookUnavailable so callers can tell "bad input file" apart from
// engine failures.
func Open(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(models.ErrWorkbookUnavailable, "cannot open %s: %v", path, err)
	}
	return &Workbook{path: path, file: file}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheets reads every tab of the workbook. Empty header cells become
// "column_N" so a sheet with a sloppy header row still ingests; data rows
// shorter than the header are padded with empty values.
func (w *Workbook) Sheets() ([]Sheet, error) {
	var sheets []Sheet
	for _, name := range w.file.GetSheetList() {
		rows, err := w.file.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(models.ErrWorkbookUnavailable,
				"cannot read sheet %s: %v", name, err)
		}
		if len(rows) == 0 {
			continue
		}

		columns := backfillHeaders(rows[0])
		sheet := Sheet{Name: name, Columns: columns}
		for _, row := range rows[1:] {
			padded := make([]string, len(columns))
			copy(padded, row)
			sheet.Rows = append(sheet.Rows, padded)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// WriteRollup replaces the contents of the workbook's Rollup sheet with the
// report and saves the file in place. The sheet must already exist: the
// workbook designates where the report lands.
func (w *Workbook) WriteRollup(report models.RollupReport) error {
	index, err := w.file.GetSheetIndex(RollupSheetName)
	if err != nil {
		return errors.Wrap(err, "cannot look up Rollup sheet")
	}
	if index < 0 {
		return models.ErrRollupSheetMissing
	}

	if err := w.file.DeleteSheet(RollupSheetName); err != nil {
		return errors.Wrap(err, "cannot clear Rollup sheet")
	}
	if _, err := w.file.NewSheet(RollupSheetName); err != nil {
		return errors.Wrap(err, "cannot recreate Rollup sheet")
	}

	headers := pure_utils.Map(report.Headers(), func(header string) any { return header })
	if err := w.writeRow(1, headers); err != nil {
		return err
	}

	for i, row := range report.Rows {
		cells := []any{
			row.DisplayName,
			row.Login,
			row.SourceOfOrigin,
			formatFlag(row.NeedsReview),
			formatFlag(row.IsAdmin),
			row.Comments,
		}
		for _, column := range report.Columns {
			value, ok := row.Values[column]
			if !ok {
				value = models.PlaceholderValue
			}
			cells = append(cells, value)
		}
		if err := w.writeRow(i+2, cells); err != nil {
			return err
		}
	}

	if err := w.file.Save(); err != nil {
		return errors.Wrapf(models.ErrWorkbookUnavailable, "cannot save %s: %v", w.path, err)
	}
	return nil
}

func (w *Workbook) writeRow(rowNumber int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return errors.Wrap(err, "cannot compute cell coordinates")
	}
	if err := w.file.SetSheetRow(RollupSheetName, cell, &cells); err != nil {
		return errors.Wrapf(err, "cannot write row %d of Rollup sheet", rowNumber)
	}
	return nil
}

func backfillHeaders(headers []string) []string {
	columns := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("column_%d", i)
		}
		columns[i] = header
	}
	return columns
}

// formatFlag renders booleans the way the historical report did: "TRUE" or
// an empty cell.
func formatFlag(flag bool) string {
	if flag {
		return "TRUE"
	}
	return ""
}

