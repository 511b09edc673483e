// Package sheet appends confirmed transaction rows to an XLSX workbook, the
// durable counterpart to the clipboard-oriented TSV output.
package sheet

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/stocktext/stocktext/record"
)

// DefaultSheet is the worksheet rows are appended to when none is configured.
const DefaultSheet = "Transactions"

// DefaultPath returns a fresh workbook filename that will not collide with
// an earlier export.
func DefaultPath() string {
	return fmt.Sprintf("stocktext-%s.xlsx", uuid.NewString())
}

// Writer appends rows to one worksheet of an XLSX workbook.
type Writer struct {
	Path  string
	Sheet string
}

// NewWriter creates a writer for the given workbook path, using DefaultSheet.
func NewWriter(path string) *Writer {
	return &Writer{Path: path, Sheet: DefaultSheet}
}

// Append writes rows below the existing content, creating the workbook and a
// header row when the file does not exist yet. Returns the number of rows
// appended.
func (w *Writer) Append(rows []*record.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	f, next, err := w.open()
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return 0, err
		}
		values := []interface{}{
			record.FormatDate(r.Date),
			r.Item,
			r.Qty.InexactFloat64(),
			r.TransType,
			r.Location,
			r.Batch,
			r.Notes,
		}
		if err := f.SetSheetRow(w.Sheet, cell, &values); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return 0, fmt.Errorf("failed to save workbook: %w", err)
	}
	return len(rows), nil
}

// open returns the workbook and the 1-based row index to append at. A new
// workbook gets the header written and appending starts below it.
func (w *Writer) open() (*excelize.File, int, error) {
	f, err := excelize.OpenFile(w.Path)
	if err == nil {
		idx, err := f.GetSheetIndex(w.Sheet)
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}
		if idx < 0 {
			if _, err := f.NewSheet(w.Sheet); err != nil {
				_ = f.Close()
				return nil, 0, err
			}
			if err := w.writeHeader(f); err != nil {
				_ = f.Close()
				return nil, 0, err
			}
			return f, 2, nil
		}
		existing, err := f.GetRows(w.Sheet)
		if err != nil {
			_ = f.Close()
			return nil, 0, err
		}
		return f, len(existing) + 1, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fmt.Errorf("failed to open workbook %s: %w", w.Path, err)
	}

	f = excelize.NewFile()
	if err := f.SetSheetName("Sheet1", w.Sheet); err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if err := w.writeHeader(f); err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, 2, nil
}

func (w *Writer) writeHeader(f *excelize.File) error {
	// Header matches the review table, minus the row number column.
	header := make([]interface{}, 0, len(record.Header)-1)
	for _, h := range record.Header[1:] {
		header = append(header, h)
	}
	return f.SetSheetRow(w.Sheet, "A1", &header)
}
