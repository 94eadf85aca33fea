// Package xlsx implements the workbook port on top of excelize.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"spotisheet/internal/port"
)

// Workbook implements port.Workbook. One instance per export request.
type Workbook struct {
	file   *excelize.File
	styles map[port.CellStyle]int
	sheets int
}

// NewWorkbook creates an empty workbook with the reusable cell styles
// registered upfront.
func NewWorkbook() (port.Workbook, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 18, Color: "000000"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	normalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Color: "000000"},
	})
	if err != nil {
		return nil, fmt.Errorf("create normal style: %w", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return nil, fmt.Errorf("create link style: %w", err)
	}

	return &Workbook{
		file: f,
		styles: map[port.CellStyle]int{
			port.StyleHeader: headerStyle,
			port.StyleNormal: normalStyle,
			port.StyleLink:   linkStyle,
		},
	}, nil
}

// AddSheet creates a worksheet. The first sheet renames the file's default
// sheet so the output never carries an empty "Sheet1".
func (w *Workbook) AddSheet(name string) (port.Sheet, error) {
	if w.sheets == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return nil, fmt.Errorf("rename default sheet: %w", err)
		}
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", name, err)
		}
	}
	w.sheets++
	return &sheet{wb: w, name: name}, nil
}

// Bytes serializes the workbook to xlsx.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", port.ErrSerialization)
	}
	return buf.Bytes(), nil
}

type sheet struct {
	wb   *Workbook
	name string
}

func (s *sheet) WriteCell(row, col int, value string, style port.CellStyle) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	return s.setCell(cell, cell, value, style)
}

func (s *sheet) WriteMergedCell(row, col, colSpan int, value string, style port.CellStyle) error {
	start, end, err := s.mergeRange(row, col, colSpan)
	if err != nil {
		return err
	}
	return s.setCell(start, end, value, style)
}

func (s *sheet) WriteLink(row, col int, url, display, tooltip string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	return s.setLink(cell, cell, url, display, tooltip)
}

func (s *sheet) WriteMergedLink(row, col, colSpan int, url, display, tooltip string) error {
	start, end, err := s.mergeRange(row, col, colSpan)
	if err != nil {
		return err
	}
	return s.setLink(start, end, url, display, tooltip)
}

func (s *sheet) mergeRange(row, col, colSpan int) (string, string, error) {
	start, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", "", fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	end, err := excelize.CoordinatesToCellName(col+colSpan-1, row)
	if err != nil {
		return "", "", fmt.Errorf("cell (%d,%d): %w", row, col+colSpan-1, err)
	}
	if err := s.wb.file.MergeCell(s.name, start, end); err != nil {
		return "", "", fmt.Errorf("merge %s:%s: %w", start, end, err)
	}
	return start, end, nil
}

func (s *sheet) setCell(start, end, value string, style port.CellStyle) error {
	if err := s.wb.file.SetCellValue(s.name, start, value); err != nil {
		return fmt.Errorf("set cell %s: %w", start, err)
	}
	if err := s.wb.file.SetCellStyle(s.name, start, end, s.wb.styles[style]); err != nil {
		return fmt.Errorf("style cell %s: %w", start, err)
	}
	return nil
}

func (s *sheet) setLink(start, end, url, display, tooltip string) error {
	if display == "" {
		display = url
	}
	opts := excelize.HyperlinkOpts{Display: &display}
	if tooltip != "" {
		opts.Tooltip = &tooltip
	}
	if err := s.wb.file.SetCellHyperLink(s.name, start, url, "External", opts); err != nil {
		return fmt.Errorf("link cell %s: %w", start, err)
	}
	if err := s.wb.file.SetCellValue(s.name, start, display); err != nil {
		return fmt.Errorf("set cell %s: %w", start, err)
	}
	if err := s.wb.file.SetCellStyle(s.name, start, end, s.wb.styles[port.StyleLink]); err != nil {
		return fmt.Errorf("style cell %s: %w", start, err)
	}
	return nil
}
