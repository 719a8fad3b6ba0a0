// Package spreadsheet reads physical counts and item imports from .xlsx
// workbooks and writes audit and stock reports back out.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column headers, matched case-insensitively
const (
	ColItemID       = "Item ID"
	ColBarcode      = "Barcode"
	ColPhysicalQty  = "Physical Qty"
	ColName         = "Name"
	ColCategory     = "Category"
	ColBrand        = "Brand"
	ColUnitPrice    = "Unit Price"
	ColOpeningStock = "Opening Stock"
)

var (
	ErrEmptyWorkbook = errors.New("workbook has no rows")
	ErrMissingColumn = errors.New("required column missing")
)

// sheet is the first worksheet's rows with a header index
type sheet struct {
	rows    [][]string
	columns map[string]int
}

func readSheet(r io.Reader) (*sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[normalize(header)] = i
	}
	return &sheet{rows: rows[1:], columns: columns}, nil
}

func normalize(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func (s *sheet) has(header string) bool {
	_, ok := s.columns[normalize(header)]
	return ok
}

// cell returns the trimmed value of header in row, or "" when absent
func (s *sheet) cell(row []string, header string) string {
	i, ok := s.columns[normalize(header)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a numeric cell; blank cells are zero
func (s *sheet) number(row []string, header string, line int) (float64, error) {
	raw := s.cell(row, header)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("row %d: %s %q is not a number", line, header, raw)
	}
	return d.InexactFloat64(), nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParsePhysicalCount reads count rows. Each row needs an Item ID or a
// Barcode; rows without a Physical Qty were not counted and are skipped.
func ParsePhysicalCount(r io.Reader) ([]CountRow, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}
	if !s.has(ColPhysicalQty) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColPhysicalQty)
	}
	if !s.has(ColItemID) && !s.has(ColBarcode) {
		return nil, fmt.Errorf("%w: %s or %s", ErrMissingColumn, ColItemID, ColBarcode)
	}

	out := make([]CountRow, 0, len(s.rows))
	for i, row := range s.rows {
		line := i + 2
		if blank(row) || s.cell(row, ColPhysicalQty) == "" {
			continue
		}
		count := CountRow{
			ItemID:  s.cell(row, ColItemID),
			Barcode: s.cell(row, ColBarcode),
		}
		if count.ItemID == "" && count.Barcode == "" {
			return nil, fmt.Errorf("row %d: %s or %s is required", line, ColItemID, ColBarcode)
		}
		if count.PhysicalQty, err = s.number(row, ColPhysicalQty, line); err != nil {
			return nil, err
		}
		out = append(out, count)
	}
	return out, nil
}

// ParseItemImport reads catalog rows. Validation of names and prices is left
// to the catalog so bad rows are reported per row instead of failing the file.
func ParseItemImport(r io.Reader) ([]ItemRow, error) {
	s, err := readSheet(r)
	if err != nil {
		return nil, err
	}
	if !s.has(ColName) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColName)
	}

	out := make([]ItemRow, 0, len(s.rows))
	for i, row := range s.rows {
		line := i + 2
		if blank(row) {
			continue
		}
		item := ItemRow{
			Name:     s.cell(row, ColName),
			Barcode:  s.cell(row, ColBarcode),
			Category: s.cell(row, ColCategory),
			Brand:    s.cell(row, ColBrand),
		}
		if item.UnitPrice, err = s.number(row, ColUnitPrice, line); err != nil {
			return nil, err
		}
		if item.OpeningStock, err = s.number(row, ColOpeningStock, line); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
