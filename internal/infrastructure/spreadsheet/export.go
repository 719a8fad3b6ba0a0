package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	auditSheet = "Audit"
	stockSheet = "Stock"
)

// writer fills one named sheet row by row
type writer struct {
	f     *excelize.File
	sheet string
	row   int
}

func newWriter(sheet string) (*writer, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return &writer{f: f, sheet: sheet, row: 1}, nil
}

func (w *writer) append(values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

func (w *writer) boldHeader(columns int) error {
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, "A1", last, style)
}

func (w *writer) flush(out io.Writer) error {
	defer w.f.Close()
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportAudit writes one audit's rows and its total impact
func ExportAudit(out io.Writer, audit AuditSheet) error {
	w, err := newWriter(auditSheet)
	if err != nil {
		return err
	}

	header := []interface{}{ColItemID, "Item", "System Qty", ColPhysicalQty, "Difference", ColUnitPrice, "Impact"}
	if err := w.append(header...); err != nil {
		return err
	}
	for _, row := range audit.Rows {
		if err := w.append(row.ItemID, row.ItemName, row.SystemQty, row.PhysicalQty, row.Difference, row.UnitPrice, row.Impact); err != nil {
			return err
		}
	}
	if err := w.append("", "Total impact", "", "", "", "", audit.TotalImpact); err != nil {
		return err
	}
	if err := w.append("", "Audit", audit.ID, "Status", audit.Status); err != nil {
		return err
	}
	if err := w.boldHeader(len(header)); err != nil {
		return err
	}
	return w.flush(out)
}

// ExportStockReport writes the current stock of every item. The Physical Qty
// column is left blank so the file can be filled in and uploaded as a count.
func ExportStockReport(out io.Writer, items []StockRow) error {
	w, err := newWriter(stockSheet)
	if err != nil {
		return err
	}

	header := []interface{}{ColItemID, ColBarcode, ColName, ColCategory, ColBrand, ColUnitPrice, "Stock", ColPhysicalQty}
	if err := w.append(header...); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.append(item.ItemID, item.Barcode, item.Name, item.Category, item.Brand, item.UnitPrice, item.Stock); err != nil {
			return err
		}
	}
	if err := w.boldHeader(len(header)); err != nil {
		return err
	}
	return w.flush(out)
}
