package spreadsheet

// CountRow is one counted line of a physical count sheet
type CountRow struct {
	ItemID      string
	Barcode     string
	PhysicalQty float64
}

// ItemRow is one line of a catalog import sheet
type ItemRow struct {
	Name         string
	Barcode      string
	Category     string
	Brand        string
	UnitPrice    float64
	OpeningStock float64
}

// StockRow is one item of a stock report
type StockRow struct {
	ItemID    string
	Barcode   string
	Name      string
	Category  string
	Brand     string
	UnitPrice float64
	Stock     float64
}

// AuditRow is one compared line of an audit export
type AuditRow struct {
	ItemID      string
	ItemName    string
	SystemQty   float64
	PhysicalQty float64
	Difference  float64
	UnitPrice   float64
	Impact      float64
}

// AuditSheet is the content of an audit export
type AuditSheet struct {
	ID          string
	Status      string
	Rows        []AuditRow
	TotalImpact float64
}
