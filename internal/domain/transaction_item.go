package domain

import "sort"

// TransactionItem is a document line. Total is always Quantity * UnitPrice.
type TransactionItem struct {
	ItemID    string  `json:"itemId" bson:"itemId"`
	ItemName  string  `json:"itemName,omitempty" bson:"itemName,omitempty"`
	Quantity  float64 `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
	Total     float64 `json:"total" bson:"total"`
}

// NewTransactionItem builds a normalized line.
func NewTransactionItem(itemID string, quantity, unitPrice float64) TransactionItem {
	line := TransactionItem{ItemID: itemID, Quantity: quantity, UnitPrice: unitPrice}
	line.Normalize()
	return line
}

// Normalize recomputes Total from its inputs.
func (l *TransactionItem) Normalize() {
	l.Total = MultiplyAmounts(l.Quantity, l.UnitPrice)
}

// CountsTowardStock reports whether the line moves stock.
func (l TransactionItem) CountsTowardStock() bool {
	return l.ItemID != "" && l.Quantity > 0
}

// NormalizeLines returns a normalized copy of lines.
func NormalizeLines(lines []TransactionItem) []TransactionItem {
	out := make([]TransactionItem, len(lines))
	for i, line := range lines {
		line.Normalize()
		out[i] = line
	}
	return out
}

// LinesSubtotal sums line totals.
func LinesSubtotal(lines []TransactionItem) float64 {
	totals := make([]float64, len(lines))
	for i, line := range lines {
		totals[i] = line.Total
	}
	return SumAmounts(totals...)
}

// StockDelta accumulates the net stock change per item id.
type StockDelta map[string]float64

// Apply adds line quantities.
func (d StockDelta) Apply(lines []TransactionItem) {
	for _, line := range lines {
		if !line.CountsTowardStock() {
			continue
		}
		d[line.ItemID] = AddQuantities(d[line.ItemID], line.Quantity)
	}
}

// Reverse subtracts line quantities.
func (d StockDelta) Reverse(lines []TransactionItem) {
	for _, line := range lines {
		if !line.CountsTowardStock() {
			continue
		}
		d[line.ItemID] = SubtractQuantities(d[line.ItemID], line.Quantity)
	}
}

// ItemIDs returns the ids with a non-zero net change, sorted.
func (d StockDelta) ItemIDs() []string {
	ids := make([]string, 0, len(d))
	for id, delta := range d {
		if delta != 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
