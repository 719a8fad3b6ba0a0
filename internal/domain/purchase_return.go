package domain

import "time"

// PurchaseReturn sends part of a purchase back to its supplier. Recording a
// return does not move stock; StockApplied is set once the return has been
// booked against stock explicitly.
type PurchaseReturn struct {
	ID             string            `json:"id" bson:"_id"`
	PurchaseID     string            `json:"purchaseId" bson:"purchaseId"`
	SupplierID     string            `json:"supplierId" bson:"supplierId"`
	Date           time.Time         `json:"date" bson:"date"`
	Items          []TransactionItem `json:"items" bson:"items"`
	TotalCredit    float64           `json:"totalCredit" bson:"totalCredit"`
	StockApplied   bool              `json:"stockApplied" bson:"stockApplied"`
	StockAppliedAt *time.Time        `json:"stockAppliedAt,omitempty" bson:"stockAppliedAt,omitempty"`
	Note           string            `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt      time.Time         `json:"createdAt" bson:"createdAt"`
}

// MarkStockApplied flags the return as booked against stock. It reports false
// when the return was already applied.
func (r *PurchaseReturn) MarkStockApplied(at time.Time) bool {
	if r.StockApplied {
		return false
	}
	r.StockApplied = true
	r.StockAppliedAt = &at
	return true
}

func (r *PurchaseReturn) RecordID() string { return r.ID }

func (r *PurchaseReturn) Clone() *PurchaseReturn {
	c := *r
	c.Items = append([]TransactionItem(nil), r.Items...)
	if r.StockAppliedAt != nil {
		at := *r.StockAppliedAt
		c.StockAppliedAt = &at
	}
	return &c
}

// ReturnableQuantities returns, per item, how much of the purchase has not
// been returned yet by the given earlier returns.
func ReturnableQuantities(purchase *Purchase, previous []*PurchaseReturn) map[string]float64 {
	remaining := make(map[string]float64)
	for _, line := range purchase.Items {
		if !line.CountsTowardStock() {
			continue
		}
		remaining[line.ItemID] = AddQuantities(remaining[line.ItemID], line.Quantity)
	}

	for _, ret := range previous {
		if ret.PurchaseID != purchase.ID {
			continue
		}
		for _, line := range ret.Items {
			if _, ok := remaining[line.ItemID]; !ok || line.Quantity <= 0 {
				continue
			}
			remaining[line.ItemID] = SubtractQuantities(remaining[line.ItemID], line.Quantity)
			if remaining[line.ItemID] < 0 {
				remaining[line.ItemID] = 0
			}
		}
	}
	return remaining
}

// ClampReturnLines bounds every requested line to 0 <= qty <= what is still
// returnable and prices it at the purchase's average unit price for that item.
// Lines for items the purchase never contained, or that clamp to zero, are dropped.
func ClampReturnLines(purchase *Purchase, previous []*PurchaseReturn, requested []TransactionItem) []TransactionItem {
	remaining := ReturnableQuantities(purchase, previous)
	prices := averagePurchasePrices(purchase)
	names := make(map[string]string)
	for _, line := range purchase.Items {
		if line.ItemName != "" {
			names[line.ItemID] = line.ItemName
		}
	}

	out := make([]TransactionItem, 0, len(requested))
	for _, req := range requested {
		available, ok := remaining[req.ItemID]
		if !ok {
			continue
		}

		qty := req.Quantity
		if qty < 0 {
			qty = 0
		}
		if qty > available {
			qty = available
		}
		if qty == 0 {
			continue
		}

		remaining[req.ItemID] = SubtractQuantities(available, qty)
		line := NewTransactionItem(req.ItemID, qty, prices[req.ItemID])
		line.ItemName = names[req.ItemID]
		out = append(out, line)
	}
	return out
}

func averagePurchasePrices(purchase *Purchase) map[string]float64 {
	qty := make(map[string]float64)
	total := make(map[string]float64)
	for _, line := range purchase.Items {
		if !line.CountsTowardStock() {
			continue
		}
		qty[line.ItemID] = AddQuantities(qty[line.ItemID], line.Quantity)
		total[line.ItemID] = AddQuantities(total[line.ItemID], line.Total)
	}

	prices := make(map[string]float64, len(qty))
	for id, q := range qty {
		prices[id] = toDecimal(total[id]).Div(toDecimal(q)).InexactFloat64()
	}
	return prices
}
