package domain

import "github.com/shopspring/decimal"

// LandingCostRow is one line of an import purchase with its share of the
// shipment expenses. LandingCostPerUnit is nil when the quantity is zero.
type LandingCostRow struct {
	ItemID             string   `json:"itemId"`
	ItemName           string   `json:"itemName,omitempty"`
	Quantity           float64  `json:"quantity"`
	UnitPrice          float64  `json:"unitPrice"`
	Total              float64  `json:"total"`
	AllocatedExpense   float64  `json:"allocatedExpense"`
	TotalLandingCost   float64  `json:"totalLandingCost"`
	LandingCostPerUnit *float64 `json:"landingCostPerUnit,omitempty"`
}

// LandingCostSummary aggregates allocator output.
type LandingCostSummary struct {
	TotalQuantity     float64 `json:"totalQuantity"`
	TotalLandingValue float64 `json:"totalLandingValue"`
}

// ComputeLandingCosts distributes expensesTotal over the lines in proportion
// to each line total. It returns an empty result when the items subtotal is
// zero. Line totals are recomputed from quantity and unit price.
func ComputeLandingCosts(items []TransactionItem, expensesTotal float64) []LandingCostRow {
	lines := NormalizeLines(items)

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(toDecimal(line.Total))
	}
	if subtotal.IsZero() {
		return []LandingCostRow{}
	}

	expenses := toDecimal(expensesTotal)
	rows := make([]LandingCostRow, 0, len(lines))
	for _, line := range lines {
		total := toDecimal(line.Total)
		allocated := total.Mul(expenses).Div(subtotal)
		landing := total.Add(allocated)

		row := LandingCostRow{
			ItemID:           line.ItemID,
			ItemName:         line.ItemName,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			Total:            line.Total,
			AllocatedExpense: allocated.InexactFloat64(),
			TotalLandingCost: landing.InexactFloat64(),
		}
		qty := toDecimal(line.Quantity)
		if !qty.IsZero() {
			perUnit := landing.Div(qty).InexactFloat64()
			row.LandingCostPerUnit = &perUnit
		}
		rows = append(rows, row)
	}
	return rows
}

// SummarizeLandingCosts totals quantity and landing value over rows.
func SummarizeLandingCosts(rows []LandingCostRow) LandingCostSummary {
	qty := decimal.Zero
	value := decimal.Zero
	for _, row := range rows {
		qty = qty.Add(toDecimal(row.Quantity))
		value = value.Add(toDecimal(row.TotalLandingCost))
	}
	return LandingCostSummary{
		TotalQuantity:     qty.InexactFloat64(),
		TotalLandingValue: value.InexactFloat64(),
	}
}
