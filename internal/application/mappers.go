package application

import "github.com/ledgerline/inventory-core/internal/domain"

// ToItemDTO converts a domain Item to ItemDTO
func ToItemDTO(item *domain.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:              item.ID,
		Name:            item.Name,
		Barcode:         item.Barcode,
		Category:        item.Category,
		Brand:           item.Brand,
		UnitPrice:       item.UnitPrice,
		Stock:           item.Stock,
		StockDisplay:    domain.FormatQuantity(item.Stock),
		OpeningStock:    item.OpeningStock,
		AdjustmentTotal: item.AdjustmentTotal,
		Units: UnitsDTO{
			PurchaseUnit:      item.Units.PurchaseUnit,
			StorageUnit:       item.Units.StorageUnit,
			SellingUnit:       item.Units.SellingUnit,
			PurchaseToStorage: item.Units.PurchaseToStorage,
			StorageToSelling:  item.Units.StorageToSelling,
		},
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toLineDTOs(lines []domain.TransactionItem) []LineDTO {
	out := make([]LineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineDTO{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}
	return out
}

// ToPurchaseDTO converts a domain Purchase to PurchaseDTO
func ToPurchaseDTO(p *domain.Purchase) *PurchaseDTO {
	if p == nil {
		return nil
	}

	var expenses []ExpenseDTO
	for _, e := range p.Expenses {
		expenses = append(expenses, ExpenseDTO{Description: e.Description, Amount: e.Amount})
	}

	return &PurchaseDTO{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		Kind:          string(p.Kind),
		Date:          p.Date,
		Items:         toLineDTOs(p.Items),
		Expenses:      expenses,
		ItemsSubtotal: p.ItemsSubtotal,
		ExpensesTotal: p.ExpensesTotal,
		GrandTotal:    p.GrandTotal,
		PaymentTypeID: p.PaymentTypeID,
		CurrencyID:    p.CurrencyID,
		PaidAmount:    p.PaidAmount,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToSaleDTO converts a domain Sale to SaleDTO
func ToSaleDTO(s *domain.Sale) *SaleDTO {
	if s == nil {
		return nil
	}
	return &SaleDTO{
		ID:            s.ID,
		ClientID:      s.ClientID,
		Date:          s.Date,
		Items:         toLineDTOs(s.Items),
		GrandTotal:    s.GrandTotal,
		PaymentTypeID: s.PaymentTypeID,
		CurrencyID:    s.CurrencyID,
		PaidAmount:    s.PaidAmount,
		Note:          s.Note,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToPurchaseReturnDTO converts a domain PurchaseReturn to PurchaseReturnDTO
func ToPurchaseReturnDTO(r *domain.PurchaseReturn) *PurchaseReturnDTO {
	if r == nil {
		return nil
	}
	return &PurchaseReturnDTO{
		ID:             r.ID,
		PurchaseID:     r.PurchaseID,
		SupplierID:     r.SupplierID,
		Date:           r.Date,
		Items:          toLineDTOs(r.Items),
		TotalCredit:    r.TotalCredit,
		StockApplied:   r.StockApplied,
		StockAppliedAt: r.StockAppliedAt,
		Note:           r.Note,
		CreatedAt:      r.CreatedAt,
	}
}

// ToAuditDTO converts a domain InventoryAudit to AuditDTO
func ToAuditDTO(a *domain.InventoryAudit) *AuditDTO {
	if a == nil {
		return nil
	}

	rows := make([]AuditRowDTO, 0, len(a.Items))
	for _, r := range a.Items {
		rows = append(rows, AuditRowDTO(r))
	}

	return &AuditDTO{
		ID:          a.ID,
		Date:        a.Date,
		Status:      string(a.Status),
		Items:       rows,
		TotalImpact: a.TotalImpact,
		CreatedBy:   a.CreatedBy,
		AdjustedBy:  a.AdjustedBy,
		AdjustedAt:  a.AdjustedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToLandingCostReportDTO wraps allocator rows with their summary
func ToLandingCostReportDTO(purchaseID string, expensesTotal float64, rows []domain.LandingCostRow) *LandingCostReportDTO {
	summary := domain.SummarizeLandingCosts(rows)

	out := make([]LandingCostRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, LandingCostRowDTO(r))
	}

	return &LandingCostReportDTO{
		PurchaseID:        purchaseID,
		ExpensesTotal:     expensesTotal,
		Rows:              out,
		TotalQuantity:     summary.TotalQuantity,
		TotalLandingValue: summary.TotalLandingValue,
	}
}

// ToPartyDTO converts the shared party fields to PartyDTO
func ToPartyDTO(p *domain.Party) *PartyDTO {
	if p == nil {
		return nil
	}
	return &PartyDTO{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToVoucherDTO converts a domain Voucher to VoucherDTO
func ToVoucherDTO(v *domain.Voucher) *VoucherDTO {
	if v == nil {
		return nil
	}
	return &VoucherDTO{
		ID:            v.ID,
		PartyType:     string(v.PartyType),
		PartyID:       v.PartyID,
		Date:          v.Date,
		Amount:        v.Amount,
		PaymentTypeID: v.PaymentTypeID,
		CurrencyID:    v.CurrencyID,
		Note:          v.Note,
		CreatedAt:     v.CreatedAt,
	}
}

// ToCurrencyDTO converts a domain Currency to CurrencyDTO
func ToCurrencyDTO(c *domain.Currency) *CurrencyDTO {
	if c == nil {
		return nil
	}
	return &CurrencyDTO{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Symbol:    c.Symbol,
		Digits:    c.Digits,
		Rate:      c.Rate,
		IsDefault: c.IsDefault,
	}
}

// ToPaymentTypeDTO converts a domain PaymentType to PaymentTypeDTO
func ToPaymentTypeDTO(p *domain.PaymentType) *PaymentTypeDTO {
	if p == nil {
		return nil
	}
	return &PaymentTypeDTO{ID: p.ID, Name: p.Name}
}

// ToSettingOptionDTO converts a stored setting to SettingOptionDTO
func ToSettingOptionDTO(r *domain.SettingRecord) *SettingOptionDTO {
	if r == nil {
		return nil
	}
	return &SettingOptionDTO{
		ID:       r.ID,
		Category: string(r.Category),
		Name:     r.Name,
		Symbol:   r.Symbol,
		Parent:   r.Parent,
	}
}

func toTransactionItems(lines []LineInput) []domain.TransactionItem {
	out := make([]domain.TransactionItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.NewTransactionItem(l.ItemID, l.Quantity, l.UnitPrice))
	}
	return out
}

func toExpenses(expenses []ExpenseInput) []domain.Expense {
	out := make([]domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, domain.Expense{Description: e.Description, Amount: e.Amount})
	}
	return out
}

func toUnitConversion(u UnitsInput) domain.UnitConversion {
	return domain.UnitConversion(u)
}

func mapSlice[T any, D any](records []T, convert func(T) *D) []*D {
	out := make([]*D, 0, len(records))
	for _, r := range records {
		out = append(out, convert(r))
	}
	return out
}
