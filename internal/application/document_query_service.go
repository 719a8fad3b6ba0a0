package application

import (
	"context"
	"fmt"

	"github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// DocumentQueryService answers read-only questions about purchases, sales,
// returns and their landing costs. It never takes the stock lock.
type DocumentQueryService struct {
	store  domain.Store
	logger *logging.Logger
}

// NewDocumentQueryService creates a new query service
func NewDocumentQueryService(store domain.Store, logger *logging.Logger) *DocumentQueryService {
	return &DocumentQueryService{
		store:  store,
		logger: logger,
	}
}

// GetPurchase retrieves a purchase by id
func (s *DocumentQueryService) GetPurchase(ctx context.Context, id string) (*PurchaseDTO, error) {
	purchase, err := s.store.Purchases().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get purchase", "purchaseId", id, "error", err)
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, errors.ErrNotFoundWithID("purchase", id)
	}
	return ToPurchaseDTO(purchase), nil
}

// ListPurchases returns every purchase ordered by id
func (s *DocumentQueryService) ListPurchases(ctx context.Context) ([]*PurchaseDTO, error) {
	purchases, err := s.store.Purchases().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list purchases", "error", err)
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return mapSlice(purchases, ToPurchaseDTO), nil
}

// GetSale retrieves a sale by id
func (s *DocumentQueryService) GetSale(ctx context.Context, id string) (*SaleDTO, error) {
	sale, err := s.store.Sales().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get sale", "saleId", id, "error", err)
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, errors.ErrNotFoundWithID("sale", id)
	}
	return ToSaleDTO(sale), nil
}

// ListSales returns every sale ordered by id
func (s *DocumentQueryService) ListSales(ctx context.Context) ([]*SaleDTO, error) {
	sales, err := s.store.Sales().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list sales", "error", err)
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return mapSlice(sales, ToSaleDTO), nil
}

// GetPurchaseReturn retrieves a purchase return by id
func (s *DocumentQueryService) GetPurchaseReturn(ctx context.Context, id string) (*PurchaseReturnDTO, error) {
	ret, err := s.store.PurchaseReturns().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get purchase return", "returnId", id, "error", err)
		return nil, fmt.Errorf("failed to get purchase return: %w", err)
	}
	if ret == nil {
		return nil, errors.ErrNotFoundWithID("purchase return", id)
	}
	return ToPurchaseReturnDTO(ret), nil
}

// ListPurchaseReturns returns every return, or only those against purchaseID
// when it is set
func (s *DocumentQueryService) ListPurchaseReturns(ctx context.Context, purchaseID string) ([]*PurchaseReturnDTO, error) {
	var (
		returns []*domain.PurchaseReturn
		err     error
	)
	if purchaseID == "" {
		returns, err = s.store.PurchaseReturns().List(ctx)
	} else {
		returns, err = returnsForPurchase(ctx, s.store, purchaseID)
	}
	if err != nil {
		s.logger.Error("Failed to list purchase returns", "purchaseId", purchaseID, "error", err)
		return nil, fmt.Errorf("failed to list purchase returns: %w", err)
	}
	return mapSlice(returns, ToPurchaseReturnDTO), nil
}

// PurchaseLandingCosts distributes a saved purchase's expenses over its lines
func (s *DocumentQueryService) PurchaseLandingCosts(ctx context.Context, id string) (*LandingCostReportDTO, error) {
	purchase, err := s.store.Purchases().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get purchase", "purchaseId", id, "error", err)
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, errors.ErrNotFoundWithID("purchase", id)
	}
	return ToLandingCostReportDTO(purchase.ID, purchase.ExpensesTotal, purchase.LandingCosts()), nil
}

// PreviewLandingCosts allocates expenses over draft lines that have not been
// saved yet
func PreviewLandingCosts(lines []LineInput, expenses []ExpenseInput) *LandingCostReportDTO {
	expensesTotal := domain.ExpensesTotal(toExpenses(expenses))
	rows := domain.ComputeLandingCosts(toTransactionItems(lines), expensesTotal)
	return ToLandingCostReportDTO("", expensesTotal, rows)
}
