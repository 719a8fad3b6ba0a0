package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// CatalogService handles plain record maintenance: items, parties, vouchers
// and settings. It never changes stock after an item is created.
type CatalogService struct {
	store  domain.Store
	logger *logging.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(store domain.Store, logger *logging.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger.WithComponent("catalog"),
	}
}

func itemDetails(name, barcode, category, brand string, unitPrice float64, units UnitsInput) domain.ItemDetails {
	return domain.ItemDetails{
		Name:      name,
		Barcode:   barcode,
		Category:  category,
		Brand:     brand,
		UnitPrice: unitPrice,
		Units:     toUnitConversion(units),
	}
}

// CreateItem adds an item whose stock starts at its opening stock
func (s *CatalogService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*ItemDTO, error) {
	details := itemDetails(cmd.Name, cmd.Barcode, cmd.Category, cmd.Brand, cmd.UnitPrice, cmd.Units)
	item, err := domain.NewItem(uuid.NewString(), details, cmd.OpeningStock)
	if err != nil {
		return nil, err
	}

	if err := s.store.Items().Upsert(ctx, item); err != nil {
		s.logger.Error("Failed to create item", "name", item.Name, "error", err)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Created item", "itemId", item.ID, "name", item.Name)
	return ToItemDTO(item), nil
}

// UpdateItem replaces an item's catalog fields. Stock is left as it is.
func (s *CatalogService) UpdateItem(ctx context.Context, id string, cmd UpdateItemCommand) (*ItemDTO, error) {
	details := itemDetails(cmd.Name, cmd.Barcode, cmd.Category, cmd.Brand, cmd.UnitPrice, cmd.Units)

	var updated *domain.Item
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.store.Items().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load item: %w", err)
		}
		if item == nil {
			return errors.ErrNotFoundWithID("item", id)
		}
		if err := item.UpdateDetails(details); err != nil {
			return err
		}
		updated = item
		return s.store.Items().Upsert(ctx, item)
	})
	if err != nil {
		s.logger.Error("Failed to update item", "itemId", id, "error", err)
		return nil, err
	}
	return ToItemDTO(updated), nil
}

// DeleteItem removes an item. Documents referring to it are kept.
func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.Items().Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete item", "itemId", id, "error", err)
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by id
func (s *CatalogService) GetItem(ctx context.Context, id string) (*ItemDTO, error) {
	item, err := s.store.Items().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get item", "itemId", id, "error", err)
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, errors.ErrNotFoundWithID("item", id)
	}
	return ToItemDTO(item), nil
}

// ListItems returns every item ordered by id
func (s *CatalogService) ListItems(ctx context.Context) ([]*ItemDTO, error) {
	items, err := s.store.Items().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list items", "error", err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return mapSlice(items, ToItemDTO), nil
}

// FindItemByBarcode returns the first item carrying barcode
func (s *CatalogService) FindItemByBarcode(ctx context.Context, barcode string) (*ItemDTO, error) {
	barcode = strings.TrimSpace(barcode)
	items, err := s.store.Items().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list items", "error", err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	for _, item := range items {
		if barcode != "" && item.Barcode == barcode {
			return ToItemDTO(item), nil
		}
	}
	return nil, errors.ErrNotFound("item")
}

// ImportItems creates items in bulk. Rows whose barcode already exists are
// skipped; invalid rows are reported and do not stop the import.
func (s *CatalogService) ImportItems(ctx context.Context, rows []CreateItemCommand) (*ImportResultDTO, error) {
	result := &ImportResultDTO{}
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.store.Items().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		barcodes := make(map[string]bool, len(existing))
		for _, item := range existing {
			if item.Barcode != "" {
				barcodes[item.Barcode] = true
			}
		}

		for i, row := range rows {
			details := itemDetails(row.Name, row.Barcode, row.Category, row.Brand, row.UnitPrice, row.Units)
			item, err := domain.NewItem(uuid.NewString(), details, row.OpeningStock)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			if item.Barcode != "" && barcodes[item.Barcode] {
				result.Skipped++
				continue
			}
			if err := s.store.Items().Upsert(ctx, item); err != nil {
				return fmt.Errorf("failed to save item: %w", err)
			}
			if item.Barcode != "" {
				barcodes[item.Barcode] = true
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to import items", "rows", len(rows), "error", err)
		return nil, fmt.Errorf("failed to import items: %w", err)
	}

	s.logger.Info("Imported items",
		"created", result.Created,
		"skipped", result.Skipped,
		"invalid", len(result.Errors),
	)
	return result, nil
}
