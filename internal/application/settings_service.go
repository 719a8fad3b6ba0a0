package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/inventory-core/pkg/errors"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// CreateCurrency adds a currency. Marking it default clears the flag on
// every other currency.
func (s *CatalogService) CreateCurrency(ctx context.Context, cmd CurrencyCommand) (*CurrencyDTO, error) {
	currency := &domain.Currency{
		ID:        uuid.NewString(),
		Code:      strings.ToUpper(strings.TrimSpace(cmd.Code)),
		Name:      cmd.Name,
		Symbol:    cmd.Symbol,
		Digits:    cmd.Digits,
		Rate:      cmd.Rate,
		IsDefault: cmd.IsDefault,
		CreatedAt: time.Now().UTC(),
	}
	if err := currency.Validate(); err != nil {
		return nil, err
	}

	if err := s.saveCurrency(ctx, currency); err != nil {
		s.logger.Error("Failed to create currency", "code", currency.Code, "error", err)
		return nil, err
	}
	return ToCurrencyDTO(currency), nil
}

// UpdateCurrency replaces a currency's fields
func (s *CatalogService) UpdateCurrency(ctx context.Context, id string, cmd CurrencyCommand) (*CurrencyDTO, error) {
	var updated *domain.Currency
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		currency, err := s.store.Currencies().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load currency: %w", err)
		}
		if currency == nil {
			return errors.ErrNotFoundWithID("currency", id)
		}

		currency.Code = strings.ToUpper(strings.TrimSpace(cmd.Code))
		currency.Name = cmd.Name
		currency.Symbol = cmd.Symbol
		currency.Digits = cmd.Digits
		currency.Rate = cmd.Rate
		currency.IsDefault = cmd.IsDefault
		if err := currency.Validate(); err != nil {
			return err
		}
		updated = currency
		return s.saveCurrency(ctx, currency)
	})
	if err != nil {
		s.logger.Error("Failed to update currency", "currencyId", id, "error", err)
		return nil, err
	}
	return ToCurrencyDTO(updated), nil
}

func (s *CatalogService) saveCurrency(ctx context.Context, currency *domain.Currency) error {
	return s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		if currency.IsDefault {
			others, err := s.store.Currencies().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list currencies: %w", err)
			}
			for _, other := range others {
				if other.ID == currency.ID || !other.IsDefault {
					continue
				}
				other.IsDefault = false
				if err := s.store.Currencies().Upsert(ctx, other); err != nil {
					return fmt.Errorf("failed to save currency: %w", err)
				}
			}
		}
		if err := s.store.Currencies().Upsert(ctx, currency); err != nil {
			return fmt.Errorf("failed to save currency: %w", err)
		}
		return nil
	})
}

// ListCurrencies returns every currency
func (s *CatalogService) ListCurrencies(ctx context.Context) ([]*CurrencyDTO, error) {
	currencies, err := s.store.Currencies().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list currencies", "error", err)
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return mapSlice(currencies, ToCurrencyDTO), nil
}

// DeleteCurrency removes a currency
func (s *CatalogService) DeleteCurrency(ctx context.Context, id string) error {
	if err := s.store.Currencies().Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete currency", "currencyId", id, "error", err)
		return fmt.Errorf("failed to delete currency: %w", err)
	}
	return nil
}

// CreatePaymentType adds a payment type
func (s *CatalogService) CreatePaymentType(ctx context.Context, cmd PaymentTypeCommand) (*PaymentTypeDTO, error) {
	paymentType := &domain.PaymentType{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(cmd.Name),
		CreatedAt: time.Now().UTC(),
	}
	if err := paymentType.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.PaymentTypes().Upsert(ctx, paymentType); err != nil {
		s.logger.Error("Failed to create payment type", "name", paymentType.Name, "error", err)
		return nil, fmt.Errorf("failed to create payment type: %w", err)
	}
	return ToPaymentTypeDTO(paymentType), nil
}

// UpdatePaymentType renames a payment type
func (s *CatalogService) UpdatePaymentType(ctx context.Context, id string, cmd PaymentTypeCommand) (*PaymentTypeDTO, error) {
	var updated *domain.PaymentType
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		paymentType, err := s.store.PaymentTypes().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load payment type: %w", err)
		}
		if paymentType == nil {
			return errors.ErrNotFoundWithID("payment type", id)
		}

		paymentType.Name = strings.TrimSpace(cmd.Name)
		if err := paymentType.Validate(); err != nil {
			return err
		}
		updated = paymentType
		return s.store.PaymentTypes().Upsert(ctx, paymentType)
	})
	if err != nil {
		s.logger.Error("Failed to update payment type", "paymentTypeId", id, "error", err)
		return nil, err
	}
	return ToPaymentTypeDTO(updated), nil
}

// ListPaymentTypes returns every payment type
func (s *CatalogService) ListPaymentTypes(ctx context.Context) ([]*PaymentTypeDTO, error) {
	paymentTypes, err := s.store.PaymentTypes().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list payment types", "error", err)
		return nil, fmt.Errorf("failed to list payment types: %w", err)
	}
	return mapSlice(paymentTypes, ToPaymentTypeDTO), nil
}

// DeletePaymentType removes a payment type
func (s *CatalogService) DeletePaymentType(ctx context.Context, id string) error {
	if err := s.store.PaymentTypes().Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete payment type", "paymentTypeId", id, "error", err)
		return fmt.Errorf("failed to delete payment type: %w", err)
	}
	return nil
}

// AddSettingOption stores an option in its category. Adding a name that is
// already present returns the stored option.
func (s *CatalogService) AddSettingOption(ctx context.Context, cmd SettingOptionCommand) (*SettingOptionDTO, error) {
	category, err := domain.ParseSettingCategory(cmd.Category)
	if err != nil {
		return nil, err
	}
	option, err := domain.NewSettingOption(category, cmd.Name, cmd.Symbol, cmd.Parent)
	if err != nil {
		return nil, err
	}

	var stored *domain.SettingRecord
	err = s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		record := domain.NewSettingRecord(option)
		existing, err := s.store.Settings().Get(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to load setting: %w", err)
		}
		if existing != nil {
			stored = existing
			return nil
		}
		stored = record
		return s.store.Settings().Upsert(ctx, record)
	})
	if err != nil {
		s.logger.Error("Failed to add setting option", "category", cmd.Category, "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to add setting option: %w", err)
	}
	return ToSettingOptionDTO(stored), nil
}

// ListSettingOptions returns the options of one category
func (s *CatalogService) ListSettingOptions(ctx context.Context, categoryName string) ([]*SettingOptionDTO, error) {
	category, err := domain.ParseSettingCategory(categoryName)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Settings().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list settings", "category", categoryName, "error", err)
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	out := make([]*SettingOptionDTO, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, ToSettingOptionDTO(r))
		}
	}
	return out, nil
}

// DeleteSettingOption removes an option. Ids belonging to another category
// are ignored.
func (s *CatalogService) DeleteSettingOption(ctx context.Context, categoryName, id string) error {
	category, err := domain.ParseSettingCategory(categoryName)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(id, string(category)+":") {
		return nil
	}

	if err := s.store.Settings().Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete setting option", "settingId", id, "error", err)
		return fmt.Errorf("failed to delete setting option: %w", err)
	}
	return nil
}
