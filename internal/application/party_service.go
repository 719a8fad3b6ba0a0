package application

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/inventory-core/pkg/errors"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// partyBook adapts suppliers and clients to the shared party operations
type partyBook[T domain.Record[T]] struct {
	resource   string
	prefix     string
	collection domain.Collection[T]
	create     func(id string, details domain.PartyDetails) (T, error)
	party      func(T) *domain.Party
}

func (s *CatalogService) suppliers() partyBook[*domain.Supplier] {
	return partyBook[*domain.Supplier]{
		resource:   "supplier",
		prefix:     domain.SupplierIDPrefix,
		collection: s.store.Suppliers(),
		create:     domain.NewSupplier,
		party: func(p *domain.Supplier) *domain.Party {
			if p == nil {
				return nil
			}
			return &p.Party
		},
	}
}

func (s *CatalogService) clients() partyBook[*domain.Client] {
	return partyBook[*domain.Client]{
		resource:   "client",
		prefix:     domain.ClientIDPrefix,
		collection: s.store.Clients(),
		create:     domain.NewClient,
		party: func(p *domain.Client) *domain.Party {
			if p == nil {
				return nil
			}
			return &p.Party
		},
	}
}

func partyDetails(cmd PartyCommand) domain.PartyDetails {
	return domain.PartyDetails{
		Name:    cmd.Name,
		Phone:   cmd.Phone,
		Email:   cmd.Email,
		Address: cmd.Address,
	}
}

func createParty[T domain.Record[T]](ctx context.Context, s *CatalogService, book partyBook[T], cmd PartyCommand) (*PartyDTO, error) {
	var created T
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		id, err := nextID(ctx, s.store, book.collection, book.prefix)
		if err != nil {
			return err
		}
		record, err := book.create(id, partyDetails(cmd))
		if err != nil {
			return err
		}
		created = record
		return book.collection.Upsert(ctx, record)
	})
	if err != nil {
		s.logger.Error("Failed to create "+book.resource, "name", cmd.Name, "error", err)
		return nil, err
	}
	return ToPartyDTO(book.party(created)), nil
}

func updateParty[T domain.Record[T]](ctx context.Context, s *CatalogService, book partyBook[T], id string, cmd PartyCommand) (*PartyDTO, error) {
	var updated T
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		record, err := book.collection.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", book.resource, err)
		}
		if book.party(record) == nil {
			return errors.ErrNotFoundWithID(book.resource, id)
		}
		if err := book.party(record).Update(partyDetails(cmd)); err != nil {
			return err
		}
		updated = record
		return book.collection.Upsert(ctx, record)
	})
	if err != nil {
		s.logger.Error("Failed to update "+book.resource, "id", id, "error", err)
		return nil, err
	}
	return ToPartyDTO(book.party(updated)), nil
}

func getParty[T domain.Record[T]](ctx context.Context, s *CatalogService, book partyBook[T], id string) (*PartyDTO, error) {
	record, err := book.collection.Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get "+book.resource, "id", id, "error", err)
		return nil, fmt.Errorf("failed to get %s: %w", book.resource, err)
	}
	if book.party(record) == nil {
		return nil, errors.ErrNotFoundWithID(book.resource, id)
	}
	return ToPartyDTO(book.party(record)), nil
}

func listParties[T domain.Record[T]](ctx context.Context, s *CatalogService, book partyBook[T]) ([]*PartyDTO, error) {
	records, err := book.collection.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list "+book.resource+"s", "error", err)
		return nil, fmt.Errorf("failed to list %ss: %w", book.resource, err)
	}
	out := make([]*PartyDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToPartyDTO(book.party(r)))
	}
	return out, nil
}

func deleteParty[T domain.Record[T]](ctx context.Context, s *CatalogService, book partyBook[T], id string) error {
	if err := book.collection.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete "+book.resource, "id", id, "error", err)
		return fmt.Errorf("failed to delete %s: %w", book.resource, err)
	}
	return nil
}

// CreateSupplier adds a supplier with the next Sup-NNNN id
func (s *CatalogService) CreateSupplier(ctx context.Context, cmd PartyCommand) (*PartyDTO, error) {
	return createParty(ctx, s, s.suppliers(), cmd)
}

// UpdateSupplier replaces a supplier's contact fields
func (s *CatalogService) UpdateSupplier(ctx context.Context, id string, cmd PartyCommand) (*PartyDTO, error) {
	return updateParty(ctx, s, s.suppliers(), id, cmd)
}

// GetSupplier retrieves a supplier by id
func (s *CatalogService) GetSupplier(ctx context.Context, id string) (*PartyDTO, error) {
	return getParty(ctx, s, s.suppliers(), id)
}

// ListSuppliers returns every supplier ordered by id
func (s *CatalogService) ListSuppliers(ctx context.Context) ([]*PartyDTO, error) {
	return listParties(ctx, s, s.suppliers())
}

// DeleteSupplier removes a supplier
func (s *CatalogService) DeleteSupplier(ctx context.Context, id string) error {
	return deleteParty(ctx, s, s.suppliers(), id)
}

// CreateClient adds a client with the next Cli-NNNN id
func (s *CatalogService) CreateClient(ctx context.Context, cmd PartyCommand) (*PartyDTO, error) {
	return createParty(ctx, s, s.clients(), cmd)
}

// UpdateClient replaces a client's contact fields
func (s *CatalogService) UpdateClient(ctx context.Context, id string, cmd PartyCommand) (*PartyDTO, error) {
	return updateParty(ctx, s, s.clients(), id, cmd)
}

// GetClient retrieves a client by id
func (s *CatalogService) GetClient(ctx context.Context, id string) (*PartyDTO, error) {
	return getParty(ctx, s, s.clients(), id)
}

// ListClients returns every client ordered by id
func (s *CatalogService) ListClients(ctx context.Context) ([]*PartyDTO, error) {
	return listParties(ctx, s, s.clients())
}

// DeleteClient removes a client
func (s *CatalogService) DeleteClient(ctx context.Context, id string) error {
	return deleteParty(ctx, s, s.clients(), id)
}

// CreateVoucher records a settlement against an existing supplier or client
func (s *CatalogService) CreateVoucher(ctx context.Context, cmd VoucherCommand) (*VoucherDTO, error) {
	partyType, err := domain.ParsePartyType(cmd.PartyType)
	if err != nil {
		return nil, err
	}

	var created *domain.Voucher
	err = s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireParty(ctx, partyType, cmd.PartyID); err != nil {
			return err
		}

		id, err := nextID(ctx, s.store, s.store.Vouchers(), domain.VoucherIDPrefix)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		voucher := &domain.Voucher{
			ID:            id,
			PartyType:     partyType,
			PartyID:       cmd.PartyID,
			Date:          documentDate(cmd.Date, now),
			Amount:        cmd.Amount,
			PaymentTypeID: cmd.PaymentTypeID,
			CurrencyID:    cmd.CurrencyID,
			Note:          cmd.Note,
			CreatedAt:     now,
		}
		if err := voucher.Validate(); err != nil {
			return err
		}
		created = voucher
		return s.store.Vouchers().Upsert(ctx, voucher)
	})
	if err != nil {
		s.logger.Error("Failed to create voucher", "partyType", cmd.PartyType, "partyId", cmd.PartyID, "error", err)
		return nil, err
	}

	s.logger.Info("Created voucher", "voucherId", created.ID, "amount", created.Amount)
	return ToVoucherDTO(created), nil
}

func (s *CatalogService) requireParty(ctx context.Context, partyType domain.PartyType, id string) error {
	var found bool
	switch partyType {
	case domain.PartyTypeSupplier:
		supplier, err := s.store.Suppliers().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load supplier: %w", err)
		}
		found = supplier != nil
	case domain.PartyTypeClient:
		client, err := s.store.Clients().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load client: %w", err)
		}
		found = client != nil
	}
	if !found {
		return errors.ErrNotFoundWithID(string(partyType), id)
	}
	return nil
}

// GetVoucher retrieves a voucher by id
func (s *CatalogService) GetVoucher(ctx context.Context, id string) (*VoucherDTO, error) {
	voucher, err := s.store.Vouchers().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get voucher", "voucherId", id, "error", err)
		return nil, fmt.Errorf("failed to get voucher: %w", err)
	}
	if voucher == nil {
		return nil, errors.ErrNotFoundWithID("voucher", id)
	}
	return ToVoucherDTO(voucher), nil
}

// ListVouchers returns every voucher ordered by id
func (s *CatalogService) ListVouchers(ctx context.Context) ([]*VoucherDTO, error) {
	vouchers, err := s.store.Vouchers().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list vouchers", "error", err)
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return mapSlice(vouchers, ToVoucherDTO), nil
}

// DeleteVoucher removes a voucher
func (s *CatalogService) DeleteVoucher(ctx context.Context, id string) error {
	if err := s.store.Vouchers().Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete voucher", "voucherId", id, "error", err)
		return fmt.Errorf("failed to delete voucher: %w", err)
	}
	return nil
}

// PartyBalance computes what is still open with a supplier or client
func (s *CatalogService) PartyBalance(ctx context.Context, partyTypeName, id string) (*BalanceDTO, error) {
	partyType, err := domain.ParsePartyType(partyTypeName)
	if err != nil {
		return nil, err
	}

	var balance float64
	err = s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireParty(ctx, partyType, id); err != nil {
			return err
		}
		vouchers, err := s.store.Vouchers().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list vouchers: %w", err)
		}

		if partyType == domain.PartyTypeClient {
			sales, err := s.store.Sales().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sales: %w", err)
			}
			balance = domain.ClientBalance(id, sales, vouchers)
			return nil
		}

		purchases, err := s.store.Purchases().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list purchases: %w", err)
		}
		returns, err := s.store.PurchaseReturns().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list purchase returns: %w", err)
		}
		balance = domain.SupplierBalance(id, purchases, returns, vouchers)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to compute balance", "partyType", partyTypeName, "partyId", id, "error", err)
		return nil, err
	}

	return &BalanceDTO{PartyType: string(partyType), PartyID: id, Balance: balance}, nil
}
