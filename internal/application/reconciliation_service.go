package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
	"github.com/ledgerline/inventory-core/pkg/tracing"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// ReconciliationService turns physical counts into inventory audits and
// commits them to stock through the ledger
type ReconciliationService struct {
	store   domain.Store
	ledger  *LedgerService
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	store domain.Store,
	ledger *LedgerService,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		store:   store,
		ledger:  ledger,
		metrics: m,
		logger:  logger.WithComponent("reconciliation"),
		tracer:  otel.Tracer("inventory-core/reconciliation"),
	}
}

// CreateAuditFromPhysicalCount snapshots current stock against the counted
// quantities and stores a Draft audit. Rows naming no known item are dropped.
func (s *ReconciliationService) CreateAuditFromPhysicalCount(ctx context.Context, cmd CreateAuditCommand) (*AuditDTO, error) {
	created, err := tracing.TracedOperation(ctx, s.tracer, "reconciliation.create_audit", func(ctx context.Context) (*domain.InventoryAudit, error) {
		var created *domain.InventoryAudit
		err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
			var err error
			created, err = s.createAudit(ctx, cmd)
			return err
		})
		return created, err
	}, attribute.Int("audit.rows", len(cmd.Rows)))
	if err != nil {
		s.logger.Error("Failed to create audit", "rows", len(cmd.Rows), "error", err)
		return nil, fmt.Errorf("failed to create audit: %w", err)
	}

	s.logger.Info("Created inventory audit",
		"auditId", created.ID,
		"rows", len(created.Items),
		"totalImpact", created.TotalImpact,
	)
	return ToAuditDTO(created), nil
}

func (s *ReconciliationService) createAudit(ctx context.Context, cmd CreateAuditCommand) (*domain.InventoryAudit, error) {
	items, err := s.store.Items().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	byID := make(map[string]*domain.Item, len(items))
	byBarcode := make(map[string]string)
	for _, item := range items {
		byID[item.ID] = item
		if item.Barcode != "" {
			if _, taken := byBarcode[item.Barcode]; !taken {
				byBarcode[item.Barcode] = item.ID
			}
		}
	}

	counts := make([]domain.PhysicalCount, 0, len(cmd.Rows))
	for _, row := range cmd.Rows {
		itemID := strings.TrimSpace(row.ItemID)
		if itemID == "" {
			itemID = byBarcode[strings.TrimSpace(row.Barcode)]
		}
		counts = append(counts, domain.PhysicalCount{ItemID: itemID, PhysicalQty: row.PhysicalQty})
	}

	id, err := nextID(ctx, s.store, s.store.Audits(), domain.AuditIDPrefix)
	if err != nil {
		return nil, err
	}

	audit := domain.NewInventoryAudit(id, documentDate(cmd.Date, time.Now().UTC()), counts, byID, cmd.CreatedBy)
	if err := s.store.Audits().Upsert(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to save audit: %w", err)
	}
	if err := s.store.RecordEvents(ctx, domain.AggregateInventoryAudit, id, &domain.InventoryAuditCreatedEvent{
		AuditID:     id,
		RowCount:    len(audit.Items),
		TotalImpact: audit.TotalImpact,
		CreatedAt:   audit.CreatedAt,
	}); err != nil {
		return nil, err
	}
	return audit, nil
}

// AuthorizeAndApplyAudit overwrites stock with the audit's physical
// quantities and marks it Adjusted, in one ledger write. An Adjusted audit is
// returned unchanged; an unknown audit yields nil.
func (s *ReconciliationService) AuthorizeAndApplyAudit(ctx context.Context, cmd ApplyAuditCommand) (*AuditDTO, error) {
	var (
		result      *domain.InventoryAudit
		adjustedNow bool
	)
	err := s.ledger.writeStock(ctx, "apply_audit", func(ctx context.Context) (stockMutation, error) {
		audit, err := s.store.Audits().Get(ctx, cmd.AuditID)
		if err != nil {
			return stockMutation{}, fmt.Errorf("failed to load audit: %w", err)
		}
		if audit == nil {
			return stockMutation{referenceID: cmd.AuditID}, nil
		}
		if audit.IsAdjusted() {
			result = audit
			return stockMutation{referenceID: audit.ID}, nil
		}

		changed, err := s.ledger.overwriteStock(ctx, audit.StockOverwrites(), domain.ReasonAuditAdjustment, audit.ID)
		if err != nil {
			return stockMutation{}, err
		}

		now := time.Now().UTC()
		if err := audit.MarkAdjusted(cmd.Actor, now); err != nil {
			return stockMutation{}, err
		}
		if err := s.store.Audits().Upsert(ctx, audit); err != nil {
			return stockMutation{}, fmt.Errorf("failed to save audit: %w", err)
		}
		if err := s.store.RecordEvents(ctx, domain.AggregateInventoryAudit, audit.ID, &domain.InventoryAuditAdjustedEvent{
			AuditID:    audit.ID,
			AdjustedBy: cmd.Actor,
			RowCount:   len(audit.Items),
			AdjustedAt: now,
		}); err != nil {
			return stockMutation{}, err
		}

		result = audit
		adjustedNow = true
		return stockMutation{referenceID: audit.ID, itemsChanged: changed}, nil
	})
	if err != nil {
		s.logger.Error("Failed to apply audit", "auditId", cmd.AuditID, "error", err)
		return nil, fmt.Errorf("failed to apply audit: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	if adjustedNow {
		s.metrics.RecordAuditAdjusted()
		s.logger.Audit(ctx, "apply_inventory_audit", "inventory_audit", result.ID, cmd.Actor, map[string]any{
			"rows":        len(result.Items),
			"totalImpact": result.TotalImpact,
		})
	}
	return ToAuditDTO(result), nil
}

// GetAudit retrieves an audit by id
func (s *ReconciliationService) GetAudit(ctx context.Context, id string) (*AuditDTO, error) {
	audit, err := s.store.Audits().Get(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get audit", "auditId", id, "error", err)
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	if audit == nil {
		return nil, errors.ErrNotFoundWithID("inventory audit", id)
	}
	return ToAuditDTO(audit), nil
}

// ListAudits returns every audit ordered by id
func (s *ReconciliationService) ListAudits(ctx context.Context) ([]*AuditDTO, error) {
	audits, err := s.store.Audits().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list audits", "error", err)
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	return mapSlice(audits, ToAuditDTO), nil
}

// DeleteAudit removes a Draft audit. Adjusted audits are kept as history and
// cannot be deleted. An unknown id is a no-op.
func (s *ReconciliationService) DeleteAudit(ctx context.Context, id string) error {
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		audit, err := s.store.Audits().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load audit: %w", err)
		}
		if audit == nil {
			return nil
		}
		if audit.IsAdjusted() {
			return domain.ErrAuditAlreadyAdjusted
		}
		return s.store.Audits().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("Failed to delete audit", "auditId", id, "error", err)
		return fmt.Errorf("failed to delete audit: %w", err)
	}
	return nil
}
