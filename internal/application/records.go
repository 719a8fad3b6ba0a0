package application

import (
	"context"
	"fmt"

	"github.com/ledgerline/inventory-core/internal/domain"
)

// nextID issues the next prefix-NNNN id. Existing ids are passed as the
// observed maximum so documents imported with higher numbers are never
// collided with.
func nextID[T domain.Record[T]](ctx context.Context, store domain.Store, records domain.Collection[T], prefix string) (string, error) {
	existing, err := records.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list %s records: %w", prefix, err)
	}

	ids := make([]string, len(existing))
	for i, r := range existing {
		ids[i] = r.RecordID()
	}

	n, err := store.NextSequence(ctx, prefix, domain.MaxSequentialNumber(prefix, ids))
	if err != nil {
		return "", fmt.Errorf("failed to reserve %s sequence: %w", prefix, err)
	}
	return domain.FormatSequentialID(prefix, n), nil
}

func returnsForPurchase(ctx context.Context, store domain.Store, purchaseID string) ([]*domain.PurchaseReturn, error) {
	all, err := store.PurchaseReturns().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase returns: %w", err)
	}

	var out []*domain.PurchaseReturn
	for _, r := range all {
		if r.PurchaseID == purchaseID {
			out = append(out, r)
		}
	}
	return out, nil
}
