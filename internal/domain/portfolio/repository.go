package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// PersistedBatch is the result of committing a batch of holdings.
// Holdings come back in input order with store-assigned IDs attached.
type PersistedBatch struct {
	BatchID       uuid.UUID `json:"batchId"`
	InsertedCount int       `json:"inserted"`
	Holdings      Portfolio `json:"data"`
}

// HoldingRepository persists normalized holdings.
type HoldingRepository interface {
	// InsertBatch stores the holdings as a single immutable batch: either the
	// whole batch commits or none of it. Order is preserved, duplicates are
	// not collapsed. Failures surface as *PersistenceError.
	InsertBatch(ctx context.Context, holdings Portfolio) (*PersistedBatch, error)

	// GetBatch reads a persisted batch back in its original input order.
	// An unknown batch id yields an empty portfolio, not an error.
	GetBatch(ctx context.Context, batchID uuid.UUID) (Portfolio, error)
}
