package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
)

// HoldingRepository implements portfolio.HoldingRepository.
//
// Expected schema:
//
//	CREATE TABLE holdings (
//	    id             UUID PRIMARY KEY,
//	    batch_id       UUID NOT NULL,
//	    seq            INT NOT NULL,
//	    symbol         TEXT NOT NULL,
//	    shares         DOUBLE PRECISION NOT NULL,
//	    purchase_price NUMERIC(18,6) NOT NULL,
//	    purchase_date  DATE NOT NULL,
//	    created_ts     TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new HoldingRepository
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{
		pool: pool,
	}
}

// InsertBatch stores the holdings as one immutable batch inside a single
// transaction: either every row commits or none does. Input order and
// duplicate lots are preserved (seq records the input position).
func (r *HoldingRepository) InsertBatch(ctx context.Context, holdings portfolio.Portfolio) (*portfolio.PersistedBatch, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, &portfolio.PersistenceError{Cause: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback(ctx)

	batchID := uuid.New()
	persisted := make(portfolio.Portfolio, 0, len(holdings))

	query := `
		INSERT INTO holdings (id, batch_id, seq, symbol, shares, purchase_price, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, h := range holdings {
		h.ID = uuid.New()
		if _, err := tx.Exec(ctx, query,
			h.ID,
			batchID,
			i,
			h.Symbol,
			h.Shares,
			h.PurchasePrice,
			h.Date.Time,
		); err != nil {
			return nil, &portfolio.PersistenceError{Cause: fmt.Errorf("insert holding %s: %w", h.Symbol, err)}
		}
		persisted = append(persisted, h)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &portfolio.PersistenceError{Cause: fmt.Errorf("commit tx: %w", err)}
	}

	log.Info().
		Str("batch_id", batchID.String()).
		Int("count", len(persisted)).
		Msg("Persisted holdings batch")

	return &portfolio.PersistedBatch{
		BatchID:       batchID,
		InsertedCount: len(persisted),
		Holdings:      persisted,
	}, nil
}

// GetBatch retrieves a persisted batch in its original input order.
func (r *HoldingRepository) GetBatch(ctx context.Context, batchID uuid.UUID) (portfolio.Portfolio, error) {
	query := `
		SELECT id, symbol, shares, purchase_price, purchase_date
		FROM holdings
		WHERE batch_id = $1
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var holdings portfolio.Portfolio
	for rows.Next() {
		var h portfolio.Holding
		if err := rows.Scan(&h.ID, &h.Symbol, &h.Shares, &h.PurchasePrice, &h.Date.Time); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return holdings, nil
}
