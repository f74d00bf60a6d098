package retention

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the pgx-backed DocStore.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a retention store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListExpired returns documents of events that ended before the cutoff.
// Events without an end date never expire.
func (s *Store) ListExpired(ctx context.Context, cutoff time.Time) ([]ExpiredDoc, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT d.id, d.ruta_interna
		 FROM documentos d
		 JOIN jovenes j ON j.id = d.joven_id
		 JOIN eventos e ON e.id = j.evento_id
		 WHERE e.fecha_fin IS NOT NULL AND e.fecha_fin < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []ExpiredDoc
	for rows.Next() {
		var d ExpiredDoc
		if err := rows.Scan(&d.ID, &d.RutaInterna); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteBatch removes document rows in one statement.
func (s *Store) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM documentos WHERE id = ANY($1)`, ids)
	return err
}
