package asignaciones

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Capabilities describes which optional schema pieces this database has.
// Probed once at process start and injected; a schema migration therefore
// requires a restart. That trade-off avoids an information_schema query on
// every request.
type Capabilities struct {
	// OverlayTable is true when asignacion_eventos exists. Per-assignment
	// token/capacity/active state then overrides the legacy monitores row.
	OverlayTable bool
}

// Probe inspects information_schema for the optional assignment table.
func Probe(ctx context.Context, pool *pgxpool.Pool) (Capabilities, error) {
	var caps Capabilities
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM information_schema.tables
		   WHERE table_schema = current_schema() AND table_name = 'asignacion_eventos'
		 )`).Scan(&caps.OverlayTable)
	if err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}

// NewStore returns the strategy matching the probed schema.
func NewStore(pool *pgxpool.Pool, caps Capabilities) Store {
	if caps.OverlayTable {
		return &overlayStore{pool: pool}
	}
	return &legacyStore{pool: pool}
}
