package asignaciones

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// legacyStore keeps all assignment state on the monitores row. Capacity is
// the fixed legacy cap; editing max_jovenes is rejected.
type legacyStore struct {
	pool *pgxpool.Pool
}

func scanAsignacion(row interface{ Scan(...any) error }) (*models.Asignacion, error) {
	var a models.Asignacion
	err := row.Scan(&a.MonitorID, &a.UsuarioID, &a.EventoID, &a.EnlaceToken, &a.MaxJovenes, &a.Activo)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const legacyColumns = `id, usuario_id, evento_id, enlace_token, max_jovenes, activo`

func (s *legacyStore) ResolveToken(ctx context.Context, token uuid.UUID) (*models.Asignacion, error) {
	return scanAsignacion(s.pool.QueryRow(ctx,
		`SELECT `+legacyColumns+` FROM monitores WHERE enlace_token = $1 AND activo = true`, token))
}

func (s *legacyStore) GetByMonitorID(ctx context.Context, monitorID uuid.UUID) (*models.Asignacion, error) {
	return scanAsignacion(s.pool.QueryRow(ctx,
		`SELECT `+legacyColumns+` FROM monitores WHERE id = $1`, monitorID))
}

func (s *legacyStore) ListActiveByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Asignacion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+legacyColumns+` FROM monitores
		 WHERE usuario_id = $1 AND activo = true ORDER BY creado_en DESC`, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Asignacion
	for rows.Next() {
		a, err := scanAsignacion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (s *legacyStore) Assign(ctx context.Context, usuarioID, eventoID uuid.UUID, maxJovenes *int) (*models.Asignacion, error) {
	if maxJovenes != nil {
		return nil, ErrCapacityUnsupported
	}
	return scanAsignacion(s.pool.QueryRow(ctx,
		`INSERT INTO monitores (usuario_id, evento_id) VALUES ($1, $2)
		 RETURNING `+legacyColumns, usuarioID, eventoID))
}

func (s *legacyStore) Update(ctx context.Context, monitorID uuid.UUID, upd Update) (*models.Asignacion, error) {
	if upd.MaxJovenesSet {
		return nil, ErrCapacityUnsupported
	}
	if upd.Activo == nil {
		return s.GetByMonitorID(ctx, monitorID)
	}
	return scanAsignacion(s.pool.QueryRow(ctx,
		`UPDATE monitores SET activo = $1 WHERE id = $2 RETURNING `+legacyColumns,
		*upd.Activo, monitorID))
}

func (s *legacyStore) RevokeToken(ctx context.Context, monitorID uuid.UUID) (*models.Asignacion, error) {
	return scanAsignacion(s.pool.QueryRow(ctx,
		`UPDATE monitores SET enlace_token = $1 WHERE id = $2 RETURNING `+legacyColumns,
		uuid.New(), monitorID))
}

func (s *legacyStore) Remove(ctx context.Context, monitorID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM monitores WHERE id = $1`, monitorID)
	return err
}
