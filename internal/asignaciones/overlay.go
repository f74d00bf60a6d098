package asignaciones

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// overlayStore reads assignment state from asignacion_eventos, joined to the
// legacy monitores row by the (usuario_id, evento_id) pair, and mirrors every
// write into both tables inside one transaction so older code paths keep
// seeing consistent state.
type overlayStore struct {
	pool *pgxpool.Pool
}

const overlayJoin = `
	SELECT m.id, a.usuario_id, a.evento_id, a.enlace_token, a.max_jovenes, a.activo
	FROM asignacion_eventos a
	JOIN monitores m ON m.usuario_id = a.usuario_id AND m.evento_id = a.evento_id`

func (s *overlayStore) ResolveToken(ctx context.Context, token uuid.UUID) (*models.Asignacion, error) {
	return scanAsignacion(s.pool.QueryRow(ctx,
		overlayJoin+` WHERE a.enlace_token = $1 AND a.activo = true`, token))
}

func (s *overlayStore) GetByMonitorID(ctx context.Context, monitorID uuid.UUID) (*models.Asignacion, error) {
	return scanAsignacion(s.pool.QueryRow(ctx, overlayJoin+` WHERE m.id = $1`, monitorID))
}

func (s *overlayStore) ListActiveByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Asignacion, error) {
	rows, err := s.pool.Query(ctx,
		overlayJoin+` WHERE a.usuario_id = $1 AND a.activo = true ORDER BY a.creado_en DESC`, usuarioID)
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

func (s *overlayStore) Assign(ctx context.Context, usuarioID, eventoID uuid.UUID, maxJovenes *int) (*models.Asignacion, error) {
	token := uuid.New()
	var a *models.Asignacion
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var monitorID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO monitores (usuario_id, evento_id, enlace_token, max_jovenes)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			usuarioID, eventoID, token, maxJovenes).Scan(&monitorID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO asignacion_eventos (usuario_id, evento_id, enlace_token, max_jovenes)
			 VALUES ($1, $2, $3, $4)`,
			usuarioID, eventoID, token, maxJovenes)
		if err != nil {
			return err
		}
		a = &models.Asignacion{
			MonitorID:   monitorID,
			UsuarioID:   usuarioID,
			EventoID:    eventoID,
			EnlaceToken: token,
			MaxJovenes:  maxJovenes,
			Activo:      true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *overlayStore) Update(ctx context.Context, monitorID uuid.UUID, upd Update) (*models.Asignacion, error) {
	var a *models.Asignacion
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cur, err := scanAsignacion(tx.QueryRow(ctx, overlayJoin+` WHERE m.id = $1 FOR UPDATE OF a, m`, monitorID))
		if err != nil {
			return err
		}
		activo := cur.Activo
		if upd.Activo != nil {
			activo = *upd.Activo
		}
		maxJovenes := cur.MaxJovenes
		if upd.MaxJovenesSet {
			maxJovenes = upd.MaxJovenes
		}
		_, err = tx.Exec(ctx,
			`UPDATE asignacion_eventos SET activo = $1, max_jovenes = $2, actualizado_en = NOW()
			 WHERE usuario_id = $3 AND evento_id = $4`,
			activo, maxJovenes, cur.UsuarioID, cur.EventoID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE monitores SET activo = $1, max_jovenes = $2 WHERE id = $3`,
			activo, maxJovenes, monitorID)
		if err != nil {
			return err
		}
		cur.Activo = activo
		cur.MaxJovenes = maxJovenes
		a = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *overlayStore) RevokeToken(ctx context.Context, monitorID uuid.UUID) (*models.Asignacion, error) {
	token := uuid.New()
	var a *models.Asignacion
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cur, err := scanAsignacion(tx.QueryRow(ctx, overlayJoin+` WHERE m.id = $1 FOR UPDATE OF a, m`, monitorID))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE asignacion_eventos SET enlace_token = $1, actualizado_en = NOW()
			 WHERE usuario_id = $2 AND evento_id = $3`,
			token, cur.UsuarioID, cur.EventoID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE monitores SET enlace_token = $1 WHERE id = $2`, token, monitorID)
		if err != nil {
			return err
		}
		cur.EnlaceToken = token
		a = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *overlayStore) Remove(ctx context.Context, monitorID uuid.UUID) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var usuarioID, eventoID uuid.UUID
		err := tx.QueryRow(ctx,
			`DELETE FROM monitores WHERE id = $1 RETURNING usuario_id, evento_id`, monitorID).
			Scan(&usuarioID, &eventoID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			return err
		}
		_, err = tx.Exec(ctx,
			`DELETE FROM asignacion_eventos WHERE usuario_id = $1 AND evento_id = $2`,
			usuarioID, eventoID)
		return err
	})
}
