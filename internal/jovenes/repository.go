package jovenes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// ErrEventoMismatch is returned when a joven would be moved to a monitor
// assigned to a different event.
var ErrEventoMismatch = errors.New("monitor belongs to a different event")

// Repository handles joven persistence for the monitor and admin surfaces.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a jovenes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Documentos and pagos are aggregated in scalar subqueries; joining both
// would multiply the payment sums by the document count.
const resumenQuery = `
	SELECT j.id, j.nombre, j.apellidos, j.evento_id, j.creado_en,
	       (SELECT COUNT(*) FROM documentos d WHERE d.joven_id = j.id),
	       (SELECT COUNT(*) FROM pagos p WHERE p.joven_id = j.id),
	       (SELECT COALESCE(SUM(p.cantidad) FILTER (WHERE p.pagado), 0) FROM pagos p WHERE p.joven_id = j.id),
	       (SELECT COALESCE(SUM(p.descuento), 0) FROM pagos p WHERE p.joven_id = j.id),
	       COALESCE((SELECT bool_or(p.es_especial) FROM pagos p WHERE p.joven_id = j.id), false)
	FROM jovenes j`

func scanResumenes(rows pgx.Rows) ([]models.JovenResumen, error) {
	defer rows.Close()
	list := []models.JovenResumen{}
	for rows.Next() {
		var r models.JovenResumen
		if err := rows.Scan(&r.ID, &r.Nombre, &r.Apellidos, &r.EventoID, &r.CreadoEn,
			&r.DocumentosCount, &r.PagosCount, &r.TotalPagado, &r.DescuentoAplicado, &r.TratoEspecial); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// ListByUsuario returns resumen rows for every joven under the usuario's
// monitor assignments, optionally restricted to one event.
func (r *Repository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID, eventoID *uuid.UUID) ([]models.JovenResumen, error) {
	rows, err := r.pool.Query(ctx, resumenQuery+`
		 JOIN monitores m ON m.id = j.monitor_id
		 WHERE m.usuario_id = $1 AND ($2::uuid IS NULL OR j.evento_id = $2)
		 ORDER BY j.apellidos, j.nombre`, usuarioID, eventoID)
	if err != nil {
		return nil, err
	}
	return scanResumenes(rows)
}

// ListAll returns resumen rows across all monitors, optionally restricted to
// one event. Admin surface only.
func (r *Repository) ListAll(ctx context.Context, eventoID *uuid.UUID) ([]models.JovenResumen, error) {
	rows, err := r.pool.Query(ctx, resumenQuery+`
		 WHERE ($1::uuid IS NULL OR j.evento_id = $1)
		 ORDER BY j.apellidos, j.nombre`, eventoID)
	if err != nil {
		return nil, err
	}
	return scanResumenes(rows)
}

// Get loads a joven row.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Joven, error) {
	var j models.Joven
	err := r.pool.QueryRow(ctx,
		`SELECT id, nombre, apellidos, monitor_id, evento_id, creado_en, actualizado_en
		 FROM jovenes WHERE id = $1`, id).
		Scan(&j.ID, &j.Nombre, &j.Apellidos, &j.MonitorID, &j.EventoID, &j.CreadoEn, &j.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// OwnerUsuarioID returns the usuario that owns a joven through its monitor.
func (r *Repository) OwnerUsuarioID(ctx context.Context, jovenID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT m.usuario_id FROM jovenes j JOIN monitores m ON m.id = j.monitor_id
		 WHERE j.id = $1`, jovenID).Scan(&id)
	return id, err
}

// AccessToken returns the joven's self-service token, if one was issued.
func (r *Repository) AccessToken(ctx context.Context, jovenID uuid.UUID) (*uuid.UUID, error) {
	var token uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT token FROM joven_accesos WHERE joven_id = $1`, jovenID).Scan(&token)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Create inserts a joven under an explicit monitor assignment together with
// its access token.
func (r *Repository) Create(ctx context.Context, nombre, apellidos string, monitorID, eventoID uuid.UUID) (*models.Joven, uuid.UUID, error) {
	var j models.Joven
	var token uuid.UUID
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO jovenes (nombre, apellidos, monitor_id, evento_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, nombre, apellidos, monitor_id, evento_id, creado_en, actualizado_en`,
			nombre, apellidos, monitorID, eventoID).
			Scan(&j.ID, &j.Nombre, &j.Apellidos, &j.MonitorID, &j.EventoID, &j.CreadoEn, &j.ActualizadoEn); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO joven_accesos (joven_id) VALUES ($1) RETURNING token`, j.ID).Scan(&token)
	})
	if err != nil {
		return nil, uuid.Nil, err
	}
	return &j, token, nil
}

// Update patches a joven's name fields and optionally moves it to another
// monitor assignment. A joven's evento_id always matches its monitor's, so a
// move is only valid within the same event.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, nombre, apellidos *string, monitorID *uuid.UUID) (*models.Joven, error) {
	var j models.Joven
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if monitorID != nil {
			var jovenEvento uuid.UUID
			if err := tx.QueryRow(ctx,
				`SELECT evento_id FROM jovenes WHERE id = $1 FOR UPDATE`, id).Scan(&jovenEvento); err != nil {
				return err
			}
			var monitorEvento uuid.UUID
			err := tx.QueryRow(ctx,
				`SELECT evento_id FROM monitores WHERE id = $1`, *monitorID).Scan(&monitorEvento)
			switch {
			case err == pgx.ErrNoRows:
				// Unknown monitor falls through to the foreign key.
			case err != nil:
				return err
			case monitorEvento != jovenEvento:
				return ErrEventoMismatch
			}
		}
		return tx.QueryRow(ctx,
			`UPDATE jovenes SET
			   nombre = COALESCE($1, nombre),
			   apellidos = COALESCE($2, apellidos),
			   monitor_id = COALESCE($3, monitor_id),
			   actualizado_en = now()
			 WHERE id = $4
			 RETURNING id, nombre, apellidos, monitor_id, evento_id, creado_en, actualizado_en`,
			nombre, apellidos, monitorID, id).
			Scan(&j.ID, &j.Nombre, &j.Apellidos, &j.MonitorID, &j.EventoID, &j.CreadoEn, &j.ActualizadoEn)
	})
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Delete removes a joven and everything hanging off it in one transaction,
// returning the stored file paths so the caller can clean the disk after the
// commit. File removal never blocks the delete.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var rutas []string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`DELETE FROM documentos WHERE joven_id = $1 RETURNING ruta_interna`, id)
		if err != nil {
			return err
		}
		rutas, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pagos WHERE joven_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM joven_accesos WHERE joven_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM jovenes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rutas, nil
}

// ListPagos returns a joven's payment installments in order.
func (r *Repository) ListPagos(ctx context.Context, jovenID uuid.UUID) ([]models.Pago, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, joven_id, plazo_numero, cantidad, pagado, es_especial,
		        COALESCE(nota_especial, ''), COALESCE(descuento, 0), fecha_pago, registrado_por, creado_en
		 FROM pagos WHERE joven_id = $1 ORDER BY plazo_numero`, jovenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Pago{}
	for rows.Next() {
		var p models.Pago
		if err := rows.Scan(&p.ID, &p.JovenID, &p.PlazoNumero, &p.Cantidad, &p.Pagado, &p.EsEspecial,
			&p.NotaEspecial, &p.Descuento, &p.FechaPago, &p.RegistradoPor, &p.CreadoEn); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
