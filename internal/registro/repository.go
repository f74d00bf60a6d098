package registro

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// ErrGroupFull is returned when a registration would exceed the assignment's
// participant limit.
var ErrGroupFull = errors.New("group is at capacity")

// Repository handles the persistence behind registration links.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registro repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LinkInfo is the public display data behind a registration link, plus the
// monitor contact used for notifications.
type LinkInfo struct {
	EventoNombre     string
	EventoTipo       string
	FechaInicio      *time.Time
	FechaFin         *time.Time
	MonitorNombre    string
	MonitorEmail     string
	NotifyEmail      string
	NotifyHabilitada bool
}

// GetLinkInfo loads event and monitor display data for an assignment.
func (r *Repository) GetLinkInfo(ctx context.Context, usuarioID, eventoID uuid.UUID) (*LinkInfo, error) {
	var info LinkInfo
	err := r.pool.QueryRow(ctx,
		`SELECT e.nombre, e.tipo, e.fecha_inicio, e.fecha_fin,
		        u.nombre_mostrado, u.email,
		        COALESCE(u.notificacion_email, u.email),
		        COALESCE(u.notificacion_email_habilitada, true)
		 FROM usuarios u, eventos e
		 WHERE u.id = $1 AND e.id = $2 AND e.activo = true`,
		usuarioID, eventoID).
		Scan(&info.EventoNombre, &info.EventoTipo, &info.FechaInicio, &info.FechaFin,
			&info.MonitorNombre, &info.MonitorEmail, &info.NotifyEmail, &info.NotifyHabilitada)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateJoven inserts a youth bound to the monitor and event and issues its
// self-service access token in the same transaction. A limit above zero is
// enforced inside the transaction under a lock on the monitores row, so two
// concurrent registrations cannot both slip past the capacity check.
func (r *Repository) CreateJoven(ctx context.Context, nombre, apellidos string, monitorID, eventoID uuid.UUID, limit int) (*models.Joven, uuid.UUID, error) {
	var j models.Joven
	var accessToken uuid.UUID
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if limit > 0 {
			if _, err := tx.Exec(ctx,
				`SELECT id FROM monitores WHERE id = $1 FOR UPDATE`, monitorID); err != nil {
				return err
			}
			var count int
			if err := tx.QueryRow(ctx,
				`SELECT COUNT(*) FROM jovenes WHERE monitor_id = $1 AND evento_id = $2`,
				monitorID, eventoID).Scan(&count); err != nil {
				return err
			}
			if count >= limit {
				return ErrGroupFull
			}
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO jovenes (nombre, apellidos, monitor_id, evento_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, nombre, apellidos, monitor_id, evento_id, creado_en, actualizado_en`,
			nombre, apellidos, monitorID, eventoID).
			Scan(&j.ID, &j.Nombre, &j.Apellidos, &j.MonitorID, &j.EventoID, &j.CreadoEn, &j.ActualizadoEn); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO joven_accesos (joven_id) VALUES ($1) RETURNING token`, j.ID).
			Scan(&accessToken)
	})
	if err != nil {
		return nil, uuid.Nil, err
	}
	return &j, accessToken, nil
}
