package eventos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// Repository handles evento, tipo_evento and evento_config persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an eventos repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventoColumns = `id, nombre, tipo, tipo_evento_id, COALESCE(descripcion, ''),
	COALESCE(precio_base, 0), fecha_inicio, fecha_fin, COALESCE(localizacion, ''),
	COALESCE(fotos, '[]'::jsonb), COALESCE(otra_informacion, ''), activo, creado_en, actualizado_en`

func scanEvento(row pgx.Row) (*models.Evento, error) {
	var e models.Evento
	err := row.Scan(&e.ID, &e.Nombre, &e.Tipo, &e.TipoEventoID, &e.Descripcion,
		&e.PrecioBase, &e.FechaInicio, &e.FechaFin, &e.Localizacion,
		&e.Fotos, &e.OtraInformacion, &e.Activo, &e.CreadoEn, &e.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.Evento, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Evento{}
	for rows.Next() {
		e, err := scanEvento(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// ListAll returns every evento, inactive included. Admin surface.
func (r *Repository) ListAll(ctx context.Context) ([]models.Evento, error) {
	return r.list(ctx, `SELECT `+eventoColumns+` FROM eventos ORDER BY creado_en DESC`)
}

// ListActive returns events visible on the public surface.
func (r *Repository) ListActive(ctx context.Context) ([]models.Evento, error) {
	return r.list(ctx, `SELECT `+eventoColumns+` FROM eventos WHERE activo ORDER BY fecha_inicio NULLS LAST, creado_en DESC`)
}

// Get loads a single evento.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Evento, error) {
	return scanEvento(r.pool.QueryRow(ctx, `SELECT `+eventoColumns+` FROM eventos WHERE id = $1`, id))
}

// EventoInput carries the writable evento fields.
type EventoInput struct {
	Nombre          string          `json:"nombre"`
	Tipo            string          `json:"tipo"`
	TipoEventoID    *uuid.UUID      `json:"tipo_evento_id"`
	Descripcion     string          `json:"descripcion"`
	PrecioBase      float64         `json:"precio_base"`
	FechaInicio     *time.Time      `json:"fecha_inicio"`
	FechaFin        *time.Time      `json:"fecha_fin"`
	Localizacion    string          `json:"localizacion"`
	Fotos           json.RawMessage `json:"fotos"`
	OtraInformacion string          `json:"otra_informacion"`
}

// Create inserts an evento.
func (r *Repository) Create(ctx context.Context, in *EventoInput) (*models.Evento, error) {
	fotos := in.Fotos
	if len(fotos) == 0 {
		fotos = json.RawMessage(`[]`)
	}
	return scanEvento(r.pool.QueryRow(ctx,
		`INSERT INTO eventos (nombre, tipo, tipo_evento_id, descripcion, precio_base, fecha_inicio, fecha_fin, localizacion, fotos, otra_informacion)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, NULLIF($10, ''))
		 RETURNING `+eventoColumns,
		in.Nombre, in.Tipo, in.TipoEventoID, in.Descripcion, in.PrecioBase,
		in.FechaInicio, in.FechaFin, in.Localizacion, fotos, in.OtraInformacion))
}

// EventoPatch carries partial evento updates. Nil fields leave the column
// untouched; an explicit "" clears nullable text columns.
type EventoPatch struct {
	Nombre          *string         `json:"nombre"`
	Tipo            *string         `json:"tipo"`
	TipoEventoID    *uuid.UUID      `json:"tipo_evento_id"`
	Descripcion     *string         `json:"descripcion"`
	PrecioBase      *float64        `json:"precio_base"`
	FechaInicio     *time.Time      `json:"fecha_inicio"`
	FechaFin        *time.Time      `json:"fecha_fin"`
	Localizacion    *string         `json:"localizacion"`
	Fotos           json.RawMessage `json:"fotos"`
	OtraInformacion *string         `json:"otra_informacion"`
	Activo          *bool           `json:"activo"`
}

// Update patches an evento.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p *EventoPatch) (*models.Evento, error) {
	var fotos *json.RawMessage
	if len(p.Fotos) > 0 {
		fotos = &p.Fotos
	}
	return scanEvento(r.pool.QueryRow(ctx,
		`UPDATE eventos SET
		   nombre = COALESCE($1, nombre),
		   tipo = COALESCE($2, tipo),
		   tipo_evento_id = COALESCE($3, tipo_evento_id),
		   descripcion = CASE WHEN $4::text IS NULL THEN descripcion ELSE NULLIF($4, '') END,
		   precio_base = COALESCE($5, precio_base),
		   fecha_inicio = COALESCE($6, fecha_inicio),
		   fecha_fin = COALESCE($7, fecha_fin),
		   localizacion = CASE WHEN $8::text IS NULL THEN localizacion ELSE NULLIF($8, '') END,
		   fotos = COALESCE($9, fotos),
		   otra_informacion = CASE WHEN $10::text IS NULL THEN otra_informacion ELSE NULLIF($10, '') END,
		   activo = COALESCE($11, activo),
		   actualizado_en = now()
		 WHERE id = $12
		 RETURNING `+eventoColumns,
		p.Nombre, p.Tipo, p.TipoEventoID, p.Descripcion,
		p.PrecioBase, p.FechaInicio, p.FechaFin, p.Localizacion,
		fotos, p.OtraInformacion, p.Activo, id))
}

// SoftDelete flips activo off. Registration links die with it; data stays.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE eventos SET activo = false, actualizado_en = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DescuentoGlobal returns the event's global discount, zero when unset.
func (r *Repository) DescuentoGlobal(ctx context.Context, eventoID uuid.UUID) (float64, error) {
	var d float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(descuento_global, 0) FROM evento_config WHERE evento_id = $1`, eventoID).Scan(&d)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return d, err
}

// SetDescuentoGlobal upserts the event's global discount.
func (r *Repository) SetDescuentoGlobal(ctx context.Context, eventoID uuid.UUID, descuento float64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO evento_config (evento_id, descuento_global, actualizado_en)
		 VALUES ($1, $2, now())
		 ON CONFLICT (evento_id)
		 DO UPDATE SET descuento_global = $2, actualizado_en = now()`, eventoID, descuento)
	return err
}

// Recaudacion aggregates an event's money flow.
type Recaudacion struct {
	EventoID        uuid.UUID `json:"evento_id"`
	Jovenes         int       `json:"jovenes"`
	PagosTotal      int       `json:"pagos_total"`
	PagosPagados    int       `json:"pagos_pagados"`
	TotalRecaudado  float64   `json:"total_recaudado"`
	TotalDescuentos float64   `json:"total_descuentos"`
}

// GetRecaudacion returns money aggregates for one event.
func (r *Repository) GetRecaudacion(ctx context.Context, eventoID uuid.UUID) (*Recaudacion, error) {
	rec := Recaudacion{EventoID: eventoID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT j.id), COUNT(p.id),
		        COUNT(p.id) FILTER (WHERE p.pagado),
		        COALESCE(SUM(p.cantidad) FILTER (WHERE p.pagado), 0),
		        COALESCE(SUM(p.descuento), 0)
		 FROM jovenes j
		 LEFT JOIN pagos p ON p.joven_id = j.id
		 WHERE j.evento_id = $1`, eventoID).
		Scan(&rec.Jovenes, &rec.PagosTotal, &rec.PagosPagados, &rec.TotalRecaudado, &rec.TotalDescuentos)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DashboardCounts is the admin landing-page summary.
type DashboardCounts struct {
	EventosActivos  int     `json:"eventos_activos"`
	Usuarios        int     `json:"usuarios"`
	Monitores       int     `json:"monitores"`
	Jovenes         int     `json:"jovenes"`
	TotalRecaudado  float64 `json:"total_recaudado"`
	PagosPendientes int     `json:"pagos_pendientes"`
}

// GetDashboard returns global counts for the admin dashboard.
func (r *Repository) GetDashboard(ctx context.Context) (*DashboardCounts, error) {
	var d DashboardCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM eventos WHERE activo),
		   (SELECT COUNT(*) FROM usuarios WHERE activo),
		   (SELECT COUNT(*) FROM monitores WHERE activo),
		   (SELECT COUNT(*) FROM jovenes),
		   (SELECT COALESCE(SUM(cantidad), 0) FROM pagos WHERE pagado),
		   (SELECT COUNT(*) FROM pagos WHERE NOT pagado)`).
		Scan(&d.EventosActivos, &d.Usuarios, &d.Monitores, &d.Jovenes, &d.TotalRecaudado, &d.PagosPendientes)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListTipos returns the managed event categories.
func (r *Repository) ListTipos(ctx context.Context) ([]models.TipoEvento, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre, creado_en FROM tipos_evento ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.TipoEvento{}
	for rows.Next() {
		var t models.TipoEvento
		if err := rows.Scan(&t.ID, &t.Nombre, &t.CreadoEn); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CreateTipo inserts a managed event category.
func (r *Repository) CreateTipo(ctx context.Context, nombre string) (*models.TipoEvento, error) {
	var t models.TipoEvento
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tipos_evento (nombre) VALUES ($1) RETURNING id, nombre, creado_en`, nombre).
		Scan(&t.ID, &t.Nombre, &t.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTipo renames a category.
func (r *Repository) UpdateTipo(ctx context.Context, id uuid.UUID, nombre string) (*models.TipoEvento, error) {
	var t models.TipoEvento
	err := r.pool.QueryRow(ctx,
		`UPDATE tipos_evento SET nombre = $1 WHERE id = $2 RETURNING id, nombre, creado_en`, nombre, id).
		Scan(&t.ID, &t.Nombre, &t.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTipo removes a category. Events referencing it keep their row via the
// 23503 mapping upstream.
func (r *Repository) DeleteTipo(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tipos_evento WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
