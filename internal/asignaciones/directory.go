package asignaciones

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Directory answers enriched read queries over assignments: link listings
// with user and event names, youth counts, budget figures. Writes go through
// Store; these joins are the same under both schema generations because the
// monitores row always exists.
type Directory struct {
	pool *pgxpool.Pool
}

// NewDirectory creates an assignment directory.
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// LinkRow is one registration link with its surroundings.
type LinkRow struct {
	MonitorID     uuid.UUID `json:"monitor_id"`
	UsuarioID     uuid.UUID `json:"usuario_id"`
	UsuarioNombre string    `json:"usuario_nombre"`
	EventoID      uuid.UUID `json:"evento_id"`
	EventoNombre  string    `json:"evento_nombre"`
	EventoActivo  bool      `json:"evento_activo"`
	EnlaceToken   uuid.UUID `json:"enlace_token"`
	MaxJovenes    *int      `json:"max_jovenes,omitempty"`
	Activo        bool      `json:"activo"`
	Jovenes       int       `json:"jovenes"`
}

const linkQuery = `
	SELECT m.id, u.id, u.nombre_mostrado, e.id, e.nombre, e.activo,
	       m.enlace_token, m.max_jovenes, m.activo, COUNT(j.id)
	FROM monitores m
	JOIN usuarios u ON u.id = m.usuario_id
	JOIN eventos e ON e.id = m.evento_id
	LEFT JOIN jovenes j ON j.monitor_id = m.id`

func (d *Directory) links(ctx context.Context, query string, args ...any) ([]LinkRow, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []LinkRow{}
	for rows.Next() {
		var l LinkRow
		if err := rows.Scan(&l.MonitorID, &l.UsuarioID, &l.UsuarioNombre, &l.EventoID, &l.EventoNombre,
			&l.EventoActivo, &l.EnlaceToken, &l.MaxJovenes, &l.Activo, &l.Jovenes); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListAllLinks returns every registration link for the admin overview.
func (d *Directory) ListAllLinks(ctx context.Context) ([]LinkRow, error) {
	return d.links(ctx, linkQuery+`
		 GROUP BY m.id, u.id, e.id
		 ORDER BY e.nombre, u.nombre_mostrado`)
}

// ListLinksByUsuario returns the usuario's own active links.
func (d *Directory) ListLinksByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]LinkRow, error) {
	return d.links(ctx, linkQuery+`
		 WHERE m.usuario_id = $1 AND m.activo AND e.activo
		 GROUP BY m.id, u.id, e.id
		 ORDER BY e.fecha_inicio NULLS LAST`, usuarioID)
}

// GetLink returns one link row by monitores ID.
func (d *Directory) GetLink(ctx context.Context, monitorID uuid.UUID) (*LinkRow, error) {
	list, err := d.links(ctx, linkQuery+`
		 WHERE m.id = $1
		 GROUP BY m.id, u.id, e.id`, monitorID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &list[0], nil
}

// MonitorIDByPair resolves the monitores row for (usuario, evento).
func (d *Directory) MonitorIDByPair(ctx context.Context, usuarioID, eventoID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := d.pool.QueryRow(ctx,
		`SELECT id FROM monitores WHERE usuario_id = $1 AND evento_id = $2`,
		usuarioID, eventoID).Scan(&id)
	return id, err
}

// ResumenRow holds the inputs for a monitor's budget summary on one event.
type ResumenRow struct {
	EventoID        uuid.UUID `json:"evento_id"`
	EventoNombre    string    `json:"evento_nombre"`
	PrecioBase      float64   `json:"precio_base"`
	DescuentoGlobal float64   `json:"descuento_global"`
	Jovenes         int       `json:"jovenes"`
	MaxJovenes      *int      `json:"max_jovenes,omitempty"`
	TotalPagado     float64   `json:"total_pagado"`
}

// GetResumen loads the budget inputs for one (usuario, evento) assignment.
func (d *Directory) GetResumen(ctx context.Context, usuarioID, eventoID uuid.UUID) (*ResumenRow, error) {
	var r ResumenRow
	err := d.pool.QueryRow(ctx,
		`SELECT e.id, e.nombre, COALESCE(e.precio_base, 0),
		        COALESCE(ec.descuento_global, 0), m.max_jovenes,
		        COUNT(DISTINCT j.id),
		        COALESCE(SUM(p.cantidad) FILTER (WHERE p.pagado), 0)
		 FROM monitores m
		 JOIN eventos e ON e.id = m.evento_id
		 LEFT JOIN evento_config ec ON ec.evento_id = e.id
		 LEFT JOIN jovenes j ON j.monitor_id = m.id
		 LEFT JOIN pagos p ON p.joven_id = j.id
		 WHERE m.usuario_id = $1 AND m.evento_id = $2
		 GROUP BY e.id, ec.descuento_global, m.max_jovenes`, usuarioID, eventoID).
		Scan(&r.EventoID, &r.EventoNombre, &r.PrecioBase, &r.DescuentoGlobal,
			&r.MaxJovenes, &r.Jovenes, &r.TotalPagado)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
