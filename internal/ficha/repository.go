package ficha

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository resolves joven_accesos tokens to exactly one joven. Nothing in
// this package can reach another joven's data, whatever event or monitor it
// belongs to.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a ficha repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ficha is the self-service view of a joven.
type Ficha struct {
	JovenID      uuid.UUID  `json:"id"`
	Nombre       string     `json:"nombre"`
	Apellidos    string     `json:"apellidos"`
	CreadoEn     time.Time  `json:"creado_en"`
	EventoID     uuid.UUID  `json:"evento_id"`
	EventoNombre string     `json:"evento_nombre"`
	EventoTipo   string     `json:"tipo"`
	FechaInicio  *time.Time `json:"fecha_inicio,omitempty"`
	FechaFin     *time.Time `json:"fecha_fin,omitempty"`
}

// GetByToken resolves an access token to its joven and event display data.
func (r *Repository) GetByToken(ctx context.Context, token uuid.UUID) (*Ficha, error) {
	var f Ficha
	err := r.pool.QueryRow(ctx,
		`SELECT j.id, j.nombre, j.apellidos, j.creado_en,
		        e.id, e.nombre, e.tipo, e.fecha_inicio, e.fecha_fin
		 FROM joven_accesos ja
		 JOIN jovenes j ON j.id = ja.joven_id
		 JOIN eventos e ON e.id = j.evento_id
		 WHERE ja.token = $1`, token).
		Scan(&f.JovenID, &f.Nombre, &f.Apellidos, &f.CreadoEn,
			&f.EventoID, &f.EventoNombre, &f.EventoTipo, &f.FechaInicio, &f.FechaFin)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// JovenIDByToken resolves an access token to its joven ID.
func (r *Repository) JovenIDByToken(ctx context.Context, token uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT joven_id FROM joven_accesos WHERE token = $1`, token).Scan(&id)
	return id, err
}

// UpdateNames updates the joven's name fields through its token. Returns
// pgx.ErrNoRows for unknown tokens.
func (r *Repository) UpdateNames(ctx context.Context, token uuid.UUID, nombre, apellidos *string) (*Ficha, error) {
	var f Ficha
	err := r.pool.QueryRow(ctx,
		`UPDATE jovenes j SET
		   nombre = COALESCE($1, j.nombre),
		   apellidos = COALESCE($2, j.apellidos),
		   actualizado_en = now()
		 FROM joven_accesos ja
		 WHERE ja.joven_id = j.id AND ja.token = $3
		 RETURNING j.id, j.nombre, j.apellidos, j.actualizado_en`,
		nombre, apellidos, token).
		Scan(&f.JovenID, &f.Nombre, &f.Apellidos, &f.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteDocumento removes a documento owned by the token's joven, returning
// its stored path for file cleanup. pgx.ErrNoRows when the documento does
// not belong to this joven.
func (r *Repository) DeleteDocumento(ctx context.Context, token, docID uuid.UUID) (string, error) {
	var ruta string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM documentos d
		 USING joven_accesos ja
		 WHERE d.id = $1 AND d.joven_id = ja.joven_id AND ja.token = $2
		 RETURNING d.ruta_interna`, docID, token).Scan(&ruta)
	return ruta, err
}
