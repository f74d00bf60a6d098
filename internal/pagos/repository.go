package pagos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// Repository handles pago persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pagos repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// JovenOwnedBy reports whether the joven belongs to one of the usuario's
// monitor assignments.
func (r *Repository) JovenOwnedBy(ctx context.Context, jovenID, usuarioID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM jovenes j
		   JOIN monitores m ON m.id = j.monitor_id
		   WHERE j.id = $1 AND m.usuario_id = $2
		 )`, jovenID, usuarioID).Scan(&ok)
	return ok, err
}

// PagoOwnedBy reports whether the pago's joven belongs to one of the
// usuario's monitor assignments.
func (r *Repository) PagoOwnedBy(ctx context.Context, pagoID, usuarioID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM pagos p
		   JOIN jovenes j ON j.id = p.joven_id
		   JOIN monitores m ON m.id = j.monitor_id
		   WHERE p.id = $1 AND m.usuario_id = $2
		 )`, pagoID, usuarioID).Scan(&ok)
	return ok, err
}

// Insert records a new payment installment.
func (r *Repository) Insert(ctx context.Context, p *models.Pago) (*models.Pago, error) {
	var out models.Pago
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pagos (joven_id, plazo_numero, cantidad, pagado, es_especial, nota_especial, descuento, fecha_pago, registrado_por)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, CASE WHEN $4 THEN now() END, $8)
		 RETURNING id, joven_id, plazo_numero, cantidad, pagado, es_especial,
		           COALESCE(nota_especial, ''), COALESCE(descuento, 0), fecha_pago, registrado_por, creado_en`,
		p.JovenID, p.PlazoNumero, p.Cantidad, p.Pagado, p.EsEspecial, p.NotaEspecial, p.Descuento, p.RegistradoPor).
		Scan(&out.ID, &out.JovenID, &out.PlazoNumero, &out.Cantidad, &out.Pagado, &out.EsEspecial,
			&out.NotaEspecial, &out.Descuento, &out.FechaPago, &out.RegistradoPor, &out.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches an installment. Marking it paid stamps fecha_pago; marking
// it unpaid clears the stamp.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, cantidad *float64, pagado *bool, esEspecial *bool, notaEspecial *string, descuento *float64) (*models.Pago, error) {
	var out models.Pago
	err := r.pool.QueryRow(ctx,
		`UPDATE pagos SET
		   cantidad = COALESCE($1, cantidad),
		   pagado = COALESCE($2, pagado),
		   es_especial = COALESCE($3, es_especial),
		   nota_especial = COALESCE(NULLIF($4, ''), nota_especial),
		   descuento = COALESCE($5, descuento),
		   fecha_pago = CASE
		     WHEN $2 IS NULL THEN fecha_pago
		     WHEN $2 THEN COALESCE(fecha_pago, now())
		     ELSE NULL
		   END,
		   actualizado_en = now()
		 WHERE id = $6
		 RETURNING id, joven_id, plazo_numero, cantidad, pagado, es_especial,
		           COALESCE(nota_especial, ''), COALESCE(descuento, 0), fecha_pago, registrado_por, creado_en`,
		cantidad, pagado, esEspecial, notaEspecial, descuento, id).
		Scan(&out.ID, &out.JovenID, &out.PlazoNumero, &out.Cantidad, &out.Pagado, &out.EsEspecial,
			&out.NotaEspecial, &out.Descuento, &out.FechaPago, &out.RegistradoPor, &out.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
