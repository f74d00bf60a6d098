package configuracion

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Claves the API will read or write. Anything else is rejected before it
// reaches the table.
var AllowedClaves = []string{
	"nombre_organizacion",
	"logo_url",
	"color_primario",
	"color_secundario",
	"email_contacto",
	"telefono_contacto",
}

func claveAllowed(clave string) bool {
	for _, k := range AllowedClaves {
		if k == clave {
			return true
		}
	}
	return false
}

// Repository handles the configuracion key-value table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a configuracion repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetAll returns every allowed key, defaulting missing rows to "".
func (r *Repository) GetAll(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(AllowedClaves))
	for _, k := range AllowedClaves {
		out[k] = ""
	}
	rows, err := r.pool.Query(ctx,
		`SELECT clave, valor FROM configuracion WHERE clave = ANY($1)`, AllowedClaves)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var clave, valor string
		if err := rows.Scan(&clave, &valor); err != nil {
			return nil, err
		}
		out[clave] = valor
	}
	return out, rows.Err()
}

// Set upserts one key.
func (r *Repository) Set(ctx context.Context, clave, valor string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO configuracion (clave, valor, actualizado_en)
		 VALUES ($1, $2, now())
		 ON CONFLICT (clave)
		 DO UPDATE SET valor = $2, actualizado_en = now()`, clave, valor)
	return err
}
