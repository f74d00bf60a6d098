package usuarios

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// Repository handles admin-side usuario persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a usuarios repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const publicColumns = `id, email, nombre_mostrado, rol, activo, ultimo_login, creado_en`

func scanPublic(row pgx.Row) (*models.UsuarioPublic, error) {
	var u models.UsuarioPublic
	err := row.Scan(&u.ID, &u.Email, &u.NombreMostrado, &u.Rol, &u.Activo, &u.UltimoLogin, &u.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every usuario, inactive included.
func (r *Repository) List(ctx context.Context) ([]models.UsuarioPublic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+publicColumns+` FROM usuarios ORDER BY nombre_mostrado`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.UsuarioPublic{}
	for rows.Next() {
		u, err := scanPublic(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// Get loads one usuario's public view.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.UsuarioPublic, error) {
	return scanPublic(r.pool.QueryRow(ctx,
		`SELECT `+publicColumns+` FROM usuarios WHERE id = $1`, id))
}

// Create inserts a usuario with an already-hashed password.
func (r *Repository) Create(ctx context.Context, email, passwordHash, nombreMostrado string, rol models.Rol) (*models.UsuarioPublic, error) {
	return scanPublic(r.pool.QueryRow(ctx,
		`INSERT INTO usuarios (email, password_hash, nombre_mostrado, rol)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+publicColumns, email, passwordHash, nombreMostrado, rol))
}

// Update patches a usuario's editable fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, email, nombreMostrado *string, rol *models.Rol) (*models.UsuarioPublic, error) {
	return scanPublic(r.pool.QueryRow(ctx,
		`UPDATE usuarios SET
		   email = COALESCE($1, email),
		   nombre_mostrado = COALESCE($2, nombre_mostrado),
		   rol = COALESCE($3, rol),
		   actualizado_en = now()
		 WHERE id = $4
		 RETURNING `+publicColumns, email, nombreMostrado, rol, id))
}

// SetActivo toggles the account and kills its sessions when deactivating.
func (r *Repository) SetActivo(ctx context.Context, id uuid.UUID, activo bool) (*models.UsuarioPublic, error) {
	var u *models.UsuarioPublic
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		u, err = scanPublic(tx.QueryRow(ctx,
			`UPDATE usuarios SET activo = $1, actualizado_en = now()
			 WHERE id = $2 RETURNING `+publicColumns, activo, id))
		if err != nil {
			return err
		}
		if !activo {
			_, err = tx.Exec(ctx,
				`UPDATE refresh_tokens SET activo = false WHERE usuario_id = $1`, id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the hash and invalidates every refresh token.
func (r *Repository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE usuarios SET password_hash = $1, actualizado_en = now() WHERE id = $2`,
			passwordHash, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		_, err = tx.Exec(ctx,
			`UPDATE refresh_tokens SET activo = false WHERE usuario_id = $1`, id)
		return err
	})
}

// Delete hard-removes a usuario and everything under its monitor
// assignments, returning stored file paths for disk cleanup. Jovenes block
// the monitores cascade (ON DELETE RESTRICT), so the whole chain is walked
// explicitly inside one transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var rutas []string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`DELETE FROM documentos d
			 USING jovenes j, monitores m
			 WHERE d.joven_id = j.id AND j.monitor_id = m.id AND m.usuario_id = $1
			 RETURNING d.ruta_interna`, id)
		if err != nil {
			return err
		}
		rutas, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		// asignacion_eventos is not touched here: when the table exists its
		// usuario_id foreign key cascades off the usuarios delete, and legacy
		// schemas do not have the table at all. References this user left on
		// other monitors' rows (payments recorded, documents validated) are
		// detached instead of deleted.
		for _, q := range []string{
			`DELETE FROM pagos p USING jovenes j, monitores m
			 WHERE p.joven_id = j.id AND j.monitor_id = m.id AND m.usuario_id = $1`,
			`DELETE FROM joven_accesos ja USING jovenes j, monitores m
			 WHERE ja.joven_id = j.id AND j.monitor_id = m.id AND m.usuario_id = $1`,
			`DELETE FROM jovenes j USING monitores m
			 WHERE j.monitor_id = m.id AND m.usuario_id = $1`,
			`UPDATE pagos SET registrado_por = NULL WHERE registrado_por = $1`,
			`UPDATE documento_validaciones SET validado_por = NULL WHERE validado_por = $1`,
			`DELETE FROM monitores WHERE usuario_id = $1`,
		} {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
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

// UsuarioEvento is one event a usuario is assigned to as monitor.
type UsuarioEvento struct {
	EventoID     uuid.UUID `json:"evento_id"`
	EventoNombre string    `json:"evento_nombre"`
	EventoActivo bool      `json:"evento_activo"`
	Activo       bool      `json:"activo"`
	Jovenes      int       `json:"jovenes"`
}

// ListEventos returns the events a usuario monitors with youth counts.
func (r *Repository) ListEventos(ctx context.Context, usuarioID uuid.UUID) ([]UsuarioEvento, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.nombre, e.activo, m.activo, COUNT(j.id)
		 FROM monitores m
		 JOIN eventos e ON e.id = m.evento_id
		 LEFT JOIN jovenes j ON j.monitor_id = m.id
		 WHERE m.usuario_id = $1
		 GROUP BY e.id, m.activo
		 ORDER BY e.fecha_inicio NULLS LAST`, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []UsuarioEvento{}
	for rows.Next() {
		var ue UsuarioEvento
		if err := rows.Scan(&ue.EventoID, &ue.EventoNombre, &ue.EventoActivo, &ue.Activo, &ue.Jovenes); err != nil {
			return nil, err
		}
		list = append(list, ue)
	}
	return list, rows.Err()
}
