package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// Repository handles user and refresh-token persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const usuarioColumns = `id, email, password_hash, rol, nombre_mostrado, activo, ultimo_login, creado_en, actualizado_en`

func scanUsuario(row interface{ Scan(...any) error }) (*models.Usuario, error) {
	var u models.Usuario
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Rol, &u.NombreMostrado,
		&u.Activo, &u.UltimoLogin, &u.CreadoEn, &u.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Usuario, error) {
	return scanUsuario(r.pool.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE id = $1`, id))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	return scanUsuario(r.pool.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE email = $1`, email))
}

// TouchLastLogin stamps ultimo_login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET ultimo_login = NOW() WHERE id = $1`, id)
	return err
}

// CreateRefreshToken persists a refresh-token hash with its expiry.
func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (usuario_id, refresh_token_hash, expira_en) VALUES ($1, $2, $3)`,
		userID, tokenHash, expiresAt)
	return err
}

// LookupRefreshToken resolves an active, unexpired refresh-token hash to its
// user ID.
func (r *Repository) LookupRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT usuario_id FROM refresh_tokens
		 WHERE refresh_token_hash = $1 AND expira_en > NOW() AND activo = true`,
		tokenHash).Scan(&userID)
	return userID, err
}

// DeactivateRefreshToken marks one refresh token inactive. Unknown hashes are
// a no-op so logout stays idempotent.
func (r *Repository) DeactivateRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET activo = false WHERE refresh_token_hash = $1`, tokenHash)
	return err
}

// DeactivateAllRefreshTokens invalidates every session of a user, used after
// password changes.
func (r *Repository) DeactivateAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET activo = false WHERE usuario_id = $1`, userID)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE usuarios SET password_hash = $1, actualizado_en = NOW() WHERE id = $2`,
		passwordHash, userID)
	return err
}

// UpdateEmail replaces the account email. Duplicates surface as a unique
// violation for the handler to map.
func (r *Repository) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE usuarios SET email = $1, actualizado_en = NOW() WHERE id = $2`,
		email, userID)
	return err
}

// UpdateNombreMostrado updates the display name.
func (r *Repository) UpdateNombreMostrado(ctx context.Context, userID uuid.UUID, nombre string) (*models.Usuario, error) {
	return scanUsuario(r.pool.QueryRow(ctx,
		`UPDATE usuarios SET nombre_mostrado = $1, actualizado_en = NOW() WHERE id = $2
		 RETURNING `+usuarioColumns, nombre, userID))
}

// GetNotificationPrefs returns the user's notification preferences, falling
// back to the account email when no override is set.
func (r *Repository) GetNotificationPrefs(ctx context.Context, userID uuid.UUID) (*models.NotificationPrefs, error) {
	var p models.NotificationPrefs
	err := r.pool.QueryRow(ctx,
		`SELECT id,
		        COALESCE(notificacion_email, email),
		        COALESCE(notificacion_webhook, ''),
		        COALESCE(notificacion_email_habilitada, true)
		 FROM usuarios WHERE id = $1`, userID).
		Scan(&p.ID, &p.Email, &p.Webhook, &p.EmailHabilitada)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateNotificationPrefs stores notification preferences. Empty strings clear
// the overrides.
func (r *Repository) UpdateNotificationPrefs(ctx context.Context, userID uuid.UUID, email, webhook string, habilitada bool) (*models.NotificationPrefs, error) {
	var p models.NotificationPrefs
	err := r.pool.QueryRow(ctx,
		`UPDATE usuarios SET
		   notificacion_email = NULLIF($1, ''),
		   notificacion_webhook = NULLIF($2, ''),
		   notificacion_email_habilitada = $3,
		   actualizado_en = NOW()
		 WHERE id = $4
		 RETURNING id,
		   COALESCE(notificacion_email, email),
		   COALESCE(notificacion_webhook, ''),
		   COALESCE(notificacion_email_habilitada, true)`,
		email, webhook, habilitada, userID).
		Scan(&p.ID, &p.Email, &p.Webhook, &p.EmailHabilitada)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
