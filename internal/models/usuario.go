package models

import (
	"time"

	"github.com/google/uuid"
)

// Rol represents a user role.
type Rol string

const (
	RolMonitor     Rol = "monitor"
	RolOrganizador Rol = "organizador"
)

// Valid reports whether r is a known role.
func (r Rol) Valid() bool {
	return r == RolMonitor || r == RolOrganizador
}

// Usuario represents a platform user.
type Usuario struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Rol            Rol        `json:"rol"`
	NombreMostrado string     `json:"nombre_mostrado"`
	Activo         bool       `json:"activo"`
	UltimoLogin    *time.Time `json:"ultimo_login,omitempty"`
	CreadoEn       time.Time  `json:"creado_en"`
	ActualizadoEn  time.Time  `json:"actualizado_en"`
}

// UsuarioPublic is Usuario without sensitive fields for API responses.
type UsuarioPublic struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	NombreMostrado string     `json:"nombre_mostrado"`
	Rol            Rol        `json:"rol"`
	Activo         bool       `json:"activo"`
	UltimoLogin    *time.Time `json:"ultimo_login,omitempty"`
	CreadoEn       time.Time  `json:"creado_en"`
}

// ToPublic converts Usuario to UsuarioPublic.
func (u *Usuario) ToPublic() UsuarioPublic {
	return UsuarioPublic{
		ID:             u.ID,
		Email:          u.Email,
		NombreMostrado: u.NombreMostrado,
		Rol:            u.Rol,
		Activo:         u.Activo,
		UltimoLogin:    u.UltimoLogin,
		CreadoEn:       u.CreadoEn,
	}
}

// NotificationPrefs holds a user's notification settings. The email falls
// back to the account email when unset.
type NotificationPrefs struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"notificacion_email"`
	Webhook         string    `json:"notificacion_webhook"`
	EmailHabilitada bool      `json:"notificacion_email_habilitada"`
}
