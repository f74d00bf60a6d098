package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
	"github.com/Elicupra/Paroikiapp/pkg/utils"
)

// SimulatedUserHeader names the monitor an organizador wants to act as.
const SimulatedUserHeader = "X-Usuario-Simulado"

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator func(token string) (uuid.UUID, error)

// UserResolver loads users for per-request revalidation.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Usuario, error)
}

// Auth validates the bearer token and resolves the acting user. The user row
// is re-read on every request so deactivation takes effect immediately.
func Auth(validate TokenValidator, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "NO_TOKEN", "No authorization token provided")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "INVALID_TOKEN", "Invalid authorization header")
			c.Abort()
			return
		}
		userID, err := validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || !user.Activo {
			response.Unauthorized(c, "INVALID_TOKEN", "User not found or inactive")
			c.Abort()
			return
		}

		setActingUser(c, Identity{
			ID:             user.ID,
			Email:          user.Email,
			Rol:            user.Rol,
			NombreMostrado: user.NombreMostrado,
		})
		c.Next()
	}
}

// RequireRol allows only the given roles.
func RequireRol(roles ...models.Rol) gin.HandlerFunc {
	allowed := make(map[models.Rol]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[ActingUser(c).Rol]; !ok {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireMonitorOrSimulated guards the monitor surface. Monitors pass as
// themselves; an organizador may act as a specific monitor by naming it in
// X-Usuario-Simulado. The target is revalidated on every request (must exist,
// be active and hold the monitor role) and is never cached.
func RequireMonitorOrSimulated(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		acting := ActingUser(c)
		if acting.Rol == models.RolMonitor {
			c.Next()
			return
		}
		if acting.Rol != models.RolOrganizador {
			response.Forbidden(c, "Monitor access required")
			c.Abort()
			return
		}

		simulated := c.GetHeader(SimulatedUserHeader)
		if simulated == "" {
			response.Forbidden(c, "Monitor access required; set "+SimulatedUserHeader+" to act as one")
			c.Abort()
			return
		}
		if !utils.IsValidUUID(simulated) {
			response.BadRequest(c, "INVALID_SIMULATED_USER", "Simulated user must be a UUID")
			c.Abort()
			return
		}
		targetID, _ := uuid.Parse(simulated)

		target, err := users.GetByID(c.Request.Context(), targetID)
		if err != nil || !target.Activo || target.Rol != models.RolMonitor {
			response.Forbidden(c, "Simulated user is not an active monitor")
			c.Abort()
			return
		}

		organizadorID := acting.ID
		setActingUser(c, Identity{
			ID:             target.ID,
			Email:          target.Email,
			Rol:            target.Rol,
			NombreMostrado: target.NombreMostrado,
			SimulatedBy:    &organizadorID,
		})
		c.Next()
	}
}
