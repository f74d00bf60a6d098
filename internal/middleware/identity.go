package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

const contextIdentity = "acting_user"

// Identity is the effective acting user of a request, resolved once by the
// auth middleware and immutable afterwards. When an organizador impersonates
// a monitor, ID/Email/Rol describe the monitor and SimulatedBy names the
// organizador.
type Identity struct {
	ID             uuid.UUID
	Email          string
	Rol            models.Rol
	NombreMostrado string
	SimulatedBy    *uuid.UUID
}

// ActingUser returns the request identity. Panics if the auth middleware did
// not run, which would be a routing bug.
func ActingUser(c *gin.Context) Identity {
	return c.MustGet(contextIdentity).(Identity)
}

func setActingUser(c *gin.Context, id Identity) {
	c.Set(contextIdentity, id)
}
