package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers struct {
	users map[uuid.UUID]*models.Usuario
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.Usuario, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func newUser(rol models.Rol, activo bool) *models.Usuario {
	return &models.Usuario{
		ID:             uuid.New(),
		Email:          "user@example.com",
		Rol:            rol,
		NombreMostrado: "Test User",
		Activo:         activo,
	}
}

func authRouter(users *fakeUsers, valid uuid.UUID, extra ...gin.HandlerFunc) *gin.Engine {
	validate := func(token string) (uuid.UUID, error) {
		if token == "good" {
			return valid, nil
		}
		return uuid.Nil, errors.New("bad token")
	}
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(validate, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		acting := ActingUser(c)
		c.JSON(http.StatusOK, gin.H{"id": acting.ID, "simulated": acting.SimulatedBy != nil})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	u := newUser(models.RolMonitor, true)
	r := authRouter(&fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}, u.ID)

	w := get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthBadToken(t *testing.T) {
	u := newUser(models.RolMonitor, true)
	r := authRouter(&fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}, u.ID)

	w := get(r, map[string]string{"Authorization": "Bearer evil"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInactiveUser(t *testing.T) {
	u := newUser(models.RolMonitor, false)
	r := authRouter(&fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}, u.ID)

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHappyPath(t *testing.T) {
	u := newUser(models.RolMonitor, true)
	r := authRouter(&fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}, u.ID)

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), u.ID.String())
}

func TestRequireRolBlocksMonitor(t *testing.T) {
	u := newUser(models.RolMonitor, true)
	r := authRouter(&fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}, u.ID,
		RequireRol(models.RolOrganizador))

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolAllowsOrganizador(t *testing.T) {
	u := newUser(models.RolOrganizador, true)
	r := authRouter(&fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}, u.ID,
		RequireRol(models.RolOrganizador))

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMonitorPassesWithoutSimulation(t *testing.T) {
	u := newUser(models.RolMonitor, true)
	users := &fakeUsers{users: map[uuid.UUID]*models.Usuario{u.ID: u}}
	r := authRouter(users, u.ID, RequireMonitorOrSimulated(users))

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"simulated":false`)
}

func TestOrganizadorNeedsSimulationHeader(t *testing.T) {
	org := newUser(models.RolOrganizador, true)
	users := &fakeUsers{users: map[uuid.UUID]*models.Usuario{org.ID: org}}
	r := authRouter(users, org.ID, RequireMonitorOrSimulated(users))

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSimulationSwapsIdentity(t *testing.T) {
	org := newUser(models.RolOrganizador, true)
	mon := newUser(models.RolMonitor, true)
	users := &fakeUsers{users: map[uuid.UUID]*models.Usuario{org.ID: org, mon.ID: mon}}
	r := authRouter(users, org.ID, RequireMonitorOrSimulated(users))

	w := get(r, map[string]string{
		"Authorization":     "Bearer good",
		SimulatedUserHeader: mon.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), mon.ID.String())
	assert.Contains(t, w.Body.String(), `"simulated":true`)
}

func TestSimulationRejectsNonMonitorTarget(t *testing.T) {
	org := newUser(models.RolOrganizador, true)
	other := newUser(models.RolOrganizador, true)
	users := &fakeUsers{users: map[uuid.UUID]*models.Usuario{org.ID: org, other.ID: other}}
	r := authRouter(users, org.ID, RequireMonitorOrSimulated(users))

	w := get(r, map[string]string{
		"Authorization":     "Bearer good",
		SimulatedUserHeader: other.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSimulationRejectsInactiveTarget(t *testing.T) {
	org := newUser(models.RolOrganizador, true)
	mon := newUser(models.RolMonitor, false)
	users := &fakeUsers{users: map[uuid.UUID]*models.Usuario{org.ID: org, mon.ID: mon}}
	r := authRouter(users, org.ID, RequireMonitorOrSimulated(users))

	w := get(r, map[string]string{
		"Authorization":     "Bearer good",
		SimulatedUserHeader: mon.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSimulationRejectsMalformedHeader(t *testing.T) {
	org := newUser(models.RolOrganizador, true)
	users := &fakeUsers{users: map[uuid.UUID]*models.Usuario{org.ID: org}}
	r := authRouter(users, org.ID, RequireMonitorOrSimulated(users))

	w := get(r, map[string]string{
		"Authorization":     "Bearer good",
		SimulatedUserHeader: "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
