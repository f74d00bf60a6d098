package registro

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Elicupra/Paroikiapp/internal/asignaciones"
	"github.com/Elicupra/Paroikiapp/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func linkRouter() *gin.Engine {
	h := NewHandler(nil, nil, asignaciones.Capabilities{}, nil, nil)
	r := gin.New()
	r.GET("/register/:token", h.GetEventoInfo)
	r.POST("/register/:token/joven", h.RegisterJoven)
	return r
}

func TestMalformedLinkTokenIs404(t *testing.T) {
	r := linkRouter()
	for _, token := range []string{"abc", "00000000-0000-0000-0000-000000000000", "f47ac10b58cc4372a5670e02b2c3d479"} {
		req := httptest.NewRequest(http.MethodGet, "/register/"+token, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, token)
		assert.Contains(t, w.Body.String(), "EVENTO_NOT_FOUND")
	}
}

func TestRegisterValidatesNamesBeforeLookup(t *testing.T) {
	r := linkRouter()
	req := httptest.NewRequest(http.MethodPost,
		"/register/f47ac10b-58cc-4372-a567-0e02b2c3d479/joven",
		strings.NewReader(`{"nombre":"A","apellidos":"B"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

type fakeTokenStore struct {
	asignaciones.Store
	asig *models.Asignacion
}

func (f *fakeTokenStore) ResolveToken(ctx context.Context, token uuid.UUID) (*models.Asignacion, error) {
	if f.asig == nil {
		return nil, pgx.ErrNoRows
	}
	return f.asig, nil
}

type fakeLinkRepo struct {
	count    int
	gotLimit int
}

func (f *fakeLinkRepo) GetLinkInfo(ctx context.Context, usuarioID, eventoID uuid.UUID) (*LinkInfo, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeLinkRepo) CreateJoven(ctx context.Context, nombre, apellidos string, monitorID, eventoID uuid.UUID, limit int) (*models.Joven, uuid.UUID, error) {
	f.gotLimit = limit
	if limit > 0 && f.count >= limit {
		return nil, uuid.Nil, ErrGroupFull
	}
	return &models.Joven{
		ID: uuid.New(), Nombre: nombre, Apellidos: apellidos,
		MonitorID: monitorID, EventoID: eventoID,
	}, uuid.New(), nil
}

func TestRegisterEnforcesCapacity(t *testing.T) {
	three := 3
	cases := []struct {
		name       string
		overlay    bool
		maxJovenes *int
		count      int
		wantStatus int
		wantLimit  int
	}{
		{"legacy at fixed cap", false, nil, models.LegacyMaxJovenes, http.StatusConflict, models.LegacyMaxJovenes},
		{"legacy below fixed cap", false, nil, models.LegacyMaxJovenes - 1, http.StatusCreated, models.LegacyMaxJovenes},
		{"overlay at cap", true, &three, 3, http.StatusConflict, 3},
		{"overlay below cap", true, &three, 2, http.StatusCreated, 3},
		{"overlay unlimited", true, nil, 500, http.StatusCreated, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeLinkRepo{count: tc.count}
			store := &fakeTokenStore{asig: &models.Asignacion{
				MonitorID:  uuid.New(),
				UsuarioID:  uuid.New(),
				EventoID:   uuid.New(),
				MaxJovenes: tc.maxJovenes,
				Activo:     true,
			}}
			h := NewHandler(repo, store, asignaciones.Capabilities{OverlayTable: tc.overlay}, nil, nil)
			r := gin.New()
			r.POST("/register/:token/joven", h.RegisterJoven)

			req := httptest.NewRequest(http.MethodPost,
				"/register/"+uuid.NewString()+"/joven",
				strings.NewReader(`{"nombre":"Ana","apellidos":"García"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantLimit, repo.gotLimit)
			if tc.wantStatus == http.StatusConflict {
				assert.Contains(t, w.Body.String(), "MAX_JOVENES_REACHED")
			} else {
				assert.Contains(t, w.Body.String(), "acceso_token")
			}
		})
	}
}

func TestRegisterMalformedTokenIs404(t *testing.T) {
	r := linkRouter()
	req := httptest.NewRequest(http.MethodPost, "/register/nope/joven",
		strings.NewReader(`{"nombre":"Ana","apellidos":"García"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
