package jovenes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	Store
	updateErr error
	updated   *models.Joven
	gotMove   *uuid.UUID
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, nombre, apellidos *string, monitorID *uuid.UUID) (*models.Joven, error) {
	f.gotMove = monitorID
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func updateRouter(store Store) *gin.Engine {
	h := NewHandler(store, nil, nil, nil)
	r := gin.New()
	r.PATCH("/api/admin/jovenes/:jovenId", h.Update)
	return r
}

func patchJoven(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch,
		"/api/admin/jovenes/"+uuid.NewString(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Moving a joven to a monitor of another event must be refused with a
// conflict, not silently break the evento binding.
func TestUpdateRejectsCrossEventMove(t *testing.T) {
	store := &fakeStore{updateErr: ErrEventoMismatch}
	r := updateRouter(store)

	w := patchJoven(t, r, `{"monitor_id":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REFERENCE")
	assert.NotNil(t, store.gotMove)
}

func TestUpdateSameEventMoveSucceeds(t *testing.T) {
	joven := &models.Joven{ID: uuid.New(), Nombre: "Ana", Apellidos: "García"}
	store := &fakeStore{updated: joven}
	r := updateRouter(store)

	w := patchJoven(t, r, `{"nombre":"Ana","monitor_id":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Joven actualizado correctamente")
}
