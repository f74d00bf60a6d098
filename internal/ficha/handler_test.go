package ficha

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Malformed tokens must be rejected before any lookup, with the same 404 a
// wrong token gets.
func TestMalformedTokenIs404(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	r := gin.New()
	r.GET("/ficha/:jovenToken", h.Get)
	r.PATCH("/ficha/:jovenToken", h.Update)
	r.POST("/ficha/:jovenToken/documento", h.UploadDocumento)
	r.DELETE("/ficha/:jovenToken/documento/:docId", h.DeleteDocumento)
	r.GET("/register/acceso/:jovenToken", h.Get)

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/ficha/not-a-uuid"},
		{http.MethodGet, "/ficha/00000000-0000-0000-0000-000000000000"},
		{http.MethodPatch, "/ficha/short"},
		{http.MethodPost, "/ficha/'%3BDROP/documento"},
		{http.MethodDelete, "/ficha/xxxx/documento/also-bad"},
		{http.MethodGet, "/register/acceso/not-a-uuid"},
		{http.MethodGet, "/register/acceso/00000000-0000-0000-0000-000000000000"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, w.Body.String(), "FICHA_NOT_FOUND")
	}
}
