package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limiterRouter(l *LoginLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func postFrom(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLoginLimiterBlocksAfterBurst(t *testing.T) {
	r := limiterRouter(NewLoginLimiter(3, 15))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1"), "attempt %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1"))
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	r := limiterRouter(NewLoginLimiter(1, 15))

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.2"))
}
