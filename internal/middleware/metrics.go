package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Elicupra/Paroikiapp/internal/metrics"
)

// Metrics counts requests by method and response status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
