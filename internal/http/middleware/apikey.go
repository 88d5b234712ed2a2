package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/hooks/internal/http/dto"
	"basegraph.app/hooks/internal/metrics"
)

const APIKeyHeader = "x-api-key"

// RequireAPIKey lets a request through only when the x-api-key header equals
// the configured key exactly. An empty configured key rejects everything with
// 500 since that is an operator error, not a client one.
func RequireAPIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			metrics.WebhookRequests.WithLabelValues(metrics.OutcomeMisconfigured).Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Error("API_KEY not set"))
			return
		}

		given := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
			metrics.WebhookRequests.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("Unauthorized"))
			return
		}

		c.Next()
	}
}
