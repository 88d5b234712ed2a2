package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/hooks/internal/http/dto"
	"basegraph.app/hooks/internal/service"
)

type HealthHandler struct {
	service service.HealthService
}

func NewHealthHandler(service service.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health always answers 200 so orchestrators do not restart a live process
// over a database blip. Storage reachability is reported inline.
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.service.Check(c.Request.Context())

	c.JSON(http.StatusOK, dto.HealthResponse{
		OK:     true,
		Uptime: report.Uptime.Seconds(),
		DB:     report.DB,
	})
}
