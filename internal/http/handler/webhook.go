package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/hooks/internal/http/dto"
	"basegraph.app/hooks/internal/metrics"
	"basegraph.app/hooks/internal/service"
)

type WebhookHandler struct {
	service      service.WebhookService
	maxBodyBytes int64
}

func NewWebhookHandler(service service.WebhookService, maxBodyBytes int64) *WebhookHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &WebhookHandler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
	}
}

// Receive stores one event per request. Storage details never reach the
// caller; they are logged here instead.
func (h *WebhookHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		metrics.WebhookRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.Error("payload too large"))
			return
		}
		slog.WarnContext(ctx, "failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, dto.Error("failed to read request body"))
		return
	}

	if _, err := h.service.Ingest(ctx, body); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBody):
			metrics.WebhookRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
			c.JSON(http.StatusBadRequest, dto.Error("invalid JSON body"))
		case errors.Is(err, service.ErrStorageNotConfigured):
			metrics.WebhookRequests.WithLabelValues(metrics.OutcomeMisconfigured).Inc()
			slog.ErrorContext(ctx, "webhook rejected: database not configured")
			c.JSON(http.StatusInternalServerError, dto.Error("DB not configured"))
		default:
			metrics.WebhookRequests.WithLabelValues(metrics.OutcomeError).Inc()
			slog.ErrorContext(ctx, "webhook db error", "error", err)
			c.JSON(http.StatusInternalServerError, dto.Error("DB error"))
		}
		return
	}

	metrics.WebhookRequests.WithLabelValues(metrics.OutcomeStored).Inc()
	c.JSON(http.StatusOK, dto.WebhookResponse{OK: true, Stored: true})
}
