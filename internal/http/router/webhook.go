package router

import (
	"basegraph.app/hooks/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func WebhookRouter(router *gin.RouterGroup, handler *handler.WebhookHandler) {
	router.POST("", handler.Receive)
}
