package router

import (
	"github.com/gin-gonic/gin"

	"hopgraph.app/api/internal/http/handler"
)

func NodeRouter(router *gin.RouterGroup, handler *handler.GraphHandler) {
	router.POST("", handler.CreateNode)
	router.GET("", handler.ListNodes)
	router.POST("/connect", handler.Connect)
}
