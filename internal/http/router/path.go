package router

import (
	"github.com/gin-gonic/gin"

	"hopgraph.app/api/internal/http/handler"
)

func PathRouter(router *gin.RouterGroup, handler *handler.PathHandler) {
	router.POST("/find", handler.Find)
	router.POST("/slow-find", handler.SlowFind)
	router.GET("/result/:job_id", handler.Result)
}
