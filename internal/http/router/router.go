package router

import (
	"github.com/gin-gonic/gin"

	"hopgraph.app/api/internal/http/handler"
	"hopgraph.app/api/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		graphHandler := handler.NewGraphHandler(services.Graph())
		NodeRouter(v1.Group("/nodes"), graphHandler)

		pathHandler := handler.NewPathHandler(services.Paths())
		PathRouter(v1.Group("/path"), pathHandler)
	}
}
