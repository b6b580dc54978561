package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hilthontt/eventra/presentation/controllers/image"
)

func ImageRoutes(router *gin.RouterGroup, controller image.ImageController, uploadLimiter gin.HandlerFunc) {
	router.POST("/events/:eventId/images", uploadLimiter, controller.Upload)

	images := router.Group("/images")
	{
		images.GET("/:imageId", controller.Get)
		images.DELETE("/:imageId", controller.Delete)
	}
}
