package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hilthontt/eventra/presentation/controllers/chat"
)

func ChatRoutes(router *gin.RouterGroup, controller chat.ChatController, participantCheck gin.HandlerFunc, sendLimiter gin.HandlerFunc) {
	events := router.Group("/events/:eventId/chat")
	events.Use(participantCheck)
	{
		events.POST("/messages", sendLimiter, controller.PostMessage)
		events.GET("/messages", controller.ListMessages)
	}

	messages := router.Group("/chat/messages")
	{
		messages.GET("/:messageId", controller.GetMessage)
		messages.PUT("/:messageId", controller.EditMessage)
		messages.DELETE("/:messageId", controller.DeleteMessage)
		messages.GET("/:messageId/images", controller.ListMessageImages)
		messages.POST("/:messageId/images", controller.AttachImage)
		messages.DELETE("/:messageId/images/:imageId", controller.DetachImage)
	}
}
