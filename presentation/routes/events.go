package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hilthontt/eventra/presentation/controllers/event"
)

func EventRoutes(router *gin.RouterGroup, controller event.EventController) {
	events := router.Group("/events")
	{
		events.POST("", controller.Create)
		events.GET("/:eventId", controller.Get)
		events.POST("/:eventId/participants", controller.AddParticipant)
		events.DELETE("/:eventId/participants/:userId", controller.RemoveParticipant)
	}
}
