package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hilthontt/eventra/presentation/controllers/user"
)

func UserRoutes(router *gin.RouterGroup, public *gin.RouterGroup, controller user.UserController) {
	// Registration happens before a principal exists.
	public.POST("/users", controller.Register)

	router.GET("/users/:userId", controller.Get)
}
