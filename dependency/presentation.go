package dependency

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/hilthontt/eventra/infrastructure/cache"
	"github.com/hilthontt/eventra/infrastructure/metrics"
	"github.com/hilthontt/eventra/infrastructure/persistence/database"
	chatCtrl "github.com/hilthontt/eventra/presentation/controllers/chat"
	eventCtrl "github.com/hilthontt/eventra/presentation/controllers/event"
	imageCtrl "github.com/hilthontt/eventra/presentation/controllers/image"
	userCtrl "github.com/hilthontt/eventra/presentation/controllers/user"
	wsCtrl "github.com/hilthontt/eventra/presentation/controllers/websocket"
	"github.com/hilthontt/eventra/presentation/middlewares"
	"github.com/hilthontt/eventra/presentation/routes"
	"go.uber.org/zap"
)

func (c *Container) initControllers() {
	c.ChatController = chatCtrl.NewChatController(c.ChatUC)
	c.EventController = eventCtrl.NewEventController(c.EventUC)
	c.ImageController = imageCtrl.NewImageController(c.ImageUC)
	c.UserController = userCtrl.NewUserController(c.UserUC)
	c.WebsocketController = wsCtrl.NewWebSocketController(c.ChatUC, c.WSCore, c.Logger)

	c.Logger.Info("Controllers initialized successfully")
}

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.Default()

	router.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         5 * time.Second,
	}))

	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	router.Static("/images", c.Storage.BasePath())

	c.registerObservabilityRoutes(router)

	c.registerAPIRoutes(router)

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) registerAPIRoutes(router *gin.Engine) {
	public := router.Group("/api/v1")

	v1 := router.Group("/api/v1")
	{
		v1.Use(middlewares.UserMiddleware(c.UserUC, c.Logger))
		v1.Use(middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.ModerateRateLimiterConfig()))

		participantCheck := middlewares.AccessCheck(
			"event.participate",
			"eventId",
			middlewares.ParticipantChecker(c.EventUC.IsParticipant),
			c.Logger,
		)
		sendLimiter := middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.MessageSendingRateLimiterConfig())
		uploadLimiter := middlewares.RateLimiterMiddleware(cache.GetRedis(), c.Logger, middlewares.UploadRateLimiterConfig())

		routes.UserRoutes(v1, public, c.UserController)
		routes.EventRoutes(v1, c.EventController)
		routes.ChatRoutes(v1, c.ChatController, participantCheck, sendLimiter)
		routes.ImageRoutes(v1, c.ImageController, uploadLimiter)
		routes.WebsocketRoutes(v1, c.WebsocketController)
	}
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup, c.MetricsManager)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.ImageCleanupJob != nil {
		c.ImageCleanupJob.Stop()
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.TracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.TracerShutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}

	cache.CloseRedis()

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	c.Logger.Info("Dependencies shut down successfully")

	database.CloseDb()

	return nil
}
