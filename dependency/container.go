package dependency

import (
	"context"
	"fmt"

	chatUseCase "github.com/hilthontt/eventra/application/usecases/chat"
	eventUseCase "github.com/hilthontt/eventra/application/usecases/event"
	imageUseCase "github.com/hilthontt/eventra/application/usecases/image"
	userUseCase "github.com/hilthontt/eventra/application/usecases/user"
	"github.com/hilthontt/eventra/domain/repository"
	"github.com/hilthontt/eventra/infrastructure/cache"
	"github.com/hilthontt/eventra/infrastructure/config"
	"github.com/hilthontt/eventra/infrastructure/jobs"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/hilthontt/eventra/infrastructure/metrics"
	"github.com/hilthontt/eventra/infrastructure/storage"
	"github.com/hilthontt/eventra/infrastructure/websocket"
	chatCtrl "github.com/hilthontt/eventra/presentation/controllers/chat"
	eventCtrl "github.com/hilthontt/eventra/presentation/controllers/event"
	imageCtrl "github.com/hilthontt/eventra/presentation/controllers/image"
	userCtrl "github.com/hilthontt/eventra/presentation/controllers/user"
	wsCtrl "github.com/hilthontt/eventra/presentation/controllers/websocket"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerShutdown func(context.Context) error
	MetricsManager metrics.Manager
	Storage        *storage.LocalStorage

	EventRepo   repository.EventRepository
	UserRepo    repository.UserRepository
	MessageRepo repository.ChatMessageRepository
	ImageRepo   repository.ImageRepository

	WSGate *websocket.Gate
	WSCore *websocket.Core

	ChatUC  chatUseCase.ChatUseCase
	EventUC eventUseCase.EventUseCase
	ImageUC imageUseCase.ImageUseCase
	UserUC  userUseCase.UserUseCase

	ChatController      chatCtrl.ChatController
	EventController     eventCtrl.EventController
	ImageController     imageCtrl.ImageController
	UserController      userCtrl.UserController
	WebsocketController wsCtrl.WebSocketController

	ImageCleanupJob *jobs.ImageCleanupJob

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := newLogger(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing Eventra API dependencies")

	if err := cache.InitRedis(c.Config); err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	c.initRepositories()

	c.initWebSocket()

	c.initUseCases()

	c.initControllers()

	c.initBackgroundJobs()

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.IsDevelopment() {
		return logger.NewDevelopmentLogger()
	}
	return logger.NewLogger(cfg.Logger.Level, cfg.Logger.Encoding)
}
