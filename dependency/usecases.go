package dependency

import (
	chatUseCase "github.com/hilthontt/eventra/application/usecases/chat"
	eventUseCase "github.com/hilthontt/eventra/application/usecases/event"
	imageUseCase "github.com/hilthontt/eventra/application/usecases/image"
	userUseCase "github.com/hilthontt/eventra/application/usecases/user"
	"github.com/hilthontt/eventra/infrastructure/websocket"
)

func (c *Container) initUseCases() {
	notifier := websocket.NewNotifier(c.WSCore)

	c.UserUC = userUseCase.NewUserUseCase(c.UserRepo, c.Logger)
	c.EventUC = eventUseCase.NewEventUseCase(c.EventRepo, c.UserRepo, c.Logger)
	c.ImageUC = imageUseCase.NewImageUseCase(c.ImageRepo, c.EventRepo, c.Storage, c.Logger, c.Config.Jobs.TempImageTTL)
	c.ChatUC = chatUseCase.NewChatUseCase(c.MessageRepo, c.ImageRepo, c.EventRepo, c.UserRepo, notifier, c.Storage, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
}
