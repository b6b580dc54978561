package dependency

import (
	"github.com/hilthontt/eventra/infrastructure/persistence/database"
	"github.com/hilthontt/eventra/infrastructure/persistence/repository"
	"go.opentelemetry.io/otel"
)

func (c *Container) initRepositories() {
	db := database.GetDb()
	tracer := otel.Tracer("eventra/repository")

	c.EventRepo = repository.NewEventRepository(db, tracer)
	c.UserRepo = repository.NewUserRepository(db, tracer)
	c.MessageRepo = repository.NewChatMessageRepository(db, tracer)
	c.ImageRepo = repository.NewImageRepository(db, tracer)

	c.Logger.Info("Repositories initialized successfully")
}
