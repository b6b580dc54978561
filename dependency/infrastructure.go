package dependency

import (
	"github.com/getsentry/sentry-go"
	"github.com/hilthontt/eventra/infrastructure/metrics"
	"github.com/hilthontt/eventra/infrastructure/persistence/database"
	"github.com/hilthontt/eventra/infrastructure/persistence/migration"
	"github.com/hilthontt/eventra/infrastructure/storage"
	"github.com/hilthontt/eventra/infrastructure/tracing"
	"go.uber.org/zap"
)

func (c *Container) initInfrastructure() error {
	shutdown, err := tracing.InitTracer(c.Config)
	if err != nil {
		// Tracing is optional, the noop global provider stays in place.
		c.Logger.Warn("failed to initialize tracing, continuing without it", zap.Error(err))
	} else {
		c.TracerShutdown = shutdown
		c.Logger.Info("Tracing initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)
	}

	if c.Config.Sentry.Dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:            c.Config.Sentry.Dsn,
			Debug:          c.Config.Sentry.Debug,
			SendDefaultPII: c.Config.Sentry.SendDefaultPII,
			Environment:    c.Config.Server.RunMode,
		})
		if err != nil {
			c.Logger.Warn("failed to initialize sentry", zap.Error(err))
		} else {
			c.Logger.Info("Sentry initialized successfully")
		}
	}

	c.MetricsManager = metrics.NewManager("eventra")

	if err := database.InitDb(c.Config, c.Logger.Log); err != nil {
		return err
	}

	if err := migration.Up(database.GetDb()); err != nil {
		return err
	}

	store, err := storage.NewLocalStorage(c.Config.Storage.UploadsPath, c.Config.Storage.MaxUploadSize)
	if err != nil {
		return err
	}
	c.Storage = store

	c.Logger.Info("Infrastructure initialized successfully")

	return nil
}
