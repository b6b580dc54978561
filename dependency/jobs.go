package dependency

import (
	"time"

	"github.com/hilthontt/eventra/infrastructure/jobs"
	"go.uber.org/zap"
)

func (c *Container) initBackgroundJobs() {
	interval := c.Config.Jobs.ImageCleanupInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	c.ImageCleanupJob = jobs.NewImageCleanupJob(c.ImageUC, c.Logger, interval)

	go func() {
		time.Sleep(2 * time.Second) // Wait for all dependencies to initialize
		c.Logger.Info("Starting background jobs...")
		c.ImageCleanupJob.Start(c.ctx)
	}()

	go c.refreshMessageCountGauge()

	c.Logger.Info("Background jobs initialized and started successfully")
}

func (c *Container) refreshMessageCountGauge() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			count, err := c.MessageRepo.Count(c.ctx)
			if err != nil {
				c.Logger.Warn("failed to count chat messages for metrics", zap.Error(err))
				continue
			}
			c.MetricsManager.SetGauge("app_chat_messages_total", float64(count))
		}
	}
}
