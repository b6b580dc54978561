package jobs

import (
	"context"
	"time"

	"github.com/hilthontt/eventra/application/usecases/image"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

type ImageCleanupJob struct {
	imageUseCase image.ImageUseCase
	logger       *logger.Logger
	interval     time.Duration
	stopChan     chan struct{}
}

func NewImageCleanupJob(imageUseCase image.ImageUseCase, logger *logger.Logger, interval time.Duration) *ImageCleanupJob {
	return &ImageCleanupJob{
		imageUseCase: imageUseCase,
		logger:       logger,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

func (j *ImageCleanupJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Image cleanup job started",
		zap.Duration("interval", j.interval),
	)

	j.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			j.runCleanup(ctx)
		case <-j.stopChan:
			j.logger.Info("Image cleanup job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Image cleanup job context cancelled")
			return
		}
	}
}

func (j *ImageCleanupJob) Stop() {
	close(j.stopChan)
}

func (j *ImageCleanupJob) runCleanup(ctx context.Context) {
	j.logger.Info("Running image cleanup job")

	startTime := time.Now()

	removed, err := j.imageUseCase.CleanupTemporaryImages(ctx)
	if err != nil {
		j.logger.Error("Image cleanup job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return
	}

	j.logger.Info("Image cleanup job completed successfully",
		zap.Int("removed", removed),
		zap.Duration("duration", time.Since(startTime)),
	)
}
