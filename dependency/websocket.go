package dependency

import (
	"context"

	"github.com/hilthontt/eventra/infrastructure/websocket"
)

func (c *Container) initWebSocket() {
	c.WSGate = websocket.NewGate(c.EventRepo, c.Logger)
	c.WSCore = websocket.NewCore(c.WSGate, c.MetricsManager, c.Logger)

	c.ctx, c.cancel = context.WithCancel(context.Background())

	go c.WSCore.Run(c.ctx)

	c.Logger.Info("WebSocket components initialized successfully")
}
