package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/hilthontt/eventra/infrastructure/metrics"
	"go.uber.org/zap"
)

// Core owns the connection registry and the outbound fan-out loop.
// Connection lifecycle flows through channels; subscriptions are
// resolved synchronously so the caller sees the gate's verdict.
type Core struct {
	topicMgr *TopicManager
	gate     *Gate

	register   chan *Client
	unregister chan *Client
	broadcast  chan *WSMessage

	metrics metrics.Manager
	logger  *logger.Logger

	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewCore(gate *Gate, m metrics.Manager, log *logger.Logger) *Core {
	return &Core{
		topicMgr:   NewTopicManager(),
		gate:       gate,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WSMessage, 256),
		metrics:    m,
		logger:     log,
		shutdown:   make(chan struct{}),
	}
}

func (c *Core) Run(ctx context.Context) {
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("websocket core shutting down")
			c.Shutdown()
			return

		case <-c.shutdown:
			return

		case cl := <-c.register:
			c.metrics.IncCounter("ws_connections_total")
			c.logger.Debug("client connected",
				zap.String("clientId", cl.ID),
				zap.Int64("userId", cl.UserID))

		case cl := <-c.unregister:
			c.topicMgr.RemoveClient(cl)
			c.logger.Debug("client disconnected",
				zap.String("clientId", cl.ID),
				zap.Int64("userId", cl.UserID))

		case msg := <-c.broadcast:
			c.deliver(msg)
		}
	}
}

func (c *Core) deliver(msg *WSMessage) {
	delivered, dropped, err := c.topicMgr.Broadcast(msg)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			// Nobody listening, nothing to do.
			return
		}
		c.logger.Error("broadcast failed",
			zap.String("topic", msg.Topic),
			zap.Error(err))
		return
	}

	c.metrics.AddCounter("ws_messages_delivered_total", float64(delivered))
	if dropped > 0 {
		c.metrics.AddCounter("ws_messages_dropped_total", float64(dropped))
		c.logger.Warn("dropped messages for slow subscribers",
			zap.String("topic", msg.Topic),
			zap.Int("dropped", dropped))
	}
}

// Subscribe runs the gate for the topic and, on success, adds the
// client to it. A denied or malformed subscribe is silently dropped;
// the client learns nothing beyond the absence of traffic.
func (c *Core) Subscribe(cl *Client, topicName string) bool {
	ctx := context.Background()

	if !c.gate.Authorize(ctx, cl.UserID, topicName) {
		c.metrics.IncCounter("ws_subscriptions_denied_total")
		return false
	}

	c.topicMgr.Subscribe(topicName, cl)
	c.metrics.IncCounter("ws_subscriptions_total")

	c.logger.Debug("client subscribed",
		zap.String("clientId", cl.ID),
		zap.String("topic", topicName))
	return true
}

func (c *Core) Unsubscribe(cl *Client, topicName string) {
	c.topicMgr.Unsubscribe(topicName, cl)
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

// Publish queues a message for fan-out without blocking the caller.
// When the broadcast queue is saturated the message is dropped and
// counted; persistence has already happened by the time we get here.
func (c *Core) Publish(msg *WSMessage) {
	select {
	case c.broadcast <- msg:
	case <-c.shutdown:
	default:
		c.metrics.IncCounter("ws_broadcast_queue_full_total")
		c.logger.Warn("broadcast queue full, dropping message",
			zap.String("topic", msg.Topic),
			zap.String("type", msg.Type))
	}
}

func (c *Core) TopicManager() *TopicManager {
	return c.topicMgr
}

func (c *Core) Shutdown() {
	c.once.Do(func() {
		close(c.shutdown)
		c.topicMgr.DisconnectAll()
	})
}
