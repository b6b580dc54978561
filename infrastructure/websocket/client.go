package websocket

import (
	"encoding/json"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorilla/websocket"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	readDeadline   = 60 * time.Second
	writeDeadline  = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxFrameSize   = 32768 // 32KB
	messageBufSize = 64
)

// Client is one websocket connection. A single connection multiplexes
// any number of room topics; the topic set only grows through the gate.
type Client struct {
	conn    *websocket.Conn
	Message chan *WSMessage
	ID      string
	UserID  int64

	topics mapset.Set[string]
	logger *logger.Logger

	// Protection against double-close and race conditions
	closeOnce sync.Once
	closed    chan struct{}
	mu        sync.Mutex
}

func NewClient(conn *websocket.Conn, id string, userID int64, log *logger.Logger) *Client {
	return &Client{
		conn:    conn,
		Message: make(chan *WSMessage, messageBufSize),
		ID:      id,
		UserID:  userID,
		topics:  mapset.NewSet[string](),
		logger:  log,
		closed:  make(chan struct{}),
	}
}

// Close signals shutdown and closes the socket. The Message channel is
// never closed: broadcasters may still race a send against Close, and a
// send on a buffered open channel is always safe.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			c.mu.Lock()
			_ = c.conn.Close()
			c.mu.Unlock()
		}
	})
}

func (c *Client) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Topics returns a snapshot of the client's subscribed topics.
func (c *Client) Topics() []string {
	return c.topics.ToSlice()
}

func (c *Client) IsSubscribed(topic string) bool {
	return c.topics.Contains(topic)
}

func (c *Client) addTopic(topic string)    { c.topics.Add(topic) }
func (c *Client) removeTopic(topic string) { c.topics.Remove(topic) }

// ReadPump consumes client frames until the connection drops. Subscribe
// and unsubscribe are handled inline so their ordering is the client's
// ordering; sends run on their own goroutines through the handler.
func (c *Client) ReadPump(core *Core, handler SendHandler) {
	defer func() {
		core.Unregister() <- c
		c.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))

	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		select {
		case <-c.closed:
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws read error",
					zap.String("clientId", c.ID),
					zap.Error(err))
			}
			return
		}

		if len(raw) == 0 {
			continue
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Debug("dropping malformed frame",
				zap.String("clientId", c.ID),
				zap.Error(err))
			continue
		}

		c.handleFrame(core, handler, &frame)
	}
}

func (c *Client) handleFrame(core *Core, handler SendHandler, frame *Frame) {
	switch frame.Action {
	case ActionSubscribe:
		core.Subscribe(c, frame.Topic)

	case ActionUnsubscribe:
		core.Unsubscribe(c, frame.Topic)

	case ActionSend:
		// Sends only flow over chat topics the client already holds.
		section, eventID, ok := ParseTopic(frame.Topic)
		if !ok || section != "chat" {
			c.logger.Debug("dropping send to invalid topic",
				zap.String("clientId", c.ID),
				zap.String("topic", frame.Topic))
			return
		}

		if !c.IsSubscribed(frame.Topic) {
			c.logger.Debug("dropping send from non-subscriber",
				zap.String("clientId", c.ID),
				zap.String("topic", frame.Topic))
			return
		}

		var payload SendPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.logger.Debug("dropping send with malformed payload",
				zap.String("clientId", c.ID),
				zap.Error(err))
			return
		}

		go handler.HandleSend(c, eventID, payload)

	default:
		c.logger.Debug("dropping frame with unknown action",
			zap.String("clientId", c.ID),
			zap.String("action", frame.Action))
	}
}

// WritePump drains the client's message channel onto the socket and
// keeps the connection alive with pings.
func (c *Client) WritePump() {
	defer c.Close()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.Message:
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			err := c.conn.WriteJSON(msg)
			c.mu.Unlock()

			if err != nil {
				c.logger.Warn("ws write error",
					zap.String("clientId", c.ID),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-c.closed:
			c.mu.Lock()
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			c.mu.Unlock()
			return
		}
	}
}
