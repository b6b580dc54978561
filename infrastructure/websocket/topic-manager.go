package websocket

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrTopicNotFound = errors.New("topic not found")

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
)

type topic struct {
	name    string
	clients map[string]*Client

	mu sync.RWMutex
}

// TopicManager tracks which clients hold which topics. One client can
// appear under many topics at once.
type TopicManager struct {
	topics map[string]*topic
	mu     sync.RWMutex
}

func NewTopicManager() *TopicManager {
	return &TopicManager{
		topics: make(map[string]*topic),
	}
}

func (tm *TopicManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (tm *TopicManager) Subscribe(name string, cl *Client) {
	tm.mu.Lock()
	t, ok := tm.topics[name]
	if !ok {
		t = &topic{
			name:    name,
			clients: make(map[string]*Client),
		}
		tm.topics[name] = t
	}
	tm.mu.Unlock()

	t.mu.Lock()
	t.clients[cl.ID] = cl
	t.mu.Unlock()

	cl.addTopic(name)
}

func (tm *TopicManager) Unsubscribe(name string, cl *Client) {
	cl.removeTopic(name)

	tm.mu.Lock()
	t, ok := tm.topics[name]
	tm.mu.Unlock()

	if !ok {
		return
	}

	t.mu.Lock()
	delete(t.clients, cl.ID)
	empty := len(t.clients) == 0
	t.mu.Unlock()

	if empty {
		tm.dropIfEmpty(name)
	}
}

func (tm *TopicManager) dropIfEmpty(name string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	t, ok := tm.topics[name]
	if !ok {
		return
	}

	t.mu.RLock()
	if len(t.clients) == 0 {
		delete(tm.topics, name)
	}
	t.mu.RUnlock()
}

// RemoveClient drops the client from every topic it holds.
func (tm *TopicManager) RemoveClient(cl *Client) {
	for _, name := range cl.Topics() {
		tm.Unsubscribe(name, cl)
	}

	cl.Close()
}

// SubscriberCount reports how many clients currently hold the topic.
func (tm *TopicManager) SubscriberCount(name string) int {
	tm.mu.RLock()
	t, ok := tm.topics[name]
	tm.mu.RUnlock()

	if !ok {
		return 0
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.clients)
}

// Broadcast delivers msg to every subscriber of its topic. Messages on
// an "/images" side-channel also reach subscribers of the parent chat
// topic, so a client holding only the room topic still sees image
// activity. Slow clients with a full buffer are skipped, not blocked on.
func (tm *TopicManager) Broadcast(msg *WSMessage) (delivered, dropped int, err error) {
	clients := tm.snapshot(msg.Topic)

	if parent, ok := parentTopic(msg.Topic); ok {
		seen := make(map[string]struct{}, len(clients))
		for _, cl := range clients {
			seen[cl.ID] = struct{}{}
		}
		for _, cl := range tm.snapshot(parent) {
			if _, dup := seen[cl.ID]; !dup {
				clients = append(clients, cl)
			}
		}
	}

	if len(clients) == 0 {
		return 0, 0, ErrTopicNotFound
	}

	for _, cl := range clients {
		if cl.IsClosed() {
			continue
		}

		select {
		case cl.Message <- msg:
			delivered++
		default:
			dropped++
		}
	}

	return delivered, dropped, nil
}

func (tm *TopicManager) snapshot(name string) []*Client {
	tm.mu.RLock()
	t, ok := tm.topics[name]
	tm.mu.RUnlock()

	if !ok {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	clients := make([]*Client, 0, len(t.clients))
	for _, cl := range t.clients {
		clients = append(clients, cl)
	}
	return clients
}

func parentTopic(name string) (string, bool) {
	if strings.HasSuffix(name, "/images") {
		return strings.TrimSuffix(name, "/images"), true
	}
	return "", false
}

func (tm *TopicManager) DisconnectAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, t := range tm.topics {
		t.mu.Lock()
		for _, cl := range t.clients {
			cl.Close()
		}
		t.mu.Unlock()
	}

	tm.topics = make(map[string]*topic)
}
