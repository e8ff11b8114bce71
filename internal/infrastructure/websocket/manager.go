package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 64
)

// Client is one WebSocket connection of an authenticated user. Each client
// owns the live subscriptions it opened; they all end when it disconnects.
type Client struct {
	ID      uuid.UUID
	Session entity.Session
	Conn    *websocket.Conn
	Send    chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	subs    map[string]subscription
	nextSub uint64
}

type subscription struct {
	id     uint64
	cancel context.CancelFunc
}

func NewClient(parent context.Context, session entity.Session, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(parent)
	return &Client{
		ID:      uuid.New(),
		Session: session,
		Conn:    conn,
		Send:    make(chan []byte, sendBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[string]subscription),
	}
}

// enqueue queues a frame for the write pump. Frames for a slow or closed
// client are dropped.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- frame:
		return true
	default:
		logger.Warn("WebSocket: send buffer full for client %s, dropping frame", c.ID)
		return false
	}
}

// track registers a subscription under key, replacing any previous one.
// The returned id identifies this registration for release.
func (c *Client) track(key string, cancel context.CancelFunc) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		cancel()
		return 0, false
	}
	if prev, ok := c.subs[key]; ok {
		prev.cancel()
	}
	c.nextSub++
	c.subs[key] = subscription{id: c.nextSub, cancel: cancel}
	return c.nextSub, true
}

func (c *Client) untrack(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subs[key]
	if ok {
		sub.cancel()
		delete(c.subs, key)
	}
	return ok
}

// release drops the subscription under key if it is still registration id.
// A stream that ends on its own calls this so a newer subscription under the
// same key is left alone.
func (c *Client) release(key string, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub, ok := c.subs[key]; ok && sub.id == id {
		sub.cancel()
		delete(c.subs, key)
	}
}

func (c *Client) subscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// close cancels every subscription and closes Send. It is safe to call twice.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	for key, sub := range c.subs {
		sub.cancel()
		delete(c.subs, key)
	}
	c.cancel()
	close(c.Send)
}

// Manager tracks live connections and routes their commands to the chat service.
type Manager struct {
	service ChatService

	clients    map[string]map[uuid.UUID]*Client
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager(service ChatService) *Manager {
	return &Manager{
		service:    service,
		clients:    make(map[string]map[uuid.UUID]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start runs the registration loop until ctx is cancelled, then closes every
// remaining client.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.Register:
				m.add(client)
				logger.Info("WebSocket: client %s registered for user %s", client.ID, client.Session.UID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Info("WebSocket: client %s unregistered", client.ID)

			case <-ctx.Done():
				m.mutex.Lock()
				for _, conns := range m.clients {
					for _, c := range conns {
						c.close()
					}
				}
				m.clients = make(map[string]map[uuid.UUID]*Client)
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) add(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conns, ok := m.clients[client.Session.UID]
	if !ok {
		conns = make(map[uuid.UUID]*Client)
		m.clients[client.Session.UID] = conns
	}
	conns[client.ID] = client
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	if conns, ok := m.clients[client.Session.UID]; ok {
		delete(conns, client.ID)
		if len(conns) == 0 {
			delete(m.clients, client.Session.UID)
		}
	}
	m.mutex.Unlock()

	client.close()
}

// ConnectionCount returns the number of open connections.
func (m *Manager) ConnectionCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	n := 0
	for _, conns := range m.clients {
		n += len(conns)
	}
	return n
}

// ReadPump reads commands until the connection fails, then unregisters.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
			c.close()
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket: read error for client %s: %v", c.ID, err)
			}
			return
		}
		m.HandleClientMessage(c, message)
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Error("WebSocket: write error for client %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Connect registers client and starts its pumps. It returns false once the
// manager has stopped.
func (m *Manager) Connect(client *Client) bool {
	select {
	case m.Register <- client:
	case <-m.done:
		client.close()
		return false
	}

	go client.ReadPump(m)
	go client.WritePump()
	return true
}
