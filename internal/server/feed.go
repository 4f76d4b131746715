package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/armino/internal/core/events/bus"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/pkg/generic"
)

const (
	clientBuffer = 64
	writeTimeout = 5 * time.Second
)

var frames = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Message is the JSON frame sent to feed clients for every session event.
type Message struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	Data   any       `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed streams session events to websocket viewers. Slow clients lose frames
// instead of stalling the session.
type Feed struct {
	logger log.Log
	sub    bus.Subscription

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewFeed(events bus.EventBus, logger log.Log) (*Feed, error) {
	f := &Feed{
		logger:  logger.With(log.String("component", "feed")),
		clients: make(map[*client]struct{}),
	}
	sub, err := events.Subscribe(bus.Wildcard, f.broadcast)
	if err != nil {
		return nil, err
	}
	f.sub = sub
	return f, nil
}

func (f *Feed) broadcast(e bus.Event) error {
	buf := frames.Get()
	defer frames.Put(buf)
	err := json.NewEncoder(buf).Encode(Message{
		ID:     e.ID(),
		Type:   e.Type(),
		Source: e.Source(),
		Time:   e.Timestamp(),
		Data:   e.Data(),
	})
	if err != nil {
		return err
	}
	// Clients hold the frame after buf goes back to the pool.
	frame := bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))

	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- frame:
		default:
			f.logger.Warn("feed client lagging, frame dropped", log.String("event", e.Type()))
		}
	}
	return nil
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Debug("upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = conn.Close()
		return
	}
	f.clients[c] = struct{}{}
	f.mu.Unlock()
	f.logger.Debug("feed client connected", log.String("remote", conn.RemoteAddr().String()))

	go f.writeLoop(c)
	f.readLoop(c)
}

// readLoop only watches for the peer going away; viewers never send commands.
func (f *Feed) readLoop(c *client) {
	defer f.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(c *client) {
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}

func (f *Feed) drop(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

// Clients reports the number of connected viewers.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close detaches from the bus and disconnects every viewer.
func (f *Feed) Close() error {
	err := f.sub.Cancel()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
	}
	return err
}
