// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"partypulse/internal/domain/event"
	"partypulse/internal/logger"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Events buffered per client before new ones are dropped
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     16,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS middleware
		return true
	},
}

// feedClient is one live feed connection
type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	config WebSocketConfig
	log    logger.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// DashboardWebSocketHandler relays dashboard events to live feed clients.
// Clients only listen; anything they send is discarded.
func DashboardWebSocketHandler(sub event.Subscriber, config WebSocketConfig, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("failed to upgrade to websocket", logger.Error(err))
			return
		}

		client := &feedClient{
			conn:   conn,
			send:   make(chan []byte, max(config.SendBuffer, 1)),
			config: config,
			log:    log,
			done:   make(chan struct{}),
		}

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "welcome",
			"time": time.Now(),
		})
		client.send <- welcome

		cancel, err := sub.Subscribe(client.deliver)
		if err != nil {
			log.Error("failed to subscribe to dashboard events", logger.Error(err))
			client.close()
			return
		}

		go client.writePump()
		client.readPump()

		cancel()
		client.close()
	}
}

// deliver queues an event without blocking the event bus
func (c *feedClient) deliver(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		c.log.Warn("failed to marshal event", logger.Error(err))
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn("dropping event for slow websocket client", logger.String("event_id", e.ID))
	}
}

// readPump discards client messages and tracks pongs until the peer leaves
func (c *feedClient) readPump() {
	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket error", logger.Error(err))
			}
			return
		}
	}
}

// writePump sends queued events and keepalive pings
func (c *feedClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *feedClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
