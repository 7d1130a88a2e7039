package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"sabores-app/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var ErrChannelClosed = errors.New("realtime channel closed")

type frame struct {
	Type    string          `json:"type"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	frameSubscribe   = "subscribe"
	frameUnsubscribe = "unsubscribe"
	frameMessage     = "message"
)

// WSChannel is a websocket-backed Channel. One connection carries every
// subscription; inbound frames are dispatched to the handler registered for
// their topic.
type WSChannel struct {
	conn     *websocket.Conn
	clientID string
	log      *zap.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	handlers map[string]MessageHandler

	closed    chan struct{}
	closeOnce sync.Once
}

// Dial connects to the realtime broker. The session token rides in the
// Authorization header so the broker can scope topic access to the customer.
func Dial(ctx context.Context, rawURL, sessionToken string) (*WSChannel, error) {
	header := http.Header{}
	if sessionToken != "" {
		header.Set("Authorization", "Bearer "+sessionToken)
	}

	clientID := uuid.NewString()
	header.Set("X-Client-ID", clientID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, header)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	ch := &WSChannel{
		conn:     conn,
		clientID: clientID,
		log:      logger.L().With(zap.String("client_id", clientID)),
		handlers: make(map[string]MessageHandler),
		closed:   make(chan struct{}),
	}

	go ch.readPump()
	go ch.pingLoop()

	return ch, nil
}

// Subscribe registers the handler for a topic and asks the broker to start
// delivering it. The returned func tears both down.
func (c *WSChannel) Subscribe(topic string, handler MessageHandler) (Unsubscribe, error) {
	select {
	case <-c.closed:
		return nil, ErrChannelClosed
	default:
	}

	c.mu.Lock()
	c.handlers[topic] = handler
	c.mu.Unlock()

	if err := c.writeFrame(frame{Type: frameSubscribe, Topic: topic}); err != nil {
		c.mu.Lock()
		delete(c.handlers, topic)
		c.mu.Unlock()
		return nil, err
	}

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.handlers, topic)
			c.mu.Unlock()

			// Best effort: the broker drops the subscription on close anyway.
			_ = c.writeFrame(frame{Type: frameUnsubscribe, Topic: topic})
		})
	}

	return unsub, nil
}

// Close shuts the connection down and stops the pumps. Idempotent.
func (c *WSChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		c.writeMu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *WSChannel) writeFrame(f frame) error {
	select {
	case <-c.closed:
		return ErrChannelClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(f)
}

func (c *WSChannel) readPump() {
	defer c.Close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.log.Warn("realtime read failed", zap.Error(err))
			}
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.log.Warn("realtime frame decode failed", zap.Error(err))
			continue
		}

		if f.Type != frameMessage {
			continue
		}

		c.mu.Lock()
		handler := c.handlers[f.Topic]
		c.mu.Unlock()

		if handler == nil {
			c.log.Debug("message on unsubscribed topic dropped", zap.String("topic", f.Topic))
			continue
		}

		handler(f.Topic, f.Payload)
	}
}

func (c *WSChannel) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(
				websocket.PingMessage, nil, time.Now().Add(writeWait),
			)
			c.writeMu.Unlock()
			if err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}
