package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection. A client whose handshake
// carried no identity stays unaddressable: it can emit events but is never a
// delivery target.
type Client struct {
	registry *Registry
	router   *Router
	conn     *websocket.Conn
	userID   uuid.UUID // uuid.Nil when unaddressable

	send chan []byte
	done chan struct{}
}

func NewClient(registry *Registry, router *Router, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		registry: registry,
		router:   router,
		conn:     conn,
		userID:   userID,
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

// Deliver queues an outbound event. A full buffer drops the event; there is
// no backpressure at this layer.
func (c *Client) Deliver(evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws: marshal error for %s: %v", c.userID, err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
	}
}

// ReadPump reads envelopes from the WebSocket and dispatches them through
// the router until the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c)
		close(c.done)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var env Event
		err := wsjson.Read(context.Background(), c.conn, &env)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client %s disconnected", c.userID)
			} else {
				log.Printf("ws: read error from %s: %v", c.userID, err)
			}
			return
		}

		c.handleEvent(&env)
	}
}

// WritePump writes queued events to the WebSocket and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.userID, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Client) handleEvent(env *Event) {
	ev, err := DecodeInbound(env)
	if err != nil {
		if errors.Is(err, ErrMalformedEvent) {
			c.sendError("INVALID_PAYLOAD", "invalid "+env.Name+" payload")
		} else {
			c.sendError("UNKNOWN_EVENT", err.Error())
		}
		return
	}

	if err := c.router.Dispatch(context.Background(), ev); err != nil {
		log.Printf("ws: %s from %s: %v", env.Name, c.userID, err)
		c.sendError("DISPATCH_FAILED", "could not process "+env.Name)
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.Deliver(evt)
}
