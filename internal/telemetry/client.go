// ABOUTME: Websocket telemetry client
// ABOUTME: Connects to a board's telemetry server and keeps the latest status it pushes
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client follows a remote board. It implements Snapshotter, so the dashboard can
// display a board running elsewhere.
type Client struct {
	addr string
	conn *websocket.Conn

	mu        sync.RWMutex
	hello     Hello
	status    Status
	connected bool
	writeMu   sync.Mutex

	updates chan Status
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

// Dial connects to the telemetry server at addr (host:port) and completes the handshake
func Dial(addr string) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: Path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		addr:    addr,
		conn:    conn,
		updates: make(chan Status, 10),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	if err := c.handshake(); err != nil {
		conn.Close()
		cancel()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}

	c.connected = true
	go c.readMessages()
	return c, nil
}

// handshake waits for server/hello
func (c *Client) handshake() error {
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", TypeHello, err)
	}
	c.conn.SetReadDeadline(time.Time{})

	var msg struct {
		Type    string `json:"type"`
		Payload Hello  `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", TypeHello, err)
	}
	if msg.Type != TypeHello {
		return fmt.Errorf("expected %s, got %s", TypeHello, msg.Type)
	}

	c.hello = msg.Payload
	log.Printf("Following board %s (%s %s), session %s", c.addr, c.hello.Product, c.hello.Version, c.hello.Session)
	return nil
}

// readMessages stores each pushed status until the connection ends
func (c *Client) readMessages() {
	defer close(c.done)
	defer close(c.updates)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil {
				log.Printf("Telemetry read error: %v", err)
			}
			c.mu.Lock()
			c.connected = false
			c.mu.Unlock()
			return
		}

		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Error unmarshaling telemetry message: %v", err)
			continue
		}
		if msg.Type != TypeStatus {
			continue
		}

		var st Status
		if err := json.Unmarshal(msg.Payload, &st); err != nil {
			log.Printf("Error unmarshaling status: %v", err)
			continue
		}

		c.mu.Lock()
		c.status = st
		c.mu.Unlock()

		select {
		case c.updates <- st:
		default:
		}
	}
}

// Hello returns the handshake the server sent
func (c *Client) Hello() Hello {
	return c.hello
}

// Snapshot returns the most recent status received
func (c *Client) Snapshot() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Updates delivers statuses as they arrive. It is closed when the connection ends.
func (c *Client) Updates() <-chan Status {
	return c.updates
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// IsConnected reports whether the connection is still up
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Request asks the server for an immediate status
func (c *Client) Request() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(Message{Type: TypeStatusRequest})
}

// Close disconnects
func (c *Client) Close() error {
	c.cancel()
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}
