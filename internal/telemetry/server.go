// ABOUTME: Websocket telemetry server
// ABOUTME: Streams pipeline status snapshots to connected clients and serves them over plain HTTP
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xlaudio/xlaudio-go/internal/version"
)

const (
	// DefaultInterval is how often snapshots are pushed
	DefaultInterval = 250 * time.Millisecond

	// Path is the websocket endpoint
	Path = "/telemetry"

	// StatusPath serves a single JSON snapshot
	StatusPath = "/status"

	writeDeadline = 10 * time.Second
)

// Config holds server configuration
type Config struct {
	Port     int
	Interval time.Duration
	Debug    bool
}

// Server pushes status snapshots to websocket clients
type Server struct {
	config   Config
	source   Snapshotter
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	clients   map[string]*client
	clientsMu sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type client struct {
	id       string
	conn     *websocket.Conn
	requests chan struct{}
	done     chan struct{}
}

// New creates a telemetry server reading from source
func New(config Config, source Snapshotter) *Server {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}

	s := &Server{
		config: config,
		source: source,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin != "" && config.Debug {
					log.Printf("[DEBUG] Telemetry connection from origin: %s", origin)
				}
				return true
			},
		},
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)
	s.mux.HandleFunc(StatusPath, s.handleStatus)
	return s
}

// Handler returns the HTTP handler serving both endpoints
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Clients returns the number of connected websocket clients
func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Run listens on the configured port until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{Handler: s.mux}
	log.Printf("Telemetry server listening on %s", ln.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errChan:
		log.Printf("Telemetry server error: %v", serveErr)
	}

	s.stopOnce.Do(func() { close(s.stop) })

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry server shutdown error: %v", err)
	}
	s.wg.Wait()

	if serveErr != nil {
		return fmt.Errorf("telemetry server failed: %w", serveErr)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Snapshot()); err != nil {
		log.Printf("Error encoding status: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.stop:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	c := &client{
		id:       uuid.New().String(),
		conn:     conn,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	log.Printf("Telemetry client %s connected from %s", c.id, r.RemoteAddr)

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c.id)
		s.clientsMu.Unlock()
		log.Printf("Telemetry client %s disconnected", c.id)
	}()

	snap := s.source.Snapshot()
	hello := Hello{
		Session:    snap.Session,
		ClientID:   c.id,
		Product:    version.Product,
		Version:    version.Version,
		IntervalMS: s.config.Interval.Milliseconds(),
	}
	if err := s.send(conn, Message{Type: TypeHello, Payload: hello}); err != nil {
		return
	}
	if err := s.send(conn, Message{Type: TypeStatus, Payload: snap}); err != nil {
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.clientWriter(c)
	}()

	s.clientReader(c)
	close(c.done)
	<-writerDone
}

// clientReader handles requests until the connection fails
func (s *Server) clientReader(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Telemetry websocket error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Error unmarshaling telemetry message: %v", err)
			continue
		}

		switch msg.Type {
		case TypeStatusRequest:
			select {
			case c.requests <- struct{}{}:
			default:
			}
		default:
			if s.config.Debug {
				log.Printf("[DEBUG] Ignoring telemetry message type: %s", msg.Type)
			}
		}
	}
}

// clientWriter is the only writer on the connection once the handshake is sent
func (s *Server) clientWriter(c *client) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-s.stop:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
				time.Now().Add(time.Second))
			c.conn.Close()
			return
		case <-c.requests:
		case <-ticker.C:
		}

		if err := s.send(c.conn, Message{Type: TypeStatus, Payload: s.source.Snapshot()}); err != nil {
			log.Printf("Error writing status to %s: %v", c.id, err)
			c.conn.Close()
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", msg.Type, err)
	}
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteMessage(websocket.TextMessage, data)
}
