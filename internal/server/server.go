package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/relictower/internal/config"
	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/gametime"
	"github.com/lawnchairsociety/relictower/internal/logger"
	"github.com/lawnchairsociety/relictower/internal/namefilter"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	serverConfig *config.ServerConfig
	catalog      *game.Catalog
	opts         game.Options
	db           *database.Database
	connLimiter  *ConnLimiter
	nameFilter   *namefilter.NameFilter
	newClock     func() gametime.Clock

	mu           sync.Mutex
	httpServer   *http.Server
	clients      map[string]Client // By connection ID
	sessions     sync.WaitGroup
	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// NewServer creates a server that runs one game session per connection.
// A nil cfg uses config.DefaultConfig().
func NewServer(cfg *config.ServerConfig, catalog *game.Catalog) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		serverConfig: cfg,
		catalog:      catalog,
		opts:         cfg.Simulation.SessionOptions(),
		connLimiter:  NewConnLimiter(cfg.Connections),
		nameFilter:   namefilter.New(&cfg.Names),
		newClock:     func() gametime.Clock { return gametime.NewRealClock() },
		clients:      make(map[string]Client),
		shutdown:     make(chan struct{}),
		StartTime:    time.Now(),
	}
}

// SetDatabase enables run history recording. Finished runs are written to db.
func (s *Server) SetDatabase(db *database.Database) {
	s.db = db
}

// GetServerConfig returns the server configuration.
func (s *Server) GetServerConfig() *config.ServerConfig {
	return s.serverConfig
}

// GetUptime returns how long the server has been running.
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

// GetOnlineCount returns the number of connected players.
func (s *Server) GetOnlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Handler returns the HTTP routes: the game WebSocket and the run history.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	return mux
}

// Start listens on address and serves until Shutdown.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		listener.Close()
		return nil
	default:
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", listener.Addr().String())
	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	// Get the real client IP (supports X-Forwarded-For from reverse proxies)
	clientIP := getRealIP(r)

	if err := s.connLimiter.Acquire(clientIP); err != nil {
		logger.Warning("WebSocket connection rejected",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP,
			"reason", err)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.serverConfig.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	s.mu.Lock()
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		wsConn.Close()
		s.connLimiter.Release(clientIP)
		return
	default:
	}
	s.sessions.Add(1)
	s.mu.Unlock()

	go s.handleWebSocketConnection(wsConn, clientIP)
}

// handleWebSocketConnection handles a WebSocket client connection.
func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	client := NewWebSocketClient(wsConn, s.serverConfig.WebSocket.MaxMessageSize)
	defer func() {
		client.Close()
		s.connLimiter.Release(clientIP)
		s.sessions.Done()
	}()

	s.handleClient(client)
}

func (s *Server) addClient(id string, c Client) {
	s.mu.Lock()
	s.clients[id] = c
	s.mu.Unlock()
}

func (s *Server) removeClient(id string) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// The first X-Forwarded-For entry is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// Shutdown stops accepting connections, ends every running session and
// records its run. Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		close(s.shutdown)
		httpServer := s.httpServer
		s.mu.Unlock()

		if httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("HTTP shutdown failed", "error", err)
			}
		}

		s.sessions.Wait()
		logger.Info("Server shutdown complete, all runs recorded")
	})
}
