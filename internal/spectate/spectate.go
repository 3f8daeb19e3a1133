// Package spectate streams live game snapshots to watchers over WebSocket.
//
// Endpoints:
//
//	GET /sessions            JSON list of watchable session IDs
//	GET /snapshot?session=ID JSON snapshot of one session
//	GET /ws?session=ID       WebSocket stream of updates (JSON text frames, or
//	                         msgpack binary frames with format=msgpack)
//
// The session parameter may be omitted when exactly one session is live.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/jellystone/internal/session"
)

const (
	pingPeriod   = 30 * time.Second
	writeTimeout = 10 * time.Second
	clientBuffer = 16
)

// Feed is a live game that can be watched.
type Feed interface {
	Subscribe(buffer int) *session.Subscription
	Snapshot() session.Snapshot
}

// Server tracks live feeds and serves them to spectators.
type Server struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu    sync.RWMutex
	feeds map[string]Feed
}

// NewServer creates a spectator server with no feeds.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow spectators from any origin
			},
		},
		logger: logger,
		feeds:  make(map[string]Feed),
	}
}

// Register makes a feed watchable under id.
func (s *Server) Register(id string, feed Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds[id] = feed
}

// Unregister removes a feed. Connected spectators see their stream end when
// the feed's runner stops.
func (s *Server) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.feeds, id)
}

// Sessions returns the registered IDs, sorted.
func (s *Server) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.feeds))
	for id := range s.feeds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var errNoFeed = errors.New("no such session")

// lookup resolves the session parameter.
func (s *Server) lookup(id string) (Feed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == "" {
		if len(s.feeds) != 1 {
			return nil, errNoFeed
		}
		for _, f := range s.feeds {
			return f, nil
		}
	}
	f, ok := s.feeds[id]
	if !ok {
		return nil, errNoFeed
	}
	return f, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions", s.handleSessions)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("spectator feed listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.Sessions()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	feed, err := s.lookup(r.URL.Query().Get("session"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, feed.Snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	feed, err := s.lookup(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	binary := r.URL.Query().Get("format") == "msgpack"

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "err", err)
		return
	}

	sub := feed.Subscribe(clientBuffer)
	s.logger.Debug("spectator connected", "session", id, "remote", r.RemoteAddr, "msgpack", binary)
	s.stream(conn, sub, binary)
	s.logger.Debug("spectator disconnected", "session", id, "remote", r.RemoteAddr)
}

// stream writes updates until the feed ends or the client goes away.
func (s *Server) stream(conn *websocket.Conn, sub *session.Subscription, binary bool) {
	defer conn.Close()
	defer sub.Close()

	// Spectators never send anything meaningful; reading detects close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case u, ok := <-sub.Updates():
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended"))
				return
			}
			if err := writeUpdate(conn, u, binary); err != nil {
				s.logger.Debug("spectator write failed", "err", err)
				return
			}
		}
	}
}

func writeUpdate(conn *websocket.Conn, u session.Update, binary bool) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if !binary {
		return conn.WriteJSON(u)
	}
	data, err := msgpack.Marshal(u)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
