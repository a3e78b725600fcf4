package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
)

// Path is where the websocket endpoint is mounted.
const Path = "/gesture"

// Logger is the subset of the engine logger the server needs.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Message is one websocket text frame from a tracker. Either Openness or
// Landmarks carries the gesture; Shape and Color are optional control
// requests.
type Message struct {
	Openness  *float32     `json:"openness,omitempty"`
	Landmarks [][3]float32 `json:"landmarks,omitempty"`
	Shape     string       `json:"shape,omitempty"`
	Color     string       `json:"color,omitempty"`
}

// Server accepts tracker connections and feeds the mailbox.
type Server struct {
	Mailbox   *Mailbox
	OnControl func(shape, color string)
	Log       Logger

	upgrader websocket.Upgrader

	// hijacked connections are invisible to http.Server.Shutdown
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	shutdown bool
}

func NewServer(mb *Mailbox, log Logger) *Server {
	return &Server{
		Mailbox: mb,
		Log:     log,
		upgrader: websocket.Upgrader{
			// tracker pages are usually served from file:// or another port
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warnf("gesture: upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	if !s.track(conn) {
		return
	}
	defer s.untrack(conn)
	s.Log.Debugf("gesture: tracker connected from %s", r.RemoteAddr)

	for {
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !s.closing() {
				s.Log.Warnf("gesture: read: %v", err)
			}
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		if err := s.Handle(msg); err != nil {
			s.Log.Warnf("gesture: %v", err)
		}
	}
}

// track registers a live connection. It reports false once the server is
// shutting down.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return false
	}
	if s.conns == nil {
		s.conns = make(map[*websocket.Conn]struct{})
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// closeConns says goodbye to every tracked tracker and closes its socket,
// which ends the read loops.
func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
	deadline := time.Now().Add(100 * time.Millisecond)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	for conn := range s.conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = conn.Close()
	}
	s.conns = nil
}

// Live is the number of connected trackers.
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Handle decodes one message and publishes its contents.
func (s *Server) Handle(raw []byte) error {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	switch {
	case msg.Openness != nil:
		s.Mailbox.Publish(*msg.Openness)
	case len(msg.Landmarks) > 0:
		pts := make([]mgl32.Vec3, len(msg.Landmarks))
		for i, l := range msg.Landmarks {
			pts[i] = mgl32.Vec3(l)
		}
		v, err := Openness(pts)
		if err != nil {
			return err
		}
		s.Mailbox.Publish(v)
	}

	if (msg.Shape != "" || msg.Color != "") && s.OnControl != nil {
		s.OnControl(msg.Shape, msg.Color)
	}
	return nil
}

// ListenAndServe serves Path on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gesture listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeConns()
	}()

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
