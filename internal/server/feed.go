package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/protocol"
	"github.com/muurk/premiere/internal/version"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Feed clients are terminals and CLIs, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedRegistry tracks open feed connections so shutdown can close them;
// http.Server.Shutdown does not touch hijacked connections.
type feedRegistry struct {
	mu     sync.Mutex
	conns  map[string]context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func (f *feedRegistry) init() {
	f.conns = make(map[string]context.CancelFunc)
}

func (f *feedRegistry) add(id string, cancel context.CancelFunc) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.conns[id] = cancel
	f.wg.Add(1)
	return true
}

func (f *feedRegistry) remove(id string) {
	f.mu.Lock()
	if _, ok := f.conns[id]; ok {
		delete(f.conns, id)
		f.wg.Done()
	}
	f.mu.Unlock()
}

func (f *feedRegistry) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, cancel := range f.conns {
		logging.Debug("Closing feed", zap.String("session", id))
		cancel()
	}
}

func (f *feedRegistry) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

// wait blocks until every feed has exited or ctx is done.
func (f *feedRegistry) wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// handleFeed upgrades to a WebSocket and streams catalog snapshots: the
// current one on connect and a new one after every reload.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Debug("Feed upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	session := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	if !s.feeds.add(session, cancel) {
		cancel()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer s.feeds.remove(session)
	defer cancel()

	remoteAddr := r.RemoteAddr
	logging.LogConnection(remoteAddr, "feed_opened")
	defer logging.LogConnection(remoteAddr, "feed_closed")

	serveFeed(ctx, conn, remoteAddr, session, s.source)
}

// serveFeed owns conn until the peer leaves or ctx is cancelled.
func serveFeed(ctx context.Context, conn *websocket.Conn, remoteAddr, session string, source *catalog.Source) {
	updates, unsubscribe := source.Subscribe()
	defer unsubscribe()
	defer func() { _ = conn.Close() }()

	// The read loop only services control frames; clients send nothing else.
	peerGone := make(chan struct{})
	go func() {
		defer close(peerGone)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logging.Debug("Feed read error", zap.String("remote_addr", remoteAddr), zap.Error(err))
				}
				return
			}
		}
	}()

	var seq uint64
	send := func(m protocol.Message) bool {
		data, err := protocol.Encode(m)
		if err != nil {
			logging.Error("Failed to encode feed message", zap.Error(err))
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.Debug("Feed write failed", zap.String("remote_addr", remoteAddr), zap.Error(err))
			return false
		}
		logging.LogWebSocketMessage(remoteAddr, "sent", websocket.TextMessage, data)
		return true
	}
	sendCatalog := func(c *catalog.Catalog) bool {
		seq++
		return send(protocol.NewCatalog(session, seq, c))
	}

	if !send(protocol.NewHello(session, version.Version)) || !sendCatalog(source.Current()) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return

		case <-peerGone:
			return

		case c, ok := <-updates:
			if !ok || !sendCatalog(c) {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
