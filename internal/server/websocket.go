package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/schedule"
	"github.com/pakrecharge/topup/internal/topup"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Queued calls per session before posters block
	sessionQueue = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// session is one browser form. Every view mutation and every write to the
// connection happens on the goroutine running run.
type session struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	app        *form.App
	view       *form.MemoryView
	loop       *form.EventLoop
	timer      *schedule.Timer

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *Server) newSession(conn *websocket.Conn, remoteAddr string) *session {
	loop := form.NewEventLoop(sessionQueue)
	timer := schedule.NewTimer(loop.Post)
	view := form.NewMemoryView(s.config.Catalog)
	ctx, cancel := context.WithCancel(s.ctx)

	app := form.NewApp(form.Options{
		Catalog:   s.config.Catalog,
		Timing:    s.config.Timing,
		Gateway:   s.config.Gateway,
		Scheduler: timer,
		Executor:  loop,
		Observer:  s.metrics,
		View:      view,
	})

	return &session{
		id:         app.ID,
		remoteAddr: remoteAddr,
		conn:       conn,
		app:        app,
		view:       view,
		loop:       loop,
		timer:      timer,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// handleWebSocket upgrades the request and runs a form session until the
// peer leaves or the server shuts down
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sess := s.newSession(conn, r.RemoteAddr)
	if !s.addSession(sess) {
		sess.close()
		return
	}
	defer s.removeSession(sess)

	logging.LogConnection(sess.remoteAddr, sess.id, "session_opened")
	sess.run(s.dispatcher)
	logging.LogConnection(sess.remoteAddr, sess.id, "session_closed")
}

// run drains the session loop, answering every call with a snapshot
func (sess *session) run(d *form.Dispatcher) {
	defer sess.close()

	go sess.readLoop(d)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := sess.sendSnapshot(); err != nil {
		return
	}

	for {
		select {
		case fn := <-sess.loop.Calls():
			fn()
			if err := sess.sendSnapshot(); err != nil {
				return
			}
		case <-ping.C:
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-sess.loop.Done():
			return
		}
	}
}

// readLoop decodes events and posts their handling onto the session loop
func (sess *session) readLoop(d *form.Dispatcher) {
	defer sess.loop.Close()

	sess.conn.SetReadLimit(maxMessageSize)
	_ = sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Session read failed",
					zap.String("session", sess.id),
					zap.Error(err),
				)
			}
			return
		}

		var ev form.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			sess.loop.Post(func() {
				sess.sendError("invalid event: " + err.Error())
			})
			continue
		}

		sess.loop.Post(func() {
			if err := d.Dispatch(sess.ctx, sess.app, ev); err != nil {
				sess.sendError(topup.ShortMessage(err))
			}
		})
	}
}

func (sess *session) sendSnapshot() error {
	snap, _ := sess.app.Snapshot()
	sess.view.TakeReveal()
	return sess.write(snap)
}

func (sess *session) sendError(message string) {
	if err := sess.write(ErrorResponse{Error: message}); err != nil {
		logging.Debug("Failed to send session error", zap.String("session", sess.id), zap.Error(err))
	}
}

func (sess *session) write(v any) error {
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sess.conn.WriteJSON(v)
}

// close tears the session down. Safe to call more than once.
func (sess *session) close() {
	sess.closeOnce.Do(func() {
		sess.cancel()
		sess.timer.Stop()
		sess.loop.Close()
		_ = sess.conn.Close()
	})
}
