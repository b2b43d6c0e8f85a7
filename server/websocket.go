package server

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/reoring/gviz/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
)

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin accepts requests without an Origin header, origins whose
// scheme and host match a configured origin (any port), and otherwise only
// the serving host itself.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if len(s.opts.AllowedOrigins) == 0 {
		return strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range s.opts.AllowedOrigins {
		a, err := url.Parse(allowed)
		if err != nil || a.Host == "" {
			continue
		}
		if strings.EqualFold(a.Scheme, u.Scheme) && strings.EqualFold(a.Hostname(), u.Hostname()) {
			return true
		}
	}
	return false
}

// handleWS forwards browser bridge messages into the chart's page, which
// dispatches them to the wrapper handlers, and pushes redraws back.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	inst, err := s.instance(r.Context(), name)
	if err != nil {
		s.httpError(w, err)
		return
	}
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", logger.FieldChart, name, logger.FieldError, err)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	write := func(kind int, data []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(kind, data)
	}
	detach := inst.page.Attach(func(b []byte) error { return write(websocket.TextMessage, b) })
	defer detach()

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingPeriod)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	log := s.log.With(logger.FieldChart, name)
	log.Debugw("browser connected", logger.FieldAddress, r.RemoteAddr)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnw("websocket closed", logger.FieldError, err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := inst.page.Dispatch(msg); err != nil {
			log.Warnw("bad bridge message", logger.FieldError, err)
		}
	}
}
