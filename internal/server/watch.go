package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/core/scan"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Message types pushed to watch clients.
const (
	SnapshotMessage = "snapshot"
	ReportMessage   = "report"
	ErrorMessage    = "error"
)

// WatchMessage is one websocket frame sent to a watch client.
type WatchMessage struct {
	Type    string             `json:"type"`
	Job     *schema.ScanJob    `json:"job,omitempty"`
	Report  *schema.ScanReport `json:"report,omitempty"`
	Code    string             `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
}

// handleWatch streams the snapshots of a scan, then its report or failure.
// The observation lives exactly as long as the connection.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	scanID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg, err := s.configFor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		contract.LogWarn("watch set read deadline failed", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// A failed read means the client went away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	writeCh := make(chan WatchMessage, 32)
	writerDone := make(chan struct{})
	go writeLoop(ctx, conn, writeCh, writerDone)

	push := func(msg WatchMessage) {
		select {
		case writeCh <- msg:
		case <-ctx.Done():
		}
	}

	report, err := core.AwaitReport(ctx, cfg, s.cl, scanID, func(job schema.ScanJob) {
		push(WatchMessage{Type: SnapshotMessage, Job: &job})
	})
	if ctx.Err() == nil {
		if err != nil {
			push(WatchMessage{Type: ErrorMessage, Code: errorCode(err), Message: err.Error()})
		} else {
			push(WatchMessage{Type: ReportMessage, Report: &report})
		}
	}
	close(writeCh)
	<-writerDone
}

// writeLoop owns all writes to conn. It drains writeCh until it is closed,
// then sends a normal close frame.
func writeLoop(ctx context.Context, conn *websocket.Conn, writeCh <-chan WatchMessage, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-writeCh:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// errorCode classifies a watch failure for clients.
func errorCode(err error) string {
	var te *scan.TransportError
	var rf *scan.ResultsFetchError
	switch {
	case errors.Is(err, scan.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, scan.ErrScanFailed):
		return "scan_failed"
	case errors.As(err, &rf):
		return "results_unavailable"
	case errors.As(err, &te):
		return "transport"
	case errors.Is(err, scan.ErrUnexpectedStatus):
		return "unexpected_status"
	default:
		return "internal"
	}
}
