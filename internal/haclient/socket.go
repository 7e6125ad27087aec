package haclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roandegraaf/ha-mcp/internal/logging"
	"github.com/roandegraaf/ha-mcp/internal/observe"
)

const (
	// maxPending bounds how many commands may be awaiting a reply at once.
	maxPending = 10

	writeWait        = 5 * time.Second
	handshakeWait    = 10 * time.Second
	reconnectInitial = time.Second
	reconnectMax     = 60 * time.Second
)

// wsFrame is the superset of frames Home Assistant sends on the websocket.
type wsFrame struct {
	ID      int64           `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *wsCommandError `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type wsCommandError struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
}

type commandReply struct {
	result json.RawMessage
	err    error
}

// Socket is the persistent command transport: one authenticated websocket
// connection multiplexing concurrent commands by message id, reconnecting
// with exponential backoff when the link drops.
type Socket struct {
	url    string
	token  string
	dialer *websocket.Dialer
	log    *slog.Logger

	sem chan struct{}

	// writeMu serializes frame writes; the read side is owned by listen.
	writeMu sync.Mutex

	// mu guards connection state and the pending registry. It is never held
	// across I/O.
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	nextID    int64
	pending   map[int64]chan commandReply

	done chan struct{}
}

// NewSocket builds a transport for the given websocket URL. Connect must be
// called before SendCommand.
func NewSocket(url, token string, log *slog.Logger) *Socket {
	return &Socket{
		url:     url,
		token:   token,
		dialer:  &websocket.Dialer{HandshakeTimeout: handshakeWait},
		log:     log,
		sem:     make(chan struct{}, maxPending),
		pending: make(map[int64]chan commandReply),
		done:    make(chan struct{}),
	}
}

// Connect dials Home Assistant and runs the auth handshake. An auth
// rejection returns AuthError and the socket stays down; network failures
// return ConnectionError.
func (s *Socket) Connect(ctx context.Context) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return ErrConnectionLost
	}
	s.conn = conn
	s.connected = true
	s.nextID = 1
	s.mu.Unlock()

	s.log.Info("websocket connected", "url", s.url)
	go s.listen(conn)
	return nil
}

// Connected reports whether the socket currently has a live, authenticated
// connection.
func (s *Socket) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// SendCommand submits one command frame and waits for the matching result.
// Payload keys are flattened into the frame next to id and type. Fails fast
// with ErrConnectionLost while the socket is down or reconnecting.
func (s *Socket) SendCommand(ctx context.Context, msgType string, payload map[string]any) (json.RawMessage, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrConnectionLost
	}
	defer func() { <-s.sem }()

	s.mu.Lock()
	if !s.connected || s.conn == nil {
		s.mu.Unlock()
		observe.WSCommands.WithLabelValues(msgType, "not_connected").Inc()
		return nil, ErrConnectionLost
	}
	id := s.nextID
	s.nextID++

	frame := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		frame[k] = v
	}
	frame["id"] = id
	frame["type"] = msgType

	ch := make(chan commandReply, 1)
	s.pending[id] = ch
	conn := s.conn
	s.mu.Unlock()

	s.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(frame)
	s.writeMu.Unlock()
	if err != nil {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		observe.WSCommands.WithLabelValues(msgType, "write_error").Inc()
		return nil, fmt.Errorf("%w: %s", ErrConnectionLost, logging.MaskSecret(err.Error(), s.token))
	}

	select {
	case reply := <-ch:
		if reply.err != nil {
			observe.WSCommands.WithLabelValues(msgType, "error").Inc()
			return nil, reply.err
		}
		observe.WSCommands.WithLabelValues(msgType, "ok").Inc()
		return reply.result, nil
	case <-ctx.Done():
		// The pending entry stays registered; the listener removes it when
		// the reply arrives or the connection drops, and the buffered
		// channel absorbs the discarded result.
		observe.WSCommands.WithLabelValues(msgType, "abandoned").Inc()
		return nil, ctx.Err()
	}
}

// Close shuts the socket down for good: no reconnect, all pending commands
// fail with ErrConnectionLost. Safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.connected = false
	conn := s.conn
	s.conn = nil
	pend := s.pending
	s.pending = make(map[int64]chan commandReply)
	s.mu.Unlock()

	close(s.done)
	if conn != nil {
		s.writeMu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		conn.Close()
	}
	failPending(pend)
	s.log.Info("websocket closed")
	return nil
}

func (s *Socket) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &AuthError{Message: resp.Status}
		}
		return nil, &ConnectionError{Op: "dial", Err: err}
	}
	if err := s.authenticate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// authenticate runs the fixed handshake: auth_required, auth with the
// access token, then auth_ok or auth_invalid.
func (s *Socket) authenticate(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(handshakeWait))
	defer conn.SetReadDeadline(time.Time{})

	var hello wsFrame
	if err := conn.ReadJSON(&hello); err != nil {
		return &ConnectionError{Op: "handshake", Err: err}
	}
	if hello.Type != "auth_required" {
		return &ConnectionError{Op: "handshake", Err: fmt.Errorf("expected auth_required, got %q", hello.Type)}
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	auth := map[string]string{"type": "auth", "access_token": s.token}
	if err := conn.WriteJSON(auth); err != nil {
		return &ConnectionError{Op: "handshake", Err: err}
	}

	var verdict wsFrame
	if err := conn.ReadJSON(&verdict); err != nil {
		return &ConnectionError{Op: "handshake", Err: err}
	}
	switch verdict.Type {
	case "auth_ok":
		return nil
	case "auth_invalid":
		return &AuthError{Message: verdict.Message}
	default:
		return &ConnectionError{Op: "handshake", Err: fmt.Errorf("expected auth result, got %q", verdict.Type)}
	}
}

// listen is the only reader of conn. It demultiplexes result frames to their
// waiters and triggers reconnection when the read loop breaks.
func (s *Socket) listen(conn *websocket.Conn) {
	for {
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			s.handleDisconnect(conn, err)
			return
		}
		switch f.Type {
		case "result":
			s.deliver(f)
		case "event":
			s.log.Debug("ignoring event frame", "id", f.ID)
		default:
			s.log.Debug("ignoring frame", "type", f.Type, "id", f.ID)
		}
	}
}

func (s *Socket) deliver(f wsFrame) {
	s.mu.Lock()
	ch, ok := s.pending[f.ID]
	if ok {
		delete(s.pending, f.ID)
	}
	s.mu.Unlock()
	if !ok {
		s.log.Debug("result with no waiter", "id", f.ID)
		return
	}
	if f.Success != nil && !*f.Success {
		code, msg := "unknown", ""
		if f.Error != nil {
			code = string(f.Error.Code)
			msg = f.Error.Message
		}
		ch <- commandReply{err: &CommandError{Code: trimQuotes(code), Message: msg}}
		return
	}
	ch <- commandReply{result: f.Result}
}

func (s *Socket) handleDisconnect(conn *websocket.Conn, err error) {
	s.mu.Lock()
	if s.conn != conn {
		// A stale listener for a connection that was already replaced.
		s.mu.Unlock()
		return
	}
	s.connected = false
	s.conn = nil
	pend := s.pending
	s.pending = make(map[int64]chan commandReply)
	closed := s.closed
	s.mu.Unlock()

	failPending(pend)
	if closed {
		return
	}
	s.log.Warn("websocket connection lost",
		"error", logging.MaskSecret(err.Error(), s.token), "pending_failed", len(pend))
	observe.WSReconnects.Inc()
	go s.reconnect()
}

// reconnect retries indefinitely with exponential backoff, 1s doubling to a
// 60s cap, until the dial succeeds, Close is called, or the credential is
// rejected.
func (s *Socket) reconnect() {
	delay := reconnectInitial
	for {
		select {
		case <-s.done:
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*handshakeWait)
		conn, err := s.dial(ctx)
		cancel()
		if err == nil {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				conn.Close()
				return
			}
			s.conn = conn
			s.connected = true
			s.nextID = 1
			s.mu.Unlock()
			s.log.Info("websocket reconnected", "url", s.url)
			go s.listen(conn)
			return
		}

		var authErr *AuthError
		if errors.As(err, &authErr) {
			s.log.Error("reconnect aborted, access token rejected")
			return
		}
		s.log.Warn("reconnect attempt failed",
			"error", logging.MaskSecret(err.Error(), s.token), "next_retry", delay.String())
		delay *= 2
		if delay > reconnectMax {
			delay = reconnectMax
		}
	}
}

func failPending(pend map[int64]chan commandReply) {
	for _, ch := range pend {
		ch <- commandReply{err: ErrConnectionLost}
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
