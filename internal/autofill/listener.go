package autofill

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/otpview/internal/logging"
	"github.com/muurk/otpview/internal/otp"
)

const (
	// Time allowed to write an acknowledgement to the peer
	writeWait = 10 * time.Second

	// Idle time after which a silent connection is dropped
	readWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// DefaultListenPort is the port the listener and the picker assume
	DefaultListenPort = 7391

	// DefaultListenAddr keeps the listener on the local machine
	DefaultListenAddr = "127.0.0.1:7391"
)

// Sink receives every accepted code. It is called from the connection's
// goroutine.
type Sink func(code string, paste bool)

// ListenerConfig holds the listener settings
type ListenerConfig struct {
	Addr       string // host:port; port 0 picks a free port
	CodeLength int    // Runes the field holds; used to find codes in messages

	// Keyboard rejects codes with runes the field's keyboard could not type.
	// Empty accepts any letters and digits.
	Keyboard otp.KeyboardType
}

// Listener accepts autofill pushes over websocket and hands the codes to a
// Sink.
type Listener struct {
	cfg      ListenerConfig
	sink     Sink
	upgrader websocket.Upgrader

	srv *http.Server
	ln  net.Listener

	mu     sync.Mutex
	closed bool
	conns  map[*websocket.Conn]struct{}
	wg     sync.WaitGroup
}

// NewListener creates a listener. Nothing is bound until Start.
func NewListener(cfg ListenerConfig, sink Sink) *Listener {
	if cfg.Addr == "" {
		cfg.Addr = DefaultListenAddr
	}
	return &Listener{
		cfg:  cfg,
		sink: sink,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP handler serving Path.
func (l *Listener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, l.serveWS)
	return mux
}

// Start binds the configured address and serves in the background.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.cfg.Addr)
	if err != nil {
		return &Error{Type: ErrTypeListen, Message: "cannot listen on " + l.cfg.Addr, Target: l.cfg.Addr, Err: err}
	}
	l.ln = ln
	l.srv = &http.Server{
		Handler:           l.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Autofill listener started", zap.String("addr", ln.Addr().String()))

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Autofill listener stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *Listener) Addr() net.Addr {
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Port returns the bound TCP port, or 0 before Start.
func (l *Listener) Port() int {
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// URL returns the websocket URL of the listener, or "" before Start.
func (l *Listener) URL() string {
	if l.Addr() == nil {
		return ""
	}
	return fmt.Sprintf("ws://%s%s", l.Addr().String(), Path)
}

// Shutdown stops accepting pushes and closes open connections.
func (l *Listener) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	var err error
	if l.srv != nil {
		err = l.srv.Shutdown(ctx)
	}

	// Hijacked websocket connections are not closed by http.Server.
	l.mu.Lock()
	for c := range l.conns {
		_ = c.Close()
	}
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	logging.Info("Autofill listener stopped")
	return err
}

// track registers an upgraded connection. It reports false once Shutdown
// has started; the caller must close the connection itself.
func (l *Listener) track(c *websocket.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.conns[c] = struct{}{}
	l.wg.Add(1)
	return true
}

func (l *Listener) untrack(c *websocket.Conn) {
	l.mu.Lock()
	delete(l.conns, c)
	l.mu.Unlock()
	l.wg.Done()
}

func (l *Listener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Listener) serveWS(w http.ResponseWriter, r *http.Request) {
	remote := r.RemoteAddr
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Autofill upgrade failed", zap.String("remote_addr", remote), zap.Error(err))
		return
	}

	if !l.track(conn) {
		logging.LogAutofill(remote, "refused")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "listener shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer func() {
		_ = conn.Close()
		logging.LogAutofill(remote, "closed")
		l.untrack(conn)
	}()

	logging.LogAutofill(remote, "connected")
	conn.SetReadLimit(maxMessageSize)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			return
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("Autofill connection ended", zap.String("remote_addr", remote), zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		ack := l.handle(remote, data)

		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(ack); err != nil {
			logging.Warn("Failed to write autofill ack", zap.String("remote_addr", remote), zap.Error(err))
			return
		}
	}
}

// handle resolves one frame into a code and delivers it.
func (l *Listener) handle(remote string, data []byte) Ack {
	if l.isClosed() {
		logging.LogAutofill(remote, "rejected")
		return Ack{OK: false, Error: "listener is shutting down"}
	}

	p := ParsePayload(data)
	code, err := p.Resolve(l.cfg.CodeLength)
	if err == nil {
		err = checkKeyboard(code, l.cfg.Keyboard)
	}
	if err != nil {
		logging.LogAutofill(remote, "rejected")
		logging.Debug("Autofill payload rejected", zap.String("remote_addr", remote), zap.Error(err))
		return Ack{OK: false, Error: err.Error()}
	}

	logging.LogAutofill(remote, "accepted")
	logging.Debug("Autofill code accepted",
		zap.String("remote_addr", remote),
		zap.String("code", logging.MaskCode(code)),
		zap.Bool("paste", p.Paste),
	)
	if l.sink != nil {
		l.sink(code, p.Paste)
	}
	return Ack{OK: true}
}

// checkKeyboard rejects codes a keyboard of type kb could not have typed.
func checkKeyboard(code string, kb otp.KeyboardType) error {
	for _, r := range code {
		if !kb.Accepts(r) {
			return NewInvalidCodeError(fmt.Sprintf("code has characters a %s keyboard cannot type", kb))
		}
	}
	return nil
}
