package autofill

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/otpview/internal/logging"
)

// DefaultPushTimeout bounds a whole push: dial, send and acknowledgement.
const DefaultPushTimeout = 10 * time.Second

// Push sends p to the listener at url and waits for its acknowledgement.
// A negative acknowledgement is returned as an ErrTypeRejected error.
func Push(ctx context.Context, url string, p Payload) (Ack, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPushTimeout)
		defer cancel()
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: DefaultPushTimeout,
	}

	logging.Debug("Pushing autofill payload", zap.String("url", url), zap.Bool("paste", p.Paste))

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return Ack{}, &Error{Type: ErrTypeTimeout, Message: "connection timed out", Target: url, Err: err, Retryable: true}
		}
		return Ack{}, ClassifyDialError(err, url, resp)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	if err := conn.WriteJSON(p); err != nil {
		return Ack{}, NewProtocolError(url, "failed to send payload", err)
	}

	var ack Ack
	if err := conn.ReadJSON(&ack); err != nil {
		return Ack{}, NewProtocolError(url, "no acknowledgement from listener", err)
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))

	if !ack.OK {
		return ack, NewRejectedError(url, ack.Error)
	}
	return ack, nil
}
