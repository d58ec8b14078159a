package autofill

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyDialError(t *testing.T) {
	const target = "ws://127.0.0.1:7391/autofill"

	tests := []struct {
		name          string
		err           error
		resp          *http.Response
		wantType      ErrorType
		wantRetryable bool
	}{
		{
			name:          "timeout",
			err:           &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}},
			wantType:      ErrTypeTimeout,
			wantRetryable: true,
		},
		{
			name:          "connection refused",
			err:           &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			wantType:      ErrTypeConnectionRefused,
			wantRetryable: true,
		},
		{
			name:     "dns failure",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Name: "nowhere.invalid", Err: "no such host"}},
			wantType: ErrTypeDial,
		},
		{
			name:     "bad handshake",
			err:      errors.New("websocket: bad handshake"),
			resp:     &http.Response{StatusCode: http.StatusNotFound},
			wantType: ErrTypeHandshake,
		},
		{
			name:          "other",
			err:           errors.New("boom"),
			wantType:      ErrTypeDial,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDialError(tt.err, target, tt.resp)
			if got == nil {
				t.Fatal("ClassifyDialError() = nil")
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
			if got.Target != target {
				t.Errorf("Target = %q, want %q", got.Target, target)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is(got, cause) = false, want true")
			}
		})
	}

	if ClassifyDialError(nil, target, nil) != nil {
		t.Error("ClassifyDialError(nil) != nil")
	}
}

func TestError_Error(t *testing.T) {
	err := NewRejectedError("ws://x/autofill", "no code found")
	if got, want := err.Error(), "Rejected: no code found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := NewProtocolError("ws://x/autofill", "no acknowledgement", errors.New("EOF"))
	if !strings.Contains(wrapped.Error(), "caused by: EOF") {
		t.Errorf("Error() = %q, want cause", wrapped.Error())
	}
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable(protocol error) = false")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable(plain error) = true")
	}
}

func TestErrorType_String(t *testing.T) {
	if got := ErrTypeNoCode.String(); got != "No Code Found" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorType(99).String(); got != "ErrorType(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	types := []ErrorType{
		ErrTypeListen, ErrTypeDial, ErrTypeTimeout, ErrTypeConnectionRefused,
		ErrTypeHandshake, ErrTypeNoCode, ErrTypeInvalidCode, ErrTypeRejected,
		ErrTypeDiscovery, ErrTypeNotFound,
	}
	for _, et := range types {
		if hints := GetTroubleshootingHint(&Error{Type: et}); len(hints) == 0 {
			t.Errorf("GetTroubleshootingHint(%v) returned no hints", et)
		}
	}

	if hints := GetTroubleshootingHint(errors.New("plain")); hints != nil {
		t.Errorf("GetTroubleshootingHint(plain) = %v, want nil", hints)
	}
}
