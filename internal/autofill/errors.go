package autofill

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
)

// ErrorType represents the category of an autofill failure
type ErrorType int

const (
	// ErrTypeListen indicates the listener could not bind its address
	ErrTypeListen ErrorType = iota
	// ErrTypeDial indicates a generic failure to reach a listener
	ErrTypeDial
	// ErrTypeTimeout indicates the peer did not answer in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing listens at the address
	ErrTypeConnectionRefused
	// ErrTypeHandshake indicates the HTTP upgrade to websocket failed
	ErrTypeHandshake
	// ErrTypeProtocol indicates a malformed or missing acknowledgement
	ErrTypeProtocol
	// ErrTypeNoCode indicates a message without a recognizable code
	ErrTypeNoCode
	// ErrTypeInvalidCode indicates a code the field cannot hold
	ErrTypeInvalidCode
	// ErrTypeRejected indicates the listener refused the code
	ErrTypeRejected
	// ErrTypeDiscovery indicates mDNS browsing or registration failed
	ErrTypeDiscovery
	// ErrTypeNotFound indicates no listener was discovered
	ErrTypeNotFound
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeListen:
		return "Listen Error"
	case ErrTypeDial:
		return "Connection Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeHandshake:
		return "Handshake Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeNoCode:
		return "No Code Found"
	case ErrTypeInvalidCode:
		return "Invalid Code"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeDiscovery:
		return "Discovery Error"
	case ErrTypeNotFound:
		return "Not Found"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every autofill operation
type Error struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	Target    string    // Address or URL involved, if any
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether trying again may succeed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// NewNoCodeError reports a message that holds no code of the expected length
func NewNoCodeError(length int) *Error {
	if length > 0 {
		return newError(ErrTypeNoCode, fmt.Sprintf("no %d character code found in message", length), nil)
	}
	return newError(ErrTypeNoCode, "no code found in message", nil)
}

// NewInvalidCodeError reports a code the field cannot hold
func NewInvalidCodeError(message string) *Error {
	return newError(ErrTypeInvalidCode, message, nil)
}

// NewRejectedError reports a negative acknowledgement from a listener
func NewRejectedError(target, reason string) *Error {
	return &Error{Type: ErrTypeRejected, Message: reason, Target: target}
}

// NewProtocolError reports a broken exchange with a listener
func NewProtocolError(target, message string, err error) *Error {
	return &Error{Type: ErrTypeProtocol, Message: message, Target: target, Err: err, Retryable: true}
}

// ClassifyDialError turns a websocket dial failure into an *Error.
// resp is the HTTP response of a failed handshake and may be nil.
func ClassifyDialError(err error, target string, resp *http.Response) *Error {
	if err == nil {
		return nil
	}

	if resp != nil {
		return &Error{
			Type:    ErrTypeHandshake,
			Message: fmt.Sprintf("listener answered HTTP %d instead of upgrading", resp.StatusCode),
			Target:  target,
			Err:     err,
		}
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &Error{Type: ErrTypeTimeout, Message: "connection timed out", Target: target, Err: err, Retryable: true}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &Error{Type: ErrTypeConnectionRefused, Message: "nothing is listening at " + target, Target: target, Err: err, Retryable: true}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{Type: ErrTypeConnectionRefused, Message: "nothing is listening at " + target, Target: target, Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Type: ErrTypeDial, Message: fmt.Sprintf("cannot resolve %s", dnsErr.Name), Target: target, Err: err}
	}

	return &Error{Type: ErrTypeDial, Message: "failed to connect", Target: target, Err: err, Retryable: true}
}

// IsRetryable reports whether err is an *Error worth retrying
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// IsType reports whether err is an *Error of type t
func IsType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

// GetTroubleshootingHint returns user-facing advice for an autofill error
func GetTroubleshootingHint(err error) []string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	switch e.Type {
	case ErrTypeListen:
		return []string{
			"Another process may already use the address; pick one with --listen",
			"Use port 0 to let the system choose a free port",
		}
	case ErrTypeConnectionRefused, ErrTypeTimeout, ErrTypeDial:
		return []string{
			"Check that an otpview prompt is running with --autofill",
			"Verify the URL or run 'otpview scan' to find listeners",
			"A listener bound to 127.0.0.1 only accepts local connections",
		}
	case ErrTypeHandshake:
		return []string{
			"The URL must point at the /autofill path of the listener",
		}
	case ErrTypeNoCode, ErrTypeInvalidCode, ErrTypeRejected:
		return []string{
			"Send the code itself with --code, or the full message text",
			"The code must match the prompt's cell count and keyboard",
		}
	case ErrTypeDiscovery, ErrTypeNotFound:
		return []string{
			"Start the prompt with mDNS advertising enabled (--advertise)",
			"mDNS does not cross subnets or most VPNs; pass --url instead",
			"Try a longer --timeout",
		}
	default:
		return nil
	}
}
