package autofill

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muurk/otpview/internal/otp"
)

// Path is the HTTP path the listener upgrades to websocket.
const Path = "/autofill"

// Payload is one autofill request. Either Code or Message is set; Message
// is searched for a code with ExtractCode.
type Payload struct {
	Code    string
	Message string
	Paste   bool
}

// wirePayload is the JSON frame. A missing paste field means true.
type wirePayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Paste   *bool  `json:"paste,omitempty"`
}

// Ack is the listener's reply to every frame.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ParsePayload decodes a frame. Anything that is not a JSON object with a
// code or message is taken as raw message text.
func ParsePayload(data []byte) Payload {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err == nil && (w.Code != "" || w.Message != "") {
		p := Payload{Code: w.Code, Message: w.Message, Paste: true}
		if w.Paste != nil {
			p.Paste = *w.Paste
		}
		return p
	}
	return Payload{Message: string(data), Paste: true}
}

// MarshalJSON implements json.Marshaler using the wire format.
func (p Payload) MarshalJSON() ([]byte, error) {
	paste := p.Paste
	return json.Marshal(wirePayload{Code: p.Code, Message: p.Message, Paste: &paste})
}

// Resolve returns the code a field of maxLength runes should receive.
// maxLength <= 0 disables the length checks.
func (p Payload) Resolve(maxLength int) (string, error) {
	if code := strings.TrimSpace(p.Code); code != "" {
		if !otp.IsValidCellInput(code) {
			return "", NewInvalidCodeError("code must contain only letters and digits")
		}
		if maxLength > 0 && utf8.RuneCountInString(code) > maxLength {
			return "", NewInvalidCodeError(fmt.Sprintf("code has %d characters, the field holds %d", utf8.RuneCountInString(code), maxLength))
		}
		return code, nil
	}

	if code, ok := ExtractCode(p.Message, maxLength); ok {
		return code, nil
	}
	return "", NewNoCodeError(maxLength)
}
