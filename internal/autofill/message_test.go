package autofill

import (
	"encoding/json"
	"testing"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Payload
	}{
		{
			name: "code",
			data: `{"code":"482913"}`,
			want: Payload{Code: "482913", Paste: true},
		},
		{
			name: "message without paste",
			data: `{"message":"Your code is 482913","paste":false}`,
			want: Payload{Message: "Your code is 482913", Paste: false},
		},
		{
			name: "raw text",
			data: "Your code is 482913",
			want: Payload{Message: "Your code is 482913", Paste: true},
		},
		{
			name: "empty object is raw text",
			data: `{}`,
			want: Payload{Message: `{}`, Paste: true},
		},
		{
			name: "bare number is raw text",
			data: `482913`,
			want: Payload{Message: "482913", Paste: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePayload([]byte(tt.data)); got != tt.want {
				t.Errorf("ParsePayload(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestPayload_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Payload{Code: "1234", Paste: false})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"code":"1234","paste":false}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	if got := ParsePayload(data); got.Code != "1234" || got.Paste {
		t.Errorf("ParsePayload(Marshal()) = %+v", got)
	}
}

func TestPayload_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		payload  Payload
		length   int
		want     string
		wantType ErrorType
		wantErr  bool
	}{
		{"code", Payload{Code: "482913"}, 6, "482913", 0, false},
		{"code is trimmed", Payload{Code: " 4829 \n"}, 6, "4829", 0, false},
		{"short code accepted", Payload{Code: "12"}, 6, "12", 0, false},
		{"code too long", Payload{Code: "1234567"}, 6, "", ErrTypeInvalidCode, true},
		{"code with symbols", Payload{Code: "12-34"}, 6, "", ErrTypeInvalidCode, true},
		{"code without length limit", Payload{Code: "123456789"}, 0, "123456789", 0, false},
		{"message", Payload{Message: "G-482913 is your code"}, 6, "482913", 0, false},
		{"message without code", Payload{Message: "hello there"}, 6, "", ErrTypeNoCode, true},
		{"code wins over message", Payload{Code: "1111", Message: "2222"}, 4, "1111", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.payload.Resolve(tt.length)
			if tt.wantErr {
				if !IsType(err, tt.wantType) {
					t.Fatalf("Resolve() error = %v, want type %v", err, tt.wantType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
