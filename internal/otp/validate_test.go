package otp

import "testing"

func TestIsValidCellInput(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"1", true},
		{"a", true},
		{"Z", true},
		{"a1B2", true},
		{"", false},
		{" ", false},
		{"1 ", false},
		{"-", false},
		{"1.", false},
		{"é", false},
		{"١", false}, // Arabic-Indic digit one
		{"\t", false},
		{"12\n", false},
	}

	for _, tt := range tests {
		if got := IsValidCellInput(tt.text); got != tt.want {
			t.Errorf("IsValidCellInput(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
