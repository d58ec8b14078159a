package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact", "yes\n", true},
		{"case and spaces", "  YES \n", true},
		{"other", "y\n", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrinter(&out).WithWidth(80)
			got := p.Confirm(strings.NewReader(tt.input), "Overwrite config", []string{"profiles are replaced"}, "yes")
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "profiles are replaced") {
				t.Errorf("output missing warning: %q", out.String())
			}
		})
	}
}

func TestResultRender(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out).WithWidth(80)

	p.PrintSuccess("Code entered", Detail{Key: "Code", Value: "482913"})
	p.PrintError("Push failed", errors.New("connection refused"), []string{"Is the prompt running?"})

	got := out.String()
	for _, want := range []string{"SUCCESS", "Code entered", "482913", "FAILED", "connection refused", "Troubleshooting:", "Is the prompt running?"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
