package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/muurk/otpview/internal/autofill"
)

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs otpview with args against a config file in a temp dir.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

func exitCode(err error) int {
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestChunkJSON(t *testing.T) {
	out, err := execute(t, "", "chunk", "4829137", "-n", "3", "-l", "2", "--format", "json", "--config", tempConfig(t))
	if err != nil {
		t.Fatalf("chunk error = %v", err)
	}

	var cells []cellJSON
	if err := json.Unmarshal([]byte(out), &cells); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := []cellJSON{
		{Index: 0, ID: "otp_input_0", Value: "48"},
		{Index: 1, ID: "otp_input_1", Value: "29"},
		{Index: 2, ID: "otp_input_2", Value: "13"},
	}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %+v, want %+v", i, cells[i], want[i])
		}
	}
}

func TestChunkText(t *testing.T) {
	out, err := execute(t, "", "chunk", "12", "-n", "4", "--prefix", "pin_", "--config", tempConfig(t))
	if err != nil {
		t.Fatalf("chunk error = %v", err)
	}
	for _, want := range []string{"pin_0", "pin_3", "(empty)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestChunkProfile(t *testing.T) {
	path := tempConfig(t)
	if _, err := execute(t, "", "config", "init", "--config", path); err != nil {
		t.Fatalf("config init error = %v", err)
	}

	out, err := execute(t, "", "chunk", "ABCD1234EFGH", "--profile", "voucher", "--format", "json", "--config", path)
	if err != nil {
		t.Fatalf("chunk error = %v", err)
	}
	var cells []cellJSON
	if err := json.Unmarshal([]byte(out), &cells); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(cells) != 3 || cells[2].Value != "EFGH" {
		t.Errorf("cells = %+v, want 3 cells of 4", cells)
	}
}

func TestChunkInvalidConfig(t *testing.T) {
	_, err := execute(t, "", "chunk", "1234", "-n", "-1", "--config", tempConfig(t))
	if got := exitCode(err); got != 1 {
		t.Errorf("exit code = %d, want 1", got)
	}
}

func TestFieldSettingsAutoFocus(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no config and no flags", nil, true},
		{"flag turns it off", []string{"--autofocus=false"}, false},
		{"flag set explicitly", []string{"--autofocus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(rootCmd)
			args := append([]string{"--config", tempConfig(t)}, tt.args...)
			if err := rootCmd.ParseFlags(args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			cfg, _, _, err := fieldSettings(rootCmd)
			if err != nil {
				t.Fatalf("fieldSettings() error = %v", err)
			}
			if cfg.AutoFocus != tt.want {
				t.Errorf("fieldSettings() AutoFocus = %v, want %v", cfg.AutoFocus, tt.want)
			}
			if def := rootCmd.Flags().Lookup("autofocus").DefValue; def != "true" {
				t.Errorf("--autofocus default = %s, want true to match the built-in profile", def)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"12ab", 0},
		{"12 34", 1},
		{"ü1", 1},
	}
	for _, tt := range tests {
		_, err := execute(t, "", "validate", tt.text, "--quiet")
		if got := exitCode(err); got != tt.want {
			t.Errorf("validate %q exit code = %d, want %d", tt.text, got, tt.want)
		}
	}

	out, _ := execute(t, "", "validate", "12-3")
	if !strings.Contains(out, "Invalid cell input") {
		t.Errorf("output missing warning:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := tempConfig(t)

	out, err := execute(t, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "does not exist") {
		t.Errorf("show before init:\n%s", out)
	}

	if _, err := execute(t, "", "config", "init", "--config", path); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out, err = execute(t, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"totp:", "voucher:", "autofill_listen"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q", want)
		}
	}

	out, err = execute(t, "", "config", "path", "--config", path)
	if err != nil || strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, %v, want %q", out, err, path)
	}
}

func TestConfigInitExisting(t *testing.T) {
	path := tempConfig(t)
	if err := os.WriteFile(path, []byte("version: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "config", "init", "--config", path); exitCode(err) != 1 {
		t.Errorf("init without --force: err = %v, want exit 1", err)
	}

	// Refusing the prompt keeps the file.
	if _, err := execute(t, "no\n", "config", "init", "--force", "--config", path); exitCode(err) != 1 {
		t.Errorf("init refused: err = %v, want exit 1", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "version: 1\n" {
		t.Error("refused init changed the file")
	}

	if _, err := execute(t, "yes\n", "config", "init", "--force", "--config", path); err != nil {
		t.Errorf("init confirmed: err = %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "voucher") {
		t.Error("confirmed init did not write the example profiles")
	}
}

func TestPush(t *testing.T) {
	got := make(chan string, 1)
	listener := autofill.NewListener(autofill.ListenerConfig{Addr: "127.0.0.1:0", CodeLength: 6}, func(code string, paste bool) {
		got <- code
	})
	if err := listener.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = listener.Shutdown(ctx)
	})

	out, err := execute(t, "", "push", "Your code is 482913", "--url", listener.URL(), "--config", tempConfig(t))
	if err != nil {
		t.Fatalf("push error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Code delivered") {
		t.Errorf("output missing success:\n%s", out)
	}
	if code := <-got; code != "482913" {
		t.Errorf("listener got %q, want %q", code, "482913")
	}

	out, err = execute(t, "", "push", "no code in here", "--url", listener.URL(), "--config", tempConfig(t))
	if exitCode(err) != 1 || !strings.Contains(out, "Push failed") {
		t.Errorf("rejected push: err = %v\n%s", err, out)
	}
}

func TestPushNothing(t *testing.T) {
	if _, err := execute(t, "", "push", "--url", "ws://127.0.0.1:1/autofill"); err == nil {
		t.Error("push with no code or message succeeded")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil || !strings.HasPrefix(out, "otpview ") {
		t.Errorf("version = %q, %v", out, err)
	}
}
