package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/muurk/otpview/internal/otp"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(tmp, "otpview"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Profiles == nil {
		t.Error("NewRegistry().Profiles should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.DefaultProfile != DefaultProfileName {
		t.Errorf("NewRegistry().Preferences.DefaultProfile = %q, want %q", reg.Preferences.DefaultProfile, DefaultProfileName)
	}
	if reg.Preferences.AdvertiseMDNS {
		t.Error("NewRegistry().Preferences.AdvertiseMDNS should be false by default")
	}
}

func TestTintUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tint
		wantErr bool
	}{
		{"scalar", `tint: "#FF0000"`, Tint{Colors: []string{"#FF0000"}}, false},
		{"sequence", `tint: ["#FF0000", "#00FF00"]`, Tint{Colors: []string{"#FF0000", "#00FF00"}, PerCell: true}, false},
		{"single element sequence", `tint: ["#FF0000"]`, Tint{Colors: []string{"#FF0000"}, PerCell: true}, false},
		{"empty scalar", `tint: ""`, Tint{}, false},
		{"mapping", `tint: {a: b}`, Tint{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Tint Tint `yaml:"tint"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if doc.Tint.PerCell != tt.want.PerCell || strings.Join(doc.Tint.Colors, ",") != strings.Join(tt.want.Colors, ",") {
				t.Errorf("Unmarshal() = %+v, want %+v", doc.Tint, tt.want)
			}
		})
	}
}

func TestTintMarshalYAML(t *testing.T) {
	doc := struct {
		A Tint `yaml:"a,omitempty"`
		B Tint `yaml:"b,omitempty"`
		C Tint `yaml:"c,omitempty"`
	}{
		A: Tint{Colors: []string{"red"}},
		B: Tint{Colors: []string{"red", "blue"}, PerCell: true},
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "a: red\n") {
		t.Errorf("Marshal() = %q, want scalar a", out)
	}
	if !strings.Contains(out, "b:\n    - red\n    - blue\n") {
		t.Errorf("Marshal() = %q, want sequence b", out)
	}
	if strings.Contains(out, "c:") {
		t.Errorf("Marshal() = %q, empty tint should be omitted", out)
	}
}

func TestTintConversion(t *testing.T) {
	perCell := otp.PerCell("#111111", "#222222")
	if got := TintFromOTP(perCell).ToOTP(); got.String() != perCell.String() || !got.IsPerCell() {
		t.Errorf("TintFromOTP(%v).ToOTP() = %v (perCell=%v)", perCell, got, got.IsPerCell())
	}

	uniform := otp.Uniform("#333333")
	if got := TintFromOTP(uniform).ToOTP(); got.String() != "#333333" || got.IsPerCell() {
		t.Errorf("TintFromOTP(%v).ToOTP() = %v (perCell=%v)", uniform, got, got.IsPerCell())
	}

	if !(Tint{}).ToOTP().IsZero() {
		t.Error("Tint{}.ToOTP() should be zero")
	}
}

func TestProfileToOTPConfig(t *testing.T) {
	p := &Profile{
		InputCount:   6,
		KeyboardType: "number-pad",
		TintColor:    Tint{Colors: []string{"#5A56E0"}},
	}

	cfg := p.ToOTPConfig()

	if cfg.InputCount != 6 {
		t.Errorf("InputCount = %d, want 6", cfg.InputCount)
	}
	if cfg.InputCellLength != otp.DefaultInputCellLength {
		t.Errorf("InputCellLength = %d, want %d", cfg.InputCellLength, otp.DefaultInputCellLength)
	}
	if cfg.KeyboardType != otp.KeyboardNumberPad {
		t.Errorf("KeyboardType = %q, want %q", cfg.KeyboardType, otp.KeyboardNumberPad)
	}
	if cfg.TintColor.String() != "#5A56E0" {
		t.Errorf("TintColor = %v, want #5A56E0", cfg.TintColor)
	}
	if cfg.OffTintColor.String() != string(otp.DefaultOffTintColor) {
		t.Errorf("OffTintColor = %v, want %v", cfg.OffTintColor, otp.DefaultOffTintColor)
	}
	if cfg.TestIDPrefix != otp.DefaultTestIDPrefix {
		t.Errorf("TestIDPrefix = %q, want %q", cfg.TestIDPrefix, otp.DefaultTestIDPrefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestResolveProfile(t *testing.T) {
	reg := ExampleRegistry()

	p, err := reg.ResolveProfile("totp")
	if err != nil {
		t.Fatalf("ResolveProfile(totp) error = %v", err)
	}
	if p.InputCount != 6 {
		t.Errorf("ResolveProfile(totp).InputCount = %d, want 6", p.InputCount)
	}

	p, err = reg.ResolveProfile("")
	if err != nil {
		t.Fatalf("ResolveProfile(\"\") error = %v", err)
	}
	if p != reg.GetProfile(DefaultProfileName) {
		t.Error("ResolveProfile(\"\") should return the preferred default profile")
	}

	if _, err := reg.ResolveProfile("missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("ResolveProfile(missing) error = %v, want ErrProfileNotFound", err)
	}

	empty := NewRegistry()
	p, err = empty.ResolveProfile("")
	if err != nil {
		t.Fatalf("empty.ResolveProfile(\"\") error = %v", err)
	}
	if p.InputCount != otp.DefaultInputCount {
		t.Errorf("built-in profile InputCount = %d, want %d", p.InputCount, otp.DefaultInputCount)
	}
	if !p.AutoFocus {
		t.Error("built-in profile AutoFocus = false, want true")
	}
	if otp.DefaultConfig().AutoFocus {
		t.Error("BuiltinProfile() changed otp.DefaultConfig()")
	}
}

func TestProfileNames(t *testing.T) {
	got := strings.Join(ExampleRegistry().ProfileNames(), ",")
	if want := "default,totp,voucher"; got != want {
		t.Errorf("ProfileNames() = %v, want %v", got, want)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := ExampleRegistry()
	reg.Preferences.AdvertiseMDNS = true
	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after SaveTo()")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	voucher := loaded.GetProfile("voucher")
	if voucher == nil {
		t.Fatal("voucher profile should exist in loaded registry")
	}
	if !voucher.TintColor.PerCell || len(voucher.TintColor.Colors) != 3 {
		t.Errorf("voucher.TintColor = %+v, want 3 per-cell colors", voucher.TintColor)
	}
	if !voucher.ShowIDs {
		t.Error("voucher.ShowIDs should survive a round trip")
	}
	if !loaded.Preferences.AdvertiseMDNS {
		t.Error("Preferences.AdvertiseMDNS should survive a round trip")
	}
	if err := voucher.ToOTPConfig().Validate(); err != nil {
		t.Errorf("voucher config Validate() error = %v", err)
	}
}

func TestLoadRegistryFromMissingFile(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != CurrentVersion || len(reg.Profiles) != 0 {
		t.Errorf("LoadRegistryFrom(missing) = %+v, want empty default registry", reg)
	}
}

func TestLoadRegistryRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadRegistryFrom(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("LoadRegistryFrom() error = %v, want unsupported version", err)
	}
}

func TestLoadRegistryFillsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("version: 1\nprofiles:\n  pin:\n    input_count: 4\n    tint_color: [a, b, c, d]\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Preferences == nil || reg.Preferences.AutofillListen == "" {
		t.Errorf("Preferences = %+v, want defaults filled in", reg.Preferences)
	}
	if got := reg.GetProfile("pin").TintColor.Colors; len(got) != 4 {
		t.Errorf("pin tint colors = %v, want 4", got)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := CreateDefaultConfig(path, false); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if err := CreateDefaultConfig(path, false); err == nil {
		t.Error("CreateDefaultConfig() should refuse to overwrite without force")
	}
	if err := CreateDefaultConfig(path, true); err != nil {
		t.Errorf("CreateDefaultConfig(force) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# otpview configuration file") {
		t.Errorf("config file should start with the header comment, got %q", string(data[:40]))
	}
}

func BenchmarkResolveProfile(b *testing.B) {
	reg := ExampleRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.ResolveProfile("totp")
	}
}
