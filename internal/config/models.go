package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/muurk/otpview/internal/otp"
)

// CurrentVersion is the only config file version this build understands.
const CurrentVersion = 1

// DefaultProfileName is used when neither a flag nor the preferences name one.
const DefaultProfileName = "default"

// Registry represents the entire user configuration file.
// It stores named field profiles and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Profiles    map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Profile is a saved field layout. Fields mirror otp.Config; unset fields
// take the otp defaults.
type Profile struct {
	InputCount      int    `yaml:"input_count,omitempty"`
	InputCellLength int    `yaml:"input_cell_length,omitempty"`
	DefaultValue    string `yaml:"default_value,omitempty"`
	TintColor       Tint   `yaml:"tint_color,omitempty"`     // Scalar or one color per cell
	OffTintColor    Tint   `yaml:"off_tint_color,omitempty"` // Scalar or one color per cell
	KeyboardType    string `yaml:"keyboard_type,omitempty"`
	AutoFocus       bool   `yaml:"auto_focus"`
	TestIDPrefix    string `yaml:"test_id_prefix,omitempty"`
	ShowIDs         bool   `yaml:"show_ids,omitempty"` // Render cell ids under the cells
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultProfile  string `yaml:"default_profile,omitempty"` // Profile used when --profile is not given
	AutofillListen  string `yaml:"autofill_listen"`           // Listen address of the autofill server
	AdvertiseMDNS   bool   `yaml:"advertise_mdns"`            // Announce the autofill server via mDNS
	DiscoverTimeout int    `yaml:"discover_timeout"`          // mDNS browse timeout in seconds
}

// Tint is the YAML form of otp.Tint. A scalar node is one color for every
// cell; a sequence node is one color per cell.
type Tint struct {
	Colors  []string
	PerCell bool
}

// IsZero reports whether no color was configured. yaml.v3 uses it for omitempty.
func (t Tint) IsZero() bool {
	return len(t.Colors) == 0
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Tint) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*t = Tint{}
		if s != "" {
			t.Colors = []string{s}
		}
		return nil
	case yaml.SequenceNode:
		var colors []string
		if err := node.Decode(&colors); err != nil {
			return err
		}
		*t = Tint{Colors: colors, PerCell: true}
		return nil
	default:
		return fmt.Errorf("line %d: tint must be a color or a list of colors", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (t Tint) MarshalYAML() (interface{}, error) {
	if t.PerCell {
		return t.Colors, nil
	}
	if len(t.Colors) == 0 {
		return nil, nil
	}
	return t.Colors[0], nil
}

// ToOTP converts the YAML form into an otp.Tint.
func (t Tint) ToOTP() otp.Tint {
	if t.IsZero() {
		return otp.Tint{}
	}
	colors := make([]otp.Color, len(t.Colors))
	for i, c := range t.Colors {
		colors[i] = otp.Color(c)
	}
	if t.PerCell {
		return otp.PerCell(colors...)
	}
	return otp.Uniform(colors[0])
}

// TintFromOTP converts an otp.Tint into its YAML form.
func TintFromOTP(t otp.Tint) Tint {
	if t.IsZero() {
		return Tint{}
	}
	colors := t.Colors()
	out := Tint{Colors: make([]string, len(colors)), PerCell: t.IsPerCell()}
	for i, c := range colors {
		out.Colors[i] = string(c)
	}
	return out
}

// ToOTPConfig returns the profile as an otp.Config with defaults applied.
// The result is not validated; otp.NewMachine does that.
func (p *Profile) ToOTPConfig() otp.Config {
	return otp.Config{
		InputCount:      p.InputCount,
		InputCellLength: p.InputCellLength,
		DefaultValue:    p.DefaultValue,
		TintColor:       p.TintColor.ToOTP(),
		OffTintColor:    p.OffTintColor.ToOTP(),
		KeyboardType:    otp.KeyboardType(p.KeyboardType),
		AutoFocus:       p.AutoFocus,
		TestIDPrefix:    p.TestIDPrefix,
	}.WithDefaults()
}

// ProfileFromOTPConfig captures an otp.Config as a profile.
func ProfileFromOTPConfig(c otp.Config) *Profile {
	return &Profile{
		InputCount:      c.InputCount,
		InputCellLength: c.InputCellLength,
		DefaultValue:    c.DefaultValue,
		TintColor:       TintFromOTP(c.TintColor),
		OffTintColor:    TintFromOTP(c.OffTintColor),
		KeyboardType:    string(c.KeyboardType),
		AutoFocus:       c.AutoFocus,
		TestIDPrefix:    c.TestIDPrefix,
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DefaultProfile:  DefaultProfileName,
		AutofillListen:  "127.0.0.1:7391",
		AdvertiseMDNS:   false,
		DiscoverTimeout: 5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Profiles:    make(map[string]*Profile),
		Preferences: defaultPreferences(),
	}
}

// GetProfile retrieves a profile by name.
// Returns nil if the profile doesn't exist in the registry.
func (r *Registry) GetProfile(name string) *Profile {
	return r.Profiles[name]
}

// SetProfile stores p under name, replacing any existing profile.
func (r *Registry) SetProfile(name string, p *Profile) {
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = p
}

// ProfileNames returns the profile names in sorted order.
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveProfile picks the profile for a run. An explicit name must exist.
// With no name the preferred default is used, falling back to the built-in
// defaults when the file has no such profile.
func (r *Registry) ResolveProfile(name string) (*Profile, error) {
	if name != "" {
		p := r.GetProfile(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
		}
		return p, nil
	}

	if r.Preferences != nil && r.Preferences.DefaultProfile != "" {
		if p := r.GetProfile(r.Preferences.DefaultProfile); p != nil {
			return p, nil
		}
	}
	return BuiltinProfile(), nil
}

// BuiltinProfile is used when the config file names no default profile. It
// is the otp defaults with the first cell focused, like the example profiles.
func BuiltinProfile() *Profile {
	p := ProfileFromOTPConfig(otp.DefaultConfig())
	p.AutoFocus = true
	return p
}
