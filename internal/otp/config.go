package otp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Defaults for an unset Config field
const (
	DefaultInputCount      = 4
	DefaultInputCellLength = 1
	DefaultTestIDPrefix    = "otp_input_"
	DefaultKeyboardType    = KeyboardNumeric
)

// KeyboardType names the kind of keyboard a cell asks for. Terminal widgets
// use it to drop runes that keyboard could not have produced.
type KeyboardType string

const (
	KeyboardDefault      KeyboardType = "default"
	KeyboardNumeric      KeyboardType = "numeric"
	KeyboardNumberPad    KeyboardType = "number-pad"
	KeyboardDecimalPad   KeyboardType = "decimal-pad"
	KeyboardPhonePad     KeyboardType = "phone-pad"
	KeyboardEmail        KeyboardType = "email-address"
	KeyboardASCIICapable KeyboardType = "ascii-capable"
	KeyboardVisiblePass  KeyboardType = "visible-password"
)

var keyboardTypes = map[KeyboardType]bool{
	KeyboardDefault:      true,
	KeyboardNumeric:      true,
	KeyboardNumberPad:    true,
	KeyboardDecimalPad:   true,
	KeyboardPhonePad:     true,
	KeyboardEmail:        true,
	KeyboardASCIICapable: true,
	KeyboardVisiblePass:  true,
}

// Valid reports whether k is a known keyboard type.
func (k KeyboardType) Valid() bool {
	return keyboardTypes[k]
}

// Accepts reports whether a keyboard of this type can produce r.
// Numeric keyboards only produce digits; the rest leave filtering to
// IsValidCellInput.
func (k KeyboardType) Accepts(r rune) bool {
	switch k {
	case KeyboardNumeric, KeyboardNumberPad, KeyboardDecimalPad, KeyboardPhonePad:
		return r >= '0' && r <= '9'
	default:
		return true
	}
}

func joinKeyboardTypes() string {
	names := make([]string, 0, len(keyboardTypes))
	for k := range keyboardTypes {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Config holds the construction-time settings of a field. Zero values are
// replaced by defaults; Validate reports settings that cannot be used.
type Config struct {
	InputCount      int
	InputCellLength int
	DefaultValue    string
	TintColor       Tint
	OffTintColor    Tint
	KeyboardType    KeyboardType
	AutoFocus       bool
	TestIDPrefix    string
}

// DefaultConfig returns the config of a four cell numeric field.
func DefaultConfig() Config {
	return Config{
		InputCount:      DefaultInputCount,
		InputCellLength: DefaultInputCellLength,
		TintColor:       Uniform(DefaultTintColor),
		OffTintColor:    Uniform(DefaultOffTintColor),
		KeyboardType:    DefaultKeyboardType,
		TestIDPrefix:    DefaultTestIDPrefix,
	}
}

// WithDefaults returns a copy of c with every unset field filled in.
// InputCount and InputCellLength are only defaulted when zero; negative
// values are left for Validate to reject.
func (c Config) WithDefaults() Config {
	if c.InputCount == 0 {
		c.InputCount = DefaultInputCount
	}
	if c.InputCellLength == 0 {
		c.InputCellLength = DefaultInputCellLength
	}
	if c.TintColor.IsZero() {
		c.TintColor = Uniform(DefaultTintColor)
	}
	if c.OffTintColor.IsZero() {
		c.OffTintColor = Uniform(DefaultOffTintColor)
	}
	if c.KeyboardType == "" {
		c.KeyboardType = DefaultKeyboardType
	}
	if c.TestIDPrefix == "" {
		c.TestIDPrefix = DefaultTestIDPrefix
	}
	return c
}

// Validate checks the invariants a field needs before it can be built.
// Tint lists are checked against InputCount only when given per cell.
func (c Config) Validate() error {
	if c.InputCount <= 0 {
		return newConfigError(ErrTypeInputCount, "InputCount",
			fmt.Sprintf("input count must be positive, got %d", c.InputCount))
	}
	if c.InputCellLength <= 0 {
		return newConfigError(ErrTypeCellLength, "InputCellLength",
			fmt.Sprintf("input cell length must be positive, got %d", c.InputCellLength))
	}
	if c.TintColor.IsPerCell() && c.TintColor.Len() != c.InputCount {
		return newConfigError(ErrTypeTintCount, "TintColor",
			"If tint color is an array, its length should be equal to input count")
	}
	if c.OffTintColor.IsPerCell() && c.OffTintColor.Len() != c.InputCount {
		return newConfigError(ErrTypeOffTintCount, "OffTintColor",
			"If off tint color is an array, its length should be equal to input count")
	}
	if !c.KeyboardType.Valid() {
		return newConfigError(ErrTypeKeyboardType, "KeyboardType",
			fmt.Sprintf("unknown keyboard type %q", c.KeyboardType))
	}
	return nil
}

// CellID returns the stable identifier of cell i.
func (c Config) CellID(i int) string {
	return c.TestIDPrefix + strconv.Itoa(i)
}

// MaxLength returns the number of runes a full field holds.
func (c Config) MaxLength() int {
	return c.InputCount * c.InputCellLength
}
