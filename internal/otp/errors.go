package otp

import "fmt"

// ErrorType represents the category of a configuration error
type ErrorType int

const (
	// ErrTypeTintCount indicates a per-cell tint list whose length differs from InputCount
	ErrTypeTintCount ErrorType = iota
	// ErrTypeOffTintCount indicates a per-cell off-tint list whose length differs from InputCount
	ErrTypeOffTintCount
	// ErrTypeInputCount indicates a non-positive InputCount
	ErrTypeInputCount
	// ErrTypeCellLength indicates a non-positive InputCellLength
	ErrTypeCellLength
	// ErrTypeKeyboardType indicates an unknown keyboard type
	ErrTypeKeyboardType
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTintCount:
		return "Tint Color Count"
	case ErrTypeOffTintCount:
		return "Off Tint Color Count"
	case ErrTypeInputCount:
		return "Input Count"
	case ErrTypeCellLength:
		return "Input Cell Length"
	case ErrTypeKeyboardType:
		return "Keyboard Type"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ConfigError is returned when a Config cannot be used to build a field.
// It is fatal: the field cannot render per-cell colors or cells safely.
type ConfigError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Field   string    // Config field at fault
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// newConfigError creates a configuration error
func newConfigError(t ErrorType, field, message string) *ConfigError {
	return &ConfigError{
		Type:    t,
		Message: message,
		Field:   field,
	}
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}

// GetTroubleshootingHint returns user-facing advice for a configuration error
func GetTroubleshootingHint(err error) []string {
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		return nil
	}

	switch cfgErr.Type {
	case ErrTypeTintCount, ErrTypeOffTintCount:
		return []string{
			"Give a single color to use it for every cell",
			"Or give exactly one color per cell (same as the input count)",
		}
	case ErrTypeInputCount:
		return []string{"The input count must be at least 1"}
	case ErrTypeCellLength:
		return []string{"The cell length must be at least 1"}
	case ErrTypeKeyboardType:
		return []string{"Supported keyboard types: " + joinKeyboardTypes()}
	default:
		return nil
	}
}
