// Package config provides user configuration management for otpview.
//
// This package manages a YAML file of named field profiles plus a few
// application preferences. A profile mirrors otp.Config: cell count, cell
// length, default value, tints, keyboard type, auto focus and the id prefix.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/otpview/config.yaml or $HOME/.config/otpview/config.yaml
//   - macOS: $HOME/.config/otpview/config.yaml
//   - Windows: %LOCALAPPDATA%\otpview\config.yaml
//
// # Tints
//
// tint_color and off_tint_color accept either form:
//
//	profiles:
//	  totp:
//	    input_count: 6
//	    tint_color: "#5A56E0"
//	  voucher:
//	    input_count: 3
//	    input_cell_length: 4
//	    tint_color: ["#E05656", "#E0B456", "#56E08A"]
//
// A list must have one entry per cell; otp.Config.Validate rejects it
// otherwise.
//
// # Security
//
// Codes are never written to this file. default_value is meant for fixed
// prefixes, not secrets.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are serialized by a mutex and replace the file atomically.
package config
