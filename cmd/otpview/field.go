package main

import (
	"github.com/spf13/cobra"

	"github.com/muurk/otpview/internal/config"
	"github.com/muurk/otpview/internal/otp"
)

// Field shape flags, shared by the prompt and chunk
var (
	configFile   string
	profileName  string
	inputCount   int
	cellLength   int
	testIDPrefix string
)

// Prompt-only field flags
var (
	defaultValue string
	tintColor    string
	offTintColor string
	keyboardType string
	autoFocus    bool
	showIDs      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is the user config dir)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Field profile from the config file")
	rootCmd.PersistentFlags().IntVarP(&inputCount, "count", "n", otp.DefaultInputCount, "Number of cells")
	rootCmd.PersistentFlags().IntVarP(&cellLength, "cell-length", "l", otp.DefaultInputCellLength, "Characters per cell")
	rootCmd.PersistentFlags().StringVar(&testIDPrefix, "prefix", otp.DefaultTestIDPrefix, "Cell id prefix")

	rootCmd.Flags().StringVar(&defaultValue, "default", "", "Initial value")
	rootCmd.Flags().StringVar(&tintColor, "tint", "", "Focused border color, or one color per cell separated by commas")
	rootCmd.Flags().StringVar(&offTintColor, "off-tint", "", "Unfocused border color, or one color per cell separated by commas")
	rootCmd.Flags().StringVar(&keyboardType, "keyboard", "", "Keyboard type (numeric, number-pad, default, ascii-capable, ...)")
	rootCmd.Flags().BoolVar(&autoFocus, "autofocus", true, "Focus the first cell on start")
	rootCmd.Flags().BoolVar(&showIDs, "show-ids", false, "Show cell ids under the cells")
}

// loadRegistry reads --config, or the default config file.
func loadRegistry() (*config.Registry, error) {
	if configFile != "" {
		return config.LoadRegistryFrom(configFile)
	}
	return config.LoadRegistry()
}

// configPath returns --config, or the default config file path.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetConfigPath()
}

// fieldSettings resolves the profile and applies the flags the user set on
// top of it.
func fieldSettings(cmd *cobra.Command) (otp.Config, *config.Profile, *config.Registry, error) {
	registry, err := loadRegistry()
	if err != nil {
		return otp.Config{}, nil, nil, err
	}
	profile, err := registry.ResolveProfile(profileName)
	if err != nil {
		return otp.Config{}, nil, nil, err
	}
	cfg := profile.ToOTPConfig()

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.InputCount = inputCount
	}
	if flags.Changed("cell-length") {
		cfg.InputCellLength = cellLength
	}
	if flags.Changed("prefix") {
		cfg.TestIDPrefix = testIDPrefix
	}
	if flags.Changed("default") {
		cfg.DefaultValue = defaultValue
	}
	if flags.Changed("tint") {
		cfg.TintColor = otp.ParseTint(tintColor)
	}
	if flags.Changed("off-tint") {
		cfg.OffTintColor = otp.ParseTint(offTintColor)
	}
	if flags.Changed("keyboard") {
		cfg.KeyboardType = otp.KeyboardType(keyboardType)
	}
	if flags.Changed("autofocus") {
		cfg.AutoFocus = autoFocus
	}

	return cfg.WithDefaults(), profile, registry, nil
}
