package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/otpview/internal/config"
	"github.com/muurk/otpview/internal/ui"
)

// Config command flags
var (
	forceInit bool
	assumeYes bool
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Replace an existing config file")
	configInitCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before replacing")
}

// configCmd groups the config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage field profiles and preferences",
	Long: `Manage the otpview config file.

The file holds named field profiles (cell count, cell length, colors,
keyboard) and preferences such as the autofill listen address. Select a
profile with --profile.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with example profiles",
	Example: `  otpview config init
  otpview config init --force --yes
  otpview config init --config ./otpview.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	path, err := configPath()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && !forceInit {
		printer.PrintError("Config file exists", fmt.Errorf("%s already exists", path), []string{
			"Run with --force to replace it with the example profiles",
			"Inspect it with 'otpview config show'",
		})
		return exitError{1}
	}
	if exists && !assumeYes {
		ok := printer.Confirm(cmd.InOrStdin(), "Replace config file", []string{
			path + " will be overwritten",
			"Profiles you added will be lost",
		}, "yes")
		if !ok {
			return exitError{1}
		}
	}

	if err := config.CreateDefaultConfig(path, true); err != nil {
		printer.PrintError("Cannot write config file", err, []string{
			"Check that the directory is writable",
			"Pick another location with --config",
		})
		return exitError{1}
	}

	printer.PrintSuccess("Config file written",
		ui.Detail{Key: "Path", Value: path},
		ui.Detail{Key: "Profiles", Value: strings.Join(config.ExampleRegistry().ProfileNames(), ", ")},
	)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "# %s does not exist; showing built-in defaults\n", path)
	} else {
		fmt.Fprintf(out, "# %s\n", path)
	}

	data, err := registry.Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
