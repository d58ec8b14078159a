// Otpview is a segmented one-time-code prompt for the terminal.
//
// It draws a row of cells, moves focus as the user types, pastes a whole
// code across the cells and prints the code once every cell is full. A
// running prompt can receive codes from another device through its autofill
// listener.
//
// Usage:
//
//	otpview [command] [flags]
//
// Running without a command opens the prompt.
// See 'otpview --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/otpview/internal/logging"
	"github.com/muurk/otpview/internal/version"
)

// exitError ends the process with code after the command already told the
// user what happened.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err == nil {
		return
	}

	var exit exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "otpview",
	Short: "Segmented one-time-code prompt",
	Long: `A terminal prompt for one-time codes, PINs and vouchers.

The code is entered into a row of cells. Focus moves forward as cells fill
and back on backspace; a pasted code is spread across the cells. The
finished code is printed when the prompt is submitted.

Field layouts can be saved as profiles in the config file
(see 'otpview config init').`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: runPrompt,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("otpview {{.Version}}\n")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "otpview %s\n", version.Full())
	},
}
