package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/otpview/internal/autofill"
	"github.com/muurk/otpview/internal/logging"
	"github.com/muurk/otpview/internal/otp"
	"github.com/muurk/otpview/internal/tui"
	"github.com/muurk/otpview/internal/ui"
)

// Command flags
var (
	outputFormat string
	quiet        bool
	pushURL      string
	pushCode     string
	pushTimeout  int
	noPaste      bool
	scanTimeout  int
)

func init() {
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(scanCmd)
}

// cellJSON is one cell in `chunk --format json` output
type cellJSON struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Value string `json:"value"`
}

// chunkCmd shows how a value is spread across the cells
var chunkCmd = &cobra.Command{
	Use:   "chunk <value>",
	Short: "Show how a value fills the cells",
	Long: `Split a value into cells the way a paste or an autofill would.

The value is cut into pieces of --cell-length characters; anything beyond
--count cells is dropped and missing cells are empty.`,
	Example: `  # 6 digit code into 3 cells of 2
  otpview chunk 482913 -n 3 -l 2

  # Cells of the voucher profile, as JSON
  otpview chunk ABCD1234EFGH --profile voucher --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := fieldSettings(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		ui.NewPrinter(cmd.OutOrStdout()).PrintError("Invalid field configuration", err, otp.GetTroubleshootingHint(err))
		return exitError{1}
	}

	cells := otp.Pad(otp.Chunk(args[0], cfg.InputCellLength, cfg.InputCount), cfg.InputCount)

	switch outputFormat {
	case "json":
		out := make([]cellJSON, len(cells))
		for i, c := range cells {
			out[i] = cellJSON{Index: i, ID: cfg.CellID(i), Value: c}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "text":
		printer := ui.NewPrinter(cmd.OutOrStdout())
		printer.PrintHeader("Chunk", "otpview chunk "+args[0],
			ui.Detail{Key: "Cells", Value: strconv.Itoa(cfg.InputCount)},
			ui.Detail{Key: "Cell length", Value: strconv.Itoa(cfg.InputCellLength)},
		)
		for i, c := range cells {
			if c == "" {
				c = "(empty)"
			}
			printer.Println(fmt.Sprintf("  %-16s %s", cfg.CellID(i), c))
		}
	default:
		return fmt.Errorf("unknown format %q (use text or json)", outputFormat)
	}
	return nil
}

// validateCmd checks text against the cell validator
var validateCmd = &cobra.Command{
	Use:   "validate <text>",
	Short: "Check whether text may be typed into a cell",
	Long: `Check text with the same rule the prompt applies to every edit: only
ASCII letters and digits are accepted.

The exit status is 0 for valid text and 1 otherwise.`,
	Example: `  otpview validate 12ab
  otpview validate "12 34" --quiet || echo rejected`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing; only set the exit status")
}

func runValidate(cmd *cobra.Command, args []string) error {
	valid := otp.IsValidCellInput(args[0])
	if !quiet {
		printer := ui.NewPrinter(cmd.OutOrStdout())
		if valid {
			printer.PrintSuccess("Valid cell input", ui.Detail{Key: "Text", Value: args[0]})
		} else {
			printer.PrintWarning("Invalid cell input",
				ui.Detail{Key: "Text", Value: strconv.Quote(args[0])},
				ui.Detail{Key: "Rule", Value: "ASCII letters and digits only"},
			)
		}
	}
	if !valid {
		return exitError{1}
	}
	return nil
}

// pushCmd sends a code to a running prompt
var pushCmd = &cobra.Command{
	Use:   "push [message]",
	Short: "Send a code to a prompt started with --autofill",
	Long: `Send a code, or a message containing one, to an otpview prompt that
runs with --autofill.

Without --url the listener is found over mDNS; with several listeners an
interactive picker opens. A message such as an SMS body is searched for a
code of the prompt's length by the listener.`,
	Example: `  # Push an explicit code to a local prompt
  otpview push --code 482913 --url ws://127.0.0.1:7391/autofill

  # Forward an SMS body and let the prompt find the code
  otpview push "Your verification code is 482913"

  # Type the code instead of pasting it
  otpview push --code 482913 --no-paste`,
	Args: cobra.ArbitraryArgs,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushURL, "url", "", "Listener URL (skips discovery)")
	pushCmd.Flags().StringVar(&pushCode, "code", "", "Code to push")
	pushCmd.Flags().IntVar(&pushTimeout, "timeout", 0, "Discovery and push timeout in seconds (default from config)")
	pushCmd.Flags().BoolVar(&noPaste, "no-paste", false, "Deliver the code as typed input instead of a paste")
}

func runPush(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	payload := autofill.Payload{
		Code:    strings.TrimSpace(pushCode),
		Message: strings.Join(args, " "),
		Paste:   !noPaste,
	}
	if payload.Code == "" && strings.TrimSpace(payload.Message) == "" {
		return fmt.Errorf("nothing to push: give --code or a message")
	}

	timeout := discoverTimeout(pushTimeout)
	url := pushURL
	if url == "" {
		var err error
		url, err = findListener(cmd, timeout)
		if err != nil {
			printer.PrintError("No listener", err, autofill.GetTroubleshootingHint(err))
			return exitError{1}
		}
		if url == "" {
			return exitError{1}
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if _, err := autofill.Push(ctx, url, payload); err != nil {
		printer.PrintError("Push failed", err, autofill.GetTroubleshootingHint(err))
		return exitError{1}
	}

	sent := "message"
	if payload.Code != "" {
		sent = logging.MaskCode(payload.Code)
	}
	mode := "paste"
	if !payload.Paste {
		mode = "typed"
	}
	printer.PrintSuccess("Code delivered",
		ui.Detail{Key: "Listener", Value: url},
		ui.Detail{Key: "Sent", Value: sent},
		ui.Detail{Key: "Mode", Value: mode},
	)
	return nil
}

// findListener browses for listeners. One is used directly; several open
// the picker when stdout is a terminal. An empty URL with a nil error means
// the user closed the picker.
func findListener(cmd *cobra.Command, timeout time.Duration) (string, error) {
	endpoints, err := autofill.Browse(cmd.Context(), timeout)
	if err != nil {
		return "", err
	}

	switch {
	case len(endpoints) == 1:
		return endpoints[0].URL(), nil
	case len(endpoints) == 0 && !ui.IsTerminal():
		return "", &autofill.Error{Type: autofill.ErrTypeNotFound, Message: "no autofill listener answered"}
	case len(endpoints) > 1 && !ui.IsTerminal():
		names := make([]string, len(endpoints))
		for i, ep := range endpoints {
			names[i] = ep.Instance
		}
		return "", &autofill.Error{Type: autofill.ErrTypeNotFound, Message: "several listeners found (" + strings.Join(names, ", ") + "); pick one with --url"}
	}

	final, err := tea.NewProgram(tui.NewPickerModel(timeout), tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("picker error: %w", err)
	}
	picker, ok := final.(tui.PickerModel)
	if !ok || picker.Cancelled {
		return "", nil
	}
	return picker.URL(), nil
}

// discoverTimeout converts a seconds flag, falling back to the configured
// preference.
func discoverTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		if registry, err := loadRegistry(); err == nil && registry.Preferences != nil {
			seconds = registry.Preferences.DiscoverTimeout
		}
	}
	if seconds <= 0 {
		return autofill.DefaultBrowseTimeout
	}
	return time.Duration(seconds) * time.Second
}

// endpointJSON is one listener in `scan --format json` output
type endpointJSON struct {
	Instance string            `json:"instance"`
	Host     string            `json:"host"`
	URL      string            `json:"url"`
	Text     map[string]string `json:"text,omitempty"`
}

// scanCmd lists autofill listeners on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List autofill listeners on the network",
	Long: `List otpview prompts that announce their autofill listener over mDNS
(started with --autofill --advertise).`,
	Example: `  otpview scan
  otpview scan --timeout 10 --format json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config)")
	scanCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
}

func runScan(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())
	timeout := discoverTimeout(scanTimeout)

	endpoints, err := autofill.Browse(cmd.Context(), timeout)
	if err != nil {
		printer.PrintError("Scan failed", err, autofill.GetTroubleshootingHint(err))
		return exitError{1}
	}

	if outputFormat == "json" {
		out := make([]endpointJSON, len(endpoints))
		for i, ep := range endpoints {
			out[i] = endpointJSON{Instance: ep.Instance, Host: ep.Host, URL: ep.URL(), Text: ep.Text}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(endpoints) == 0 {
		printer.PrintError("No listeners found",
			&autofill.Error{Type: autofill.ErrTypeNotFound, Message: fmt.Sprintf("nothing answered within %s", timeout)},
			autofill.GetTroubleshootingHint(&autofill.Error{Type: autofill.ErrTypeNotFound}))
		return nil
	}

	printer.PrintHeader("Scan", "otpview scan", ui.Detail{Key: "Found", Value: strconv.Itoa(len(endpoints))})
	for i, ep := range endpoints {
		printer.Println(fmt.Sprintf("%d. %s", i+1, ep.Instance))
		printer.Println("   URL:  " + ep.URL())
		printer.Println("   Host: " + ep.Host)
		if cells := ep.Text["cells"]; cells != "" {
			printer.Println(fmt.Sprintf("   Field: %s cells × %s (%s)", cells, ep.Text["length"], ep.Text["keyboard"]))
		}
		printer.Newline()
	}
	printer.Println("Use 'otpview push --url <url> --code <code>' to send a code")
	return nil
}
