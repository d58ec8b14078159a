package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/otpview/internal/autofill"
	"github.com/muurk/otpview/internal/config"
	"github.com/muurk/otpview/internal/logging"
	"github.com/muurk/otpview/internal/otp"
	"github.com/muurk/otpview/internal/otpfield"
	"github.com/muurk/otpview/internal/tui"
	"github.com/muurk/otpview/internal/ui"
)

// Prompt flags
var (
	promptTitle      string
	submitOnComplete bool
	rawOutput        bool
	autofillEnabled  bool
	listenAddr       string
	advertise        bool
)

func init() {
	rootCmd.Flags().StringVar(&promptTitle, "title", "", "Title shown above the cells")
	rootCmd.Flags().BoolVar(&submitOnComplete, "submit-on-complete", false, "Finish as soon as every cell is full")
	rootCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print only the code (for scripts)")
	rootCmd.Flags().BoolVar(&autofillEnabled, "autofill", false, "Accept codes pushed with 'otpview push'")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "Autofill listen address (default from config, 127.0.0.1:7391)")
	rootCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the autofill listener over mDNS")

	rootCmd.Example = `  # Four digit PIN
  otpview

  # Six digit TOTP code, printed alone for a script
  otpview --count 6 --keyboard number-pad --raw

  # Voucher with three cells of four characters and per-cell colors
  otpview -n 3 -l 4 --keyboard ascii-capable --tint "#E05656,#E0B456,#56E08A"

  # Accept the code from a phone on the same network
  otpview --autofill --listen 0.0.0.0:7391 --advertise`
}

func runPrompt(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	cfg, profile, registry, err := fieldSettings(cmd)
	if err != nil {
		printer.PrintError("Cannot load field profile", err, []string{
			"List profiles with 'otpview config show'",
			"Create the config file with 'otpview config init'",
		})
		return exitError{1}
	}

	show := profile.ShowIDs
	if cmd.Flags().Changed("show-ids") {
		show = showIDs
	}

	field, err := otpfield.New(cfg, otpfield.WithShowIDs(show))
	if err != nil {
		printer.PrintError("Invalid field configuration", err, otp.GetTroubleshootingHint(err))
		return exitError{1}
	}

	opts := tui.PromptOptions{
		Title:            promptTitle,
		SubmitOnComplete: submitOnComplete,
	}

	var codes chan tui.AutofillMsg
	done := make(chan struct{})
	defer close(done)
	if autofillEnabled {
		// codes is never closed: the sink may still run while stop waits.
		codes = make(chan tui.AutofillMsg, 4)

		listener, stop, err := startAutofill(cfg, registry.Preferences, func(code string, paste bool) {
			select {
			case codes <- tui.AutofillMsg{Code: code, Paste: paste}:
			default:
				logging.Warn("Autofill code dropped, prompt is busy")
			}
		})
		if err != nil {
			printer.PrintError("Autofill listener failed", err, autofill.GetTroubleshootingHint(err))
			return exitError{1}
		}
		defer stop()
		opts.AutofillURL = listener.URL()
	}

	program := tea.NewProgram(
		tui.NewPromptModel(field, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if codes != nil {
		go func() {
			for {
				select {
				case msg := <-codes:
					program.Send(msg)
				case <-done:
					return
				}
			}
		}()
	}

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("prompt error: %w", err)
	}

	result, ok := final.(tui.PromptModel)
	if !ok {
		return fmt.Errorf("prompt error: unexpected model %T", final)
	}
	if !result.Submitted {
		if !rawOutput {
			printer.PrintWarning("Cancelled", ui.Detail{Key: "Entered", Value: fmt.Sprintf("%d of %d cells", filledCells(result.Field.Cells()), cfg.InputCount)})
		}
		return exitError{1}
	}

	if rawOutput {
		printer.Println(result.Value())
		return nil
	}

	printer.PrintSuccess("Code entered",
		ui.Detail{Key: "Code", Value: result.Value()},
		ui.Detail{Key: "Cells", Value: strings.Join(result.Field.Cells(), " ")},
		ui.Detail{Key: "Layout", Value: fmt.Sprintf("%d × %d (%s)", cfg.InputCount, cfg.InputCellLength, cfg.KeyboardType)},
	)
	return nil
}

// startAutofill starts the listener and, when asked, its mDNS announcement.
// stop shuts both down.
func startAutofill(cfg otp.Config, prefs *config.Preferences, sink autofill.Sink) (*autofill.Listener, func(), error) {
	addr := listenAddr
	if addr == "" && prefs != nil {
		addr = prefs.AutofillListen
	}

	listener := autofill.NewListener(autofill.ListenerConfig{
		Addr:       addr,
		CodeLength: cfg.MaxLength(),
		Keyboard:   cfg.KeyboardType,
	}, sink)
	if err := listener.Start(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if advertise || (prefs != nil && prefs.AdvertiseMDNS) {
		instance, _ := os.Hostname()
		if instance == "" {
			instance = "otpview"
		}
		err := autofill.Advertise(ctx, instance, listener.Port(),
			"cells="+strconv.Itoa(cfg.InputCount),
			"length="+strconv.Itoa(cfg.InputCellLength),
			"keyboard="+string(cfg.KeyboardType),
		)
		if err != nil {
			logging.Warn("mDNS announcement failed", zap.Error(err))
		}
	}

	stop := func() {
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := listener.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Autofill listener shutdown", zap.Error(err))
		}
	}
	return listener, stop, nil
}

func filledCells(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}
