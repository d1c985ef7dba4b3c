package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"medocr/internal/acquire"
	"medocr/internal/config"
	"medocr/internal/dialog"
	"medocr/internal/intake"
	"medocr/internal/logger"
	"medocr/internal/submit"
	"medocr/internal/view"
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Send documents for a patient to the processing backend",
	Long: `Send one or more documents for a patient to the processing backend and
print the processing result.

Files are acquired in one of two modes:
  upload - file content is read here and uploaded as multipart form data;
           the backend decides where exports are written
  paths  - only absolute file paths are sent, together with an output
           folder; the backend must be able to read those paths
  auto   - paths when a desktop file dialog (zenity) is available or an
           output folder is given, upload otherwise

Files come from the command line, from a native desktop dialog when no files
are given, or from terminal prompts with --interactive.

Configuration (environment or medocr.toml):
  BACKEND_HOST     - backend host name (default: localhost, port 8000)
  SUBMIT_TIMEOUT   - submission timeout, e.g. 90s (default: no timeout)
  ACQUISITION_MODE - auto, upload or paths (default: auto)`,
	Example: `  # Upload two scans for patient P123
  medocr process scan1.png scan2.png --patient P123

  # Let the backend read the files and write exports to /data/exports
  medocr process /data/scans/*.png --patient P123 --mode paths --output-folder /data/exports

  # Prompt for everything in the terminal and save a spreadsheet report
  medocr process --interactive --report summary.xlsx

  # Print the raw result as JSON with a two minute timeout
  medocr process scan.pdf --patient "John Doe" --json --timeout 2m`,
	RunE: runProcess,
}

var controllerEndpoint = defaultEndpoint

func defaultEndpoint(cfg *config.Config) string {
	return cfg.Endpoint()
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("patient", "p", "", "Patient ID or name")
	processCmd.Flags().StringP("mode", "m", "", "Acquisition mode: auto, upload or paths (default from ACQUISITION_MODE)")
	processCmd.Flags().StringP("output-folder", "o", "", "Folder where the backend writes exports (paths mode)")
	processCmd.Flags().BoolP("interactive", "i", false, "Prompt for the patient and files in the terminal")
	processCmd.Flags().Bool("json", false, "Print the result as JSON")
	processCmd.Flags().String("report", "", "Also write a spreadsheet summary to this .xlsx file")
	processCmd.Flags().Duration("timeout", 0, "Submission timeout (default from SUBMIT_TIMEOUT, 0 = none)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("process")

	patient, _ := cmd.Flags().GetString("patient")
	modeFlag, _ := cmd.Flags().GetString("mode")
	outputFolder, _ := cmd.Flags().GetString("output-folder")
	interactive, _ := cmd.Flags().GetBool("interactive")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	reportPath, _ := cmd.Flags().GetString("report")

	mode := appConfig.AcquisitionMode
	if modeFlag != "" {
		parsed, err := acquire.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		mode = parsed
	}
	timeout := appConfig.SubmitTimeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	ctx, cancel := createContext(log)
	defer cancel()

	var term *dialog.Terminal
	if interactive {
		term = &dialog.Terminal{}
	}
	host, native, err := chooseHost(args, outputFolder, term)
	if err != nil {
		return err
	}
	mode = acquire.Resolve(mode, native)

	acq, err := acquire.New(mode, host)
	if err != nil {
		return err
	}

	log.Info().
		Str("mode", string(mode)).
		Int("args", len(args)).
		Bool("interactive", interactive).
		Dur("timeout", timeout).
		Msg("Starting submission workflow")

	var field intake.IdentifierField
	field.Set(patient)
	if term != nil && field.Value().Empty() {
		if err := term.PromptIdentifier(ctx, &field); err != nil {
			return promptError(err)
		}
	}

	if err := acquireInputs(ctx, acq, term); err != nil {
		return promptError(err)
	}

	controller := submit.NewController(submit.Options{
		Endpoint: controllerEndpoint(appConfig),
		Timeout:  timeout,
	})
	result, err := controller.Submit(ctx, field.Value(), acq.Selection(), acq.OutputLocation())
	if err != nil {
		return noticeFor(err, controllerEndpoint(appConfig))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		err = view.WriteJSON(out, result)
	} else {
		err = view.Render(out, result)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if reportPath != "" {
		if err := view.WriteReport(reportPath, field.Value(), result); err != nil {
			log.Error().Err(err).Str("report", reportPath).Msg("Failed to write report")
			return err
		}
		log.Info().Str("report", reportPath).Msg("Report written")
	}

	if result.HasFailures() {
		log.Warn().Int("files_failed", len(result.FilesFailed)).Msg("Some files could not be processed")
	}
	return nil
}

// chooseHost picks the dialog host and reports whether it stands for a
// desktop session, where the backend can read local paths. The terminal host
// takes precedence and never counts as a desktop session unless an output
// folder is given.
func chooseHost(args []string, outputFolder string, term *dialog.Terminal) (acquire.Host, bool, error) {
	switch {
	case term != nil:
		if outputFolder != "" {
			return &presetFolder{Host: term, folder: outputFolder}, true, nil
		}
		return term, false, nil
	case len(args) > 0:
		return dialog.Preset{Files: args, Folder: outputFolder}, outputFolder != "", nil
	case dialog.DesktopAvailable():
		if outputFolder != "" {
			return &presetFolder{Host: dialog.NewZenity(), folder: outputFolder}, true, nil
		}
		return dialog.NewZenity(), true, nil
	default:
		return nil, false, errors.New("no files given: pass files as arguments, use --interactive, or run in a desktop session with zenity installed")
	}
}

// presetFolder answers the folder dialog with a folder given on the command
// line and delegates file dialogs.
type presetFolder struct {
	acquire.Host
	folder string
}

func (p *presetFolder) OpenFolder(ctx context.Context) (string, error) {
	return dialog.Preset{Folder: p.folder}.OpenFolder(ctx)
}

// acquireInputs runs the file dialog and, in paths mode, the folder dialog.
// With a terminal the operator confirms the selection or picks again; the new
// pick replaces the previous one.
func acquireInputs(ctx context.Context, acq acquire.Acquirer, term *dialog.Terminal) error {
	for {
		if _, err := acq.SelectFiles(ctx); err != nil {
			return err
		}
		if acq.Kind() == intake.KindPath && !acq.OutputLocation().Present() {
			if _, err := acq.SelectOutputLocation(ctx); err != nil {
				return err
			}
		}
		if term == nil || acq.Selection().Empty() {
			return nil
		}

		items := acq.Selection().Names()
		if out := acq.OutputLocation(); out.Present() {
			items = append(items, "", "Output folder: "+out.String())
		}
		ok, err := term.Confirm(ctx, fmt.Sprintf("%d file(s) selected", len(acq.Selection())), items)
		if err != nil || ok {
			return err
		}
	}
}

func promptError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("cancelled by operator")
	}
	return err
}

// createContext returns a context canceled on SIGINT or SIGTERM.
func createContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling submission")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
