package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"medocr/internal/config"
	"medocr/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute before any command runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "medocr",
	Short: "Submit medical documents to the OCR processing backend",
	Long: `medocr tags scanned medical documents with a patient ID or name, sends
them to the document-processing backend and prints what came back: how many
files were processed, how many records were created, which CSV exports were
written and which files failed.

Documents are either uploaded (their content is sent to the backend) or
referenced by path together with an output folder, in which case the backend
reads and writes the files itself.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with the loaded configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
