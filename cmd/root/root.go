// Package root contains the root command for the application
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vcollos/concilia-csv/internal/common"
	"vcollos/concilia-csv/internal/config"
	"vcollos/concilia-csv/internal/francesinhaparser"
	"vcollos/concilia-csv/internal/ofxparser"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the application configuration, loaded before any command runs.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "concilia-csv",
		Short: "A CLI tool to reconcile OFX statements and Francesinha reports into accounting CSV.",
		Long: `concilia-csv converts Sicoob OFX statements and Francesinha collection
reports into a semicolon-separated ledger-entry CSV, assigning debit and
credit account codes from a rule cascade and from previously confirmed
reconciliations.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to concilia-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			ofxparser.SetLogger(Log)
			francesinhaparser.SetLogger(Log)
			common.SetLogger(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Error loading configuration: %v", err)
			}
			Cfg = cfg

			delim := cfg.CSV.Delimiter
			if envDelim := os.Getenv("CSV_DELIMITER"); envDelim != "" {
				delim = envDelim
			}
			if delim != "" {
				common.SetDelimiter([]rune(delim)[0])
			}
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
}
