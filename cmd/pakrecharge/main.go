// Pakrecharge is a mobile airtime top-up form for Pakistani networks.
//
// It runs the form in the terminal, serves it to browsers over HTTP and
// websockets, and checks individual top-ups from scripts.
//
// Usage:
//
//	pakrecharge [command] [flags]
//
// Running without arguments opens the terminal form.
// See 'pakrecharge --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pakrecharge/topup/internal/config"
	"github.com/pakrecharge/topup/internal/logging"
	"github.com/pakrecharge/topup/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}

// Persistent flags
var (
	logLevel   string
	logFile    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "pakrecharge",
	Short: "PakRecharge mobile top-up",
	Long: `Top up prepaid airtime for Jazz, Telenor, Zong and Ufone numbers.

Choose a network, enter the phone number, pick an amount tile or type a
custom amount, choose how to pay and submit. Payments are simulated.

If no command is specified, the terminal form opens.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runForm,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: OS config dir)")

	rootCmd.AddCommand(versionCmd)
}

// setup applies the persistent flags before any command runs
func setup(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		config.SetPath(configPath)
	}
	if err := logging.Initialize(logLevel, logFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pakrecharge %s\n", version.Full())
	},
}
