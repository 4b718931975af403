package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pakrecharge/topup/internal/config"
	"github.com/pakrecharge/topup/internal/ui"
)

var forceInit bool

func init() {
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogInitCmd)
	catalogCmd.AddCommand(catalogPathCmd)
	rootCmd.AddCommand(catalogCmd)

	catalogInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")
}

// catalogCmd groups the settings file commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show, create or locate the settings file",
	Long: `The settings file holds the networks, amount tiles, payment methods and
bundles the form offers, along with session timing and server preferences.`,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		location := "(defaults, no file)"
		if config.Exists() {
			if location, err = config.GetConfigPath(); err != nil {
				return err
			}
		}

		data, err := settings.Marshal(location)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Example: `  # Create the settings file in the OS config directory
  pakrecharge catalog init

  # Start over from the defaults
  pakrecharge catalog init --force

  # Create it somewhere else
  pakrecharge catalog init --config ./kiosk.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefaultConfig(forceInit)
		if err != nil {
			return err
		}

		printer := ui.NewPrinter(cmd.OutOrStdout())
		printer.PrintResult(ui.NewSuccessResult("Settings created", []ui.Detail{
			{Key: "Path", Value: path},
		}))
		return nil
	},
}

var catalogPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
