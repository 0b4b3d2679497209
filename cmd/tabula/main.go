package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucidtrace/tabula/cmd/tabula/commands"
	"github.com/lucidtrace/tabula/logger"
)

var jsonLogs bool

var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "tabula - lazy tabular computation over time-indexed data",
	Long: `tabula builds tables over time-indexed scientific data: row selectors
define the rows, registered computers fill the columns, and everything
materializes lazily with dependency resolution and caching.

Available commands:
  computers - List the registered column computers
  adapters  - List the registered source adapters
  run       - Execute a pipeline configuration
  validate  - Check a pipeline configuration without building
  version   - Show version information

Examples:
  tabula computers                 # Browse the computer catalog
  tabula validate tables.json      # Check a pipeline file
  tabula run tables.json           # Build the configured tables`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.ComputersCmd)
	rootCmd.AddCommand(commands.AdaptersCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
