// Package cli provides the command-line interface for mockhive.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "mockhive",
	Short: "Mockhive - Mock HTTP Response Configuration Manager",
	Long: `Mockhive manages mock HTTP response definitions: files describing the
status, delay, headers, body and percentile weight of the responses a
mock endpoint should return.

Definitions are written as JSON or YAML files, validated and resolved
(body references are loaded from files or URLs), and stored as versioned
sets in a local catalog for consumers to pick up.

Examples:
  mockhive set import <file>      # Parse and store a definition file
  mockhive set ls                 # List all stored mock sets
  mockhive set show <id-or-name>  # Show a set's endpoints and responses
  mockhive set rm <id-or-name>    # Delete a stored set
  mockhive set validate <file>    # Check a definition file without storing it`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mockhive/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&outputYAML, "yaml", false, "output as YAML")

	// Add subcommands
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mockhive version 0.1.0")
	},
}

// exitError prints an error message and exits.
func exitError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
