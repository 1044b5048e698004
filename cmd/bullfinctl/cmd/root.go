// Package cmd - bullfinctl commands
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "bullfinctl",
	Short: "BullFin portfolio analytics - operator CLI",
	Long: `BullFin portfolio analytics - operator CLI

Commands:
    serve            Run the API server
    ingest <file>    Validate and persist a portfolio CSV
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
}

func initConfig() error {
	if err := godotenv.Load(); err != nil {
		if verbose {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}
	return nil
}
