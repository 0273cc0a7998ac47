// Package cli provides the portal-estudante command line entry points.
package cli

import (
	"github.com/spf13/cobra"
)

const (
	applicationName = "portal-estudante"
	version         = "1.0.0"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   applicationName,
	Short: "Student portal backend for the SUAP academic API",
	Long: `portal-estudante serves a student-facing academic dashboard backed by
the SUAP institutional API: OAuth2 login, per-period grade and attendance
aggregation, and report exports.`,
	Version: version,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional, env vars take precedence)")
	rootCmd.AddCommand(serveCmd)
}
