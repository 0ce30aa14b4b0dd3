// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/gatehouse-web/gatehouse/internal/config"
)

var (
	configPath string // Path to the configuration directory
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gatehouse",
	Short: "Gatehouse is a session based login gateway",
	Long: `Gatehouse serves a small website with user registration, login
and a dashboard that is only reachable with a valid session cookie.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration into cfg.
func loadConfig() error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err
}
