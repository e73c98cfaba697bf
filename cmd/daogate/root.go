package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "daogate",
	Short: "daogate - an adaptive Layer-7 reverse proxy",
	Long: `daogate is an adaptive Layer-7 reverse proxy. It matches incoming HTTP
requests to routes, forwards them to upstream servers, and continuously
adapts its behavior to observed traffic through a family of liminal
subsystems: consciousness levels, presence detection, temporal profiles,
echo analysis, liminal-zone timeout responses, shadow traffic duplication,
and quantum (hedged) routing.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
