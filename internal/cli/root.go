// Package cli provides the Cobra-based command-line interface for
// gca-bridge.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samkirk/gca-bridge/internal/buildinfo"
)

var (
	cfgFile   string
	noBrowser bool
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "gca-bridge",
	Short: "OpenAI/Anthropic-compatible bridge for a Gemini Code Assist subscription",
	Long:  `gca-bridge exposes OpenAI and Anthropic-compatible HTTP endpoints backed by a Gemini Code Assist subscription.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(serveCmd, args)
	},
}

func Execute() {
	rootCmd.Version = buildinfo.Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&noBrowser, "no-browser", false, "don't open browser for OAuth")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	rootCmd.Version = buildinfo.Version
}

func GetConfigPath() string { return cfgFile }

func GetNoBrowser() bool { return noBrowser }

func GetDebug() bool { return debug }
