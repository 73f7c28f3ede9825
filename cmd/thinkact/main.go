// Package main provides the thinkact CLI: an interactive chat with a
// tool-calling agent.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/thinkact/config"
	"github.com/hupe1980/thinkact/console"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.Error(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "thinkact",
		Short: "Chat with a tool-calling agent",
		Long: `thinkact runs an agent that alternates between model calls and tool calls.

Configuration is read from a YAML file (--config) and THINKACT_* environment
variables; the environment wins.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (config.Config, error) { return config.Load(configPath) }

	rootCmd.AddCommand(newChatCmd(load))
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newConfigCmd(load))

	return rootCmd
}

func newConfigCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cfg.APIKey = ""
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
