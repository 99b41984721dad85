// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the canvas-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/canvas-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the canvas-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "canvas-engine",
	Short: "Evidence-grounded summarization over canvas blocks",
	Long: `canvas-engine turns a set of canvas blocks (text notes, images, links)
into a structured synthesis where every statement is traceable to the
block IDs it was derived from, and answers follow-up questions scoped
to a selection or the whole canvas without fabricating new claims.

Blocks live in a local SQLite store. Use block subcommands to manage
them, summarize to produce a cited summary, ask to question a summary,
and snapshot to save or restore canvas state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./canvas-engine.yaml or ~/.config/canvas-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "canvas", "base directory for canvas data (contains index/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("canvas-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "canvas-engine"))
		}
	}

	viper.SetEnvPrefix("CANVAS_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
