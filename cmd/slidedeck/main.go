// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the slidedeck CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidedeck/internal/logger"
	"github.com/pdiddy/slidedeck/internal/secrets"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// appLog is built from the log.* settings before any command runs.
	appLog = logger.Nop()
)

// rootCmd is the base command for the slidedeck CLI.
var rootCmd = &cobra.Command{
	Use:   "slidedeck",
	Short: "Turn slide images into bookmarked PDFs",
	Long: `slidedeck converts folders of slide images into a single PDF with a
nested bookmark outline, merges chapter PDFs under per-chapter bookmarks, and
asks a vision model for slide titles and agenda outlines to help write the
bookmark tree.

Images are ordered by filename; prefix them with zero-padded numbers
(01.png, 02.png, ...) to control page order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(viper.GetString("log.mode"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		appLog = l

		if err := secrets.LoadDotenv(viper.GetString("vision.dotenv_file")); err != nil {
			return err
		}

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
			appLog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./slidedeck.yaml or ~/.config/slidedeck/slidedeck.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-mode", "", "log format: dev or prod")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.mode", rootCmd.PersistentFlags().Lookup("log-mode"))

	viper.SetDefault("log.mode", "dev")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("vision.model", types.DefaultModel)
	viper.SetDefault("vision.api_key_env", types.DefaultAPIKeyEnv)
	viper.SetDefault("vision.dotenv_file", types.DefaultDotenvFile)
	viper.SetDefault("vision.delay", types.DefaultDelay)
	viper.SetDefault("vision.max_retries", types.DefaultMaxRetries)
	viper.SetDefault("vision.titles_file", types.DefaultTitlesFile)
	viper.SetDefault("vision.max_image_side", types.DefaultMaxImageSide)
	viper.SetDefault("compose.output", types.DefaultComposeOut)
	viper.SetDefault("merge.output", types.DefaultMergeOut)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("slidedeck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "slidedeck"))
		}
	}

	viper.SetEnvPrefix("SLIDEDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
