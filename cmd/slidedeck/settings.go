// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidedeck/internal/httputil"
	"github.com/pdiddy/slidedeck/internal/secrets"
	"github.com/pdiddy/slidedeck/internal/titlecache"
	"github.com/pdiddy/slidedeck/internal/vision"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// Flags override config values only when set on the command line, so the
// same config key can back flags on several commands.

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}

func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	return viper.GetDuration(key)
}

// addVisionFlags registers the flags shared by commands that call the model.
func addVisionFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "vision model identifier (default gpt-4o)")
	cmd.Flags().String("base-url", "", "OpenAI-compatible API base URL")
	cmd.Flags().String("api-key-env", "", "environment variable holding the API key (default OPENAI_API_KEY)")
	cmd.Flags().Duration("timeout", 0, "per-request timeout (default none)")
	cmd.Flags().Int("max-side", 0, "scale images down so the longer side fits before upload; 0 sends them unchanged (default 2048)")
	cmd.Flags().String("cache", "", "response cache database (default <user cache dir>/slidedeck/cache.db)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the response cache")
}

// visionConfig assembles the vision settings from config, env and flags.
func visionConfig(cmd *cobra.Command) types.VisionConfig {
	return types.VisionConfig{
		AIConfig: types.AIConfig{
			Model:      stringSetting(cmd, "model", "vision.model"),
			BaseURL:    stringSetting(cmd, "base-url", "vision.base_url"),
			MaxRetries: viper.GetInt("vision.max_retries"),
			Timeout:    durationSetting(cmd, "timeout", "vision.timeout"),
		},
		APIKeyEnv:    stringSetting(cmd, "api-key-env", "vision.api_key_env"),
		DotenvFile:   viper.GetString("vision.dotenv_file"),
		Delay:        durationSetting(cmd, "delay", "vision.delay"),
		TitlesFile:   stringSetting(cmd, "output", "vision.titles_file"),
		MaxImageSide: intSetting(cmd, "max-side", "vision.max_image_side"),
	}
}

// openCache opens the response cache unless disabled. The returned close
// function is never nil.
func openCache(cmd *cobra.Command) (vision.Cache, func(), error) {
	noop := func() {}
	if off, _ := cmd.Flags().GetBool("no-cache"); off {
		return nil, noop, nil
	}
	path := stringSetting(cmd, "cache", "cache.path")
	if path == "" {
		p, err := titlecache.DefaultPath()
		if err != nil {
			return nil, noop, err
		}
		path = p
	}
	store, err := titlecache.Open(path)
	if err != nil {
		return nil, noop, err
	}
	appLog.Debug("using response cache", "path", path)
	return store, func() { store.Close() }, nil
}

// newExtractor resolves the credential and wires the OpenAI backend, the
// retrying HTTP client and the response cache into an Extractor.
func newExtractor(cmd *cobra.Command) (*vision.Extractor, func(), error) {
	cfg := visionConfig(cmd)

	key, err := secrets.Lookup(cfg.APIKeyEnv, loadedSecrets)
	if err != nil {
		return nil, nil, err
	}
	cfg.APIKey = key

	log := appLog.With("model", cfg.Model)
	client := httputil.NewRetryClient(cfg.Timeout, cfg.MaxRetries, log)
	backend, err := vision.NewOpenAIBackend(cfg.AIConfig, client)
	if err != nil {
		return nil, nil, err
	}

	cache, closeCache, err := openCache(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("opening response cache: %w", err)
	}

	return vision.NewExtractor(backend, cfg, cache, log, cmd.OutOrStdout()), closeCache, nil
}
