// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers/internal/affiliation"
	"github.com/pdiddy/get-papers/internal/logger"
	"github.com/pdiddy/get-papers/internal/pubmed"
	"github.com/pdiddy/get-papers/internal/secrets"
	"github.com/pdiddy/get-papers/pkg/types"
)

const (
	defaultMaxResults = 100
	defaultUserAgent  = "get-papers/0.1"
	defaultTool       = "get-papers"
	envPrefix         = "GET_PAPERS"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"format":                 "format",
	"max-results":            "max_results",
	"keywords":               "keywords",
	"timeout":                "timeout",
	"base-url":               "base_url",
	"lenient-dates":          "lenient_dates",
	"email-from-affiliation": "email_from_affiliation",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", pubmed.DefaultBaseURL)
	v.SetDefault("max_results", defaultMaxResults)
	v.SetDefault("keywords", affiliation.DefaultKeywords)
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("tool", defaultTool)
	v.SetDefault("format", string(types.FormatTable))
}

// readConfigFile reads cfgFile, or searches ./get-papers.yaml and
// ~/.config/get-papers/config.yaml. Only an explicitly named file is required.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("get-papers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "get-papers"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	logger.L().Debug("config.loaded", "file", v.ConfigFileUsed())
	return nil
}

// loadConfig merges defaults, config file, environment, flags, and secrets
// into a types.Config.
func loadConfig(v *viper.Viper, opts options, warn io.Writer) (types.Config, error) {
	setDefaults(v)
	if err := readConfigFile(v, opts.configFile); err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("timeout"),
				UserAgent: v.GetString("user_agent"),
			},
			BaseURL:    v.GetString("base_url"),
			Database:   "pubmed",
			MaxResults: v.GetInt("max_results"),
			APIKey:     v.GetString("api_key"),
			Email:      v.GetString("email"),
			Tool:       v.GetString("tool"),
		},
		Parse: types.ParseConfig{
			Keywords:             keywords(v),
			LenientDates:         v.GetBool("lenient_dates"),
			EmailFromAffiliation: v.GetBool("email_from_affiliation"),
		},
		Format: types.OutputFormat(strings.ToLower(v.GetString("format"))),
	}

	if cfg.Fetch.MaxResults <= 0 || cfg.Fetch.MaxResults > pubmed.MaxResultsLimit {
		return cfg, fmt.Errorf("max_results must be between 1 and %d, got %d",
			pubmed.MaxResultsLimit, cfg.Fetch.MaxResults)
	}
	switch cfg.Format {
	case types.FormatTable, types.FormatJSON, types.FormatYAML:
	default:
		return cfg, fmt.Errorf("unknown output format %q (want table, json, or yaml)", cfg.Format)
	}

	s, err := secrets.Load(opts.secretsDir, warn)
	if err != nil {
		return cfg, err
	}
	secrets.Apply(&cfg.Fetch, s)
	logger.L().Debug("config.resolved",
		"base_url", cfg.Fetch.BaseURL,
		"max_results", cfg.Fetch.MaxResults,
		"keywords", cfg.Parse.Keywords,
		"api_key", cfg.Fetch.APIKey != "")

	return cfg, nil
}

// keywords accepts either a comma-separated string (flag, environment) or
// a list (config file).
func keywords(v *viper.Viper) []string {
	if s, ok := v.Get("keywords").(string); ok {
		if kw := affiliation.ParseKeywords(s); len(kw) > 0 {
			return kw
		}
		return affiliation.DefaultKeywords
	}
	return v.GetStringSlice("keywords")
}
