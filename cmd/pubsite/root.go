package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/pubsite"
)

var (
	cfgFile string
	siteDir string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "pubsite",
	Short: "pubsite - a markdown blog generator built with Go, Echo, and templ",
	Long: `pubsite turns a directory of markdown posts into a static blog with
paginated listings, tag pages, an RSS feed and a sitemap. It also runs a
preview server that reloads when posts change.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if siteDir != "" {
			if err := os.Chdir(siteDir); err != nil {
				return fmt.Errorf("change to site directory: %w", err)
			}
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var perr *pubsite.Error
		if errors.As(err, &perr) && len(perr.Details) > 0 {
			for field, msg := range perr.Details {
				fmt.Fprintf(os.Stderr, "  %s %s\n", field, msg)
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&siteDir, "dir", "C", "", "site directory to run in")
	rootCmd.AddCommand(buildCmd, serveCmd, newCmd, versionCmd)
}

// loadConfig reads config.yaml and PUBSITE_* environment variables into a
// SiteConfig. Flags bound to v take precedence over both.
func loadConfig() (pubsite.SiteConfig, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PUBSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Secrets usually come from the environment only; Unmarshal does not see
	// environment variables for keys it has never heard of.
	for key, env := range map[string]string{
		"adminPassword":     "PUBSITE_ADMIN_PASSWORD",
		"sessionSecret":     "PUBSITE_SESSION_SECRET",
		"analyticsId":       "PUBSITE_ANALYTICS_ID",
		"commentsServiceId": "PUBSITE_COMMENTS_SERVICE_ID",
		"url":               "PUBSITE_URL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return pubsite.SiteConfig{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return pubsite.SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
		return pubsite.SiteConfig{}, errors.New("no config.yaml found; run 'pubsite new <dir>' to create a site")
	}

	var cfg pubsite.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return pubsite.SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
