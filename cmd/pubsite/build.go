package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/pubsite"
	"github.com/eringen/pubsite/views"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site into the output directory",
	Long: `build reads posts from the content directory and pages/about.md, then
writes paginated listings, tag pages, post pages, feed.xml, sitemap.xml and
robots.txt into the output directory (default ./public). Static files and
images are copied; images wider than maxImageWidth are scaled down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := pubsite.New(cfg, views.Default())
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Build(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range report.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s\n", d)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built %d posts (%d pages, %d files) in %s\n",
			report.Posts, report.Pages, report.Files, report.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output directory (overrides outputDir)")
	_ = v.BindPFlag("outputDir", buildCmd.Flags().Lookup("output"))
}
