package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubsite"
	"github.com/eringen/pubsite/views"
)

var (
	servePort    int
	serveWatch   bool
	serveRebuild bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the preview server",
	Long: `serve renders the site on request from the current content. With --watch
it reloads whenever a post, page, image or static file changes. Setting
adminPassword (or PUBSITE_ADMIN_PASSWORD) enables /admin/, where drafts can
be previewed and skipped posts are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Addr = fmt.Sprintf(":%d", servePort)
		}
		app, err := pubsite.New(cfg, views.Default())
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return app.Start(ctx) })
		if serveWatch {
			g.Go(func() error { return app.Watch(ctx, serveRebuild) })
		}
		err = g.Wait()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides addr)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", true, "reload when content changes")
	serveCmd.Flags().BoolVar(&serveRebuild, "rebuild", false, "also rebuild the output directory on changes")
}
