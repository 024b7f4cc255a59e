package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/server"
	"github.com/GODLiangCY/Blog/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and rebuilds on changes",
	Long: `The serve command performs an initial build, then serves the output
directory and watches the pages, layouts and static directories. Changes
trigger a rebuild and open browsers reload.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to serve the site on (overrides serve.port)")
	serveCmd.Flags().Bool("drafts", false, "include posts marked as draft")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}
	if drafts, _ := cmd.Flags().GetBool("drafts"); drafts {
		cfg.Build.Drafts = true
	}

	builder := site.NewBuilder(cfg, logger)
	ctx := cmd.Context()

	printer.Info("performing initial build...")
	if _, err := builder.Build(ctx); err != nil {
		printer.Error("initial build failed, fix the issues and try again")
		return err
	}
	printer.Success("initial build successful")

	srv := server.New(server.Options{
		Addr:       fmt.Sprintf(":%d", cfg.Serve.Port),
		OutputDir:  cfg.OutputDir,
		WatchDirs:  []string{cfg.PagesDir, cfg.PostsDir, cfg.LayoutsDir, cfg.StaticDir},
		LiveReload: cfg.Serve.LiveReload,
	}, func(ctx context.Context) error {
		_, err := builder.Build(ctx)
		return err
	}, logger)

	printer.Info("serving on http://localhost:%d, press Ctrl+C to stop", cfg.Serve.Port)
	return srv.Run(ctx)
}
