package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/config"
	"github.com/GODLiangCY/Blog/internal/logging"
	"github.com/GODLiangCY/Blog/internal/output"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Builds the blog from Markdown posts",
	Long: `blog turns the Markdown files under ./pages into a static site:
posts with highlighted code and a table of contents, a posts index,
and RSS, Atom and JSON feeds, all written to the output directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func initConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(noColor))

	logger.Debug("configuration loaded",
		"output_dir", cfg.OutputDir,
		"pages_dir", cfg.PagesDir,
		"posts_dir", cfg.PostsDir,
		"highlight_worker", cfg.Highlight.Worker,
	)
	return nil
}
