package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/feed"
	"github.com/GODLiangCY/Blog/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site",
	Long: `The build command renders every Markdown file under the pages
directory, highlights code blocks in a worker process, writes the posts
index and the feeds, and copies static assets into the output directory.
The output directory is emptied first.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Bool("drafts", false, "include posts marked as draft")
	buildCmd.Flags().StringP("output", "o", "", "output directory (overrides outputDir)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if drafts, _ := cmd.Flags().GetBool("drafts"); drafts {
		cfg.Build.Drafts = true
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}

	printer.Header("Building " + cfg.SiteTitle)
	report, err := site.NewBuilder(cfg, logger).Build(cmd.Context())
	if err != nil {
		printer.Error("build failed")
		return err
	}

	printer.Success("%d pages, %d posts, %d tags written to %s in %s",
		report.Pages, report.Posts, report.Tags, report.OutputDir, report.Duration.Round(time.Millisecond))
	if report.Static > 0 {
		printer.Info("copied %d static files", report.Static)
	}
	if report.Feeds {
		links := feed.Links(cfg)
		printer.Info("feeds: %s %s %s", links.RSS, links.Atom, links.JSON)
	}
	return nil
}
