package cmd

import (
	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/feed"
	"github.com/GODLiangCY/Blog/internal/site"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Writes only the RSS, Atom and JSON feeds",
	Long: `The feed command renders the posts for feed readers and writes
<name>.xml, <name>.atom and <name>.json into the output directory without
touching the rest of it.`,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	posts, err := site.NewBuilder(cfg, logger).BuildFeeds(cmd.Context())
	if err != nil {
		return err
	}

	links := feed.Links(cfg)
	printer.Success("%d posts written to feeds", len(posts))
	printer.Info("rss:  %s", links.RSS)
	printer.Info("atom: %s", links.Atom)
	printer.Info("json: %s", links.JSON)
	return nil
}
