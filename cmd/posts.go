package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/output"
	"github.com/GODLiangCY/Blog/internal/site"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Lists posts, newest first",
	RunE:  runPosts,
}

func init() {
	rootCmd.AddCommand(postsCmd)

	postsCmd.Flags().Bool("drafts", false, "include posts marked as draft")
}

func runPosts(cmd *cobra.Command, args []string) error {
	if drafts, _ := cmd.Flags().GetBool("drafts"); drafts {
		cfg.Build.Drafts = true
	}

	posts, err := site.NewBuilder(cfg, logger).LoadPosts(cmd.Context())
	if err != nil {
		return err
	}

	t := output.NewTable(cmd.OutOrStdout(), []string{"DATE", "LINK", "TITLE", "TAGS"})
	for _, p := range posts {
		date := "-"
		if !p.Date.IsZero() {
			date = p.Date.Format("2006-01-02")
		}
		title := p.Title
		if p.Draft {
			title += " (draft)"
		}
		t.AddRow([]string{date, p.Link, title, strings.Join(p.Tags, ", ")})
	}
	return t.Render()
}
