package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Creates a new post in the posts directory",
	Long: `Creates <posts dir>/<slug>.md with front matter filled in.

Examples:
  blog new "Hello Vite"
  blog new go-generics --tags go,generics --draft`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringSlice("tags", nil, "comma separated tags")
	newCmd.Flags().String("description", "", "post description")
	newCmd.Flags().Bool("draft", false, "mark the post as draft")
}

func runNew(cmd *cobra.Command, args []string) error {
	tags, _ := cmd.Flags().GetStringSlice("tags")
	description, _ := cmd.Flags().GetString("description")
	draft, _ := cmd.Flags().GetBool("draft")

	path, err := scaffold.NewPost(cfg.PostsDir, scaffold.PostOptions{
		Title:       strings.Join(args, " "),
		Tags:        tags,
		Description: description,
		Draft:       draft,
	})
	if err != nil {
		return err
	}
	printer.Success("created %s", path)
	return nil
}
