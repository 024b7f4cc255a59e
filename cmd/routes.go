package cmd

import (
	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/output"
	"github.com/GODLiangCY/Blog/internal/routes"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Lists the routes derived from the pages directory",
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	table, err := routes.Scan(routes.ScanConfig{PagesDir: cfg.PagesDir, PostsDir: cfg.PostsDir})
	if err != nil {
		return err
	}

	t := output.NewTable(cmd.OutOrStdout(), []string{"PATH", "KIND", "SOURCE", "TITLE"})
	for _, r := range table {
		title, _ := r.Meta.FrontMatter["title"].(string)
		t.AddRow([]string{r.Path, string(r.Kind), r.Source, title})
	}
	return t.Render()
}
