package cmd

import (
	"github.com/spf13/cobra"

	"github.com/GODLiangCY/Blog/internal/highlight"
	"github.com/GODLiangCY/Blog/internal/logging"
	"github.com/GODLiangCY/Blog/internal/site"
)

// highlightWorkerCmd is started by the build as its highlight worker. It
// reads requests from stdin and answers on stdout until stdin closes.
var highlightWorkerCmd = &cobra.Command{
	Use:               site.WorkerSubcommand,
	Short:             "Runs the code highlighting worker over stdin and stdout",
	Hidden:            true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		workerLogger := logging.New(cmd.ErrOrStderr(), level, "text").With("component", "highlight-worker")
		return highlight.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), workerLogger)
	},
}

func init() {
	rootCmd.AddCommand(highlightWorkerCmd)
}
