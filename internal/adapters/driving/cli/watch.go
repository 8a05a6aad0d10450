package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sherpa-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
)

var watchType string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-ingest files as they change",
	Long: `Watches a source directory and ingests markdown files when they are
created or saved. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchType, "type", "t", "", "source type (book, blog, ama)")
	_ = watchCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	t, err := domain.ParseSourceType(watchType)
	if err != nil {
		return err
	}
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	src := domain.Source{Type: t, Path: dir, Recursive: t.DefaultRecursive()}
	w := watch.New(src, ingestService, watch.WithOnResult(func(r watch.Result) {
		printWatchResult(cmd, r)
	}))

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (%s). Press Ctrl+C to stop.\n", dir, t.Description())
	return w.Run(cmd.Context())
}

func printWatchResult(cmd *cobra.Command, r watch.Result) {
	name := filepath.Base(r.Path)
	switch {
	case r.Err != nil:
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", warnStyle.Render("skipped"), name)
	case r.File == nil:
		return
	case r.File.Outcome == driving.FileStored:
		cmd.Printf("%s %s (%d chunks)\n", okStyle.Render("stored"), name, r.File.Chunks)
	default:
		cmd.Printf("%s %s\n", dimStyle.Render(string(r.File.Outcome)), name)
	}
}
