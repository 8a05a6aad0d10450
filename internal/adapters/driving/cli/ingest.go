package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driving"
)

var (
	ingestType string
	ingestPath string
	ingestSave bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest configured sources",
	Long: `Chunks and stores every markdown file in the configured source directories.

Sources are processed in order: PMM books, PMA blogs, Sharebird AMAs.
Files whose content is already stored are skipped as duplicates; files that
fail to process are logged and skipped.

Examples:
  # Ingest all configured sources
  sherpa ingest

  # Ingest only the configured blog directory
  sherpa ingest --type blog

  # Ingest a directory once, and remember it for next time
  sherpa ingest --type ama --path ./data/amas --save`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "source type (book, blog, ama)")
	ingestCmd.Flags().StringVarP(&ingestPath, "path", "p", "", "directory to ingest instead of the configured one")
	ingestCmd.Flags().BoolVar(&ingestSave, "save", false, "store --path as the configured source for --type")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	sources, err := resolveSources()
	if err != nil {
		return err
	}

	var opts driving.IngestOptions
	if isTerminal(cmd.OutOrStdout()) {
		opts.OnProgress = newProgressReporter(cmd.OutOrStdout()).update
	}

	cmd.Println(titleStyle.Render("Sherpa Knowledge Ingestion"))

	report, err := ingestService.IngestAll(cmd.Context(), sources, opts)
	if report != nil {
		printIngestReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

// resolveSources picks the sources to ingest from flags and settings.
func resolveSources() ([]domain.Source, error) {
	var filter domain.SourceType
	if ingestType != "" {
		t, err := domain.ParseSourceType(ingestType)
		if err != nil {
			return nil, err
		}
		filter = t
	}

	if ingestPath != "" {
		if filter == "" {
			return nil, errors.New("--path requires --type")
		}
		abs, err := filepath.Abs(ingestPath)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
		src := domain.Source{Type: filter, Path: abs, Recursive: filter.DefaultRecursive()}
		if ingestSave {
			if settingsService == nil {
				return nil, errNotConfigured("settings")
			}
			if err := settingsService.SetSource(src); err != nil {
				return nil, fmt.Errorf("save source: %w", err)
			}
		}
		return []domain.Source{src}, nil
	}

	if ingestSave {
		return nil, errors.New("--save requires --path")
	}
	if settingsService == nil {
		return nil, errNotConfigured("settings")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var sources []domain.Source
	for _, src := range settings.Sources {
		if src.Path == "" || (filter != "" && src.Type != filter) {
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, errors.New("no sources configured: run 'sherpa ingest --type <type> --path <dir> --save'")
	}
	return sources, nil
}

func printIngestReport(cmd *cobra.Command, report *driving.IngestReport) {
	cmd.Println()
	cmd.Println(titleStyle.Render("Ingestion Summary"))

	for _, sr := range report.Sources {
		cmd.Println()
		cmd.Println(headingStyle.Render(sr.Source.Type.Description() + ":"))
		if sr.Missing {
			cmd.Printf("  %s %s\n", warnStyle.Render("Path not found:"), sr.Source.Path)
			continue
		}
		printStats(cmd, sr.Stats)
	}

	cmd.Println()
	cmd.Println(headingStyle.Render("TOTAL:"))
	printStats(cmd, report.Total)
	cmd.Println()
	cmd.Println(okStyle.Render("Ingestion complete!"))
}

func printStats(cmd *cobra.Command, s domain.IngestStats) {
	cmd.Printf("  Documents:  %d\n", s.Documents)
	cmd.Printf("  Chunks:     %d\n", s.Chunks)
	cmd.Printf("  Skipped:    %d\n", s.Skipped)
	cmd.Printf("  Duplicates: %d\n", s.Duplicates)
}

// progressReporter renders a progress bar line per source.
type progressReporter struct {
	w   io.Writer
	bar progress.Model
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *progressReporter) update(done, total int) {
	if total == 0 {
		return
	}
	fmt.Fprintf(p.w, "\r%s %d/%d", p.bar.ViewAs(float64(done)/float64(total)), done, total)
	if done == total {
		fmt.Fprintln(p.w)
	}
}
