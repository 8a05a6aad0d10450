package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

var (
	chunkType string
	chunkFull bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Preview the chunks of a file",
	Long: `Runs the chunking engine on a single file and prints the resulting chunks
without storing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkType, "type", "t", "", "source type (book, blog, ama)")
	chunkCmd.Flags().BoolVar(&chunkFull, "full", false, "print full chunk content")
	_ = chunkCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	t, err := domain.ParseSourceType(chunkType)
	if err != nil {
		return err
	}

	processed, err := ingestService.Preview(cmd.Context(), t, args[0])
	if err != nil {
		return fmt.Errorf("chunk failed: %w", err)
	}
	if processed == nil {
		cmd.Println("No content to chunk.")
		return nil
	}

	printProcessed(cmd, processed)
	return nil
}

func printProcessed(cmd *cobra.Command, p *domain.ProcessedDocument) {
	doc := &p.Document
	cmd.Println(titleStyle.Render(doc.Title))
	if doc.Author != "" {
		cmd.Printf("Author: %s\n", doc.Author)
	}
	if doc.URL != "" {
		cmd.Printf("URL:    %s\n", doc.URL)
	}
	cmd.Printf("Chunks: %d (%d tokens)\n", len(p.Chunks), p.TotalTokens())

	for i := range p.Chunks {
		c := &p.Chunks[i]
		cmd.Println()
		cmd.Printf("%s %s\n",
			headingStyle.Render(fmt.Sprintf("[%d]", c.Position)),
			dimStyle.Render(fmt.Sprintf("%d tokens", c.TokenCount)))
		cmd.Printf("  %s\n", c.ContextHeader)
		if label := c.Label(); label != "" {
			cmd.Printf("  %s\n", dimStyle.Render(label))
		}
		if chunkFull {
			cmd.Println(c.Content)
		} else {
			cmd.Printf("  %s\n", excerpt(c.Content, excerptLength))
		}
	}
}
