package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sherpa-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchTypes []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chunks",
	Long: `Performs keyword search across all indexed chunks.
Matches chunk content, context headers and document titles.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVarP(&searchTypes, "type", "t", nil, "restrict to source types (book, blog, ama)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errNotConfigured("search")
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
	}
	for _, raw := range searchTypes {
		t, err := domain.ParseSourceType(raw)
		if err != nil {
			return err
		}
		opts.SourceTypes = append(opts.SourceTypes, t)
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

// searchResultJSON is the JSON shape of one result. Embeddings are omitted.
type searchResultJSON struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	SourceType string  `json:"source_type"`
	Title      string  `json:"title"`
	URI        string  `json:"uri"`
	Header     string  `json:"header"`
	Position   int     `json:"position"`
	Tokens     int     `json:"tokens"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, len(results))
	for i := range results {
		r := &results[i]
		out[i] = searchResultJSON{
			DocumentID: r.Document.ID,
			ChunkID:    r.Chunk.ID,
			SourceType: string(r.Document.SourceType),
			Title:      r.Document.Title,
			URI:        r.Document.URI,
			Header:     r.Chunk.ContextHeader,
			Position:   r.Chunk.Position,
			Tokens:     r.Chunk.TokenCount,
			Score:      r.Score,
			Content:    r.Chunk.Content,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println(headingStyle.Render("Results:"))
	cmd.Println()
	for i := range results {
		// Format: [N] Header (Score)
		header := results[i].Chunk.ContextHeader
		if header == "" {
			header = results[i].Document.Title
		}
		if header == "" {
			header = results[i].Document.ID
		}

		cmd.Printf("  [%d] %s %s\n", i+1, header, dimStyle.Render(fmt.Sprintf("(%.2f)", results[i].Score)))
		if results[i].Document.URI != "" {
			cmd.Printf("      %s\n", dimStyle.Render(results[i].Document.URI))
		}
		if results[i].Chunk.Content != "" {
			cmd.Printf("      %s\n", excerpt(results[i].Chunk.Content, excerptLength))
		}
		cmd.Println()
	}

	return nil
}
