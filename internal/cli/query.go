package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"learnrag/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [paths...]",
	Short: "Search documents for relevant chunks",
	Long: `Ingest the given files or directories (default: the root directory) and
print the chunks most relevant to the query.

Examples:
  learnrag query -q "cell division" ./biology
  learnrag query -q "photosynthesis" --top-k 10 --json notes.md`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	engine := usecase.NewEngineFromConfig(GetConfig(), GetLogger())

	paths := args
	if len(paths) == 0 {
		paths = []string{GetRootDir()}
	}
	ingested, err := ingestPaths(engine, paths)
	if err != nil {
		return err
	}
	if !queryJSON {
		printIngestSummary(ingested)
	}

	chunks, err := engine.Retrieve(queryText, queryTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if queryJSON {
		output, _ := json.MarshalIndent(usecase.RetrieveResult{
			Query:      queryText,
			Chunks:     chunks,
			HasContext: len(chunks) > 0,
		}, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(chunks) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(chunks), queryText)
	for i, c := range chunks {
		fmt.Fprintf(out, "--- [%d] %s #%d @%d (score: %.2f, matched: %v) ---\n",
			i+1, c.Chunk.DocumentName, c.Chunk.ID, c.Chunk.CharStart, c.Score, c.MatchedTerms)
		fmt.Fprintln(out, c.Chunk.Text)
		fmt.Fprintln(out)
	}

	return nil
}
