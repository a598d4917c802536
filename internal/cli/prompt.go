package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"learnrag/internal/usecase"
)

var (
	promptQuery     string
	promptLevel     string
	promptSubject   string
	promptObjective string
	promptJSON      bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt [paths...]",
	Short: "Build an educational prompt grounded in documents",
	Long: `Ingest the given files or directories (default: the root directory),
retrieve context for the question and print the assembled instruction prompt.

Examples:
  learnrag prompt -q "What is osmosis?" --level beginner --subject Biology ./notes
  learnrag prompt -q "Explain recursion" --objective "Trace a recursive call" --json cs.md`,
	RunE: runPromptCmd,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVarP(&promptQuery, "query", "q", "", "student question (required)")
	promptCmd.Flags().StringVar(&promptLevel, "level", "", "learner level: beginner, intermediate or advanced (default from config)")
	promptCmd.Flags().StringVar(&promptSubject, "subject", "", "subject area (default from config)")
	promptCmd.Flags().StringVar(&promptObjective, "objective", "", "learning objective")
	promptCmd.Flags().BoolVar(&promptJSON, "json", false, "output prompt, context and sources as JSON")
	promptCmd.MarkFlagRequired("query")
}

func runPromptCmd(cmd *cobra.Command, args []string) error {
	engine := usecase.NewEngineFromConfig(GetConfig(), GetLogger())

	paths := args
	if len(paths) == 0 {
		paths = []string{GetRootDir()}
	}
	ingested, err := ingestPaths(engine, paths)
	if err != nil {
		return err
	}
	if !promptJSON {
		printIngestSummary(ingested)
	}

	result, err := engine.BuildPrompt(usecase.PromptRequest{
		Query:             promptQuery,
		LearnerLevel:      promptLevel,
		Subject:           promptSubject,
		LearningObjective: promptObjective,
	})
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}

	out := cmd.OutOrStdout()
	if promptJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	fmt.Fprintln(out, result.Prompt)
	if result.HasContext {
		fmt.Fprintf(out, "\n--- %d sources, ~%d tokens ---\n", len(result.Sources), result.EstimatedTokens)
		for i, s := range result.Sources {
			fmt.Fprintf(out, "[Source %d] %s (score: %.2f): %s\n", i+1, s.DocumentName, s.Score, s.Excerpt)
		}
	}
	return nil
}
