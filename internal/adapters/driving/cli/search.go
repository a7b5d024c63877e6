package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khasra-labs/khasra-cli/internal/config"
)

var (
	searchLimit     int
	searchJSON      bool
	searchContext   bool
	searchIndexPath string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search an indexed document",
	Long: `Searches a previously saved vector index snapshot for chunks similar
to the query. The query can be in the document's source language; with
--context the English translations of the matches are printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchContext, "context", false, "print translations of the matching chunks")
	searchCmd.Flags().StringVar(&searchIndexPath, "index", "", "index snapshot path (default <khasra home>/index.json)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := buildServices(); err != nil {
		return err
	}
	defer closeServices()

	path := searchIndexPath
	if path == "" {
		path = config.IndexSnapshotPath(khasraHome)
	}
	if err := index.Load(path); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	query := args[0]

	if searchContext {
		qc := processor.QueryContext(query, searchLimit)
		if searchJSON {
			return outputJSON(cmd, qc)
		}
		if len(qc.Translations) == 0 {
			cmd.Println("No results found.")
			return nil
		}
		for i, text := range qc.Translations {
			cmd.Printf("  [%d] %s\n", i+1, text)
		}
		return nil
	}

	results := processor.Search(query, searchLimit)
	if searchJSON {
		return outputJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, r := range results {
		cmd.Printf("  [%d] page %d, %s (%.3f)\n", i+1, r.Chunk.PageNumber+1, r.Chunk.ID, r.Score)
		cmd.Printf("      %s\n", r.Chunk.Text)
		if r.Chunk.TranslatedText != "" && r.Chunk.TranslatedText != r.Chunk.Text {
			cmd.Printf("      %s\n", r.Chunk.TranslatedText)
		}
	}
	return nil
}
