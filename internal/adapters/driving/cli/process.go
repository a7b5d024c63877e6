package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khasra-labs/khasra-cli/internal/config"
	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

var (
	processTranslate bool
	processSource    string
	processTarget    string
	processJSON      bool
	processNoCache   bool
	processBatchSize int
	processSaveIndex string
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Process a scanned document in batch mode",
	Long: `Processes a scanned document page by page in fixed-size batches,
running OCR on a worker pool and translating after each batch.

Results are cached by file content, so reprocessing an unchanged file
returns immediately. Use --no-cache to force a fresh run.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVarP(&processTranslate, "translate", "t", false, "translate recognized text")
	processCmd.Flags().StringVar(&processSource, "source", "", "source language (FLORES tag, autodetected when empty)")
	processCmd.Flags().StringVar(&processTarget, "target", "", "target language (FLORES tag, default English)")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the full result as JSON")
	processCmd.Flags().BoolVar(&processNoCache, "no-cache", false, "ignore the document cache")
	processCmd.Flags().IntVar(&processBatchSize, "batch-size", 0, "pages per batch (default from config)")
	processCmd.Flags().StringVar(&processSaveIndex, "save-index", "", "write the vector index snapshot to this path after processing")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := buildServices(); err != nil {
		return err
	}
	defer closeServices()

	opts := domain.ProcessOptions{
		Translate:  processTranslate,
		SourceLang: processSource,
		TargetLang: processTarget,
		UseCache:   cfg.Cache.Enabled && !processNoCache,
		BatchSize:  processBatchSize,
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = cfg.Processing.BatchSize
	}
	applyLanguageDefaults(&opts)

	result, err := processor.ProcessBatch(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("process %s: %w", args[0], err)
	}

	if processSaveIndex != "" {
		if err := saveIndexSnapshot(processSaveIndex); err != nil {
			return err
		}
	}

	if processJSON {
		return outputJSON(cmd, result)
	}
	return outputResultSummary(cmd, result)
}

func saveIndexSnapshot(path string) error {
	if path == "default" {
		path = config.IndexSnapshotPath(khasraHome)
	}
	if err := index.Save(path); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultSummary(cmd *cobra.Command, result *domain.DocumentResult) error {
	chunks := 0
	failed := 0
	for _, page := range result.Pages {
		chunks += len(page.Chunks)
		if page.Error != "" {
			failed++
		}
	}

	hash := result.DocHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	cmd.Printf("Processed %d pages (%d chunks) for document %s\n",
		result.TotalPages, chunks, hash)
	if failed > 0 {
		cmd.Printf("  %d page(s) failed; see errors below\n", failed)
		for _, page := range result.Pages {
			if page.Error != "" {
				cmd.Printf("  Page %d: %s\n", page.PageNumber, page.Error)
			}
		}
	}
	if result.FullTranslation != "" {
		cmd.Println()
		cmd.Println(result.FullTranslation)
	} else {
		cmd.Println()
		cmd.Println(result.FullText)
	}
	return nil
}
