package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the document and translation caches",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [doc-hash]",
	Short: "Clear cached results",
	Long: `Clears the document cache and the persistent translation memory.
With a document hash argument only that document's cached result is
removed; translations are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if err := buildServices(); err != nil {
		return err
	}
	defer closeServices()

	ctx := context.Background()

	if len(args) == 1 {
		if err := docCache.Clear(ctx, args[0]); err != nil {
			return fmt.Errorf("clear document %s: %w", args[0], err)
		}
		cmd.Printf("Cleared cached result for %s\n", args[0])
		return nil
	}

	if err := docCache.Clear(ctx, ""); err != nil {
		return fmt.Errorf("clear document cache: %w", err)
	}
	if err := memory.Clear(ctx); err != nil {
		return fmt.Errorf("clear translation memory: %w", err)
	}
	cmd.Println("Cleared document cache and translation memory")
	return nil
}
