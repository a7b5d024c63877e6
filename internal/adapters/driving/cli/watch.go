package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/logger"
)

var (
	watchTranslate bool
	watchSource    string
	watchTarget    string
)

// watchSettle is how long a file must stay quiet before it is processed.
// Scanners write large PDFs in bursts; processing a half-written file
// wastes a run and caches garbage.
const watchSettle = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Process new scans as they arrive",
	Long: `Watches a directory and processes every new or modified PDF in batch
mode. Intended for a scanner drop folder; stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchTranslate, "translate", "t", false, "translate recognized text")
	watchCmd.Flags().StringVar(&watchSource, "source", "", "source language (FLORES tag, autodetected when empty)")
	watchCmd.Flags().StringVar(&watchTarget, "target", "", "target language (FLORES tag, default English)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := buildServices(); err != nil {
		return err
	}
	defer closeServices()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(args[0]); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for scans\n", args[0])

	// pending tracks files seen but not yet settled.
	pending := map[string]time.Time{}
	ticker := time.NewTicker(watchSettle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isScan(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < watchSettle {
					continue
				}
				delete(pending, path)
				processWatched(ctx, cmd, path)
			}
		}
	}
}

func processWatched(ctx context.Context, cmd *cobra.Command, path string) {
	opts := domain.ProcessOptions{
		Translate:  watchTranslate,
		SourceLang: watchSource,
		TargetLang: watchTarget,
		UseCache:   cfg.Cache.Enabled,
		BatchSize:  cfg.Processing.BatchSize,
	}
	applyLanguageDefaults(&opts)

	result, err := processor.ProcessBatch(ctx, path, opts)
	if err != nil {
		logger.Error("Processing %s: %v", path, err)
		return
	}
	cmd.Printf("Processed %s: %d pages, %d errors\n",
		filepath.Base(path), result.TotalPages, len(processor.Progress().Errors))
}

func isScan(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}
