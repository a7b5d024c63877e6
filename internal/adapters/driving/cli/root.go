// Package cli implements the khasra command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	filecache "github.com/khasra-labs/khasra-cli/internal/adapters/driven/cache/file"
	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/embedding/ngram"
	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/ocr/tesseract"
	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/raster/fitz"
	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/storage/sqlite"
	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/translation/dictionary"
	"github.com/khasra-labs/khasra-cli/internal/adapters/driven/translation/openai"
	vectormem "github.com/khasra-labs/khasra-cli/internal/adapters/driven/vector/memory"
	"github.com/khasra-labs/khasra-cli/internal/config"
	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driving"
	"github.com/khasra-labs/khasra-cli/internal/core/services"
	"github.com/khasra-labs/khasra-cli/internal/logger"
	"github.com/khasra-labs/khasra-cli/internal/normalisers/ocrtext"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Wired services. Tests inject fakes through SetProcessor; otherwise
// buildServices wires the real adapters on first use.
var (
	khasraHome string
	cfg        config.Config

	processor driving.DocumentProcessor
	index     driven.VectorIndex
	docCache  driven.DocumentCache
	memory    driven.TranslationMemory
)

var rootCmd = &cobra.Command{
	Use:   "khasra",
	Short: "Digitize scanned land revenue records",
	Long: `khasra digitizes scanned land revenue records (jamabandi, fard,
khasra girdawari) through OCR, translation and semantic indexing.

Documents are processed page by page: each page is rendered, recognized,
chunked, optionally translated to English, and indexed for search.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		home, err := config.Home()
		if err != nil {
			return fmt.Errorf("resolve khasra home: %w", err)
		}
		khasraHome = home

		cfg, err = config.Load(home)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetProcessor injects a processor, bypassing adapter wiring. Used by tests.
func SetProcessor(p driving.DocumentProcessor, ix driven.VectorIndex) {
	processor = p
	index = ix
}

// buildServices wires the real adapters once per invocation.
func buildServices() error {
	if processor != nil {
		return nil
	}

	embedder := ngram.New(ngram.WithDimensions(cfg.Embedding.Dimensions))
	index = vectormem.NewIndex(embedder)

	cache, err := filecache.NewDocumentCache(cfg.CacheDir(khasraHome))
	if err != nil {
		return fmt.Errorf("open document cache: %w", err)
	}
	docCache = cache

	memory, err = sqlite.NewTranslationMemory(config.DataDir(khasraHome))
	if err != nil {
		return fmt.Errorf("open translation memory: %w", err)
	}

	translator, err := newTranslator()
	if err != nil {
		return err
	}

	processor = services.NewProcessor(
		fitz.New(fitz.WithDPI(float64(cfg.OCR.DPI))),
		tesseract.New(tesseract.WithDPI(cfg.OCR.DPI)),
		translator,
		index,
		docCache,
		memory,
		ocrtext.New(),
		services.WithChunkSize(cfg.Processing.ChunkSize),
		services.WithChunkOverlap(cfg.Processing.ChunkOverlap),
		services.WithMaxWorkers(cfg.Processing.MaxWorkers),
	)
	return nil
}

func newTranslator() (driven.Translator, error) {
	switch cfg.Translation.Backend {
	case "", "dictionary":
		return dictionary.New(), nil
	case "openai":
		return openai.New(
			openai.WithModel(cfg.Translation.Model),
			openai.WithBaseURL(cfg.Translation.BaseURL),
			openai.WithRequestsPerSecond(cfg.Translation.RPS),
		)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", domain.ErrTranslatorUnavailable, cfg.Translation.Backend)
	}
}

// applyLanguageDefaults fills languages from config.toml when the
// corresponding flags were not given.
func applyLanguageDefaults(opts *domain.ProcessOptions) {
	if opts.SourceLang == "" {
		opts.SourceLang = cfg.OCR.Languages
	}
	if opts.TargetLang == "" {
		opts.TargetLang = cfg.Translation.TargetLang
	}
}

// closeServices releases adapter resources at the end of a command.
func closeServices() {
	if memory != nil {
		if err := memory.Close(); err != nil {
			logger.Warn("Closing translation memory: %v", err)
		}
		memory = nil
	}
}
