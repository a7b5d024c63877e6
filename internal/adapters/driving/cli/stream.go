package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/khasra-labs/khasra-cli/internal/adapters/driving/tui"
	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driving"
)

var (
	streamTranslate bool
	streamSource    string
	streamTarget    string
	streamNoCache   bool
	streamTUI       bool
)

var streamCmd = &cobra.Command{
	Use:   "stream [file]",
	Short: "Process a scanned document page by page",
	Long: `Processes a scanned document in streaming mode, printing each page's
result as soon as it is ready. With --tui a live progress view is shown
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().BoolVarP(&streamTranslate, "translate", "t", false, "translate recognized text")
	streamCmd.Flags().StringVar(&streamSource, "source", "", "source language (FLORES tag, autodetected when empty)")
	streamCmd.Flags().StringVar(&streamTarget, "target", "", "target language (FLORES tag, default English)")
	streamCmd.Flags().BoolVar(&streamNoCache, "no-cache", false, "ignore the document cache")
	streamCmd.Flags().BoolVar(&streamTUI, "tui", false, "show a live progress view")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	if err := buildServices(); err != nil {
		return err
	}
	defer closeServices()

	opts := domain.ProcessOptions{
		Translate:  streamTranslate,
		SourceLang: streamSource,
		TargetLang: streamTarget,
		UseCache:   cfg.Cache.Enabled && !streamNoCache,
	}
	applyLanguageDefaults(&opts)

	stream, err := processor.ProcessStreaming(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("stream %s: %w", args[0], err)
	}

	if streamTUI {
		return runStreamTUI(args[0], stream)
	}
	defer stream.Close()

	for {
		page, ok := stream.Next()
		if !ok {
			break
		}
		printPage(cmd, page)
	}

	if errs := processor.Progress().Errors; len(errs) > 0 {
		cmd.Printf("%d page(s) failed:\n", len(errs))
		for _, e := range errs {
			cmd.Println("  " + e)
		}
	}
	return nil
}

func printPage(cmd *cobra.Command, page domain.PageResult) {
	if page.Error != "" {
		cmd.Printf("--- Page %d: FAILED (%s)\n", page.PageNumber, page.Error)
		return
	}
	cmd.Printf("--- Page %d  (%d chunks, OCR %.0f%%, %.1fs)\n",
		page.PageNumber, len(page.Chunks), page.AvgOCRConfidence*100, page.ProcessingTime)
	cmd.Println(page.Text)
	if page.TranslatedText != "" {
		cmd.Println()
		cmd.Println(page.TranslatedText)
	}
}

// runStreamTUI pumps stream results into the progress view. The consumer
// goroutine forwards each page and progress snapshot as program messages.
func runStreamTUI(path string, stream driving.PageStream) error {
	program := tea.NewProgram(tui.New(path, stream.Close))

	go func() {
		for {
			page, ok := stream.Next()
			if !ok {
				program.Send(tui.DoneMsg{})
				return
			}
			program.Send(tui.PageMsg(page))
			program.Send(tui.ProgressMsg(processor.Progress()))
		}
	}()

	_, err := program.Run()
	return err
}
