// Package tui renders live progress for a streaming document run as a
// Bubble Tea program. The CLI feeds it page results and progress
// snapshots through program messages.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

// ProgressMsg carries a progress snapshot into the model.
type ProgressMsg domain.Progress

// PageMsg carries one finished page into the model.
type PageMsg domain.PageResult

// DoneMsg ends the run. Err is nil on success.
type DoneMsg struct{ Err error }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pageStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Model is the Bubble Tea model for a document run.
type Model struct {
	path     string
	progress progress.Model
	spinner  spinner.Model
	snapshot domain.Progress
	lastPage *domain.PageResult
	done     bool
	err      error
	aborted  bool
	width    int

	// Cancel stops the underlying page stream when the user quits early.
	Cancel func()
}

// New creates the model for one document run.
func New(path string, cancel func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		path:     path,
		progress: progress.New(progress.WithDefaultGradient()),
		spinner:  sp,
		Cancel:   cancel,
	}
}

func (m Model) Init() tea.Cmd { return m.spinner.Tick }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.done && m.Cancel != nil {
				m.Cancel()
			}
			m.aborted = !m.done
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.snapshot = domain.Progress(msg)
		return m, nil

	case PageMsg:
		page := domain.PageResult(msg)
		m.lastPage = &page
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Processing "+m.path) + "\n\n")

	percent := m.snapshot.ProgressPercent / 100
	b.WriteString("  " + m.progress.ViewAs(percent) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  page %d/%d  %d chunks",
		m.spinner.View(), m.snapshot.ProcessedPages, m.snapshot.TotalPages, m.snapshot.TotalChunks)) + "\n")
	if m.snapshot.EstimatedRemainingSeconds > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ~%.0fs remaining", m.snapshot.EstimatedRemainingSeconds)) + "\n")
	}

	if m.lastPage != nil {
		b.WriteString("\n" + pageStyle.Render(renderPage(*m.lastPage)) + "\n")
	}

	for _, e := range m.snapshot.Errors {
		b.WriteString(errorStyle.Render("  ✗ "+e) + "\n")
	}

	switch {
	case m.aborted:
		b.WriteString("\n" + errorStyle.Render("Aborted.") + "\n")
	case m.done && m.err != nil:
		b.WriteString("\n" + errorStyle.Render("Failed: "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString("\n" + statusStyle.Render("Done.") + "\n")
	default:
		b.WriteString("\n" + dimStyle.Render("q to abort") + "\n")
	}
	return b.String()
}

// Aborted reports whether the user quit before the run finished.
func (m Model) Aborted() bool { return m.aborted }

func renderPage(page domain.PageResult) string {
	if page.Error != "" {
		return fmt.Sprintf("Page %d: %s", page.PageNumber, page.Error)
	}

	text := page.Text
	if page.TranslatedText != "" {
		text = page.TranslatedText
	}
	const maxPreview = 200
	if runes := []rune(text); len(runes) > maxPreview {
		text = string(runes[:maxPreview]) + "…"
	}
	return fmt.Sprintf("Page %d  %d chunks  OCR %.0f%%\n%s",
		page.PageNumber, len(page.Chunks), page.AvgOCRConfidence*100, text)
}
