package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
)

func TestModel_ProgressAndPageMessages(t *testing.T) {
	m := New("record.pdf", nil)

	updated, _ := m.Update(ProgressMsg(domain.Progress{
		TotalPages:      4,
		ProcessedPages:  2,
		TotalChunks:     7,
		ProgressPercent: 50,
	}))
	m = updated.(Model)

	updated, _ = m.Update(PageMsg(domain.PageResult{
		PageNumber:       2,
		Text:             "some recognized text",
		AvgOCRConfidence: 0.88,
	}))
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "record.pdf")
	assert.Contains(t, view, "page 2/4")
	assert.Contains(t, view, "7 chunks")
	assert.Contains(t, view, "some recognized text")
}

func TestModel_DoneQuits(t *testing.T) {
	m := New("record.pdf", nil)

	updated, cmd := m.Update(DoneMsg{})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.False(t, m.Aborted())
	assert.Contains(t, m.View(), "Done.")
}

func TestModel_DoneWithError(t *testing.T) {
	m := New("record.pdf", nil)

	updated, _ := m.Update(DoneMsg{Err: errors.New("no pages")})
	m = updated.(Model)
	assert.Contains(t, m.View(), "Failed: no pages")
}

func TestModel_QuitCancelsStream(t *testing.T) {
	cancelled := false
	m := New("record.pdf", func() { cancelled = true })

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	require.NotNil(t, cmd)
	assert.True(t, cancelled)
	assert.True(t, m.Aborted())
	assert.Contains(t, m.View(), "Aborted.")
}

func TestModel_ErrorListRendered(t *testing.T) {
	m := New("record.pdf", nil)

	updated, _ := m.Update(ProgressMsg(domain.Progress{
		Errors: []string{"Page 2: engine crashed"},
	}))
	m = updated.(Model)
	assert.Contains(t, m.View(), "Page 2: engine crashed")
}

func TestRenderPage_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("لفظ ", 100)
	out := renderPage(domain.PageResult{PageNumber: 1, Text: long})
	assert.Less(t, len([]rune(out)), len([]rune(long)))
	assert.Contains(t, out, "…")
}
