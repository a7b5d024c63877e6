// Package ocrtext cleans raw OCR output before chunking.
package ocrtext

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// noiseChars are artifacts Tesseract commonly emits on degraded scans.
const noiseChars = "~`^§¶†‡•"

var (
	multiSpace   = regexp.MustCompile(` {2,}`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// Normaliser normalizes newlines, strips control characters and OCR noise,
// and drops consecutive duplicate lines (a common artifact of scanning
// register pages with ruled tables).
type Normaliser struct{}

// New creates a new OCR text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise returns the cleaned text. Pure function.
func (n *Normaliser) Normalise(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
			// dropped
		case strings.ContainsRune(noiseChars, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = strings.ReplaceAll(text, "\t", " ")
	text = multiSpace.ReplaceAllString(text, " ")

	// Trim each line, then collapse runs of blank lines so paragraph
	// boundaries stay meaningful for the chunker.
	lines := strings.Split(text, "\n")
	prev := ""
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && line == prev {
			continue
		}
		out = append(out, line)
		prev = line
	}
	text = strings.Join(out, "\n")
	text = multiNewline.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
