// Package openai translates chunk text through an OpenAI-compatible chat
// completion endpoint. Pointing BaseURL at a local llama.cpp or Ollama
// server works with the same adapter.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driven"
)

// Ensure Translator implements the interface.
var _ driven.Translator = (*Translator)(nil)

// DefaultModel balances cost against the quality needed for short
// land-record chunks.
const DefaultModel = "gpt-4o-mini"

// languageNames renders FLORES tags as the plain names the prompt uses.
var languageNames = map[string]string{
	domain.LangUrdu:    "Urdu",
	domain.LangHindi:   "Hindi",
	domain.LangEnglish: "English",
}

// Translator calls a chat completion model with a fixed translation
// prompt. Calls are rate limited per translator instance.
type Translator struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// Option configures the translator.
type Option func(*config)

type config struct {
	model   string
	baseURL string
	rps     float64
}

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible server.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithRequestsPerSecond bounds the call rate. Zero or negative disables
// the limit.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *config) {
		c.rps = rps
	}
}

// New creates a translator using the OPENAI_API_KEY environment variable.
func New(opts ...Option) (*Translator, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	cfg := config{model: DefaultModel, rps: 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(key)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.rps), 1)
	}

	return &Translator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.model,
		limiter: limiter,
	}, nil
}

func (t *Translator) Name() string { return "openai:" + t.model }

// Confidence for a live model translation of revenue-record text.
func (t *Translator) Confidence() float64 { return 0.9 }

// Translate renders text from src into tgt. src and tgt are FLORES tags.
func (t *Translator) Translate(ctx context.Context, text, src, tgt string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(src, tgt),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPrompt(src, tgt string) string {
	return fmt.Sprintf(
		"You translate scanned land revenue records from %s to %s. "+
			"Keep khasra and khewat numbers, dates and proper names exactly as written. "+
			"Reply with the translation only.",
		languageName(src), languageName(tgt))
}

func languageName(tag string) string {
	if name, ok := languageNames[tag]; ok {
		return name
	}
	if tag == "" {
		return "the source language"
	}
	return tag
}
