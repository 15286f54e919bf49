// Package entities tags proper-noun and noun tokens in free text. The tagger is an
// optional capability: None stands in when no model is configured.
package entities

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/prompts"
)

// Part-of-speech tags the recognizer reports.
const (
	TagProperNoun = "PROPN"
	TagNoun       = "NOUN"
)

// maxInputRunes bounds how much text is sent to the model.
const maxInputRunes = 12000

// Token is one tagged token, in the casing it appears in the source text.
type Token struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// Recognizer is the entity-recognition capability.
type Recognizer interface {
	Available() bool
	Recognize(ctx context.Context, text string) ([]Token, error)
	Model() string
}

// None is the unavailable recognizer.
type None struct{}

// Available reports false.
func (None) Available() bool { return false }

// Recognize returns no tokens.
func (None) Recognize(context.Context, string) ([]Token, error) { return nil, nil }

// Model returns an empty name.
func (None) Model() string { return "" }

// LLMRecognizer tags tokens by prompting a lite-tier model for JSON output.
type LLMRecognizer struct {
	client llm.Client
	logger *zap.Logger
}

// NewLLMRecognizer wraps client as a Recognizer.
func NewLLMRecognizer(client llm.Client, log *zap.Logger) *LLMRecognizer {
	return &LLMRecognizer{client: client, logger: logger.OrNop(log).Named("entities")}
}

// Available reports whether a client is configured.
func (r *LLMRecognizer) Available() bool {
	return r != nil && r.client != nil
}

// Model returns the model used for tagging.
func (r *LLMRecognizer) Model() string {
	if !r.Available() {
		return ""
	}
	return r.client.GetModel(llm.TierLite)
}

type tagResponse struct {
	Tokens []Token `json:"tokens"`
}

// Recognize returns the tagged tokens of text in discovery order.
func (r *LLMRecognizer) Recognize(ctx context.Context, text string) ([]Token, error) {
	if !r.Available() {
		return nil, nil
	}

	runes := []rune(text)
	if len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}

	prompt, err := prompts.Render(prompts.EntitiesFile, "tag-tokens", map[string]string{"Text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to load tagging prompt: %w", err)
	}

	response, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("token tagging failed: %w", err)
	}

	var parsed tagResponse
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		r.logger.Debug("unparseable tagging response", zap.String("response", logger.TruncateForLog(response, 200)))
		return nil, &llm.ParseError{Message: "failed to parse tagging response", Cause: err}
	}

	return parsed.Tokens, nil
}
