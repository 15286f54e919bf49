// Package assistant answers career and hiring questions by passing conversations to a
// text-generation model, with a canned reply when no model is configured.
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/prompts"
	"github.com/jonathan/jobmatch/internal/types"
)

// questionPreview is how much of the last question the canned reply quotes.
const questionPreview = 80

// Assistant is the text-generation capability.
type Assistant interface {
	Available() bool
	Reply(ctx context.Context, messages []types.ChatMessage, userRole string) string
	Model() string
}

// Canned is the assistant used when no model is configured. It echoes the start of
// the last user message.
type Canned struct{}

// Available reports false.
func (Canned) Available() bool { return false }

// Model returns an empty name.
func (Canned) Model() string { return "" }

// Reply returns the fallback reply.
func (Canned) Reply(_ context.Context, messages []types.ChatMessage, _ string) string {
	return FallbackReply(messages)
}

// FallbackReply quotes the first characters of the last user message.
func FallbackReply(messages []types.ChatMessage) string {
	question := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			question = messages[i].Content
			break
		}
	}
	if runes := []rune(question); len(runes) > questionPreview {
		question = string(runes[:questionPreview])
	}

	reply, err := prompts.Render(prompts.AssistantFile, "fallback-reply", map[string]string{"Question": question})
	if err != nil {
		return "Thanks for your question about: '" + question + "...'."
	}
	return reply
}

// SystemPrompt returns the system prompt for a user role.
func SystemPrompt(userRole string) string {
	key := "system-default"
	switch strings.ToLower(userRole) {
	case types.RoleCandidate:
		key = "system-candidate"
	case types.RoleRecruiter:
		key = "system-recruiter"
	}
	prompt, err := prompts.Get(prompts.AssistantFile, key)
	if err != nil {
		return ""
	}
	return prompt
}

// LLMAssistant replies with a standard-tier model.
type LLMAssistant struct {
	client llm.Client
	logger *zap.Logger
}

// NewLLMAssistant wraps client as an Assistant.
func NewLLMAssistant(client llm.Client, log *zap.Logger) *LLMAssistant {
	return &LLMAssistant{client: client, logger: logger.OrNop(log).Named("assistant")}
}

// Available reports whether a client is configured.
func (a *LLMAssistant) Available() bool {
	return a != nil && a.client != nil
}

// Model returns the model used for replies.
func (a *LLMAssistant) Model() string {
	if !a.Available() {
		return ""
	}
	return a.client.GetModel(llm.TierStandard)
}

// Reply sends the conversation with the role's system prompt. Model failures fall back
// to the canned reply.
func (a *LLMAssistant) Reply(ctx context.Context, messages []types.ChatMessage, userRole string) string {
	if !a.Available() {
		return FallbackReply(messages)
	}

	conversation := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		conversation = append(conversation, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := a.client.Chat(ctx, SystemPrompt(userRole), conversation, llm.TierStandard)
	if err != nil {
		a.logger.Warn("assistant model failed, using fallback reply", zap.Error(err))
		return FallbackReply(messages)
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply(messages)
	}
	return strings.TrimSpace(reply)
}
