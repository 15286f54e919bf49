package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client using the official Anthropic SDK.
// Anthropic serves no embedding models, so it does not implement Embedder.
type AnthropicClient struct {
	client *anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for anthropic")
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicClient{
		client: &client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.send(ctx, tier, "", []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
}

// GenerateJSON generates JSON content using the specified model tier
func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.send(ctx, tier, "Respond with a single valid JSON value and nothing else.", []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Chat continues a conversation and returns the next assistant turn
func (c *AnthropicClient) Chat(ctx context.Context, system string, messages []Message, tier ModelTier) (string, error) {
	systemPrompt, history, last, err := prepareChat(system, messages)
	if err != nil {
		return "", err
	}

	params := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range append(history, last) {
		if m.Role == RoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		} else {
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return c.send(ctx, tier, systemPrompt, params)
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Provider returns ProviderAnthropic
func (c *AnthropicClient) Provider() Provider {
	return ProviderAnthropic
}

// Close is a no-op; the SDK holds no long-lived resources
func (c *AnthropicClient) Close() error {
	return nil
}

func (c *AnthropicClient) send(ctx context.Context, tier ModelTier, system string, messages []anthropic.MessageParam) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: int64(c.config.maxTokens()),
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: system},
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &APICallError{Provider: ProviderAnthropic, Message: "create message", Cause: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &ParseError{Message: "no text blocks in response"}
	}

	return sb.String(), nil
}
