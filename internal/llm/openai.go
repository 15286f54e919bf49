package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client and Embedder using the official OpenAI SDK.
// Setting Config.BaseURL targets any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for openai")
	}
	if config == nil {
		config = DefaultOpenAIConfig()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAIClient{
		client: &client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, tier, []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)})
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, tier, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("Respond with a single valid JSON value and nothing else."),
		openai.UserMessage(prompt),
	})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Chat continues a conversation and returns the next assistant turn
func (c *OpenAIClient) Chat(ctx context.Context, system string, messages []Message, tier ModelTier) (string, error) {
	systemPrompt, history, last, err := prepareChat(system, messages)
	if err != nil {
		return "", err
	}

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if systemPrompt != "" {
		params = append(params, openai.SystemMessage(systemPrompt))
	}
	for _, m := range append(history, last) {
		if m.Role == RoleAssistant {
			params = append(params, openai.AssistantMessage(m.Content))
		} else {
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	return c.complete(ctx, tier, params)
}

// Embed returns the embedding of text, asking the API for the given dimensions when positive
func (c *OpenAIClient) Embed(ctx context.Context, model, text string, dimensions int) ([]float64, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	}
	if dimensions > 0 {
		params.Dimensions = openai.Int(int64(dimensions))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, &APICallError{Provider: ProviderOpenAI, Message: "create embedding", Cause: err}
	}
	if len(resp.Data) == 0 {
		return nil, &ParseError{Message: "no embedding in response"}
	}

	return resp.Data[0].Embedding, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Provider returns ProviderOpenAI
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Close is a no-op; the SDK holds no long-lived resources
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) complete(ctx context.Context, tier ModelTier, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(modelName),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(c.config.maxTokens())),
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", &APICallError{Provider: ProviderOpenAI, Message: "chat completion", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ParseError{Message: "no choices in response"}
	}

	return resp.Choices[0].Message.Content, nil
}
