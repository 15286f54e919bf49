package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Chat continues a conversation and returns the next assistant turn
	Chat(ctx context.Context, system string, messages []Message, tier ModelTier) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Provider identifies the backing API
	Provider() Provider
	// Close releases any resources held by the client
	Close() error
}

// Embedder is implemented by clients whose provider serves embedding models.
type Embedder interface {
	Embed(ctx context.Context, model, text string, dimensions int) ([]float64, error)
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client and Embedder for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &APICallError{Provider: ProviderGemini, Message: "generate content", Cause: err}
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &APICallError{Provider: ProviderGemini, Message: "generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// Chat sends the conversation as chat history and returns the model's next turn
func (c *GeminiClient) Chat(ctx context.Context, system string, messages []Message, tier ModelTier) (string, error) {
	systemPrompt, history, last, err := prepareChat(system, messages)
	if err != nil {
		return "", err
	}

	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	session := model.StartChat()
	for _, m := range history {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", &APICallError{Provider: ProviderGemini, Message: "send chat message", Cause: err}
	}

	return extractTextFromResponse(resp)
}

// Embed returns the embedding of text from a Gemini embedding model.
// The API picks the output size; callers resize to their own dimension.
func (c *GeminiClient) Embed(ctx context.Context, model, text string, _ int) ([]float64, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	resp, err := c.client.EmbeddingModel(model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &APICallError{Provider: ProviderGemini, Message: "embed content", Cause: err}
	}
	if resp == nil || resp.Embedding == nil {
		return nil, &ParseError{Message: "no embedding in response"}
	}

	values := make([]float64, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		values[i] = float64(v)
	}
	return values, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Provider returns ProviderGemini
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.SetMaxOutputTokens(int32(c.config.maxTokens()))
	return model, nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ParseError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ParseError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &ParseError{Message: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}

// prepareChat folds system-role messages into the system prompt and splits the
// remaining turns into history and the final message to send.
func prepareChat(system string, messages []Message) (string, []Message, Message, error) {
	prompts := make([]string, 0, 1)
	if strings.TrimSpace(system) != "" {
		prompts = append(prompts, system)
	}

	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if strings.TrimSpace(m.Content) != "" {
				prompts = append(prompts, m.Content)
			}
		case RoleAssistant:
			turns = append(turns, m)
		default:
			turns = append(turns, Message{Role: RoleUser, Content: m.Content})
		}
	}

	if len(turns) == 0 {
		return "", nil, Message{}, fmt.Errorf("conversation has no user or assistant messages")
	}

	return strings.Join(prompts, "\n\n"), turns[:len(turns)-1], turns[len(turns)-1], nil
}
