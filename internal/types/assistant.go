package types

import "github.com/go-playground/validator/v10"

// User roles carried in tokens and assistant requests.
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
)

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest asks the assistant for its next reply.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=100,dive"`
	UserRole string        `json:"userRole,omitempty" validate:"omitempty,oneof=candidate recruiter"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ModelStatus reports which optional capabilities are loaded.
type ModelStatus struct {
	Embedding bool `json:"embedding"`
	Entities  bool `json:"entities"`
	Assistant bool `json:"assistant"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string      `json:"status"`
	Service string      `json:"service"`
	Models  ModelStatus `json:"models"`
	Store   string      `json:"store"`
}
