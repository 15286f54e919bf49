// Package embedding turns text into fixed-length vectors. Every provider returns a
// vector of its configured dimension; the all-zero vector means "no embedding".
package embedding

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/logger"
)

// DefaultDimension is the vector length used when none is configured.
const DefaultDimension = 384

// Vector is an embedding.
type Vector []float64

// Zero returns the all-zero vector of length dim.
func Zero(dim int) Vector {
	if dim < 0 {
		dim = 0
	}
	return make(Vector, dim)
}

// IsZero reports whether v carries no embedding: empty or all zeros.
func IsZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Resize truncates or zero-pads v to dim.
func Resize(v []float64, dim int) Vector {
	out := Zero(dim)
	copy(out, v)
	return out
}

// Provider is the embedding capability.
type Provider interface {
	Available() bool
	Embed(ctx context.Context, text string) Vector
	Dimension() int
	Model() string
}

// Unavailable is the provider used when no embedding model is configured.
type Unavailable struct {
	dim int
}

// NewUnavailable returns an Unavailable provider of the given dimension.
func NewUnavailable(dim int) Unavailable {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return Unavailable{dim: dim}
}

// Available reports false.
func (u Unavailable) Available() bool { return false }

// Embed returns the zero vector.
func (u Unavailable) Embed(context.Context, string) Vector { return Zero(u.Dimension()) }

// Dimension returns the vector length.
func (u Unavailable) Dimension() int {
	if u.dim <= 0 {
		return DefaultDimension
	}
	return u.dim
}

// Model returns an empty name.
func (u Unavailable) Model() string { return "" }

// ModelProvider embeds text with an LLM provider's embedding model.
type ModelProvider struct {
	backend llm.Embedder
	model   string
	dim     int
	logger  *zap.Logger
}

// NewModelProvider wraps backend. A non-positive dim selects DefaultDimension.
func NewModelProvider(backend llm.Embedder, model string, dim int, log *zap.Logger) *ModelProvider {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &ModelProvider{
		backend: backend,
		model:   model,
		dim:     dim,
		logger:  logger.OrNop(log).Named("embedding"),
	}
}

// Available reports whether a backend is configured.
func (p *ModelProvider) Available() bool {
	return p != nil && p.backend != nil
}

// Dimension returns the vector length.
func (p *ModelProvider) Dimension() int { return p.dim }

// Model returns the embedding model name.
func (p *ModelProvider) Model() string { return p.model }

// Embed returns the embedding of text resized to Dimension. Blank text and backend
// failures yield the zero vector.
func (p *ModelProvider) Embed(ctx context.Context, text string) Vector {
	if !p.Available() || strings.TrimSpace(text) == "" {
		return Zero(p.dim)
	}

	values, err := p.backend.Embed(ctx, p.model, text, p.dim)
	if err != nil {
		p.logger.Warn("embedding failed, using zero vector", zap.String("model", p.model), zap.Error(err))
		return Zero(p.dim)
	}

	for _, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			p.logger.Warn("embedding contains non-finite values, using zero vector", zap.String("model", p.model))
			return Zero(p.dim)
		}
	}

	if len(values) != p.dim {
		p.logger.Debug("resizing embedding", zap.Int("got", len(values)), zap.Int("want", p.dim))
	}
	return Resize(values, p.dim)
}
