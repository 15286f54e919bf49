// Package mcptools exposes the analysis, matching and salary operations as MCP tools
// served over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/capabilities"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/types"
)

// ServerName is announced to MCP clients.
const ServerName = "jobmatch"

// Tools holds the handlers behind each registered tool.
type Tools struct {
	providers *capabilities.Providers
	logger    *zap.Logger
}

// NewServer creates an MCP server with every tool registered.
func NewServer(providers *capabilities.Providers, version string, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))
	Register(s, providers, log)
	return s
}

// Serve runs the MCP server on stdin/stdout until the client disconnects.
func Serve(providers *capabilities.Providers, version string, log *zap.Logger) error {
	return server.ServeStdio(NewServer(providers, version, log))
}

// Register adds the tools to s.
func Register(s *server.MCPServer, providers *capabilities.Providers, log *zap.Logger) {
	t := &Tools{providers: providers, logger: logger.OrNop(log).Named("mcp")}

	analyze := mcp.NewTool("analyze_text",
		mcp.WithDescription("Extract skills, years of experience and an embedding from a resume or job description"),
	)
	analyze.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"text": map[string]any{"type": "string", "description": "Resume or job description text"},
			"path": map[string]any{"type": "string", "description": "Path to a .pdf, .docx, .html, .txt or .md file, used when text is empty"},
		},
	}
	s.AddTool(analyze, t.AnalyzeText)

	compare := mcp.NewTool("compare_resume",
		mcp.WithDescription("Score a resume against a job description and list missing skills"),
	)
	compare.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"resumeText":     map[string]any{"type": "string", "description": "The resume text"},
			"jobDescription": map[string]any{"type": "string", "description": "The job description text"},
		},
		Required: []string{"resumeText", "jobDescription"},
	}
	s.AddTool(compare, t.CompareResume)

	match := mcp.NewTool("calculate_match",
		mcp.WithDescription("Blend embedding similarity and skill overlap into a match score"),
	)
	match.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"jobEmbedding":       numberArray("Job embedding"),
			"candidateEmbedding": numberArray("Candidate embedding"),
			"jobSkills":          stringArray("Skills the job asks for"),
			"candidateSkills":    stringArray("Skills the candidate has"),
		},
		Required: []string{"jobEmbedding", "candidateEmbedding"},
	}
	s.AddTool(match, t.CalculateMatch)

	salary := mcp.NewTool("predict_salary",
		mcp.WithDescription("Estimate a salary band from role, experience, skills and location"),
	)
	salary.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"role":       map[string]any{"type": "string", "description": "Job title"},
			"experience": map[string]any{"type": "number", "description": "Years of experience"},
			"skills":     stringArray("Relevant skills"),
			"location":   map[string]any{"type": "string", "description": "City or region"},
		},
	}
	s.AddTool(salary, t.PredictSalary)

	profile := mcp.NewTool("match_profile",
		mcp.WithDescription("Match a stored candidate or job against every stored profile of the other kind and persist the suggestions"),
	)
	profile.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"kind": map[string]any{"type": "string", "enum": []string{"candidate", "job"}, "description": "Profile kind"},
			"id":   map[string]any{"type": "string", "description": "Profile id"},
		},
		Required: []string{"kind", "id"},
	}
	s.AddTool(profile, t.MatchProfile)
}

// AnalyzeText handles analyze_text.
func (t *Tools) AnalyzeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	text := stringArg(args, "text")
	if strings.TrimSpace(text) == "" {
		if path := stringArg(args, "path"); path != "" {
			decoded, err := ingestion.ReadFile(path)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to read %s: %v", path, err)), nil
			}
			text = decoded
		}
	}

	result := t.providers.Analysis.Analyze(ctx, text)
	if result.Error != "" {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// CompareResume handles compare_resume.
func (t *Tools) CompareResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	result := t.providers.Analysis.Compare(ctx, stringArg(args, "resumeText"), stringArg(args, "jobDescription"))
	if result.Error != "" {
		return mcp.NewToolResultError(result.Error), nil
	}
	return jsonResult(result)
}

// CalculateMatch handles calculate_match.
func (t *Tools) CalculateMatch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.providers.Embedding.Available() {
		return mcp.NewToolResultError("embedding capability is unavailable"), nil
	}
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	jobEmbedding, err := floatsArg(args, "jobEmbedding")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	candidateEmbedding, err := floatsArg(args, "candidateEmbedding")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(ranking.Match(jobEmbedding, candidateEmbedding, stringsArg(args, "jobSkills"), stringsArg(args, "candidateSkills")))
}

// PredictSalary handles predict_salary.
func (t *Tools) PredictSalary(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	req := types.SalaryRequest{
		Role:     stringArg(args, "role"),
		Skills:   stringsArg(args, "skills"),
		Location: stringArg(args, "location"),
	}
	if v, ok := args["experience"].(float64); ok {
		req.Experience = v
	}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid request: %v", err)), nil
	}
	return jsonResult(t.providers.Salary.Predict(req))
}

// MatchProfile handles match_profile.
func (t *Tools) MatchProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	kind := types.ProfileKind(stringArg(args, "kind"))
	id := stringArg(args, "id")
	if !kind.Valid() || id == "" {
		return mcp.NewToolResultError("kind must be candidate or job and id is required"), nil
	}

	summary, err := t.providers.Matcher.Run(ctx, kind, id, nil)
	if err != nil {
		t.log().Warn("match_profile failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Failed to match %s %s: %v", kind, id, err)), nil
	}
	return jsonResult(summary)
}

func (t *Tools) log() *zap.Logger {
	return logger.OrNop(t.logger)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func numberArray(description string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "number"}, "description": description}
}

func stringArray(description string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": description}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// stringsArg collects the string entries of an array argument.
func stringsArg(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func floatsArg(args map[string]any, key string) ([]float64, error) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers", key)
	}
	out := make([]float64, len(raw))
	for i, item := range raw {
		f, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a number", key, i)
		}
		out[i] = f
	}
	return out, nil
}
