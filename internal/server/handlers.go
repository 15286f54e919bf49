package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/jobmatch/internal/analysis"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/types"
)

// maxBodyBytes bounds request bodies; base64 inflates a 10MB upload to about 14MB.
const maxBodyBytes = 16 << 20

const msgInvalidBody = "invalid request body"

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// resultStatus maps the error message of a zeroed result to a status code.
func resultStatus(message string) int {
	switch message {
	case "":
		return http.StatusOK
	case analysis.MsgInternalFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// requestText returns the inline text when present, otherwise the decoded file.
func requestText(inline, fileName, fileBase64 string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	return ingestion.DecodeBase64(fileName, fileBase64)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, types.EmptyAnalysis(msgInvalidBody))
		return
	}
	if err := req.Validate(); err != nil {
		message := err.Error()
		if !errors.Is(err, types.ErrNoInput) {
			message = validationError(err).Error()
		}
		s.jsonResponse(w, http.StatusBadRequest, types.EmptyAnalysis(message))
		return
	}

	text, err := requestText(req.Text(), req.FileName, req.FileBase64)
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), types.EmptyAnalysis(err.Error()))
		return
	}

	result := s.providers.Analysis.Analyze(r.Context(), text)
	s.jsonResponse(w, resultStatus(result.Error), result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req types.CompareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, types.EmptyComparison(msgInvalidBody))
		return
	}
	if err := req.Validate(); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, types.EmptyComparison(analysis.MsgCompareInputs))
		return
	}

	result := s.providers.Analysis.Compare(r.Context(), req.ResumeText, req.JobDescription)
	s.jsonResponse(w, resultStatus(result.Error), result)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if !s.providers.Embedding.Available() {
		s.errorFromErr(w, r, &ErrUnavailable{Capability: "embedding"})
		return
	}

	var req types.MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, ranking.Match(req.JobEmbedding, req.CandidateEmbedding, req.JobSkills, req.CandidateSkills))
}

func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	var req types.SalaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, s.providers.Salary.Predict(req))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, r, validationError(err))
		return
	}

	reply := s.providers.Assistant.Reply(r.Context(), req.Messages, req.UserRole)
	s.jsonResponse(w, http.StatusOK, types.ChatResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Service: ServiceName,
		Models:  s.providers.Status(),
		Store:   s.providers.StoreDriver(),
	})
}
