package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/opencitizen/welfare-assistant/apimodels"
	"github.com/opencitizen/welfare-assistant/internal/orchestrator"
)

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req apimodels.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	slog.Debug("received query request", "tags", req.Tags, "environment", req.Environment)

	result, err := s.orchestrator.HandleQuery(r.Context(), &req)
	if err != nil {
		var pipelineErr *orchestrator.PipelineError
		if errors.As(err, &pipelineErr) {
			slog.Warn("query rejected", "status", pipelineErr.Status, "error", err)
			writeError(w, pipelineErr.Status, pipelineErr.Message)
			return
		}
		// operational detail stays in the logs; users see a generic failure
		slog.Error("query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to answer the question, please retry later")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Status: status, Message: message})
}
