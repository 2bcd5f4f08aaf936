package api

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/reporter"
	"github.com/RowanDark/0xcrack/internal/service"
)

// DecryptResponse carries the output of a known-key transform.
type DecryptResponse struct {
	Output string `json:"output"`
}

// DetectRequest asks for family suggestions.
type DetectRequest struct {
	Input string `json:"input"`
}

// DetectResponse lists suggestions, most confident first.
type DetectResponse struct {
	Detections []cipher.DetectionResult `json:"detections"`
}

func (s *Server) handleCiphers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ciphers": s.svc.Ciphers()})
}

func (s *Server) handleCrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req service.CrackRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	result, err := s.svc.Crack(ctx, req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reporter.NewReport(result))
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req service.TransformRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.svc.Transform(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DecryptResponse{Output: out})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req DetectRequest
	if !s.decode(w, r, &req) {
		return
	}
	detections, err := s.svc.Detect(r.Context(), req.Input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DetectResponse{Detections: detections})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	opts := history.ListOptions{}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("family")); raw != "" {
		family, err := crack.ParseFamily(raw)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		opts.Family = family
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}

	runs, err := s.svc.Runs(r.Context(), opts)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean(r.URL.Path)
	id := strings.TrimPrefix(strings.TrimPrefix(clean, "/api/v1/runs"), "/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
	case http.MethodDelete:
		if err := s.svc.DeleteRun(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.svc.Run(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reporter.NewReport(result))
}

// writeServiceError maps service errors to status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, crack.ErrUnknownFamily):
		status = http.StatusBadRequest
	case errors.Is(err, cipher.ErrUnknownOperation):
		status = http.StatusBadRequest
	case errors.Is(err, cipher.ErrInvalidKey), errors.Is(err, cipher.ErrKeyMismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, history.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrHistoryDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeError(w, status, err.Error())
}
