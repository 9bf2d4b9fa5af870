package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/ai"
	"github.com/spigell/cv-matcher/internal/extract"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/sections"
)

type errorResponse struct {
	Error string `json:"error"`
}

type uploadCVResponse struct {
	RawText  string        `json:"raw_text"`
	Sections *sections.Map `json:"sections"`
}

// matchRequest accepts either bare section maps or the {"sections": ...}
// wrapper returned by /upload_cv.
type matchRequest struct {
	JobSections json.RawMessage `json:"job_sections"`
	CVSections  json.RawMessage `json:"cv_sections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("multipart field \"file\" is required: %w", err))
		return
	}
	defer file.Close()

	log := logger.ForDocument(s.logger, "cv", header.Filename).
		With(zap.String(logger.FieldRequestID, middleware.GetReqID(r.Context())))

	if !extract.Supported(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s", extract.ErrUnsupportedType, header.Filename))
		return
	}

	path, err := s.stage(file, header.Filename)
	if err != nil {
		log.Error("failed to stage upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("failed to store upload"))
		return
	}
	log.Debug("upload staged", zap.String("path", path))

	text, err := extract.File(path)
	if err != nil {
		if !errors.Is(err, extract.ErrNoText) {
			log.Warn("text extraction failed", zap.Error(err))
		}
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	m, err := s.engine.ParseCV(r.Context(), text)
	if err != nil {
		log.Error("cv parsing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadCVResponse{RawText: text, Sections: m})
}

func (s *Server) handleUploadJob(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("text")
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("form field \"text\" is required"))
		return
	}

	m, err := s.engine.ParseJob(r.Context(), text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if s.assessor == nil {
		writeError(w, http.StatusServiceUnavailable, ai.ErrDisabled)
		return
	}

	job, cv, err := decodeMatchRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	assessment, err := s.assessor.Assess(r.Context(), ai.Request{
		Job:      job,
		CV:       cv,
		Keywords: s.engine.Whitelist().Displays(),
	})
	if err != nil {
		s.logger.Error("llm assessment failed",
			zap.String(logger.FieldRequestID, middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	job, cv, err := decodeMatchRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.engine.Match(r.Context(), job, cv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// stage copies an upload into the upload directory under a unique name that keeps the extension.
func (s *Server) stage(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.uploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func decodeMatchRequest(body io.Reader) (*sections.Map, *sections.Map, error) {
	var req matchRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, nil, fmt.Errorf("invalid request body: %w", err)
	}

	job, err := decodeSections("job_sections", req.JobSections)
	if err != nil {
		return nil, nil, err
	}
	cv, err := decodeSections("cv_sections", req.CVSections)
	if err != nil {
		return nil, nil, err
	}
	return job, cv, nil
}

func decodeSections(field string, raw json.RawMessage) (*sections.Map, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%s is required", field)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", field, err)
	}
	if inner, ok := wrapper["sections"]; ok && bytes.HasPrefix(bytes.TrimSpace(inner), []byte("{")) {
		raw = inner
	}

	m := sections.NewMap()
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return m, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
