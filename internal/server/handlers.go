package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/export"
	"github.com/Veraticus/tally/internal/grid"
	"github.com/Veraticus/tally/internal/hints"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	tax := s.processor.Taxonomy()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"documents":  tax.Documents(),
		"categories": tax.Categories(),
		"chart":      tax.Chart(),
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "xlsx" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unsupported output format %q", format))
		return
	}

	maxSize := s.config.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "failed to read upload")
		return
	}

	var labels []model.LabelHint
	if raw := r.FormValue("hints"); raw != "" {
		labels, err = hints.Parse([]byte(raw))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid hints")
			return
		}
	}

	if !s.acquire(r.Context()) {
		s.writeError(w, r, http.StatusServiceUnavailable, "server busy, try again later")
		return
	}
	defer s.release()

	result, err := s.process(r, header.Filename, data, labels)
	if err != nil {
		s.writeProcessError(w, r, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID)
	if format == "xlsx" {
		s.writeWorkbook(w, r, header.Filename, result)
		return
	}
	s.writeResult(w, r, export.JSONWriter{}, "application/json", result)
}

func (s *Server) process(r *http.Request, filename string, data []byte, labels []model.LabelHint) (*model.TrialBalanceResult, error) {
	if len(labels) == 0 {
		return s.processor.ProcessFile(r.Context(), filename, data)
	}

	g, err := grid.Load(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return s.processor.ProcessGrid(r.Context(), filename, g, labels)
}

func (s *Server) writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, result *model.TrialBalanceResult) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"-tally.xlsx"))
	s.writeResult(w, r, export.NewWorkbookWriter(), xlsxContentType, result)
}

// writeResult renders into a buffer first so encoding failures still
// produce a clean error response.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, writer service.ResultWriter, contentType string, result *model.TrialBalanceResult) {
	var buf bytes.Buffer
	if err := writer.Write(&buf, result); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to render result")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *Server) writeProcessError(w http.ResponseWriter, r *http.Request, err error) {
	var userErr *common.UserError
	switch {
	case errors.Is(err, common.ErrUnsupportedFormat):
		s.writeError(w, r, http.StatusUnsupportedMediaType, "unsupported spreadsheet format")
	case errors.As(err, &userErr):
		s.writeError(w, r, http.StatusUnprocessableEntity, userErr.UserMessage)
	case r.Context().Err() != nil:
		s.writeError(w, r, http.StatusServiceUnavailable, "processing timed out")
	default:
		s.logger.Error("Processing failed", "error", err)
		s.writeError(w, r, http.StatusUnprocessableEntity, "could not read spreadsheet")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.logger.Warn("Request failed",
		"path", r.URL.Path,
		"status", status,
		"error", message)
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}
