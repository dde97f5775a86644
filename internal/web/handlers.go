package web

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is the body allowance on top of the file size for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryResponse is the body of GET .../catalog/imports.
type HistoryResponse struct {
	TenantID string           `json:"tenantId"`
	Imports  []core.ImportRun `json:"imports"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string                   `json:"status"`
	Imports core.ImportLimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:  "ok",
		Imports: s.service.LimiterStatus(),
	})
}

// handleImport runs a catalog import and returns the recorded run.
// Partial imports are a 200; per-entity failures are in the run's summary.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	fileName, body, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	defer body.Close()

	logger := logging.WithFields(r.Context(), "tenant_id", tenantID, "file", fileName)
	logger.Info("catalog import requested")

	run, err := s.service.Import(r.Context(), tenantID, fileName, body)
	if err != nil {
		s.respondError(w, r, err, run)
		return
	}

	logger.Info("catalog import finished",
		"import_id", run.ID,
		"status", run.Status,
		"nodes_persisted", run.Summary.NodesPersisted,
		"error_count", run.Summary.ErrorCount,
	)
	writeJSON(w, run)
}

// handleAnalyze previews an export without writing anything.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	fileName, body, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	defer body.Close()

	analysis, err := s.service.Analyze(r.Context(), fileName, body)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "REQ003")
			return
		}
		limit = n
	}

	runs, err := s.service.History(r.Context(), tenantID, limit)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	if runs == nil {
		runs = []core.ImportRun{}
	}
	writeJSON(w, HistoryResponse{TenantID: tenantID, Imports: runs})
}

// readUpload returns the export's file name and content. Multipart requests
// carry the export in the "file" field; anything else is the raw export, named
// by the "filename" query parameter.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartOverhead)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return "", nil, core.ErrNoFile
			}
			return "", nil, err
		}
		return header.Filename, file, nil
	}

	if r.ContentLength == 0 {
		return "", nil, core.ErrNoFile
	}
	return rawFileName(r), r.Body, nil
}

func rawFileName(r *http.Request) string {
	name := filepath.Base(strings.TrimSpace(r.URL.Query().Get("filename")))
	if name == "." || name == "/" {
		name = ""
	}
	if name != "" && filepath.Ext(name) != "" {
		return name
	}
	if name == "" {
		name = "catalog"
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), xlsxContentType) {
		return name + ".xlsx"
	}
	return name + ".csv"
}
