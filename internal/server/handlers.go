package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ia-solution/cybercrim/internal/report"
	"github.com/ia-solution/cybercrim/internal/scanner"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":    "CyberCrim scan demo",
		"disclaimer": "Simulation only. No real scanning is performed.",
		"endpoints": []string{
			"POST /api/scans",
			"GET /api/scans/{id}",
			"GET /api/scans/{id}/results",
			"DELETE /api/scans/{id}",
			"POST /api/reports",
			"GET /reports/{filename}",
			"GET /ws",
		},
	})
}

// --- Scan API ---

func (s *Server) handleAPIScans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		TargetURL string `json:"target_url"`
		UserAgent string `json:"user_agent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.TargetURL = strings.TrimSpace(req.TargetURL)
	if req.TargetURL == "" {
		writeError(w, http.StatusBadRequest, "target_url is required")
		return
	}
	if _, err := url.ParseRequestURI(req.TargetURL); err != nil {
		writeError(w, http.StatusBadRequest, "target_url is not a valid URL")
		return
	}

	id := s.engine.StartScan(req.TargetURL, req.UserAgent)
	snap, err := s.engine.Status(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleAPIScan(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/scans/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "missing scan id")
		return
	}

	parts := strings.SplitN(idStr, "/", 2)
	id := parts[0]

	if len(parts) > 1 {
		if parts[1] == "results" && r.Method == http.MethodGet {
			s.handleAPIScanResults(w, id)
			return
		}
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		snap, err := s.engine.Status(id)
		if errors.Is(err, scanner.ErrScanNotFound) {
			writeError(w, http.StatusNotFound, "scan not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, snap)

	case http.MethodDelete:
		s.engine.CancelScan(id)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAPIScanResults(w http.ResponseWriter, id string) {
	findings, err := s.engine.Results(id)
	switch {
	case errors.Is(err, scanner.ErrScanNotFound):
		writeError(w, http.StatusNotFound, "scan not found")
	case errors.Is(err, scanner.ErrScanNotReady):
		writeError(w, http.StatusConflict, "scan is not complete")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		if findings == nil {
			findings = []scanner.Finding{}
		}
		writeJSON(w, http.StatusOK, findings)
	}
}

// --- Report API ---

func (s *Server) handleAPIReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ScanID string `json:"scan_id"`
		Format string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ScanID == "" {
		writeError(w, http.StatusBadRequest, "scan_id is required")
		return
	}
	if req.Format == "" {
		req.Format = "json"
	}
	if req.Format != "json" && req.Format != "pdf" {
		writeError(w, http.StatusBadRequest, "format must be 'json' or 'pdf'")
		return
	}

	snap, err := s.engine.Status(req.ScanID)
	if errors.Is(err, scanner.ErrScanNotFound) {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	if snap.Status != scanner.StatusCompleted {
		writeError(w, http.StatusConflict, "scan is not complete")
		return
	}

	var path string
	switch req.Format {
	case "json":
		path, err = s.reportGen.WriteJSON(snap, "scan_report_"+snap.ID)
	case "pdf":
		path, err = s.reportGen.WritePDF(snap, "scan_report_"+snap.ID)
	}

	if errors.Is(err, report.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "PDF export is unavailable; use format 'json' instead")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"scan_id":  snap.ID,
		"format":   req.Format,
		"filename": filepath.Base(path),
		"path":     path,
	})
}

func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/reports/")
	if name == "" || name != filepath.Base(name) {
		writeError(w, http.StatusBadRequest, "invalid report filename")
		return
	}

	path := filepath.Join(s.cfg.Reports.Directory, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "report file not found")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	http.ServeFile(w, r, path)
}
