// Package server exposes the cleaning pipeline over HTTP.
//
// Routes:
//
//	GET  /        → service info
//	GET  /health  → liveness probe
//	POST /clean   → multipart CSV upload; returns cleaned data, replay
//	                script and narrative report as JSON
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cleanbot/internal/config"
	"cleanbot/internal/history"
	"cleanbot/internal/pipeline"
	"cleanbot/internal/report"
	"cleanbot/internal/script"
)

// Server wraps http.Server for convenience.
type Server struct {
	cfg     config.Config
	mux     *http.ServeMux
	log     *slog.Logger
	gen     report.Generator
	history *history.Store
}

// Option customizes a Server.
type Option func(*Server)

// WithGenerator installs the narrative report generator. Without one the
// server always answers with the deterministic report.
func WithGenerator(gen report.Generator) Option {
	return func(s *Server) { s.gen = gen }
}

// WithHistory installs the run-history store. History failures are logged
// and never fail a cleaning request.
func WithHistory(st *history.Store) Option {
	return func(s *Server) { s.history = st }
}

// New constructs a Server with routes registered.
func New(cfg config.Config, log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		log: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the route mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the HTTP server and blocks until ctx is canceled
// or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", s.cfg.Addr)
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errc:
		return err
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/clean", s.handleClean)
}

// cleanResponse is the /clean reply. Binary payloads travel base64 so the
// whole response stays one JSON document.
type cleanResponse struct {
	Success           bool              `json:"success"`
	Message           string            `json:"message"`
	CleanedCSVBase64  string            `json:"cleaned_csv_base64,omitempty"`
	CleaningScriptB64 string            `json:"cleaning_script_base64,omitempty"`
	AIReport          string            `json:"ai_report,omitempty"`
	Summary           *pipeline.Summary `json:"summary,omitempty"`
	Steps             []pipeline.Step   `json:"steps,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "cleanbot",
		"message": "POST a CSV to /clean",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleClean runs the full pipeline on one uploaded CSV.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing multipart field \"file\"")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "only .csv files are accepted")
		return
	}

	start := time.Now()
	res, err := pipeline.New().Run(file)
	if err != nil {
		s.log.Error("clean failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cleanedCSV, err := res.Cleaned.MarshalCSV()
	if err != nil {
		s.log.Error("encode failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to encode cleaned data")
		return
	}
	replay, err := script.Render(res.Steps, res.Cleaned.Columns)
	if err != nil {
		s.log.Error("script render failed", "file", header.Filename, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render cleaning script")
		return
	}

	narrative := report.Generate(r.Context(), s.gen, s.cfg.Report.Timeout(), report.Input{
		Original: report.Stats{
			Rows:         res.Summary.OriginalRows,
			Columns:      res.Summary.Columns,
			MissingTotal: res.Original.MissingTotal(),
		},
		Cleaned: report.Stats{
			Rows:         res.Summary.CleanedRows,
			Columns:      res.Summary.Columns,
			MissingTotal: res.Cleaned.MissingTotal(),
		},
		Columns: res.Cleaned.Columns,
		Steps:   res.Steps,
		Summary: res.Summary,
	})

	if s.history != nil {
		if err := s.history.Record(r.Context(), header.Filename, res.Summary); err != nil {
			s.log.Warn("history record failed", "file", header.Filename, "err", err)
		}
	}

	s.log.Info("cleaned",
		"file", header.Filename,
		"rows_in", res.Summary.OriginalRows,
		"rows_out", res.Summary.CleanedRows,
		"duration", time.Since(start))

	writeJSON(w, http.StatusOK, cleanResponse{
		Success:           true,
		Message:           "cleaning complete",
		CleanedCSVBase64:  base64.StdEncoding.EncodeToString(cleanedCSV),
		CleaningScriptB64: base64.StdEncoding.EncodeToString(replay),
		AIReport:          narrative,
		Summary:           &res.Summary,
		Steps:             res.Steps,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, cleanResponse{Success: false, Message: msg})
}
