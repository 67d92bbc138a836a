package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cleanbot/internal/config"
	"cleanbot/internal/report"
)

const sampleCSV = "name,score\nAlice,10\nBob,12\nAlice,10\nCarol,NA\n"

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.Default(), log, opts...)
}

// multipartBody builds a multipart request body with one file field.
func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cleanbot") {
		t.Errorf("index body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestCleanSuccess(t *testing.T) {
	srv := newTestServer(t, WithGenerator(func(ctx context.Context, in report.Input) (string, error) {
		return "generated narrative", nil
	}))

	body, ctype := multipartBody(t, "file", "data.csv", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/clean", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp cleanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false: %s", resp.Message)
	}
	if resp.AIReport != "generated narrative" {
		t.Errorf("ai_report = %q", resp.AIReport)
	}
	if resp.Summary == nil {
		t.Fatal("summary missing")
	}
	if resp.Summary.OriginalRows != 4 || resp.Summary.CleanedRows != 3 {
		t.Errorf("summary rows = %d/%d, want 4/3", resp.Summary.OriginalRows, resp.Summary.CleanedRows)
	}
	if len(resp.Steps) != 6 {
		t.Errorf("steps = %d, want 6", len(resp.Steps))
	}

	cleaned, err := base64.StdEncoding.DecodeString(resp.CleanedCSVBase64)
	if err != nil {
		t.Fatalf("cleaned_csv_base64: %v", err)
	}
	if !strings.HasPrefix(string(cleaned), "name,score\n") {
		t.Errorf("cleaned CSV header wrong: %q", cleaned)
	}
	// Duplicate Alice row dropped, Carol's NA imputed with the median.
	if strings.Count(string(cleaned), "alice") != 1 {
		t.Errorf("cleaned CSV should keep one alice row: %q", cleaned)
	}

	script, err := base64.StdEncoding.DecodeString(resp.CleaningScriptB64)
	if err != nil {
		t.Fatalf("cleaning_script_base64: %v", err)
	}
	if !strings.Contains(string(script), "import pandas as pd") {
		t.Errorf("script payload wrong: %q", script[:min(len(script), 80)])
	}
}

func TestCleanFallbackReportWithoutGenerator(t *testing.T) {
	srv := newTestServer(t)
	body, ctype := multipartBody(t, "file", "data.csv", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/clean", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp cleanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.AIReport, "Data Cleaning Report") {
		t.Errorf("expected deterministic report, got %q", resp.AIReport)
	}
}

func TestCleanRejections(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		field    string
		filename string
		content  string
		want     int
	}{
		{"wrong method", http.MethodGet, "file", "data.csv", sampleCSV, http.StatusMethodNotAllowed},
		{"wrong field name", http.MethodPost, "upload", "data.csv", sampleCSV, http.StatusBadRequest},
		{"non-csv extension", http.MethodPost, "file", "data.xlsx", sampleCSV, http.StatusBadRequest},
		{"empty file", http.MethodPost, "file", "data.csv", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ctype := multipartBody(t, tt.field, tt.filename, tt.content)
			req := httptest.NewRequest(tt.method, "/clean", body)
			req.Header.Set("Content-Type", ctype)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
			var resp cleanResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success {
				t.Error("success must be false on rejection")
			}
		})
	}
}

func TestCleanUppercaseExtensionAccepted(t *testing.T) {
	srv := newTestServer(t)
	body, ctype := multipartBody(t, "file", "DATA.CSV", sampleCSV)
	req := httptest.NewRequest(http.MethodPost, "/clean", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}
