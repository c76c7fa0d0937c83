// Package server exposes the import pipeline over HTTP. The import
// endpoint is non-blocking from the pipeline's point of view: the handler
// dispatches the pipeline and answers within a deadline, while the
// pipeline itself runs to completion regardless. A timeout response and a
// late pipeline success can therefore race; only the first outcome is
// honored by the handler, the pipeline is never cancelled.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enterstudio/botimport/internal/bundle"
	"github.com/enterstudio/botimport/internal/importer"
)

// DefaultTimeout bounds how long an import request waits for the pipeline
// before answering with a timeout.
const DefaultTimeout = 60 * time.Second

// Server handles import requests.
type Server struct {
	importer *importer.Importer
	tmpRoot  string
	timeout  time.Duration
	mux      *http.ServeMux
}

// New creates a server dispatching to the given importer. Archives are
// extracted into per-request workspaces under tmpRoot. A non-positive
// timeout falls back to DefaultTimeout.
func New(imp *importer.Importer, tmpRoot string, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	s := &Server{
		importer: imp,
		tmpRoot:  tmpRoot,
		timeout:  timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/backup/import", s.handleImport)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type importOutcome struct {
	results []importer.Result
	err     error
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	workdir, err := bundle.NewWorkdir(s.tmpRoot)
	if err != nil {
		log.Printf("import: %v", err)
		http.Error(w, "failed to prepare workspace", http.StatusInternalServerError)
		return
	}

	bundleDir, err := s.receiveArchive(r.Body, workdir)
	if err != nil {
		log.Printf("import: %v", err)
		importsFailed.Inc()
		os.RemoveAll(workdir)
		http.Error(w, "failed to extract archive", http.StatusInternalServerError)
		return
	}

	importsStarted.Inc()

	// Buffered so a late-finishing pipeline never blocks on a handler
	// that already answered with a timeout.
	done := make(chan importOutcome, 1)
	go func() {
		results, err := s.importer.ImportBundle(context.Background(), bundleDir)
		done <- importOutcome{results: results, err: err}
		os.RemoveAll(workdir)
	}()

	select {
	case outcome := <-done:
		s.respond(w, outcome)
	case <-time.After(s.timeout):
		importsTimedOut.Inc()
		http.Error(w, "import still running, gave up waiting", http.StatusGatewayTimeout)
	}
}

// receiveArchive stores the request body inside the workspace and extracts
// it, returning the extracted bundle directory.
func (s *Server) receiveArchive(body io.Reader, workdir string) (string, error) {
	archivePath := filepath.Join(workdir, "bundle.zip")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to store archive: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to store archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to store archive: %w", err)
	}

	bundleDir := filepath.Join(workdir, "bundle")
	if err := os.MkdirAll(bundleDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create bundle directory: %w", err)
	}
	if err := bundle.ExtractZip(archivePath, bundleDir); err != nil {
		return "", err
	}

	return bundleDir, nil
}

func (s *Server) respond(w http.ResponseWriter, outcome importOutcome) {
	if outcome.err != nil {
		log.Printf("import: %v", outcome.err)
		importsFailed.Inc()
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	var first *importer.Result
	for i := range outcome.results {
		result := outcome.results[i]
		for collection, count := range result.Created {
			resourcesCreated.WithLabelValues(collection).Add(float64(count))
		}
		if !result.Failed() && first == nil {
			first = &outcome.results[i]
		}
	}

	if first == nil {
		importsFailed.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(outcome.results)
		return
	}

	importsSucceeded.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", first.Bot.String())
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(outcome.results)
}
