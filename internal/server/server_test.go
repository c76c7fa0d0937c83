package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/enterstudio/botimport/internal/importer"
	"github.com/enterstudio/botimport/internal/store"
	"github.com/enterstudio/botimport/internal/testutil"
)

func postArchive(t *testing.T, srv *Server, zipPath string) *httptest.ResponseRecorder {
	t.Helper()

	data, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/backup/import", bytes.NewReader(data))
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, req)
	return recorder
}

func TestImportEndpointSuccess(t *testing.T) {
	fake := testutil.NewFakeStore(t)
	defer fake.Close()

	b := testutil.NewTempBundle(t)
	defer b.Cleanup()
	testutil.SimpleBotBundle(b, "bot1", "pkg1")

	srv := New(importer.New(store.NewClient(fake.URL())), t.TempDir(), 0)

	recorder := postArchive(t, srv, b.Zip())

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	location := recorder.Header().Get("Location")
	if !strings.HasPrefix(location, "config://bots/") {
		t.Errorf("expected bot reference in Location, got %q", location)
	}

	var results []importer.Result
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	if len(results) != 1 || results[0].Failed() {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestImportEndpointPipelineFailure(t *testing.T) {
	fake := testutil.NewFakeStore(t)
	defer fake.Close()

	b := testutil.NewTempBundle(t)
	defer b.Cleanup()
	// Bot references a package directory that does not exist.
	b.AddBot("bot1", "config://packages/ghost?version=1")

	srv := New(importer.New(store.NewClient(fake.URL())), t.TempDir(), 0)

	recorder := postArchive(t, srv, b.Zip())

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestImportEndpointBadArchive(t *testing.T) {
	fake := testutil.NewFakeStore(t)
	defer fake.Close()

	srv := New(importer.New(store.NewClient(fake.URL())), t.TempDir(), 0)

	req := httptest.NewRequest(http.MethodPost, "/backup/import", strings.NewReader("not a zip"))
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for invalid archive, got %d", recorder.Code)
	}
}

func TestImportEndpointMethodNotAllowed(t *testing.T) {
	fake := testutil.NewFakeStore(t)
	defer fake.Close()

	srv := New(importer.New(store.NewClient(fake.URL())), t.TempDir(), 0)

	req := httptest.NewRequest(http.MethodGet, "/backup/import", nil)
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}

func TestImportEndpointTimeout(t *testing.T) {
	// A destination that never answers in time forces the handler onto
	// its deadline while the pipeline keeps running.
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer slow.Close()

	b := testutil.NewTempBundle(t)
	defer b.Cleanup()
	testutil.SimpleBotBundle(b, "bot1", "pkg1")

	srv := New(importer.New(store.NewClient(slow.URL)), t.TempDir(), 20*time.Millisecond)

	recorder := postArchive(t, srv, b.Zip())

	if recorder.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", recorder.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	fake := testutil.NewFakeStore(t)
	defer fake.Close()

	srv := New(importer.New(store.NewClient(fake.URL())), t.TempDir(), 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	fake := testutil.NewFakeStore(t)
	defer fake.Close()

	srv := New(importer.New(store.NewClient(fake.URL())), t.TempDir(), 0)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}
