package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/enterstudio/botimport/internal/models"
	"github.com/enterstudio/botimport/internal/refs"
)

// CreateCall records one resource creation against the fake store.
type CreateCall struct {
	Collection string
	Body       string
	Assigned   refs.Reference
}

// PatchCall records one descriptor patch against the fake store.
type PatchCall struct {
	ID          string
	Version     int
	Instruction models.PatchInstruction
}

// FakeStore is an in-process destination resource store. It assigns
// sequential identifiers on creation and records every call for
// assertions.
type FakeStore struct {
	T      *testing.T
	Server *httptest.Server

	mu      sync.Mutex
	seq     int
	Creates []CreateCall
	Patches []PatchCall

	// FailCollections lists collections whose create requests are
	// rejected with a server error.
	FailCollections map[string]bool
}

// NewFakeStore starts a fake destination store.
func NewFakeStore(t *testing.T) *FakeStore {
	t.Helper()

	store := &FakeStore{
		T:               t,
		FailCollections: make(map[string]bool),
	}
	store.Server = httptest.NewServer(http.HandlerFunc(store.handle))
	return store
}

// URL returns the store's base URL.
func (s *FakeStore) URL() string {
	return s.Server.URL
}

// Close shuts the store down.
func (s *FakeStore) Close() {
	s.Server.Close()
}

func (s *FakeStore) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost:
		s.handleCreate(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/descriptors/"):
		s.handlePatch(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *FakeStore) handleCreate(w http.ResponseWriter, r *http.Request) {
	collection := strings.Trim(r.URL.Path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCollections[collection] {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.seq++
	assigned := refs.Reference{
		Collection: collection,
		ID:         fmt.Sprintf("new-%d", s.seq),
		Version:    1,
	}
	s.Creates = append(s.Creates, CreateCall{
		Collection: collection,
		Body:       string(body),
		Assigned:   assigned,
	})

	w.Header().Set("Location", assigned.String())
	w.WriteHeader(http.StatusCreated)
}

func (s *FakeStore) handlePatch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/descriptors/")
	version, err := strconv.Atoi(r.URL.Query().Get("version"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var instruction models.PatchInstruction
	if err := json.NewDecoder(r.Body).Decode(&instruction); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Patches = append(s.Patches, PatchCall{ID: id, Version: version, Instruction: instruction})

	w.WriteHeader(http.StatusOK)
}

// CreatedCollections returns the collections of all creation calls in
// order.
func (s *FakeStore) CreatedCollections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections := make([]string, len(s.Creates))
	for i, call := range s.Creates {
		collections[i] = call.Collection
	}
	return collections
}

// CreateCount returns the number of creation calls for one collection.
func (s *FakeStore) CreateCount(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, call := range s.Creates {
		if call.Collection == collection {
			count++
		}
	}
	return count
}
