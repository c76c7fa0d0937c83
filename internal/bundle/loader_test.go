package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/enterstudio/botimport/internal/refs"
)

func TestLoadReadsResourceText(t *testing.T) {
	dir := t.TempDir()
	content := `{"language":"en"}`
	if err := os.WriteFile(filepath.Join(dir, "d1.dictionary.json"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	ref := refs.Reference{Collection: refs.Dictionaries, ID: "d1", Version: 1}
	text, err := Load(dir, ref)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if text != content {
		t.Errorf("expected %s, got %s", content, text)
	}
}

func TestLoadMissingFileReturnsNotFound(t *testing.T) {
	ref := refs.Reference{Collection: refs.BehaviorSets, ID: "missing", Version: 1}

	_, err := Load(t.TempDir(), ref)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestLoadDescriptor(t *testing.T) {
	dir := t.TempDir()
	content := `{"name":"Weather Bot","description":"forecasts"}`
	if err := os.WriteFile(filepath.Join(dir, "b1.descriptor.json"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	descriptor, err := LoadDescriptor(dir, "b1")
	if err != nil {
		t.Fatalf("load descriptor failed: %v", err)
	}
	if descriptor.Name != "Weather Bot" || descriptor.Description != "forecasts" {
		t.Errorf("descriptor content mismatch: %+v", descriptor)
	}
}

func TestLoadDescriptorMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.descriptor.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := LoadDescriptor(dir, "bad"); err == nil {
		t.Error("expected error for malformed descriptor")
	}
}

func TestFindBotFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.bot.json", "b.bot.json", "c.descriptor.json"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "pkg1", "1"), 0755); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}

	found, err := FindBotFiles(dir)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 bot files, got %d: %v", len(found), found)
	}
	if BotIDFromFile(found[0]) != "a" || BotIDFromFile(found[1]) != "b" {
		t.Errorf("unexpected bot files: %v", found)
	}
}
