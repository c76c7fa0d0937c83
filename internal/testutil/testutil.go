package testutil

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// TempBundle builds an extracted-bundle directory tree for testing.
type TempBundle struct {
	Root string
	T    *testing.T
}

// NewTempBundle creates an empty temporary bundle directory.
func NewTempBundle(t *testing.T) *TempBundle {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "botimport-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	return &TempBundle{
		Root: tmpDir,
		T:    t,
	}
}

// Cleanup removes the bundle directory.
func (b *TempBundle) Cleanup() {
	b.T.Helper()
	if err := os.RemoveAll(b.Root); err != nil {
		b.T.Errorf("failed to cleanup temp bundle: %v", err)
	}
}

// WriteFile writes a file at a path relative to the bundle root.
func (b *TempBundle) WriteFile(rel, content string) {
	b.T.Helper()
	path := filepath.Join(b.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.T.Fatalf("failed to write file: %v", err)
	}
}

// AddBot writes a top-level bot file referencing the given package URIs.
func (b *TempBundle) AddBot(id string, packageURIs ...string) {
	b.T.Helper()

	if packageURIs == nil {
		packageURIs = []string{}
	}
	data, err := json.Marshal(map[string]interface{}{"packages": packageURIs})
	if err != nil {
		b.T.Fatalf("failed to marshal bot config: %v", err)
	}

	b.WriteFile(id+".bot.json", string(data))
}

// AddPackage writes a package file under <id>/<version>/.
func (b *TempBundle) AddPackage(id string, version int, content string) {
	b.T.Helper()
	b.WriteFile(filepath.Join(id, strconv.Itoa(version), id+".package.json"), content)
}

// AddLeaf writes a leaf resource file beside a package file. The extension
// must match the bundle layout for the leaf's collection (dictionary,
// behavior or output).
func (b *TempBundle) AddLeaf(pkgID string, pkgVersion int, id, ext, content string) {
	b.T.Helper()
	b.WriteFile(filepath.Join(pkgID, strconv.Itoa(pkgVersion), id+"."+ext+".json"), content)
}

// AddDescriptor writes a descriptor file for a resource inside relDir
// (empty relDir targets the bundle root).
func (b *TempBundle) AddDescriptor(relDir, id, name, description string) {
	b.T.Helper()

	data, err := json.Marshal(map[string]string{
		"name":        name,
		"description": description,
	})
	if err != nil {
		b.T.Fatalf("failed to marshal descriptor: %v", err)
	}

	b.WriteFile(filepath.Join(relDir, id+".descriptor.json"), string(data))
}

// Zip archives the bundle tree into a zip file outside the bundle root and
// returns its path.
func (b *TempBundle) Zip() string {
	b.T.Helper()

	zipPath := filepath.Join(b.T.TempDir(), "bundle.zip")

	out, err := os.Create(zipPath)
	if err != nil {
		b.T.Fatalf("failed to create zip file: %v", err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	defer writer.Close()

	err = filepath.Walk(b.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(b.Root, path)
		if err != nil {
			return err
		}

		entry, err := writer.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(entry, file)
		return err
	})
	if err != nil {
		b.T.Fatalf("failed to build zip: %v", err)
	}

	return zipPath
}

// SimpleBotBundle fills the bundle with one bot referencing one package,
// which references one dictionary, one behavior set and one output set,
// descriptors included. It returns the package reference URI used in the
// bot file.
func SimpleBotBundle(b *TempBundle, botID, pkgID string) string {
	b.T.Helper()

	pkgURI := fmt.Sprintf("config://packages/%s?version=1", pkgID)

	b.AddBot(botID, pkgURI)
	b.AddDescriptor("", botID, "Test Bot", "a bot used in tests")

	pkgBody := `{"packageExtensions":[` +
		`{"type":"parser","config":{"dictionary":"config://dictionaries/dict1?version=1"}},` +
		`{"type":"behavior","config":{"rules":"config://behaviorsets/beh1?version=1"}},` +
		`{"type":"output","config":{"outputSet":"config://outputsets/out1?version=1"}}]}`
	b.AddPackage(pkgID, 1, pkgBody)

	pkgDir := filepath.Join(pkgID, "1")
	b.AddDescriptor(pkgDir, pkgID, "Test Package", "a package used in tests")

	b.AddLeaf(pkgID, 1, "dict1", "dictionary", `{"language":"en","words":[{"word":"hello"}]}`)
	b.AddDescriptor(pkgDir, "dict1", "Test Dictionary", "a dictionary used in tests")

	b.AddLeaf(pkgID, 1, "beh1", "behavior", `{"behaviorGroups":[{"name":"greeting"}]}`)
	b.AddDescriptor(pkgDir, "beh1", "Test Behavior", "a behavior set used in tests")

	b.AddLeaf(pkgID, 1, "out1", "output", `{"outputs":[{"action":"greet","text":"hi"}]}`)
	b.AddDescriptor(pkgDir, "out1", "Test Output", "an output set used in tests")

	return pkgURI
}
