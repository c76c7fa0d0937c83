package bundle

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/enterstudio/botimport/internal/models"
	"github.com/enterstudio/botimport/internal/refs"
)

// NotFoundError reports a resource file missing from the extracted bundle.
// The bundle is assumed internally consistent once extracted, so a missing
// file is fatal for the subtree referencing it; there is no retry.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource file not found: %s", e.Path)
}

// Load reads the raw text of the resource file for ref inside dir. The
// bundle is read-only: callers transform in-memory copies, never the
// original files.
func Load(dir string, ref refs.Reference) (string, error) {
	path, err := ResourceFile(dir, ref)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", fmt.Errorf("failed to read resource file: %w", err)
	}

	return string(data), nil
}

// LoadDescriptor reads and deserializes the archived descriptor stored
// beside the resource with the given id.
func LoadDescriptor(dir, id string) (models.DocumentDescriptor, error) {
	path := DescriptorFile(dir, id)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DocumentDescriptor{}, &NotFoundError{Path: path}
		}
		return models.DocumentDescriptor{}, fmt.Errorf("failed to read descriptor file: %w", err)
	}

	var descriptor models.DocumentDescriptor
	if err := json.Unmarshal(data, &descriptor); err != nil {
		return models.DocumentDescriptor{}, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}

	return descriptor, nil
}
