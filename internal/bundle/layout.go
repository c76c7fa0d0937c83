package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/enterstudio/botimport/internal/refs"
)

// BotFileSuffix marks top-level bot configuration files at the bundle root.
const BotFileSuffix = ".bot.json"

// DescriptorSuffix marks descriptor files stored beside each resource.
const DescriptorSuffix = ".descriptor.json"

// fileExtensions maps reference collections to the per-type file extension
// used in the on-disk bundle layout: <id>.<extension>.json
var fileExtensions = map[string]string{
	refs.Bots:         "bot",
	refs.Packages:     "package",
	refs.Dictionaries: "dictionary",
	refs.BehaviorSets: "behavior",
	refs.OutputSets:   "output",
}

// ResourceFile returns the expected path of a resource file inside dir.
func ResourceFile(dir string, ref refs.Reference) (string, error) {
	ext, ok := fileExtensions[ref.Collection]
	if !ok {
		return "", fmt.Errorf("no file extension for collection %s", ref.Collection)
	}
	return filepath.Join(dir, ref.ID+"."+ext+".json"), nil
}

// DescriptorFile returns the path of a resource's descriptor file inside dir.
func DescriptorFile(dir, id string) string {
	return filepath.Join(dir, id+DescriptorSuffix)
}

// PackageDir returns the directory holding a package's files:
// <root>/<id>/<version>/
func PackageDir(root string, ref refs.Reference) string {
	return filepath.Join(root, ref.ID, strconv.Itoa(ref.Version))
}

// FindBotFiles lists all top-level bot configuration files directly under
// the bundle root, sorted by name.
func FindBotFiles(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle root: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), BotFileSuffix) {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}

	return files, nil
}

// BotIDFromFile derives the archived bot's identifier from its file name.
// The bot's own reference is not embedded as a token anywhere, so the file
// name is the only place it survives.
func BotIDFromFile(path string) string {
	return strings.TrimSuffix(filepath.Base(path), BotFileSuffix)
}
