// Package importer drives the restore pipeline for one extracted bundle:
// discover bot files, recreate each bot's resources bottom-up (leaves,
// then packages, then the bot itself), rewrite embedded references to the
// identifiers the destination assigned, and migrate descriptors along the
// way.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/enterstudio/botimport/internal/bundle"
	"github.com/enterstudio/botimport/internal/models"
	"github.com/enterstudio/botimport/internal/refs"
	"github.com/enterstudio/botimport/internal/store"
)

// Importer recreates archived resources against a destination store.
type Importer struct {
	store *store.Client
}

// New creates an importer backed by the given destination client.
func New(client *store.Client) *Importer {
	return &Importer{store: client}
}

// Result reports the outcome of importing one archived bot.
type Result struct {
	BotFile string          `json:"botFile"`
	Bot     *refs.Reference `json:"bot,omitempty"`
	Created map[string]int  `json:"created,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Failed reports whether the bot's import was aborted.
func (r Result) Failed() bool {
	return r.Error != ""
}

// ImportBundle imports every bot found in the extracted bundle at root.
// Bots are processed independently: one bot's failure is recorded in its
// Result and does not abort its siblings. There is no rollback; resources
// created before a failure stay at the destination.
func (imp *Importer) ImportBundle(ctx context.Context, root string) ([]Result, error) {
	botFiles, err := bundle.FindBotFiles(root)
	if err != nil {
		return nil, err
	}
	if len(botFiles) == 0 {
		return nil, fmt.Errorf("no bot configuration found in bundle")
	}

	results := make([]Result, 0, len(botFiles))
	for _, botFile := range botFiles {
		result := Result{
			BotFile: filepath.Base(botFile),
			Created: make(map[string]int),
		}

		// The mapping is scoped per bot: each import run builds its
		// own old-to-new table bottom-up and consumes it top-down.
		mapping := refs.NewMapping()

		created, err := imp.importBot(ctx, root, botFile, mapping, &result)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Bot = &created
		}

		results = append(results, result)
	}

	return results, nil
}

func (imp *Importer) importBot(ctx context.Context, root, botFile string, mapping *refs.Mapping, result *Result) (refs.Reference, error) {
	data, err := os.ReadFile(botFile)
	if err != nil {
		return refs.Reference{}, fmt.Errorf("failed to read bot file: %w", err)
	}

	var bot models.BotConfiguration
	if err := json.Unmarshal(data, &bot); err != nil {
		return refs.Reference{}, fmt.Errorf("malformed bot configuration %s: %w", filepath.Base(botFile), err)
	}

	for _, pkgURI := range bot.Packages {
		if err := imp.importPackage(ctx, root, pkgURI, mapping, result); err != nil {
			return refs.Reference{}, err
		}
	}

	// All packages are created at this point; swap the bot's package list
	// over to the assigned references.
	for i, uri := range bot.Packages {
		if replacement, ok := mapping.Lookup(uri); ok {
			bot.Packages[i] = replacement.String()
		}
	}

	created, err := imp.store.CreateBot(ctx, bot)
	if err != nil {
		return refs.Reference{}, err
	}
	result.Created[refs.Bots]++

	// The bot's own reference is never embedded as a token, so the old
	// identifier comes from the archived file name.
	imp.migrateDescriptor(ctx, root, bundle.BotIDFromFile(botFile), created)

	return created, nil
}

// importPackage recreates one package subtree: all leaves first, then the
// package itself from its fully rewritten text.
func (imp *Importer) importPackage(ctx context.Context, root, pkgURI string, mapping *refs.Mapping, result *Result) error {
	pkgRef, err := refs.Parse(pkgURI)
	if err != nil {
		return fmt.Errorf("invalid package reference in bot configuration: %w", err)
	}

	pkgDir := bundle.PackageDir(root, pkgRef)
	text, err := bundle.Load(pkgDir, pkgRef)
	if err != nil {
		return err
	}

	for _, collection := range refs.LeafCollections {
		text, err = imp.importLeaves(ctx, pkgDir, text, collection, mapping, result)
		if err != nil {
			return err
		}
	}

	var pkg models.PackageConfiguration
	if err := json.Unmarshal([]byte(text), &pkg); err != nil {
		return fmt.Errorf("malformed package configuration %s: %w", pkgRef.ID, err)
	}

	created, err := imp.store.CreatePackage(ctx, pkg)
	if err != nil {
		return err
	}
	mapping.Add(pkgRef, created)
	result.Created[refs.Packages]++

	imp.migrateDescriptor(ctx, pkgDir, pkgRef.ID, created)

	return nil
}

// importLeaves recreates every not-yet-mapped leaf of one collection
// referenced by the package text and returns the text with that
// collection's references rewritten.
func (imp *Importer) importLeaves(ctx context.Context, pkgDir, text, collection string, mapping *refs.Mapping, result *Result) (string, error) {
	found, err := refs.Extract(text, collection)
	if err != nil {
		return "", err
	}

	for _, ref := range found {
		// A reference seen twice is created exactly once.
		if mapping.Has(ref) {
			continue
		}

		raw, err := bundle.Load(pkgDir, ref)
		if err != nil {
			return "", err
		}

		created, err := imp.createLeaf(ctx, collection, ref, raw)
		if err != nil {
			return "", err
		}
		mapping.Add(ref, created)
		result.Created[collection]++

		imp.migrateDescriptor(ctx, pkgDir, ref.ID, created)
	}

	return refs.Rewrite(text, mapping), nil
}

func (imp *Importer) createLeaf(ctx context.Context, collection string, ref refs.Reference, raw string) (refs.Reference, error) {
	switch collection {
	case refs.Dictionaries:
		var cfg models.DictionaryConfiguration
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return refs.Reference{}, fmt.Errorf("malformed dictionary %s: %w", ref.ID, err)
		}
		return imp.store.CreateDictionary(ctx, cfg)
	case refs.BehaviorSets:
		var cfg models.BehaviorConfiguration
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return refs.Reference{}, fmt.Errorf("malformed behavior set %s: %w", ref.ID, err)
		}
		return imp.store.CreateBehaviorSet(ctx, cfg)
	case refs.OutputSets:
		var cfg models.OutputConfiguration
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return refs.Reference{}, fmt.Errorf("malformed output set %s: %w", ref.ID, err)
		}
		return imp.store.CreateOutputSet(ctx, cfg)
	default:
		return refs.Reference{}, fmt.Errorf("unknown leaf collection: %s", collection)
	}
}

// migrateDescriptor copies the archived descriptor of the old resource onto
// the newly created one. Descriptor loss is cosmetic while a failed
// creation breaks referential integrity, so unlike creation errors this is
// never fatal: failures are logged and the new resource keeps the default
// descriptor the destination assigned.
func (imp *Importer) migrateDescriptor(ctx context.Context, dir, oldID string, created refs.Reference) {
	descriptor, err := bundle.LoadDescriptor(dir, oldID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read archived descriptor for %s: %v\n", oldID, err)
		return
	}

	instruction := models.PatchInstruction{
		Operation: models.PatchOperationSet,
		Document:  descriptor,
	}
	if err := imp.store.PatchDescriptor(ctx, created.ID, created.Version, instruction); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to migrate descriptor for %s: %v\n", oldID, err)
	}
}
