package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/enterstudio/botimport/internal/bundle"
	"github.com/enterstudio/botimport/internal/models"
	"github.com/enterstudio/botimport/internal/refs"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive.zip|directory>",
	Short: "Preview the contents of a bundle without importing it",
	Long: `List the bots, packages and leaf resources inside an archive or an
already extracted bundle directory, as a YAML manifest.

Examples:
  botimport inspect backup.zip
  botimport inspect /tmp/extracted-bundle
  botimport inspect backup.zip --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output the manifest as JSON")
}

// bundleManifest is the inspect command's view of a bundle.
type bundleManifest struct {
	Bots []botManifest `yaml:"bots" json:"bots"`
}

type botManifest struct {
	ID       string            `yaml:"id" json:"id"`
	Name     string            `yaml:"name,omitempty" json:"name,omitempty"`
	Packages []packageManifest `yaml:"packages" json:"packages"`
}

type packageManifest struct {
	ID           string   `yaml:"id" json:"id"`
	Version      int      `yaml:"version" json:"version"`
	Name         string   `yaml:"name,omitempty" json:"name,omitempty"`
	Dictionaries []string `yaml:"dictionaries,omitempty" json:"dictionaries,omitempty"`
	BehaviorSets []string `yaml:"behaviorsets,omitempty" json:"behaviorsets,omitempty"`
	OutputSets   []string `yaml:"outputsets,omitempty" json:"outputsets,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	root, cleanup, err := resolveBundleDir(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	manifest, err := buildManifest(root)
	if err != nil {
		return err
	}

	if inspectJSON {
		output, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	output, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	fmt.Print(string(output))
	return nil
}

// resolveBundleDir accepts either an extracted bundle directory or an
// archive, extracting the latter into a throwaway workspace.
func resolveBundleDir(path string) (string, func(), error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("bundle not found: %s", path)
	}

	if info.IsDir() {
		return path, func() {}, nil
	}

	workdir, err := os.MkdirTemp("", "botimport-inspect-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	cleanup := func() { os.RemoveAll(workdir) }

	if err := bundle.ExtractZip(path, workdir); err != nil {
		cleanup()
		return "", nil, err
	}

	return workdir, cleanup, nil
}

func buildManifest(root string) (bundleManifest, error) {
	botFiles, err := bundle.FindBotFiles(root)
	if err != nil {
		return bundleManifest{}, err
	}
	if len(botFiles) == 0 {
		return bundleManifest{}, fmt.Errorf("no bot configuration found in bundle")
	}

	manifest := bundleManifest{}
	for _, botFile := range botFiles {
		entry, err := inspectBot(root, botFile)
		if err != nil {
			return bundleManifest{}, err
		}
		manifest.Bots = append(manifest.Bots, entry)
	}

	return manifest, nil
}

func inspectBot(root, botFile string) (botManifest, error) {
	botID := bundle.BotIDFromFile(botFile)

	data, err := os.ReadFile(botFile)
	if err != nil {
		return botManifest{}, fmt.Errorf("failed to read bot file: %w", err)
	}

	var bot models.BotConfiguration
	if err := json.Unmarshal(data, &bot); err != nil {
		return botManifest{}, fmt.Errorf("malformed bot configuration %s: %w", filepath.Base(botFile), err)
	}

	entry := botManifest{ID: botID}
	if descriptor, err := bundle.LoadDescriptor(root, botID); err == nil {
		entry.Name = descriptor.Name
	}

	for _, pkgURI := range bot.Packages {
		pkg, err := inspectPackage(root, pkgURI)
		if err != nil {
			return botManifest{}, err
		}
		entry.Packages = append(entry.Packages, pkg)
	}

	return entry, nil
}

func inspectPackage(root, pkgURI string) (packageManifest, error) {
	pkgRef, err := refs.Parse(pkgURI)
	if err != nil {
		return packageManifest{}, fmt.Errorf("invalid package reference in bot configuration: %w", err)
	}

	pkgDir := bundle.PackageDir(root, pkgRef)
	text, err := bundle.Load(pkgDir, pkgRef)
	if err != nil {
		return packageManifest{}, err
	}

	entry := packageManifest{ID: pkgRef.ID, Version: pkgRef.Version}
	if descriptor, err := bundle.LoadDescriptor(pkgDir, pkgRef.ID); err == nil {
		entry.Name = descriptor.Name
	}

	for _, collection := range refs.LeafCollections {
		found, err := refs.Extract(text, collection)
		if err != nil {
			return packageManifest{}, err
		}

		ids := uniqueIDs(found)
		switch collection {
		case refs.Dictionaries:
			entry.Dictionaries = ids
		case refs.BehaviorSets:
			entry.BehaviorSets = ids
		case refs.OutputSets:
			entry.OutputSets = ids
		}
	}

	return entry, nil
}

func uniqueIDs(references []refs.Reference) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ref := range references {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		ids = append(ids, ref.ID)
	}
	return ids
}
