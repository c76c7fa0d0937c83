package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/enterstudio/botimport/internal/bundle"
	"github.com/enterstudio/botimport/internal/config"
	"github.com/enterstudio/botimport/internal/importer"
	"github.com/enterstudio/botimport/internal/refs"
	"github.com/enterstudio/botimport/internal/store"
)

var (
	importServer string
	importJSON   bool
	importToon   bool
	importKeep   bool
)

var importCmd = &cobra.Command{
	Use:   "import <archive.zip>",
	Short: "Restore an archived bundle into the destination service",
	Long: `Extract a bot configuration archive and recreate its resources at the
destination service, leaves first: dictionaries, behavior sets and
output sets, then packages, then bots. References embedded in resource
bodies are rewritten to the identifiers the destination assigned.

Already-created resources are not rolled back when a later creation
fails, so a failed import can leave orphaned resources behind.

Examples:
  botimport import backup.zip
  botimport import backup.zip --server http://bots.internal:7070
  botimport import backup.zip --json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importServer, "server", "", "Destination service URL (default from config)")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Output results as JSON")
	importCmd.Flags().BoolVar(&importToon, "toon", false, "Output results as Toon")
	importCmd.Flags().BoolVar(&importKeep, "keep-workdir", false, "Keep the extraction workspace for debugging")
}

func runImport(cmd *cobra.Command, args []string) error {
	archive := args[0]
	if _, err := os.Stat(archive); err != nil {
		return fmt.Errorf("archive not found: %s", archive)
	}

	serverURL := importServer
	if serverURL == "" {
		serverURL = config.ServerURL()
	}

	if !store.IsAvailable(serverURL) {
		return fmt.Errorf("destination service not reachable at %s", serverURL)
	}

	workdir, err := bundle.NewWorkdir(config.TmpDir())
	if err != nil {
		return err
	}
	if importKeep {
		fmt.Printf("Workspace: %s\n", workdir)
	} else {
		defer os.RemoveAll(workdir)
	}

	bundleDir := filepath.Join(workdir, "bundle")
	if err := os.MkdirAll(bundleDir, 0755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}
	if err := bundle.ExtractZip(archive, bundleDir); err != nil {
		return err
	}

	imp := importer.New(store.NewClient(serverURL))
	results, err := imp.ImportBundle(context.Background(), bundleDir)
	if err != nil {
		return err
	}

	if err := printImportResults(results); err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bot(s) failed to import", failed, len(results))
	}

	return nil
}

func printImportResults(results []importer.Result) error {
	if importJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if importToon {
		output, err := gotoon.Encode(results)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	for _, result := range results {
		if result.Failed() {
			fmt.Printf("✗ %s: %s\n", result.BotFile, result.Error)
			continue
		}

		fmt.Printf("✓ %s -> %s\n", result.BotFile, result.Bot)
		for _, collection := range []string{refs.Dictionaries, refs.BehaviorSets, refs.OutputSets, refs.Packages, refs.Bots} {
			if count := result.Created[collection]; count > 0 {
				fmt.Printf("    %-13s %d\n", collection, count)
			}
		}
	}

	return nil
}
