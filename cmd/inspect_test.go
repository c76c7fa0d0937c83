package cmd

import (
	"testing"

	"github.com/enterstudio/botimport/internal/testutil"
)

func TestInspectDirectory(t *testing.T) {
	b := testutil.NewTempBundle(t)
	defer b.Cleanup()
	testutil.SimpleBotBundle(b, "bot1", "pkg1")

	inspectJSON = false

	if err := runInspect(nil, []string{b.Root}); err != nil {
		t.Fatalf("inspect command failed: %v", err)
	}
}

func TestInspectArchive(t *testing.T) {
	b := testutil.NewTempBundle(t)
	defer b.Cleanup()
	testutil.SimpleBotBundle(b, "bot1", "pkg1")

	inspectJSON = true

	if err := runInspect(nil, []string{b.Zip()}); err != nil {
		t.Fatalf("inspect command failed: %v", err)
	}
}

func TestInspectManifestContents(t *testing.T) {
	b := testutil.NewTempBundle(t)
	defer b.Cleanup()
	testutil.SimpleBotBundle(b, "bot1", "pkg1")

	manifest, err := buildManifest(b.Root)
	if err != nil {
		t.Fatalf("failed to build manifest: %v", err)
	}

	if len(manifest.Bots) != 1 {
		t.Fatalf("expected 1 bot, got %d", len(manifest.Bots))
	}

	bot := manifest.Bots[0]
	if bot.ID != "bot1" || bot.Name != "Test Bot" {
		t.Errorf("unexpected bot entry: %+v", bot)
	}
	if len(bot.Packages) != 1 {
		t.Fatalf("expected 1 package, got %d", len(bot.Packages))
	}

	pkg := bot.Packages[0]
	if pkg.ID != "pkg1" || pkg.Version != 1 {
		t.Errorf("unexpected package entry: %+v", pkg)
	}
	if len(pkg.Dictionaries) != 1 || pkg.Dictionaries[0] != "dict1" {
		t.Errorf("unexpected dictionaries: %v", pkg.Dictionaries)
	}
	if len(pkg.BehaviorSets) != 1 || pkg.BehaviorSets[0] != "beh1" {
		t.Errorf("unexpected behavior sets: %v", pkg.BehaviorSets)
	}
	if len(pkg.OutputSets) != 1 || pkg.OutputSets[0] != "out1" {
		t.Errorf("unexpected output sets: %v", pkg.OutputSets)
	}
}

func TestInspectMissingBundle(t *testing.T) {
	if err := runInspect(nil, []string{"/does/not/exist"}); err == nil {
		t.Fatal("expected error for missing bundle")
	}
}
