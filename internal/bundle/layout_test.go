package bundle

import (
	"path/filepath"
	"testing"

	"github.com/enterstudio/botimport/internal/refs"
)

func TestResourceFilePerCollection(t *testing.T) {
	cases := []struct {
		collection string
		want       string
	}{
		{refs.Bots, "b1.bot.json"},
		{refs.Packages, "b1.package.json"},
		{refs.Dictionaries, "b1.dictionary.json"},
		{refs.BehaviorSets, "b1.behavior.json"},
		{refs.OutputSets, "b1.output.json"},
	}

	for _, tc := range cases {
		ref := refs.Reference{Collection: tc.collection, ID: "b1", Version: 1}
		path, err := ResourceFile("/bundle", ref)
		if err != nil {
			t.Fatalf("%s: %v", tc.collection, err)
		}
		if filepath.Base(path) != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.collection, tc.want, filepath.Base(path))
		}
	}
}

func TestResourceFileUnknownCollection(t *testing.T) {
	ref := refs.Reference{Collection: "widgets", ID: "x", Version: 1}
	if _, err := ResourceFile("/bundle", ref); err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestPackageDir(t *testing.T) {
	ref := refs.Reference{Collection: refs.Packages, ID: "pkg1", Version: 4}
	got := PackageDir("/bundle", ref)
	want := filepath.Join("/bundle", "pkg1", "4")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBotIDFromFile(t *testing.T) {
	if id := BotIDFromFile("/tmp/work/5a2b.bot.json"); id != "5a2b" {
		t.Errorf("expected 5a2b, got %s", id)
	}
}
