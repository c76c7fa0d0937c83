package refs

import "testing"

func TestMappingAddAndLookup(t *testing.T) {
	mapping := NewMapping()

	old := Reference{Collection: Dictionaries, ID: "d1", Version: 1}
	replacement := Reference{Collection: Dictionaries, ID: "new-1", Version: 1}

	if !mapping.Add(old, replacement) {
		t.Fatal("first add should insert")
	}

	got, ok := mapping.Lookup(old.String())
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if got != replacement {
		t.Errorf("expected %v, got %v", replacement, got)
	}
}

func TestMappingInsertOnce(t *testing.T) {
	mapping := NewMapping()

	old := Reference{Collection: BehaviorSets, ID: "b1", Version: 2}
	first := Reference{Collection: BehaviorSets, ID: "new-1", Version: 1}
	second := Reference{Collection: BehaviorSets, ID: "new-2", Version: 1}

	mapping.Add(old, first)
	if mapping.Add(old, second) {
		t.Error("re-adding a mapped reference should be a no-op")
	}

	got, _ := mapping.Lookup(old.String())
	if got != first {
		t.Errorf("existing entry was overwritten: got %v", got)
	}
	if mapping.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", mapping.Len())
	}
}

func TestMappingPairsPreserveInsertionOrder(t *testing.T) {
	mapping := NewMapping()

	olds := []Reference{
		{Collection: Dictionaries, ID: "d1", Version: 1},
		{Collection: OutputSets, ID: "o1", Version: 1},
		{Collection: Packages, ID: "p1", Version: 4},
	}
	for i, old := range olds {
		mapping.Add(old, Reference{Collection: old.Collection, ID: "new", Version: i + 1})
	}

	pairs := mapping.Pairs()
	if len(pairs) != len(olds) {
		t.Fatalf("expected %d pairs, got %d", len(olds), len(pairs))
	}
	for i, pair := range pairs {
		if pair.Old != olds[i].String() {
			t.Errorf("position %d: expected %s, got %s", i, olds[i].String(), pair.Old)
		}
	}
}

func TestMappingHas(t *testing.T) {
	mapping := NewMapping()
	old := Reference{Collection: Bots, ID: "b1", Version: 1}

	if mapping.Has(old) {
		t.Error("empty mapping should not contain anything")
	}
	mapping.Add(old, Reference{Collection: Bots, ID: "new", Version: 1})
	if !mapping.Has(old) {
		t.Error("expected mapping to contain added reference")
	}
}
