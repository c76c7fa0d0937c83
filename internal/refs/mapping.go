package refs

// Mapping accumulates old-to-new reference pairs during one import run.
// Entries are keyed by the old reference's canonical string and kept in
// insertion order. Once inserted, an entry is never overwritten: each old
// reference is remapped exactly once per import.
//
// A Mapping is not safe for concurrent writers.
type Mapping struct {
	order   []string
	entries map[string]Reference
}

// NewMapping creates an empty reference mapping.
func NewMapping() *Mapping {
	return &Mapping{
		entries: make(map[string]Reference),
	}
}

// Add records a new reference for an old one. It reports whether the entry
// was inserted; re-adding an already mapped reference is a no-op.
func (m *Mapping) Add(old, replacement Reference) bool {
	key := old.String()
	if _, exists := m.entries[key]; exists {
		return false
	}
	m.order = append(m.order, key)
	m.entries[key] = replacement
	return true
}

// Has reports whether the old reference is already mapped.
func (m *Mapping) Has(old Reference) bool {
	_, exists := m.entries[old.String()]
	return exists
}

// Lookup returns the replacement for an old reference's canonical string.
func (m *Mapping) Lookup(canonical string) (Reference, bool) {
	ref, ok := m.entries[canonical]
	return ref, ok
}

// Len returns the number of mapped references.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Pair is one old-to-new entry of a Mapping.
type Pair struct {
	Old string    `json:"old"`
	New Reference `json:"new"`
}

// Pairs returns all entries in insertion order.
func (m *Mapping) Pairs() []Pair {
	pairs := make([]Pair, 0, len(m.order))
	for _, key := range m.order {
		pairs = append(pairs, Pair{Old: key, New: m.entries[key]})
	}
	return pairs
}
