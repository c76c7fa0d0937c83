package refs

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme is the URI scheme used for resource references embedded in
// serialized configuration bodies.
const Scheme = "config://"

// Resource collections addressable through reference URIs.
const (
	Bots         = "bots"
	Packages     = "packages"
	Dictionaries = "dictionaries"
	BehaviorSets = "behaviorsets"
	OutputSets   = "outputsets"
)

// LeafCollections are the collections that packages reference directly.
// Order matters: leaves of each collection are imported in this order.
var LeafCollections = []string{Dictionaries, BehaviorSets, OutputSets}

// Reference identifies one resource instance at a point in time.
// It is parsed from a URI of the form config://<collection>/<id>?version=<n>
// and is immutable once parsed.
type Reference struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Version    int    `json:"version"`
}

// String returns the canonical URI form of the reference.
func (r Reference) String() string {
	return fmt.Sprintf("%s%s/%s?version=%d", Scheme, r.Collection, r.ID, r.Version)
}

// Parse parses a reference URI into a Reference.
func Parse(uri string) (Reference, error) {
	rest, ok := strings.CutPrefix(uri, Scheme)
	if !ok {
		return Reference{}, fmt.Errorf("invalid reference %q: missing %s scheme", uri, Scheme)
	}

	path, query, ok := strings.Cut(rest, "?")
	if !ok {
		return Reference{}, fmt.Errorf("invalid reference %q: missing version query", uri)
	}

	collection, id, ok := strings.Cut(path, "/")
	if !ok || collection == "" || id == "" {
		return Reference{}, fmt.Errorf("invalid reference %q: expected <collection>/<id>", uri)
	}

	value, ok := strings.CutPrefix(query, "version=")
	if !ok {
		return Reference{}, fmt.Errorf("invalid reference %q: expected version=<n> query", uri)
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid reference %q: bad version: %w", uri, err)
	}

	return Reference{
		Collection: collection,
		ID:         id,
		Version:    version,
	}, nil
}
