package refs

import (
	"fmt"
	"regexp"
)

// Reference tokens are always embedded as quoted strings inside serialized
// bodies, so extraction is a plain text scan rather than a structural JSON
// walk. One pattern per collection keeps the scan agnostic to everything
// else in the body.
var collectionPatterns = map[string]*regexp.Regexp{
	Bots:         compileCollectionPattern(Bots),
	Packages:     compileCollectionPattern(Packages),
	Dictionaries: compileCollectionPattern(Dictionaries),
	BehaviorSets: compileCollectionPattern(BehaviorSets),
	OutputSets:   compileCollectionPattern(OutputSets),
}

// anyReference matches a quoted reference token of any collection.
var anyReference = regexp.MustCompile(`"(` + regexp.QuoteMeta(Scheme) + `[^"]*)"`)

func compileCollectionPattern(collection string) *regexp.Regexp {
	return regexp.MustCompile(`"(` + regexp.QuoteMeta(Scheme) + collection + `/[^"]*)"`)
}

// Extract scans text for quoted reference tokens of the given collection and
// returns them in document order. Duplicate tokens yield duplicate entries.
// No match yields an empty result, not an error.
func Extract(text, collection string) ([]Reference, error) {
	pattern, ok := collectionPatterns[collection]
	if !ok {
		return nil, fmt.Errorf("unknown reference collection: %s", collection)
	}

	var references []Reference
	for _, match := range pattern.FindAllStringSubmatch(text, -1) {
		ref, err := Parse(match[1])
		if err != nil {
			return nil, fmt.Errorf("failed to parse extracted reference: %w", err)
		}
		references = append(references, ref)
	}

	return references, nil
}
