package refs

// Rewrite replaces every quoted reference token in text whose canonical
// string is present in the mapping with its replacement, preserving the
// surrounding quotes. Tokens without a mapping entry pass through
// byte-identical: an unresolved reference is not an error at this layer.
// Applying Rewrite twice with the same mapping yields the same output as
// applying it once, as long as the mapping does not chain old references
// onto other old references.
func Rewrite(text string, mapping *Mapping) string {
	return anyReference.ReplaceAllStringFunc(text, func(match string) string {
		// Strip the surrounding quotes for the lookup.
		canonical := match[1 : len(match)-1]
		if replacement, ok := mapping.Lookup(canonical); ok {
			return `"` + replacement.String() + `"`
		}
		return match
	})
}
