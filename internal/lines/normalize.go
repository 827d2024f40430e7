package lines

import "strings"

// nameSuffixes are stripped before matching, longer forms first so that
// "Jr." is consumed before "Jr".
var nameSuffixes = []string{" Jr.", " Sr.", " III", " II", " IV", " Jr", " Sr"}

// Normalize canonicalizes a player display name for line lookup: trim,
// strip generational suffixes, lowercase.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range nameSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return strings.TrimSpace(strings.ToLower(name))
}
