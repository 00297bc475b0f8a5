package catalog

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// minSuggestScore is the Jaro-Winkler similarity below which no suggestion is made.
const minSuggestScore = 0.85

// Suggest returns the known package name closest to fullName.
// Uses Jaro-Winkler similarity, which favors shared prefixes such as the owner name.
func (c *Catalog) Suggest(fullName string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target := strings.ToLower(fullName)
	best := ""
	var bestScore float32
	for _, name := range c.names {
		score := edlib.JaroWinklerSimilarity(target, strings.ToLower(name))
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if bestScore < minSuggestScore || best == fullName {
		return "", false
	}
	return best, true
}
