package depmap

import (
	"regexp"
	"strings"
)

// stopwords are dropped before keyword-overlap scoring. Tokens shorter than
// three characters are dropped as well.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "are": {}, "was": {}, "will": {}, "can": {},
	"has": {}, "have": {}, "should": {}, "must": {}, "when": {}, "then": {},
	"all": {}, "any": {}, "each": {}, "its": {}, "using": {}, "use": {},
	"our": {}, "your": {}, "their": {}, "via": {}, "per": {}, "not": {},
	"new": {}, "also": {}, "task": {}, "tasks": {}, "brief": {},
}

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// keywords tokenizes text into a lowercased keyword set with stopwords and
// short tokens removed.
func keywords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 3 {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// overlapCoefficient returns |a ∩ b| / min(|a|, |b|), or 0 for empty sets.
func overlapCoefficient(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}
