package analysis

import (
	"sort"
	"unicode/utf8"
)

// ExtractKeywords returns the sorted unique words of text that are at least
// three letters long and not stop words.
func ExtractKeywords(text string) []string {
	seen := map[string]struct{}{}

	for _, tok := range Words(text) {
		if utf8.RuneCountInString(tok) < 3 || stopWords.has(tok) {
			continue
		}

		seen[tok] = struct{}{}
	}

	keywords := make([]string, 0, len(seen))
	for k := range seen {
		keywords = append(keywords, k)
	}

	sort.Strings(keywords)

	return keywords
}

// KeywordOverlap returns the share of keywords found among the keywords of text.
// It is 0 when keywords is empty.
func KeywordOverlap(keywords []string, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	other := map[string]struct{}{}
	for _, k := range ExtractKeywords(text) {
		other[k] = struct{}{}
	}

	hits := 0
	for _, k := range keywords {
		if _, ok := other[k]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(keywords))
}
