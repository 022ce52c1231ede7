package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['-][\p{L}\p{N}]+)*`)

// Tokens lowercases text and splits it into word tokens for lexicon matching.
// Hyphenated words and contractions stay single tokens so terms such as
// "cover-up" match whole.
func Tokens(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Words lowercases text and splits it on every rune that is neither a letter
// nor a number.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Match is a term found in a token stream.
type Match struct {
	Term  string
	Count int
}

// CountTerms counts whole-token occurrences of each term in tokens. Only terms
// with at least one occurrence are returned, in the order of terms.
func CountTerms(tokens []string, terms []string) []Match {
	var matches []Match

	for _, term := range terms {
		phrase := Tokens(term)
		if len(phrase) == 0 {
			continue
		}

		n := 0
		for i := 0; i+len(phrase) <= len(tokens); i++ {
			if equalAt(tokens, i, phrase) {
				n++
			}
		}

		if n > 0 {
			matches = append(matches, Match{Term: term, Count: n})
		}
	}

	return matches
}

// ContainsAny reports whether any term occurs in tokens.
func ContainsAny(tokens []string, terms []string) bool {
	return len(CountTerms(tokens, terms)) > 0
}

func equalAt(tokens []string, i int, phrase []string) bool {
	for j, p := range phrase {
		if tokens[i+j] != p {
			return false
		}
	}

	return true
}
