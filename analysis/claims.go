package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// abbreviations never end a sentence when followed by a single period.
var abbreviations = newTermSet(
	"dr", "mr", "mrs", "ms", "prof", "st", "jr", "sr", "vs", "etc", "no", "fig", "al", "e.g", "i.e",
)

// ExtractClaims splits text into sentences and keeps, in order, every sentence
// that carries a causal verb, an evidentiary noun, a quantifier or a number.
// Claims are verbatim substrings of text. Duplicates are kept.
func ExtractClaims(text string) []core.Claim {
	var claims []core.Claim

	for _, loc := range sentences(text) {
		raw := text[loc[0]:loc[1]]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || !isClaim(trimmed) {
			continue
		}

		lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		claims = append(claims, core.Claim{Text: trimmed, Offset: loc[0] + lead})
	}

	return claims
}

func isClaim(sentence string) bool {
	for _, tok := range Tokens(sentence) {
		if claimMarkers.has(tok) || strings.ContainsAny(tok, "0123456789") {
			return true
		}
	}

	return false
}

// sentences returns the [start, end) byte spans of the sentences of text. A
// sentence ends at a run of '.', '!' or '?' followed by whitespace or the end
// of text, so decimals such as 3.5 stay inside their sentence.
func sentences(text string) [][2]int {
	var spans [][2]int

	start := 0
	for i := 0; i < len(text); {
		if !isTerminal(text[i]) {
			i++
			continue
		}

		j := i
		for j < len(text) && isTerminal(text[j]) {
			j++
		}

		r, _ := utf8.DecodeRuneInString(text[j:])
		atBoundary := j == len(text) || unicode.IsSpace(r)

		if atBoundary && !(j == i+1 && text[i] == '.' && endsWithAbbreviation(text[start:i])) {
			spans = append(spans, [2]int{start, j})
			start = j
		}

		i = j
	}

	if start < len(text) {
		spans = append(spans, [2]int{start, len(text)})
	}

	return spans
}

func isTerminal(b byte) bool { return b == '.' || b == '!' || b == '?' }

func endsWithAbbreviation(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}

	return abbreviations.has(strings.ToLower(fields[len(fields)-1]))
}
