// Package normalize provides the text normalization used for feature
// comparison. It is independent of embeddings: rule-based scoring compares
// normalized tokens, never vectors.
package normalize

import (
	"strings"
	"unicode"
)

// stopWords filters common words that add noise when tokenizing free text.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
}

// Token lower-cases and trims a single token.
func Token(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitList tokenizes a structured list (skills, requirements) on commas,
// semicolons and newlines. Tokens are lower-cased and trimmed; empties are
// dropped. Order of first appearance is preserved and duplicates removed.
func SplitList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := Token(f)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// TokenSet builds a lookup set from a list of raw tokens.
func TokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if tok := Token(t); tok != "" {
			set[tok] = true
		}
	}
	return set
}

// Words tokenizes free text into lowercase words of three or more runes,
// skipping stop words. The characters + # . count as word characters so
// tech terms like "c++", "c#" and "node.js" survive intact.
func Words(text string) []string {
	var out []string
	seen := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) < 3 || stopWords[w] || seen[w] {
			return
		}
		seen[w] = true
		out = append(out, w)
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// ContainsFold reports whether either string contains the other,
// case-insensitively, ignoring surrounding whitespace. Empty inputs never match.
func ContainsFold(a, b string) bool {
	a, b = Token(a), Token(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
