package wake

import (
	"regexp"
	"strings"
	"unicode"
)

// grammarSplit matches the same whitespace-or-punctuation separator class as
// original_source's wake_vosk.py: ASCII/CJK whitespace plus a fixed set of
// ASCII and CJK sentence punctuation.
var grammarSplit = regexp.MustCompile(`[\s\x{3000}.,!?，。！？、；;：:]+`)

// toGrammarPhrase splits s on whitespace/punctuation and rejoins the
// remaining tokens with single spaces, so a compound phrase like "你好，米奇"
// becomes the space-delimited grammar token "你好 米奇".
func toGrammarPhrase(s string) string {
	parts := grammarSplit.Split(strings.TrimSpace(s), -1)
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// normalize strips all whitespace and any rune in the Unicode punctuation
// category (P*), lowercasing is NOT applied here (wake_vosk.py's _norm
// preserves case; match-set comparisons are done on normalized text from
// both sides so case only matters if phrases themselves use it).
func normalize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
