package session

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeForMatch strips all whitespace and the fixed ASCII/CJK
// sentence-punctuation class (isTrimPunct) and lowercases, matching
// original_source/app.py's normalize_for_match/_re_punct_any; used to
// compare short control utterances ("确认", "取消", "再见") against the
// configured phrase sets. Idempotent and case-insensitive.
func normalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) || isTrimPunct(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// normalizePhraseSet builds a deduplicated, normalized set from raw
// configured phrases.
func normalizePhraseSet(phrases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		if n := normalizeForMatch(p); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// shortPhraseMatch reports whether the normalized input matches if
// it equals any configured phrase outright, or if a non-empty phrase is a
// substring of the input and the input is at most maxExtraChars longer.
func shortPhraseMatch(normalizedInput string, phrases map[string]struct{}, maxExtraChars int) bool {
	if normalizedInput == "" {
		return false
	}
	if _, ok := phrases[normalizedInput]; ok {
		return true
	}
	inputChars := utf8.RuneCountInString(normalizedInput)
	for p := range phrases {
		if p == "" {
			continue
		}
		if strings.Contains(normalizedInput, p) && inputChars <= utf8.RuneCountInString(p)+maxExtraChars {
			return true
		}
	}
	return false
}

// cleanUserText trims leading/trailing whitespace and a fixed ASCII/CJK
// sentence-punctuation class from STT output, then collapses internal
// whitespace runs to single spaces — matching original_source/app.py's
// clean_user_text (distinct from pkg/speech's clean_text, which is applied
// to the agent's own message text).
func cleanUserText(s string) string {
	s = trimPunctAndSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// isTrimPunct is the fixed ASCII/CJK sentence-punctuation class shared by
// cleanUserText's edge-trimming and normalizeForMatch (pkg/wake's grammar
// split uses the same set in its own regexp).
func isTrimPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', '，', '。', '！', '？', '、', '；', ';', '：', ':', '　':
		return true
	}
	return false
}

func trimPunctAndSpace(s string) string {
	runes := []rune(strings.TrimSpace(s))
	start := 0
	for start < len(runes) && (unicode.IsSpace(runes[start]) || isTrimPunct(runes[start])) {
		start++
	}
	end := len(runes)
	for end > start && (unicode.IsSpace(runes[end-1]) || isTrimPunct(runes[end-1])) {
		end--
	}
	return strings.TrimSpace(string(runes[start:end]))
}
