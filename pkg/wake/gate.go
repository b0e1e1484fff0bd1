package wake

import "strings"

// Gate forwards capture blocks to a grammar-restricted Recognizer while the
// controller is IDLE and reports whether either hypothesis matches one of
// the configured wake phrases.
type Gate struct {
	rec     Recognizer
	phrases []string // normalized, deduplicated, order-preserving
}

// New builds the recognizer's grammar from phrases (tokenized, deduplicated)
// and its normalized match set (deduplicated), then primes the recognizer.
func New(rec Recognizer, phrases []string) (*Gate, error) {
	grammar := dedupNonEmpty(mapSlice(phrases, toGrammarPhrase))
	if err := rec.SetGrammar(grammar); err != nil {
		return nil, err
	}
	return &Gate{
		rec:     rec,
		phrases: dedupNonEmpty(mapSlice(phrases, normalize)),
	}, nil
}

// Feed submits one PCM block and returns true iff either the recognizer's
// final or partial hypothesis, once normalized, contains one of the
// configured wake phrases as a substring.
func (g *Gate) Feed(pcm []byte) (bool, error) {
	final, partial, err := g.rec.Feed(pcm)
	if err != nil {
		return false, err
	}
	if g.matches(final) {
		return true, nil
	}
	return g.matches(partial), nil
}

// Reset rebuilds the recognizer to clear accumulated hypothesis state.
func (g *Gate) Reset() error {
	return g.rec.Reset()
}

func (g *Gate) matches(hypothesis string) bool {
	text := normalize(hypothesis)
	if text == "" {
		return false
	}
	for _, p := range g.phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func mapSlice(in []string, f func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}

func dedupNonEmpty(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
