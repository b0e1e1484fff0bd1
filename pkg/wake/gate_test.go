package wake

import "testing"

type fakeRecognizer struct {
	grammar  []string
	resets   int
	final    string
	partial  string
	feedErr  error
	lastFeed []byte
}

func (f *fakeRecognizer) SetGrammar(phrases []string) error {
	f.grammar = phrases
	return nil
}

func (f *fakeRecognizer) Reset() error {
	f.resets++
	return nil
}

func (f *fakeRecognizer) Feed(pcm []byte) (string, string, error) {
	f.lastFeed = pcm
	return f.final, f.partial, f.feedErr
}

func TestNewBuildsDedupedGrammarAndPhraseSet(t *testing.T) {
	rec := &fakeRecognizer{}
	g, err := New(rec, []string{"老 管家", "老管家", "你好，米奇"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "老 管家" keeps its token split in the grammar, so it stays distinct
	// from "老管家"; only the normalized match set collapses the two.
	if len(rec.grammar) != 3 {
		t.Fatalf("expected 3 deduped grammar phrases, got %v", rec.grammar)
	}
	if len(g.phrases) != 2 {
		t.Fatalf("expected 2 deduped normalized phrases, got %v", g.phrases)
	}
}

func TestFeedMatchesOnFinalHypothesis(t *testing.T) {
	rec := &fakeRecognizer{final: "老管家你好"}
	g, _ := New(rec, []string{"老管家"})
	matched, err := g.Feed([]byte{0, 1})
	if err != nil || !matched {
		t.Fatalf("expected match, got matched=%v err=%v", matched, err)
	}
}

func TestFeedMatchesOnPartialHypothesis(t *testing.T) {
	rec := &fakeRecognizer{partial: "你说老管家了吗"}
	g, _ := New(rec, []string{"老管家"})
	matched, _ := g.Feed([]byte{0, 1})
	if !matched {
		t.Fatal("expected substring match against partial hypothesis")
	}
}

func TestFeedNoMatch(t *testing.T) {
	rec := &fakeRecognizer{final: "今天天气真好"}
	g, _ := New(rec, []string{"老管家"})
	matched, _ := g.Feed([]byte{0, 1})
	if matched {
		t.Fatal("did not expect a match")
	}
}

func TestResetDelegatesToRecognizer(t *testing.T) {
	rec := &fakeRecognizer{}
	g, _ := New(rec, []string{"老管家"})
	if err := g.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.resets != 1 {
		t.Fatalf("expected recognizer reset once, got %d", rec.resets)
	}
}
