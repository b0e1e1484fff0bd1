package session

import "testing"

func TestNormalizeForMatchStripsPunctuationWhitespaceAndLowercases(t *testing.T) {
	got := normalizeForMatch("  Hello, World!  ")
	if got != "helloworld" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeForMatchKeepsPunctuationOutsideTheNarrowSet(t *testing.T) {
	got := normalizeForMatch("(再见)")
	if got != "(再见)" {
		t.Fatalf("got %q, want parentheses kept", got)
	}
}

func TestNormalizeForMatchIsIdempotent(t *testing.T) {
	in := "  再见，拜拜！ "
	once := normalizeForMatch(in)
	twice := normalizeForMatch(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}

func TestShortPhraseMatchExactEquality(t *testing.T) {
	set := normalizePhraseSet([]string{"再见", "拜拜"})
	if !shortPhraseMatch(normalizeForMatch("再见"), set, 4) {
		t.Fatal("expected exact match")
	}
}

func TestShortPhraseMatchWithinExtraChars(t *testing.T) {
	set := normalizePhraseSet([]string{"再见"})
	// "再见了" (3 runes) vs phrase "再见" (2 runes): extra = 1 <= 4.
	if !shortPhraseMatch(normalizeForMatch("再见了"), set, 4) {
		t.Fatal("expected short-phrase match within extra-char budget")
	}
}

func TestShortPhraseMatchRejectsTooLong(t *testing.T) {
	set := normalizePhraseSet([]string{"再见"})
	long := "再见啊我现在真的要走了谢谢大家"
	if shortPhraseMatch(normalizeForMatch(long), set, 4) {
		t.Fatal("expected long utterance containing the phrase to be rejected")
	}
}

func TestShortPhraseMatchEmptyInputNeverMatches(t *testing.T) {
	set := normalizePhraseSet([]string{"再见"})
	if shortPhraseMatch("", set, 4) {
		t.Fatal("empty input should never match")
	}
}

func TestCleanUserTextTrimsEdgePunctuationAndCollapsesSpaces(t *testing.T) {
	got := cleanUserText("  打开   客厅灯。 ")
	if got != "打开 客厅灯" {
		t.Fatalf("got %q", got)
	}
}
