package recognizer

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// fakeRecognizerScript, when run as `sh <script>`, behaves as a minimal
// stand-in for an external recognizer process: it echoes back a canned
// response for every request line, letting Subprocess's framing be tested
// without depending on a real speech engine.
const fakeRecognizerScript = `
while IFS= read -r line; do
  case "$line" in
    *'"type":"grammar"'*) echo '{}' ;;
    *'"type":"reset"'*) echo '{}' ;;
    *'"type":"feed"'*) echo '{"partial":"老管家你好"}' ;;
    *) echo '{"error":"unknown message"}' ;;
  esac
done
`

func newFakeRecognizer(t *testing.T) *Subprocess {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	f, err := os.CreateTemp("", "fake-recognizer-*.sh")
	if err != nil {
		t.Fatalf("create temp script: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	if _, err := f.WriteString(fakeRecognizerScript); err != nil {
		t.Fatalf("write script: %v", err)
	}
	f.Close()
	return NewSubprocess("sh", f.Name())
}

func TestSubprocessFeedReturnsPartialHypothesis(t *testing.T) {
	rec := newFakeRecognizer(t)
	defer rec.Close()

	if err := rec.SetGrammar([]string{"老管家"}); err != nil {
		t.Fatalf("SetGrammar: %v", err)
	}
	final, partial, err := rec.Feed([]byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if final != "" || partial != "老管家你好" {
		t.Fatalf("got final=%q partial=%q", final, partial)
	}
}

func TestSubprocessResetSucceeds(t *testing.T) {
	rec := newFakeRecognizer(t)
	defer rec.Close()
	if err := rec.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
}

func TestFeedMessageBase64EncodesPCM(t *testing.T) {
	msg := feedMessage{Type: "feed", PCM: []byte{0xff, 0x00, 0x10}}
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		PCM []byte `json:"pcm"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.PCM) != 3 || decoded.PCM[0] != 0xff {
		t.Fatalf("round trip mismatch: %v", decoded.PCM)
	}
}

func TestResponseLineScannerHandlesMultipleLines(t *testing.T) {
	sc := bufio.NewScanner(mustReader(t, "{\"partial\":\"a\"}\n{\"text\":\"b\"}\n"))
	var lines []responseLine
	for sc.Scan() {
		var r responseLine
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		lines = append(lines, r)
	}
	if len(lines) != 2 || lines[0].Partial != "a" || lines[1].Text != "b" {
		t.Fatalf("got %+v", lines)
	}
}

func mustReader(t *testing.T, s string) io.Reader {
	t.Helper()
	return strings.NewReader(s)
}
