package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "nested", "report.json")
	if err := SafeWriteFile(p, []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "{}" {
		t.Fatalf("read back: %q %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSONKeepsHangul(t *testing.T) {
	b, err := PrettyJSON(map[string]string{"title": "총 문의 수"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "총 문의 수") || !strings.Contains(string(b), "\n  ") {
		t.Fatalf("unexpected json: %s", b)
	}
}
