package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/summarizer-cli/internal/utils"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "iris_summary.md")
	if err := utils.SafeWriteFile(path, []byte("| |\n")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "| |\n" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestEnsureDirWorkingDir(t *testing.T) {
	if err := utils.EnsureDir(""); err != nil {
		t.Fatalf("EnsureDir(\"\"): %v", err)
	}
	if err := utils.EnsureDir("."); err != nil {
		t.Fatalf("EnsureDir(.): %v", err)
	}
}
