package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAppendCreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	w := New(path)

	if err := w.Append("first entry\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append("second entry\n"); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "first entry\nsecond entry\n" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w := New(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := w.Append(fmt.Sprintf("record %02d\n", n)); err != nil {
				t.Errorf("append %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("%d lines, want 20", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "record ") {
			t.Fatalf("interleaved line %q", line)
		}
	}
}
