package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DropsBlankLinesAndTrims(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proxies.txt")
	content := "1.2.3.4:8080\r\n\n   \n  5.6.7.8:3128  \nnot-a-proxy\n"
	if err := os.WriteFile(in, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	lines, err := NewFileStorage(in, filepath.Join(dir, "out.txt")).Load()
	if err != nil {
		t.Fatalf("Load() returned an error: %v", err)
	}
	want := []string{"1.2.3.4:8080", "5.6.7.8:3128", "not-a-proxy"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, but got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Expected line %d to be '%s', but got '%s'", i, want[i], lines[i])
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "missing.txt"), "out.txt")
	if _, err := fs.Load(); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("Expected ErrInputNotFound, but got %v", err)
	}
}

func TestSave_WritesOneLinePerEntry(t *testing.T) {
	out := filepath.Join(t.TempDir(), "working.txt")
	fs := NewFileStorage("unused", out)

	if err := fs.Save([]string{"http://1.2.3.4:80", "socks5://5.6.7.8:1080"}); err != nil {
		t.Fatalf("Save() returned an error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if want := "http://1.2.3.4:80\nsocks5://5.6.7.8:1080\n"; string(data) != want {
		t.Errorf("Expected output %q, but got %q", want, string(data))
	}
	if fs.OutputPath() != out {
		t.Errorf("Expected OutputPath '%s', but got '%s'", out, fs.OutputPath())
	}
}
