package upload_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nubank/chat-assistant/internal"
	"github.com/nubank/chat-assistant/internal/upload"
)

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	s := upload.NewStore(dir)

	n, err := s.Save("notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 5 {
		t.Fatalf("written: got %d want 5", n)
	}
	b, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("content: got %q", b)
	}
}

func TestSave_LastWriteWins(t *testing.T) {
	dir := t.TempDir()
	s := upload.NewStore(dir)

	if _, err := s.Save("a.bin", strings.NewReader("first version, longer")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := s.Save("a.bin", strings.NewReader("second")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.bin"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "second" {
		t.Fatalf("content: got %q want %q", b, "second")
	}
}

func TestSave_FailureIsUploadFailure(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the directory should be makes MkdirAll fail.
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("prep: %v", err)
	}
	s := upload.NewStore(blocker)

	_, err := s.Save("a.txt", strings.NewReader("data"))
	if !internal.IsUploadFailure(err) {
		t.Fatalf("expected upload failure, got %v", err)
	}
	if !strings.HasPrefix(internal.Detail(err), "File upload failed: ") {
		t.Fatalf("detail: %q", internal.Detail(err))
	}
}

func TestList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := upload.NewStore(dir)

	files, err := s.List()
	if err != nil {
		t.Fatalf("list missing dir: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}

	_, _ = s.Save("b.txt", strings.NewReader("bb"))
	_, _ = s.Save("a.txt", strings.NewReader("a"))
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("prep: %v", err)
	}

	files, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []internal.UploadedFile{{Name: "a.txt", Size: 1}, {Name: "b.txt", Size: 2}}
	if len(files) != len(want) {
		t.Fatalf("files: got %v want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("mismatch at %d: got %+v want %+v", i, files[i], want[i])
		}
	}
}
