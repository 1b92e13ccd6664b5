package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/nubank/chat-assistant/internal"
)

// Store writes uploaded files into a single local directory. Names are used
// as given and a second upload under the same name replaces the first.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// Save copies r to <dir>/<filename>, creating dir if needed.
func (s *Store) Save(filename string, r io.Reader) (int64, error) {
	path := filepath.Join(s.dir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, internal.NewUploadFailureError(err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, internal.NewUploadFailureError(err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, internal.NewUploadFailureError(err)
	}
	return n, nil
}

// List returns the regular files in the directory sorted by name. A missing
// directory lists as empty.
func (s *Store) List() ([]internal.UploadedFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []internal.UploadedFile{}, nil
		}
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	files := make([]internal.UploadedFile, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, internal.UploadedFile{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
