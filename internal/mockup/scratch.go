package mockup

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// scratch hands out unique file paths inside a private temporary directory
// and removes the directory on close.
type scratch struct {
	dir string
	ext string

	mu sync.Mutex
	n  int
}

func newScratch(parent, prefix string) (*scratch, error) {
	dir, err := os.MkdirTemp(parent, prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &scratch{dir: dir, ext: ".png"}, nil
}

func (s *scratch) path(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return filepath.Join(s.dir, fmt.Sprintf("%02d-%s%s", s.n, name, s.ext))
}

func (s *scratch) close() error {
	return os.RemoveAll(s.dir)
}
