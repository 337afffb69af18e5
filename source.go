package canopy

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Source resolves a logical document path to its bytes.
type Source interface {
	ReadDocument(name string) ([]byte, error)
}

// FileSource reads documents from a billy filesystem. Paths are slash
// separated and relative to the filesystem root.
type FileSource struct {
	fs billy.Filesystem
}

// NewFileSource wraps an existing billy filesystem (osfs, memfs, chroot...).
func NewFileSource(fs billy.Filesystem) *FileSource {
	return &FileSource{fs: fs}
}

// NewDirSource reads documents from a directory on disk.
func NewDirSource(dir string) *FileSource {
	return &FileSource{fs: osfs.New(dir)}
}

// Filesystem returns the underlying filesystem.
func (s *FileSource) Filesystem() billy.Filesystem {
	return s.fs
}

// ReadDocument implements Source. Missing files unwrap to ErrSourceNotFound.
func (s *FileSource) ReadDocument(name string) ([]byte, error) {
	clean := path.Clean("/" + name)[1:]
	data, err := util.ReadFile(s.fs, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
		}
		return nil, fmt.Errorf("canopy: read %s: %w", name, err)
	}
	return data, nil
}
