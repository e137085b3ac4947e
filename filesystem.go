package scripthost

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// File is an open script file.
type File interface {
	ReadAll() ([]byte, error)
	Close() error
}

// FileSystem opens script files for RunScriptFile. Errors carry a
// human-readable description that is shown to the user as-is.
type FileSystem interface {
	Open(path string) (File, error)
}

type readerFile struct {
	r io.ReadCloser
}

func (f *readerFile) ReadAll() ([]byte, error) {
	return io.ReadAll(f.r)
}

func (f *readerFile) Close() error {
	return f.r.Close()
}

// OSFileSystem opens files from the host operating system.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (OSFileSystem) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &readerFile{r: f}, nil
}

// FSFileSystem opens files from an fs.FS, such as an embedded script tree or
// os.DirFS rooted at a script directory.
type FSFileSystem struct {
	fsys fs.FS
}

func NewFSFileSystem(fsys fs.FS) *FSFileSystem {
	return &FSFileSystem{fsys: fsys}
}

func (s *FSFileSystem) Open(path string) (File, error) {
	f, err := s.fsys.Open(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	return &readerFile{r: f}, nil
}

// MemoryFileSystem serves files from an in-memory map. A nil entry models a
// file that opens but cannot be read.
type MemoryFileSystem struct {
	files map[string][]byte
}

var errUnreadable = errors.New("file is not readable")

func NewMemoryFileSystem(files map[string]string) *MemoryFileSystem {
	m := &MemoryFileSystem{files: make(map[string][]byte, len(files))}
	for path, contents := range files {
		body := make([]byte, len(contents))
		copy(body, contents)
		m.files[path] = body
	}
	return m
}

// Put adds or replaces a file. A nil body makes the file unreadable.
func (m *MemoryFileSystem) Put(path string, body []byte) {
	m.files[path] = body
}

func (m *MemoryFileSystem) Open(path string) (File, error) {
	body, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return &memoryFile{body: body}, nil
}

type memoryFile struct {
	body []byte
}

func (f *memoryFile) ReadAll() ([]byte, error) {
	if f.body == nil {
		return nil, errUnreadable
	}
	out := make([]byte, len(f.body))
	copy(out, f.body)
	return out, nil
}

func (f *memoryFile) Close() error {
	return nil
}
