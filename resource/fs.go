package resource

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileSystem is the storage used by a Store.  Paths are resource paths
// such as "res://dir/file.tres".
type FileSystem interface {
	Open(path string) (io.ReadCloser, error)
	// WriteAtomic replaces path with what write produces.  If write fails,
	// the previous content of path is left in place.
	WriteAtomic(path string, write func(io.Writer) error) error
}

// OSFS maps res:// paths to a directory on disk.
type OSFS struct {
	Root string
}

func (o *OSFS) Local(path string) string {
	scheme, rest := splitScheme(path)
	if scheme == "res" {
		return filepath.Join(o.Root, filepath.FromSlash(rest))
	}
	return filepath.FromSlash(rest)
}

func (o *OSFS) Open(path string) (io.ReadCloser, error) {
	return os.Open(o.Local(path))
}

func (o *OSFS) WriteAtomic(path string, write func(io.Writer) error) error {
	local := o.Local(path)
	dir := filepath.Dir(local)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(local)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, local); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// MemFS is an in-memory FileSystem, safe for concurrent use.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: map[string][]byte{}}
}

func (m *MemFS) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(d)), nil
}

func (m *MemFS) WriteAtomic(path string, write func(io.Writer) error) error {
	buf := &bytes.Buffer{}
	if err := write(buf); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = buf.Bytes()
	return nil
}

// WriteFile sets the content of path.
func (m *MemFS) WriteFile(path string, d []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), d...)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), d...), nil
}

func (m *MemFS) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]string, 0, len(m.files))
	for p := range m.files {
		res = append(res, p)
	}
	sort.Strings(res)
	return res
}

func readAll(fsys FileSystem, path string) ([]byte, error) {
	rc, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func splitScheme(p string) (string, string) {
	i := strings.Index(p, "://")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+3:]
}
