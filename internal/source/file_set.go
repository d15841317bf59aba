package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// ErrTooLarge is returned by Load when a file exceeds the configured limit.
type ErrTooLarge struct {
	Path  string
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("%s: file exceeds %d bytes", e.Path, e.Limit)
}

// FileSet manages the input files of one invocation. Safe for concurrent use.
type FileSet struct {
	mu      sync.RWMutex
	files   []File
	index   map[string]FileID // path -> latest id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet that formats paths relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the base directory for relative paths, defaulting to the
// working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores content under path, computes its hash and returns a new FileID.
// It always creates a new FileID even if the path was seen before.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	normalizedPath := normalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk. The handle is closed on every path. A
// positive limit rejects files larger than limit bytes with *ErrTooLarge.
func (fileSet *FileSet) Load(path string, limit int64) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	if limit > 0 && int64(len(content)) > limit {
		return 0, &ErrTooLarge{Path: path, Limit: limit}
	}
	return fileSet.Add(path, content, 0), nil
}

// AddVirtual adds an in-memory file (stdin, test, or generated).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file for the given ID, or nil if it is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetByPath returns the latest file loaded under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Len returns the number of files added so far.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// FormatSpan renders a span as "path:@0xSTART" (or "path:@0xSTART-0xEND").
func (fileSet *FileSet) FormatSpan(span Span, mode string) string {
	f := fileSet.Get(span.File)
	path := "<unknown>"
	if f != nil {
		path = f.FormatPath(mode, fileSet.BaseDir())
	}
	if span.Empty() {
		return fmt.Sprintf("%s:@0x%04x", path, span.Start)
	}
	return fmt.Sprintf("%s:@0x%04x-0x%04x", path, span.Start, span.End)
}

// FormatPath formats the file path according to mode:
// absolute, relative (to baseDir), basename or auto.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil {
			return filepath.ToSlash(rel)
		}
		return f.Path

	case "basename":
		return filepath.Base(f.Path)

	case "auto":
		// short or relative paths as is, otherwise the basename
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return filepath.Base(f.Path)

	default:
		return f.Path
	}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
