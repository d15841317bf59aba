package source

type (
	// FileID uniquely identifies an input file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about an input file.
	FileFlags uint8
	// Digest is a SHA-256 content hash.
	Digest [32]byte
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileTruncated marks content cut short by the load limit.
	FileTruncated
)

// File captures metadata and content for a single input file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    Digest
	Flags   FileFlags
}

// Size returns the content length in bytes.
func (f *File) Size() int { return len(f.Content) }
