package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"astdump/internal/ast"
	"astdump/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores rendered trees keyed by the input content hash.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached rendering.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	ContentHash source.Digest
	Format      string
	TextMode    string
	Rendered    []byte
	Stats       ast.Stats
}

// CacheKey identifies a rendering: the same bytes rendered with different
// settings are cached separately.
type CacheKey source.Digest

// NewCacheKey derives the key for content hashed as contentHash.
func NewCacheKey(contentHash source.Digest, format OutputFormat, textMode string, opts DecodeOptions) CacheKey {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(textMode))
	h.Write([]byte{0})
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(max(opts.MaxDepth, 0)))
	if opts.StrictTrailing {
		buf[8] = 1
	}
	h.Write(buf[:])
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

// OpenDiskCache opens a cache rooted at dir, or at the standard per-user
// location for app when dir is empty.
func OpenDiskCache(app, dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "trees", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries written
// with another schema count as misses.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "trees"))
}
