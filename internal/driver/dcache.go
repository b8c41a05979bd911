package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sexpr/internal/ast"
	"sexpr/internal/source"
)

// Current schema version - increment when TreePayload format changes
const diskCacheSchemaVersion uint16 = 1

// CacheKey identifies a parsed file: content hash plus everything that
// changes the tree produced from it.
type CacheKey [32]byte

// KeyFor builds the cache key for file parsed with the given token limit.
func KeyFor(file *source.File, maxTokens uint32) CacheKey {
	var hdr [6]byte
	binary.BigEndian.PutUint16(hdr[0:2], diskCacheSchemaVersion)
	binary.BigEndian.PutUint32(hdr[2:6], maxTokens)
	h := sha256.New()
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(file.Hash[:])
	var out CacheKey
	copy(out[:], h.Sum(nil))
	return out
}

// DiskCache хранит распарсенные деревья по CacheKey на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// TreePayload is the on-disk form of one successfully parsed file.
type TreePayload struct {
	// Schema version for safe invalidation when format changes
	Schema     uint16
	Path       string
	Hash       [32]byte
	TokenCount int
	Records    []ast.Record
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens (creating if needed) a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "trees", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *TreePayload) error {
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
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key CacheKey, out *TreePayload) (bool, error) {
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
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// StoreTree caches the tree parsed from file.
func (c *DiskCache) StoreTree(key CacheKey, file *source.File, tokenCount int, nodes []ast.Node) error {
	return c.Put(key, &TreePayload{
		Schema:     diskCacheSchemaVersion,
		Path:       file.Path,
		Hash:       file.Hash,
		TokenCount: tokenCount,
		Records:    ast.Flatten(nodes),
	})
}

// LoadTree returns the cached tree for file with spans pointing at file.ID.
// Any read or decode failure is a miss.
func (c *DiskCache) LoadTree(key CacheKey, file *source.File) ([]ast.Node, int, bool) {
	var payload TreePayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok || payload.Hash != file.Hash {
		return nil, 0, false
	}
	for i := range payload.Records {
		payload.Records[i].Span.File = file.ID
	}
	nodes, err := ast.Unflatten(payload.Records)
	if err != nil {
		return nil, 0, false
	}
	return nodes, payload.TokenCount, true
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
