package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"desmir/internal/project"
)

// Bump when the DiskPayload format changes; stale entries read back as
// misses.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores compiled file listings on disk, keyed by a digest of the
// file content and the argument environment. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached form of a FileResult. Only the rendered
// listings survive a round-trip; the structured chunks do not.
type DiskPayload struct {
	Schema uint16

	Path        string
	ContentHash project.Digest
	EnvHash     project.Digest

	UnitNames []string
	UnitLines []int
	UnitTypes []string
	UnitDumps []string

	Errors []string
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
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
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads a payload from the disk cache. A missing entry is not an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
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

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func resultToDiskPayload(res *FileResult, contentHash, envHash project.Digest) *DiskPayload {
	if res == nil {
		return nil
	}
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        res.Path,
		ContentHash: contentHash,
		EnvHash:     envHash,
	}
	for _, u := range res.Units {
		payload.UnitNames = append(payload.UnitNames, u.Name)
		payload.UnitLines = append(payload.UnitLines, u.Line)
		payload.UnitTypes = append(payload.UnitTypes, u.Type)
		payload.UnitDumps = append(payload.UnitDumps, u.Dump)
	}
	for _, err := range res.Errs {
		payload.Errors = append(payload.Errors, err.Error())
	}
	return payload
}

func diskPayloadToResult(payload *DiskPayload) *FileResult {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	if len(payload.UnitLines) != len(payload.UnitNames) ||
		len(payload.UnitTypes) != len(payload.UnitNames) ||
		len(payload.UnitDumps) != len(payload.UnitNames) {
		return nil
	}
	res := &FileResult{Path: payload.Path}
	for i, name := range payload.UnitNames {
		res.Units = append(res.Units, Unit{
			Name: name,
			Line: payload.UnitLines[i],
			Type: payload.UnitTypes[i],
			Dump: payload.UnitDumps[i],
		})
	}
	for _, msg := range payload.Errors {
		res.Errs = append(res.Errs, errors.New(msg))
	}
	return res
}
