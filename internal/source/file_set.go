package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to
// human-readable positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from raw bytes, computes LineIdx and Hash, and returns a
// new FileID. It always creates a new FileID even if a file with the same
// path was already added.
func (fs *FileSet) Add(path string, content []byte) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
	})
	fs.index[path] = id
	return id
}

// Load reads a file from disk and adds it to the set.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return fs.Add(path, content), nil
}

// Get returns the file for an ID, or nil if the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup returns the FileID previously assigned to path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[path]
	return id, ok
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position resolves a span's start offset to a line/column pair.
func (fs *FileSet) Position(sp Span) (LineCol, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return LineCol{}, false
	}
	return f.Position(sp.Start), true
}

// Position resolves a byte offset within the file to a line/column pair.
// Offsets past the end of the file clamp to the last line.
func (f *File) Position(offset uint32) LineCol {
	line := sort.Search(len(f.LineIdx), func(i int) bool {
		return f.LineIdx[i] > offset
	})
	// line is 1-based already: LineIdx[0] == 0 is always <= offset.
	col := offset
	if line > 0 {
		col = offset - f.LineIdx[line-1]
	}
	return LineCol{
		Line: uint32(line),
		Col:  col + 1,
	}
}

// buildLineIndex records the byte offset of the start of every line.
func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1))
		}
	}
	return idx
}
