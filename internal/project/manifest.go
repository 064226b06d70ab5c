// Package project holds the graph manifest and content hashing shared by the
// batch driver and the cache.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"desmir/internal/ir"
	"desmir/internal/lower"
)

// ManifestName is the file the driver looks for at the project root.
const ManifestName = "graph.toml"

// Manifest describes one graph project: which source files belong to it and
// the declared types of the identifiers its expressions are free in.
type Manifest struct {
	Name  string            `toml:"name"`
	Files []string          `toml:"files"`
	Args  map[string]string `toml:"args"`

	// Dir is where the manifest was loaded from; file paths resolve
	// relative to it. Not part of the TOML surface.
	Dir string `toml:"-"`
}

// LoadManifest reads and decodes a graph.toml.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load %s: unknown key %q", path, undecoded[0].String())
	}
	if m.Name == "" {
		return nil, fmt.Errorf("load %s: missing project name", path)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// Env resolves the manifest's declared argument types. Spellings follow the
// value type names ("number", "vec2-list", ...).
func (m *Manifest) Env() (lower.Env, error) {
	env := make(lower.Env, len(m.Args))
	for name, spelling := range m.Args {
		t, err := ir.ParseValueType(spelling)
		if err != nil {
			return nil, fmt.Errorf("arg %q: %w", name, err)
		}
		env[name] = t
	}
	return env, nil
}

// SourcePaths returns the manifest's file list resolved against its
// directory. An empty list means every .dsm file under the directory.
func (m *Manifest) SourcePaths() []string {
	if len(m.Files) == 0 {
		return nil
	}
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		if filepath.IsAbs(f) {
			paths[i] = f
		} else {
			paths[i] = filepath.Join(m.Dir, f)
		}
	}
	return paths
}

// FindManifest walks up from startDir to locate graph.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the directory containing graph.toml, if any.
func FindRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(path), true, nil
}
