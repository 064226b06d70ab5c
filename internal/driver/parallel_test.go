package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"desmir/internal/driver"
	"desmir/internal/ir"
	"desmir/internal/lower"
	"desmir/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type recordingSink struct {
	mu     sync.Mutex
	events []driver.Event
}

func (s *recordingSink) OnEvent(evt driver.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *recordingSink) find(file string, status driver.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range s.events {
		if evt.File == file && evt.Status == status {
			return true
		}
	}
	return false
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.dsm", "a = 1 + 2\n")
	writeFile(t, dir, "b.dsm", "b = sin(x)\n")
	bad := writeFile(t, dir, "c.dsm", "c = [1, 2]\n")

	sink := &recordingSink{}
	_, results, err := driver.CompileDir(context.Background(), dir, nil, driver.BatchOptions{
		Jobs: 2,
		Sink: sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	// File order, not completion order.
	for i, want := range []string{"a.dsm", "b.dsm", "c.dsm"} {
		if filepath.Base(results[i].Path) != want {
			t.Errorf("results[%d].Path = %s, want %s", i, results[i].Path, want)
		}
	}
	if results[0].Err() != nil || results[1].Err() != nil {
		t.Errorf("clean files reported errors: %v, %v", results[0].Err(), results[1].Err())
	}
	if results[2].Err() == nil {
		t.Error("c.dsm should fail on the list literal")
	}
	if !sink.find(bad, driver.StatusError) {
		t.Error("no error event for c.dsm")
	}
}

func TestCompileDir_Empty(t *testing.T) {
	_, results, err := driver.CompileDir(context.Background(), t.TempDir(), nil, driver.BatchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %d, want 0", len(results))
	}
}

func TestCompileDir_CacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.dsm", "a = xs * 2\n")

	cache, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	env := lower.Env{"xs": ir.TypeNumberList}
	envHash := project.HashEnv(map[string]string{"xs": "number-list"})
	opts := driver.BatchOptions{Cache: cache, EnvHash: envHash}

	_, cold, err := driver.CompileDir(context.Background(), dir, env, opts)
	if err != nil {
		t.Fatal(err)
	}
	if cold[0].Units[0].Chunk == nil {
		t.Fatal("cold compile should carry the structured chunk")
	}

	sink := &recordingSink{}
	opts.Sink = sink
	_, warm, err := driver.CompileDir(context.Background(), dir, env, opts)
	if err != nil {
		t.Fatal(err)
	}
	unit := warm[0].Units[0]
	if unit.Chunk != nil {
		t.Error("warm compile should come from the cache, without a chunk")
	}
	if unit.Dump != cold[0].Units[0].Dump {
		t.Errorf("cached dump differs:\n%s\nvs\n%s", unit.Dump, cold[0].Units[0].Dump)
	}

	// A different environment hash must miss.
	opts.Sink = nil
	opts.EnvHash = project.HashEnv(map[string]string{"xs": "vec2-list"})
	env2 := lower.Env{"xs": ir.TypeVec2List}
	_, miss, err := driver.CompileDir(context.Background(), dir, env2, opts)
	if err != nil {
		t.Fatal(err)
	}
	if miss[0].Units[0].Chunk == nil {
		t.Error("changed environment should recompile, not hit the cache")
	}
}
