package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"desmir/internal/lower"
	"desmir/internal/project"
	"desmir/internal/source"
)

// Stage describes a pipeline phase for progress reporting.
type Stage string

const (
	// StageParse covers tokenizing and parsing.
	StageParse Stage = "parse"
	// StageLower covers lowering and validation.
	StageLower Stage = "lower"
	// StageCached marks a file served from the disk cache.
	StageCached Stage = "cached"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being compiled.
	StatusWorking Status = "working"
	// StatusDone indicates the file compiled without errors.
	StatusDone Status = "done"
	// StatusError indicates the file produced errors.
	StatusError Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// BatchOptions configures a directory compile.
type BatchOptions struct {
	// Jobs bounds compile parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Sink receives per-file progress events. May be nil.
	Sink ProgressSink
	// Cache, when non-nil, serves unchanged files from disk and stores
	// fresh results. EnvHash must cover the argument environment so a
	// manifest edit invalidates hits.
	Cache   *DiskCache
	EnvHash project.Digest
	// Files restricts the compile to an explicit list instead of walking
	// the directory.
	Files []string
}

// ListSourceFiles returns the sorted list of .dsm files under dir.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".dsm") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CompileDir compiles every source file under dir in parallel. Results come
// back in file order regardless of completion order. Load failures surface
// as per-file errors, not as a batch failure.
func CompileDir(ctx context.Context, dir string, env lower.Env, opts BatchOptions) (*source.FileSet, []*FileResult, error) {
	files := opts.Files
	if files == nil {
		var err error
		files, err = ListSourceFiles(dir)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(files) == 0 {
		return source.NewFileSet(), nil, nil
	}

	fileSet := source.NewFileSet()
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	emit := func(evt Event) {
		if opts.Sink != nil {
			opts.Sink.OnEvent(evt)
		}
	}
	for _, path := range files {
		emit(Event{File: path, Status: StatusQueued})
	}

	// Indexes are unique per goroutine, no mutex needed.
	results := make([]*FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			if loadErr, failed := loadErrors[path]; failed {
				results[i] = &FileResult{Path: path, Errs: []error{loadErr}}
				emit(Event{File: path, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			key := project.Combine(file.Hash, opts.EnvHash)

			if opts.Cache != nil {
				var payload DiskPayload
				if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
					if res := diskPayloadToResult(&payload); res != nil {
						results[i] = res
						emit(Event{File: path, Stage: StageCached, Status: statusOf(res), Elapsed: time.Since(started)})
						return nil
					}
				}
			}

			emit(Event{File: path, Stage: StageParse, Status: StatusWorking})
			res := CompileFile(fileSet, fileIDs[path], env)
			results[i] = res
			if opts.Cache != nil {
				// Cache failures are not compile failures.
				_ = opts.Cache.Put(key, resultToDiskPayload(res, file.Hash, opts.EnvHash))
			}
			emit(Event{File: path, Stage: StageLower, Status: statusOf(res), Err: res.Err(), Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func statusOf(res *FileResult) Status {
	if len(res.Errs) > 0 {
		return StatusError
	}
	return StatusDone
}
