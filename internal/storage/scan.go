package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ScanEvent reports scanner progress: Done of Total files read so far.
type ScanEvent struct {
	Done  int
	Total int
	Path  string
}

// ProgressFunc receives scan events. May be called from several
// goroutines; nil disables reporting.
type ProgressFunc func(ScanEvent)

// ScanDir walks dir for tune files named <id>.abc and loads the ones
// whose id is not yet cached. Files already in the cache are skipped
// without touching the disk, so rescans of a large corpus are cheap.
// Returns the number of tunes added.
func ScanDir(ctx context.Context, dir string, cache *Cache, jobs int, progress ProgressFunc) (int, error) {
	files, err := listTuneFiles(dir)
	if err != nil {
		return 0, err
	}

	// Only previously-unseen ids are read.
	fresh := make([]tuneFile, 0, len(files))
	for _, tf := range files {
		if !cache.Has(tf.id) {
			fresh = append(fresh, tf)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(fresh)))

	for _, tf := range fresh {
		tf := tf
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			content, err := os.ReadFile(tf.path)
			if err != nil {
				return err
			}
			cache.Put(tf.id, string(content))

			if progress != nil {
				progress(ScanEvent{
					Done:  int(done.Add(1)),
					Total: len(fresh),
					Path:  tf.path,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(done.Load()), err
	}
	return len(fresh), nil
}

type tuneFile struct {
	id   uint32
	path string
}

// listTuneFiles returns every <id>.abc under dir, sorted by id for a
// deterministic scan order.
func listTuneFiles(dir string) ([]tuneFile, error) {
	var files []tuneFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".abc") {
			return nil
		}
		base := strings.TrimSuffix(filepath.Base(path), ".abc")
		id, convErr := strconv.ParseUint(base, 10, 32)
		if convErr != nil {
			// Not an id-named tune file; ignore.
			return nil
		}
		files = append(files, tuneFile{id: uint32(id), path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].id < files[j].id })
	return files, nil
}
