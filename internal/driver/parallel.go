package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/parser"
	"tunedb/internal/source"
	"tunedb/internal/storage"
)

// ParseAllResult holds one cached tune's parse outcome.
type ParseAllResult struct {
	ID     uint32
	FileID source.FileID
	Tunes  []*ast.Tune
	Bag    *diag.Bag
}

// ParseAll parses the whole cache in parallel. Buffers are registered
// in the FileSet up front, sequentially; the workers then only read,
// so the set needs no locking. Result order follows ascending id.
func ParseAll(ctx context.Context, cache *storage.Cache, maxDiagnostics, jobs int) (*source.FileSet, []ParseAllResult, error) {
	ids := cache.IDs()
	fileSet := source.NewFileSet()
	if len(ids) == 0 {
		return fileSet, nil, nil
	}

	results := make([]ParseAllResult, len(ids))
	for i, id := range ids {
		content, _ := cache.Get(id)
		fileID := fileSet.AddVirtual(fmt.Sprintf("%d.abc", id), []byte(content))
		results[i] = ParseAllResult{ID: id, FileID: fileID}
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ids)))

	for i := range results {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)
			maxErrors := uint(0)
			if maxDiagnostics > 0 {
				maxErrors = uint(maxDiagnostics)
			}
			res := parser.ParseFile(fileSet, fileSet.Get(results[i].FileID), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: maxErrors,
			})

			// Index i is unique per goroutine; no mutex needed.
			results[i].Tunes = res.Tunes
			results[i].Bag = bag
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
