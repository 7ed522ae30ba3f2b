package split

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Param holds the options shared by Splitter and Unsplitter.
type Param struct {
	Verbose bool
	// BlockSize is the maximum size of a chunk written by Splitter. Unsplitter ignores it.
	BlockSize int64
	// Parallelism bounds the number of paths processed at once. 0 means no limit.
	Parallelism int
}

// Result describes the outcome of processing one path.
type Result struct {
	Chunks  int
	Bytes   int64
	Removed int
}

type pathFunc func(ctx context.Context, fn string) error

// forEachPath runs f for every file and waits for all of them.
// A failing path never cancels the others. Errors of all failed paths are
// returned together.
func forEachPath(ctx context.Context, files []string, parallelism int, f pathFunc) error {
	if parallelism < 0 {
		return fmt.Errorf("parallelism must be >= 0: %d", parallelism)
	}

	var mu sync.Mutex
	var retErr error

	eg := &errgroup.Group{}
	if parallelism > 0 {
		eg.SetLimit(parallelism)
	}

	for _, fn := range files {
		eg.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = f(ctx, fn)
			}
			if err != nil {
				mu.Lock()
				retErr = multierror.Append(retErr, fmt.Errorf("%s: %w", fn, err))
				mu.Unlock()
			}
			return nil
		})
	}
	eg.Wait()

	return retErr
}

// syncWriter serializes progress lines written by concurrent tasks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
