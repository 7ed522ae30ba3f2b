package split

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

type Splitter struct {
	stderr io.Writer
	svc    service
}

func NewSplitter() *Splitter {
	return &Splitter{
		stderr: os.Stderr,
		svc:    &serviceImpl{},
	}
}

// Do splits every file concurrently and waits for all of them.
func (s *Splitter) Do(ctx context.Context, files []string, param Param) error {
	if param.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", param.BlockSize)
	}

	stderr := &syncWriter{w: s.stderr}
	return forEachPath(ctx, files, param.Parallelism, func(ctx context.Context, fn string) error {
		res, err := s.split(ctx, fn, param, stderr)
		if err != nil {
			return err
		}
		if param.Verbose {
			fmt.Fprintf(stderr, "%s, chunks=%s, total=%s, removed=%s\n",
				fn, humanize.Comma(int64(res.Chunks)), humanize.IBytes(uint64(res.Bytes)), humanize.Comma(int64(res.Removed)))
		}
		return nil
	})
}

// SplitFile writes fn in blocks of param.BlockSize bytes to fn.001, fn.002, ...
// and then removes chunk files left over beyond the last one written.
// An empty fn produces no chunks and removes every existing chunk.
func (s *Splitter) SplitFile(ctx context.Context, fn string, param Param) (Result, error) {
	if param.BlockSize <= 0 {
		return Result{}, fmt.Errorf("block size must be > 0: %d", param.BlockSize)
	}
	return s.split(ctx, fn, param, s.stderr)
}

func (s *Splitter) split(ctx context.Context, fn string, param Param, stderr io.Writer) (Result, error) {
	cleanups := &cleanups{}
	defer cleanups.do()

	res := Result{}

	r, err := s.svc.createReader(fn)
	if err != nil {
		return res, fmt.Errorf("createReader: %w", err)
	}
	cleanups.add(func() { r.Close() })

	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// no chunk file for an empty tail
		if _, err := br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("Peek: %w", err)
		}

		name := ChunkName(fn, res.Chunks+1)
		n, err := s.writeChunk(name, br, param.BlockSize)
		if err != nil {
			return res, fmt.Errorf("writeChunk %s: %w", name, err)
		}
		res.Chunks++
		res.Bytes += n

		if param.Verbose {
			fmt.Fprintf(stderr, "%s, size=%s\n", name, humanize.IBytes(uint64(n)))
		}
	}

	removed, err := s.removeStale(fn, res.Chunks)
	res.Removed = removed
	if err != nil {
		return res, fmt.Errorf("removeStale: %w", err)
	}

	return res, nil
}

// writeChunk copies at most size bytes of r into fn.
func (s *Splitter) writeChunk(fn string, r io.Reader, size int64) (_ int64, retErr error) {
	w, err := s.svc.createWriter(fn)
	if err != nil {
		return 0, fmt.Errorf("createWriter: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("Close: %w", err)
		}
	}()

	n, err := io.CopyN(w, r, size)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("CopyN: %w", err)
	}
	return n, nil
}

// removeStale deletes fn.(last+1), fn.(last+2), ... until one is missing.
// A chunk vanishing between the probe and the removal is an error.
func (s *Splitter) removeStale(fn string, last int) (int, error) {
	removed := 0
	seq := newChunkSeq(s.svc, fn, last+1)
	for seq.next() {
		name := seq.chunk()
		if err := s.svc.remove(name); err != nil {
			return removed, fmt.Errorf("remove: %w", err)
		}
		removed++
	}
	return removed, seq.Err()
}
