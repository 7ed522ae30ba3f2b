package split

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

type Unsplitter struct {
	stderr io.Writer
	svc    service
}

func NewUnsplitter() *Unsplitter {
	return &Unsplitter{
		stderr: os.Stderr,
		svc:    &serviceImpl{},
	}
}

// Do reassembles every file concurrently and waits for all of them.
func (u *Unsplitter) Do(ctx context.Context, files []string, param Param) error {
	stderr := &syncWriter{w: u.stderr}
	return forEachPath(ctx, files, param.Parallelism, func(ctx context.Context, fn string) error {
		res, err := u.unsplit(ctx, fn, param, stderr)
		if err != nil {
			return err
		}
		if param.Verbose {
			fmt.Fprintf(stderr, "%s, chunks=%s, total=%s\n",
				fn, humanize.Comma(int64(res.Chunks)), humanize.IBytes(uint64(res.Bytes)))
		}
		return nil
	})
}

// UnsplitFile truncates fn and appends fn.001, fn.002, ... to it, stopping at
// the first missing chunk. Chunk files are left untouched.
func (u *Unsplitter) UnsplitFile(ctx context.Context, fn string, param Param) (Result, error) {
	return u.unsplit(ctx, fn, param, u.stderr)
}

func (u *Unsplitter) unsplit(ctx context.Context, fn string, param Param, stderr io.Writer) (_ Result, retErr error) {
	res := Result{}

	w, err := u.svc.createWriter(fn)
	if err != nil {
		return res, fmt.Errorf("createWriter: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("Close: %w", err)
		}
	}()

	seq := newChunkSeq(u.svc, fn, 1)
	for seq.next() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		name := seq.chunk()
		n, err := u.appendChunk(w, name)
		if err != nil {
			return res, fmt.Errorf("appendChunk %s: %w", name, err)
		}
		res.Chunks++
		res.Bytes += n

		if param.Verbose {
			fmt.Fprintf(stderr, "%s, size=%s\n", name, humanize.IBytes(uint64(n)))
		}
	}
	if err := seq.Err(); err != nil {
		return res, err
	}

	return res, nil
}

func (u *Unsplitter) appendChunk(w io.Writer, fn string) (int64, error) {
	cleanups := &cleanups{}
	defer cleanups.do()

	r, err := u.svc.createReader(fn)
	if err != nil {
		return 0, fmt.Errorf("createReader: %w", err)
	}
	cleanups.add(func() { r.Close() })

	n, err := io.Copy(w, r)
	if err != nil {
		return n, fmt.Errorf("Copy: %w", err)
	}
	return n, nil
}
