package split

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachPathAll(t *testing.T) {
	var mu sync.Mutex
	called := []string{}

	err := forEachPath(context.Background(), []string{"a", "b", "c"}, 0, func(ctx context.Context, fn string) error {
		mu.Lock()
		defer mu.Unlock()
		called = append(called, fn)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(called)
	assert.Equal(t, []string{"a", "b", "c"}, called)
}

func TestForEachPathFailureDoesNotStopOthers(t *testing.T) {
	errBoom := errors.New("boom")
	var done atomic.Int32

	err := forEachPath(context.Background(), []string{"a", "b", "c", "d"}, 0, func(ctx context.Context, fn string) error {
		if fn == "a" || fn == "c" {
			return errBoom
		}
		// siblings failing must not cancel ctx
		time.Sleep(10 * time.Millisecond)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		done.Add(1)
		return nil
	})

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(2), done.Load())

	msgs := []string{}
	for _, e := range merr.Errors {
		msgs = append(msgs, e.Error())
	}
	sort.Strings(msgs)
	assert.Equal(t, []string{"a: boom", "c: boom"}, msgs)
}

func TestForEachPathParallelism(t *testing.T) {
	var running, peak atomic.Int32

	files := []string{}
	for i := 0; i < 10; i++ {
		files = append(files, fmt.Sprintf("f%d", i))
	}

	err := forEachPath(context.Background(), files, 2, func(ctx context.Context, fn string) error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestForEachPathInvalidParallelism(t *testing.T) {
	err := forEachPath(context.Background(), []string{"a"}, -1, func(ctx context.Context, fn string) error {
		t.Fatal("must not be called")
		return nil
	})
	assert.Error(t, err)
}

func TestForEachPathCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := atomic.Int32{}
	err := forEachPath(ctx, []string{"a", "b"}, 0, func(ctx context.Context, fn string) error {
		called.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), called.Load())
}

func TestForEachPathEmpty(t *testing.T) {
	err := forEachPath(context.Background(), nil, 0, func(ctx context.Context, fn string) error {
		return errors.New("must not be called")
	})
	assert.NoError(t, err)
}

func TestSyncWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &syncWriter{w: buf}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Fprintf(w, "line\n")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50*len("line\n"), buf.Len())
}
