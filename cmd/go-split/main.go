package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/tckz/go-chunksplit"
)

var version string

var usage = func() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] input-file...\n", path.Base(os.Args[0]))
	flag.PrintDefaults()
}

// resolveInputs makes every input absolute and requires it to be an existing regular file.
func resolveInputs(files []string) ([]string, error) {
	ret := make([]string, 0, len(files))
	for _, fn := range files {
		abs, err := filepath.Abs(fn)
		if err != nil {
			return nil, fmt.Errorf("Abs: %w", err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("Stat: %w", err)
		}
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("%s is not a regular file", abs)
		}
		ret = append(ret, abs)
	}
	return ret, nil
}

func main() {
	optVersion := flag.Bool("version", false, "Show version")
	optBlockSize := flag.String("block-size", "10MiB", "Maximum size of each chunk file (e.g. 10MiB, 512k, 1048576)")

	param := split.Param{}
	flag.BoolVar(&param.Verbose, "verbose", false, "Verbose output")
	flag.IntVar(&param.Parallelism, "parallelism", 0, "Maximum number of files which split parallely, 0=unlimited")

	flag.Usage = usage
	flag.Parse()

	if *optVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		usage()
		fmt.Fprintf(os.Stderr, "*** One or more input files must be specified\n")
		os.Exit(1)
	}

	if param.Parallelism < 0 {
		usage()
		fmt.Fprintf(os.Stderr, "*** --parallelism must be >= 0\n")
		os.Exit(1)
	}

	blockSize, err := humanize.ParseBytes(*optBlockSize)
	if err != nil || blockSize == 0 || blockSize > 1<<40 {
		usage()
		fmt.Fprintf(os.Stderr, "*** --block-size must be a size between 1 and 1TiB: %s\n", *optBlockSize)
		os.Exit(1)
	}
	param.BlockSize = int64(blockSize)

	files, err = resolveInputs(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "*** %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := split.NewSplitter().Do(ctx, files, param); err != nil {
		fmt.Fprintf(os.Stderr, "*** %v\n", err)
		stop()
		os.Exit(1)
	}
}
