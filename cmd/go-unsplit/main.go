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

	"github.com/tckz/go-chunksplit"
)

var version string

var usage = func() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] target-file...\n", path.Base(os.Args[0]))
	flag.PrintDefaults()
}

// resolveTargets makes every target absolute. Targets are created by unsplit,
// so they need not exist yet.
func resolveTargets(files []string) ([]string, error) {
	ret := make([]string, 0, len(files))
	for _, fn := range files {
		abs, err := filepath.Abs(fn)
		if err != nil {
			return nil, fmt.Errorf("Abs: %w", err)
		}
		ret = append(ret, abs)
	}
	return ret, nil
}

func main() {
	optVersion := flag.Bool("version", false, "Show version")

	param := split.Param{}
	flag.BoolVar(&param.Verbose, "verbose", false, "Verbose output")
	flag.IntVar(&param.Parallelism, "parallelism", 0, "Maximum number of files which unsplit parallely, 0=unlimited")

	flag.Usage = usage
	flag.Parse()

	if *optVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		usage()
		fmt.Fprintf(os.Stderr, "*** One or more target files must be specified\n")
		os.Exit(1)
	}

	if param.Parallelism < 0 {
		usage()
		fmt.Fprintf(os.Stderr, "*** --parallelism must be >= 0\n")
		os.Exit(1)
	}

	files, err := resolveTargets(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "*** %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := split.NewUnsplitter().Do(ctx, files, param); err != nil {
		fmt.Fprintf(os.Stderr, "*** %v\n", err)
		stop()
		os.Exit(1)
	}
}
