package split

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

type service interface {
	createWriter(fn string) (io.WriteCloser, error)
	createReader(fn string) (io.ReadCloser, error)
	exists(fn string) (bool, error)
	remove(fn string) error
}

type serviceImpl struct{}

func (s *serviceImpl) createWriter(fn string) (io.WriteCloser, error) {
	fp, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	return fp, nil
}

func (s *serviceImpl) createReader(fn string) (io.ReadCloser, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	return fp, nil
}

// exists reports false only for a missing file. Any other stat failure is an error.
func (s *serviceImpl) exists(fn string) (bool, error) {
	fi, err := os.Stat(fn)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if fi.IsDir() {
		return false, fmt.Errorf("%s is a directory", fn)
	}
	return true, nil
}

func (s *serviceImpl) remove(fn string) error {
	return os.Remove(fn)
}
