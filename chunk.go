package split

import "fmt"

// DefaultBlockSize is the maximum number of bytes written into one chunk file.
const DefaultBlockSize int64 = 10 * 1024 * 1024

// ChunkName returns the path of the index-th chunk of fn.
// Index starts at 1. Indices above 999 widen to 4 or more digits.
func ChunkName(fn string, index int) string {
	return fmt.Sprintf("%s.%03d", fn, index)
}

// chunkSeq probes fn.NNN from start upward and stops at the first index
// which does not exist. Once stopped it stays stopped.
type chunkSeq struct {
	svc   service
	fn    string
	index int
	name  string
	done  bool
	err   error
}

func newChunkSeq(svc service, fn string, start int) *chunkSeq {
	return &chunkSeq{
		svc:   svc,
		fn:    fn,
		index: start - 1,
	}
}

func (s *chunkSeq) next() bool {
	if s.done || s.err != nil {
		return false
	}

	s.index++
	name := ChunkName(s.fn, s.index)
	exists, err := s.svc.exists(name)
	if err != nil {
		s.err = fmt.Errorf("exists %s: %w", name, err)
		return false
	}
	if !exists {
		s.done = true
		return false
	}
	s.name = name
	return true
}

func (s *chunkSeq) chunk() string {
	return s.name
}

func (s *chunkSeq) Err() error {
	return s.err
}
