package quota

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Tail sizes used by the engine. Only this many trailing bytes are ever
// held in memory, whatever the size of the log.
const (
	ProjectPointerTailBytes int64 = 1024
	ModelMarkerTailBytes    int64 = 100 * 1024
	HistoryChunkBytes             = 64 * 1024
)

// ReadTail returns the last maxBytes of the file at path using a single
// bounded read. A missing file yields "" and a nil error.
func ReadTail(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	size := min(info.Size(), maxBytes)
	if size <= 0 {
		return "", nil
	}

	buf := make([]byte, size)
	n, err := f.ReadAt(buf, info.Size()-size)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read tail of %s: %w", path, err)
	}
	return string(buf[:n]), nil
}

// ReverseScanner yields the lines of a file newest-first, reading it backward
// in fixed-size chunks. The partial line at the start of each chunk is carried
// over and completed by the next (earlier) chunk. Memory use is bounded by the
// chunk size plus the longest line.
type ReverseScanner struct {
	r         io.ReaderAt
	buf       []byte
	remainder []byte
	pending   [][]byte
	line      []byte
	err       error
	pos       int64
}

// NewReverseScanner starts a backward scan over the first size bytes of r.
func NewReverseScanner(r io.ReaderAt, size int64, chunkSize int) *ReverseScanner {
	if chunkSize <= 0 {
		chunkSize = HistoryChunkBytes
	}
	return &ReverseScanner{
		r:   r,
		buf: make([]byte, chunkSize),
		pos: size,
	}
}

// Scan advances to the next line, moving to an earlier chunk when the
// current one is exhausted. It returns false at the start of the file or on
// a read error.
func (s *ReverseScanner) Scan() bool {
	for len(s.pending) == 0 {
		if s.err != nil || s.pos <= 0 {
			return false
		}
		s.readChunk()
	}

	last := len(s.pending) - 1
	s.line = s.pending[last]
	s.pending = s.pending[:last]
	return true
}

// Text returns the current line without its trailing newline.
func (s *ReverseScanner) Text() string {
	return string(s.line)
}

// Bytes returns the current line. The slice is only valid until the next Scan.
func (s *ReverseScanner) Bytes() []byte {
	return s.line
}

// Err returns the first read error encountered, if any.
func (s *ReverseScanner) Err() error {
	return s.err
}

func (s *ReverseScanner) readChunk() {
	start := max(0, s.pos-int64(len(s.buf)))
	chunk := s.buf[:s.pos-start]
	if _, err := s.r.ReadAt(chunk, start); err != nil && !errors.Is(err, io.EOF) {
		s.err = fmt.Errorf("read chunk at %d: %w", start, err)
		return
	}
	s.pos = start

	joined := make([]byte, 0, len(chunk)+len(s.remainder))
	joined = append(joined, chunk...)
	joined = append(joined, s.remainder...)

	lines := bytes.Split(joined, []byte{'\n'})
	if start > 0 {
		s.remainder = lines[0]
		lines = lines[1:]
	} else {
		s.remainder = nil
	}
	s.pending = append(s.pending, lines...)
}
