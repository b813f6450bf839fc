package accesslog

import (
	"bufio"
	"errors"
	"io"
)

const readBufferSize = 64 * 1024

// Scanner reads complete lines from an access log and tracks the byte
// offset just past the last complete line, which is what a resumable
// scan checkpoints. A trailing fragment with no newline yet is never
// returned and never advances the offset: the writer is still on it,
// and the next run picks it up whole.
type Scanner struct {
	r      *bufio.Reader
	offset int64
}

// NewScanner reads lines from r. The offset is the position in the
// underlying file that r starts at; the caller seeks before wrapping.
func NewScanner(r io.Reader, offset int64) *Scanner {
	return &Scanner{
		r:      bufio.NewReaderSize(r, readBufferSize),
		offset: offset,
	}
}

// Next returns the next complete line with its line ending stripped.
// It returns io.EOF once no complete line remains. Lines longer than
// the read buffer are accumulated, not dropped.
func (s *Scanner) Next() ([]byte, error) {
	line, err := s.r.ReadBytes('\n')
	if err == nil {
		s.offset += int64(len(line))
		return trimLineEnding(line), nil
	}
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	return nil, err
}

// Offset returns the byte offset just past the last complete line.
func (s *Scanner) Offset() int64 {
	return s.offset
}

func trimLineEnding(line []byte) []byte {
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	return line
}
