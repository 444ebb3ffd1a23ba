// Package bitio implements the low-level byte source and primitive/delta
// codec layer that the QSH decoder is built on: a sequential reader over a
// gzip-or-raw file, LEB128/ULEB128 and fixed-width little-endian primitives,
// and the relative/growing delta encodings layered on top of them.
package bitio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// ErrEndOfStream is returned by every read once fewer bytes remain in the
// underlying source than were requested. It is terminal: once returned, the
// Source must not be read from again.
var ErrEndOfStream = errors.New("bitio: end of stream")

// ErrUnsupportedFormat names a byte stream that does not start with the
// expected 19-byte QSH signature. Open and OpenRaw do not check the
// signature and never return it; the signature check is the caller's.
var ErrUnsupportedFormat = errors.New("bitio: unsupported file format")

// Source is a sequential, non-concurrent-safe reader over the decompressed
// byte stream of a QSH file. It auto-detects gzip framing at Open and
// exposes Tell/Seek on the decompressed byte offset.
type Source struct {
	file *os.File
	gz   *gzip.Reader // nil when the source is raw (uncompressed)
	r    *bufio.Reader
	pos  int64
	pool *bufferPool
}

// Open detects whether path is a gzip-framed or raw byte stream (attempting
// gzip first, per the QSH open policy) and returns a Source positioned at
// offset 0 of the decompressed stream. It does not validate the QSH
// signature; callers do that with the first Read.
func Open(path string, bufferSize int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	s := &Source{file: f, pool: globalBufferPool}

	if gz, err := gzip.NewReader(f); err == nil {
		s.gz = gz
		s.r = bufio.NewReaderSize(gz, bufferSize)
		return s, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	s.r = bufio.NewReaderSize(f, bufferSize)
	return s, nil
}

// OpenRaw opens path as an uncompressed byte stream, bypassing gzip
// detection entirely. Used when a gzip-framed Source decompresses cleanly
// but its content doesn't carry the QSH signature (see §4.1's fallback
// policy: a decoded-signature mismatch, not just a gzip-magic mismatch,
// triggers the raw retry).
func OpenRaw(path string, bufferSize int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{
		file: f,
		pool: globalBufferPool,
		r:    bufio.NewReaderSize(f, bufferSize),
	}, nil
}

// Read reads exactly n bytes, returning ErrEndOfStream if fewer remain.
// The returned slice is only valid until the next call to Read.
func (s *Source) Read(n int) ([]byte, error) {
	buf := s.pool.Get(n)
	got, err := io.ReadFull(s.r, buf)
	s.pos += int64(got)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrEndOfStream
		}
		return nil, err
	}
	return buf, nil
}

// Release returns a buffer previously returned by Read to the pool. Callers
// that copy the bytes they need may call this to reduce GC pressure; it is
// always safe to skip.
func (s *Source) Release(buf []byte) {
	s.pool.Put(buf)
}

// Tell returns the current offset in the decompressed byte stream.
func (s *Source) Tell() int64 {
	return s.pos
}

// Seek moves to the given offset in the decompressed byte stream. Forward
// seeks are implemented by discarding bytes; backward seeks on a raw stream
// use the underlying file's native Seek, but backward seeks on a
// gzip-wrapped stream are rejected, since silently reopening and
// re-decompressing from the start would discard the caller's per-stream
// last-value state without telling them (see §5/§9 of SPEC_FULL.md).
func (s *Source) Seek(pos int64) error {
	if pos < 0 {
		return fmt.Errorf("bitio: seek to negative offset %d", pos)
	}

	if pos < s.pos {
		if s.gz != nil {
			return fmt.Errorf("bitio: backward seek unsupported on a gzip-framed source (at %d, want %d)", s.pos, pos)
		}
		if _, err := s.file.Seek(pos, io.SeekStart); err != nil {
			return err
		}
		s.r.Reset(s.file)
		s.pos = pos
		return nil
	}

	remaining := pos - s.pos
	discard := make([]byte, 32*1024)
	for remaining > 0 {
		n := int64(len(discard))
		if remaining < n {
			n = remaining
		}
		got, err := io.ReadFull(s.r, discard[:n])
		s.pos += int64(got)
		remaining -= int64(got)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return ErrEndOfStream
			}
			return err
		}
	}
	return nil
}

// Close releases the underlying file (and gzip reader, if any).
func (s *Source) Close() error {
	if s.gz != nil {
		s.gz.Close()
	}
	return s.file.Close()
}
