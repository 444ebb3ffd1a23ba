package qsh

import (
	"errors"
	"fmt"

	"github.com/nethask/qsh/internal/bitio"
)

// Common errors
var (
	// ErrUnsupportedFormat is returned by Open when the file is neither a
	// gzip-framed nor a raw QSH stream (the 19-byte signature never matches).
	ErrUnsupportedFormat = errors.New("qsh: unsupported file format")

	// ErrEndOfStream is returned (optionally wrapped) once a read reaches
	// the end of the underlying byte source. Not recoverable on the same
	// Decoder; use errors.Is to detect it regardless of wrapping.
	ErrEndOfStream = bitio.ErrEndOfStream

	// ErrTruncatedRecord wraps ErrEndOfStream for the case where some bytes
	// of the current record were already consumed before EOS: a clean
	// end-of-file should never occur mid-record.
	ErrTruncatedRecord = fmt.Errorf("qsh: truncated record: %w", ErrEndOfStream)

	// ErrClosed is returned by ReadFrameHeader, every Read*Data method and
	// Seek on a Decoder after Close.
	ErrClosed = errors.New("qsh: decoder closed")

	// ErrInvalidStreamIndex is returned when a frame header names a stream
	// index outside the range declared by the file header.
	ErrInvalidStreamIndex = errors.New("qsh: invalid stream index")

	// ErrWrongStreamType is returned when a typed Read*Data call is made
	// for a stream whose declared type doesn't match.
	ErrWrongStreamType = errors.New("qsh: read call does not match stream type")
)

// wrapEOS reports err as ErrTruncatedRecord when it is ErrEndOfStream and at
// least one byte of the current record has already been consumed; otherwise
// it is returned unchanged so a clean end-of-file is distinguishable.
func wrapEOS(err error, consumedAny bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bitio.ErrEndOfStream) && consumedAny {
		return ErrTruncatedRecord
	}
	return err
}
