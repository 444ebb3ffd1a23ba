package qsh

import (
	"fmt"

	"github.com/nethask/qsh/internal/bitio"
)

// Decoder is a single-use, single-threaded cursor over one QSH file. It is
// not safe for concurrent use; §5 of SPEC_FULL.md rules out concurrent
// decoding of a single file by design, not merely by omission.
type Decoder struct {
	src    *bitio.Source
	cfg    *decoderConfig
	header Header
	streams []StreamHeader
	closed bool

	lastFrameMs   int64
	curStreamType StreamType // resolved by the most recent ReadFrameHeader

	ordLog    ordLogState
	deals     dealsState
	auxInfo   auxInfoState
	quotes    quotesState
	ownTrades ownTradesState
}

// Open detects gzip-vs-raw framing, verifies the QSH signature, and parses
// the file header and stream headers.
func Open(path string, opts ...Option) (*Decoder, error) {
	cfg := defaultDecoderConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	src, err := bitio.Open(path, cfg.readBufferSize)
	if err != nil {
		return nil, err
	}

	if !verifySignature(src) {
		src.Close()
		src, err = bitio.OpenRaw(path, cfg.readBufferSize)
		if err != nil {
			return nil, err
		}
		if !verifySignature(src) {
			src.Close()
			return nil, ErrUnsupportedFormat
		}
	}

	d := &Decoder{src: src, cfg: cfg}

	if err := d.readHeader(); err != nil {
		src.Close()
		return nil, err
	}

	d.quotes.dict = make(QuotesSnapshot)
	d.ordLog.quotes = make(QuotesSnapshot)
	d.ordLog.externalQuotes = make(QuotesSnapshot)

	cfg.logger.Debug().
		Str("application", d.header.Application).
		Uint8("streams", d.header.StreamsCount).
		Time("created_at", d.header.CreatedAt).
		Msg("qsh: opened file")

	return d, nil
}

// verifySignature reads the fixed 19-byte signature and reports whether it
// matches, leaving src positioned past it either way (a mismatch means the
// caller is about to abandon this src entirely).
func verifySignature(src *bitio.Source) bool {
	b, err := src.Read(len(Signature))
	if err != nil {
		return false
	}
	ok := string(b) == Signature
	src.Release(b)
	return ok
}

func (d *Decoder) readHeader() error {
	version, err := d.src.ReadU8()
	if err != nil {
		return err
	}
	application, err := d.src.ReadString()
	if err != nil {
		return err
	}
	comment, err := d.src.ReadString()
	if err != nil {
		return err
	}
	createdAt, err := d.src.ReadTimestampAbsolute()
	if err != nil {
		return err
	}
	streamsCount, err := d.src.ReadU8()
	if err != nil {
		return err
	}

	d.header = Header{
		Version:      version,
		Application:  application,
		Comment:      comment,
		CreatedAt:    createdAt,
		StreamsCount: streamsCount,
	}

	d.streams = make([]StreamHeader, streamsCount)
	for i := range d.streams {
		streamType, err := d.src.ReadU8()
		if err != nil {
			return err
		}
		sh := StreamHeader{Type: StreamType(streamType)}
		if sh.Type != StreamMessages {
			code, err := d.src.ReadString()
			if err != nil {
				return err
			}
			sh.InstrumentCode = code
		}
		d.streams[i] = sh
	}

	d.lastFrameMs = bitio.TimeToMillis(createdAt)
	return nil
}

// Header returns the parsed file header.
func (d *Decoder) Header() Header { return d.header }

// Streams returns the ordered stream headers declared after the file header.
func (d *Decoder) Streams() []StreamHeader {
	out := make([]StreamHeader, len(d.streams))
	copy(out, d.streams)
	return out
}

// ReadFrameHeader reads the next frame's timestamp and stream index. The
// caller resolves d.Streams()[index].Type to dispatch to the matching
// Read*Data method.
func (d *Decoder) ReadFrameHeader() (FrameHeader, error) {
	if d.closed {
		return FrameHeader{}, ErrClosed
	}

	newMs, err := d.src.ReadGrowingDatetime(d.lastFrameMs)
	if err != nil {
		return FrameHeader{}, err
	}
	if d.cfg.strictMonotonicity && newMs < d.lastFrameMs {
		return FrameHeader{}, fmt.Errorf("qsh: frame timestamp regressed from %d to %d", d.lastFrameMs, newMs)
	}
	d.lastFrameMs = newMs

	var idx byte
	if d.header.StreamsCount > 1 {
		idx, err = d.src.ReadU8()
		if err != nil {
			return FrameHeader{}, wrapEOS(err, true)
		}
		if int(idx) >= len(d.streams) {
			return FrameHeader{}, ErrInvalidStreamIndex
		}
	}

	if int(idx) < len(d.streams) {
		d.curStreamType = d.streams[idx].Type
	} else {
		d.curStreamType = 0
	}

	return FrameHeader{Timestamp: bitio.MillisToTime(d.lastFrameMs), StreamIndex: idx}, nil
}

// checkStreamType reports ErrClosed after Close, and ErrWrongStreamType if
// the stream resolved by the most recent ReadFrameHeader does not match
// want, guarding a typed Read*Data call against being invoked for the wrong
// stream.
func (d *Decoder) checkStreamType(want StreamType) error {
	if d.closed {
		return ErrClosed
	}
	if d.curStreamType != want {
		return fmt.Errorf("qsh: %s data requested but current frame's stream is %s: %w", want, d.curStreamType, ErrWrongStreamType)
	}
	return nil
}

// Tell returns the current offset in the decompressed byte stream.
func (d *Decoder) Tell() int64 { return d.src.Tell() }

// Seek moves to the given offset in the decompressed byte stream. Per §5,
// this invalidates every per-stream last-value field; the caller is
// responsible for not relying on stream decode state across a seek.
func (d *Decoder) Seek(pos int64) error {
	if d.closed {
		return ErrClosed
	}
	return d.src.Seek(pos)
}

// Close releases the underlying byte source. Further ReadFrameHeader,
// Read*Data and Seek calls return ErrClosed; calling Close again returns nil.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.src.Close()
}
