package qsh

import (
	"encoding/binary"
	"math"
	"os"
	"testing"
)

// The functions below build byte sequences for test fixtures. QSH is a
// decode-only format (see Non-goals), so there is no production encoder to
// reuse here; these are test-only mirrors of the wire rules in §4.2/§4.3.

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func sleb(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func u8b(v byte) []byte { return []byte{v} }

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func i64le(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func f64le(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func strb(s string) []byte {
	return concat(uleb(uint64(len(s))), []byte(s))
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// writeTempFile writes data to a fresh temp file and returns its path.
func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "qsh-*.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

// openFixture assembles a minimal one-stream QSH file of the given stream
// type and opens it, returning the Decoder positioned right after the
// stream headers (ready to ReadFrameHeader).
func openFixture(t *testing.T, streamType StreamType, body []byte) *Decoder {
	t.Helper()

	streamHeader := u8b(byte(streamType))
	if streamType != StreamMessages {
		streamHeader = concat(streamHeader, strb("TEST"))
	}

	data := concat(
		[]byte(Signature),
		u8b(1),        // version
		strb(""),      // application
		strb(""),      // comment
		i64le(0),      // created_at
		u8b(1),        // streams_count
		streamHeader,
		body,
	)

	path := writeTempFile(t, data)
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// oneStreamFrame builds one frame_header (growing_datetime delta, no stream
// index since streams_count == 1) followed by the given record payload.
func oneStreamFrame(frameDeltaMs uint64, record []byte) []byte {
	return concat(uleb(frameDeltaMs), record)
}
