package bitio

import (
	"os"
	"testing"
)

// rawSource builds a Source directly over in-memory bytes via a temp file,
// bypassing gzip detection, for primitive-level unit tests.
func rawSource(t *testing.T, data []byte) *Source {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "bitio-*.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := OpenRaw(f.Name(), 4096)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadULEB128(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want uint64
	}{
		{"zero", []byte{0x00}, 0},
		{"single byte 127", []byte{0x7F}, 127},
		{"two byte 128", []byte{0x80, 0x01}, 128},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := rawSource(t, c.in)
			got, err := s.ReadULEB128()
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Fatalf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestReadLEB128(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want int64
	}{
		{"zero", []byte{0x00}, 0},
		{"minus one, single byte", []byte{0x7F}, -1},
		{"127 via two bytes", []byte{0xFF, 0x00}, 127},
		{"minus one, sign extended two bytes", []byte{0xFF, 0x7F}, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := rawSource(t, c.in)
			got, err := s.ReadLEB128()
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Fatalf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestReadLEB128MostNegativeSingleByte(t *testing.T) {
	// 0x40 is the most negative value representable in a single LEB128
	// byte: payload 0x40, sign bit set, decodes to 64 - 128 = -64.
	s := rawSource(t, []byte{0x40})
	got, err := s.ReadLEB128()
	if err != nil {
		t.Fatal(err)
	}
	if got != -64 {
		t.Fatalf("got %d, want -64", got)
	}
}

func TestReadGrowingSentinel(t *testing.T) {
	// S3: with last=1000, ULEB128 0x0FFFFFFF (sentinel) followed by signed
	// leb128 -1 yields 999.
	s := rawSource(t, []byte{0xFF, 0xFF, 0xFF, 0x7F, 0x7F})
	got, err := s.ReadGrowing(1000)
	if err != nil {
		t.Fatal(err)
	}
	if got != 999 {
		t.Fatalf("got %d, want 999", got)
	}
}

func TestReadGrowingNonSentinel(t *testing.T) {
	// A plain delta of 5 (not the sentinel) just adds to last.
	s := rawSource(t, []byte{0x05})
	got, err := s.ReadGrowing(1000)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1005 {
		t.Fatalf("got %d, want 1005", got)
	}
}

func TestReadRelative(t *testing.T) {
	s := rawSource(t, []byte{0x7F}) // -1
	got, err := s.ReadRelative(100)
	if err != nil {
		t.Fatal(err)
	}
	if got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestReadStringEmpty(t *testing.T) {
	s := rawSource(t, []byte{0x00})
	got, err := s.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestReadStringAscii(t *testing.T) {
	s := rawSource(t, append([]byte{0x05}, []byte("hello")...))
	got, err := s.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
}

func TestReadEndOfStream(t *testing.T) {
	s := rawSource(t, []byte{0x01})
	if _, err := s.ReadU16LE(); err != ErrEndOfStream {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
	// Subsequent reads continue to fail.
	if _, err := s.ReadU8(); err != ErrEndOfStream {
		t.Fatalf("got %v, want ErrEndOfStream on repeat read", err)
	}
}

func TestGrowingDatetimeMonotonic(t *testing.T) {
	// Property 4: a sequence of non-negative growing deltas never decreases.
	deltas := []byte{0x01, 0x00, 0x05, 0x0A}
	s := rawSource(t, deltas)
	last := int64(0)
	for i := 0; i < len(deltas); i++ {
		next, err := s.ReadGrowingDatetime(last)
		if err != nil {
			t.Fatal(err)
		}
		if next < last {
			t.Fatalf("non-monotonic: %d -> %d", last, next)
		}
		last = next
	}
}
