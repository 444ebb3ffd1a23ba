package bitio

import (
	"sync"
)

// bufferPool is a thread-safe pool of byte slices for reuse.
// Reduces GC pressure on the hot path of reading fixed-width primitives
// (u8/u16/u32/i64/f64) and length-prefixed strings from a QSH stream.
type bufferPool struct {
	scratch *sync.Pool // For primitive reads <= 16 bytes (u8..f64, leb128 bytes)
	text    *sync.Pool // For length-prefixed ASCII strings (application, comment, message text)
}

const (
	scratchBufferSize = 16         // covers every fixed-width primitive this codec reads
	textBufferSize    = 4 * 1024   // comfortably covers comment/application/message text
)

func newBufferPool() *bufferPool {
	return &bufferPool{
		scratch: &sync.Pool{
			New: func() interface{} {
				b := make([]byte, scratchBufferSize)
				return &b
			},
		},
		text: &sync.Pool{
			New: func() interface{} {
				b := make([]byte, textBufferSize)
				return &b
			},
		},
	}
}

// Get returns a buffer of at least size bytes. The returned slice may be
// larger than requested; callers must slice it down themselves.
func (bp *bufferPool) Get(size int) []byte {
	var pool *sync.Pool

	switch {
	case size <= scratchBufferSize:
		pool = bp.scratch
	case size <= textBufferSize:
		pool = bp.text
	default:
		// Requested size exceeds every tier; not pooled.
		return make([]byte, size)
	}

	bufPtr := pool.Get().(*[]byte)
	buf := *bufPtr

	if size > cap(buf) {
		return make([]byte, size)
	}

	return buf[:size]
}

// Put returns a buffer obtained from Get back to the pool.
func (bp *bufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}

	capacity := cap(buf)
	var pool *sync.Pool

	switch capacity {
	case scratchBufferSize:
		pool = bp.scratch
	case textBufferSize:
		pool = bp.text
	default:
		return
	}

	buf = buf[:capacity]
	pool.Put(&buf)
}

// globalBufferPool backs every Source created without an explicit pool.
var globalBufferPool = newBufferPool()
