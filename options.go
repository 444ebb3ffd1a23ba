package qsh

import (
	"github.com/rs/zerolog"
)

// decoderConfig holds the options applied at Open, mirroring the teacher's
// functional-options pattern (see marketfeed.Option / fulldepth.Option).
type decoderConfig struct {
	logger             *zerolog.Logger
	readBufferSize     int
	strictMonotonicity bool
}

// Option configures a Decoder at Open time.
type Option func(*decoderConfig)

// WithLogger attaches a zerolog logger, which receives one Debug event per
// successful Open (no other events are logged), mirroring
// rest.WithLogger's *zerolog.Logger signature. Purely additive: it never
// changes decode results or error behavior (there is no internal control flow
// gated on logging, per §7 of SPEC_FULL.md).
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *decoderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReadBufferSize overrides the buffered-reader size placed over the
// gzip-or-raw byte source. Larger buffers amortize syscall/inflate overhead
// on large files at the cost of memory.
func WithReadBufferSize(n int) Option {
	return func(c *decoderConfig) {
		if n > 0 {
			c.readBufferSize = n
		}
	}
}

// WithStrictMonotonicity enables a runtime check that frame-header
// timestamps never move backward: ReadFrameHeader returns an error when one
// does. Per-record timestamps and ids inside the streams are not checked.
// Off by default; an opt-in debug/test aid.
func WithStrictMonotonicity(enabled bool) Option {
	return func(c *decoderConfig) {
		c.strictMonotonicity = enabled
	}
}

func defaultDecoderConfig() *decoderConfig {
	nop := zerolog.Nop()
	return &decoderConfig{
		logger:             &nop,
		readBufferSize:     64 * 1024,
		strictMonotonicity: false,
	}
}
