package vecidx

import (
	"log/slog"

	"github.com/tamirms/vecidx/internal/config"
)

// Option is a functional option for configuring an index.
type Option func(*config.Config)

func resolve(opts []Option) config.Config {
	cfg := config.Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithValidation turns on build-time debug assertions: Build reports
// ErrOffsetOverflow when the offset type cannot address the collection and,
// for the PivotStep variants, ErrUnsortedInput when the input is not sorted.
// Find is never validated.
func WithValidation() Option {
	return func(c *config.Config) {
		c.Validate = true
	}
}

// WithRegisterWidth sets the pivot register width in bits (128, 256 or 512).
// The default is the widest width the CPU accelerates.
// An unsupported width makes Build fail with ErrInvalidWidth.
func WithRegisterWidth(bits int) Option {
	return func(c *config.Config) {
		c.RegisterBits = bits
	}
}

// WithCacheLines sets how many 64-byte cache lines the blocked tree's top
// structure may occupy. Default is 16.
func WithCacheLines(n int) Option {
	return func(c *config.Config) {
		c.CacheLines = n
	}
}

// WithLogger sets the logger that receives one debug record per Build.
// Default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config.Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
