// Package config holds the build settings shared by every index variant.
//
// The root vecidx package exposes these through functional options; the
// internal index packages only ever read them.
package config

import "log/slog"

const (
	// CacheLineSize is the assumed cache line size in bytes.
	CacheLineSize = 64

	// DefaultCacheLines is the number of cache lines the blocked tree's top
	// structure may occupy.
	DefaultCacheLines = 16
)

// Config is the resolved set of build settings.
type Config struct {
	// Validate enables build-time debug assertions (offset width, sortedness).
	// Queries are never validated.
	Validate bool

	// RegisterBits is the pivot register width in bits (128, 256 or 512).
	// Zero selects the widest width the active SIMD ISA accelerates.
	RegisterBits int

	// CacheLines bounds the blocked tree's top structure.
	CacheLines int

	// Logger receives one debug record per Build.
	Logger *slog.Logger
}

// Default returns the settings used when no options are given.
func Default() Config {
	return Config{
		CacheLines: DefaultCacheLines,
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// Log returns the configured logger, falling back to a discard logger for a
// zero Config.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
