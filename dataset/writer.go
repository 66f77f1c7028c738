package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"

	"github.com/tamirms/vecidx/internal/simd"
)

// WriteOption configures Write.
type WriteOption func(*writeConfig)

type writeConfig struct {
	compress bool
	level    int
}

// WithZstd stores the payload as one zstd frame at the given zstd level
// (1 fastest, 22 smallest). Level 0 picks the encoder default.
func WithZstd(level int) WriteOption {
	return func(c *writeConfig) {
		c.compress = true
		c.level = level
	}
}

// Write stores keys at path, replacing any existing file. keys should be
// sorted; Write does not check.
func Write[T simd.Lane](path string, keys []T, opts ...WriteOption) error {
	cfg := writeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := header{
		Magic:     magic,
		Version:   version,
		ElemBytes: uint8(simd.LaneBytes[T]()),
		Count:     uint64(len(keys)),
	}

	// Raw payloads are encoded straight into the mapping; compressed ones
	// have to exist before the file size is known.
	var payload []byte
	payloadSize := h.rawSize()
	if cfg.compress {
		raw := make([]byte, h.rawSize())
		encodeLanes(raw, keys)
		var err error
		payload, err = compress(raw, cfg.level)
		if err != nil {
			return err
		}
		h.Flags |= flagZstd
		payloadSize = uint64(len(payload))
	}

	w, err := newMappedWriter(path, headerSize+payloadSize+footerSize)
	if err != nil {
		return err
	}
	region := w.data[headerSize : headerSize+payloadSize]
	prefaultRegion(region)
	if payload != nil {
		copy(region, payload)
	} else {
		encodeLanes(region, keys)
	}
	h.encodeTo(w.data[:headerSize])
	encodeFooter(w.data[headerSize+payloadSize:], xxhash.Sum64(region))
	return w.finalize()
}

func compress(raw []byte, level int) ([]byte, error) {
	encLevel := zstd.SpeedDefault
	if level > 0 {
		encLevel = zstd.EncoderLevelFromZstd(level)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	out := enc.EncodeAll(raw, nil)
	return out, enc.Close()
}

// mappedWriter is a preallocated file mapped read-write.
type mappedWriter struct {
	file *os.File
	mmap mmap.MMap
	data []byte
}

func newMappedWriter(path string, size uint64) (*mappedWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create dataset file: %w", err)
	}
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}
	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("mmap dataset file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}
	return &mappedWriter{file: file, mmap: mm, data: []byte(mm)}, nil
}

// finalize flushes and unmaps, then closes the file. On error it falls back
// to close for cleanup.
func (w *mappedWriter) finalize() error {
	if err := w.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, w.close())
	}
	unmapErr := w.mmap.Unmap()
	w.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, w.close())
	}
	closeErr := w.file.Close()
	w.file = nil
	return closeErr
}

// close releases the writer without flushing. Idempotent.
func (w *mappedWriter) close() error {
	var unmapErr error
	if w.mmap != nil {
		unmapErr = w.mmap.Unmap()
		w.mmap = nil
	}
	var closeErr error
	if w.file != nil {
		closeErr = w.file.Close()
		w.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}
