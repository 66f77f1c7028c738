// Package dataset reads, writes and generates the key files the vecidx
// tooling benchmarks against.
//
// A dataset is a sorted run of unsigned integer keys of one width, stored in
// a .vds file (see header.go for the layout). Raw files are memory-mapped and
// handed out zero-copy on little-endian hosts; zstd-compressed files are
// decoded once at open time.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"

	vecerrors "github.com/tamirms/vecidx/errors"
	"github.com/tamirms/vecidx/internal/simd"
)

// Dataset is an opened key file.
//
// Thread Safety:
// - Keys, Len and Verify are safe for concurrent use
// - Close must only be called after all readers are done; keys handed out
// by a raw, memory-mapped dataset are invalid after Close
type Dataset[T simd.Lane] struct {
	mmap    mmap.MMap
	data    []byte
	header  *header
	payload []byte
	keys    []T
	zeroCpy bool

	closed atomic.Bool
}

// Stats describes an opened dataset.
type Stats struct {
	Count      uint64
	ElemBytes  int
	Compressed bool
	ZeroCopy   bool
	FileSize   int64
}

// Open opens a dataset file. It maps the file and closes the descriptor.
func Open[T simd.Lane](path string) (*Dataset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()
	return OpenFile[T](file)
}

// OpenFile memory-maps f. The caller is responsible for closing f, which
// may happen as soon as OpenFile returns.
func OpenFile[T simd.Lane](f *os.File) (*Dataset[T], error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset file: %w", err)
	}
	if stat.Size() < headerSize+footerSize {
		return nil, vecerrors.ErrTruncatedFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap dataset file: %w", err)
	}

	ds := &Dataset[T]{
		mmap: mm,
		data: []byte(mm),
	}
	if err := ds.init(); err != nil {
		return nil, errors.Join(err, ds.Close())
	}
	return ds, nil
}

// OpenBytes reads a dataset from an in-memory image. Close is a no-op.
// The caller must not modify data while the Dataset is in use.
func OpenBytes[T simd.Lane](data []byte) (*Dataset[T], error) {
	if len(data) < headerSize+footerSize {
		return nil, vecerrors.ErrTruncatedFile
	}
	ds := &Dataset[T]{data: data}
	if err := ds.init(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (ds *Dataset[T]) init() error {
	hdr, err := decodeHeader(ds.data[:headerSize])
	if err != nil {
		return err
	}
	if want := simd.LaneBytes[T](); int(hdr.ElemBytes) != want {
		return fmt.Errorf("file has %d-byte keys, want %d: %w", hdr.ElemBytes, want, vecerrors.ErrElemWidthMismatch)
	}
	ds.header = hdr
	ds.payload = ds.data[headerSize : len(ds.data)-footerSize]
	count := int(hdr.Count)

	if !hdr.compressed() {
		if uint64(len(ds.payload)) != hdr.rawSize() {
			return fmt.Errorf("payload is %d bytes, header says %d: %w", len(ds.payload), hdr.rawSize(), vecerrors.ErrTruncatedFile)
		}
		if ds.mmap != nil {
			adviseWillNeed(ds.payload)
		}
		if keys, ok := view[T](ds.payload, count); ok {
			ds.keys, ds.zeroCpy = keys, true
		} else {
			ds.keys = decodeLanes[T](ds.payload, count)
		}
		return nil
	}

	if ds.mmap != nil {
		adviseSequential(ds.payload)
	}
	// Frames always declare at least a 1 KiB window, so the cap cannot go lower.
	limit := max(hdr.rawSize(), uint64(zstd.MinWindowSize))
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
	if err != nil {
		return fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(ds.payload, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return fmt.Errorf("payload decompresses past %d bytes: %w", hdr.rawSize(), vecerrors.ErrTruncatedFile)
	}
	if err != nil {
		return fmt.Errorf("decompress payload: %w", err)
	}
	if uint64(len(raw)) != hdr.rawSize() {
		return fmt.Errorf("decompressed %d bytes, header says %d: %w", len(raw), hdr.rawSize(), vecerrors.ErrTruncatedFile)
	}
	if keys, ok := view[T](raw, count); ok {
		ds.keys = keys
	} else {
		ds.keys = decodeLanes[T](raw, count)
	}
	return nil
}

// Close releases the mapping. Idempotent.
func (ds *Dataset[T]) Close() error {
	if ds.closed.Swap(true) {
		return nil
	}
	ds.keys = nil
	if ds.mmap != nil {
		return ds.mmap.Unmap()
	}
	return nil
}

// Keys returns the sorted keys. Raw datasets on little-endian hosts return a
// view of the mapping itself; treat it as read-only.
func (ds *Dataset[T]) Keys() []T {
	if ds.closed.Load() {
		return nil
	}
	return ds.keys
}

// Len returns the number of keys.
func (ds *Dataset[T]) Len() int {
	return int(ds.header.Count)
}

// Verify checks the payload against the footer checksum.
// The footer is only read here, never at open time.
func (ds *Dataset[T]) Verify() error {
	if ds.closed.Load() {
		return vecerrors.ErrDatasetClosed
	}
	want, err := decodeFooter(ds.data[len(ds.data)-footerSize:])
	if err != nil {
		return err
	}
	if got := xxhash.Sum64(ds.payload); got != want {
		return fmt.Errorf("payload hash 0x%016x, footer 0x%016x: %w", got, want, vecerrors.ErrChecksumFailed)
	}
	return nil
}

// Stats returns statistics for the dataset.
func (ds *Dataset[T]) Stats() *Stats {
	return &Stats{
		Count:      ds.header.Count,
		ElemBytes:  int(ds.header.ElemBytes),
		Compressed: ds.header.compressed(),
		ZeroCopy:   ds.zeroCpy,
		FileSize:   int64(len(ds.data)),
	}
}

// Inspect reads only the header of a dataset file, for callers that do not
// yet know its key width.
func Inspect(path string) (*Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset file: %w", err)
	}
	var buf [headerSize]byte
	if _, err := file.ReadAt(buf[:], 0); err != nil {
		return nil, errors.Join(vecerrors.ErrTruncatedFile, err)
	}
	hdr, err := decodeHeader(buf[:])
	if err != nil {
		return nil, err
	}
	return &Stats{
		Count:      hdr.Count,
		ElemBytes:  int(hdr.ElemBytes),
		Compressed: hdr.compressed(),
		FileSize:   stat.Size(),
	}, nil
}
