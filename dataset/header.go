package dataset

import (
	"encoding/binary"
	"fmt"
	"math"

	vecerrors "github.com/tamirms/vecidx/errors"
)

const (
	// magic number for dataset files, "VIDS" in little-endian
	magic = uint32(0x53444956)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (32 bytes)
	headerSize = 32

	// footerSize is the exact size of the serialized footer (8 bytes)
	footerSize = 8

	// flagZstd marks a payload stored as a single zstd frame
	flagZstd = uint8(1 << 0)
)

// header is the 32-byte file header.
//
// Layout:
//
//	Offset  Size  Field      Type
//	0       4     Magic      0x53444956 ("VIDS")
//	4       2     Version    0x0001
//	6       1     ElemBytes  uint8 (1, 2, 4 or 8)
//	7       1     Flags      uint8 (bit 0 = zstd payload)
//	8       8     Count      uint64_le
//	16      16    Reserved   [16]byte (zero)
//
// The payload follows the header: Count little-endian elements, or their
// zstd compression when flagZstd is set. The footer is the xxHash64 of the
// payload bytes as stored.
type header struct {
	Magic     uint32
	Version   uint16
	ElemBytes uint8
	Flags     uint8
	Count     uint64
	Reserved  [16]byte
}

func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = h.ElemBytes
	buf[7] = h.Flags
	binary.LittleEndian.PutUint64(buf[8:16], h.Count)
	copy(buf[16:32], h.Reserved[:])
}

// decodeHeader parses a 32-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, vecerrors.ErrTruncatedFile
	}

	h := &header{
		Magic:     binary.LittleEndian.Uint32(buf[0:4]),
		Version:   binary.LittleEndian.Uint16(buf[4:6]),
		ElemBytes: buf[6],
		Flags:     buf[7],
		Count:     binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(h.Reserved[:], buf[16:32])

	if h.Magic != magic {
		return nil, vecerrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, vecerrors.ErrInvalidVersion
	}
	switch h.ElemBytes {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("element width %d bytes: %w", h.ElemBytes, vecerrors.ErrElemWidthMismatch)
	}
	// rawSize must fit in an int without wrapping.
	if h.Count > uint64(math.MaxInt)/uint64(h.ElemBytes) {
		return nil, fmt.Errorf("count %d out of range: %w", h.Count, vecerrors.ErrTruncatedFile)
	}
	return h, nil
}

func (h *header) compressed() bool {
	return h.Flags&flagZstd != 0
}

// rawSize is the size of the uncompressed payload. decodeHeader guarantees it
// does not overflow.
func (h *header) rawSize() uint64 {
	return h.Count * uint64(h.ElemBytes)
}

func encodeFooter(buf []byte, sum uint64) {
	binary.LittleEndian.PutUint64(buf[0:8], sum)
}

func decodeFooter(buf []byte) (uint64, error) {
	if len(buf) < footerSize {
		return 0, vecerrors.ErrTruncatedFile
	}
	return binary.LittleEndian.Uint64(buf[0:8]), nil
}
