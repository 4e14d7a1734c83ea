// Package blockpipe runs a single block through the full compress-side
// pipeline: checksum, preprocessing, codec, and stored-fallback, and its
// mirror image on the decode side.
package blockpipe

import (
	"hash/crc32"

	"github.com/Llucs/TurboZip/internal/codec"
	"github.com/Llucs/TurboZip/internal/errkind"
	"github.com/Llucs/TurboZip/internal/preprocess"
	"github.com/Llucs/TurboZip/internal/strategy"
)

// Record is the in-memory form of one block's produced payload plus the
// fields destined for its block index entry.
type Record struct {
	Payload         []byte
	CompressedSize  uint32
	OriginalSize    uint32
	Algorithm       codec.Algorithm
	Level           uint8
	PreprocessFlags uint16
	CRC32           uint32
}

// blockFlagDelta and blockFlagRLE mirror the on-disk block_flags bits
// from the container format's block index entry.
const (
	blockFlagDelta uint16 = 1 << 0
	blockFlagRLE   uint16 = 1 << 1
)

// Encode runs block through the strategy chosen for it, falling back to
// Stored on any codec error or on a non-shrinking result. The CRC is
// always computed over the original, pre-preprocess bytes.
func Encode(block []byte, s strategy.Strategy) Record {
	crc := crc32.ChecksumIEEE(block)

	prepared, err := preprocess.Apply(s.Preprocess, block)
	if err != nil {
		return storedRecord(block, crc)
	}

	compressed, err := codec.Compress(s.Algorithm, s.Level, prepared)
	if err != nil {
		return storedRecord(block, crc)
	}

	if len(compressed) >= len(block) {
		return storedRecord(block, crc)
	}

	return Record{
		Payload:         compressed,
		CompressedSize:  uint32(len(compressed)),
		OriginalSize:    uint32(len(block)),
		Algorithm:       s.Algorithm,
		Level:           uint8(s.Level),
		PreprocessFlags: flagsFor(s.Preprocess),
		CRC32:           crc,
	}
}

func storedRecord(block []byte, crc uint32) Record {
	return Record{
		Payload:         block,
		CompressedSize:  uint32(len(block)),
		OriginalSize:    uint32(len(block)),
		Algorithm:       codec.Stored,
		Level:           0,
		PreprocessFlags: 0,
		CRC32:           crc,
	}
}

func flagsFor(kind preprocess.Kind) uint16 {
	switch kind {
	case preprocess.Delta:
		return blockFlagDelta
	case preprocess.RLE:
		return blockFlagRLE
	default:
		return 0
	}
}

// Decode reverses Encode: inflate the codec payload, undo any
// preprocessing, and verify the block's CRC32 against the original bytes.
// A codec or preprocessing failure means the payload is corrupt just as
// surely as a CRC mismatch does — a flipped bit can just as easily trip
// zstd's own frame checksum or an LZ4 block's length invariant as it can
// survive decoding and only show up in the CRC compare below — so both
// paths report the same BlockChecksumMismatchError rather than letting a
// codec-internal error escape as an unrelated I/O failure.
func Decode(payload []byte, algo codec.Algorithm, level uint8, flags uint16, originalSize uint32, expectedCRC uint32, blockIndex int) ([]byte, error) {
	prepared, err := codec.Decompress(algo, int(level), payload, preprocessedLen(flags, int(originalSize)))
	if err != nil {
		return nil, errkind.BlockChecksumMismatchError{Index: blockIndex, Err: err}
	}

	original, err := preprocess.Reverse(kindFromFlags(flags), prepared, int(originalSize))
	if err != nil {
		return nil, errkind.BlockChecksumMismatchError{Index: blockIndex, Err: err}
	}

	if crc32.ChecksumIEEE(original) != expectedCRC {
		return nil, errkind.BlockChecksumMismatchError{Index: blockIndex}
	}
	return original, nil
}

// preprocessedLen returns the length the codec must decompress to. Delta
// is byte-preserving, so its intermediate length equals originalSize; RLE
// changes length by an amount not recoverable from the index alone, so
// its codec-facing length is reported as unknown (-1) and the codec falls
// back to a generous capacity bound instead of an exact size check.
func preprocessedLen(flags uint16, originalSize int) int {
	if flags&blockFlagRLE != 0 {
		return -1
	}
	return originalSize
}

func kindFromFlags(flags uint16) preprocess.Kind {
	switch {
	case flags&blockFlagDelta != 0:
		return preprocess.Delta
	case flags&blockFlagRLE != 0:
		return preprocess.RLE
	default:
		return preprocess.None
	}
}
