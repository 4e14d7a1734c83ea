package codec

import (
	"errors"
	"fmt"
)

// ErrHybridLZ4Incompressible reports that the LZ4-HC stage of a Hybrid
// compression did not shrink src: either pierrec's CompressBlock returned
// n == 0 (in which case the bytes handed back are the raw input, not an
// LZ4 block, and composing the zstd stage over them would decode as
// garbage), or its LZ4 block is no smaller than src. blockpipe.Encode
// treats this the same as any other codec error and falls back to a
// stored block.
var ErrHybridLZ4Incompressible = errors.New("codec: lz4 stage of hybrid produced no compressed output")

// Compress runs the given algorithm/level over src and returns the
// compressed bytes. Callers (internal/blockpipe) are responsible for
// falling back to Stored when the result does not shrink the block or
// when Compress returns an error — this function never does that itself,
// per spec: codec adapters are stateless and opinion-free about storage
// policy.
func Compress(algo Algorithm, level int, src []byte) ([]byte, error) {
	switch algo {
	case Stored:
		return src, nil
	case LZ4Fast:
		out, _, err := compressLZ4Fast(src)
		return out, err
	case LZ4HC:
		out, _, err := compressLZ4HC(src, level)
		return out, err
	case ZstdFast, ZstdBalanced, ZstdHigh, ZstdMax:
		return compressZstd(src, level)
	case Hybrid:
		lz4Level, zstdLevel := SplitHybridLevels(byte(level))
		stage1, ok, err := compressLZ4HC(src, lz4Level)
		if err != nil {
			return nil, err
		}
		if !ok || len(stage1) >= len(src) {
			return nil, ErrHybridLZ4Incompressible
		}
		stage2, err := compressZstd(stage1, zstdLevel)
		if err != nil {
			return nil, err
		}
		return stage2, nil
	default:
		return nil, fmt.Errorf("codec: unsupported algorithm %d", algo)
	}
}

// Decompress reverses Compress. originalLen is the pre-compression size
// recorded in the block index entry; both LZ4 and Zstd adapters need it
// to size their output buffers exactly.
func Decompress(algo Algorithm, level int, src []byte, originalLen int) ([]byte, error) {
	switch algo {
	case Stored:
		if len(src) != originalLen {
			return nil, fmt.Errorf("codec: stored block size mismatch: expected %d, got %d", originalLen, len(src))
		}
		return src, nil
	case LZ4Fast, LZ4HC:
		return decompressLZ4(src, originalLen)
	case ZstdFast, ZstdBalanced, ZstdHigh, ZstdMax:
		return decompressZstd(src, originalLen)
	case Hybrid:
		stage1, err := decompressZstd(src, -1) // zstd frame carries its own size hint
		if err != nil {
			return nil, err
		}
		return decompressLZ4(stage1, originalLen)
	default:
		return nil, fmt.Errorf("codec: unsupported algorithm %d", algo)
	}
}
