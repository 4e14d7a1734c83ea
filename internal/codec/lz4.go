package codec

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4FastPool caches *lz4.Compressor instances; the fast compressor is
// stateless enough to share across calls but pooling still avoids one
// allocation per block on the hot path.
var lz4FastPool = sync.Pool{
	New: func() any { return new(lz4.Compressor) },
}

// lz4HCPool caches CompressorHC instances keyed by level, thread-local
// in effect since sync.Pool shards per-P: no worker ever blocks another
// worker on a shared compressor.
var lz4HCPools sync.Map // map[int]*sync.Pool

func lz4HCPool(level int) *sync.Pool {
	if p, ok := lz4HCPools.Load(level); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{
		New: func() any {
			return &lz4.CompressorHC{Level: lz4.CompressionLevel(level)}
		},
	}
	actual, _ := lz4HCPools.LoadOrStore(level, p)
	return actual.(*sync.Pool)
}

// compressLZ4Fast returns the compressed block and whether lz4 actually
// produced LZ4 block data. lz4 reports n == 0 for incompressible input
// rather than an error, and the only bytes worth returning at that point
// are the raw input — callers that can tolerate a raw passthrough (the
// single-codec path) treat that the same as any other non-shrinking
// result, via the block pipeline's fallback-to-stored check. Callers that
// feed the result into a second compression stage (Hybrid) cannot: raw
// bytes are not decodable as an LZ4 block, so they must check ok.
func compressLZ4Fast(src []byte) (out []byte, ok bool, err error) {
	c := lz4FastPool.Get().(*lz4.Compressor)
	defer lz4FastPool.Put(c)

	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, false, fmt.Errorf("lz4 fast compress: %w", err)
	}
	if n == 0 {
		return src, false, nil
	}
	return dst[:n], true, nil
}

// compressLZ4HC is compressLZ4Fast's high-compression counterpart; see
// its doc comment for the meaning of ok.
func compressLZ4HC(src []byte, level int) (out []byte, ok bool, err error) {
	pool := lz4HCPool(level)
	c := pool.Get().(*lz4.CompressorHC)
	defer pool.Put(c)

	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, false, fmt.Errorf("lz4 hc compress: %w", err)
	}
	if n == 0 {
		return src, false, nil
	}
	return dst[:n], true, nil
}

// maxIntermediateSize bounds the buffer used when the exact decompressed
// length isn't known upfront (an RLE-preprocessed block's pre-codec
// length isn't recoverable from the block index alone). The planner's
// largest base block size is 8 MiB and RLEForward never more than doubles
// its input, so 32 MiB comfortably covers any block this format emits.
const maxIntermediateSize = 32 * 1024 * 1024

func decompressLZ4(src []byte, originalLen int) ([]byte, error) {
	capHint := originalLen
	if capHint < 0 {
		capHint = maxIntermediateSize
	}
	dst := make([]byte, capHint)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if originalLen >= 0 && n != originalLen {
		return nil, fmt.Errorf("lz4 decompress: expected %d bytes, got %d", originalLen, n)
	}
	return dst[:n], nil
}
