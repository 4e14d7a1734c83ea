package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoders caches one *zstd.Encoder per zstd level, mirroring
// meigma-blob's pooled zstd.Decoder: encoders are expensive to build but
// safe to reuse across calls, so a per-level pool avoids rebuilding the
// match tables on every block.
var zstdEncoders sync.Map // map[int]*sync.Pool

func zstdEncoderPool(level int) *sync.Pool {
	if p, ok := zstdEncoders.Load(level); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
				zstd.WithEncoderConcurrency(1),
			)
			if err != nil {
				return nil
			}
			return enc
		},
	}
	actual, _ := zstdEncoders.LoadOrStore(level, p)
	return actual.(*sync.Pool)
}

// zstdDecoderPool holds decoders; a single level-agnostic pool suffices
// since zstd frames self-describe their parameters.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil
		}
		return dec
	},
}

func compressZstd(src []byte, level int) ([]byte, error) {
	pool := zstdEncoderPool(level)
	v := pool.Get()
	if v == nil {
		return nil, fmt.Errorf("zstd compress: encoder unavailable")
	}
	enc := v.(*zstd.Encoder)
	defer pool.Put(enc)

	dst := enc.EncodeAll(src, make([]byte, 0, len(src)))
	return dst, nil
}

// decompressZstd inflates src. expectedLen is the known final size, or -1
// when the caller (the hybrid path) only knows the size after a further
// LZ4 decode and wants DecodeAll to grow its buffer on its own.
func decompressZstd(src []byte, expectedLen int) ([]byte, error) {
	v := zstdDecoderPool.Get()
	if v == nil {
		return nil, fmt.Errorf("zstd decompress: decoder unavailable")
	}
	dec := v.(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	capHint := 0
	if expectedLen > 0 {
		capHint = expectedLen
	}
	dst, err := dec.DecodeAll(src, make([]byte, 0, capHint))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if expectedLen >= 0 && len(dst) != expectedLen {
		return nil, fmt.Errorf("zstd decompress: expected %d bytes, got %d", expectedLen, len(dst))
	}
	return dst, nil
}
