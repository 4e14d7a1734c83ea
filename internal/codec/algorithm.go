// Package codec adapts the third-party compression libraries (pierrec's
// LZ4 and klauspost's Zstandard) behind the closed algorithm variant the
// on-disk format serializes as a single byte. New algorithms are never
// added by open extension — the set is fixed by the format version.
package codec

// Algorithm is the closed tagged union of block compressors the format
// supports. Its numeric value is exactly the on-disk algorithm_code.
type Algorithm byte

const (
	Stored       Algorithm = 0x00
	LZ4Fast      Algorithm = 0x01
	LZ4HC        Algorithm = 0x02
	ZstdFast     Algorithm = 0x03
	ZstdBalanced Algorithm = 0x04
	ZstdHigh     Algorithm = 0x05
	ZstdMax      Algorithm = 0x06
	Hybrid       Algorithm = 0x07
	Adaptive     Algorithm = 0x08 // reserved, never emitted by this implementation
)

// String returns a short human-readable name, used in the CLI's info
// output and in the metadata section's algorithm histogram.
func (a Algorithm) String() string {
	switch a {
	case Stored:
		return "stored"
	case LZ4Fast:
		return "lz4-fast"
	case LZ4HC:
		return "lz4-hc"
	case ZstdFast:
		return "zstd-fast"
	case ZstdBalanced:
		return "zstd-balanced"
	case ZstdHigh:
		return "zstd-high"
	case ZstdMax:
		return "zstd-max"
	case Hybrid:
		return "hybrid"
	case Adaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// HybridLevels packs the LZ4-HC level into the high nibble and a Zstd
// level index (0 -> 15, 1 -> 19, 2 -> 22) into the low nibble of the
// block index entry's Level byte, per spec §6.3.
func HybridLevels(lz4Level int, zstdLevel int) byte {
	idx := 0
	switch zstdLevel {
	case 15:
		idx = 0
	case 19:
		idx = 1
	case 22:
		idx = 2
	}
	return byte((lz4Level&0x0f)<<4 | (idx & 0x0f))
}

// SplitHybridLevels reverses HybridLevels.
func SplitHybridLevels(b byte) (lz4Level int, zstdLevel int) {
	lz4Level = int(b>>4) & 0x0f
	switch int(b) & 0x0f {
	case 0:
		zstdLevel = 15
	case 1:
		zstdLevel = 19
	case 2:
		zstdLevel = 22
	default:
		zstdLevel = 19
	}
	return lz4Level, zstdLevel
}
