package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTripEachAlgorithm(t *testing.T) {
	cases := []struct {
		name  string
		algo  Algorithm
		level int
	}{
		{"lz4-fast", LZ4Fast, 0},
		{"lz4-hc", LZ4HC, 9},
		{"zstd-fast", ZstdFast, 1},
		{"zstd-balanced", ZstdBalanced, 6},
		{"zstd-high", ZstdHigh, 15},
		{"zstd-max", ZstdMax, 22},
		{"hybrid", Hybrid, int(HybridLevels(9, 19))},
		{"stored", Stored, 0},
	}

	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 200)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := Compress(tc.algo, tc.level, src)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			decompressed, err := Decompress(tc.algo, tc.level, compressed, len(src))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(src, decompressed) {
				t.Fatalf("round trip mismatch for %s", tc.name)
			}
		})
	}
}

// TestHybridAbortsOnIncompressibleLZ4Stage covers a block that pierrec's
// LZ4-HC finds incompressible but that zstd could still shrink: composing
// zstd over LZ4's raw passthrough would produce a payload that decodes as
// garbage, so Hybrid must fail outright rather than silently emit one.
func TestHybridAbortsOnIncompressibleLZ4Stage(t *testing.T) {
	src := make([]byte, 4096)
	var state uint64 = 0x123456789abcdef
	for i := range src {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		src[i] = byte(state)
	}

	_, err := Compress(Hybrid, int(HybridLevels(9, 19)), src)
	if !errors.Is(err, ErrHybridLZ4Incompressible) {
		t.Fatalf("expected ErrHybridLZ4Incompressible, got %v", err)
	}
}

func TestHybridLevelPacking(t *testing.T) {
	packed := HybridLevels(9, 19)
	lz4Level, zstdLevel := SplitHybridLevels(packed)
	if lz4Level != 9 || zstdLevel != 19 {
		t.Fatalf("unpacked (%d, %d), want (9, 19)", lz4Level, zstdLevel)
	}
}

func TestAlgorithmString(t *testing.T) {
	if Stored.String() != "stored" {
		t.Fatalf("unexpected name for Stored: %s", Stored.String())
	}
	if Algorithm(0xff).String() != "unknown" {
		t.Fatalf("expected unknown for unrecognized code")
	}
}
