package blockpipe

import (
	"bytes"
	"testing"

	"github.com/Llucs/TurboZip/internal/codec"
	"github.com/Llucs/TurboZip/internal/preprocess"
	"github.com/Llucs/TurboZip/internal/strategy"
)

func TestEncodeDecodeRoundTripZstd(t *testing.T) {
	block := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 500)
	s := strategy.Strategy{Preprocess: preprocess.None, Algorithm: codec.ZstdBalanced, Level: 6}

	rec := Encode(block, s)
	if rec.Algorithm != codec.ZstdBalanced {
		t.Fatalf("expected zstd-balanced to survive the shrink check, got %s", rec.Algorithm)
	}

	decoded, err := Decode(rec.Payload, rec.Algorithm, rec.Level, rec.PreprocessFlags, rec.OriginalSize, rec.CRC32, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, block) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeFallsBackToStoredOnIncompressibleData(t *testing.T) {
	block := make([]byte, 256)
	var state uint64 = 7
	for i := range block {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		block[i] = byte(state)
	}
	s := strategy.Strategy{Preprocess: preprocess.None, Algorithm: codec.ZstdMax, Level: 22}

	rec := Encode(block, s)
	if rec.Algorithm != codec.Stored {
		t.Fatalf("expected fallback to stored for incompressible data, got %s", rec.Algorithm)
	}
	if !bytes.Equal(rec.Payload, block) {
		t.Fatalf("expected stored payload to equal the original block")
	}
	if rec.PreprocessFlags != 0 {
		t.Fatalf("expected zero preprocess flags on a stored block")
	}
}

func TestEncodeFallsBackToStoredWhenHybridLZ4StageIsIncompressible(t *testing.T) {
	block := make([]byte, 4096)
	var state uint64 = 0x123456789abcdef
	for i := range block {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		block[i] = byte(state)
	}
	s := strategy.Strategy{Preprocess: preprocess.None, Algorithm: codec.Hybrid, Level: int(codec.HybridLevels(9, 19))}

	rec := Encode(block, s)
	if rec.Algorithm != codec.Stored {
		t.Fatalf("expected fallback to stored when the lz4 stage can't compress, got %s", rec.Algorithm)
	}

	decoded, err := Decode(rec.Payload, rec.Algorithm, rec.Level, rec.PreprocessFlags, rec.OriginalSize, rec.CRC32, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, block) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeDecodeRoundTripRLE(t *testing.T) {
	block := bytes.Repeat([]byte{0x41}, 1024)
	s := strategy.Strategy{Preprocess: preprocess.RLE, Algorithm: codec.ZstdBalanced, Level: 6}

	rec := Encode(block, s)
	decoded, err := Decode(rec.Payload, rec.Algorithm, rec.Level, rec.PreprocessFlags, rec.OriginalSize, rec.CRC32, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, block) {
		t.Fatalf("round trip mismatch for rle-preprocessed block")
	}
}

func TestDecodeDetectsChecksumMismatch(t *testing.T) {
	block := bytes.Repeat([]byte("payload data here "), 200)
	s := strategy.Strategy{Preprocess: preprocess.None, Algorithm: codec.ZstdBalanced, Level: 6}
	rec := Encode(block, s)

	corrupted := append([]byte(nil), rec.Payload...)
	corrupted[0] ^= 0xFF

	_, err := Decode(corrupted, rec.Algorithm, rec.Level, rec.PreprocessFlags, rec.OriginalSize, rec.CRC32, 3)
	if err == nil {
		t.Fatalf("expected an error decoding a corrupted payload")
	}
}
