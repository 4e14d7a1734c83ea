package strategy

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Llucs/TurboZip/internal/analyzer"
	"github.com/Llucs/TurboZip/internal/codec"
	"github.com/Llucs/TurboZip/internal/preprocess"
)

func TestSelectHighEntropyForcesStored(t *testing.T) {
	block := make([]byte, 4096)
	var state uint64 = 42
	for i := range block {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		block[i] = byte(state)
	}
	report := analyzer.Report{ContentClass: analyzer.ClassBinary}
	s := Select(block, LocalEntropy(block), report, Balanced)
	if s.Algorithm != codec.Stored {
		t.Fatalf("expected stored for high-entropy block, got %s", s.Algorithm)
	}
	if s.Preprocess != preprocess.None {
		t.Fatalf("expected no preprocessing on a stored block")
	}
}

func TestSelectBalancedProfile(t *testing.T) {
	block := bytes.Repeat([]byte("hello world "), 64)
	report := analyzer.Report{ContentClass: analyzer.ClassText, RepetitionFactor: 0.1, CompressibilityEstimate: 0.4}
	s := Select(block, LocalEntropy(block), report, Balanced)
	if s.Algorithm != codec.ZstdBalanced || s.Level != 6 {
		t.Fatalf("expected zstd-balanced level 6, got %s level %d", s.Algorithm, s.Level)
	}
}

func TestSelectMaxProfileHybrid(t *testing.T) {
	block := bytes.Repeat([]byte("compressible data pattern "), 100)
	report := analyzer.Report{ContentClass: analyzer.ClassText, CompressibilityEstimate: 0.9}
	s := Select(block, LocalEntropy(block), report, Max)
	if s.Algorithm != codec.Hybrid {
		t.Fatalf("expected hybrid algorithm for high compressibility under max, got %s", s.Algorithm)
	}
}

func TestSelectDeltaPreprocessing(t *testing.T) {
	block := make([]byte, 4*64)
	for i := 0; i < 64; i++ {
		binary.LittleEndian.PutUint32(block[i*4:], uint32(i))
	}
	report := analyzer.Report{ContentClass: analyzer.ClassBinary, CompressibilityEstimate: 0.4}
	s := Select(block, LocalEntropy(block), report, High)
	if s.Preprocess != preprocess.Delta {
		t.Fatalf("expected delta preprocessing for a u32 ramp, got %s", s.Preprocess)
	}
}

func TestSelectRLEPreprocessing(t *testing.T) {
	block := bytes.Repeat([]byte{0x41}, 1024)
	report := analyzer.Report{ContentClass: analyzer.ClassRepetitive, CompressibilityEstimate: 0.9}
	s := Select(block, LocalEntropy(block), report, High)
	if s.Preprocess != preprocess.RLE {
		t.Fatalf("expected rle preprocessing for a uniform block, got %s", s.Preprocess)
	}
}
