package reader

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Llucs/TurboZip/internal/errkind"
	"github.com/Llucs/TurboZip/internal/orchestrator"
	"github.com/Llucs/TurboZip/internal/strategy"
)

func compressToBytes(t *testing.T, data []byte, profile strategy.Profile) []byte {
	t.Helper()
	dir := t.TempDir()
	output := filepath.Join(dir, "roundtrip.tzp")
	if _, err := orchestrator.Compress(context.Background(), data, output, orchestrator.Options{Profile: profile}); err != nil {
		t.Fatalf("compress: %v", err)
	}
	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read compressed file: %v", err)
	}
	return raw
}

func TestRoundTripEmpty(t *testing.T) {
	raw := compressToBytes(t, nil, strategy.Balanced)
	result, err := Decompress(context.Background(), raw, 0)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if len(result.Data) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(result.Data))
	}
}

func TestRoundTripRepeatedByte(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1024)
	raw := compressToBytes(t, data, strategy.High)
	result, err := Decompress(context.Background(), raw, 0)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripDeltaSequence(t *testing.T) {
	data := make([]byte, 4*262144)
	for i := 0; i < 262144; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(i))
	}
	raw := compressToBytes(t, data, strategy.High)
	result, err := Decompress(context.Background(), raw, 0)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatalf("round trip mismatch for delta sequence")
	}
}

func TestRoundTripStructuredJSON(t *testing.T) {
	data := bytes.Repeat([]byte(`{"a":1,"b":2,"c":3}`), 100000)
	raw := compressToBytes(t, data, strategy.Fast)
	result, err := Decompress(context.Background(), raw, 0)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatalf("round trip mismatch for structured json")
	}
}

func TestRoundTripHighEntropyRandom(t *testing.T) {
	data := make([]byte, 1<<20)
	var state uint64 = 1
	for i := range data {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		data[i] = byte(state)
	}
	raw := compressToBytes(t, data, strategy.Max)
	result, err := Decompress(context.Background(), raw, 0)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatalf("round trip mismatch for high-entropy random data")
	}
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	raw := make([]byte, 64)
	_, err := Decompress(context.Background(), raw, 0)
	if err == nil {
		t.Fatalf("expected an error for an invalid header")
	}
}

func TestDecompressDetectsFlippedPayloadBit(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1024)
	raw := compressToBytes(t, data, strategy.High)

	// Flip a bit in the last payload byte (the final byte of the file);
	// corrupting metadata or the index would be caught earlier by a
	// different error kind.
	raw[len(raw)-1] ^= 0x01

	_, err := Decompress(context.Background(), raw, 0)
	if err == nil {
		t.Fatalf("expected a checksum failure after corrupting a payload byte")
	}
	var blockMismatch errkind.BlockChecksumMismatchError
	if !errors.Is(err, errkind.ErrGlobalChecksumMismatch) && !errors.As(err, &blockMismatch) {
		t.Fatalf("expected a block or global checksum error, got %v", err)
	}
	if got := errkind.ExitCode(err); got != 3 {
		t.Fatalf("expected corrupted payload to map to exit code 3, got %d", got)
	}
}
