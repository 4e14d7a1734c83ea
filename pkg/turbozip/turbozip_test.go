package turbozip

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Llucs/TurboZip/pkg/progress"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output.tzp")
	restored := filepath.Join(dir, "restored.txt")

	data := bytes.Repeat([]byte("turbozip round trip test data\n"), 20000)
	require.NoError(t, os.WriteFile(input, data, 0o644))

	stats, err := Compress(context.Background(), input, output, Options{Profile: Balanced})
	require.NoError(t, err)
	require.Less(t, stats.CompressedLength, stats.OriginalLength, "expected compression to shrink repetitive text")

	require.NoError(t, Decompress(context.Background(), output, restored, DecompressOptions{}))

	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestDecompressReportsWriteProgress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output.tzp")
	restored := filepath.Join(dir, "restored.txt")

	data := bytes.Repeat([]byte("progress tracked round trip\n"), 5000)
	require.NoError(t, os.WriteFile(input, data, 0o644))

	_, err := Compress(context.Background(), input, output, Options{Profile: Fast})
	require.NoError(t, err)

	tracker := progress.New(uint64(len(data)))
	tracker.SetQuiet(true)
	require.NoError(t, Decompress(context.Background(), output, restored, DecompressOptions{Progress: tracker}))

	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestInspectReportsMetadata(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	output := filepath.Join(dir, "output.tzp")

	data := bytes.Repeat([]byte(`{"a":1,"b":2,"c":3}`), 50000)
	require.NoError(t, os.WriteFile(input, data, 0o644))

	_, err := Compress(context.Background(), input, output, Options{Profile: Fast})
	require.NoError(t, err)

	info, err := Inspect(output)
	require.NoError(t, err)
	require.EqualValues(t, len(data), info.OriginalLength)
	require.Equal(t, "structured_text", string(info.ContentClass))
}
