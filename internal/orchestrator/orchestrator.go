// Package orchestrator runs the full compress-side pipeline over a
// complete input: analysis, planning, per-block strategy selection and
// compression fanned out across a bounded worker pool, and assembly of
// the final container file.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Llucs/TurboZip/internal/analyzer"
	"github.com/Llucs/TurboZip/internal/blockpipe"
	"github.com/Llucs/TurboZip/internal/codec"
	"github.com/Llucs/TurboZip/internal/container"
	"github.com/Llucs/TurboZip/internal/errkind"
	"github.com/Llucs/TurboZip/internal/planner"
	"github.com/Llucs/TurboZip/internal/strategy"
	"github.com/Llucs/TurboZip/pkg/progress"
)

// Options configures a single compress run.
type Options struct {
	Profile         strategy.Profile
	Workers         int // 0 means min(block_count, logical_cpu_count)
	FilenameHint    string
	SampleThreshold int // 0 means analyzer.DefaultWholeFileThreshold
	Logger          *slog.Logger
	Progress        *progress.Tracker // optional; nil disables progress reporting
}

// Stats summarizes a finished compress run for callers that want to
// report on it (the CLI's --verbose output, the info command).
type Stats struct {
	OriginalLength   int64
	CompressedLength int64
	BlockCount       int
	Report           analyzer.Report
	AlgorithmCounts  map[string]int
}

// Compress reads all of input, compresses it per opts, and writes the
// finished container to a temporary file next to output before renaming
// it into place — so a cancelled or failed run never leaves a partial
// file at the destination path.
func Compress(ctx context.Context, data []byte, output string, opts Options) (Stats, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	sampleThreshold := opts.SampleThreshold
	if sampleThreshold <= 0 {
		sampleThreshold = analyzer.DefaultWholeFileThreshold
	}
	report := analyzer.AnalyzeWithThreshold(data, opts.FilenameHint, sampleThreshold)
	plan := planner.Build(int64(len(data)), report, data)
	log.Debug("analysis complete", "content_class", report.ContentClass, "entropy", report.Entropy, "blocks", len(plan.Blocks))

	globalHash := sha256.Sum256(data)

	workers := opts.Workers
	if workers <= 0 {
		workers = min(len(plan.Blocks), runtime.NumCPU())
	}
	if workers < 1 {
		workers = 1
	}

	records := make([]blockpipe.Record, len(plan.Blocks))

	if opts.Progress != nil {
		opts.Progress.Start()
		defer opts.Progress.Stop()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, b := range plan.Blocks {
		i, b := i, b
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return errkind.ErrCancelled
			}
			block := data[b.Offset : b.Offset+b.Length]
			localEntropy := strategy.LocalEntropy(block)
			s := strategy.Select(block, localEntropy, report, opts.Profile)
			records[i] = blockpipe.Encode(block, s)
			if opts.Progress != nil {
				opts.Progress.AddBytes(uint64(len(block)))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Stats{}, err
	}

	histogram := make(map[string]int)
	var globalFlags uint16 = container.FlagAnalysisPerformed
	if plan.BaseBlockSize != uint32(defaultBaseBlockSize) {
		globalFlags |= container.FlagAdaptiveBlockSize
	}
	for _, r := range records {
		histogram[r.Algorithm.String()]++
		if r.PreprocessFlags != 0 {
			globalFlags |= container.FlagPreprocessing
		}
		if r.Algorithm == codec.Hybrid {
			globalFlags |= container.FlagMultiPass
		}
	}

	meta := container.Metadata{
		Profile:            string(opts.Profile),
		Entropy:            report.Entropy,
		PatternDensity:     report.PatternDensity,
		RepetitionFactor:   report.RepetitionFactor,
		ContentClass:       string(report.ContentClass),
		CompressibilityEst: report.CompressibilityEstimate,
		SampleSizeBytes:    report.SampleSizeBytes,
		AlgorithmHistogram: histogram,
	}
	metaBytes, err := meta.Encode()
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}

	entries := make([]container.IndexEntry, len(records))
	var payloadOffset uint64
	for i, r := range records {
		entries[i] = container.IndexEntry{
			PayloadOffset:  payloadOffset,
			CompressedSize: r.CompressedSize,
			OriginalSize:   r.OriginalSize,
			AlgorithmCode:  uint8(r.Algorithm),
			Level:          r.Level,
			BlockFlags:     r.PreprocessFlags,
			CRC32:          r.CRC32,
		}
		payloadOffset += uint64(r.CompressedSize)
	}

	header := container.Header{
		GlobalFlags:    globalFlags,
		OriginalLength: uint64(len(data)),
		BlockCount:     uint32(len(records)),
		BaseBlockSize:  plan.BaseBlockSize,
		GlobalHash:     [8]byte(globalHash[:8]),
		MetadataLength: uint32(len(metaBytes)),
	}

	if err := writeContainer(ctx, output, header, metaBytes, entries, records); err != nil {
		return Stats{}, err
	}

	var compressedLen int64 = container.HeaderSize + int64(len(metaBytes)) + int64(len(entries))*container.IndexEntrySize
	for _, r := range records {
		compressedLen += int64(r.CompressedSize)
	}

	return Stats{
		OriginalLength:   int64(len(data)),
		CompressedLength: compressedLen,
		BlockCount:       len(records),
		Report:           report,
		AlgorithmCounts:  histogram,
	}, nil
}

const defaultBaseBlockSize = 1 << 20

// writeContainer streams the header, metadata, index, and payload region
// to a temporary file in the destination directory, then renames it into
// place. Renaming within the same directory is atomic on POSIX
// filesystems, which is why the temp file is created as a sibling of
// output rather than under os.TempDir.
func writeContainer(ctx context.Context, output string, header container.Header, metaBytes []byte, entries []container.IndexEntry, records []blockpipe.Record) error {
	dir := filepath.Dir(output)
	tmp, err := os.CreateTemp(dir, ".turbozip-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		tmp.Close()
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errkind.ErrCancelled
	}

	if _, err := tmp.Write(header.Encode()); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	if _, err := tmp.Write(metaBytes); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	if _, err := tmp.Write(container.EncodeIndex(entries)); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return errkind.ErrCancelled
		}
		if _, err := tmp.Write(r.Payload); err != nil {
			return fmt.Errorf("%w: %v", errkind.ErrIO, err)
		}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	if err := os.Rename(tmpPath, output); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	success = true
	return nil
}
