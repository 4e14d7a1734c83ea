// Package turbozip is the public entry point to the compression engine:
// Compress, Decompress, and Inspect operate on whole files and wrap the
// internal analyzer/planner/orchestrator/reader pipeline behind a small
// stable surface, the way lib.go re-exports its underlying core package.
package turbozip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Llucs/TurboZip/internal/analyzer"
	"github.com/Llucs/TurboZip/internal/config"
	"github.com/Llucs/TurboZip/internal/container"
	"github.com/Llucs/TurboZip/internal/errkind"
	"github.com/Llucs/TurboZip/internal/orchestrator"
	"github.com/Llucs/TurboZip/internal/reader"
	"github.com/Llucs/TurboZip/internal/strategy"
	"github.com/Llucs/TurboZip/pkg/progress"
)

// Profile re-exports the strategy package's profile type so callers never
// need to import internal/strategy directly.
type Profile = strategy.Profile

const (
	Lightning = strategy.Lightning
	Fast      = strategy.Fast
	Balanced  = strategy.Balanced
	High      = strategy.High
	Max       = strategy.Max
)

// Stats re-exports the orchestrator's compression summary.
type Stats = orchestrator.Stats

// Options configures a Compress call. Any field left at its zero value
// falls back to internal/config.Defaults() rather than a hardcoded
// literal, so a caller that never touches config still gets the
// package's compiled-in defaults instead of an arbitrary constant
// duplicated here.
type Options struct {
	Profile         Profile
	Workers         int
	SampleThreshold int
	Logger          *slog.Logger
	Progress        *progress.Tracker
}

// Compress reads input, compresses it per opts, and atomically writes the
// result to output. Zero-valued fields in opts are filled in from
// internal/config.Defaults(); callers that already resolved a layered
// config (config file, environment, CLI flags) should pass the fully
// resolved values in and never hit this fallback.
func Compress(ctx context.Context, input, output string, opts Options) (Stats, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}

	defaults := config.Defaults()

	profile := opts.Profile
	if profile == "" {
		profile = Profile(defaults.Engine.DefaultProfile)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaults.Engine.Workers
	}

	sampleThreshold := opts.SampleThreshold
	if sampleThreshold <= 0 {
		sampleThreshold = int(defaults.Engine.SampleThresholdBytes())
	}

	return orchestrator.Compress(ctx, data, output, orchestrator.Options{
		Profile:         profile,
		Workers:         workers,
		FilenameHint:    input,
		SampleThreshold: sampleThreshold,
		Logger:          opts.Logger,
		Progress:        opts.Progress,
	})
}

// DecompressOptions configures a Decompress call. Progress, when set, is
// driven off the bytes actually written to output rather than bytes read
// from the container, so a truncated or slow disk write is reflected in
// the reported throughput.
type DecompressOptions struct {
	Workers  int
	Progress *progress.Tracker
}

// Decompress reads a container file at input and writes the reconstructed
// original bytes to output.
func Decompress(ctx context.Context, input, output string, opts DecompressOptions) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}

	if opts.Progress != nil {
		opts.Progress.Start()
		defer opts.Progress.Stop()
	}

	result, err := reader.Decompress(ctx, raw, opts.Workers)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	defer f.Close()

	pw := &progress.Writer{W: f, Tracker: opts.Progress}
	if _, err := io.Copy(pw, bytes.NewReader(result.Data)); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	return nil
}

// Info summarizes a container file without fully decompressing it,
// backing the CLI's "info" subcommand.
type Info struct {
	OriginalLength   uint64
	CompressedLength uint64
	BlockCount       uint32
	BaseBlockSize    uint32
	Profile          string
	ContentClass     analyzer.ContentClass
	Entropy          float64
	CompressibilityEstimate float64
	AlgorithmHistogram map[string]int
}

// Inspect parses a container file's header and metadata section; the
// block index and block payloads are not decoded.
func Inspect(path string) (Info, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", errkind.ErrIO, err)
	}
	if len(raw) < container.HeaderSize {
		return Info{}, fmt.Errorf("%w: file shorter than header", errkind.ErrUnsupportedFormat)
	}

	header, err := container.DecodeHeader(raw[:container.HeaderSize])
	if err != nil {
		return Info{}, err
	}

	cursor := container.HeaderSize
	metaEnd := cursor + int(header.MetadataLength)
	if metaEnd > len(raw) {
		return Info{}, fmt.Errorf("%w: metadata section truncated", errkind.ErrCorruptMetadata)
	}
	meta, err := container.DecodeMetadata(raw[cursor:metaEnd])
	if err != nil {
		return Info{}, err
	}

	return Info{
		OriginalLength:          header.OriginalLength,
		CompressedLength:        uint64(len(raw)),
		BlockCount:              header.BlockCount,
		BaseBlockSize:           header.BaseBlockSize,
		Profile:                 meta.Profile,
		ContentClass:            analyzer.ContentClass(meta.ContentClass),
		Entropy:                 meta.Entropy,
		CompressibilityEstimate: meta.CompressibilityEst,
		AlgorithmHistogram:      meta.AlgorithmHistogram,
	}, nil
}
