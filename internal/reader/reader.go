// Package reader parses a container file and reverses the compress-side
// pipeline, verifying integrity at both the block and whole-file levels.
package reader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Llucs/TurboZip/internal/blockpipe"
	"github.com/Llucs/TurboZip/internal/codec"
	"github.com/Llucs/TurboZip/internal/container"
	"github.com/Llucs/TurboZip/internal/errkind"
)

// Result is a fully decoded and verified container.
type Result struct {
	Header   container.Header
	Metadata container.Metadata
	Data     []byte
}

// Decompress parses raw (the full bytes of a container file), validates
// its structure, and reconstructs the original input, running the
// per-block inverse pipeline across a bounded worker pool.
func Decompress(ctx context.Context, raw []byte, workers int) (Result, error) {
	if len(raw) < container.HeaderSize {
		return Result{}, fmt.Errorf("%w: file shorter than header", errkind.ErrUnsupportedFormat)
	}

	header, err := container.DecodeHeader(raw[:container.HeaderSize])
	if err != nil {
		return Result{}, err
	}

	cursor := container.HeaderSize
	metaEnd := cursor + int(header.MetadataLength)
	if metaEnd > len(raw) {
		return Result{}, fmt.Errorf("%w: metadata section truncated", errkind.ErrCorruptMetadata)
	}
	meta, err := container.DecodeMetadata(raw[cursor:metaEnd])
	if err != nil {
		return Result{}, err
	}
	cursor = metaEnd

	indexLen := int(header.BlockCount) * container.IndexEntrySize
	indexEnd := cursor + indexLen
	if indexEnd > len(raw) {
		return Result{}, fmt.Errorf("%w: block index truncated", errkind.ErrMalformedIndex)
	}
	entries, err := container.DecodeIndex(raw[cursor:indexEnd], header.BlockCount)
	if err != nil {
		return Result{}, err
	}
	cursor = indexEnd

	var totalOriginal uint64
	for _, e := range entries {
		totalOriginal += uint64(e.OriginalSize)
	}
	if totalOriginal != header.OriginalLength {
		return Result{}, fmt.Errorf("%w: sum of block original sizes %d does not match header length %d", errkind.ErrMalformedIndex, totalOriginal, header.OriginalLength)
	}

	payloadRegion := raw[cursor:]

	blocks := make([][]byte, len(entries))
	if workers <= 0 {
		workers = len(entries)
	}
	if workers < 1 {
		workers = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, e := range entries {
		i, e := i, e
		end := e.PayloadOffset + uint64(e.CompressedSize)
		if end > uint64(len(payloadRegion)) {
			return Result{}, fmt.Errorf("%w: block %d payload extends past end of file", errkind.ErrMalformedIndex, i)
		}
		payload := payloadRegion[e.PayloadOffset:end]

		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return errkind.ErrCancelled
			}
			decoded, err := blockpipe.Decode(payload, codec.Algorithm(e.AlgorithmCode), e.Level, e.BlockFlags, e.OriginalSize, e.CRC32, i)
			if err != nil {
				return err
			}
			blocks[i] = decoded
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	data := make([]byte, 0, header.OriginalLength)
	for _, b := range blocks {
		data = append(data, b...)
	}

	sum := sha256.Sum256(data)
	if !bytes.Equal(sum[:8], header.GlobalHash[:]) {
		return Result{}, errkind.ErrGlobalChecksumMismatch
	}

	return Result{Header: header, Metadata: meta, Data: data}, nil
}
