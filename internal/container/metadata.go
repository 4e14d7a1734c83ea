package container

import (
	"encoding/json"
	"fmt"

	"github.com/Llucs/TurboZip/internal/errkind"
)

// Metadata is the compact textual map stored right after the header. The
// reference encoding is UTF-8 JSON without insignificant whitespace, per
// §6.1. The key set is closed on purpose: unknown keys are rejected on
// read so a future format version can add fields without silently being
// misread by this one.
type Metadata struct {
	Profile              string         `json:"profile"`
	Entropy              float64        `json:"entropy"`
	PatternDensity       float64        `json:"pattern_density"`
	RepetitionFactor     float64        `json:"repetition_factor"`
	ContentClass         string         `json:"content_class"`
	CompressibilityEst   float64        `json:"compressibility_estimate"`
	SampleSizeBytes      int            `json:"sample_size_bytes"`
	AlgorithmHistogram   map[string]int `json:"algorithm_histogram"`
}

var allowedMetadataKeys = map[string]bool{
	"profile": true, "entropy": true, "pattern_density": true,
	"repetition_factor": true, "content_class": true,
	"compressibility_estimate": true, "sample_size_bytes": true,
	"algorithm_histogram": true,
}

// Encode marshals m as compact JSON (Go's json.Marshal already omits
// insignificant whitespace, matching the reference encoding).
func (m Metadata) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMetadata parses buf into a Metadata, rejecting any key outside
// the closed set this version understands.
func DecodeMetadata(buf []byte) (Metadata, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf, &raw); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", errkind.ErrCorruptMetadata, err)
	}
	for key := range raw {
		if !allowedMetadataKeys[key] {
			return Metadata{}, fmt.Errorf("%w: unknown metadata key %q", errkind.ErrCorruptMetadata, key)
		}
	}

	var m Metadata
	if err := json.Unmarshal(buf, &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", errkind.ErrCorruptMetadata, err)
	}
	return m, nil
}
