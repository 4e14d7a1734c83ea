// Package analyzer inspects a byte stream and produces a Report used by
// the block planner and strategy selector to pick block sizes and codecs
// without re-scanning the whole input on every decision.
package analyzer

import (
	"math"
	"strings"
	"unicode/utf8"
)

// ContentClass is the closed set of content categories the analyzer can
// assign. It never grows by open extension — new classes require a new
// format version.
type ContentClass string

const (
	ClassText           ContentClass = "text"
	ClassStructuredText ContentClass = "structured_text"
	ClassSourceCode     ContentClass = "source_code"
	ClassBinary         ContentClass = "binary"
	ClassExecutable     ContentClass = "executable"
	ClassMedia          ContentClass = "media"
	ClassCompressed     ContentClass = "compressed"
	ClassRepetitive     ContentClass = "repetitive"
	ClassUnknown        ContentClass = "unknown"
)

// Report is the immutable result of analyzing an input. It is built once
// per file, before partitioning, and carries no state back into the
// analyzer.
type Report struct {
	Entropy                float64
	PatternDensity         float64
	RepetitionFactor       float64
	ContentClass           ContentClass
	CompressibilityEstimate float64
	SampleSizeBytes        int
}

const (
	// DefaultWholeFileThreshold is the sampling threshold used when a
	// caller doesn't have a configured override (internal/config's
	// engine.sample_threshold). Below this size the whole file is
	// sampled; above it, AnalyzeWithThreshold falls back to the
	// first/middle/last chunk sampling policy.
	DefaultWholeFileThreshold = 64 * 1024
	sampleChunk               = 16 * 1024
)

// Analyze never fails: on any internal difficulty it degrades to a
// conservative unknown-class report rather than propagating an error,
// since a bad guess here only costs compression ratio, not correctness.
// It samples using DefaultWholeFileThreshold; callers that have a
// configured sample threshold should use AnalyzeWithThreshold instead.
func Analyze(data []byte, filenameHint string) Report {
	return AnalyzeWithThreshold(data, filenameHint, DefaultWholeFileThreshold)
}

// AnalyzeWithThreshold behaves like Analyze but samples the whole file
// only when it is at or below wholeFileThreshold, rather than the
// compiled-in default.
func AnalyzeWithThreshold(data []byte, filenameHint string, wholeFileThreshold int) (report Report) {
	defer func() {
		// analysis must never panic the caller; a malformed sample (e.g.
		// pathological UTF-8) falls back to the conservative report.
		if recover() != nil {
			report = Report{ContentClass: ClassUnknown, CompressibilityEstimate: 0.5}
		}
	}()

	sample := takeSample(data, wholeFileThreshold)
	if len(sample) == 0 {
		return Report{ContentClass: ClassUnknown, CompressibilityEstimate: 0.5}
	}

	entropy := shannonEntropy(sample)
	patternDensity := patternDensityOf(sample)
	repetitionFactor := repetitionFactorOf(sample)
	class := classify(sample, filenameHint, entropy, repetitionFactor)
	compressibility := clamp01((8-entropy)/8*0.7 + patternDensity*0.2 + repetitionFactor*0.1)

	return Report{
		Entropy:                 entropy,
		PatternDensity:          patternDensity,
		RepetitionFactor:        repetitionFactor,
		ContentClass:            class,
		CompressibilityEstimate: compressibility,
		SampleSizeBytes:         len(sample),
	}
}

// takeSample implements the sampling policy: whole file at or below the
// threshold, otherwise the first/middle/last 16 KiB concatenated.
func takeSample(data []byte, wholeFileThreshold int) []byte {
	if len(data) <= wholeFileThreshold {
		return data
	}

	sample := make([]byte, 0, sampleChunk*3)
	sample = append(sample, data[:sampleChunk]...)

	mid := len(data)/2 - sampleChunk/2
	sample = append(sample, data[mid:mid+sampleChunk]...)

	sample = append(sample, data[len(data)-sampleChunk:]...)
	return sample
}

func shannonEntropy(sample []byte) float64 {
	var histogram [256]int
	for _, b := range sample {
		histogram[b]++
	}

	n := float64(len(sample))
	var h float64
	for _, count := range histogram {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		h -= p * math.Log2(p)
	}
	return h
}

// patternDensityOf slides windows of size 4, 8, and 16 across the sample
// and averages the fraction of distinct windows that recur at least once.
func patternDensityOf(sample []byte) float64 {
	sizes := [3]int{4, 8, 16}
	var sum float64
	for _, w := range sizes {
		sum += windowRepeatRatio(sample, w)
	}
	return sum / float64(len(sizes))
}

func windowRepeatRatio(sample []byte, w int) float64 {
	if len(sample) < w {
		return 0
	}
	seen := make(map[string]int)
	for i := 0; i+w <= len(sample); i++ {
		seen[string(sample[i:i+w])]++
	}
	if len(seen) == 0 {
		return 0
	}
	repeated := 0
	for _, count := range seen {
		if count >= 2 {
			repeated++
		}
	}
	ratio := float64(repeated) / float64(len(seen))
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// repetitionFactorOf slides windows of size 32 and 64 and averages the
// fraction of windows that exactly match some earlier window.
func repetitionFactorOf(sample []byte) float64 {
	sizes := [2]int{32, 64}
	var sum float64
	for _, w := range sizes {
		sum += earlierMatchRatio(sample, w)
	}
	return sum / float64(len(sizes))
}

func earlierMatchRatio(sample []byte, w int) float64 {
	if len(sample) < w {
		return 0
	}
	seen := make(map[string]bool)
	total := 0
	matched := 0
	for i := 0; i+w <= len(sample); i++ {
		window := string(sample[i : i+w])
		total++
		if seen[window] {
			matched++
		}
		seen[window] = true
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

var knownExtensions = map[string]ContentClass{
	".jpg": ClassMedia, ".jpeg": ClassMedia, ".png": ClassMedia, ".gif": ClassMedia,
	".mp3": ClassMedia, ".mp4": ClassMedia, ".avi": ClassMedia,
	".zip": ClassCompressed, ".gz": ClassCompressed, ".xz": ClassCompressed,
	".7z": ClassCompressed, ".bz2": ClassCompressed, ".zst": ClassCompressed,
	".exe": ClassExecutable, ".dll": ClassExecutable, ".so": ClassExecutable,
}

// magicSignatures maps well-known header bytes to a content class, used
// when the filename hint is absent or lies.
var magicSignatures = []struct {
	sig   []byte
	class ContentClass
}{
	{[]byte{0xFF, 0xD8, 0xFF}, ClassMedia},                   // JPEG
	{[]byte{0x89, 0x50, 0x4E, 0x47}, ClassMedia},              // PNG
	{[]byte{0x47, 0x49, 0x46, 0x38}, ClassMedia},              // GIF
	{[]byte{0x50, 0x4B, 0x03, 0x04}, ClassCompressed},         // ZIP
	{[]byte{0x1F, 0x8B, 0x08}, ClassCompressed},               // GZIP
	{[]byte{0x42, 0x5A, 0x68}, ClassCompressed},                // BZIP2
	{[]byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}, ClassCompressed}, // XZ
	{[]byte{0x28, 0xB5, 0x2F, 0xFD}, ClassCompressed},          // Zstd
	{[]byte{0x04, 0x22, 0x4D, 0x18}, ClassCompressed},          // LZ4
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, ClassCompressed}, // 7z
	{[]byte{0x4D, 0x5A}, ClassExecutable},                      // PE/EXE
	{[]byte{0x7F, 0x45, 0x4C, 0x46}, ClassExecutable},          // ELF
}

var sourceKeywords = []string{
	"func ", "def ", "class ", "import ", "package ", "return ", "public ", "private ",
	"#include", "namespace ", "var ", "const ", "if (", "for (", "while (",
}

func classify(sample []byte, filenameHint string, entropy, repetitionFactor float64) ContentClass {
	if entropy >= 7.5 {
		return ClassCompressed
	}

	if filenameHint != "" {
		lower := strings.ToLower(filenameHint)
		for ext, class := range knownExtensions {
			if strings.HasSuffix(lower, ext) {
				return class
			}
		}
	}

	for _, sig := range magicSignatures {
		if len(sample) >= len(sig.sig) && hasPrefix(sample, sig.sig) {
			return sig.class
		}
	}

	if utf8.Valid(sample) {
		text := string(sample)
		if looksStructured(text) {
			return ClassStructuredText
		}
		if looksLikeSource(text) {
			return ClassSourceCode
		}
		return ClassText
	}

	if repetitionFactor >= 0.5 {
		return ClassRepetitive
	}

	return ClassBinary
}

func hasPrefix(data, prefix []byte) bool {
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}

func looksStructured(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return true
	}

	structural := 0
	candidates := 0
	for _, r := range text {
		switch r {
		case '{', '}', '[', ']', '"', ':', ',':
			structural++
			candidates++
		case ' ', '\n', '\t', '\r':
			// not a structural candidate, ignored
		default:
			candidates++
		}
	}
	if candidates == 0 {
		return false
	}
	return float64(structural)/float64(candidates) >= 0.8
}

func looksLikeSource(text string) bool {
	hits := 0
	for _, kw := range sourceKeywords {
		hits += strings.Count(text, kw)
	}
	semicolons := strings.Count(text, ";")
	density := float64(semicolons) / float64(len(text)+1)
	return hits >= 3 || density > 0.01
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
