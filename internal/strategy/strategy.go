// Package strategy picks, for a single block, which preprocessing flags
// and codec/level combination to apply, based on that block's local
// entropy and the file-wide analysis report.
package strategy

import (
	"math"

	"github.com/Llucs/TurboZip/internal/analyzer"
	"github.com/Llucs/TurboZip/internal/codec"
	"github.com/Llucs/TurboZip/internal/preprocess"
)

// Profile is the closed set of user-selectable speed/ratio tradeoffs.
type Profile string

const (
	Lightning Profile = "lightning"
	Fast      Profile = "fast"
	Balanced  Profile = "balanced"
	High      Profile = "high"
	Max       Profile = "max"
)

// Strategy is the outcome of the selection cascade for one block.
type Strategy struct {
	Preprocess preprocess.Kind
	Algorithm  codec.Algorithm
	Level      int
}

// Select runs the ordered rule cascade from block-local entropy and the
// global report to a concrete strategy.
func Select(block []byte, localEntropy float64, report analyzer.Report, profile Profile) Strategy {
	algo, level := selectAlgorithm(localEntropy, report, profile)

	if algo == codec.Stored {
		return Strategy{Preprocess: preprocess.None, Algorithm: algo, Level: level}
	}

	return Strategy{Preprocess: selectPreprocess(block), Algorithm: algo, Level: level}
}

func selectAlgorithm(localEntropy float64, report analyzer.Report, profile Profile) (codec.Algorithm, int) {
	if localEntropy >= 7.5 ||
		report.ContentClass == analyzer.ClassCompressed ||
		report.ContentClass == analyzer.ClassMedia ||
		report.ContentClass == analyzer.ClassExecutable {
		return codec.Stored, 0
	}

	textLike := report.ContentClass == analyzer.ClassText ||
		report.ContentClass == analyzer.ClassSourceCode ||
		report.ContentClass == analyzer.ClassStructuredText
	if textLike && (profile == Lightning || profile == Fast) {
		return codec.LZ4Fast, 0
	}

	if report.RepetitionFactor >= 0.5 && profile == Lightning {
		return codec.LZ4HC, 9
	}

	switch profile {
	case Balanced:
		return codec.ZstdBalanced, 6
	case High:
		return codec.ZstdHigh, 15
	case Max:
		if report.CompressibilityEstimate >= 0.5 {
			return codec.Hybrid, int(codec.HybridLevels(9, 19))
		}
		return codec.ZstdMax, 22
	default:
		// Lightning/Fast fell through the text-like and repetitive rules
		// above without matching (e.g. binary content): default to a
		// cheap LZ4 fast pass rather than falling all the way to stored.
		return codec.LZ4Fast, 0
	}
}

// selectPreprocess enables at most one of delta/rle, per the variance and
// dominant-byte-fraction thresholds; delta wins on a tie.
func selectPreprocess(block []byte) preprocess.Kind {
	if isDeltaCandidate(block) {
		return preprocess.Delta
	}
	if isRLECandidate(block) {
		return preprocess.RLE
	}
	return preprocess.None
}

// isDeltaCandidate checks whether the block decodes cleanly as a run of
// 4-byte little-endian integers whose successive differences have
// variance at least 4x smaller than the variance of the raw values.
func isDeltaCandidate(block []byte) bool {
	if len(block) < 16 || len(block)%4 != 0 {
		return false
	}

	n := len(block) / 4
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v := uint32(block[i*4]) | uint32(block[i*4+1])<<8 | uint32(block[i*4+2])<<16 | uint32(block[i*4+3])<<24
		values[i] = float64(v)
	}

	if n < 2 {
		return false
	}
	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = values[i] - values[i-1]
	}

	rawVariance := variance(values)
	diffVariance := variance(diffs)
	if rawVariance == 0 {
		return false
	}
	return diffVariance*4 <= rawVariance
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

// isRLECandidate reports whether any single byte value accounts for at
// least 30% of the block.
func isRLECandidate(block []byte) bool {
	if len(block) == 0 {
		return false
	}
	var histogram [256]int
	for _, b := range block {
		histogram[b]++
	}
	threshold := 0.3 * float64(len(block))
	for _, count := range histogram {
		if float64(count) >= threshold {
			return true
		}
	}
	return false
}

// LocalEntropy recomputes Shannon entropy over a single block, used by
// the selector instead of the file-wide sampled entropy since a block may
// diverge sharply from the global report.
func LocalEntropy(block []byte) float64 {
	if len(block) == 0 {
		return 0
	}
	var histogram [256]int
	for _, b := range block {
		histogram[b]++
	}
	n := float64(len(block))
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
