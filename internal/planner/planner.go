// Package planner partitions an input of known length into adaptively
// sized blocks, using the content analyzer's report to pick a base block
// size and, for structured text, to snap internal boundaries to natural
// syntactic breaks.
package planner

import "github.com/Llucs/TurboZip/internal/analyzer"

const (
	block64KiB = 64 * 1024
	block1MiB  = 1 << 20
	block2MiB  = 2 << 20
	block8MiB  = 8 << 20
)

// Block describes one contiguous slice of the input.
type Block struct {
	Offset int64
	Length int64
}

// Plan is the ordered, gap-free, non-overlapping sequence of blocks
// covering [0, N).
type Plan struct {
	Blocks        []Block
	BaseBlockSize uint32
}

// Build produces a deterministic partition of an input of length
// totalLen guided by report. Identical (totalLen, report) always yields
// an identical plan.
func Build(totalLen int64, report analyzer.Report, data []byte) Plan {
	base := baseBlockSize(totalLen, report)
	plan := Plan{BaseBlockSize: uint32(base)}

	if totalLen == 0 {
		return plan
	}

	boundaries := rawBoundaries(totalLen, base)
	if report.ContentClass == analyzer.ClassStructuredText {
		boundaries = snapBoundaries(boundaries, base, data)
	}

	prev := int64(0)
	for _, b := range boundaries {
		plan.Blocks = append(plan.Blocks, Block{Offset: prev, Length: b - prev})
		prev = b
	}
	return plan
}

func baseBlockSize(totalLen int64, report analyzer.Report) int64 {
	switch {
	case report.ContentClass == analyzer.ClassCompressed || report.ContentClass == analyzer.ClassMedia || totalLen < block64KiB:
		return block64KiB
	case report.ContentClass == analyzer.ClassText || report.ContentClass == analyzer.ClassSourceCode:
		return block1MiB
	case report.ContentClass == analyzer.ClassStructuredText:
		return block2MiB
	case report.ContentClass == analyzer.ClassBinary && report.CompressibilityEstimate < 0.3:
		return block1MiB
	case report.ContentClass == analyzer.ClassRepetitive || report.CompressibilityEstimate >= 0.7:
		return block8MiB
	default:
		return block1MiB
	}
}

// rawBoundaries returns the strictly increasing end-offsets of each chunk
// before any structured-text snapping is applied.
func rawBoundaries(totalLen, base int64) []int64 {
	var boundaries []int64
	for off := base; off < totalLen; off += base {
		boundaries = append(boundaries, off)
	}
	boundaries = append(boundaries, totalLen)
	return boundaries
}

// snapBoundaries adjusts every internal boundary (not the final one, which
// is always totalLen) to the nearest newline within +/- base/16 bytes,
// falling back to '}' or ']', and leaves it untouched if no candidate is
// found or if snapping would violate strict monotonicity.
func snapBoundaries(boundaries []int64, base int64, data []byte) []int64 {
	window := base / 16
	if window == 0 {
		window = 1
	}

	snapped := make([]int64, len(boundaries))
	prevSnapped := int64(-1)

	for i, b := range boundaries {
		if i == len(boundaries)-1 {
			snapped[i] = b
			continue
		}

		candidate := snapOne(b, window, data)
		if candidate <= prevSnapped {
			candidate = b
		}
		snapped[i] = candidate
		prevSnapped = candidate
	}
	return snapped
}

func snapOne(boundary, window int64, data []byte) int64 {
	lo := boundary - window
	if lo < 0 {
		lo = 0
	}
	hi := boundary + window
	if hi > int64(len(data)) {
		hi = int64(len(data))
	}

	if pos, ok := nearestByte(data, boundary, lo, hi, '\n'); ok {
		return pos + 1
	}
	if pos, ok := nearestByte(data, boundary, lo, hi, '}'); ok {
		return pos + 1
	}
	if pos, ok := nearestByte(data, boundary, lo, hi, ']'); ok {
		return pos + 1
	}
	return boundary
}

// nearestByte scans outward from boundary within [lo, hi) for target,
// returning the closest match by absolute distance.
func nearestByte(data []byte, boundary, lo, hi int64, target byte) (int64, bool) {
	best := int64(-1)
	bestDist := int64(1) << 62
	for i := lo; i < hi; i++ {
		if data[i] != target {
			continue
		}
		dist := i - boundary
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
