// Package preprocess implements the reversible byte-level transforms a
// block may pass through before it reaches a codec: delta coding over
// fixed-width little-endian integers, and byte-wise run-length encoding.
// Both transforms are mutually exclusive per block and never applied when
// the block ends up Stored.
package preprocess

// Kind is the closed set of preprocessing transforms a block may carry.
type Kind byte

const (
	None  Kind = 0x00
	Delta Kind = 0x01
	RLE   Kind = 0x02
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Delta:
		return "delta"
	case RLE:
		return "rle"
	default:
		return "unknown"
	}
}

// Apply runs the named transform's forward direction over src.
func Apply(kind Kind, src []byte) ([]byte, error) {
	switch kind {
	case None:
		return src, nil
	case Delta:
		return DeltaForward(src), nil
	case RLE:
		return RLEForward(src), nil
	default:
		return nil, ErrUnknownKind
	}
}

// Reverse runs the named transform's inverse direction over src, restoring
// the bytes that were originally passed to Apply.
func Reverse(kind Kind, src []byte, originalLen int) ([]byte, error) {
	switch kind {
	case None:
		return src, nil
	case Delta:
		return DeltaInverse(src), nil
	case RLE:
		return RLEInverse(src, originalLen)
	default:
		return nil, ErrUnknownKind
	}
}
