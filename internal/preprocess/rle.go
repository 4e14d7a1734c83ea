package preprocess

import "fmt"

// RLEForward encodes src as a sequence of (count, value) byte pairs, each
// run capped at 255 bytes so the count fits a single byte. Runs never span
// a length boundary that Reverse can't recover; the original byte length
// travels alongside the block in the block index rather than being
// embedded here.
func RLEForward(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}

	out := make([]byte, 0, len(src))
	current := src[0]
	count := byte(1)

	for i := 1; i < len(src); i++ {
		if src[i] == current && count < 255 {
			count++
			continue
		}
		out = append(out, count, current)
		current = src[i]
		count = 1
	}
	out = append(out, count, current)
	return out
}

// RLEInverse reverses RLEForward. originalLen is the pre-encoding byte
// count, used only to size the output buffer and to sanity-check the
// decoded run lengths sum to it.
func RLEInverse(src []byte, originalLen int) ([]byte, error) {
	if originalLen == 0 {
		return nil, nil
	}
	if len(src)%2 != 0 {
		return nil, fmt.Errorf("preprocess: malformed rle stream: odd length %d", len(src))
	}

	out := make([]byte, 0, originalLen)
	for i := 0; i < len(src); i += 2 {
		count := src[i]
		value := src[i+1]
		for j := byte(0); j < count; j++ {
			out = append(out, value)
		}
	}
	if len(out) != originalLen {
		return nil, fmt.Errorf("preprocess: rle decoded length %d, want %d", len(out), originalLen)
	}
	return out, nil
}
