package preprocess

import "encoding/binary"

// DeltaForward reinterprets src as a sequence of 4-byte little-endian
// unsigned integers and replaces every value after the first with the
// wrapping difference from its predecessor. Trailing bytes that don't
// make up a full 4-byte word are copied through unchanged, since a block
// is only routed here after the strategy selector has already confirmed
// it decodes cleanly as a run of u32 words.
func DeltaForward(src []byte) []byte {
	n := len(src) / 4
	out := make([]byte, len(src))

	var prev uint32
	for i := 0; i < n; i++ {
		v := binary.LittleEndian.Uint32(src[i*4:])
		if i == 0 {
			binary.LittleEndian.PutUint32(out[i*4:], v)
		} else {
			binary.LittleEndian.PutUint32(out[i*4:], v-prev)
		}
		prev = v
	}
	copy(out[n*4:], src[n*4:])
	return out
}

// DeltaInverse reverses DeltaForward: it accumulates the wrapping sums to
// recover the original u32 sequence.
func DeltaInverse(src []byte) []byte {
	n := len(src) / 4
	out := make([]byte, len(src))

	var acc uint32
	for i := 0; i < n; i++ {
		d := binary.LittleEndian.Uint32(src[i*4:])
		if i == 0 {
			acc = d
		} else {
			acc += d
		}
		binary.LittleEndian.PutUint32(out[i*4:], acc)
	}
	copy(out[n*4:], src[n*4:])
	return out
}
