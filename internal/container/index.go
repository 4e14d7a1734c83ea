package container

import (
	"encoding/binary"
	"fmt"

	"github.com/Llucs/TurboZip/internal/errkind"
)

// IndexEntry is the decoded form of one 24-byte block index entry.
type IndexEntry struct {
	PayloadOffset  uint64
	CompressedSize uint32
	OriginalSize   uint32
	AlgorithmCode  uint8
	Level          uint8
	BlockFlags     uint16
	CRC32          uint32
}

// Encode writes one entry into a fresh 24-byte buffer.
func (e IndexEntry) Encode() []byte {
	buf := make([]byte, IndexEntrySize)
	binary.LittleEndian.PutUint64(buf[0:8], e.PayloadOffset)
	binary.LittleEndian.PutUint32(buf[8:12], e.CompressedSize)
	binary.LittleEndian.PutUint32(buf[12:16], e.OriginalSize)
	buf[16] = e.AlgorithmCode
	buf[17] = e.Level
	binary.LittleEndian.PutUint16(buf[18:20], e.BlockFlags)
	binary.LittleEndian.PutUint32(buf[20:24], e.CRC32)
	return buf
}

func decodeIndexEntry(buf []byte) IndexEntry {
	var e IndexEntry
	e.PayloadOffset = binary.LittleEndian.Uint64(buf[0:8])
	e.CompressedSize = binary.LittleEndian.Uint32(buf[8:12])
	e.OriginalSize = binary.LittleEndian.Uint32(buf[12:16])
	e.AlgorithmCode = buf[16]
	e.Level = buf[17]
	e.BlockFlags = binary.LittleEndian.Uint16(buf[18:20])
	e.CRC32 = binary.LittleEndian.Uint32(buf[20:24])
	return e
}

// EncodeIndex concatenates every entry's 24-byte encoding in order.
func EncodeIndex(entries []IndexEntry) []byte {
	buf := make([]byte, 0, len(entries)*IndexEntrySize)
	for _, e := range entries {
		buf = append(buf, e.Encode()...)
	}
	return buf
}

// DecodeIndex parses blockCount entries from buf and validates the
// monotonicity invariant: payload offsets are strictly increasing and
// each equals the prior entry's payload_offset + compressed_size.
func DecodeIndex(buf []byte, blockCount uint32) ([]IndexEntry, error) {
	want := int(blockCount) * IndexEntrySize
	if len(buf) != want {
		return nil, fmt.Errorf("%w: expected %d bytes of index, got %d", errkind.ErrMalformedIndex, want, len(buf))
	}

	entries := make([]IndexEntry, blockCount)
	var expectedOffset uint64
	for i := range entries {
		e := decodeIndexEntry(buf[i*IndexEntrySize : (i+1)*IndexEntrySize])
		if e.PayloadOffset != expectedOffset {
			return nil, fmt.Errorf("%w: entry %d payload offset %d, want %d", errkind.ErrMalformedIndex, i, e.PayloadOffset, expectedOffset)
		}
		if e.AlgorithmCode == 0x00 {
			if e.CompressedSize != e.OriginalSize {
				return nil, fmt.Errorf("%w: entry %d is stored but sizes differ", errkind.ErrMalformedIndex, i)
			}
			if e.BlockFlags != 0 {
				return nil, fmt.Errorf("%w: entry %d is stored but carries preprocess flags", errkind.ErrMalformedIndex, i)
			}
		}
		entries[i] = e
		expectedOffset += uint64(e.CompressedSize)
	}
	return entries, nil
}
