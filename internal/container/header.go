// Package container implements the on-disk byte layout: the fixed
// 48-byte header, the JSON metadata section, and the fixed-stride block
// index. Encoding/decoding here is pure byte plumbing; it does not know
// how to compress or analyze anything.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/Llucs/TurboZip/internal/errkind"
)

const (
	HeaderSize     = 48
	IndexEntrySize = 24
)

var Magic = [4]byte{0x54, 0x5A, 0x50, 0x03}

const Version uint16 = 0x0301

// Global flag bits, per the on-disk format's global_flags field.
const (
	FlagAnalysisPerformed uint16 = 1 << 0
	FlagAdaptiveDicts     uint16 = 1 << 1 // reserved, must be 0 in v3.1
	FlagPreprocessing     uint16 = 1 << 2
	FlagMultiPass         uint16 = 1 << 3
	FlagAdaptiveBlockSize uint16 = 1 << 4
	FlagPatternOptimized  uint16 = 1 << 5
)

// Header is the decoded form of the 48-byte fixed header.
type Header struct {
	GlobalFlags       uint16
	OriginalLength    uint64
	BlockCount        uint32
	BaseBlockSize     uint32
	GlobalHash        [8]byte
	MetadataLength    uint32
}

// Encode writes h into a fresh 48-byte buffer laid out exactly as §6.1
// describes: magic, version, flags, original length, block count, base
// block size, global hash, metadata length, and 12 reserved zero bytes.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.GlobalFlags)
	binary.LittleEndian.PutUint64(buf[8:16], h.OriginalLength)
	binary.LittleEndian.PutUint32(buf[16:20], h.BlockCount)
	binary.LittleEndian.PutUint32(buf[20:24], h.BaseBlockSize)
	copy(buf[24:32], h.GlobalHash[:])
	binary.LittleEndian.PutUint32(buf[32:36], h.MetadataLength)
	// buf[36:48] stays zero: reserved.
	return buf
}

// DecodeHeader parses exactly HeaderSize bytes, validating the magic and
// version fields.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, fmt.Errorf("container: header must be %d bytes, got %d", HeaderSize, len(buf))
	}
	if [4]byte(buf[0:4]) != Magic {
		return Header{}, errkind.ErrUnsupportedFormat
	}
	version := binary.LittleEndian.Uint16(buf[4:6])
	if version != Version {
		return Header{}, errkind.ErrUnsupportedFormat
	}

	var h Header
	h.GlobalFlags = binary.LittleEndian.Uint16(buf[6:8])
	h.OriginalLength = binary.LittleEndian.Uint64(buf[8:16])
	h.BlockCount = binary.LittleEndian.Uint32(buf[16:20])
	h.BaseBlockSize = binary.LittleEndian.Uint32(buf[20:24])
	copy(h.GlobalHash[:], buf[24:32])
	h.MetadataLength = binary.LittleEndian.Uint32(buf[32:36])
	return h, nil
}
