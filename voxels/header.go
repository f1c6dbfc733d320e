package voxels

import (
	"encoding/binary"
	"fmt"
	"math"
)

// packHeader is the fixed content header of a packed grid: dimensions, block
// extent, the world transform, the block count derived from them, and a
// checksum over the block section. The per-block payload lengths are stored
// alongside each payload, not here.
type packHeader struct {
	W, D, H                uint32
	Extent                 uint8
	StartX, StartY, StartZ float32
	Step                   float32
	BlockCount             uint32
	Checksum               uint64
}

const packHeaderSize = 4*3 + 1 + 4*4 + 4 + 8

func (h *packHeader) append(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.W)
	dst = binary.LittleEndian.AppendUint32(dst, h.D)
	dst = binary.LittleEndian.AppendUint32(dst, h.H)
	dst = append(dst, h.Extent)
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(h.StartX))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(h.StartY))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(h.StartZ))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(h.Step))
	dst = binary.LittleEndian.AppendUint32(dst, h.BlockCount)
	dst = binary.LittleEndian.AppendUint64(dst, h.Checksum)
	return dst
}

func parsePackHeader(content []byte) (packHeader, error) {
	var h packHeader
	if len(content) < packHeaderSize {
		return h, fmt.Errorf("%w: content shorter than header (%d bytes)", ErrTruncatedBlob, len(content))
	}
	h.W = binary.LittleEndian.Uint32(content[0:])
	h.D = binary.LittleEndian.Uint32(content[4:])
	h.H = binary.LittleEndian.Uint32(content[8:])
	h.Extent = content[12]
	h.StartX = math.Float32frombits(binary.LittleEndian.Uint32(content[13:]))
	h.StartY = math.Float32frombits(binary.LittleEndian.Uint32(content[17:]))
	h.StartZ = math.Float32frombits(binary.LittleEndian.Uint32(content[21:]))
	h.Step = math.Float32frombits(binary.LittleEndian.Uint32(content[25:]))
	h.BlockCount = binary.LittleEndian.Uint32(content[29:])
	h.Checksum = binary.LittleEndian.Uint64(content[33:])
	return h, nil
}
