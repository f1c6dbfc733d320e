package voxels

import (
	"encoding/binary"
	"fmt"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// PackCompression selects the container compression for packed grids.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZstd PackCompression = 1
)

const (
	packMagic   = "VXLG"
	packVersion = 1
)

// PackedGrid is a grid flattened into one self-describing byte buffer,
// suitable for persistence or transport. It never aliases the grid it came
// from, so the source grid may keep mutating after packing.
type PackedGrid struct {
	data []byte
}

// Size returns the packed size in bytes.
func (p *PackedGrid) Size() int { return len(p.data) }

// Data returns the packed bytes.
func (p *PackedGrid) Data() []byte { return p.data }

// Destroy releases the buffer. The pack must not be used afterwards.
func (p *PackedGrid) Destroy() { p.data = nil }

// PackForSave flattens the grid with zstd container compression: dimensions,
// block extent, world transform, and every block's compressed payload in
// row-major (z, y, x) block order.
func (g *Grid) PackForSave() *PackedGrid {
	return g.PackForSaveCompressed(PackCompZstd)
}

// PackForSaveCompressed is PackForSave with an explicit container
// compression.
func (g *Grid) PackForSaveCompressed(comp PackCompression) *PackedGrid {
	if g.index == nil {
		return &PackedGrid{}
	}
	ix := g.index
	// Block storage order is already the deterministic pack order.
	blocks := make([]byte, 0, 8*len(ix.blocks))
	for i := range ix.blocks {
		p := ix.blocks[i].payload
		blocks = binary.LittleEndian.AppendUint32(blocks, uint32(len(p)))
		blocks = append(blocks, p...)
	}
	hdr := packHeader{
		W: g.w, D: g.d, H: g.h,
		Extent: uint8(ix.extent),
		StartX: g.startX, StartY: g.startY, StartZ: g.startZ,
		Step:       g.step,
		BlockCount: uint32(len(ix.blocks)),
		Checksum:   xxhash.Sum64(blocks),
	}
	content := hdr.append(make([]byte, 0, packHeaderSize+len(blocks)))
	content = append(content, blocks...)

	if comp == PackCompZstd {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err == nil {
			content = enc.EncodeAll(content, nil)
			_ = enc.Close()
		} else {
			comp = PackCompNone
		}
	}
	out := make([]byte, 0, 6+len(content))
	out = append(out, packMagic...)
	out = append(out, packVersion, byte(comp))
	return &PackedGrid{data: append(out, content...)}
}

// Load reconstructs a grid from a packed blob. Block payloads are adopted in
// their stored compressed form after validation; no grid is returned on any
// failure.
func Load(blob []byte) (*Grid, error) {
	if len(blob) < 6 {
		return nil, fmt.Errorf("%w: blob is %d bytes", ErrTruncatedBlob, len(blob))
	}
	if string(blob[:4]) != packMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptBlockData)
	}
	if blob[4] != packVersion {
		return nil, fmt.Errorf("%w: unsupported pack version %d", ErrCorruptBlockData, blob[4])
	}
	content := blob[6:]
	switch PackCompression(blob[5]) {
	case PackCompNone:
	case PackCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		content, err = dec.DecodeAll(content, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptBlockData, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown container compression %d", ErrCorruptBlockData, blob[5])
	}

	hdr, err := parsePackHeader(content)
	if err != nil {
		return nil, err
	}
	if hdr.W == 0 || hdr.D == 0 || hdr.H == 0 || hdr.Extent < 1 || int(hdr.Extent) > MaxBlockExtent || hdr.Step <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d extent %d step %v",
			ErrDimensionMismatch, hdr.W, hdr.D, hdr.H, hdr.Extent, hdr.Step)
	}
	section := content[packHeaderSize:]
	// Derive the block count from the dimensions before allocating anything,
	// so a hostile header cannot force a huge index allocation.
	want, ok := expectedBlockCount(hdr)
	if !ok || want != uint64(hdr.BlockCount) {
		return nil, fmt.Errorf("%w: header declares %d blocks, dimensions require %d",
			ErrDimensionMismatch, hdr.BlockCount, want)
	}
	// Every block carries at least its 4-byte length record.
	if want > uint64(len(section)/4) {
		return nil, fmt.Errorf("%w: %d blocks cannot fit in %d section bytes",
			ErrTruncatedBlob, want, len(section))
	}
	g, err := CreateEmptyWithExtent(hdr.W, hdr.D, hdr.H, int(hdr.Extent))
	if err != nil {
		return nil, err
	}
	g.startX, g.startY, g.startZ = hdr.StartX, hdr.StartY, hdr.StartZ
	g.step = hdr.Step

	if xxhash.Sum64(section) != hdr.Checksum {
		return nil, fmt.Errorf("%w: block section checksum mismatch", ErrCorruptBlockData)
	}
	scratch := newBlockData(int(hdr.Extent))
	pos := 0
	for i := 0; i < int(hdr.BlockCount); i++ {
		if pos+4 > len(section) {
			return nil, fmt.Errorf("%w: block %d length record past end", ErrTruncatedBlob, i)
		}
		plen := int(binary.LittleEndian.Uint32(section[pos:]))
		pos += 4
		if pos+plen > len(section) {
			return nil, fmt.Errorf("%w: block %d declares %d bytes past end", ErrTruncatedBlob, i, plen)
		}
		payload := append([]byte(nil), section[pos:pos+plen]...)
		pos += plen
		if err := decompressBlock(payload, int(hdr.Extent), scratch); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		g.index.blocks[i] = Block{payload: payload}
	}
	if pos != len(section) {
		return nil, fmt.Errorf("%w: %d trailing bytes after blocks", ErrDimensionMismatch, len(section)-pos)
	}
	return g, nil
}

// expectedBlockCount computes ceil(W/E)*ceil(D/E)*ceil(H/E) in uint64,
// reporting false when the product overflows.
func expectedBlockCount(hdr packHeader) (uint64, bool) {
	e := uint64(hdr.Extent)
	bw := (uint64(hdr.W) + e - 1) / e
	bd := (uint64(hdr.D) + e - 1) / e
	bh := (uint64(hdr.H) + e - 1) / e
	if bw > math.MaxUint64/bd {
		return 0, false
	}
	n := bw * bd
	if n > math.MaxUint64/bh {
		return 0, false
	}
	return n * bh, true
}
