package voxels

import "bytes"

// BlockData is the dense working form of one block: extent³ cells as three
// parallel channels, linear cell index x + y*extent + z*extent². It exists
// only transiently while an operation mutates a block.
type BlockData struct {
	Distance []int8
	Material []MaterialId
	Blend    []BlendFactor
}

func newBlockData(extent int) *BlockData {
	n := extent * extent * extent
	bd := &BlockData{
		Distance: make([]int8, n),
		Material: make([]MaterialId, n),
		Blend:    make([]BlendFactor, n),
	}
	for i := range bd.Distance {
		bd.Distance[i] = defaultDistance
	}
	return bd
}

var untouchedPayload = []byte{encUniform, byte(defaultDistance), defaultMaterial, defaultBlend}

// Block is the compression unit of a grid: extent³ cells held as a
// self-describing compressed payload. A block owns its payload exclusively
// and is always compressed at rest; all cell access goes through
// Decompress/RecompressFrom.
type Block struct {
	payload []byte
}

func newUntouchedBlock() Block {
	return Block{payload: append([]byte(nil), untouchedPayload...)}
}

// Decompress decodes the stored payload into dst, overwriting every cell.
// It never fails for a block built by RecompressFrom; payloads adopted from
// packed blobs are validated at load time.
func (b *Block) Decompress(extent int, dst *BlockData) error {
	return decompressBlock(b.payload, extent, dst)
}

// RecompressFrom replaces the stored payload with the smallest encoding of
// the given dense cells.
func (b *Block) RecompressFrom(extent int, src *BlockData) {
	b.payload = compressBlock(src, extent)
}

// IsUntouched reports whether the block still holds only default cells, so
// callers can skip materializing it.
func (b *Block) IsUntouched() bool {
	return bytes.Equal(b.payload, untouchedPayload)
}

// CompressedSize returns the stored payload size in bytes.
func (b *Block) CompressedSize() int { return len(b.payload) }
