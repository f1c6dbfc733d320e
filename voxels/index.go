package voxels

import "fmt"

type blockCoord struct {
	x, y, z int
}

// blockIndex owns every block of a grid. Blocks live in a dense slice in
// row-major (z, y, x) block order; every in-range coordinate has exactly one
// block and none exist outside it.
type blockIndex struct {
	extent     int
	vw, vd, vh int // grid dimensions in voxels
	bw, bd, bh int // grid dimensions in blocks
	blocks     []Block
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func newBlockIndex(w, d, h uint32, extent int) *blockIndex {
	ix := &blockIndex{
		extent: extent,
		vw:     int(w), vd: int(d), vh: int(h),
		bw: ceilDiv(int(w), extent),
		bd: ceilDiv(int(d), extent),
		bh: ceilDiv(int(h), extent),
	}
	ix.blocks = make([]Block, ix.bw*ix.bd*ix.bh)
	for i := range ix.blocks {
		ix.blocks[i] = newUntouchedBlock()
	}
	return ix
}

func (ix *blockIndex) flat(c blockCoord) int {
	return c.x + c.y*ix.bw + c.z*ix.bw*ix.bd
}

func (ix *blockIndex) contains(c blockCoord) bool {
	return c.x >= 0 && c.x < ix.bw && c.y >= 0 && c.y < ix.bd && c.z >= 0 && c.z < ix.bh
}

// block returns the block at the given block coordinate, bounds-checked.
func (ix *blockIndex) block(c blockCoord) (*Block, error) {
	if !ix.contains(c) {
		return nil, fmt.Errorf("%w: block (%d,%d,%d)", ErrOutOfRange, c.x, c.y, c.z)
	}
	return &ix.blocks[ix.flat(c)], nil
}

// blocksIntersecting returns the coordinates of every block overlapping the
// inclusive voxel-space region [minV, maxV]. Coordinates outside the grid are
// clipped, not an error; a region fully outside yields nothing.
func (ix *blockIndex) blocksIntersecting(minV, maxV [3]int) []blockCoord {
	dims := [3]int{ix.vw, ix.vd, ix.vh}
	for a := 0; a < 3; a++ {
		if minV[a] < 0 {
			minV[a] = 0
		}
		if maxV[a] > dims[a]-1 {
			maxV[a] = dims[a] - 1
		}
		if minV[a] > maxV[a] {
			return nil
		}
	}
	e := ix.extent
	var out []blockCoord
	for bz := minV[2] / e; bz <= maxV[2]/e; bz++ {
		for by := minV[1] / e; by <= maxV[1]/e; by++ {
			for bx := minV[0] / e; bx <= maxV[0]/e; bx++ {
				out = append(out, blockCoord{bx, by, bz})
			}
		}
	}
	return out
}
