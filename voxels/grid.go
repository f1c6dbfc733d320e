package voxels

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Grid is a voxel field of signed distances, material ids and blend factors,
// kept compressed in fixed-size cubic blocks. Grids use a coordinate system
// where Z is up.
//
// A Grid is not safe for concurrent use. Callers that need concurrency must
// serialize access to one grid externally; distinct grids share no state.
type Grid struct {
	w, d, h                uint32
	startX, startY, startZ float32
	step                   float32
	index                  *blockIndex
}

// Create generates a w×d×h grid by sampling surface at every voxel. The
// voxel at index (x, y, z) samples the surface coordinate
// (startX + x*step, startY + y*step, startZ + z*step).
func Create(w, d, h uint32, startX, startY, startZ, step float32, surface Surface) (*Grid, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %v", ErrInvalidConstruction, step)
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidConstruction)
	}
	g, err := CreateEmptyWithExtent(w, d, h, DefaultBlockExtent)
	if err != nil {
		return nil, err
	}
	g.startX, g.startY, g.startZ = startX, startY, startZ
	g.step = step
	center, half := g.fullRegion()
	g.InjectSurface(center, half, surface, InjectAdd)
	return g, nil
}

// CreateEmpty creates an all-default grid with the default block extent,
// origin zero and unit step.
func CreateEmpty(w, d, h uint32) (*Grid, error) {
	return CreateEmptyWithExtent(w, d, h, DefaultBlockExtent)
}

// CreateEmptyWithExtent is CreateEmpty with an explicit block extent.
func CreateEmptyWithExtent(w, d, h uint32, extent int) (*Grid, error) {
	if w == 0 || d == 0 || h == 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidConstruction, w, d, h)
	}
	if extent < 1 || extent > MaxBlockExtent {
		return nil, fmt.Errorf("%w: block extent %d", ErrInvalidConstruction, extent)
	}
	return &Grid{
		w: w, d: d, h: h,
		step:  1,
		index: newBlockIndex(w, d, h, extent),
	}, nil
}

// heightThreshold splits raw heightmap samples into inside (below) and
// outside (above).
const heightThreshold = 128

// CreateFromHeightmap creates a w×w×w grid seeded from w³ raw density
// samples: the signed offset of each sample from the threshold becomes the
// voxel's quantized distance, so below-threshold samples land inside.
func CreateFromHeightmap(w uint32, heightmap []byte) (*Grid, error) {
	n := int(w) * int(w) * int(w)
	if w == 0 || len(heightmap) != n {
		return nil, fmt.Errorf("%w: want %d heightmap samples, got %d", ErrInvalidConstruction, n, len(heightmap))
	}
	g, err := CreateEmpty(w, w, w)
	if err != nil {
		return nil, err
	}
	ix := g.index
	e := ix.extent
	bd := newBlockData(e)
	dims := int(w)
	for bz := 0; bz < ix.bh; bz++ {
		for by := 0; by < ix.bd; by++ {
			for bx := 0; bx < ix.bw; bx++ {
				for i := range bd.Distance {
					bd.Distance[i] = defaultDistance
					bd.Material[i] = defaultMaterial
					bd.Blend[i] = defaultBlend
				}
				x1, y1, z1 := minInt(e, dims-bx*e), minInt(e, dims-by*e), minInt(e, dims-bz*e)
				for z := 0; z < z1; z++ {
					for y := 0; y < y1; y++ {
						for x := 0; x < x1; x++ {
							gx, gy, gz := bx*e+x, by*e+y, bz*e+z
							raw := heightmap[gx+gy*dims+gz*dims*dims]
							bd.Distance[x+y*e+z*e*e] = clampDistance(int(raw) - heightThreshold)
						}
					}
				}
				ix.blocks[ix.flat(blockCoord{bx, by, bz})].RecompressFrom(e, bd)
			}
		}
	}
	return g, nil
}

// Destroy releases the grid's blocks. The grid must not be used afterwards.
func (g *Grid) Destroy() { g.index = nil }

// Width returns the grid width in voxels.
func (g *Grid) Width() uint32 { return g.w }

// Depth returns the grid depth in voxels.
func (g *Grid) Depth() uint32 { return g.d }

// Height returns the grid height in voxels.
func (g *Grid) Height() uint32 { return g.h }

// BlockExtent returns the edge length in voxels of the cubic blocks. Blocks
// are always cubes and the extent is constant for the grid's lifetime.
func (g *Grid) BlockExtent() int { return g.index.extent }

// BlocksMemorySize returns the total bytes held by the compressed blocks.
func (g *Grid) BlocksMemorySize() int {
	total := 0
	for i := range g.index.blocks {
		total += g.index.blocks[i].CompressedSize()
	}
	return total
}

// BlockDistanceData copies the distance channel of the block containing the
// given voxel coordinate into out, which must hold BlockExtent()³ elements.
// It reports false, copying nothing, when the coordinate is outside the grid.
func (g *Grid) BlockDistanceData(coords mgl32.Vec3, out []int8) bool {
	blk, ok := g.blockForVoxel(coords)
	if !ok {
		return false
	}
	bd := newBlockData(g.index.extent)
	if err := blk.Decompress(g.index.extent, bd); err != nil {
		return false
	}
	copy(out, bd.Distance)
	return true
}

// ModifyBlockDistanceData overwrites the distance channel of the block
// containing the given voxel coordinate. distances must hold BlockExtent()³
// elements. Out-of-range coordinates are a no-op.
func (g *Grid) ModifyBlockDistanceData(coords mgl32.Vec3, distances []int8) {
	blk, ok := g.blockForVoxel(coords)
	if !ok {
		return
	}
	e := g.index.extent
	bd := newBlockData(e)
	if err := blk.Decompress(e, bd); err != nil {
		return
	}
	copy(bd.Distance, distances)
	blk.RecompressFrom(e, bd)
}

// BlockMaterialData copies the material and blend channels of the block
// containing the given voxel coordinate. Both outputs must hold
// BlockExtent()³ elements. It reports false when the coordinate is outside
// the grid.
func (g *Grid) BlockMaterialData(coords mgl32.Vec3, materials []MaterialId, blends []BlendFactor) bool {
	blk, ok := g.blockForVoxel(coords)
	if !ok {
		return false
	}
	bd := newBlockData(g.index.extent)
	if err := blk.Decompress(g.index.extent, bd); err != nil {
		return false
	}
	copy(materials, bd.Material)
	copy(blends, bd.Blend)
	return true
}

// ModifyBlockMaterialData overwrites the material and blend channels of the
// block containing the given voxel coordinate. Out-of-range coordinates are
// a no-op.
func (g *Grid) ModifyBlockMaterialData(coords mgl32.Vec3, materials []MaterialId, blends []BlendFactor) {
	blk, ok := g.blockForVoxel(coords)
	if !ok {
		return
	}
	e := g.index.extent
	bd := newBlockData(e)
	if err := blk.Decompress(e, bd); err != nil {
		return
	}
	copy(bd.Material, materials)
	copy(bd.Blend, blends)
	blk.RecompressFrom(e, bd)
}

func (g *Grid) blockForVoxel(coords mgl32.Vec3) (*Block, bool) {
	if g.index == nil {
		return nil, false
	}
	vx := int(math.Floor(float64(coords.X())))
	vy := int(math.Floor(float64(coords.Y())))
	vz := int(math.Floor(float64(coords.Z())))
	if vx < 0 || vy < 0 || vz < 0 || vx >= int(g.w) || vy >= int(g.d) || vz >= int(g.h) {
		return nil, false
	}
	e := g.index.extent
	blk, err := g.index.block(blockCoord{vx / e, vy / e, vz / e})
	if err != nil {
		return nil, false
	}
	return blk, true
}

// fullRegion returns the surface-space center and half extents spanning
// every voxel of the grid.
func (g *Grid) fullRegion() (mgl32.Vec3, mgl32.Vec3) {
	half := mgl32.Vec3{
		g.step * float32(g.w-1) / 2,
		g.step * float32(g.d-1) / 2,
		g.step * float32(g.h-1) / 2,
	}
	center := mgl32.Vec3{g.startX, g.startY, g.startZ}.Add(half)
	return center, half
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
