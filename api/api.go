// Package api offers conversions between packed grid blobs and the flat
// field arrays external tools consume (editor brushes, mesh extractors).
package api

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxels/voxels"
)

// FieldDims describes the voxel dimensions of an exported field.
type FieldDims struct {
	W, D, H uint32
}

func (d FieldDims) count() int { return int(d.W) * int(d.D) * int(d.H) }

// PackedToDistanceField loads a packed blob and assembles the full dense
// distance field, linear index x + y*W + z*W*D.
func PackedToDistanceField(blob []byte) ([]int8, FieldDims, error) {
	g, err := voxels.Load(blob)
	if err != nil {
		return nil, FieldDims{}, err
	}
	defer g.Destroy()
	dims := FieldDims{g.Width(), g.Depth(), g.Height()}
	field := make([]int8, dims.count())
	e := g.BlockExtent()
	dist := make([]int8, e*e*e)
	forEachBlock(g, func(bx, by, bz int) {
		if !g.BlockDistanceData(blockOrigin(bx, by, bz, e), dist) {
			return
		}
		scatterInt8(field, dist, dims, bx, by, bz, e)
	})
	return field, dims, nil
}

// PackedToMaterialField loads a packed blob and assembles the full dense
// material and blend fields.
func PackedToMaterialField(blob []byte) ([]voxels.MaterialId, []voxels.BlendFactor, FieldDims, error) {
	g, err := voxels.Load(blob)
	if err != nil {
		return nil, nil, FieldDims{}, err
	}
	defer g.Destroy()
	dims := FieldDims{g.Width(), g.Depth(), g.Height()}
	materials := make([]voxels.MaterialId, dims.count())
	blends := make([]voxels.BlendFactor, dims.count())
	e := g.BlockExtent()
	mats := make([]voxels.MaterialId, e*e*e)
	blds := make([]voxels.BlendFactor, e*e*e)
	forEachBlock(g, func(bx, by, bz int) {
		if !g.BlockMaterialData(blockOrigin(bx, by, bz, e), mats, blds) {
			return
		}
		scatterU8(materials, mats, dims, bx, by, bz, e)
		scatterU8(blends, blds, dims, bx, by, bz, e)
	})
	return materials, blends, dims, nil
}

// HeightmapToPacked builds a w×w×w grid from raw density samples and returns
// it packed.
func HeightmapToPacked(w uint32, raw []byte) ([]byte, error) {
	g, err := voxels.CreateFromHeightmap(w, raw)
	if err != nil {
		return nil, err
	}
	defer g.Destroy()
	p := g.PackForSave()
	defer p.Destroy()
	return append([]byte(nil), p.Data()...), nil
}

func blockOrigin(bx, by, bz, e int) mgl32.Vec3 {
	return mgl32.Vec3{float32(bx * e), float32(by * e), float32(bz * e)}
}

func forEachBlock(g *voxels.Grid, fn func(bx, by, bz int)) {
	e := g.BlockExtent()
	nbx := ceilDiv(int(g.Width()), e)
	nby := ceilDiv(int(g.Depth()), e)
	nbz := ceilDiv(int(g.Height()), e)
	for bz := 0; bz < nbz; bz++ {
		for by := 0; by < nby; by++ {
			for bx := 0; bx < nbx; bx++ {
				fn(bx, by, bz)
			}
		}
	}
}

func scatterInt8(field, block []int8, dims FieldDims, bx, by, bz, e int) {
	for z := 0; z < e && bz*e+z < int(dims.H); z++ {
		for y := 0; y < e && by*e+y < int(dims.D); y++ {
			for x := 0; x < e && bx*e+x < int(dims.W); x++ {
				gi := (bx*e + x) + (by*e+y)*int(dims.W) + (bz*e+z)*int(dims.W)*int(dims.D)
				field[gi] = block[x+y*e+z*e*e]
			}
		}
	}
}

func scatterU8(field, block []uint8, dims FieldDims, bx, by, bz, e int) {
	for z := 0; z < e && bz*e+z < int(dims.H); z++ {
		for y := 0; y < e && by*e+y < int(dims.D); y++ {
			for x := 0; x < e && bx*e+x < int(dims.W); x++ {
				gi := (bx*e + x) + (by*e+y)*int(dims.W) + (bz*e+z)*int(dims.W)*int(dims.D)
				field[gi] = block[x+y*e+z*e*e]
			}
		}
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
