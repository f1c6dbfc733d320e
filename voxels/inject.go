package voxels

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InjectionType selects how an injected surface combines with the stored
// field.
type InjectionType int

const (
	// InjectAdd unions the source solid with the existing one.
	InjectAdd InjectionType = iota
	// InjectSubtractAddInner carves the source volume, then refills the
	// source's own interior as new solid (carve-and-refill "replace" edits).
	InjectSubtractAddInner
	// InjectSubtract removes the source volume from the existing solid.
	InjectSubtract
)

// Box is a surface-space bounding box of the voxels an edit actually
// changed. An empty box means the edit changed nothing.
type Box struct {
	Min, Max mgl32.Vec3
}

func emptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether no voxel was changed.
func (b Box) Empty() bool { return b.Min.X() > b.Max.X() }

func (b *Box) extend(v mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if v[i] < b.Min[i] {
			b.Min[i] = v[i]
		}
		if v[i] > b.Max[i] {
			b.Max[i] = v[i]
		}
	}
}

// materialBlendStep is how far one InjectMaterial application moves a cell's
// blend factor.
const materialBlendStep = 32

// InjectSurface applies the surface over the region position ± extents (in
// surface space) using the given combination type. Only blocks intersecting
// the region are decompressed and recompressed; regions outside the grid are
// clipped silently. The returned box bounds the voxels whose stored value
// changed, converted back to surface space.
func (g *Grid) InjectSurface(position, extents mgl32.Vec3, surface Surface, injType InjectionType) Box {
	box := emptyBox()
	if g.index == nil || surface == nil {
		return box
	}
	minV, maxV, ok := g.voxelRegion(position, extents)
	if !ok {
		return box
	}
	e := g.index.extent
	bd := newBlockData(e)
	for _, bc := range g.index.blocksIntersecting(minV, maxV) {
		blk := &g.index.blocks[g.index.flat(bc)]
		if err := blk.Decompress(e, bd); err != nil {
			continue
		}
		changed := false
		x0, x1 := clipToBlock(minV[0], maxV[0], bc.x, e)
		y0, y1 := clipToBlock(minV[1], maxV[1], bc.y, e)
		z0, z1 := clipToBlock(minV[2], maxV[2], bc.z, e)
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					sx := g.startX + float32(x)*g.step
					sy := g.startY + float32(y)*g.step
					sz := g.startZ + float32(z)*g.step
					dist, mat := surface.Sample(sx, sy, sz)
					q := quantizeDistance(dist, g.step)
					i := (x - bc.x*e) + (y-bc.y*e)*e + (z-bc.z*e)*e*e
					nd, nm, nb := combineCell(injType, bd.Distance[i], bd.Material[i], bd.Blend[i], q, mat)
					if nd != bd.Distance[i] || nm != bd.Material[i] || nb != bd.Blend[i] {
						bd.Distance[i] = nd
						bd.Material[i] = nm
						bd.Blend[i] = nb
						changed = true
						box.extend(mgl32.Vec3{sx, sy, sz})
					}
				}
			}
		}
		if changed {
			blk.RecompressFrom(e, bd)
		}
	}
	return box
}

// combineCell applies one injection policy to a single cell. q is the
// quantized source distance, negative inside the source solid.
func combineCell(injType InjectionType, od int8, om MaterialId, ob BlendFactor, q int8, mat MaterialId) (int8, MaterialId, BlendFactor) {
	switch injType {
	case InjectAdd:
		// Union: the source wins where it is closer; its material is written
		// where it is solid.
		if q < od {
			if q < 0 {
				return q, mat, maxBlend
			}
			return q, om, ob
		}
	case InjectSubtract:
		// Difference: carve the source volume, keep materials.
		if neg := clampDistance(-int(q)); neg > od {
			return neg, om, ob
		}
	case InjectSubtractAddInner:
		// Carve, then refill the source interior with the source material.
		if q < 0 {
			return q, mat, maxBlend
		}
		if neg := clampDistance(-int(q)); neg > od {
			return neg, om, ob
		}
	}
	return od, om, ob
}

// InjectMaterial applies a constant material over the region position ±
// extents, adjusting blend factors by a saturating step without touching
// distance values. addSubtractBlend selects additive (true) or subtractive
// (false) adjustment; additive application rebinds the cell's material id.
func (g *Grid) InjectMaterial(position, extents mgl32.Vec3, material MaterialId, addSubtractBlend bool) Box {
	box := emptyBox()
	if g.index == nil {
		return box
	}
	minV, maxV, ok := g.voxelRegion(position, extents)
	if !ok {
		return box
	}
	e := g.index.extent
	bd := newBlockData(e)
	for _, bc := range g.index.blocksIntersecting(minV, maxV) {
		blk := &g.index.blocks[g.index.flat(bc)]
		if err := blk.Decompress(e, bd); err != nil {
			continue
		}
		changed := false
		x0, x1 := clipToBlock(minV[0], maxV[0], bc.x, e)
		y0, y1 := clipToBlock(minV[1], maxV[1], bc.y, e)
		z0, z1 := clipToBlock(minV[2], maxV[2], bc.z, e)
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					i := (x - bc.x*e) + (y-bc.y*e)*e + (z-bc.z*e)*e*e
					nm, nb := bd.Material[i], bd.Blend[i]
					if addSubtractBlend {
						nm = material
						nb = saturatingAdd(nb, materialBlendStep)
					} else {
						nb = saturatingSub(nb, materialBlendStep)
					}
					if nm != bd.Material[i] || nb != bd.Blend[i] {
						bd.Material[i] = nm
						bd.Blend[i] = nb
						changed = true
						box.extend(mgl32.Vec3{
							g.startX + float32(x)*g.step,
							g.startY + float32(y)*g.step,
							g.startZ + float32(z)*g.step,
						})
					}
				}
			}
		}
		if changed {
			blk.RecompressFrom(e, bd)
		}
	}
	return box
}

func saturatingAdd(b BlendFactor, step uint8) BlendFactor {
	if b > maxBlend-BlendFactor(step) {
		return maxBlend
	}
	return b + BlendFactor(step)
}

func saturatingSub(b BlendFactor, step uint8) BlendFactor {
	if b < BlendFactor(step) {
		return 0
	}
	return b - BlendFactor(step)
}

// voxelRegion converts a surface-space region to an inclusive voxel index
// range, clipped to the grid. ok is false when the region misses the grid
// entirely.
func (g *Grid) voxelRegion(position, extents mgl32.Vec3) (minV, maxV [3]int, ok bool) {
	start := [3]float32{g.startX, g.startY, g.startZ}
	dims := [3]int{int(g.w), int(g.d), int(g.h)}
	for a := 0; a < 3; a++ {
		lo := (position[a] - extents[a] - start[a]) / g.step
		hi := (position[a] + extents[a] - start[a]) / g.step
		// Only voxels whose coordinate lies inside the region qualify.
		minV[a] = int(math.Ceil(float64(lo)))
		maxV[a] = int(math.Floor(float64(hi)))
		if minV[a] < 0 {
			minV[a] = 0
		}
		if maxV[a] > dims[a]-1 {
			maxV[a] = dims[a] - 1
		}
		if minV[a] > maxV[a] {
			return minV, maxV, false
		}
	}
	return minV, maxV, true
}

// clipToBlock intersects the inclusive voxel range [lo, hi] with block bc
// along one axis.
func clipToBlock(lo, hi, bc, extent int) (int, int) {
	if b0 := bc * extent; lo < b0 {
		lo = b0
	}
	if b1 := bc*extent + extent - 1; hi > b1 {
		hi = b1
	}
	return lo, hi
}
