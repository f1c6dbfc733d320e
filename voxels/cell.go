package voxels

// MaterialId identifies the material stored in a voxel cell.
type MaterialId = uint8

// BlendFactor weights how strongly a cell's material applies, for soft
// multi-material transitions.
type BlendFactor = uint8

const (
	// DefaultBlockExtent is the edge length in voxels of a compression block
	// unless the grid is created with an explicit extent.
	DefaultBlockExtent = 16

	// MaxBlockExtent bounds the extent accepted from packed blobs.
	MaxBlockExtent = 64

	// Distance values saturate at the representable extremes, never wrap.
	maxDistance = 127
	minDistance = -127

	// Distances are truncated this many voxel steps away from the surface.
	truncationSteps = 4

	maxBlend BlendFactor = 255
)

// The state of every voxel in an untouched grid: far outside, no material.
const (
	defaultDistance = int8(maxDistance)
	defaultMaterial = MaterialId(0)
	defaultBlend    = BlendFactor(0)
)

// quantizeDistance maps a surface-space distance to the stored signed 8-bit
// form. Negative is inside the surface. step is the grid's voxel step in
// surface units.
func quantizeDistance(d, step float32) int8 {
	q := d * maxDistance / (truncationSteps * step)
	if q >= maxDistance {
		return maxDistance
	}
	if q <= minDistance {
		return minDistance
	}
	if q >= 0 {
		return int8(q + 0.5)
	}
	return int8(q - 0.5)
}

// clampDistance saturates an integer distance into the stored range.
func clampDistance(d int) int8 {
	if d > maxDistance {
		return maxDistance
	}
	if d < minDistance {
		return minDistance
	}
	return int8(d)
}
