package voxels

import "github.com/go-gl/mathgl/mgl32"

// Surface supplies a signed distance (negative inside) and a material for
// surface-space coordinates. Implementations must be pure functions of the
// coordinate so grids generate reproducibly; the injection engine calls
// Sample once per affected voxel.
type Surface interface {
	Sample(x, y, z float32) (distance float32, material MaterialId)
}

// SphereSurface is a solid sphere.
type SphereSurface struct {
	Center   mgl32.Vec3
	Radius   float32
	Material MaterialId
}

func (s SphereSurface) Sample(x, y, z float32) (float32, MaterialId) {
	d := mgl32.Vec3{x, y, z}.Sub(s.Center).Len() - s.Radius
	return d, s.Material
}

// HalfSpaceSurface fills everything below the given Z level. Z is up.
type HalfSpaceSurface struct {
	Level    float32
	Material MaterialId
}

func (s HalfSpaceSurface) Sample(x, y, z float32) (float32, MaterialId) {
	return z - s.Level, s.Material
}
