package utils

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxels/voxels"
)

// RunGenSphere creates an empty w×d×h grid, injects a centered solid sphere
// and writes the packed result to outPath.
func RunGenSphere(w, d, h uint32, radius float32, outPath string) error {
	g, err := voxels.CreateEmpty(w, d, h)
	if err != nil {
		return err
	}
	defer g.Destroy()

	center := mgl32.Vec3{float32(w-1) / 2, float32(d-1) / 2, float32(h-1) / 2}
	pad := radius + 4 // cover the truncation band around the surface
	box := g.InjectSurface(center, mgl32.Vec3{pad, pad, pad},
		voxels.SphereSurface{Center: center, Radius: radius, Material: 1}, voxels.InjectAdd)
	if box.Empty() {
		return fmt.Errorf("sphere r=%.1f at %v touched no voxels", radius, center)
	}
	fmt.Printf("sphere r=%.1f touched %v .. %v, blocks now %d bytes\n",
		radius, box.Min, box.Max, g.BlocksMemorySize())
	return voxels.SaveGridFile(g, outPath)
}
