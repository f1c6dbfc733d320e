package utils

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxels/voxels"
)

// RunCarve loads a packed grid, subtracts a sphere at (x, y, z) and writes
// the packed result to outPath.
func RunCarve(inPath, outPath string, x, y, z, radius float32) error {
	g, err := voxels.LoadGridFile(inPath)
	if err != nil {
		return err
	}
	defer g.Destroy()

	pad := radius + 4
	box := g.InjectSurface(mgl32.Vec3{x, y, z}, mgl32.Vec3{pad, pad, pad},
		voxels.SphereSurface{Center: mgl32.Vec3{x, y, z}, Radius: radius}, voxels.InjectSubtract)
	if box.Empty() {
		fmt.Println("carve touched no voxels")
	} else {
		fmt.Printf("carved %v .. %v\n", box.Min, box.Max)
	}
	return voxels.SaveGridFile(g, outPath)
}
