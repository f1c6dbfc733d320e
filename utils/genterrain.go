package utils

import (
	"fmt"
	"math/rand"

	"github.com/voxelsplace/voxels/voxels"
)

// RunGenTerrain builds a w×w×w grid from a generated density volume (solid
// toward the bottom, air toward the top, with jitter) and writes the packed
// result to outPath.
func RunGenTerrain(w uint32, seed int64, outPath string) error {
	rnd := rand.New(rand.NewSource(seed))
	n := int(w)
	raw := make([]byte, n*n*n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				v := float64(z)/float64(n) + (rnd.Float64()-0.5)*0.1
				if v < 0 {
					v = 0
				}
				if v > 1 {
					v = 1
				}
				raw[x+y*n+z*n*n] = byte(v * 255)
			}
		}
	}
	g, err := voxels.CreateFromHeightmap(w, raw)
	if err != nil {
		return err
	}
	defer g.Destroy()
	fmt.Printf("terrain %dx%dx%d, blocks %d bytes\n", w, w, w, g.BlocksMemorySize())
	return voxels.SaveGridFile(g, outPath)
}
