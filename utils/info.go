package utils

import (
	"fmt"
	"os"

	"github.com/voxelsplace/voxels/voxels"
)

// RunInfo prints the dimensions and storage footprint of a packed grid file.
func RunInfo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := voxels.Load(data)
	if err != nil {
		return err
	}
	defer g.Destroy()
	fmt.Printf("grid:         %dx%dx%d voxels\n", g.Width(), g.Depth(), g.Height())
	fmt.Printf("block extent: %d\n", g.BlockExtent())
	fmt.Printf("blocks:       %d bytes compressed\n", g.BlocksMemorySize())
	fmt.Printf("packed file:  %d bytes\n", len(data))
	return nil
}
