package voxels

import "os"

// SavePackedGrid writes a packed grid to disk.
func SavePackedGrid(p *PackedGrid, filename string) error {
	return os.WriteFile(filename, p.Data(), 0644)
}

// SaveGridFile packs the grid and writes it to disk.
func SaveGridFile(g *Grid, filename string) error {
	p := g.PackForSave()
	defer p.Destroy()
	return SavePackedGrid(p, filename)
}

// LoadGridFile reads a packed grid from disk and reconstructs it.
func LoadGridFile(filename string) (*Grid, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Load(data)
}
