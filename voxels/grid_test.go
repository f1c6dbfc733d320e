package voxels

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestCreateValidation(t *testing.T) {
	if _, err := CreateEmpty(0, 8, 8); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("zero width: got %v", err)
	}
	if _, err := CreateEmpty(8, 8, 0); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("zero height: got %v", err)
	}
	if _, err := CreateEmptyWithExtent(8, 8, 8, 0); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("zero extent: got %v", err)
	}
	if _, err := CreateEmptyWithExtent(8, 8, 8, MaxBlockExtent+1); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("oversized extent: got %v", err)
	}
	if _, err := Create(8, 8, 8, 0, 0, 0, 0, SphereSurface{Radius: 1}); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("zero step: got %v", err)
	}
	if _, err := Create(8, 8, 8, 0, 0, 0, 1, nil); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("nil surface: got %v", err)
	}
	if _, err := CreateFromHeightmap(4, make([]byte, 63)); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("short heightmap: got %v", err)
	}
}

func TestGridGeometry(t *testing.T) {
	g, err := CreateEmptyWithExtent(10, 20, 30, 8)
	require.NoError(t, err)
	require.Equal(t, uint32(10), g.Width())
	require.Equal(t, uint32(20), g.Depth())
	require.Equal(t, uint32(30), g.Height())
	require.Equal(t, 8, g.BlockExtent())
	// ceil(10/8) * ceil(20/8) * ceil(30/8) = 2*3*4 blocks, 4 bytes each.
	require.Equal(t, 2*3*4*4, g.BlocksMemorySize())
}

func TestBlockDistanceAccessors(t *testing.T) {
	g, err := CreateEmptyWithExtent(8, 8, 8, 4)
	require.NoError(t, err)
	n := 4 * 4 * 4

	distances := make([]int8, n)
	for i := range distances {
		distances[i] = int8(i - 30)
	}
	// Any voxel coordinate inside block (1,0,0) addresses the same block.
	g.ModifyBlockDistanceData(mgl32.Vec3{5, 1, 2}, distances)

	out := make([]int8, n)
	require.True(t, g.BlockDistanceData(mgl32.Vec3{7, 3, 3}, out))
	require.Equal(t, distances, out)

	// Neighbouring blocks are not affected.
	require.True(t, g.BlockDistanceData(mgl32.Vec3{1, 1, 1}, out))
	for i, v := range out {
		if v != defaultDistance {
			t.Fatalf("cell %d of untouched block is %d", i, v)
		}
	}

	// Out of range: read reports false, write is a no-op.
	require.False(t, g.BlockDistanceData(mgl32.Vec3{8, 0, 0}, out))
	require.False(t, g.BlockDistanceData(mgl32.Vec3{-1, 0, 0}, out))
	before := g.BlocksMemorySize()
	g.ModifyBlockDistanceData(mgl32.Vec3{0, 0, 99}, distances)
	require.Equal(t, before, g.BlocksMemorySize())
}

func TestBlockMaterialAccessors(t *testing.T) {
	g, err := CreateEmptyWithExtent(4, 4, 4, 4)
	require.NoError(t, err)
	n := 4 * 4 * 4

	materials := make([]MaterialId, n)
	blends := make([]BlendFactor, n)
	for i := range materials {
		materials[i] = MaterialId(i)
		blends[i] = BlendFactor(255 - i)
	}
	g.ModifyBlockMaterialData(mgl32.Vec3{0, 0, 0}, materials, blends)

	gotM := make([]MaterialId, n)
	gotB := make([]BlendFactor, n)
	require.True(t, g.BlockMaterialData(mgl32.Vec3{3, 3, 3}, gotM, gotB))
	require.Equal(t, materials, gotM)
	require.Equal(t, blends, gotB)

	require.False(t, g.BlockMaterialData(mgl32.Vec3{4, 0, 0}, gotM, gotB))
}

func TestHeightmapSeeding(t *testing.T) {
	const w = 4
	raw := make([]byte, w*w*w)
	// Bottom half dense (inside), top half light (outside).
	for z := 0; z < w; z++ {
		for i := 0; i < w*w; i++ {
			if z < w/2 {
				raw[z*w*w+i] = 10
			} else {
				raw[z*w*w+i] = 250
			}
		}
	}
	g, err := CreateFromHeightmap(w, raw)
	require.NoError(t, err)

	out := make([]int8, g.BlockExtent()*g.BlockExtent()*g.BlockExtent())
	require.True(t, g.BlockDistanceData(mgl32.Vec3{0, 0, 0}, out))
	e := g.BlockExtent()
	for z := 0; z < w; z++ {
		for y := 0; y < w; y++ {
			for x := 0; x < w; x++ {
				d := out[x+y*e+z*e*e]
				if z < w/2 && d >= 0 {
					t.Fatalf("voxel (%d,%d,%d) should be inside, distance %d", x, y, z, d)
				}
				if z >= w/2 && d <= 0 {
					t.Fatalf("voxel (%d,%d,%d) should be outside, distance %d", x, y, z, d)
				}
			}
		}
	}
}

func TestDestroyedGridIsInert(t *testing.T) {
	g, err := CreateEmpty(8, 8, 8)
	require.NoError(t, err)
	g.Destroy()

	out := make([]int8, DefaultBlockExtent*DefaultBlockExtent*DefaultBlockExtent)
	require.False(t, g.BlockDistanceData(mgl32.Vec3{0, 0, 0}, out))
	box := g.InjectSurface(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 4, 4}, SphereSurface{Radius: 2}, InjectAdd)
	require.True(t, box.Empty())
	require.Equal(t, 0, g.PackForSave().Size())
}
