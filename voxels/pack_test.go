package voxels

import (
	"encoding/binary"
	"errors"
	"testing"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	// Dimensions deliberately not multiples of the extent.
	g, err := CreateEmptyWithExtent(9, 5, 7, 4)
	require.NoError(t, err)
	g.InjectSurface(mgl32.Vec3{4, 2, 3}, mgl32.Vec3{8, 8, 8},
		HalfSpaceSurface{Level: 3, Material: 2}, InjectAdd)
	g.InjectSurface(mgl32.Vec3{3, 2, 3}, mgl32.Vec3{4, 4, 4},
		SphereSurface{Center: mgl32.Vec3{3, 2, 3}, Radius: 1.5, Material: 1}, InjectSubtractAddInner)
	g.InjectMaterial(mgl32.Vec3{6, 2, 2}, mgl32.Vec3{1.4, 1.4, 1.4}, 9, true)
	return g
}

func requireSameVoxels(t *testing.T, a, b *Grid) {
	t.Helper()
	require.Equal(t, a.Width(), b.Width())
	require.Equal(t, a.Depth(), b.Depth())
	require.Equal(t, a.Height(), b.Height())
	require.Equal(t, a.BlockExtent(), b.BlockExtent())

	e := a.BlockExtent()
	n := e * e * e
	da, db := make([]int8, n), make([]int8, n)
	ma, mb := make([]MaterialId, n), make([]MaterialId, n)
	ba, bb := make([]BlendFactor, n), make([]BlendFactor, n)
	for bz := 0; bz*e < int(a.Height()); bz++ {
		for by := 0; by*e < int(a.Depth()); by++ {
			for bx := 0; bx*e < int(a.Width()); bx++ {
				at := mgl32.Vec3{float32(bx * e), float32(by * e), float32(bz * e)}
				require.True(t, a.BlockDistanceData(at, da))
				require.True(t, b.BlockDistanceData(at, db))
				require.Equal(t, da, db, "distances of block (%d,%d,%d)", bx, by, bz)
				require.True(t, a.BlockMaterialData(at, ma, ba))
				require.True(t, b.BlockMaterialData(at, mb, bb))
				require.Equal(t, ma, mb, "materials of block (%d,%d,%d)", bx, by, bz)
				require.Equal(t, ba, bb, "blends of block (%d,%d,%d)", bx, by, bz)
			}
		}
	}
}

func TestPackLoadRoundTrip(t *testing.T) {
	for _, comp := range []PackCompression{PackCompNone, PackCompZstd} {
		g := testGrid(t)
		p := g.PackForSaveCompressed(comp)
		loaded, err := Load(p.Data())
		require.NoError(t, err)
		requireSameVoxels(t, g, loaded)
		require.Equal(t, g.startX, loaded.startX)
		require.Equal(t, g.startY, loaded.startY)
		require.Equal(t, g.startZ, loaded.startZ)
		require.Equal(t, g.step, loaded.step)
		p.Destroy()
	}
}

func TestPackIsDefensiveCopy(t *testing.T) {
	g, err := CreateEmptyWithExtent(8, 8, 8, 4)
	require.NoError(t, err)
	p := g.PackForSave()

	// Mutating the source grid after packing must not affect the pack.
	g.InjectSurface(mgl32.Vec3{3.5, 3.5, 3.5}, mgl32.Vec3{3.6, 3.6, 3.6},
		SphereSurface{Center: mgl32.Vec3{3.5, 3.5, 3.5}, Radius: 2, Material: 1}, InjectAdd)

	loaded, err := Load(p.Data())
	require.NoError(t, err)
	field := readDistanceField(t, loaded)
	for i, d := range field {
		if d != defaultDistance {
			t.Fatalf("packed copy saw later edit at voxel %d: %d", i, d)
		}
	}
}

func TestPackedDefaultGridIsSmall(t *testing.T) {
	g, err := CreateEmptyWithExtent(4, 4, 4, 4)
	require.NoError(t, err)
	p := g.PackForSaveCompressed(PackCompNone)
	// One uniform block: a few header bytes plus a constant-size payload,
	// nowhere near the 4³ raw cells.
	require.Less(t, p.Size(), 100)

	big, err := CreateEmptyWithExtent(64, 64, 64, 16)
	require.NoError(t, err)
	pb := big.PackForSaveCompressed(PackCompNone)
	require.Less(t, pb.Size(), 1024, "64 uniform blocks must stay a few bytes each")
}

func TestLoadRejectsTruncated(t *testing.T) {
	g := testGrid(t)
	data := g.PackForSaveCompressed(PackCompNone).Data()

	if _, err := Load(data[:5]); !errors.Is(err, ErrTruncatedBlob) {
		t.Errorf("5-byte blob: got %v", err)
	}
	if _, err := Load(data[:20]); !errors.Is(err, ErrTruncatedBlob) {
		t.Errorf("cut header: got %v", err)
	}
	if _, err := Load(data[:len(data)-3]); !errors.Is(err, ErrTruncatedBlob) && !errors.Is(err, ErrCorruptBlockData) {
		t.Errorf("cut blocks: got %v", err)
	}
}

func TestLoadRejectsCorrupt(t *testing.T) {
	g := testGrid(t)
	data := append([]byte(nil), g.PackForSaveCompressed(PackCompNone).Data()...)

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	if _, err := Load(bad); !errors.Is(err, ErrCorruptBlockData) {
		t.Errorf("bad magic: got %v", err)
	}

	bad = append([]byte(nil), data...)
	bad[len(bad)-1] ^= 0xFF // inside the block section, caught by the checksum
	if _, err := Load(bad); !errors.Is(err, ErrCorruptBlockData) {
		t.Errorf("flipped payload byte: got %v", err)
	}

	bad = append([]byte(nil), data...)
	bad[4] = 99
	if _, err := Load(bad); !errors.Is(err, ErrCorruptBlockData) {
		t.Errorf("bad version: got %v", err)
	}
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	g := testGrid(t)
	data := g.PackForSaveCompressed(PackCompNone).Data()

	// Block count field disagrees with the dimensions.
	bad := append([]byte(nil), data...)
	count := binary.LittleEndian.Uint32(bad[35:])
	binary.LittleEndian.PutUint32(bad[35:], count+1)
	if _, err := Load(bad); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("wrong block count: got %v", err)
	}

	// Zeroed width fails the sanity check.
	bad = append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(bad[6:], 0)
	if _, err := Load(bad); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("zero width: got %v", err)
	}
}

func TestLoadRejectsHugeDimensions(t *testing.T) {
	build := func(hdr packHeader, blocks []byte) []byte {
		hdr.Checksum = xxhash.Sum64(blocks)
		content := hdr.append(nil)
		content = append(content, blocks...)
		out := []byte(packMagic)
		out = append(out, packVersion, byte(PackCompNone))
		return append(out, content...)
	}

	// Dimensions whose block count overflows; must fail cleanly, not allocate.
	huge := packHeader{W: 0xFFFFFFFF, D: 0xFFFFFFFF, H: 0xFFFFFFFF, Extent: 1, Step: 1, BlockCount: 1}
	if _, err := Load(build(huge, nil)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("overflowing dimensions: got %v", err)
	}

	// Self-consistent count, but the block section cannot possibly hold it.
	big := packHeader{W: 1024, D: 1024, H: 1024, Extent: 1, Step: 1, BlockCount: 1 << 30}
	if _, err := Load(build(big, nil)); !errors.Is(err, ErrTruncatedBlob) {
		t.Errorf("oversized block count: got %v", err)
	}

	// Count disagreeing with the dimensions, without any block payloads to
	// cross-check against.
	lying := packHeader{W: 8, D: 8, H: 8, Extent: 4, Step: 1, BlockCount: 2}
	if _, err := Load(build(lying, nil)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("wrong declared count: got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	g := testGrid(t)
	path := t.TempDir() + "/grid.vxlg"
	require.NoError(t, SaveGridFile(g, path))
	loaded, err := LoadGridFile(path)
	require.NoError(t, err)
	requireSameVoxels(t, g, loaded)
}
