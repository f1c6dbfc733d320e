package api

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxels/voxels"
)

func TestHeightmapToFields(t *testing.T) {
	const w = 4
	raw := make([]byte, w*w*w)
	for i := range raw {
		if i%2 == 0 {
			raw[i] = 40 // inside
		} else {
			raw[i] = 200 // outside
		}
	}

	blob, err := HeightmapToPacked(w, raw)
	require.NoError(t, err)

	field, dims, err := PackedToDistanceField(blob)
	require.NoError(t, err)
	require.Equal(t, FieldDims{w, w, w}, dims)
	require.Len(t, field, w*w*w)
	for i, d := range field {
		if raw[i] < 128 && d >= 0 {
			t.Fatalf("voxel %d should be inside, distance %d", i, d)
		}
		if raw[i] >= 128 && d <= 0 {
			t.Fatalf("voxel %d should be outside, distance %d", i, d)
		}
	}

	materials, blends, dims, err := PackedToMaterialField(blob)
	require.NoError(t, err)
	require.Equal(t, FieldDims{w, w, w}, dims)
	for i := range materials {
		require.Equal(t, voxels.MaterialId(0), materials[i])
		require.Equal(t, voxels.BlendFactor(0), blends[i])
	}
}

func TestPackedToDistanceFieldRejectsGarbage(t *testing.T) {
	_, _, err := PackedToDistanceField([]byte("not a packed grid"))
	require.Error(t, err)
}
