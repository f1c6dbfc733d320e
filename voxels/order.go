package voxels

import (
	"sort"
	"sync"
)

// Cells inside a block are traversed in Morton order before encoding so that
// spatially coherent values form longer runs.

func expand3(v uint32) uint32 {
	v = (v | (v << 16)) & 0x030000FF
	v = (v | (v << 8)) & 0x0300F00F
	v = (v | (v << 4)) & 0x030C30C3
	v = (v | (v << 2)) & 0x09249249
	return v
}

func morton3D(x, y, z uint32) uint32 {
	return expand3(x) | (expand3(y) << 1) | (expand3(z) << 2)
}

var (
	orderMu    sync.Mutex
	orderCache = map[int][]int{}
)

// mortonOrder returns the traversal order for an extent³ block: element i is
// the linear cell index (x + y*extent + z*extent²) visited i-th. Orders are
// built once per extent and shared across grids.
func mortonOrder(extent int) []int {
	orderMu.Lock()
	defer orderMu.Unlock()
	if o, ok := orderCache[extent]; ok {
		return o
	}
	o := buildMortonOrder(extent)
	orderCache[extent] = o
	return o
}

func buildMortonOrder(extent int) []int {
	total := extent * extent * extent
	type kv struct {
		key uint32
		i   int
	}
	idx := make([]kv, 0, total)
	i := 0
	for z := 0; z < extent; z++ {
		for y := 0; y < extent; y++ {
			for x := 0; x < extent; x++ {
				idx = append(idx, kv{morton3D(uint32(x), uint32(y), uint32(z)), i})
				i++
			}
		}
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a].key < idx[b].key })
	order := make([]int, total)
	for i := range idx {
		order[i] = idx[i].i
	}
	return order
}
