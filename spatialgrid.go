package warp

import (
	"math"
	"sort"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - indices of the bodies overlapping a cell
type Cell struct {
	bodyIndices []int
}

// SpatialGrid - uniform grid with hashing, indexing the static bodies.
// Several cells may share a slot, queries always confirm with the AABB.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid - numCells is rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - adds a body index to every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.AABB) {
	sg.forEachCell(aabb, func(cellIdx int) {
		sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

// Query - appends to out the distinct indices stored in the cells covered by
// aabb, in ascending order
func (sg *SpatialGrid) Query(aabb actor.AABB, out []int) []int {
	start := len(out)
	sg.forEachCell(aabb, func(cellIdx int) {
		out = append(out, sg.cells[cellIdx].bodyIndices...)
	})

	found := out[start:]
	if len(found) < 2 {
		return out
	}
	sort.Ints(found)

	n := 1
	for i := 1; i < len(found); i++ {
		if found[i] != found[n-1] {
			found[n] = found[i]
			n++
		}
	}
	return out[:start+n]
}

func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	// a huge box visits every slot anyway, stop enumerating cells past that
	if cellCount(minCell, maxCell, len(sg.cells)) > len(sg.cells) {
		for i := range sg.cells {
			fn(i)
		}
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// cellCount - number of cells in the range, saturating just above limit
func cellCount(minCell, maxCell CellKey, limit int) int {
	count := 1
	for _, span := range [3]int{maxCell.X - minCell.X + 1, maxCell.Y - minCell.Y + 1, maxCell.Z - minCell.Z + 1} {
		if span <= 0 {
			return 0
		}
		if span > limit {
			return limit + 1
		}
		count *= span
		if count > limit {
			return limit + 1
		}
	}
	return count
}

// worldToCell - converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - hashes a cell to a slot index
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
