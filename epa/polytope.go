package epa

import (
	"fmt"
	"sync"

	"github.com/akmonengine/warp/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// PolytopeBuilder holds the expanding polytope and its scratch buffers.
// Builders are pooled so EPA does not allocate in steady state.
type PolytopeBuilder struct {
	faces []Face

	// distinct vertices, for the centroid used to orient new faces
	vertices []mgl64.Vec3

	// horizon edges with their occurrence count among visible faces
	edges []EdgeEntry

	visibleIndices []int
}

// EdgeEntry is an undirected edge, stored with A < B lexicographically.
// Count == 1 marks a horizon edge.
type EdgeEntry struct {
	A, B  mgl64.Vec3
	Count int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			vertices:       make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.vertices = b.vertices[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces turns the GJK tetrahedron into four outward faces.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]

	b.faces = append(b.faces,
		newFaceOutward(p0, p1, p2, p3),
		newFaceOutward(p0, p2, p3, p1),
		newFaceOutward(p0, p3, p1, p2),
		newFaceOutward(p1, p3, p2, p0),
	)
	b.vertices = append(b.vertices, p0, p1, p2, p3)

	return nil
}

// FindClosestFaceIndex returns the index of the face closest to the origin,
// -1 when the polytope is empty.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}

	closestIndex := 0
	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < b.faces[closestIndex].Distance {
			closestIndex = i
		}
	}

	return closestIndex
}

func (b *PolytopeBuilder) removeFace(i int) {
	b.faces[i] = b.faces[len(b.faces)-1]
	b.faces = b.faces[:len(b.faces)-1]
}

func (b *PolytopeBuilder) centroid() mgl64.Vec3 {
	if len(b.vertices) == 0 {
		return mgl64.Vec3{}
	}

	sum := mgl64.Vec3{}
	for _, v := range b.vertices {
		sum = sum.Add(v)
	}

	return sum.Mul(1.0 / float64(len(b.vertices)))
}

// AddPointAndRebuildFaces expands the polytope with a support point:
//  1. find the faces that see the point
//  2. collect the horizon of that visible region
//  3. drop the visible faces
//  4. fan new faces from the horizon to the point
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closestIndex int) {
	centroid := b.centroid()

	b.visibleIndices = b.visibleIndices[:0]
	for i := range b.faces {
		if support.Sub(b.faces[i].Points[0]).Dot(b.faces[i].Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}

	// Never wipe the whole polytope
	if len(b.visibleIndices) == 0 || len(b.visibleIndices) >= len(b.faces) {
		b.visibleIndices = append(b.visibleIndices[:0], closestIndex)
	}

	b.collectHorizon()
	b.removeVisibleFaces()

	for _, edge := range b.edges {
		if edge.Count == 1 {
			b.faces = append(b.faces, newFaceOutward(edge.A, edge.B, support, centroid))
		}
	}
	b.vertices = append(b.vertices, support)

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: EPAMinFaceDistance,
		})
	}
}

func (b *PolytopeBuilder) collectHorizon() {
	b.edges = b.edges[:0]

	for _, faceIdx := range b.visibleIndices {
		face := &b.faces[faceIdx]

		for _, edge := range [3][2]mgl64.Vec3{
			{face.Points[0], face.Points[1]},
			{face.Points[1], face.Points[2]},
			{face.Points[2], face.Points[0]},
		} {
			edgeA, edgeB := edge[0], edge[1]
			if compareVec3(edgeA, edgeB) > 0 {
				edgeA, edgeB = edgeB, edgeA
			}

			if idx := b.findEdgeIndex(edgeA, edgeB); idx >= 0 {
				b.edges[idx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{A: edgeA, B: edgeB, Count: 1})
			}
		}
	}
}

// findEdgeIndex is a linear scan, horizons stay small
func (b *PolytopeBuilder) findEdgeIndex(edgeA, edgeB mgl64.Vec3) int {
	for i := range b.edges {
		if b.edges[i].A == edgeA && b.edges[i].B == edgeB {
			return i
		}
	}
	return -1
}

// removeVisibleFaces deletes from the highest index down so swap-with-last
// never moves a face that is still to be removed.
func (b *PolytopeBuilder) removeVisibleFaces() {
	indices := b.visibleIndices
	for i := 0; i < len(indices)-1; i++ {
		for j := i + 1; j < len(indices); j++ {
			if indices[i] < indices[j] {
				indices[i], indices[j] = indices[j], indices[i]
			}
		}
	}

	for _, idx := range indices {
		if idx < len(b.faces) {
			b.removeFace(idx)
		}
	}
}
