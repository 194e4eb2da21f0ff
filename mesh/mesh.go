package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/types"
)

/*
RWG is a Rao-Wilton-Glisson basis function, defined on the two triangles sharing an edge.

	Vertexes[0]    opposite vertex of the positive triangle T+
	Vertexes[1..2] the shared edge
	Vertexes[3]    opposite vertex of the negative triangle T-

T+ is (v0, v1, v2) and T- is (v2, v1, v3), both with the orientation of the mesh.
A basis truncated at a mesh boundary has Triangles[1] == -1 and only its positive half.
*/
type RWG struct {
	Number    int
	Triangles [2]int
	Signs     [2]float64
	Vertexes  [4]r3.Vec
	Length    float64
	CFIEOK    bool
}

func (r RWG) IsHalf() bool { return r.Triangles[1] == -1 }

// HalfTriangle returns the nodes of half i and the vertex opposite the shared edge
func (r RWG) HalfTriangle(i int) (r0, r1, r2, rOpp r3.Vec) {
	switch i {
	case 0:
		return r.Vertexes[0], r.Vertexes[1], r.Vertexes[2], r.Vertexes[0]
	case 1:
		return r.Vertexes[2], r.Vertexes[1], r.Vertexes[3], r.Vertexes[3]
	}
	panic(fmt.Errorf("an RWG has two halves, asked for %d", i))
}

// EdgeCenter is the midpoint of the shared edge
func (r RWG) EdgeCenter() r3.Vec {
	return r3.Scale(0.5, r3.Add(r.Vertexes[1], r.Vertexes[2]))
}

// Mesh is a triangulated surface with its RWG basis
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
	RWGs      []RWG
	// Vertex indices per RWG, same convention as RWG.Vertexes
	RWGVertexes [][4]int
}

type halfEdge struct {
	tri, local int
	dir        types.EdgeInt
}

/*
NewMesh builds the RWG basis from a consistently oriented triangulation. Every edge shared by exactly two triangles
becomes one RWG, numbered in ascending EdgeKey order, the lower numbered triangle being T+. Boundary edges carry no
basis function. Edges with more than two triangles, or neighbors with opposing orientations, are rejected.
*/
func NewMesh(vertices []r3.Vec, triangles [][3]int) (m *Mesh, err error) {
	m = &Mesh{
		Vertices:  vertices,
		Triangles: triangles,
	}
	edges := make(map[types.EdgeKey][]halfEdge)
	for k, tri := range triangles {
		for i := 0; i < 3; i++ {
			if tri[i] < 0 || tri[i] >= len(vertices) {
				err = fmt.Errorf("%w: triangle %d references vertex %d of %d",
					types.ErrInvalidMeshTopology, k, tri[i], len(vertices))
				return
			}
		}
		for i := 0; i < 3; i++ {
			verts := [2]int{tri[i], tri[(i+1)%3]}
			key := types.NewEdgeKey(verts)
			edges[key] = append(edges[key], halfEdge{k, i, types.NewEdgeInt(verts)})
		}
	}
	keys := make([]types.EdgeKey, 0, len(edges))
	for key, he := range edges {
		switch len(he) {
		case 1:
			continue
		case 2:
			if !he[0].dir.Opposes(he[1].dir) {
				err = fmt.Errorf("%w: triangles %d and %d have opposite orientations",
					types.ErrInvalidMeshTopology, he[0].tri, he[1].tri)
				return
			}
			keys = append(keys, key)
		default:
			err = fmt.Errorf("%w: edge %v is shared by %d triangles",
				types.ErrInvalidMeshTopology, key.GetVertices(false), len(he))
			return
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	m.RWGs = make([]RWG, len(keys))
	m.RWGVertexes = make([][4]int, len(keys))
	for n, key := range keys {
		he := edges[key]
		if he[1].tri < he[0].tri {
			he[0], he[1] = he[1], he[0]
		}
		var (
			tp, tm = triangles[he[0].tri], triangles[he[1].tri]
			ev     = he[0].dir.GetVertices()
			vi     = [4]int{tp[(he[0].local+2)%3], ev[0], ev[1], tm[(he[1].local+2)%3]}
		)
		m.RWGVertexes[n] = vi
		m.RWGs[n] = RWG{
			Number:    n,
			Triangles: [2]int{he[0].tri, he[1].tri},
			Signs:     [2]float64{1, -1},
			Vertexes:  [4]r3.Vec{vertices[vi[0]], vertices[vi[1]], vertices[vi[2]], vertices[vi[3]]},
			Length:    r3.Norm(r3.Sub(vertices[vi[2]], vertices[vi[1]])),
		}
	}
	m.markCFIE(edges)
	return
}

// markCFIE flags the RWGs lying on closed parts of the surface, the only place where the MFIE terms apply
func (m *Mesh) markCFIE(edges map[types.EdgeKey][]halfEdge) {
	var (
		parent = make([]int, len(m.Triangles))
		find   func(i int) int
	)
	for i := range parent {
		parent[i] = i
	}
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, he := range edges {
		if len(he) == 2 {
			a, b := find(he[0].tri), find(he[1].tri)
			if a != b {
				parent[a] = b
			}
		}
	}
	open := make(map[int]bool)
	for _, he := range edges {
		if len(he) == 1 {
			open[find(he[0].tri)] = true
		}
	}
	for n := range m.RWGs {
		m.RWGs[n].CFIEOK = !open[find(m.RWGs[n].Triangles[0])]
	}
}

func (m *Mesh) NumberOfRWGs() int { return len(m.RWGs) }

func (m *Mesh) RWG(n int) RWG { return m.RWGs[n] }

// AllRWGs returns the numbers 0..N-1
func (m *Mesh) AllRWGs() (numbers []int) {
	numbers = make([]int, len(m.RWGs))
	for i := range numbers {
		numbers[i] = i
	}
	return
}

// Bounds returns the axis aligned box containing the vertices
func (m *Mesh) Bounds() (box r3.Box) {
	if len(m.Vertices) == 0 {
		return
	}
	box.Min, box.Max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		box.Min = r3.Vec{X: min(box.Min.X, v.X), Y: min(box.Min.Y, v.Y), Z: min(box.Min.Z, v.Z)}
		box.Max = r3.Vec{X: max(box.Max.X, v.X), Y: max(box.Max.Y, v.Y), Z: max(box.Max.Z, v.Z)}
	}
	return
}
