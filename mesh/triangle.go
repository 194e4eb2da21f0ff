package mesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/types"
)

// HalfRWG is the restriction of an RWG to one of its triangles
type HalfRWG struct {
	RWGIndex   int // Position of the RWG in the list the triangles were built from
	Sign       float64
	IndexInRWG int // 0 for T+, 1 for T-
}

// Triangle is a test triangle with its cached geometry
type Triangle struct {
	Number   int
	Nodes    [3]r3.Vec
	Normal   r3.Vec
	Area     float64
	Center   r3.Vec
	Rmax     float64 // Largest vertex to centroid distance
	HalfRWGs []HalfRWG
}

// NewTriangle fails on degenerate or non finite vertex data
func NewTriangle(r0, r1, r2 r3.Vec, number int) (t Triangle, err error) {
	for _, r := range [3]r3.Vec{r0, r1, r2} {
		if !types.IsFinite(r) {
			err = fmt.Errorf("%w: triangle %d has vertex %v", types.ErrInvalidMeshTopology, number, r)
			return
		}
	}
	n := r3.Cross(r3.Sub(r1, r0), r3.Sub(r2, r0))
	twiceA := r3.Norm(n)
	if twiceA == 0 || math.IsNaN(twiceA) {
		err = fmt.Errorf("%w: triangle %d is degenerate", types.ErrInvalidMeshTopology, number)
		return
	}
	t = Triangle{
		Number: number,
		Nodes:  [3]r3.Vec{r0, r1, r2},
		Normal: r3.Scale(1./twiceA, n),
		Area:   twiceA / 2.,
		Center: r3.Scale(1./3., r3.Add(r3.Add(r0, r1), r2)),
	}
	for _, r := range t.Nodes {
		t.Rmax = math.Max(t.Rmax, r3.Norm(r3.Sub(r, t.Center)))
	}
	return
}

func (t Triangle) Centroid() r3.Vec { return t.Center }
func (t Triangle) RMax() float64    { return t.Rmax }

type triangleToRWG struct {
	triangle, rwgIndex, half int
}

/*
ConstructTestTriangles returns each triangle supporting the given RWGs exactly once, with the list of half RWGs it
carries. The triangle to RWG association is obtained by sorting (triangle, RWG) pairs, the geometry is taken from
the first RWG referencing the triangle.
*/
func ConstructTestTriangles(rwgs []RWG) (triangles []Triangle, err error) {
	pairs := make([]triangleToRWG, 0, 2*len(rwgs))
	for i, rwg := range rwgs {
		if rwg.Triangles[0] < 0 {
			err = fmt.Errorf("%w: RWG %d has no positive triangle", types.ErrInvalidMeshTopology, rwg.Number)
			return
		}
		pairs = append(pairs, triangleToRWG{rwg.Triangles[0], i, 0})
		switch {
		case rwg.IsHalf():
		case rwg.Triangles[1] < 0:
			err = fmt.Errorf("%w: RWG %d references triangle %d", types.ErrInvalidMeshTopology,
				rwg.Number, rwg.Triangles[1])
			return
		default:
			pairs = append(pairs, triangleToRWG{rwg.Triangles[1], i, 1})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].triangle != pairs[j].triangle {
			return pairs[i].triangle < pairs[j].triangle
		}
		return pairs[i].rwgIndex < pairs[j].rwgIndex
	})
	for i, p := range pairs {
		if i == 0 || p.triangle != pairs[i-1].triangle {
			r0, r1, r2, _ := rwgs[p.rwgIndex].HalfTriangle(p.half)
			var tri Triangle
			if tri, err = NewTriangle(r0, r1, r2, p.triangle); err != nil {
				return
			}
			triangles = append(triangles, tri)
		}
		last := &triangles[len(triangles)-1]
		last.HalfRWGs = append(last.HalfRWGs, HalfRWG{
			RWGIndex:   p.rwgIndex,
			Sign:       rwgs[p.rwgIndex].Signs[p.half],
			IndexInRWG: p.half,
		})
	}
	return
}
