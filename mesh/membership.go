package mesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sentinel terminates the RWG lists of the leaf cubes
const Sentinel = -1

/*
LeafMembership lists, for each non empty leaf cube, the RWGs whose support lies in it. Every list carries at least
one trailing Sentinel, lists are padded to a common length as in a dense cubes x RWGs table.
*/
type LeafMembership struct {
	mesh    *Mesh
	Centers []r3.Vec
	Lists   [][]int
}

// BoundingCube returns the lower corner and side of the smallest cube of side leafSide*2^levels that centers the
// mesh, with levels >= 1
func (m *Mesh) BoundingCube(leafSide float64) (origin r3.Vec, bigSide float64, levels int) {
	var (
		box    = m.Bounds()
		ext    = r3.Sub(box.Max, box.Min)
		extent = math.Max(ext.X, math.Max(ext.Y, ext.Z))
		center = r3.Scale(0.5, r3.Add(box.Min, box.Max))
	)
	levels = 1
	bigSide = 2 * leafSide
	for bigSide <= extent {
		bigSide *= 2
		levels++
	}
	origin = r3.Sub(center, r3.Vec{X: bigSide / 2, Y: bigSide / 2, Z: bigSide / 2})
	return
}

// CubeMembership assigns every RWG to the leaf cube of side leafSide containing the midpoint of its edge
func (m *Mesh) CubeMembership(origin r3.Vec, leafSide float64) (lm *LeafMembership, err error) {
	if leafSide <= 0 {
		err = fmt.Errorf("leaf side must be positive, have %v", leafSide)
		return
	}
	cubes := make(map[[3]int][]int)
	for n, rwg := range m.RWGs {
		c := r3.Scale(1./leafSide, r3.Sub(rwg.EdgeCenter(), origin))
		ijk := [3]int{int(math.Floor(c.X)), int(math.Floor(c.Y)), int(math.Floor(c.Z))}
		cubes[ijk] = append(cubes[ijk], n)
	}
	keys := make([][3]int, 0, len(cubes))
	maxLen := 0
	for key, list := range cubes {
		keys = append(keys, key)
		maxLen = max(maxLen, len(list))
	}
	sort.Slice(keys, func(i, j int) bool {
		for d := 0; d < 3; d++ {
			if keys[i][d] != keys[j][d] {
				return keys[i][d] < keys[j][d]
			}
		}
		return false
	})
	lm = &LeafMembership{
		mesh:    m,
		Centers: make([]r3.Vec, len(keys)),
		Lists:   make([][]int, len(keys)),
	}
	for i, key := range keys {
		lm.Centers[i] = r3.Add(origin, r3.Vec{
			X: (float64(key[0]) + 0.5) * leafSide,
			Y: (float64(key[1]) + 0.5) * leafSide,
			Z: (float64(key[2]) + 0.5) * leafSide,
		})
		list := make([]int, maxLen+1)
		for j := range list {
			list[j] = Sentinel
		}
		copy(list, cubes[key])
		lm.Lists[i] = list
	}
	return
}

func (lm *LeafMembership) NumberOfCubes() int { return len(lm.Centers) }

// CubeRWGs returns the sentinel terminated list of leaf cube i
func (lm *LeafMembership) CubeRWGs(i int) []int { return lm.Lists[i] }

func (lm *LeafMembership) RWG(n int) RWG { return lm.mesh.RWGs[n] }
