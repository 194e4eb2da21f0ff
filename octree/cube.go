package octree

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/types"
)

/*
Cube is a node of the octree. Cubes reference each other through per level indices, never through pointers: Index is
the rank of the cube among the cubes of its level in cube number order, FatherIndex lives on the level above.

The three Gauss located tables have one row per RWG in RWGNumbers and 2*NGauss columns, NGauss per half basis
function, stored row major.
*/
type Cube struct {
	Leaf         bool
	Level        int
	Number       int
	FatherNumber int // -1 at the root
	Index        int
	OldIndex     int // Leaf cubes: position in the membership lists
	FatherIndex  int

	SonsIndexes      []int
	NeighborsIndexes []int

	ProcNumber       int
	FatherProcNumber int
	SonsProcNumbers  []int

	Center                 r3.Vec
	AbsoluteCartesianCoord [3]int

	RWGNumbers       []int
	RWGNumbersCFIEOK []bool

	NGauss                       int
	GaussLocatedWeightedRWG      []r3.Vec
	GaussLocatedWeightedNHatXRWG []r3.Vec
	GaussLocatedExpArg           []r3.Vec
}

// gridCoord returns floor((r - origin)/side) per axis
func gridCoord(r, origin r3.Vec, side float64) (ijk [3]int) {
	d := r3.Scale(1./side, r3.Sub(r, origin))
	return [3]int{int(math.Floor(d.X)), int(math.Floor(d.Y)), int(math.Floor(d.Z))}
}

// packNumber numbers a cell of the 2^level per side grid as x*n^2 + y*n + z, -1 above the root
func packNumber(ijk [3]int, level int) int {
	if level < 0 {
		return -1
	}
	n := 1 << level
	return ijk[0]*n*n + ijk[1]*n + ijk[2]
}

func unpackNumber(number, level int) (ijk [3]int) {
	n := 1 << level
	ijk[0] = number / (n * n)
	ijk[1] = (number / n) % n
	ijk[2] = number % n
	return
}

func newCube(level int) Cube {
	return Cube{
		Level:            level,
		Index:            -1,
		OldIndex:         -1,
		FatherIndex:      -1,
		ProcNumber:       -1,
		FatherProcNumber: -1,
	}
}

// NewLeafCube creates the cube of side sideLength containing center, on the grid anchored at origin
func NewLeafCube(level int, sideLength float64, origin, center r3.Vec) (c Cube) {
	c = newCube(level)
	c.Leaf = true
	c.Center = center
	c.AbsoluteCartesianCoord = gridCoord(center, origin, sideLength)
	c.Number = packNumber(c.AbsoluteCartesianCoord, level)
	c.FatherNumber = packNumber(gridCoord(center, origin, 2*sideLength), level-1)
	return
}

/*
NewFatherCube creates the father of son at level, sideLength being the side of the father. The father belongs to the
process owning son and starts with son as its only son, the siblings join with AddSon.
*/
func NewFatherCube(son Cube, level int, origin r3.Vec, sideLength float64) (c Cube) {
	c = newCube(level)
	c.Number = son.FatherNumber
	c.ProcNumber = son.ProcNumber
	c.SonsIndexes = []int{son.Index}
	c.SonsProcNumbers = []int{son.ProcNumber}
	ijk := gridCoord(son.Center, origin, sideLength)
	c.Center = r3.Add(origin, r3.Vec{
		X: float64(ijk[0])*sideLength + sideLength/2,
		Y: float64(ijk[1])*sideLength + sideLength/2,
		Z: float64(ijk[2])*sideLength + sideLength/2,
	})
	c.AbsoluteCartesianCoord = gridCoord(c.Center, origin, sideLength)
	c.FatherNumber = packNumber(gridCoord(c.Center, origin, 2*sideLength), level-1)
	return
}

// AddSon adopts son, which must have this cube as father. A mismatch is a broken tree and panics.
func (c *Cube) AddSon(son Cube) {
	if c.Number != son.FatherNumber {
		panic(fmt.Errorf("%w: cube %d at level %d cannot adopt cube %d whose father is %d",
			types.ErrTreeInvariantViolation, c.Number, c.Level, son.Number, son.FatherNumber))
	}
	c.SonsIndexes = append(c.SonsIndexes, son.Index)
	c.SonsProcNumbers = append(c.SonsProcNumbers, son.ProcNumber)
}

// SharesFather groups cubes during construction, it says nothing about the identity of a and b
func SharesFather(a, b Cube) bool { return a.FatherNumber == b.FatherNumber }

func FatherLess(a, b Cube) bool { return a.FatherNumber < b.FatherNumber }

// SortByFather orders cubes by father number, keeping the input order among siblings
func SortByFather(cubes []Cube) {
	sort.SliceStable(cubes, func(i, j int) bool { return FatherLess(cubes[i], cubes[j]) })
}

// IsNeighbor is true for distinct cubes of a level whose grid cells touch, faces, edges and corners included
func (c Cube) IsNeighbor(other Cube) bool {
	if c.Number == other.Number {
		return false
	}
	for d := 0; d < 3; d++ {
		if delta := c.AbsoluteCartesianCoord[d] - other.AbsoluteCartesianCoord[d]; delta < -1 || delta > 1 {
			return false
		}
	}
	return true
}

// Header is a copy of the cube without its RWG data, the form in which cubes travel between processes
func (c Cube) Header() (h Cube) {
	h = c
	h.SonsIndexes, h.SonsProcNumbers, h.NeighborsIndexes = nil, nil, nil
	h.RWGNumbers, h.RWGNumbersCFIEOK = nil, nil
	h.GaussLocatedWeightedRWG, h.GaussLocatedWeightedNHatXRWG, h.GaussLocatedExpArg = nil, nil, nil
	return
}

// Clone deep copies every slice owned by the cube
func (c Cube) Clone() (cc Cube) {
	cc = c
	cc.SonsIndexes = cloneSlice(c.SonsIndexes)
	cc.SonsProcNumbers = cloneSlice(c.SonsProcNumbers)
	cc.NeighborsIndexes = cloneSlice(c.NeighborsIndexes)
	cc.RWGNumbers = cloneSlice(c.RWGNumbers)
	cc.RWGNumbersCFIEOK = cloneSlice(c.RWGNumbersCFIEOK)
	cc.GaussLocatedWeightedRWG = cloneSlice(c.GaussLocatedWeightedRWG)
	cc.GaussLocatedWeightedNHatXRWG = cloneSlice(c.GaussLocatedWeightedNHatXRWG)
	cc.GaussLocatedExpArg = cloneSlice(c.GaussLocatedExpArg)
	return
}

// Release drops the owned slices, the scalar bookkeeping stays readable
func (c *Cube) Release() {
	*c = c.Header()
	c.NGauss = 0
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
