package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewRectangularPlate meshes the plate [0,lx]x[0,ly] at z=0, shifted by origin, with nx by ny cells split in two
// triangles each. Normals point to +z.
func NewRectangularPlate(lx, ly float64, nx, ny int, origin r3.Vec) (m *Mesh, err error) {
	if nx < 1 || ny < 1 || lx <= 0 || ly <= 0 {
		err = fmt.Errorf("plate needs positive sizes and cell counts, have %v x %v, %d x %d", lx, ly, nx, ny)
		return
	}
	var (
		vertices  = make([]r3.Vec, 0, (nx+1)*(ny+1))
		triangles = make([][3]int, 0, 2*nx*ny)
		vid       = func(i, j int) int { return j + (ny+1)*i }
	)
	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			vertices = append(vertices, r3.Add(origin, r3.Vec{
				X: lx * float64(i) / float64(nx),
				Y: ly * float64(j) / float64(ny),
			}))
		}
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			triangles = append(triangles,
				[3]int{vid(i, j), vid(i+1, j), vid(i+1, j+1)},
				[3]int{vid(i, j), vid(i+1, j+1), vid(i, j+1)})
		}
	}
	return NewMesh(vertices, triangles)
}

// NewBoxSurface meshes the closed surface of the box [0,lx]x[0,ly]x[0,lz] shifted by origin, each face divided in n
// by n cells. Normals point outward, so every RWG is CFIE eligible.
func NewBoxSurface(lx, ly, lz float64, n int, origin r3.Vec) (m *Mesh, err error) {
	if n < 1 || lx <= 0 || ly <= 0 || lz <= 0 {
		err = fmt.Errorf("box needs positive sizes and cell count, have %v x %v x %v, %d", lx, ly, lz, n)
		return
	}
	var (
		size      = [3]float64{lx, ly, lz}
		vertices  []r3.Vec
		triangles [][3]int
		ids       = make(map[[3]int]int)
	)
	vertex := func(ijk [3]int) int {
		if id, ok := ids[ijk]; ok {
			return id
		}
		ids[ijk] = len(vertices)
		vertices = append(vertices, r3.Add(origin, r3.Vec{
			X: size[0] * float64(ijk[0]) / float64(n),
			Y: size[1] * float64(ijk[1]) / float64(n),
			Z: size[2] * float64(ijk[2]) / float64(n),
		}))
		return ids[ijk]
	}
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3 // u x v is the axis direction
		for _, side := range []int{0, n} {
			p := func(i, j int) int {
				var ijk [3]int
				ijk[axis], ijk[u], ijk[v] = side, i, j
				return vertex(ijk)
			}
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					p00, p10, p11, p01 := p(i, j), p(i+1, j), p(i+1, j+1), p(i, j+1)
					if side == n {
						triangles = append(triangles, [3]int{p00, p10, p11}, [3]int{p00, p11, p01})
					} else {
						triangles = append(triangles, [3]int{p00, p11, p10}, [3]int{p00, p01, p11})
					}
				}
			}
		}
	}
	return NewMesh(vertices, triangles)
}

// NewTrianglePair is the smallest mesh carrying one RWG: two right triangles with unit legs sharing the unit edge
// on the y axis, T+ on the x > 0 side
func NewTrianglePair() (m *Mesh, err error) {
	return NewMesh(
		[]r3.Vec{{X: 1}, {}, {Y: 1}, {X: -1}},
		[][3]int{{0, 1, 2}, {3, 2, 1}},
	)
}
