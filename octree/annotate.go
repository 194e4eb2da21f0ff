package octree

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/quadrature"
)

// Membership lists the RWGs of each leaf cube, every list ends with mesh.Sentinel
type Membership interface {
	CubeRWGs(oldIndex int) []int
	RWG(n int) mesh.RWG
}

/*
ComputeGaussLocatedArguments fills the quadrature tables of a leaf cube from the RWGs listed for its OldIndex. For RWG
row j and half h, column i + h*nGauss holds, at the quadrature point r of the half triangle:

	GaussLocatedWeightedRWG       sign*l/2 * w_i/sum(w) * (r - rp)
	GaussLocatedWeightedNHatXRWG  the same scale times n x (r - rp)
	GaussLocatedExpArg            r - Center

rp being the vertex opposite the edge. The half triangles are (v0, v1, v2) and (v3, v2, v1). The columns of the
missing half of a boundary truncated RWG stay zero.
*/
func (c *Cube) ComputeGaussLocatedArguments(m Membership, nGauss int) (err error) {
	var rule quadrature.Rule
	if rule, err = quadrature.Points(nGauss); err != nil {
		return
	}
	var numbers []int
	for _, n := range m.CubeRWGs(c.OldIndex) {
		if n < 0 {
			break
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	var (
		nRows  = len(numbers)
		stride = 2 * nGauss
	)
	c.NGauss = nGauss
	c.RWGNumbers = numbers
	c.RWGNumbersCFIEOK = make([]bool, nRows)
	c.GaussLocatedWeightedRWG = make([]r3.Vec, nRows*stride)
	c.GaussLocatedWeightedNHatXRWG = make([]r3.Vec, nRows*stride)
	c.GaussLocatedExpArg = make([]r3.Vec, nRows*stride)
	for j, n := range numbers {
		rwg := m.RWG(n)
		c.RWGNumbersCFIEOK[j] = rwg.CFIEOK
		halves := [2][3]r3.Vec{
			{rwg.Vertexes[0], rwg.Vertexes[1], rwg.Vertexes[2]},
			{rwg.Vertexes[3], rwg.Vertexes[2], rwg.Vertexes[1]},
		}
		for h, nodes := range halves {
			if h == 1 && rwg.IsHalf() {
				break
			}
			var (
				r0, r1, r2 = nodes[0], nodes[1], nodes[2]
				tri        mesh.Triangle
			)
			if tri, err = mesh.NewTriangle(r0, r1, r2, rwg.Triangles[h]); err != nil {
				err = fmt.Errorf("cube %d, RWG %d: %w", c.Number, n, err)
				return
			}
			var (
				length = r3.Norm(r3.Sub(r2, r1))
				scale  = rwg.Signs[h] * length / 2. / rule.SumWeights
			)
			for i, w := range rule.Weights {
				var (
					r   = rule.Point(i, r0, r1, r2)
					rrp = r3.Sub(r, r0)
					k   = j*stride + i + h*nGauss
				)
				c.GaussLocatedWeightedRWG[k] = r3.Scale(scale*w, rrp)
				c.GaussLocatedWeightedNHatXRWG[k] = r3.Scale(scale*w, r3.Cross(tri.Normal, rrp))
				c.GaussLocatedExpArg[k] = r3.Sub(r, c.Center)
			}
		}
	}
	return
}

// NumberOfRWGs is the number of rows of the Gauss located tables
func (c Cube) NumberOfRWGs() int { return len(c.RWGNumbers) }

// WeightedRWG returns row j of GaussLocatedWeightedRWG, 2*NGauss values
func (c Cube) WeightedRWG(j int) []r3.Vec {
	return c.GaussLocatedWeightedRWG[j*2*c.NGauss : (j+1)*2*c.NGauss]
}

func (c Cube) WeightedNHatXRWG(j int) []r3.Vec {
	return c.GaussLocatedWeightedNHatXRWG[j*2*c.NGauss : (j+1)*2*c.NGauss]
}

func (c Cube) ExpArg(j int) []r3.Vec {
	return c.GaussLocatedExpArg[j*2*c.NGauss : (j+1)*2*c.NGauss]
}
