package excitation

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/green"
	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/quadrature"
	"github.com/notargets/gomom/types"
)

// triangleIntegrals holds the integrals of the dipole fields over one test triangle
type triangleIntegrals struct {
	E, H             types.CVec3 // Integral of the field
	RDotE, RDotH     complex128  // Integral of r·field
	NXRDotE, NXRDotH complex128  // Integral of (n x r)·field
}

// fieldSource carries the derived medium so the Green's function is evaluated without recomputing it per point
type fieldSource struct {
	dip        Dipole
	eps, mu, k complex128
}

func newFieldSource(dip Dipole, med Medium) fieldSource {
	eps, mu, k := med.Derive()
	return fieldSource{dip: dip, eps: eps, mu: mu, k: k}
}

// integrate evaluates the fields at the quadrature points of rule, normalized by area over the weight sum
func (fs fieldSource) integrate(tri mesh.Triangle, rule quadrature.Rule) (ti triangleIntegrals, err error) {
	r0, r1, r2 := tri.Nodes[0], tri.Nodes[1], tri.Nodes[2]
	for j, w := range rule.Weights {
		var (
			rObs     = rule.Point(j, r0, r1, r2)
			nXr      = r3.Cross(tri.Normal, rObs)
			GEJ, GHJ green.Dyadic
		)
		if GEJ, GHJ, err = green.EJ_HJ(fs.dip.R, rObs, fs.eps, fs.mu, fs.k); err != nil {
			return
		}
		Ei := GEJ.MulVec(fs.dip.J).ScaleReal(w)
		ti.E = ti.E.Add(Ei)
		ti.RDotE += Ei.DotReal(rObs)
		ti.NXRDotE += Ei.DotReal(nXr)

		Hi := GHJ.MulVec(fs.dip.J).ScaleReal(w)
		ti.H = ti.H.Add(Hi)
		ti.RDotH += Hi.DotReal(rObs)
		ti.NXRDotH += Hi.DotReal(nXr)
	}
	norm := tri.Area / rule.SumWeights
	ti.E, ti.H = ti.E.ScaleReal(norm), ti.H.ScaleReal(norm)
	ti.RDotE *= complex(norm, 0)
	ti.RDotH *= complex(norm, 0)
	ti.NXRDotE *= complex(norm, 0)
	ti.NXRDotH *= complex(norm, 0)
	return
}

// contribution is the share of one half RWG in the four testing integrals
type contribution struct {
	TE, NE, TH, NH complex128
}

/*
project tests the triangle integrals with the half RWG f = sign*l/2A * (r - rp), rp being the vertex opposite the
edge. Every term is -<f ; field>, or -<n x f ; field> for the normal components.
*/
func (ti triangleIntegrals) project(tri mesh.Triangle, sign, length float64, rp r3.Vec) (c contribution) {
	var (
		C   = complex(-sign*length*0.5/tri.Area, 0)
		nXp = r3.Cross(tri.Normal, rp)
	)
	c.TE = C * (ti.RDotE - ti.E.DotReal(rp))
	c.TH = C * (ti.RDotH - ti.H.DotReal(rp))
	c.NE = C * (ti.NXRDotE - ti.E.DotReal(nXp))
	c.NH = C * (ti.NXRDotH - ti.H.DotReal(nXp))
	return
}
