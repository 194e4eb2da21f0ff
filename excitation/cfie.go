package excitation

import (
	"fmt"

	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/types"
)

// CFIECoefficients mix the tangential and normal testing of E and H
type CFIECoefficients struct {
	TE, NE, TH, NH complex128
}

// Combine is the CFIE entry of one RWG from its four excitation values
func (cf CFIECoefficients) Combine(tE, nE, tH, nH complex128, cfieOK bool) complex128 {
	if !cfieOK {
		return cf.TE * tE
	}
	return cf.TE*tE + cf.NE*nE + cf.TH*tH + cf.NH*nH
}

/*
CFIE computes the combined field excitation of the dipole into out, indexed by RWG number and overwritten. Unlike
DipoleExcitation, each RWG integrates its own two triangles, so a triangle shared by several RWGs is integrated once
per RWG. RWGs on open parts of the surface only receive the tE term.
*/
func (a *Assembler) CFIE(coef CFIECoefficients, dip Dipole, basis Basis, testRWGs []int, med Medium,
	out []complex64) (err error) {
	if len(out) != basis.NumberOfRWGs() {
		err = fmt.Errorf("CFIE vector has size %d, need %d", len(out), basis.NumberOfRWGs())
		return
	}
	for i := range out {
		out[i] = 0
	}
	var (
		rwgs []mesh.RWG
		fs   = newFieldSource(dip, med)
	)
	if rwgs, err = gatherRWGs(basis, testRWGs); err != nil {
		return
	}
	for _, rwg := range rwgs {
		halves := 2
		switch {
		case rwg.Triangles[0] < 0 || rwg.Triangles[1] < -1:
			err = fmt.Errorf("%w: RWG %d references triangles %v", types.ErrInvalidMeshTopology,
				rwg.Number, rwg.Triangles)
			return
		case rwg.IsHalf():
			halves = 1
		}
		for half := 0; half < halves; half++ {
			var (
				r0, r1, r2, rp = rwg.HalfTriangle(half)
				tri            mesh.Triangle
				ti             triangleIntegrals
			)
			if tri, err = mesh.NewTriangle(r0, r1, r2, rwg.Triangles[half]); err != nil {
				return
			}
			if ti, err = fs.integrate(tri, a.Rules.Select(tri, dip.R)); err != nil {
				return
			}
			c := ti.project(tri, rwg.Signs[half], rwg.Length, rp)
			out[rwg.Number] += complex64(coef.Combine(c.TE, c.NE, c.TH, c.NH, rwg.CFIEOK))
		}
	}
	return
}

// LocalCFIE returns the CFIE excitation of the RWGs of a local mesh, indexed by local RWG number
func (a *Assembler) LocalCFIE(coef CFIECoefficients, dip Dipole, local *mesh.Local, med Medium) (
	V []complex64, err error) {
	V = make([]complex64, local.NumberOfRWGs())
	err = a.CFIE(coef, dip, local, local.AllRWGs(), med, V)
	return
}
