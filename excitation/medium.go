package excitation

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/types"
)

// Dipole is an elementary electric current element of moment J located at R
type Dipole struct {
	J types.CVec3
	R r3.Vec
}

// Medium is the homogeneous space surrounding the mesh, at angular frequency Omega
type Medium struct {
	Omega     float64
	EpsR, MuR complex128
	Vacuum    types.Vacuum
}

// NewMedium uses the SI free space constants
func NewMedium(omega float64, epsR, muR complex128) Medium {
	return Medium{
		Omega:  omega,
		EpsR:   epsR,
		MuR:    muR,
		Vacuum: types.FreeSpace(),
	}
}

// Derive returns eps = eps0*epsR, mu = mu0*muR and the wavenumber k = w*sqrt(eps*mu)
func (md Medium) Derive() (eps, mu, k complex128) {
	eps = complex(md.Vacuum.Eps0, 0) * md.EpsR
	mu = complex(md.Vacuum.Mu0, 0) * md.MuR
	k = complex(md.Omega, 0) * cmplx.Sqrt(eps*mu)
	return
}

// Vectors are the four excitation vectors indexed by RWG number: tangential and normal testing of E and H
type Vectors struct {
	TE, NE, TH, NH []complex128
}

func NewVectors(nRWG int) *Vectors {
	return &Vectors{
		TE: make([]complex128, nRWG),
		NE: make([]complex128, nRWG),
		TH: make([]complex128, nRWG),
		NH: make([]complex128, nRWG),
	}
}

// reset zeroes the vectors after checking they hold nRWG entries each
func (v *Vectors) reset(nRWG int) error {
	vecs := [4][]complex128{v.TE, v.NE, v.TH, v.NH}
	for _, vec := range vecs {
		if len(vec) != nRWG {
			return fmt.Errorf("excitation vectors have sizes %d %d %d %d, need %d",
				len(v.TE), len(v.NE), len(v.TH), len(v.NH), nRWG)
		}
	}
	for _, vec := range vecs {
		for i := range vec {
			vec[i] = 0
		}
	}
	return nil
}

// Basis is the read only view of the RWG functions of a mesh or of a part of it
type Basis interface {
	NumberOfRWGs() int
	RWG(n int) mesh.RWG
}
