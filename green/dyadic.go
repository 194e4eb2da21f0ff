package green

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/types"
)

// Dyadic is a 3x3 complex tensor, row major
type Dyadic [3][3]complex128

// MulVec returns G·J
func (G Dyadic) MulVec(J types.CVec3) (F types.CVec3) {
	for m := 0; m < 3; m++ {
		F[m] = G[m][0]*J[0] + G[m][1]*J[1] + G[m][2]*J[2]
	}
	return
}

func (G Dyadic) Scale(a complex128) (R Dyadic) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = a * G[i][j]
		}
	}
	return
}

func (G Dyadic) Transpose() (R Dyadic) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = G[j][i]
		}
	}
	return
}

/*
EJ_HJ computes the homogeneous space Green's functions due to an elementary electric current element located at
rSource, observed at rObs.

	GEJ is symmetric, with terms in 1/R and 1/R^2 carrying the exp(-jkR) phase, scaled by sqrt(mu/eps)/2pi
	GHJ is the curl of the scalar Green's function, antisymmetric with a zero diagonal

By reciprocity the magnetic source dyadics follow as GEM = -GHJ and GHM = eps/mu * GEJ, see EM and HM.
Coincident points have no defined value and are reported with types.ErrSingularEvaluation.
*/
func EJ_HJ(rSource, rObs r3.Vec, eps, mu, k complex128) (GEJ, GHJ Dyadic, err error) {
	var (
		d = r3.Sub(rObs, rSource)
		R = r3.Norm(d)
	)
	if R == 0 || math.IsNaN(R) {
		err = fmt.Errorf("%w: r = %v", types.ErrSingularEvaluation, rObs)
		return
	}
	var (
		I       = complex(0, 1)
		Rc      = complex(R, 0)
		term1   = 1. + 1./(I*k*Rc)
		kR2     = (k * Rc) * (k * Rc)
		tail    = I * k / 2. * (term1 - 1./kR2)
		term2   = term1/Rc + tail
		expikR  = cmplx.Exp(-I * k * Rc)
		expikRR = expikR / Rc
		u       = [3]float64{d.X / R, d.Y / R, d.Z / R}
	)
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			GEJ[i][j] = term2 * complex(u[i]*u[j], 0)
			GEJ[j][i] = GEJ[i][j]
		}
		ui2 := complex(u[i]*u[i], 0)
		GEJ[i][i] = ui2*term1/Rc - (1.-ui2)*tail
	}
	GEJ = GEJ.Scale(cmplx.Sqrt(mu/eps) / (2. * math.Pi) * expikRR)

	Gi := expikR / (4. * math.Pi) * (1. + I*k*Rc) / (Rc * Rc * Rc)
	GHJ[0][1] = complex(d.Z, 0) * Gi
	GHJ[1][0] = -GHJ[0][1]
	GHJ[2][0] = complex(d.Y, 0) * Gi
	GHJ[0][2] = -GHJ[2][0]
	GHJ[2][1] = -complex(d.X, 0) * Gi
	GHJ[1][2] = -GHJ[2][1]
	return
}

// EM is the electric field dyadic of a magnetic current element
func EM(GHJ Dyadic) Dyadic {
	return GHJ.Scale(-1)
}

// HM is the magnetic field dyadic of a magnetic current element
func HM(GEJ Dyadic, eps, mu complex128) Dyadic {
	return GEJ.Scale(eps / mu)
}
