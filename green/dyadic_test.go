package green

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/types"
)

type medium struct {
	eps, mu, k complex128
}

func testMedia() (media []medium) {
	var (
		fs = types.FreeSpace()
		w  = 2. * math.Pi * 300.e6
	)
	for _, rel := range [][2]complex128{{1, 1}, {4 - 0.1i, 1}, {2.5, 1.7 - 0.2i}} {
		eps := complex(fs.Eps0, 0) * rel[0]
		mu := complex(fs.Mu0, 0) * rel[1]
		media = append(media, medium{eps, mu, complex(w, 0) * cmplx.Sqrt(eps*mu)})
	}
	return
}

func testPoints() (pairs [][2]r3.Vec) {
	return [][2]r3.Vec{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
		{{X: 0.1, Y: -0.3, Z: 0.7}, {X: -0.4, Y: 0.25, Z: 0.05}},
		{{X: 12, Y: 3, Z: -7}, {X: 0.2, Y: 0.3, Z: 0.4}},
		{{X: 1.e-3, Y: 2.e-3, Z: 0}, {X: 0, Y: 0, Z: 5.e-3}},
	}
}

func TestDyadicSymmetry(t *testing.T) {
	for _, md := range testMedia() {
		for _, pr := range testPoints() {
			GEJ, GHJ, err := EJ_HJ(pr[0], pr[1], md.eps, md.mu, md.k)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				assert.Equal(t, complex128(0), GHJ[i][i])
				for j := 0; j < 3; j++ {
					assert.Equal(t, GEJ[i][j], GEJ[j][i])
					assert.Equal(t, GHJ[i][j], -GHJ[j][i])
				}
			}
			assert.Equal(t, GEJ, GEJ.Transpose())
		}
	}
}

func TestDyadicSwapPositions(t *testing.T) {
	for _, md := range testMedia() {
		for _, pr := range testPoints() {
			GEJ1, GHJ1, err := EJ_HJ(pr[0], pr[1], md.eps, md.mu, md.k)
			require.NoError(t, err)
			GEJ2, GHJ2, err := EJ_HJ(pr[1], pr[0], md.eps, md.mu, md.k)
			require.NoError(t, err)
			assert.Equal(t, GEJ1, GEJ2)
			assert.Equal(t, GHJ1, GHJ2.Scale(-1))
		}
	}
}

func TestDyadicReciprocity(t *testing.T) {
	// The magnetic source dyadics obtained from GEJ, GHJ must match the duality transform eps <-> mu
	for _, md := range testMedia() {
		for _, pr := range testPoints() {
			GEJ, GHJ, err := EJ_HJ(pr[0], pr[1], md.eps, md.mu, md.k)
			require.NoError(t, err)
			GHM := HM(GEJ, md.eps, md.mu)
			GEJDual, _, err := EJ_HJ(pr[0], pr[1], md.mu, md.eps, md.k)
			require.NoError(t, err)
			GEM := EM(GHJ)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					assert.InDelta(t, 0, cmplx.Abs(GHM[i][j]-GEJDual[i][j]), 1.e-12*cmplx.Abs(GEJDual[i][j])+1.e-300)
					assert.Equal(t, -GHJ[i][j], GEM[i][j])
					// GEM inherits antisymmetry, GHM symmetry
					assert.Equal(t, GEM[i][j], -GEM[j][i])
					assert.Equal(t, GHM[i][j], GHM[j][i])
				}
			}
		}
	}
}

func TestDyadicMagneticIsCurl(t *testing.T) {
	// H = grad(G) x J with G = exp(-jkR)/(4 pi R)
	var (
		md   = testMedia()[1]
		rSrc = r3.Vec{X: 0.1, Y: -0.2, Z: 0.3}
		rObs = r3.Vec{X: 0.9, Y: 0.4, Z: -0.5}
		J    = types.NewCVec3(1, 2i, -0.5)
		h    = 1.e-5
	)
	scalarG := func(r r3.Vec) complex128 {
		R := complex(r3.Norm(r3.Sub(r, rSrc)), 0)
		return cmplx.Exp(-1i*md.k*R) / (4. * math.Pi * R)
	}
	var grad types.CVec3
	for i, dir := range []r3.Vec{{X: h}, {Y: h}, {Z: h}} {
		grad[i] = (scalarG(r3.Add(rObs, dir)) - scalarG(r3.Sub(rObs, dir))) / complex(2*h, 0)
	}
	expected := types.CVec3{
		grad[1]*J[2] - grad[2]*J[1],
		grad[2]*J[0] - grad[0]*J[2],
		grad[0]*J[1] - grad[1]*J[0],
	}
	_, GHJ, err := EJ_HJ(rSrc, rObs, md.eps, md.mu, md.k)
	require.NoError(t, err)
	H := GHJ.MulVec(J)
	assert.InDelta(t, 0, H.Sub(expected).Norm(), 1.e-6*expected.Norm())
}

func TestDyadicFarFieldIsTransverse(t *testing.T) {
	var (
		md   = testMedia()[0]
		kR   = 1000.
		R    = kR / real(md.k)
		rObs = r3.Vec{X: R}
	)
	GEJ, _, err := EJ_HJ(r3.Vec{}, rObs, md.eps, md.mu, md.k)
	require.NoError(t, err)
	longitudinal := cmplx.Abs(GEJ[0][0])
	transverse := cmplx.Abs(GEJ[1][1])
	assert.Less(t, longitudinal/transverse, 1.e-2)
	assert.InDelta(t, transverse, cmplx.Abs(GEJ[2][2]), 1.e-12*transverse)
}

func TestDyadicSingular(t *testing.T) {
	md := testMedia()[0]
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	_, _, err := EJ_HJ(p, p, md.eps, md.mu, md.k)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSingularEvaluation))
}
