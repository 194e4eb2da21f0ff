package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestRuleExactness(t *testing.T) {
	// Integral over the unit simplex of x^a y^b is a! b! / (a+b+2)!
	degree := map[int]int{1: 1, 3: 2, 6: 4, 9: 5}
	for N, deg := range degree {
		r, err := Points(N)
		require.NoError(t, err)
		assert.Equal(t, N, r.N())
		assert.InDelta(t, 1., r.SumWeights, 1.e-13)
		for d := 0; d <= deg; d++ {
			for a := 0; a <= d; a++ {
				b := d - a
				var q float64
				for j := 0; j < N; j++ {
					q += r.Weights[j] * math.Pow(r.Xi[j], float64(a)) * math.Pow(r.Eta[j], float64(b))
				}
				q *= 0.5 / r.SumWeights
				exact := factorial(a) * factorial(b) / factorial(a+b+2)
				assert.InDeltaf(t, exact, q, 1.e-13, "N = %d, x^%d y^%d", N, a, b)
			}
		}
	}
	_, err := Points(7)
	assert.Error(t, err)
}

func TestRuleScaled(t *testing.T) {
	r, _ := Points(6)
	s := r.Scaled(3.5)
	assert.InDelta(t, 3.5*r.SumWeights, s.SumWeights, 1.e-13)
	assert.Equal(t, r.Xi, s.Xi)
	assert.Equal(t, 0.223381589678011, r.Weights[0]) // unscaled rule untouched
	p := r.Point(0, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{})
	assert.Equal(t, r3.Vec{X: r.Xi[0], Y: r.Eta[0]}, p)
}

type target struct {
	c    r3.Vec
	rmax float64
}

func (t target) Centroid() r3.Vec { return t.c }
func (t target) RMax() float64    { return t.rmax }

func TestSelect(t *testing.T) {
	tri := target{c: r3.Vec{X: 1, Y: 1}, rmax: 2}
	{ // exactly on the threshold is near
		_, _, _, N := Select(tri, r3.Vec{X: 1, Y: 1, Z: 3})
		assert.Equal(t, 9, N)
	}
	{
		_, _, w, N := Select(tri, r3.Vec{X: 1, Y: 1, Z: 3.0001})
		assert.Equal(t, 6, N)
		assert.Len(t, w, 6)
	}
	rs := RuleSet{Near: rule3, Far: rule1}
	assert.Equal(t, 3, rs.Select(tri, r3.Vec{}).N())
	assert.Equal(t, 1, rs.Select(tri, r3.Vec{Z: 100}).N())
	assert.True(t, IsNear(tri, tri.c))
}
