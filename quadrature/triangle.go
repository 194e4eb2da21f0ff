package quadrature

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
Rule is a symmetric quadrature rule on the unit simplex. A point is located on a triangle (r0, r1, r2) as

	r = r0*Xi + r1*Eta + r2*(1-Xi-Eta)

The weights carry an arbitrary common scale, integrals are normalized with SumWeights.
*/
type Rule struct {
	Xi, Eta, Weights []float64
	SumWeights       float64
}

func newRule(xi, eta, w []float64) Rule {
	return Rule{
		Xi:         xi,
		Eta:        eta,
		Weights:    w,
		SumWeights: floats.Sum(w),
	}
}

func (r Rule) N() int { return len(r.Weights) }

// Point returns the location of quadrature point j on the triangle r0, r1, r2
func (r Rule) Point(j int, r0, r1, r2 r3.Vec) r3.Vec {
	var (
		xi, eta = r.Xi[j], r.Eta[j]
	)
	return r3.Add(r3.Add(r3.Scale(xi, r0), r3.Scale(eta, r1)), r3.Scale(1-xi-eta, r2))
}

// Scaled returns a copy of the rule with every weight multiplied by c
func (r Rule) Scaled(c float64) (s Rule) {
	w := make([]float64, len(r.Weights))
	floats.ScaleTo(w, c, r.Weights)
	return newRule(r.Xi, r.Eta, w)
}

// Tables are shared, callers must not modify the slices
var (
	rule1 = newRule(
		[]float64{1. / 3.},
		[]float64{1. / 3.},
		[]float64{1.},
	)
	rule3 = newRule(
		[]float64{2. / 3., 1. / 6., 1. / 6.},
		[]float64{1. / 6., 2. / 3., 1. / 6.},
		[]float64{1. / 3., 1. / 3., 1. / 3.},
	)
	// degree 4
	rule6 = newRule(
		[]float64{0.108103018168070, 0.445948490915965, 0.445948490915965,
			0.816847572980459, 0.091576213509771, 0.091576213509771},
		[]float64{0.445948490915965, 0.108103018168070, 0.445948490915965,
			0.091576213509771, 0.816847572980459, 0.091576213509771},
		[]float64{0.223381589678011, 0.223381589678011, 0.223381589678011,
			0.109951743655322, 0.109951743655322, 0.109951743655322},
	)
	// degree 5
	rule9 = newRule(
		[]float64{0.124949503233232, 0.437525248383384, 0.437525248383384,
			0.797112651860071, 0.797112651860071, 0.165409927389841,
			0.165409927389841, 0.037477420750088, 0.037477420750088},
		[]float64{0.437525248383384, 0.124949503233232, 0.437525248383384,
			0.165409927389841, 0.037477420750088, 0.797112651860071,
			0.037477420750088, 0.797112651860071, 0.165409927389841},
		[]float64{0.205950504760887, 0.205950504760887, 0.205950504760887,
			0.063691414286223, 0.063691414286223, 0.063691414286223,
			0.063691414286223, 0.063691414286223, 0.063691414286223},
	)
)

// Points returns the fixed rule with N points
func Points(N int) (r Rule, err error) {
	switch N {
	case 1:
		r = rule1
	case 3:
		r = rule3
	case 6:
		r = rule6
	case 9:
		r = rule9
	default:
		err = fmt.Errorf("no triangle quadrature rule with %d points, choose among 1, 3, 6, 9", N)
	}
	return
}
