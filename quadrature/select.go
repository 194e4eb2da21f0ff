package quadrature

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// NearFactor sets the radius, in units of the triangle's RMax, inside which a source is considered near
const NearFactor = 1.5

// Target is the geometry needed to choose a rule for a triangle
type Target interface {
	Centroid() r3.Vec
	RMax() float64
}

// RuleSet holds the rules used for near and far sources
type RuleSet struct {
	Near, Far Rule
}

func DefaultRuleSet() RuleSet {
	return RuleSet{Near: rule9, Far: rule6}
}

// IsNear is true when the source lies within NearFactor*RMax of the triangle's centroid
func IsNear(tri Target, source r3.Vec) bool {
	Ros := r3.Norm(r3.Sub(tri.Centroid(), source))
	return Ros-NearFactor*tri.RMax() <= 0
}

/*
Select picks the rule for integrating a field radiated from source over tri. This trades accuracy for cost only, a
source on or very close to the triangle still yields a nearly singular integrand.
*/
func (rs RuleSet) Select(tri Target, source r3.Vec) Rule {
	if IsNear(tri, source) {
		return rs.Near
	}
	return rs.Far
}

// Select uses the default 9 point near and 6 point far rules
func Select(tri Target, source r3.Vec) (xi, eta, weights []float64, N int) {
	r := DefaultRuleSet().Select(tri, source)
	return r.Xi, r.Eta, r.Weights, r.N()
}
