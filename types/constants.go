package types

import (
	"errors"
	"math"
)

// Vacuum holds the free space constants, passed by value into every computation
type Vacuum struct {
	Eps0, Mu0 float64
}

// FreeSpace returns the SI vacuum permittivity and permeability
func FreeSpace() Vacuum {
	return Vacuum{
		Eps0: 8.85418781762e-12,
		Mu0:  4.e-7 * math.Pi,
	}
}

// C0 is the speed of light derived from the constants
func (v Vacuum) C0() float64 {
	return 1. / math.Sqrt(v.Eps0*v.Mu0)
}

var (
	// ErrSingularEvaluation is returned when the source and observation points coincide
	ErrSingularEvaluation = errors.New("singular evaluation: source and observation points coincide")
	// ErrInvalidMeshTopology flags a malformed basis function to triangle cross reference
	ErrInvalidMeshTopology = errors.New("invalid mesh topology")
	// ErrTreeInvariantViolation is raised when a cube adopts a son belonging to another father
	ErrTreeInvariantViolation = errors.New("tree invariant violation")
)
