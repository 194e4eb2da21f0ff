package types

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"
)

// CVec3 is a complex valued 3 component vector, used for currents and fields
type CVec3 [3]complex128

func NewCVec3(x, y, z complex128) CVec3 { return CVec3{x, y, z} }

// RealCVec3 promotes a real vector to a complex one
func RealCVec3(v r3.Vec) CVec3 {
	return CVec3{complex(v.X, 0), complex(v.Y, 0), complex(v.Z, 0)}
}

func (c CVec3) Add(o CVec3) CVec3 {
	return CVec3{c[0] + o[0], c[1] + o[1], c[2] + o[2]}
}

func (c CVec3) Sub(o CVec3) CVec3 {
	return CVec3{c[0] - o[0], c[1] - o[1], c[2] - o[2]}
}

func (c CVec3) Scale(a complex128) CVec3 {
	return CVec3{a * c[0], a * c[1], a * c[2]}
}

func (c CVec3) ScaleReal(a float64) CVec3 {
	return c.Scale(complex(a, 0))
}

// DotReal is the unconjugated product r·c, the form used by the testing integrals
func (c CVec3) DotReal(r r3.Vec) complex128 {
	return complex(r.X, 0)*c[0] + complex(r.Y, 0)*c[1] + complex(r.Z, 0)*c[2]
}

// Dot is the unconjugated product c·o
func (c CVec3) Dot(o CVec3) complex128 {
	return c[0]*o[0] + c[1]*o[1] + c[2]*o[2]
}

func (c CVec3) Norm() float64 {
	var sum float64
	for _, v := range c {
		a := cmplx.Abs(v)
		sum += a * a
	}
	return math.Sqrt(sum)
}

func (c CVec3) IsNaN() bool {
	for _, v := range c {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return true
		}
	}
	return false
}

// IsFinite reports whether every coordinate of v is a finite number
func IsFinite(v r3.Vec) bool {
	for _, f := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Component returns coordinate i of v, 0=X, 1=Y, 2=Z
func Component(v r3.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("component index out of range")
}
