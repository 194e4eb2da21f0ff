package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 1})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{1, 0}, en.GetVertices(true))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		// Test maximum/minimum indices
		en = NewEdgeKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, EdgeKey(1<<64-1), en)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, en.GetVertices(false))

		assert.Panics(t, func() { NewEdgeKey([2]int{-1, 3}) })
	}
	{ // Directed edges of two triangles sharing a side
		e1 := NewEdgeInt([2]int{3, 7})
		e2 := NewEdgeInt([2]int{7, 3})
		assert.Equal(t, [2]int{3, 7}, e1.GetVertices())
		assert.Equal(t, [2]int{7, 3}, e2.GetVertices())
		assert.Equal(t, e1.GetKey(), e2.GetKey())
		assert.True(t, e1.Opposes(e2))
		assert.False(t, e1.Opposes(e1))
	}
}

func TestCVec3(t *testing.T) {
	a := NewCVec3(1+1i, 2, -1i)
	b := RealCVec3(r3.Vec{X: 1, Y: -1, Z: 2})
	assert.Equal(t, CVec3{2 + 1i, 1, 2 - 1i}, a.Add(b))
	assert.Equal(t, CVec3{1i, 3, -2 - 1i}, a.Sub(b))
	assert.Equal(t, complex(1, 1)-2-2i, a.Dot(b))
	assert.Equal(t, a.Dot(b), a.DotReal(r3.Vec{X: 1, Y: -1, Z: 2}))
	assert.Equal(t, CVec3{2 + 2i, 4, -2i}, a.ScaleReal(2))
	assert.InDelta(t, math.Sqrt(2+4+1), a.Norm(), 1.e-14)
	assert.False(t, a.IsNaN())
	assert.True(t, CVec3{complex(math.NaN(), 0)}.IsNaN())
	assert.False(t, IsFinite(r3.Vec{X: math.Inf(1)}))
	assert.Equal(t, -1., Component(r3.Vec{X: 1, Y: -1, Z: 2}, 1))

	fs := FreeSpace()
	assert.InDelta(t, 299792458., fs.C0(), 1.)
}
