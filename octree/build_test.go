package octree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/mesh"
)

func boxTreeInput(t *testing.T) (cfg Config, lm *mesh.LeafMembership, leaves []LeafSpec) {
	m, err := mesh.NewBoxSurface(1, 1, 1, 4, r3.Vec{})
	require.NoError(t, err)
	origin, bigSide, levels := m.BoundingCube(0.25)
	lm, err = m.CubeMembership(origin, 0.25)
	require.NoError(t, err)
	cfg = Config{
		NumLevels:     levels,
		Origin:        origin,
		BigSideLength: bigSide,
		NGauss:        3,
		NP:            1,
	}
	leaves = LeavesOf(lm)
	return
}

// checkTree verifies the father and son links of every level and that every leaf reaches the root
func checkTree(t *testing.T, tree *Tree, nLeaves int) {
	L := tree.Config.NumLevels
	levels := make([][]Cube, L+1)
	for l := 0; l <= L; l++ {
		levels[l] = tree.Level(l)
		for i, c := range levels[l] {
			require.Equal(t, i, c.Index)
			assert.Equal(t, l, c.Level)
			assert.Equal(t, l == L, c.Leaf)
			for _, n := range c.NeighborsIndexes {
				nbr := levels[l][n]
				assert.True(t, c.IsNeighbor(nbr))
				assert.Contains(t, nbr.NeighborsIndexes, i)
			}
		}
	}
	require.Len(t, levels[0], 1)
	root := levels[0][0]
	assert.Equal(t, -1, root.FatherIndex)
	assert.Equal(t, -1, root.FatherProcNumber)
	assert.Len(t, levels[L], nLeaves)
	for l := 1; l <= L; l++ {
		var nSons int
		for _, f := range levels[l-1] {
			nSons += len(f.SonsIndexes)
		}
		assert.Equal(t, len(levels[l]), nSons)
		for i, c := range levels[l] {
			require.True(t, c.FatherIndex >= 0 && c.FatherIndex < len(levels[l-1]))
			f := levels[l-1][c.FatherIndex]
			assert.Equal(t, c.FatherNumber, f.Number)
			assert.Equal(t, f.ProcNumber, c.FatherProcNumber)
			k := -1
			for j, s := range f.SonsIndexes {
				if s == i {
					k = j
				}
			}
			require.NotEqual(t, -1, k, "cube %d of level %d missing from its father", i, l)
			assert.Equal(t, c.ProcNumber, f.SonsProcNumbers[k])
		}
	}
	for _, leaf := range levels[L] {
		c := leaf
		for c.Level > 0 {
			c = levels[c.Level-1][c.FatherIndex]
		}
		assert.Equal(t, root.Number, c.Number)
	}
}

func TestBuildBoxTree(t *testing.T) {
	cfg, lm, leaves := boxTreeInput(t)
	require.Equal(t, 3, cfg.NumLevels)
	serial, err := Build(context.Background(), cfg, lm, leaves)
	require.NoError(t, err)
	checkTree(t, serial, lm.NumberOfCubes())
	assert.Equal(t, 4, serial.NumberOfLevels())

	for _, np := range []int{3, 7} {
		cfg.NP = np
		tree, err := Build(context.Background(), cfg, lm, leaves)
		require.NoError(t, err)
		checkTree(t, tree, lm.NumberOfCubes())
		procs := make(map[int]bool)
		for l := 0; l < tree.NumberOfLevels(); l++ {
			expected, actual := serial.Level(l), tree.Level(l)
			require.Len(t, actual, len(expected))
			for i := range expected {
				e, a := expected[i], actual[i]
				assert.Equal(t, e.Number, a.Number)
				assert.Equal(t, e.Center, a.Center)
				assert.Equal(t, e.FatherIndex, a.FatherIndex)
				assert.Equal(t, e.SonsIndexes, a.SonsIndexes)
				assert.Equal(t, e.NeighborsIndexes, a.NeighborsIndexes)
				assert.Equal(t, e.RWGNumbers, a.RWGNumbers)
				assert.Equal(t, e.GaussLocatedWeightedRWG, a.GaussLocatedWeightedRWG)
				procs[a.ProcNumber] = true
			}
		}
		assert.Len(t, procs, np)
	}
}

func TestBuildLeafAnnotation(t *testing.T) {
	cfg, lm, leaves := boxTreeInput(t)
	cfg.NP = 2
	tree, err := Build(context.Background(), cfg, lm, leaves)
	require.NoError(t, err)
	var nRWG int
	for _, leaf := range tree.Level(cfg.NumLevels) {
		require.True(t, leaf.OldIndex >= 0)
		assert.Equal(t, lm.Centers[leaf.OldIndex], leaf.Center)
		assert.Len(t, leaf.GaussLocatedExpArg, leaf.NumberOfRWGs()*2*cfg.NGauss)
		// Observation points lie in, or next to, the cube of their RWG
		for j := 0; j < leaf.NumberOfRWGs(); j++ {
			for _, d := range leaf.ExpArg(j) {
				assert.LessOrEqual(t, r3.Norm(d), 0.25*2)
			}
		}
		nRWG += leaf.NumberOfRWGs()
	}
	assert.Equal(t, 3*len(mustBox(t).Triangles)/2, nRWG)
}

func mustBox(t *testing.T) *mesh.Mesh {
	m, err := mesh.NewBoxSurface(1, 1, 1, 4, r3.Vec{})
	require.NoError(t, err)
	return m
}

func TestBuildErrors(t *testing.T) {
	cfg, lm, leaves := boxTreeInput(t)
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Build(ctx, cfg, lm, leaves)
		assert.True(t, errors.Is(err, context.Canceled))
	}
	{
		bad := cfg
		bad.NumLevels = 0
		_, err := Build(context.Background(), bad, lm, leaves)
		assert.Error(t, err)
	}
	{ // Leaves beyond the root cube
		bad := cfg
		bad.BigSideLength /= 4
		_, err := Build(context.Background(), bad, lm, leaves)
		assert.Error(t, err)
	}
	{
		dup := append(append([]LeafSpec(nil), leaves...), leaves[0])
		_, err := Build(context.Background(), cfg, lm, dup)
		assert.Error(t, err)
	}
	{
		_, err := Build(context.Background(), cfg, lm, nil)
		assert.Error(t, err)
	}
	{
		bad := cfg
		bad.Partitioner = fixedPartitioner{owner: 5}
		bad.NP = 2
		_, err := Build(context.Background(), bad, lm, leaves)
		assert.Error(t, err)
	}
}

type fixedPartitioner struct{ owner int }

func (fp fixedPartitioner) AssignLeaves(leaves []Cube, NP int) (owners []int, err error) {
	owners = make([]int, len(leaves))
	for i := range owners {
		owners[i] = fp.owner
	}
	return
}

func TestBlockPartitioner(t *testing.T) {
	var leaves []Cube
	for _, n := range []int{40, 3, 17, 8, 25} {
		leaves = append(leaves, Cube{Number: n})
	}
	owners, err := BlockPartitioner{}.AssignLeaves(leaves, 2)
	require.NoError(t, err)
	// Number order 3, 8, 17 | 25, 40
	assert.Equal(t, []int{1, 0, 0, 0, 1}, owners)
	owners, err = BlockPartitioner{}.AssignLeaves(leaves, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 0, 2, 1, 3}, owners)
}
