package cmd

import (
	"context"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomom/InputParameters"
)

func TestReadInput(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(exampleFile), 0644))
	ip, err := readInput(fileName)
	require.NoError(t, err)
	ip.Print()
	assert.Equal(t, ip.Title, "Plate at 3 MHz")
	assert.Equal(t, ip.Mesh.Type, "plate")
	assert.Equal(t, ip.Mesh.Cells, [2]int{8, 8})
	assert.Equal(t, ip.Octree.NGauss, 6)
	assert.Equal(t, newCFIECoefficients(ip).TH, complex(75.4, 0))
	dip := newDipole(ip)
	assert.Equal(t, dip.J.Norm(), 1.)
	assert.Equal(t, dip.R.Z, 2.)

	_, err = readInput(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("Frequency: 1.0e+6\nMesh:\n  Type: sphere\n"), 0644))
	_, err = readInput(bad)
	require.Error(t, err)
}

func TestRunExcite(t *testing.T) {
	ip, err := parseExample()
	require.NoError(t, err)
	ip.Mesh.Cells = [2]int{4, 4}
	res, err := RunExcite(ip, 3)
	require.NoError(t, err)
	// 4x4 plate: 2*4*3 axis parallel edges and 16 diagonals
	assert.Equal(t, len(res.V.TE), 40)
	assert.Equal(t, len(res.CFIE), 40)
	cf := newCFIECoefficients(ip)
	for n := range res.CFIE {
		// open surface, only the tE term remains
		want := cf.TE * res.V.TE[n]
		require.InDelta(t, 0., cmplx.Abs(complex128(res.CFIE[n])-want), 1.e-5*cmplx.Abs(want)+1.e-12)
	}
	require.Greater(t, norm(res.V.TE), 0.)
	res.Print(3)

	serial, err := RunExcite(ip, 1)
	require.NoError(t, err)
	for n := range serial.V.TE {
		require.InDelta(t, 0., cmplx.Abs(serial.V.TE[n]-res.V.TE[n]), 1.e-13*cmplx.Abs(serial.V.TE[n])+1.e-20)
	}
}

func TestRunOctree(t *testing.T) {
	for _, partitioner := range []string{"block", "metis"} {
		ip, err := parseExample()
		require.NoError(t, err)
		ip.Mesh.Type = "box"
		ip.Mesh.Size = [3]float64{1, 1, 1}
		ip.Mesh.Cells = [2]int{4, 0}
		ip.Octree.LeafSide = 0.25
		ip.Octree.NGauss = 3
		ip.Octree.Partitioner = partitioner
		tree, err := RunOctree(context.Background(), ip, 3, false)
		require.NoError(t, err)
		assert.Equal(t, len(tree.Shards), 3)
		assert.Equal(t, len(tree.Level(0)), 1)
		var nRWG int
		for _, c := range tree.Level(tree.Config.NumLevels) {
			nRWG += c.NumberOfRWGs()
		}
		// closed box, 6 faces of 4x4 cells: E = 3F/2
		assert.Equal(t, nRWG, 3*6*2*16/2)
		PrintTree(tree)
	}

	ip, err := parseExample()
	require.NoError(t, err)
	ip.Octree.LeafSide = 0
	_, err = RunOctree(context.Background(), ip, 2, false)
	require.Error(t, err)
}

func parseExample() (ip *InputParameters.InputParametersMoM, err error) {
	ip = &InputParameters.InputParametersMoM{}
	err = ip.Parse([]byte(exampleFile))
	return
}
