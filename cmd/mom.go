package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/InputParameters"
	"github.com/notargets/gomom/excitation"
	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/types"
)

const exampleFile = `
########################################
Title: "Plate at 3 MHz"
Frequency: 3.0e+6
EpsR: [1., 0.]
MuR: [1., 0.]
Dipole:
  Position: [0.5, 0.5, 2.]
  Moment: [1., 0., 0.]
Mesh:
  Type: plate # Can be box or pair
  Size: [1., 1., 0.]
  Cells: [8, 8]
CFIE:
  TE: [0.2, 0.]
  NE: [0., 0.]
  TH: [75.4, 0.]
  NH: [0., 0.]
Octree:
  LeafSide: 0.125
  NGauss: 6
  Partitioner: block # Can be metis
########################################
`

// processInput reads the input file named by the -I flag, exiting with an example when it is missing or invalid
func processInput(inputFile string) (ip *InputParameters.InputParametersMoM) {
	var err error
	if len(inputFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputFile)")
	} else {
		ip, err = readInput(inputFile)
	}
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	return
}

func readInput(inputFile string) (ip *InputParameters.InputParametersMoM, err error) {
	var data []byte
	if data, err = os.ReadFile(inputFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersMoM{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", inputFile, err)
	}
	return
}

// procLimit prefers the command line over the input file
func procLimit(ip *InputParameters.InputParametersMoM) int {
	if np := viper.GetInt("procLimit"); np > 0 {
		return np
	}
	return ip.ProcLimit
}

func toVec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func newMesh(ip *InputParameters.InputParametersMoM) (m *mesh.Mesh, err error) {
	var (
		mp     = ip.Mesh
		origin = toVec(mp.Origin)
	)
	switch mp.Type {
	case "plate":
		m, err = mesh.NewRectangularPlate(mp.Size[0], mp.Size[1], mp.Cells[0], mp.Cells[1], origin)
	case "box":
		m, err = mesh.NewBoxSurface(mp.Size[0], mp.Size[1], mp.Size[2], mp.Cells[0], origin)
	case "pair":
		m, err = mesh.NewTrianglePair()
	default:
		err = fmt.Errorf("unknown mesh type \"%s\"", mp.Type)
	}
	return
}

func newMedium(ip *InputParameters.InputParametersMoM) excitation.Medium {
	return excitation.NewMedium(2*math.Pi*ip.Frequency, ip.EpsR.Complex(), ip.MuR.Complex())
}

func newDipole(ip *InputParameters.InputParametersMoM) excitation.Dipole {
	d := ip.Dipole
	return excitation.Dipole{
		J: types.NewCVec3(complex(d.Moment[0], d.MomentImag[0]), complex(d.Moment[1], d.MomentImag[1]),
			complex(d.Moment[2], d.MomentImag[2])),
		R: toVec(d.Position),
	}
}

func newCFIECoefficients(ip *InputParameters.InputParametersMoM) excitation.CFIECoefficients {
	return excitation.CFIECoefficients{
		TE: ip.CFIE.TE.Complex(),
		NE: ip.CFIE.NE.Complex(),
		TH: ip.CFIE.TH.Complex(),
		NH: ip.CFIE.NH.Complex(),
	}
}
