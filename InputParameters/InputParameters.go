package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

// ComplexPair is a complex number written as [real, imaginary] in the input file
type ComplexPair [2]float64

func (cp ComplexPair) Complex() complex128 { return complex(cp[0], cp[1]) }

type DipoleParameters struct {
	Position   [3]float64 `yaml:"Position"`
	Moment     [3]float64 `yaml:"Moment"`
	MomentImag [3]float64 `yaml:"MomentImag"`
}

type MeshParameters struct {
	Type   string     `yaml:"Type"` // "plate", "box" or "pair"
	Size   [3]float64 `yaml:"Size"`
	Cells  [2]int     `yaml:"Cells"` // Plate: cells along x and y. Box: cells per face side in Cells[0]
	Origin [3]float64 `yaml:"Origin"`
}

type CFIEParameters struct {
	TE ComplexPair `yaml:"TE"`
	NE ComplexPair `yaml:"NE"`
	TH ComplexPair `yaml:"TH"`
	NH ComplexPair `yaml:"NH"`
}

type OctreeParameters struct {
	LeafSide    float64 `yaml:"LeafSide"`
	NGauss      int     `yaml:"NGauss"`
	Partitioner string  `yaml:"Partitioner"` // "block" or "metis"
}

// Parameters obtained from the YAML input file
type InputParametersMoM struct {
	Title     string           `yaml:"Title"`
	Frequency float64          `yaml:"Frequency"` // Hz
	EpsR      ComplexPair      `yaml:"EpsR"`
	MuR       ComplexPair      `yaml:"MuR"`
	Dipole    DipoleParameters `yaml:"Dipole"`
	Mesh      MeshParameters   `yaml:"Mesh"`
	CFIE      CFIEParameters   `yaml:"CFIE"`
	Octree    OctreeParameters `yaml:"Octree"`
	ProcLimit int              `yaml:"ProcLimit"`
}

// Parse reads the YAML input and fills in defaults for a vacuum medium, a 6 point leaf quadrature and blocks
func (ip *InputParametersMoM) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.EpsR == (ComplexPair{}) {
		ip.EpsR = ComplexPair{1, 0}
	}
	if ip.MuR == (ComplexPair{}) {
		ip.MuR = ComplexPair{1, 0}
	}
	if ip.Octree.NGauss == 0 {
		ip.Octree.NGauss = 6
	}
	ip.Mesh.Type = strings.ToLower(ip.Mesh.Type)
	ip.Octree.Partitioner = strings.ToLower(ip.Octree.Partitioner)
	if ip.Octree.Partitioner == "" {
		ip.Octree.Partitioner = "block"
	}
	return ip.validate()
}

func (ip *InputParametersMoM) validate() error {
	if ip.Frequency <= 0 {
		return fmt.Errorf("frequency must be positive, have %v", ip.Frequency)
	}
	switch ip.Mesh.Type {
	case "plate", "box", "pair":
	default:
		return fmt.Errorf("unknown mesh type \"%s\", choose among plate, box, pair", ip.Mesh.Type)
	}
	switch ip.Octree.Partitioner {
	case "block", "metis":
	default:
		return fmt.Errorf("unknown partitioner \"%s\", choose among block, metis", ip.Octree.Partitioner)
	}
	return nil
}

func (ip *InputParametersMoM) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%12.5e\t\t= Frequency\n", ip.Frequency)
	fmt.Printf("%v\t\t\t= EpsR\n", ip.EpsR.Complex())
	fmt.Printf("%v\t\t\t= MuR\n", ip.MuR.Complex())
	fmt.Printf("%v\t\t= Dipole Position\n", ip.Dipole.Position)
	fmt.Printf("%v + j%v\t= Dipole Moment\n", ip.Dipole.Moment, ip.Dipole.MomentImag)
	fmt.Printf("[%s] %v %v\t= Mesh\n", ip.Mesh.Type, ip.Mesh.Size, ip.Mesh.Cells)
	fmt.Printf("[%v, %v, %v, %v]\t= CFIE tE, nE, tH, nH\n",
		ip.CFIE.TE.Complex(), ip.CFIE.NE.Complex(), ip.CFIE.TH.Complex(), ip.CFIE.NH.Complex())
	fmt.Printf("%8.5f, [%d], [%s]\t= Leaf Side, NGauss, Partitioner\n",
		ip.Octree.LeafSide, ip.Octree.NGauss, ip.Octree.Partitioner)
}
