package excitation

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/quadrature"
	"github.com/notargets/gomom/utils"
)

// Assembler projects the fields of a dipole onto RWG testing functions
type Assembler struct {
	Rules quadrature.RuleSet
}

func NewAssembler() *Assembler {
	return &Assembler{
		Rules: quadrature.DefaultRuleSet(),
	}
}

func gatherRWGs(basis Basis, testRWGs []int) (rwgs []mesh.RWG, err error) {
	rwgs = make([]mesh.RWG, len(testRWGs))
	for i, n := range testRWGs {
		if n < 0 || n >= basis.NumberOfRWGs() {
			err = fmt.Errorf("test RWG %d is not part of a basis of %d functions", n, basis.NumberOfRWGs())
			return
		}
		rwgs[i] = basis.RWG(n)
	}
	return
}

/*
DipoleExcitation computes the four excitation vectors of the dipole, tested with the RWGs numbered testRWGs. Each
test triangle is integrated once and its integrals are distributed to every half RWG it carries, so an RWG receives
one contribution per triangle. The output vectors must have one entry per RWG of the basis, they are overwritten.

By reciprocity the vectors of a magnetic current element follow as V_EM = -V_HJ and V_HM = eps/mu * V_EJ.
*/
func (a *Assembler) DipoleExcitation(dip Dipole, basis Basis, testRWGs []int, med Medium, out *Vectors) (err error) {
	if err = out.reset(basis.NumberOfRWGs()); err != nil {
		return
	}
	var (
		rwgs      []mesh.RWG
		triangles []mesh.Triangle
		fs        = newFieldSource(dip, med)
	)
	if rwgs, err = gatherRWGs(basis, testRWGs); err != nil {
		return
	}
	if triangles, err = mesh.ConstructTestTriangles(rwgs); err != nil {
		return
	}
	for _, tri := range triangles {
		var ti triangleIntegrals
		if ti, err = fs.integrate(tri, a.Rules.Select(tri, dip.R)); err != nil {
			return
		}
		for _, h := range tri.HalfRWGs {
			rwg := rwgs[h.RWGIndex]
			_, _, _, rp := rwg.HalfTriangle(h.IndexInRWG)
			c, n := ti.project(tri, h.Sign, rwg.Length, rp), rwg.Number
			out.TE[n] += c.TE
			out.NE[n] += c.NE
			out.TH[n] += c.TH
			out.NH[n] += c.NH
		}
	}
	return
}

/*
ParallelDipoleExcitation splits testRWGs into contiguous partitions, one goroutine each, with private output vectors
summed at the end. A triangle shared by two partitions is integrated in both. procLimit = 0 uses every CPU.
*/
func (a *Assembler) ParallelDipoleExcitation(dip Dipole, basis Basis, testRWGs []int, med Medium, out *Vectors,
	procLimit int) (err error) {
	var (
		NP = procLimit
	)
	if NP <= 0 {
		NP = runtime.NumCPU()
	}
	if NP > len(testRWGs) {
		NP = max(1, len(testRWGs))
	}
	if NP == 1 {
		return a.DipoleExcitation(dip, basis, testRWGs, med, out)
	}
	var (
		pm      = utils.NewPartitionMap(NP, len(testRWGs))
		partial = make([]*Vectors, NP)
		errs    = make([]error, NP)
		wg      = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		partial[np] = NewVectors(basis.NumberOfRWGs())
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			errs[np] = a.DipoleExcitation(dip, basis, testRWGs[kMin:kMax], med, partial[np])
			wg.Done()
		}(np)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	if err = out.reset(basis.NumberOfRWGs()); err != nil {
		return
	}
	for _, p := range partial {
		for i := range out.TE {
			out.TE[i] += p.TE[i]
			out.NE[i] += p.NE[i]
			out.TH[i] += p.TH[i]
			out.NH[i] += p.NH[i]
		}
	}
	return
}
