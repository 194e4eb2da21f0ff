/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gomom/InputParameters"
	"github.com/notargets/gomom/excitation"
	"github.com/notargets/gomom/utils"
)

// ExciteCmd represents the excite command
var ExciteCmd = &cobra.Command{
	Use:   "excite",
	Short: "Excitation vectors of a dipole tested with the RWG functions of a mesh",
	Long: `
Computes the tE, nE, tH and nH excitation vectors of an elementary electric dipole,
and their CFIE combination,

gomom excite -I input.yaml -n 10`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("inputFile")
		nPrint, _ := cmd.Flags().GetInt("print")
		ip := processInput(inputFile)
		if viper.GetBool("verbose") {
			ip.Print()
		}
		res, err := RunExcite(ip, procLimit(ip))
		if err != nil {
			panic(err)
		}
		res.Print(nPrint)
	},
}

func init() {
	rootCmd.AddCommand(ExciteCmd)
	ExciteCmd.Flags().StringP("inputFile", "I", "", "YAML file for input parameters like:\n\t- Frequency\n\t- Dipole\n\t- Mesh")
	ExciteCmd.Flags().IntP("print", "n", 10, "number of RWG entries to print")
}

type ExciteResult struct {
	V    *excitation.Vectors
	CFIE []complex64
}

func RunExcite(ip *InputParameters.InputParametersMoM, procLimit int) (res *ExciteResult, err error) {
	m, err := newMesh(ip)
	if err != nil {
		return
	}
	var (
		a   = excitation.NewAssembler()
		dip = newDipole(ip)
		med = newMedium(ip)
	)
	res = &ExciteResult{
		V:    excitation.NewVectors(m.NumberOfRWGs()),
		CFIE: make([]complex64, m.NumberOfRWGs()),
	}
	if err = a.ParallelDipoleExcitation(dip, m, m.AllRWGs(), med, res.V, procLimit); err != nil {
		return
	}
	if err = a.CFIE(newCFIECoefficients(ip), dip, m, m.AllRWGs(), med, res.CFIE); err != nil {
		return
	}
	if utils.IsNan(res.V.TE) || utils.IsNan(res.CFIE) {
		err = fmt.Errorf("NaN in excitation of dipole at %v", dip.R)
	}
	return
}

func norm(v []complex128) (n float64) {
	for _, c := range v {
		a := cmplx.Abs(c)
		n += a * a
	}
	return math.Sqrt(n)
}

func (res *ExciteResult) Print(nPrint int) {
	v := res.V
	fmt.Printf("%d RWG functions\n", len(v.TE))
	fmt.Printf("|V_tE| = %12.5e, |V_nE| = %12.5e, |V_tH| = %12.5e, |V_nH| = %12.5e\n",
		norm(v.TE), norm(v.NE), norm(v.TH), norm(v.NH))
	for n := 0; n < min(nPrint, len(v.TE)); n++ {
		fmt.Printf("[%5d] tE %10.3e nE %10.3e tH %10.3e nH %10.3e CFIE %10.3e\n", n,
			v.TE[n], v.NE[n], v.TH[n], v.NH[n], complex128(res.CFIE[n]))
	}
}
