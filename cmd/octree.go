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
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gomom/InputParameters"
	"github.com/notargets/gomom/octree"
	"github.com/notargets/gomom/octree/metispart"
	"github.com/notargets/gomom/utils"
)

// OctreeCmd represents the octree command
var OctreeCmd = &cobra.Command{
	Use:   "octree",
	Short: "Multilevel octree of the RWG functions of a mesh",
	Long: `
Assigns every RWG function to a leaf cube, annotates the leaves with their quadrature
tables and builds the tree up to its root, sharded over parallel workers,

gomom octree -I input.yaml -p 4`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("inputFile")
		ip := processInput(inputFile)
		verbose := viper.GetBool("verbose")
		if verbose {
			ip.Print()
		}
		tree, err := RunOctree(cmd.Context(), ip, procLimit(ip), verbose)
		if err != nil {
			panic(err)
		}
		PrintTree(tree)
		if verbose {
			fmt.Println(utils.GetMemUsage())
		}
	},
}

func init() {
	rootCmd.AddCommand(OctreeCmd)
	OctreeCmd.Flags().StringP("inputFile", "I", "", "YAML file for input parameters like:\n\t- Mesh\n\t- Octree")
}

func RunOctree(ctx context.Context, ip *InputParameters.InputParametersMoM, procLimit int,
	verbose bool) (tree *octree.Tree, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ip.Octree.LeafSide <= 0 {
		err = fmt.Errorf("octree needs a positive leaf side, have %v", ip.Octree.LeafSide)
		return
	}
	m, err := newMesh(ip)
	if err != nil {
		return
	}
	origin, bigSide, levels := m.BoundingCube(ip.Octree.LeafSide)
	lm, err := m.CubeMembership(origin, ip.Octree.LeafSide)
	if err != nil {
		return
	}
	cfg := octree.Config{
		NumLevels:     levels,
		Origin:        origin,
		BigSideLength: bigSide,
		NGauss:        ip.Octree.NGauss,
		NP:            procLimit,
		Verbose:       verbose,
	}
	if cfg.NP <= 0 {
		cfg.NP = runtime.NumCPU()
	}
	switch ip.Octree.Partitioner {
	case "metis":
		p := metispart.NewPartitioner()
		p.Verbose = verbose
		cfg.Partitioner = p
	default:
		cfg.Partitioner = octree.BlockPartitioner{}
	}
	return octree.Build(ctx, cfg, lm, octree.LeavesOf(lm))
}

func PrintTree(tree *octree.Tree) {
	for l := 0; l < tree.NumberOfLevels(); l++ {
		cubes := tree.Level(l)
		var nRWG int
		for _, c := range cubes {
			nRWG += c.NumberOfRWGs()
		}
		fmt.Printf("Level %d: %6d cubes, side %8.5f", l, len(cubes), tree.Config.SideLength(l))
		if l == tree.NumberOfLevels()-1 {
			fmt.Printf(", %d RWG functions", nRWG)
		}
		fmt.Println()
	}
	for _, s := range tree.Shards {
		fmt.Printf("Process %d owns %d leaves\n", s.Proc, len(s.Levels[tree.Config.NumLevels]))
	}
}
