package octree

import (
	"sort"

	"github.com/notargets/gomom/utils"
)

// Partitioner decides which process owns each leaf cube, owners[i] is the process of leaves[i]
type Partitioner interface {
	AssignLeaves(leaves []Cube, NP int) (owners []int, err error)
}

// BlockPartitioner hands out contiguous runs of leaves, in cube number order, with at most one leaf of imbalance
type BlockPartitioner struct{}

func (BlockPartitioner) AssignLeaves(leaves []Cube, NP int) (owners []int, err error) {
	order := make([]int, len(leaves))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return leaves[order[i]].Number < leaves[order[j]].Number })
	owners = make([]int, len(leaves))
	if len(leaves) == 0 {
		return
	}
	pm := utils.NewPartitionMap(NP, len(leaves))
	for rank, i := range order {
		owners[i], _, _ = pm.GetBucket(rank)
	}
	return
}
