package octree

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gomom/mesh"
	"github.com/notargets/gomom/types"
	"github.com/notargets/gomom/utils"
)

type Config struct {
	NumLevels     int // Level of the leaves, the root is level 0
	Origin        r3.Vec
	BigSideLength float64 // Side of the root cube
	NGauss        int     // Quadrature points per half RWG in the leaf tables
	NP            int     // Number of workers
	Partitioner   Partitioner
	Verbose       bool
}

func (cfg Config) SideLength(level int) float64 {
	return cfg.BigSideLength / float64(int(1)<<level)
}

// LeafSpec locates a non empty leaf cube, OldIndex being its position in the membership lists
type LeafSpec struct {
	OldIndex int
	Center   r3.Vec
}

func LeavesOf(lm *mesh.LeafMembership) (leaves []LeafSpec) {
	leaves = make([]LeafSpec, lm.NumberOfCubes())
	for i, c := range lm.Centers {
		leaves[i] = LeafSpec{OldIndex: i, Center: c}
	}
	return
}

// Shard holds the cubes owned by one worker, per level, in Index order
type Shard struct {
	Proc   int
	Levels [][]Cube
	// Headers of every cube of the level last indexed, in Index order
	directory []Cube
}

// Tree is the result of a build, kept sharded the way the workers own it
type Tree struct {
	Config Config
	Shards []*Shard
}

// Level gathers the cubes of level l from every shard into one slice where cube i has Index i
func (t *Tree) Level(l int) (cubes []Cube) {
	for _, s := range t.Shards {
		for _, c := range s.Levels[l] {
			cubes = append(cubes, c.Clone())
		}
	}
	sort.Slice(cubes, func(i, j int) bool { return cubes[i].Index < cubes[j].Index })
	return
}

func (t *Tree) NumberOfLevels() int { return t.Config.NumLevels + 1 }

// fatherNote tells the owner of a son where its father lives
type fatherNote struct {
	SonIndex, FatherIndex, FatherProc int
}

type builder struct {
	cfg     Config
	shards  []*Shard
	headers *utils.MailBox[Cube]
	notes   *utils.MailBox[fatherNote]
}

/*
Build constructs the octree level by level, from the leaves up to the single root. Every worker runs as a goroutine
owning one shard, the phases of a level are separated by barriers and cubes cross shards only as messages:

	index exchange:       cube headers are broadcast, a cube's Index is its rank in cube number order
	son scatter:          sons are sent to the owner of their father, the owner of the lowest indexed son
	father notification:  fathers report their Index and owner back to their sons

The context is checked between phases. Adoption of a son under the wrong father panics.
*/
func Build(ctx context.Context, cfg Config, m Membership, leaves []LeafSpec) (t *Tree, err error) {
	if cfg.NumLevels < 1 || cfg.NP < 1 || cfg.BigSideLength <= 0 {
		err = fmt.Errorf("tree needs at least one level below the root, one worker and a positive side, have %d, %d, %v",
			cfg.NumLevels, cfg.NP, cfg.BigSideLength)
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}
	if cfg.Partitioner == nil {
		cfg.Partitioner = BlockPartitioner{}
	}
	var leafCubes []Cube
	if leafCubes, err = buildLeaves(cfg, m, leaves); err != nil {
		return
	}
	var owners []int
	if owners, err = cfg.Partitioner.AssignLeaves(leafCubes, cfg.NP); err != nil {
		return
	}
	if len(owners) != len(leafCubes) {
		err = fmt.Errorf("partitioner assigned %d of %d leaves", len(owners), len(leafCubes))
		return
	}
	b := &builder{
		cfg:     cfg,
		shards:  make([]*Shard, cfg.NP),
		headers: utils.NewMailBox[Cube](cfg.NP),
		notes:   utils.NewMailBox[fatherNote](cfg.NP),
	}
	for np := range b.shards {
		b.shards[np] = &Shard{Proc: np, Levels: make([][]Cube, cfg.NumLevels+1)}
	}
	L := cfg.NumLevels
	for i, c := range leafCubes {
		if owners[i] < 0 || owners[i] >= cfg.NP {
			err = fmt.Errorf("leaf %d assigned to process %d of %d", c.Number, owners[i], cfg.NP)
			return
		}
		c.ProcNumber = owners[i]
		b.shards[owners[i]].Levels[L] = append(b.shards[owners[i]].Levels[L], c)
	}
	if err = b.indexLevel(ctx, L); err != nil {
		return
	}
	for l := L; l >= 1; l-- {
		if err = b.scatterSons(ctx, l); err != nil {
			return
		}
		if err = b.indexLevel(ctx, l-1); err != nil {
			return
		}
		if err = b.notifySons(ctx, l); err != nil {
			return
		}
		if cfg.Verbose {
			fmt.Printf("Level %d: %d cubes\n", l-1, len(b.shards[0].directory))
		}
	}
	if nRoot := len(b.shards[0].directory); nRoot != 1 {
		err = fmt.Errorf("%w: %d cubes at level 0", types.ErrTreeInvariantViolation, nRoot)
		return
	}
	t = &Tree{Config: cfg, Shards: b.shards}
	return
}

// buildLeaves creates and annotates the leaf cubes, split over NP goroutines
func buildLeaves(cfg Config, m Membership, leaves []LeafSpec) (cubes []Cube, err error) {
	if len(leaves) == 0 {
		err = fmt.Errorf("no leaf cubes to build a tree from")
		return
	}
	var (
		L    = cfg.NumLevels
		side = cfg.SideLength(L)
		NP   = min(cfg.NP, len(leaves))
		pm   = utils.NewPartitionMap(NP, len(leaves))
		errs = make([]error, NP)
		wg   = sync.WaitGroup{}
	)
	cubes = make([]Cube, len(leaves))
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				c := NewLeafCube(L, side, cfg.Origin, leaves[k].Center)
				c.OldIndex = leaves[k].OldIndex
				for _, x := range c.AbsoluteCartesianCoord {
					if x < 0 || x >= 1<<L {
						errs[np] = fmt.Errorf("leaf %d centered at %v lies outside the root cube", k, c.Center)
						return
					}
				}
				if errs[np] = c.ComputeGaussLocatedArguments(m, cfg.NGauss); errs[np] != nil {
					return
				}
				cubes[k] = c
			}
		}(np)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			err = e
			return
		}
	}
	seen := make(map[int]int, len(cubes))
	for k, c := range cubes {
		if prev, ok := seen[c.Number]; ok {
			err = fmt.Errorf("leaves %d and %d share cube number %d", prev, k, c.Number)
			return
		}
		seen[c.Number] = k
	}
	return
}

// parallel runs phase on every shard and returns once all of them are done
func (b *builder) parallel(ctx context.Context, phase func(s *Shard)) error {
	wg := sync.WaitGroup{}
	for _, s := range b.shards {
		wg.Add(1)
		go func(s *Shard) {
			defer wg.Done()
			phase(s)
		}(s)
	}
	wg.Wait()
	return ctx.Err()
}

func (b *builder) indexLevel(ctx context.Context, l int) (err error) {
	err = b.parallel(ctx, func(s *Shard) {
		for _, c := range s.Levels[l] {
			b.headers.PostMessageToAll(s.Proc, c.Header())
		}
		b.headers.DeliverMyMessages(s.Proc)
	})
	if err != nil {
		return
	}
	return b.parallel(ctx, func(s *Shard) {
		b.headers.ReceiveMyMessages(s.Proc)
		dir := make([]Cube, 0, len(s.Levels[l])+len(b.headers.ReceivedMessages(s.Proc)))
		for _, c := range s.Levels[l] {
			dir = append(dir, c.Header())
		}
		dir = append(dir, b.headers.ReceivedMessages(s.Proc)...)
		b.headers.ClearMyMessages(s.Proc)
		sort.Slice(dir, func(i, j int) bool { return dir[i].Number < dir[j].Number })
		index := make(map[int]int, len(dir))
		for i := range dir {
			if i > 0 && dir[i].Number == dir[i-1].Number {
				panic(fmt.Errorf("%w: cube %d at level %d owned by processes %d and %d",
					types.ErrTreeInvariantViolation, dir[i].Number, l, dir[i-1].ProcNumber, dir[i].ProcNumber))
			}
			dir[i].Index = i
			index[dir[i].Number] = i
		}
		s.directory = dir
		own := s.Levels[l]
		for k := range own {
			own[k].Index = index[own[k].Number]
			own[k].NeighborsIndexes = neighborIndexes(own[k], index)
		}
		sort.Slice(own, func(i, j int) bool { return own[i].Index < own[j].Index })
	})
}

// neighborIndexes resolves the up to 26 touching cubes of c from the cube numbers of its level
func neighborIndexes(c Cube, index map[int]int) (nbrs []int) {
	var (
		ijk = unpackNumber(c.Number, c.Level)
		n   = 1 << c.Level
	)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				x, y, z := ijk[0]+dx, ijk[1]+dy, ijk[2]+dz
				if x < 0 || y < 0 || z < 0 || x >= n || y >= n || z >= n {
					continue
				}
				if i, ok := index[packNumber([3]int{x, y, z}, c.Level)]; ok {
					nbrs = append(nbrs, i)
				}
			}
		}
	}
	sort.Ints(nbrs)
	return
}

func (b *builder) scatterSons(ctx context.Context, l int) (err error) {
	err = b.parallel(ctx, func(s *Shard) {
		// Fathers go to the owner of their lowest indexed son, known to all from the directory
		fatherOwner := make(map[int]int)
		for _, c := range s.directory {
			if _, ok := fatherOwner[c.FatherNumber]; !ok {
				fatherOwner[c.FatherNumber] = c.ProcNumber
			}
		}
		for _, c := range s.Levels[l] {
			b.headers.PostMessage(s.Proc, fatherOwner[c.FatherNumber], c.Header())
		}
		b.headers.DeliverMyMessages(s.Proc)
	})
	if err != nil {
		return
	}
	var (
		side = b.cfg.SideLength(l - 1)
	)
	return b.parallel(ctx, func(s *Shard) {
		b.headers.ReceiveMyMessages(s.Proc)
		sons := append([]Cube(nil), b.headers.ReceivedMessages(s.Proc)...)
		b.headers.ClearMyMessages(s.Proc)
		sort.Slice(sons, func(i, j int) bool { return sons[i].Index < sons[j].Index })
		SortByFather(sons)
		var fathers []Cube
		for i, son := range sons {
			if i == 0 || !SharesFather(son, sons[i-1]) {
				fathers = append(fathers, NewFatherCube(son, l-1, b.cfg.Origin, side))
				continue
			}
			fathers[len(fathers)-1].AddSon(son)
		}
		s.Levels[l-1] = fathers
	})
}

func (b *builder) notifySons(ctx context.Context, l int) (err error) {
	err = b.parallel(ctx, func(s *Shard) {
		for _, f := range s.Levels[l-1] {
			for k, sonIndex := range f.SonsIndexes {
				b.notes.PostMessage(s.Proc, f.SonsProcNumbers[k], fatherNote{
					SonIndex:    sonIndex,
					FatherIndex: f.Index,
					FatherProc:  s.Proc,
				})
			}
		}
		b.notes.DeliverMyMessages(s.Proc)
	})
	if err != nil {
		return
	}
	return b.parallel(ctx, func(s *Shard) {
		b.notes.ReceiveMyMessages(s.Proc)
		own := s.Levels[l]
		for _, note := range b.notes.ReceivedMessages(s.Proc) {
			k := sort.Search(len(own), func(i int) bool { return own[i].Index >= note.SonIndex })
			if k == len(own) || own[k].Index != note.SonIndex {
				panic(fmt.Errorf("%w: process %d does not own cube %d of level %d",
					types.ErrTreeInvariantViolation, s.Proc, note.SonIndex, l))
			}
			own[k].FatherIndex = note.FatherIndex
			own[k].FatherProcNumber = note.FatherProc
		}
		b.notes.ClearMyMessages(s.Proc)
	})
}
