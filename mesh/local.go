package mesh

import "fmt"

// Local is the part of a mesh handled by one worker, RWGs are renumbered 0..N_local-1
type Local struct {
	parent        *Mesh
	GlobalNumbers []int // Local to global RWG numbers
}

func (m *Mesh) Local(globalRWGs []int) (l *Local, err error) {
	for _, n := range globalRWGs {
		if n < 0 || n >= len(m.RWGs) {
			err = fmt.Errorf("RWG %d is not part of a mesh with %d RWGs", n, len(m.RWGs))
			return
		}
	}
	l = &Local{
		parent:        m,
		GlobalNumbers: append([]int(nil), globalRWGs...),
	}
	return
}

func (l *Local) NumberOfRWGs() int { return len(l.GlobalNumbers) }

func (l *Local) RWG(n int) (r RWG) {
	r = l.parent.RWGs[l.GlobalNumbers[n]]
	r.Number = n
	return
}

func (l *Local) AllRWGs() (numbers []int) {
	numbers = make([]int, len(l.GlobalNumbers))
	for i := range numbers {
		numbers[i] = i
	}
	return
}
