package utils

// DynBuffer is an append only buffer that keeps its storage across Reset, so the message queues of a MailBox do not
// reallocate between exchange rounds
type DynBuffer[T any] struct {
	cells []T
}

func NewDynBuffer[T any](capacity int) *DynBuffer[T] {
	return &DynBuffer[T]{
		cells: make([]T, 0, capacity),
	}
}

func (db *DynBuffer[T]) Add(cell T) { db.cells = append(db.cells, cell) }

// Cells is valid until the next Add or Reset
func (db *DynBuffer[T]) Cells() []T { return db.cells }

func (db *DynBuffer[T]) Len() int { return len(db.cells) }

func (db *DynBuffer[T]) Reset() {
	var zero T
	for i := range db.cells {
		db.cells[i] = zero // release references held by pointer messages
	}
	db.cells = db.cells[:0]
}
