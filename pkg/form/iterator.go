package form

import "github.com/goliatone/go-forms/pkg/control"

// Iterator is a restartable cursor over a collection. Validity is decided by
// index bounds, so it reads the live control list and never stops early.
type Iterator struct {
	collection *Collection
	index      int
}

// Iterator returns a cursor positioned before the first control.
func (c *Collection) Iterator() *Iterator {
	return &Iterator{collection: c, index: -1}
}

// Next advances the cursor and reports whether it points at a control.
func (it *Iterator) Next() bool {
	if it.index < it.collection.Len() {
		it.index++
	}
	return it.Valid()
}

// Valid reports whether the cursor is within bounds.
func (it *Iterator) Valid() bool {
	return it.index >= 0 && it.index < it.collection.Len()
}

// Index returns the current position, -1 before the first Next.
func (it *Iterator) Index() int {
	return it.index
}

// Control returns the current control, nil when out of bounds.
func (it *Iterator) Control() control.Control {
	if !it.Valid() {
		return nil
	}
	return it.collection.controls[it.index]
}

// Rewind moves the cursor back before the first control.
func (it *Iterator) Rewind() {
	it.index = -1
}
