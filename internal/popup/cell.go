// Package popup implements the floating-popup lifecycle shared by every
// contextual popup on both editing surfaces: reactive state cells, anchored
// placement, open/close transitions, dismissal and focus cycling.
package popup

// Cell is an explicit reactive state container, one per popup kind per
// editor instance. It replaces ambient global stores so multiple windows
// stay independent. All access happens on the single UI goroutine; the
// single-writer rule (one action function owns Set) is a convention, not a
// lock.
type Cell[T any] struct {
	value  T
	subs   map[int]func(T)
	nextID int
}

// NewCell returns a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subs: map[int]func(T){}}
}

// Get returns the current snapshot.
func (c *Cell[T]) Get() T { return c.value }

// Set stores v and notifies subscribers in arbitrary order.
func (c *Cell[T]) Set(v T) {
	c.value = v
	for _, fn := range c.subs {
		fn(v)
	}
}

// Update applies f to the current value and stores the result.
func (c *Cell[T]) Update(f func(T) T) {
	c.Set(f(c.value))
}

// Subscribe registers fn to run on every Set and returns a token for
// Unsubscribe.
func (c *Cell[T]) Subscribe(fn func(T)) int {
	c.nextID++
	c.subs[c.nextID] = fn
	return c.nextID
}

// Unsubscribe removes a subscription. Unknown tokens are ignored.
func (c *Cell[T]) Unsubscribe(id int) {
	delete(c.subs, id)
}
