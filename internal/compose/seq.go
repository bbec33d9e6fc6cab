package compose

// Seq is an incrementing request counter used to discard stale async
// results. There is no cancellation token in the editor core; an operation
// that resolves late simply finds it is no longer the most recent request
// and drops its result silently.
type Seq struct {
	n int
}

// Next claims a new request id.
func (s *Seq) Next() int {
	s.n++
	return s.n
}

// Latest reports whether id is still the most recent request.
func (s *Seq) Latest(id int) bool {
	return id == s.n
}
