package state

// Queue is a reusable FIFO queue. Consumed slots at the front are reclaimed
// when they make up at least half of the backing slice.
type Queue[T any] struct {
	items []T
	head  int
}

// NewQueue creates a queue with an optional capacity hint.
func NewQueue[T any](capacity int) Queue[T] {
	if capacity <= 0 {
		return Queue[T]{}
	}
	return Queue[T]{items: make([]T, 0, capacity)}
}

// Push appends one value at the back.
func (q *Queue[T]) Push(value T) {
	if q.head > 0 && q.head >= len(q.items)/2 {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.items = append(q.items, value)
}

// Pop removes and returns the front value.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q == nil || q.head >= len(q.items) {
		return zero, false
	}
	value := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return value, true
}

// Peek returns the front value without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	var zero T
	if q == nil || q.head >= len(q.items) {
		return zero, false
	}
	return q.items[q.head], true
}

// Len reports the number of queued values.
func (q *Queue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items) - q.head
}

// Items returns the queued values in FIFO order.
func (q *Queue[T]) Items() []T {
	if q == nil {
		return nil
	}
	return q.items[q.head:]
}

// Reset clears the queue while retaining capacity.
func (q *Queue[T]) Reset() {
	if q == nil {
		return
	}
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}

// Drop clears the queue and releases backing storage.
func (q *Queue[T]) Drop() {
	if q == nil {
		return
	}
	q.items = nil
	q.head = 0
}
