// Package tracker records which chunks of the current chunk sequence the user
// has copied.
package tracker

import (
	"errors"
	"fmt"
	"sort"
)

// ErrIndexOutOfRange is returned when acknowledging an index outside the
// current chunk sequence.
var ErrIndexOutOfRange = errors.New("chunk index out of range")

// Tracker is a set of acknowledged chunk indices scoped to a sequence of
// Total() chunks. It is not safe for concurrent use; callers serialize access.
type Tracker struct {
	total int
	acked map[int]struct{}
}

// New returns a tracker for a sequence of total chunks.
func New(total int) *Tracker {
	t := &Tracker{}
	t.Reset(total)
	return t
}

// Reset clears every acknowledgment and rescopes the tracker to a new
// sequence of total chunks.
func (t *Tracker) Reset(total int) {
	if total < 0 {
		total = 0
	}
	t.total = total
	t.acked = make(map[int]struct{})
}

// Acknowledge marks index as copied. Acknowledging twice is a no-op.
func (t *Tracker) Acknowledge(index int) error {
	if index < 0 || index >= t.total {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, t.total)
	}
	t.acked[index] = struct{}{}
	return nil
}

func (t *Tracker) IsAcknowledged(index int) bool {
	_, ok := t.acked[index]
	return ok
}

// Count returns the number of acknowledged chunks.
func (t *Tracker) Count() int {
	return len(t.acked)
}

// Total returns the size of the sequence the tracker is scoped to.
func (t *Tracker) Total() int {
	return t.total
}

// Indices returns the acknowledged indices in ascending order.
func (t *Tracker) Indices() []int {
	out := make([]int, 0, len(t.acked))
	for i := range t.acked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
