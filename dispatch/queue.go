// Implements the pending queue, which holds all studies awaiting assignment
// within a run. Studies are enqueued by the snapshot loader in priority
// order and removed as the loop commits them.

package dispatch

import (
	"fmt"
	"strings"
)

// PendingQueue is the ordered pool of studies not yet assigned. The
// assignment loop scans it each iteration for the global-best feasible pair.
type PendingQueue struct {
	queue []*Study
}

// NewPendingQueue wraps an already ordered study slice.
func NewPendingQueue(studies []*Study) *PendingQueue {
	q := &PendingQueue{queue: make([]*Study, len(studies))}
	copy(q.queue, studies)
	return q
}

// Len returns the number of studies still pending.
func (q *PendingQueue) Len() int {
	return len(q.queue)
}

// Items returns the queue contents for iteration. The returned slice is the
// queue's internal storage -- callers may iterate over it but MUST NOT
// append to or reslice it; removal goes through RemoveAt.
func (q *PendingQueue) Items() []*Study {
	return q.queue
}

// RemoveAt removes and returns the study at position i, preserving the
// order of the rest.
func (q *PendingQueue) RemoveAt(i int) *Study {
	if i < 0 || i >= len(q.queue) {
		panic(fmt.Sprintf("RemoveAt: index %d out of range [0,%d)", i, len(q.queue)))
	}
	s := q.queue[i]
	q.queue = append(q.queue[:i], q.queue[i+1:]...)
	return s
}

func (q *PendingQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, s := range q.queue {
		sb.WriteString(fmt.Sprint(s))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
