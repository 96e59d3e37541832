// Package batch — job queue with deduplication.
// Maintains a seen set so the same input is never converted twice.
package batch

import "path/filepath"

// Queue is a FIFO of jobs keyed by their cleaned HTML path.
type Queue struct {
	items []Job
	seen  map[string]bool
	idx   int // current read position
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Add enqueues job unless its path was seen before.
func (q *Queue) Add(job Job) {
	key := filepath.Clean(job.Path)
	if q.seen[key] {
		return
	}
	q.seen[key] = true
	q.items = append(q.items, job)
}

// HasNext returns true if there are unprocessed jobs.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed job and advances the pointer.
func (q *Queue) Next() Job {
	job := q.items[q.idx]
	q.idx++
	return job
}

// Len returns the number of unique jobs queued.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns every queued job in order.
func (q *Queue) All() []Job {
	return q.items
}
