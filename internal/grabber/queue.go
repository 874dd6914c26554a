package grabber

import "sync"

// Queue is a FIFO of download jobs with per-item acknowledgement, in the manner of a
// task queue: every item handed out by Dequeue must be acknowledged exactly once, and Wait
// blocks until everything ever enqueued has been acknowledged.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	drained  *sync.Cond

	items   []Job
	pending int // items not yet acknowledged
}

func NewQueue() *Queue {
	q := &Queue{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends job to the tail. It never blocks.
func (q *Queue) Enqueue(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, job)
	q.pending++
	q.notEmpty.Signal()
}

// Dequeue pops the head, blocking while the queue is empty.
func (q *Queue) Dequeue() Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.notEmpty.Wait()
	}
	job := q.items[0]
	q.items[0] = Job{}
	q.items = q.items[1:]
	return job
}

// Ack marks one dequeued item as processed.
func (q *Queue) Ack() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == 0 {
		panic("grabber: Ack called more times than items were enqueued")
	}
	q.pending--
	if q.pending == 0 {
		q.drained.Broadcast()
	}
}

// Wait blocks until every enqueued item has been acknowledged.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.pending > 0 {
		q.drained.Wait()
	}
}

// Len is the number of items, stop sentinels included, not yet dequeued. Every worker takes
// exactly one sentinel after its last job, so Len reaches zero only once all workers are done.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending is the number of items not yet acknowledged.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
