package control

import (
	"container/heap"
	"context"
	"time"
)

// Task is a unit of periodic work owned by the scheduler. The scheduler
// enforces the cadence: after a task completes, its next run is queued at
// completion time plus Interval, so execution latency stretches the
// effective period rather than piling up runs.
type Task interface {
	ID() string
	Interval() time.Duration
	Cycle(ctx context.Context)
}

type entry struct {
	runAt time.Time
	seq   uint64
	task  Task
}

// entryQueue is a min-heap ordered by due time, insertion order breaking
// ties so tasks seeded together run in registration order.
type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].runAt.Equal(q[j].runAt) {
		return q[i].seq < q[j].seq
	}

	return q[i].runAt.Before(q[j].runAt)
}

func (q entryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *entryQueue) Push(x any) {
	*q = append(*q, x.(*entry))
}

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return e
}

// Scheduler runs all tasks on a single cooperative flow: exactly one
// cycle executes at a time, earliest due first. Cycles never overlap, so
// domain state and arbitration need no locking.
type Scheduler struct {
	queue entryQueue
	seq   uint64
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewScheduler() *Scheduler {
	return NewSchedulerWithClock(time.Now, sleepFor)
}

// NewSchedulerWithClock injects the time source and sleep function, so
// the queue discipline is testable without real time passing.
func NewSchedulerWithClock(
	now func() time.Time,
	sleep func(ctx context.Context, d time.Duration) error,
) *Scheduler {
	s := &Scheduler{now: now, sleep: sleep}
	heap.Init(&s.queue)

	return s
}

func sleepFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Add seeds a task with an immediate first run. Tasks added before Run
// all fire once, in registration order, before any task runs twice.
func (s *Scheduler) Add(task Task) {
	heap.Push(&s.queue, &entry{runAt: s.now(), seq: s.seq, task: task})
	s.seq++
}

// Run executes the queue until the context is canceled. It never returns
// under normal operation; the process is expected to run indefinitely.
func (s *Scheduler) Run(ctx context.Context) error {
	for s.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		next := s.queue[0]
		if wait := next.runAt.Sub(s.now()); wait > 0 {
			if err := s.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		e := heap.Pop(&s.queue).(*entry)
		e.task.Cycle(ctx)

		heap.Push(&s.queue, &entry{runAt: s.now().Add(e.task.Interval()), seq: s.seq, task: e.task})
		s.seq++
	}

	return nil
}
