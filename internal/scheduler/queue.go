package scheduler

import (
	"golang.org/x/exp/slices"
)

// JobQueue is the multiset of submitted, not-yet-started jobs.
//
// Logical order is imposed by the decision loop at decision time; physical
// insertion order is preserved across sorts (sorts are stable) so that jobs
// tied under a policy key keep submission order.
type JobQueue struct {
	jobs []*Job
}

func NewJobQueue() *JobQueue {
	return &JobQueue{}
}

func (q *JobQueue) Push(job *Job) {
	q.jobs = append(q.jobs, job)
}

func (q *JobQueue) Len() int {
	return len(q.jobs)
}

func (q *JobQueue) Empty() bool {
	return len(q.jobs) == 0
}

// Front returns the current head, or nil if the queue is empty.
func (q *JobQueue) Front() *Job {
	if len(q.jobs) == 0 {
		return nil
	}
	return q.jobs[0]
}

// Tail returns a copy of all jobs behind the head. The copy makes it safe
// to remove matched candidates from the queue while iterating.
func (q *JobQueue) Tail() []*Job {
	if len(q.jobs) <= 1 {
		return nil
	}
	return slices.Clone(q.jobs[1:])
}

// Remove deletes the job with the given id, preserving the order of the
// remaining jobs.
func (q *JobQueue) Remove(jobId string) bool {
	for i, job := range q.jobs {
		if job.Id == jobId {
			q.jobs = slices.Delete(q.jobs, i, i+1)
			return true
		}
	}
	return false
}

// SortStable stably sorts the queue under less.
func (q *JobQueue) SortStable(less func(a, b *Job) bool) {
	slices.SortStableFunc(q.jobs, less)
}

// Jobs returns the backing slice; callers must not mutate it.
func (q *JobQueue) Jobs() []*Job {
	return q.jobs
}
