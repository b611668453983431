package jobs

import (
	"github.com/vytor/ringside/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	recalcPool   *worker.Pool
	recalculator worker.Recalculator
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(recalcPool *worker.Pool, recalculator worker.Recalculator) JobQueue {
	return &WorkerQueue{
		recalcPool:   recalcPool,
		recalculator: recalculator,
	}
}

func (q *WorkerQueue) EnqueueRecalculation(requestedBy string) error {
	return q.recalcPool.Submit(&worker.RecalculateJob{
		Recalculator: q.recalculator,
		RequestedBy:  requestedBy,
	})
}
