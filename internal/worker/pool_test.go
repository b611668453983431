package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string { return j.name }

func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool(2, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	var ran atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		err := pool.Submit(funcJob{name: "count", fn: func(context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		}})
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	assert.Equal(t, int32(3), ran.Load())
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	require.NoError(t, pool.Submit(funcJob{name: "fails", fn: func(context.Context) error {
		return errors.New("boom")
	}}))
	require.NoError(t, pool.Submit(funcJob{name: "panics", fn: func(context.Context) error {
		panic("boom")
	}}))

	done := make(chan struct{})
	require.NoError(t, pool.Submit(funcJob{name: "after", fn: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive earlier jobs")
	}
}

func TestPool_QueueFull(t *testing.T) {
	// not started, so nothing drains the queue
	pool := worker.NewPool(1, 1)
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}

	require.NoError(t, pool.Submit(noop))
	assert.ErrorIs(t, pool.Submit(noop), worker.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueSize())

	pool.Stop()
	assert.ErrorIs(t, pool.Submit(noop), worker.ErrPoolStopped)
	pool.Stop()
}

type fakeRecalculator struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRecalculator) RecalculateAll(context.Context) (*models.RecalculationSummary, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.RecalculationSummary{Wrestlers: 2, Matches: 5}, nil
}

func TestRecalculateJob(t *testing.T) {
	rec := &fakeRecalculator{}
	job := &worker.RecalculateJob{Recalculator: rec, RequestedBy: "test"}

	assert.Equal(t, "recalculate_ratings", job.Name())
	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(1), rec.calls.Load())

	rec.err = errors.New("db down")
	assert.EqualError(t, job.Run(context.Background()), "db down")
}
